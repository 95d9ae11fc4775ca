package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"modelsvc/internal/model"
)

// stubModel is a configurable in-memory model used for tests.
type stubModel struct {
	initErr       error
	initPanic     bool
	predictErr    error
	panicOn       string
	validatePanic bool
	block         chan struct{} // when non-nil, Predict waits for it to close
	entered       chan struct{} // when non-nil, Predict signals entry
	inits         atomic.Int32
	predicts      atomic.Int32
}

var stubSpecs = []model.FieldSpec{
	{Name: "text", Type: model.TypeString, Required: true},
	{Name: "threshold", Type: model.TypeNumber, Required: true, Min: model.Float64(0), Max: model.Float64(1)},
}

func (s *stubModel) Initialize(ctx context.Context) error {
	s.inits.Add(1)
	if s.initPanic {
		panic("bad artifact")
	}
	return s.initErr
}

func (s *stubModel) Validate(raw map[string]any) (model.Request, error) {
	if s.validatePanic {
		panic("validate exploded")
	}
	return model.ValidateFields(stubSpecs, raw, false)
}

func (s *stubModel) Predict(ctx context.Context, req model.Request) (model.Result, error) {
	s.predicts.Add(1)
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, model.Failed("canceled", ctx.Err())
		}
	}
	text := req.String("text")
	if s.panicOn != "" && text == s.panicOn {
		panic("boom")
	}
	if s.predictErr != nil {
		return nil, s.predictErr
	}
	score := float64(len(text)%10) / 10
	label := "negative"
	if score >= req.Float("threshold") {
		label = "positive"
	}
	return model.Result{"label": label, "score": score, "echo": text}, nil
}

func (s *stubModel) Describe() model.Metadata {
	return model.Metadata{Name: "stub", Version: "0.1.0", Inputs: stubSpecs}
}

func newReadyManager(t *testing.T, s *stubModel, cfg ManagerConfig) *Manager {
	t.Helper()
	cfg.Model = s
	if cfg.Name == "" {
		cfg.Name = "stub"
	}
	m := NewWithConfig(cfg)
	if err := m.Initialize(testCtx(t)); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return m
}

func writeJSONFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

var errBackend = errors.New("backend unreachable")

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}
