package manager

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"modelsvc/internal/model"
)

func TestNewManagerStartsUnloaded(t *testing.T) {
	m := New(&stubModel{}, "stub")
	if m.State() != StateUnloaded { t.Fatalf("state=%s", m.State()) }
	if m.Ready() { t.Fatalf("should not be ready before Initialize") }
	st := m.Status()
	if st.StatusCode != http.StatusServiceUnavailable || st.Model != nil { t.Fatalf("unexpected status: %+v", st) }
	if _, err := m.Describe(); !IsNotReady(err) { t.Fatalf("describe before ready: %v", err) }
}

func TestInitializeOnce(t *testing.T) {
	s := &stubModel{}
	m := New(s, "stub")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Initialize(context.Background()); err != nil { t.Errorf("initialize: %v", err) }
		}()
	}
	wg.Wait()
	if n := s.inits.Load(); n != 1 { t.Fatalf("model initialized %d times", n) }
	if !m.Ready() { t.Fatalf("expected ready") }
	st := m.Status()
	if st.StatusCode != http.StatusOK || st.Message != "ready" || st.Model == nil || st.Model.Name != "stub" {
		t.Fatalf("unexpected status: %+v", st)
	}
	select {
	case <-m.Done():
	default:
		t.Fatalf("Done not closed")
	}
}

func TestInitializeFailureIsTerminal(t *testing.T) {
	s := &stubModel{initErr: errors.New("open weights.yaml: no such file or directory")}
	m := New(s, "stub")
	err := m.Initialize(context.Background())
	if !model.IsInitialization(err) { t.Fatalf("expected InitializationError, got %v", err) }
	if m.State() != StateError || m.Ready() { t.Fatalf("state=%s", m.State()) }
	// second call returns the same outcome without retrying
	if err2 := m.Initialize(context.Background()); err2 != err { t.Fatalf("second Initialize returned %v", err2) }
	if s.inits.Load() != 1 { t.Fatalf("inits=%d", s.inits.Load()) }
	st := m.Status()
	if st.StatusCode != http.StatusServiceUnavailable || !strings.Contains(st.LastError, "weights.yaml") { t.Fatalf("status=%+v", st) }

	_, perr := m.Predict(context.Background(), map[string]any{"text": "hello", "threshold": 0.5})
	if !IsNotReady(perr) { t.Fatalf("predict after failed init: %v", perr) }
	if s.predicts.Load() != 0 { t.Fatalf("predict reached the model") }
}

func TestInitializePanicBecomesError(t *testing.T) {
	m := New(&stubModel{initPanic: true}, "stub")
	err := m.Initialize(context.Background())
	if !model.IsInitialization(err) || !strings.Contains(err.Error(), "panic") { t.Fatalf("got %v", err) }
}

func TestInitializeWithoutModel(t *testing.T) {
	m := NewWithConfig(ManagerConfig{})
	if err := m.Initialize(context.Background()); !model.IsInitialization(err) { t.Fatalf("got %v", err) }
}

func TestPredictMissingFieldNeverReachesModel(t *testing.T) {
	s := &stubModel{}
	m := newReadyManager(t, s, ManagerConfig{})
	_, err := m.Predict(testCtx(t), map[string]any{"text": "hello"})
	var ve *model.ValidationError
	if !errors.As(err, &ve) || ve.Field != "threshold" { t.Fatalf("expected validation error on threshold, got %v", err) }
	if s.predicts.Load() != 0 { t.Fatalf("predict invoked %d times", s.predicts.Load()) }
	if m.Status().Predictions.Invalid != 1 { t.Fatalf("invalid counter not incremented") }
}

func TestPredictDeterministic(t *testing.T) {
	m := newReadyManager(t, &stubModel{}, ManagerConfig{})
	in := map[string]any{"text": "hello", "threshold": 0.5}
	a, err := m.Predict(testCtx(t), in)
	if err != nil { t.Fatalf("predict: %v", err) }
	b, err := m.Predict(testCtx(t), in)
	if err != nil { t.Fatalf("predict: %v", err) }
	if !reflect.DeepEqual(a, b) { t.Fatalf("results differ: %v vs %v", a, b) }
	if m.Status().Predictions.OK != 2 { t.Fatalf("ok counter=%d", m.Status().Predictions.OK) }
}

func TestPredictConcurrentNoInterference(t *testing.T) {
	m := newReadyManager(t, &stubModel{}, ManagerConfig{MaxConcurrency: 4, MaxQueueDepth: 64})
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text := fmt.Sprintf("req-%d", i)
			res, err := m.Predict(context.Background(), map[string]any{"text": text, "threshold": 0.5})
			if err != nil { errs <- err; return }
			if res["echo"] != text { errs <- fmt.Errorf("request %q got result for %v", text, res["echo"]) }
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs { t.Fatal(err) }
}

func TestPredictInferenceErrorTyped(t *testing.T) {
	pub := NewMemoryPublisher()
	m := newReadyManager(t, &stubModel{predictErr: errBackend}, ManagerConfig{Publisher: pub})
	_, err := m.Predict(testCtx(t), map[string]any{"text": "x", "threshold": 0.1})
	if !model.IsInference(err) || !errors.Is(err, errBackend) { t.Fatalf("expected wrapped inference error, got %v", err) }
	if m.Status().Predictions.Failed != 1 { t.Fatalf("failed counter") }
	found := false
	for _, n := range pub.Names() { if n == "predict_failed" { found = true } }
	if !found { t.Fatalf("predict_failed not published: %v", pub.Names()) }
}

func TestPredictPanicRecovered(t *testing.T) {
	m := newReadyManager(t, &stubModel{panicOn: "explode"}, ManagerConfig{})
	_, err := m.Predict(testCtx(t), map[string]any{"text": "explode", "threshold": 0.1})
	if !model.IsInference(err) { t.Fatalf("expected inference error from panic, got %v", err) }
	// still serving afterwards
	if _, err := m.Predict(testCtx(t), map[string]any{"text": "fine", "threshold": 0.1}); err != nil { t.Fatalf("predict after panic: %v", err) }
}

func TestValidatePanicRecovered(t *testing.T) {
	s := &stubModel{validatePanic: true}
	m := newReadyManager(t, s, ManagerConfig{})
	_, err := m.Predict(testCtx(t), map[string]any{"text": "hi", "threshold": 0.1})
	if !model.IsInference(err) { t.Fatalf("expected inference error from validate panic, got %v", err) }
	if s.predicts.Load() != 0 { t.Fatalf("model predict ran after validate panic") }
	if got := m.Status().Predictions.Failed; got != 1 { t.Fatalf("failed counter=%d", got) }
	s.validatePanic = false
	if _, err := m.Predict(testCtx(t), map[string]any{"text": "fine", "threshold": 0.1}); err != nil { t.Fatalf("predict after panic: %v", err) }
}

func TestEventsPublishedOnInitialize(t *testing.T) {
	pub := NewMemoryPublisher()
	m := NewWithConfig(ManagerConfig{Model: &stubModel{}, Name: "stub", Publisher: pub})
	if err := m.Initialize(context.Background()); err != nil { t.Fatalf("init: %v", err) }
	got := pub.Names()
	if !reflect.DeepEqual(got, []string{"initialize_start", "ready"}) { t.Fatalf("events=%v", got) }
}

func TestDescribeComputedOnce(t *testing.T) {
	m := newReadyManager(t, &stubModel{}, ManagerConfig{})
	info, err := m.Describe()
	if err != nil { t.Fatalf("describe: %v", err) }
	if info.Name != "stub" || info.Version != "0.1.0" || len(info.Inputs) != 2 { t.Fatalf("info=%+v", info) }
	if info.InputFiles[0] != "input.json" || info.OutputFiles[0] != "results.json" { t.Fatalf("default files missing: %+v", info) }
}

func TestDrainRejectsNewWork(t *testing.T) {
	s := &stubModel{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	m := newReadyManager(t, s, ManagerConfig{DrainTimeout: time.Second})
	done := make(chan error, 1)
	go func() {
		_, err := m.Predict(context.Background(), map[string]any{"text": "slow", "threshold": 0.1})
		done <- err
	}()
	<-s.entered
	drained := make(chan int64, 1)
	go func() { drained <- m.Drain(context.Background()) }()
	// wait for draining flag, then verify rejection
	deadline := time.Now().Add(time.Second)
	for !m.draining.Load() && time.Now().Before(deadline) { time.Sleep(time.Millisecond) }
	if _, err := m.Predict(context.Background(), map[string]any{"text": "late", "threshold": 0.1}); !IsTooBusy(err) {
		t.Fatalf("expected too busy while draining, got %v", err)
	}
	close(s.block)
	if err := <-done; err != nil { t.Fatalf("in-flight predict: %v", err) }
	if n := <-drained; n != 0 { t.Fatalf("drain left %d in flight", n) }
}
