package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"

	"modelsvc/internal/httpapi"
	"modelsvc/internal/manager"
	"modelsvc/internal/metadata"
	"modelsvc/internal/model"
	"modelsvc/internal/registry"
)

// repoRoot returns the module root, where model.yaml and models/ live.
func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok { t.Fatal("runtime.Caller failed") }
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

// shippedModel builds the textscore model from the repository's artifacts.
func shippedModel(t *testing.T) (model.Contract, *metadata.Metadata) {
	t.Helper()
	root := repoRoot(t)
	md, err := metadata.Load(filepath.Join(root, "model.yaml"))
	if err != nil { t.Fatalf("model.yaml: %v", err) }
	factory, err := registry.Default().Factory("textscore", registry.Options{ArtifactPath: filepath.Join(root, "models"), Metadata: md})
	if err != nil { t.Fatalf("factory: %v", err) }
	mdl, err := factory()
	if err != nil { t.Fatalf("build: %v", err) }
	return mdl, md
}

// newServer initializes mdl behind a manager configured by cfg and serves it.
func newServer(t *testing.T, mdl model.Contract, md *metadata.Metadata, cfg manager.ManagerConfig) (*httptest.Server, *manager.Manager) {
	t.Helper()
	cfg.Model, cfg.Metadata = mdl, md
	if cfg.Name == "" {
		cfg.Name = "textscore"
	}
	mgr := manager.NewWithConfig(cfg)
	if err := mgr.Initialize(context.Background()); err != nil { t.Fatalf("initialize: %v", err) }
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil { t.Fatalf("new req: %v", err) }
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do req: %v", err) }
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil { t.Fatalf("new req: %v", err) }
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do req: %v", err) }
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

// gatedModel holds every Predict call until gate is closed.
type gatedModel struct {
	model.Contract
	gate    chan struct{}
	entered chan struct{}
}

func (g *gatedModel) Predict(ctx context.Context, req model.Request) (model.Result, error) {
	g.entered <- struct{}{}
	select {
	case <-g.gate:
	case <-ctx.Done():
		return nil, model.Failed("canceled", ctx.Err())
	}
	return g.Contract.Predict(ctx, req)
}

func newUninitialized(t *testing.T, mgr *manager.Manager) string {
	t.Helper()
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	return srv.URL
}
