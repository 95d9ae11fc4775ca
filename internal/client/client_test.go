package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"modelsvc/pkg/types"
)

func fakeService(t *testing.T, statusCode int, runCode int, gotJob *types.JobRequest) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(types.StatusResponse{MessageResponse: types.MessageResponse{Message: "ready", StatusCode: statusCode, Status: http.StatusText(statusCode)}, State: "ready"})
	})
	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		if gotJob != nil {
			_ = json.NewDecoder(r.Body).Decode(gotJob)
		}
		w.WriteHeader(runCode)
		_ = json.NewEncoder(w).Encode(types.MessageResponse{Message: "success", StatusCode: runCode, Status: http.StatusText(runCode)})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestNewDefaultsScheme(t *testing.T) {
	c, err := New("localhost:8080/base/")
	if err != nil { t.Fatalf("new: %v", err) }
	if got := c.endpoint(StatusRoute); got != "http://localhost:8080/base/status" { t.Fatalf("endpoint=%s", got) }
	if _, err := New("  "); err == nil { t.Fatalf("empty url accepted") }
	if _, err := New("http://"); err == nil { t.Fatalf("url without host accepted") }
}

func TestRunJobPostsFileJob(t *testing.T) {
	var job types.JobRequest
	ts := fakeService(t, http.StatusOK, http.StatusOK, &job)
	c, err := New(ts.URL)
	if err != nil { t.Fatalf("new: %v", err) }
	msg, err := c.RunJob(context.Background(), "/data/in", "/data/out")
	if err != nil { t.Fatalf("run job: %v", err) }
	if msg.Message != "success" { t.Fatalf("message=%q", msg.Message) }
	if job.Type != "file" || job.Input == nil || *job.Input != "/data/in" || job.Output == nil || *job.Output != "/data/out" {
		t.Fatalf("job=%+v", job)
	}
}

func TestRunJobStopsWhenNotReady(t *testing.T) {
	var job types.JobRequest
	ts := fakeService(t, http.StatusServiceUnavailable, http.StatusOK, &job)
	c, _ := New(ts.URL)
	_, err := c.RunJob(context.Background(), "/in", "/out")
	if !errors.Is(err, ErrUnexpectedStatus) { t.Fatalf("got %v", err) }
	if job.Type != "" { t.Fatalf("job posted despite unhealthy status") }
}

func TestPostJobNonSuccess(t *testing.T) {
	ts := fakeService(t, http.StatusOK, http.StatusBadRequest, nil)
	c, _ := New(ts.URL)
	_, err := c.PostJob(context.Background(), "/in", "/out")
	if !errors.Is(err, ErrUnexpectedStatus) || !strings.Contains(err.Error(), "400") { t.Fatalf("got %v", err) }
}

func TestInvalidJSONAndConnectErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("<html>")) }))
	defer ts.Close()
	c, _ := New(ts.URL)
	if _, err := c.Status(context.Background()); err == nil || !strings.Contains(err.Error(), "invalid json") { t.Fatalf("got %v", err) }

	ts.Close()
	if _, err := c.Status(context.Background()); err == nil || !strings.Contains(err.Error(), "unable to connect") { t.Fatalf("got %v", err) }
}

func TestWaitReady(t *testing.T) {
	ts := fakeService(t, http.StatusOK, http.StatusOK, nil)
	c, _ := New(ts.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.WaitReady(ctx, 10*time.Millisecond); err != nil { t.Fatalf("wait: %v", err) }

	down := fakeService(t, http.StatusServiceUnavailable, http.StatusOK, nil)
	c2, _ := New(down.URL)
	ctx2, cancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel2()
	if err := c2.WaitReady(ctx2, 10*time.Millisecond); err == nil { t.Fatalf("expected timeout") }
}
