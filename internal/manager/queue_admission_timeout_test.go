package manager

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestAdmissionTimeoutTooBusy(t *testing.T) {
	s := &stubModel{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	m := newReadyManager(t, s, ManagerConfig{MaxConcurrency: 1, MaxQueueDepth: 1, MaxWait: 30 * time.Millisecond})
	defer close(s.block)

	go func() { _, _ = m.Predict(context.Background(), map[string]any{"text": "a", "threshold": 0.1}) }()
	<-s.entered

	_, err := m.Predict(context.Background(), map[string]any{"text": "b", "threshold": 0.1})
	if !IsTooBusy(err) { t.Fatalf("expected too busy, got %v", err) }
	var he interface{ StatusCode() int }
	if !errors.As(err, &he) || he.StatusCode() != http.StatusTooManyRequests { t.Fatalf("status mapping: %v", err) }
	if m.Status().Predictions.Rejected != 1 { t.Fatalf("rejected counter=%d", m.Status().Predictions.Rejected) }
}

func TestAdmissionQueueFull(t *testing.T) {
	s := &stubModel{block: make(chan struct{}), entered: make(chan struct{}, 2)}
	m := newReadyManager(t, s, ManagerConfig{MaxConcurrency: 1, MaxQueueDepth: 1, MaxWait: 2 * time.Second})

	go func() { _, _ = m.Predict(context.Background(), map[string]any{"text": "a", "threshold": 0.1}) }()
	<-s.entered
	// second request occupies the single queue slot
	go func() { _, _ = m.Predict(context.Background(), map[string]any{"text": "b", "threshold": 0.1}) }()
	deadline := time.Now().Add(time.Second)
	for m.queueLen() < 1 && time.Now().Before(deadline) { time.Sleep(time.Millisecond) }
	if m.queueLen() != 1 { t.Fatalf("queue len=%d", m.queueLen()) }

	_, err := m.Predict(context.Background(), map[string]any{"text": "c", "threshold": 0.1})
	if !IsTooBusy(err) { t.Fatalf("expected queue full rejection, got %v", err) }
	close(s.block)
}

func TestAdmissionCanceledContext(t *testing.T) {
	m := newReadyManager(t, &stubModel{}, ManagerConfig{MaxConcurrency: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Predict(ctx, map[string]any{"text": "a", "threshold": 0.1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
