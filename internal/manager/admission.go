package manager

import (
	"context"
	"time"
)

// admit reserves a queue slot and then one of the prediction slots. Returns a
// release func to be deferred. Without a concurrency limit it only tracks the
// in-flight count.
func (m *Manager) admit(ctx context.Context) (func(), error) {
	if m.draining.Load() {
		return func() {}, tooBusyError{reason: "draining"}
	}
	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	if m.genCh == nil {
		m.inflight.Add(1)
		return func() { m.inflight.Add(-1) }, nil
	}

	// Try to reserve a queue slot; a full queue is rejected immediately.
	select {
	case m.queueCh <- struct{}{}:
	default:
		return func() {}, tooBusyError{reason: "queue full"}
	}

	// Wait to acquire a prediction slot
	acquired := false
	defer func() {
		if !acquired {
			<-m.queueCh
		}
	}()
	timer := time.NewTimer(m.maxWait)
	defer timer.Stop()
	select {
	case m.genCh <- struct{}{}:
		acquired = true
		m.inflight.Add(1)
		return func() {
			m.inflight.Add(-1)
			<-m.genCh
			<-m.queueCh
		}, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{reason: "admission wait exceeded"}
	}
}

// queueLen returns the number of calls waiting for a prediction slot.
func (m *Manager) queueLen() int {
	if m.queueCh == nil {
		return 0
	}
	n := len(m.queueCh) - len(m.genCh)
	if n < 0 {
		return 0
	}
	return n
}
