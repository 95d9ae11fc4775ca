package manager

import (
	"context"
	"time"
)

// Drain stops admitting new predictions and waits up to the drain timeout (or
// until ctx is done) for in-flight calls to finish. It returns the number of
// calls still running when it gave up.
func (m *Manager) Drain(ctx context.Context) int64 {
	m.draining.Store(true)
	m.emit(EventDrainStart)

	deadline := time.NewTimer(m.drainTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for {
		n := m.inflight.Load()
		if n == 0 {
			m.emit(EventDrainDone)
			return 0
		}
		select {
		case <-tick.C:
		case <-deadline.C:
			m.emit(EventDrainTimeout, "inflight", n)
			m.log.Warn().Int64("inflight", n).Msg("drain timed out")
			return n
		case <-ctx.Done():
			return m.inflight.Load()
		}
	}
}
