package manager

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"modelsvc/internal/metadata"
	"modelsvc/internal/model"
	"modelsvc/pkg/types"
)

type Manager struct {
	mu      sync.RWMutex
	state   State
	initErr error
	info    *types.ModelInfo

	mdl  model.Contract
	name string
	md   *metadata.Metadata

	once     sync.Once
	initDone chan struct{}

	publisher EventPublisher
	log       zerolog.Logger

	// Admission; genCh and queueCh are nil when concurrency is unlimited.
	maxConcurrency int
	maxQueueDepth  int
	maxWait        time.Duration
	genCh          chan struct{}
	queueCh        chan struct{}

	draining     atomic.Bool
	inflight     atomic.Int64
	drainTimeout time.Duration

	okTotal       atomic.Uint64
	invalidTotal  atomic.Uint64
	failedTotal   atomic.Uint64
	rejectedTotal atomic.Uint64

	startTime time.Time
}

// New constructs a Manager for mdl with package defaults.
func New(mdl model.Contract, name string) *Manager {
	return NewWithConfig(ManagerConfig{Model: mdl, Name: name})
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Ready reports whether Initialize has completed successfully.
func (m *Manager) Ready() bool { return m.State() == StateReady }

// Done is closed once Initialize has finished, successfully or not.
func (m *Manager) Done() <-chan struct{} { return m.initDone }

// Name returns the configured model name.
func (m *Manager) Name() string { return m.name }

// Metadata returns the file job layout.
func (m *Manager) Metadata() *metadata.Metadata { return m.md }

// SetEventPublisher replaces the event publisher. It must be called before
// Initialize.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	m.publisher = p
}
