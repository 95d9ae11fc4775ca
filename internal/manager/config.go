package manager

import (
	"time"

	"github.com/rs/zerolog"

	"modelsvc/internal/metadata"
	"modelsvc/internal/model"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
	defaultDrainTimeout  = 10 * time.Second
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Model is the unloaded contract implementation to serve.
	Model model.Contract
	// Name identifies the model in logs and events before Describe is
	// available.
	Name string
	// Metadata supplies the file job layout. Defaults to metadata.Default().
	Metadata *metadata.Metadata
	// MaxConcurrency bounds simultaneous Predict calls; 0 means unlimited
	// and disables admission queueing.
	MaxConcurrency int
	MaxQueueDepth  int
	MaxWait        time.Duration
	DrainTimeout   time.Duration
	Publisher      EventPublisher
	Logger         *zerolog.Logger
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		state:     StateUnloaded,
		mdl:       cfg.Model,
		name:      cfg.Name,
		md:        cfg.Metadata,
		publisher: cfg.Publisher,
		initDone:  make(chan struct{}),
		startTime: time.Now(),
	}
	if m.name == "" {
		m.name = "model"
	}
	if m.md == nil {
		m.md = metadata.Default()
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if cfg.Logger != nil {
		m.log = *cfg.Logger
	} else {
		m.log = zerolog.Nop()
	}
	// Apply defaults if unset
	if cfg.MaxQueueDepth <= 0 {
		m.maxQueueDepth = defaultMaxQueueDepth
	} else {
		m.maxQueueDepth = cfg.MaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		m.maxWait = defaultMaxWait
	} else {
		m.maxWait = cfg.MaxWait
	}
	if cfg.DrainTimeout <= 0 {
		m.drainTimeout = defaultDrainTimeout
	} else {
		m.drainTimeout = cfg.DrainTimeout
	}
	if cfg.MaxConcurrency > 0 {
		m.maxConcurrency = cfg.MaxConcurrency
		m.genCh = make(chan struct{}, cfg.MaxConcurrency)
		m.queueCh = make(chan struct{}, cfg.MaxConcurrency+m.maxQueueDepth)
	}
	if len(m.md.Outputs) > 1 {
		m.log.Warn().Strs("outputs", m.md.Outputs.Names()).Msg("file jobs write the result to the first output only")
	}
	return m
}
