// Package app binds one model factory to the HTTP API and runs it: listen,
// initialize the model once, serve until stopped, then drain and shut down.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"modelsvc/internal/config"
	"modelsvc/internal/httpapi"
	"modelsvc/internal/manager"
	"modelsvc/internal/metadata"
	"modelsvc/internal/model"
)

// App is a ready-to-run service for a single model.
type App struct {
	cfg config.Config
	md  *metadata.Metadata
	log zerolog.Logger
	ln  net.Listener

	mgr     *manager.Manager
	handler http.Handler
	srv     *http.Server

	stop     chan struct{}
	stopOnce sync.Once
}

// Option customizes New.
type Option func(*App)

// WithConfig sets the service configuration. Unset fields take defaults.
func WithConfig(cfg config.Config) Option { return func(a *App) { a.cfg = cfg } }

// WithMetadata sets the model.yaml content. Defaults to metadata.Default().
func WithMetadata(md *metadata.Metadata) Option { return func(a *App) { a.md = md } }

// WithLogger sets the logger used by the app, manager and HTTP layer.
func WithLogger(l zerolog.Logger) Option { return func(a *App) { a.log = l } }

// WithListener serves on ln instead of listening on the configured address.
func WithListener(ln net.Listener) Option { return func(a *App) { a.ln = ln } }

// New builds the model through factory and wires it to the HTTP API. The
// model is not initialized until Run.
func New(factory model.Factory, opts ...Option) (*App, error) {
	a := &App{log: zerolog.Nop(), stop: make(chan struct{})}
	for _, o := range opts {
		o(a)
	}
	a.cfg = a.cfg.WithDefaults()
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if a.md == nil {
		a.md = metadata.Default()
	}
	if factory == nil {
		return nil, errors.New("no model factory")
	}
	mdl, err := factory()
	if err != nil {
		return nil, fmt.Errorf("build model %s: %w", a.cfg.Model, err)
	}

	a.mgr = manager.NewWithConfig(manager.ManagerConfig{
		Model:          mdl,
		Name:           a.cfg.Model,
		Metadata:       a.md,
		MaxConcurrency: a.cfg.MaxConcurrency,
		MaxQueueDepth:  a.cfg.MaxQueueDepth,
		MaxWait:        a.cfg.MaxWait.Duration,
		DrainTimeout:   a.cfg.ShutdownGrace.Duration,
		Publisher:      manager.NewLogPublisher(a.log),
		Logger:         &a.log,
	})
	if err := a.configureHTTP(); err != nil {
		return nil, err
	}
	a.handler = httpapi.NewMux(a.mgr)
	a.srv = &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// configureHTTP applies the settings of the HTTP layer. A configured predict
// timeout wins over the longest timeout declared in model.yaml.
func (a *App) configureHTTP() error {
	httpapi.SetLogger(a.log)
	httpapi.SetMaxBodyBytes(a.cfg.MaxBodyBytes)
	httpapi.SetRequestLogLevel(a.cfg.RequestLog)
	httpapi.SetCORSOptions(a.cfg.CORSEnabled, a.cfg.CORSAllowedOrigins, a.cfg.CORSAllowedMethods, a.cfg.CORSAllowedHeaders)
	httpapi.SetRateLimit(a.cfg.RateLimitRPS, a.cfg.RateLimitBurst)
	httpapi.SetShutdownFunc(a.Shutdown)
	timeout := a.cfg.PredictTimeout.Duration
	if timeout == 0 {
		d, err := a.md.MaxTimeout()
		if err != nil {
			return fmt.Errorf("model.yaml timeout: %w", err)
		}
		timeout = d
	}
	httpapi.SetPredictTimeout(timeout)
	return nil
}

// Handler returns the HTTP handler, for tests and embedding.
func (a *App) Handler() http.Handler { return a.handler }

// Manager returns the manager guarding the model.
func (a *App) Manager() *manager.Manager { return a.mgr }

// Shutdown asks Run to stop. Safe to call more than once and from handlers.
func (a *App) Shutdown() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// Run listens, initializes the model and serves until ctx is done or Shutdown
// is called. An initialization failure stops the server and is returned as a
// *model.InitializationError.
func (a *App) Run(ctx context.Context) error {
	ln := a.ln
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", a.cfg.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", a.cfg.Addr, err)
		}
	}
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	serveErr := make(chan error, 1)
	go func() { serveErr <- a.srv.Serve(ln) }()
	a.log.Info().Str("addr", ln.Addr().String()).Str("model", a.cfg.Model).Msg("modelsvc listening")

	if err := a.mgr.Initialize(ctx); err != nil {
		a.log.Error().Err(err).Msg("model failed to initialize; shutting down")
		a.shutdownServer(cancelBase)
		return err
	}

	select {
	case <-ctx.Done():
		a.log.Info().Msg("context canceled; shutting down")
	case <-a.stop:
		a.log.Info().Msg("shutdown requested")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGrace.Duration)
	defer cancel()
	if n := a.mgr.Drain(drainCtx); n > 0 {
		a.log.Warn().Int64("inflight", n).Msg("shutting down with predictions in flight")
	}
	return a.shutdownServer(cancelBase)
}

func (a *App) shutdownServer(cancelBase context.CancelFunc) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGrace.Duration)
	defer cancel()
	err := a.srv.Shutdown(ctx)
	cancelBase()
	if err != nil {
		a.log.Error().Err(err).Msg("graceful shutdown error")
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
