package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modelsvc/internal/model"
)

// Initialize runs the model's Initialize exactly once. Later calls block until
// the first one finishes and return its outcome. On failure the manager moves
// to StateError, which is terminal: the model never serves predictions.
func (m *Manager) Initialize(ctx context.Context) error {
	m.once.Do(func() {
		defer close(m.initDone)
		m.mu.Lock()
		m.state = StateLoading
		m.mu.Unlock()
		m.emit(EventInitializeStart)
		m.log.Info().Str("model", m.name).Msg("initializing model")

		start := time.Now()
		err := m.safeInitialize(ctx)
		if err != nil {
			ierr := &model.InitializationError{Model: m.name, Err: err}
			m.mu.Lock()
			m.state = StateError
			m.initErr = ierr
			m.mu.Unlock()
			m.emit(EventInitializeFailed, "error", err.Error())
			m.log.Error().Err(err).Str("model", m.name).Dur("dur", time.Since(start)).Msg("model initialization failed")
			return
		}
		info := modelInfo(m.mdl.Describe(), m.md)
		m.mu.Lock()
		m.info = &info
		m.state = StateReady
		m.mu.Unlock()
		m.emit(EventReady, "version", info.Version)
		m.log.Info().Str("model", info.Name).Str("version", info.Version).Dur("dur", time.Since(start)).Msg("model ready")
	})
	<-m.initDone
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initErr
}

func (m *Manager) safeInitialize(ctx context.Context) (err error) {
	if m.mdl == nil {
		return errors.New("no model configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return m.mdl.Initialize(ctx)
}
