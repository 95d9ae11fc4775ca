package manager

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"modelsvc/internal/model"
)

// Predict validates raw and, when it is valid, scores it. Validation failures
// never reach the model's Predict. Errors are always typed: a
// *model.ValidationError, a *model.InferenceError, or one of this package's
// not-ready / too-busy errors.
func (m *Manager) Predict(ctx context.Context, raw map[string]any) (model.Result, error) {
	if st := m.State(); st != StateReady {
		m.rejectedTotal.Add(1)
		return nil, notReadyError{state: st}
	}
	req, err := m.safeValidate(raw)
	if model.IsInference(err) {
		m.failedTotal.Add(1)
		m.emit(EventPredictFailed, "error", err.Error())
		return nil, err
	}
	if err != nil {
		m.invalidTotal.Add(1)
		if !model.IsValidation(err) {
			err = &model.ValidationError{Msg: err.Error()}
		}
		return nil, err
	}
	release, err := m.admit(ctx)
	if err != nil {
		m.rejectedTotal.Add(1)
		return nil, err
	}
	defer release()

	start := time.Now()
	res, err := m.safePredict(ctx, req)
	if err == nil && res == nil {
		err = model.Failed("model returned no result", nil)
	}
	if err != nil {
		m.failedTotal.Add(1)
		if !model.IsInference(err) {
			err = model.Failed("model error", err)
		}
		m.log.Error().Err(err).Str("model", m.name).Dur("dur", time.Since(start)).Msg("predict failed")
		m.emit(EventPredictFailed, "error", err.Error())
		return nil, err
	}
	m.okTotal.Add(1)
	return res, nil
}

// safePredict converts a panic in the model into an InferenceError so that a
// defective model cannot take the process down.
func (m *Manager) safePredict(ctx context.Context, req model.Request) (res model.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Str("model", m.name).Str("stack", string(debug.Stack())).Msgf("panic in predict: %v", r)
			res, err = nil, model.Failed("panic", fmt.Errorf("%v", r))
		}
	}()
	return m.mdl.Predict(ctx, req)
}

func (m *Manager) safeValidate(raw map[string]any) (req model.Request, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Str("model", m.name).Str("stack", string(debug.Stack())).Msgf("panic in validate: %v", r)
			req, err = model.Request{}, model.Failed("panic in validate", fmt.Errorf("%v", r))
		}
	}()
	return m.mdl.Validate(raw)
}
