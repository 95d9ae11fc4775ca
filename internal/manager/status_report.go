package manager

import (
	"net/http"
	"time"

	"modelsvc/internal/metadata"
	"modelsvc/internal/model"
	"modelsvc/pkg/types"
)

// Status builds the response for GET /status. It never touches Predict.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	state, info, initErr := m.state, m.info, m.initErr
	m.mu.RUnlock()

	resp := types.StatusResponse{
		State:          string(state),
		UptimeSeconds:  int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
		Predictions: types.PredictionCounts{
			OK:       m.okTotal.Load(),
			Invalid:  m.invalidTotal.Load(),
			Failed:   m.failedTotal.Load(),
			Rejected: m.rejectedTotal.Load(),
		},
		Inflight:       int(m.inflight.Load()),
		QueueLen:       m.queueLen(),
		MaxConcurrency: m.maxConcurrency,
	}
	code := http.StatusServiceUnavailable
	switch state {
	case StateReady:
		code = http.StatusOK
		resp.Message = "ready"
		resp.Model = info
	case StateLoading:
		resp.Message = "model is loading"
	case StateError:
		resp.Message = "model failed to initialize"
		if initErr != nil {
			resp.LastError = initErr.Error()
		}
	default:
		resp.Message = "model is not loaded"
	}
	resp.StatusCode = code
	resp.Status = http.StatusText(code)
	return resp
}

// Describe returns the model metadata computed once at initialization.
func (m *Manager) Describe() (types.ModelInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateReady || m.info == nil {
		return types.ModelInfo{}, notReadyError{state: m.state}
	}
	return *m.info, nil
}

func modelInfo(d model.Metadata, md *metadata.Metadata) types.ModelInfo {
	info := types.ModelInfo{
		Name:        d.Name,
		Version:     d.Version,
		Description: d.Description,
		Inputs:      fieldInfos(d.Inputs),
		Outputs:     fieldInfos(d.Outputs),
		Extra:       d.Extra,
	}
	if md != nil {
		info.InputFiles = md.Inputs.Names()
		info.OutputFiles = md.Outputs.Names()
	}
	return info
}

func fieldInfos(specs []model.FieldSpec) []types.FieldInfo {
	out := make([]types.FieldInfo, 0, len(specs))
	for _, s := range specs {
		out = append(out, types.FieldInfo{
			Name:        s.Name,
			Type:        string(s.Type),
			Required:    s.Required,
			Description: s.Description,
			Min:         s.Min,
			Max:         s.Max,
			Enum:        s.Enum,
			MaxLen:      s.MaxLen,
		})
	}
	return out
}
