package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"modelsvc/internal/common/fsutil"
	"modelsvc/internal/model"
	"modelsvc/pkg/types"
)

// JobTypeFile is the only supported job type.
const JobTypeFile = "file"

// RunJob executes a file job: the input files named by the metadata are read
// from job.Input, scored, and the result is written under job.Output.
func (m *Manager) RunJob(ctx context.Context, job types.JobRequest) error {
	if job.Type != JobTypeFile {
		return ErrBadJob(`this model job configuration only supports the "file" type`)
	}
	if job.Input == nil {
		return ErrBadJob("this model job configuration expects an input filepath")
	}
	if job.Output == nil {
		return ErrBadJob("this model job configuration expects an output filepath")
	}
	if err := os.MkdirAll(*job.Output, 0o755); err != nil {
		return ErrBadJob(fmt.Sprintf("unable to create output directory: %q", *job.Output))
	}
	if st := m.State(); st != StateReady {
		return notReadyError{state: st}
	}
	inputs, err := joinAbs(*job.Input, m.md.Inputs.Names())
	if err != nil {
		return ErrBadJob(err.Error())
	}
	for _, p := range inputs {
		if !fsutil.PathExists(p) {
			return ErrBadJob(fmt.Sprintf("expected input file does not exist: %q", p))
		}
	}
	outputs, err := joinAbs(*job.Output, m.md.Outputs.Names())
	if err != nil {
		return ErrBadJob(err.Error())
	}
	m.log.Info().Strs("inputs", inputs).Strs("outputs", outputs).Str("model", m.name).Msg("running file job")
	return m.RunFiles(ctx, inputs, outputs)
}

// RunFiles reads a JSON object from each input file (later files override
// earlier keys), predicts, and writes the result as JSON to the first output.
// Every output must exist afterwards.
func (m *Manager) RunFiles(ctx context.Context, inputs, outputs []string) error {
	if len(inputs) == 0 || len(outputs) == 0 {
		return ErrBadJob("at least one input and one output file are required")
	}
	raw := make(map[string]any)
	for _, p := range inputs {
		b, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				return ErrBadJob(fmt.Sprintf("unable to read input file %q: %v", p, err))
			}
			return fmt.Errorf("read %s: %w", p, err)
		}
		var obj map[string]any
		if err := json.Unmarshal(b, &obj); err != nil || obj == nil {
			return &model.ValidationError{Msg: fmt.Sprintf("input file %q must contain a JSON object", filepath.Base(p))}
		}
		for k, v := range obj {
			raw[k] = v
		}
	}
	res, err := m.Predict(ctx, raw)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return model.Failed("encode result", err)
	}
	if err := os.WriteFile(outputs[0], append(b, '\n'), 0o644); err != nil {
		return ErrBadJob(fmt.Sprintf("unable to write output file %q: %v", outputs[0], err))
	}
	for _, p := range outputs {
		if !fsutil.PathExists(p) {
			return outputMissingError{path: p}
		}
	}
	return nil
}

func joinAbs(dir string, names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		p, err := filepath.Abs(filepath.Join(dir, n))
		if err != nil {
			return nil, fmt.Errorf("abs path: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}
