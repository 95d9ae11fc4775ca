// Package textscore is the model bound by the service: a bag-of-words
// logistic scorer. Each token of the input text contributes a learned weight;
// the sum plus a bias goes through the logistic function to give a score in
// [0,1], and the caller-supplied threshold decides the label.
package textscore

import (
	"context"
	"math"
	"strconv"

	"modelsvc/internal/metadata"
	"modelsvc/internal/model"
)

// Name is the registry name of this model.
const Name = "textscore"

// DefaultMaxTextLen bounds the input text length in characters.
const DefaultMaxTextLen = 10000

// Options configures a Model. Zero values select defaults.
type Options struct {
	// ArtifactPath is the weights file loaded by Initialize.
	ArtifactPath string
	// Metadata, when set, overrides name, version and description.
	Metadata *metadata.Metadata
	// Strict rejects unknown request fields instead of ignoring them.
	Strict     bool
	MaxTextLen int
}

// Model implements model.Contract.
type Model struct {
	opts  Options
	specs []model.FieldSpec
	st    *state
	desc  model.Metadata
}

var _ model.Contract = (*Model)(nil)

// New returns an unloaded Model.
func New(opts Options) *Model {
	if opts.MaxTextLen <= 0 {
		opts.MaxTextLen = DefaultMaxTextLen
	}
	specs := []model.FieldSpec{
		{Name: "text", Type: model.TypeString, Required: true, MaxLen: opts.MaxTextLen, Description: "text to score"},
		{Name: "threshold", Type: model.TypeNumber, Required: true, Min: model.Float64(0), Max: model.Float64(1), Description: "decision threshold for the positive label"},
	}
	return &Model{
		opts:  opts,
		specs: specs,
		desc:  model.Metadata{Name: Name, Inputs: specs},
	}
}

// Factory adapts New to a model.Factory.
func Factory(opts Options) model.Factory {
	return func() (model.Contract, error) { return New(opts), nil }
}

// Initialize loads the weights artifact and freezes the model metadata.
func (m *Model) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a, err := loadArtifact(m.opts.ArtifactPath)
	if err != nil {
		return err
	}
	st, err := newState(a)
	if err != nil {
		return err
	}
	desc := model.Metadata{
		Name:    Name,
		Version: st.version,
		Inputs:  m.specs,
		Outputs: []model.FieldSpec{
			{Name: "label", Type: model.TypeString, Required: true, Enum: []string{st.positive, st.negative}},
			{Name: "score", Type: model.TypeNumber, Required: true, Min: model.Float64(0), Max: model.Float64(1)},
		},
		Extra: map[string]string{
			"artifact":        m.opts.ArtifactPath,
			"vocabulary_size": strconv.Itoa(len(st.weights)),
			"strict_fields":   strconv.FormatBool(m.opts.Strict),
		},
	}
	if a.Name != "" {
		desc.Extra["artifact_name"] = a.Name
	}
	if md := m.opts.Metadata; md != nil {
		if md.Name != "" {
			desc.Name = md.Name
		}
		if md.Version != "" {
			desc.Version = md.Version
		}
		desc.Description = md.Description
	}
	if desc.Version == "" {
		desc.Version = "0.0.0"
	}
	m.st = st
	m.desc = desc
	return nil
}

// Validate requires a non-empty "text" and a "threshold" in [0,1].
func (m *Model) Validate(raw map[string]any) (model.Request, error) {
	return model.ValidateFields(m.specs, raw, m.opts.Strict)
}

// Predict scores the request text.
func (m *Model) Predict(ctx context.Context, req model.Request) (model.Result, error) {
	st := m.st
	if st == nil {
		return nil, &model.InferenceError{Msg: "model not initialized", Unavailable: true}
	}
	if err := ctx.Err(); err != nil {
		return nil, model.Failed("request canceled", err)
	}
	z := st.bias
	for _, tok := range tokenize(req.String("text")) {
		z += st.weights[tok]
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return nil, model.Failed("score overflow", nil)
	}
	score := 1 / (1 + math.Exp(-z))
	label := st.negative
	if score >= req.Float("threshold") {
		label = st.positive
	}
	return model.Result{"label": label, "score": score}, nil
}

// Describe returns the metadata frozen by Initialize.
func (m *Model) Describe() model.Metadata { return m.desc }
