package textscore

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// artifact is the on-disk weights file. YAML is accepted, and therefore JSON.
type artifact struct {
	Name    string             `yaml:"name"`
	Version string             `yaml:"version"`
	Bias    float64            `yaml:"bias"`
	Weights map[string]float64 `yaml:"weights"`
	Labels  struct {
		Positive string `yaml:"positive"`
		Negative string `yaml:"negative"`
	} `yaml:"labels"`
}

// state is the read-only model state built by Initialize.
type state struct {
	bias     float64
	weights  map[string]float64
	positive string
	negative string
	version  string
}

func loadArtifact(path string) (*artifact, error) {
	if path == "" {
		return nil, fmt.Errorf("artifact path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a artifact
	if err := yaml.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", path, err)
	}
	if math.IsNaN(a.Bias) || math.IsInf(a.Bias, 0) {
		return nil, fmt.Errorf("artifact %s: bias must be finite", path)
	}
	if len(a.Weights) == 0 {
		return nil, fmt.Errorf("artifact %s: no weights", path)
	}
	return &a, nil
}

func newState(a *artifact) (*state, error) {
	s := &state{
		bias:     a.Bias,
		weights:  make(map[string]float64, len(a.Weights)),
		positive: a.Labels.Positive,
		negative: a.Labels.Negative,
		version:  a.Version,
	}
	if s.positive == "" {
		s.positive = "positive"
	}
	if s.negative == "" {
		s.negative = "negative"
	}
	if s.positive == s.negative {
		return nil, fmt.Errorf("labels must differ, both are %q", s.positive)
	}
	for tok, w := range a.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("weight for %q must be finite", tok)
		}
		s.weights[normalize(tok)] += w
	}
	return s, nil
}
