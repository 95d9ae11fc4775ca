package registry

import (
	"modelsvc/internal/model"
	"modelsvc/internal/model/textscore"
)

// Default returns a registry holding the models built into this binary.
func Default() *Registry {
	r := New()
	r.MustRegister(textscore.Name, func(o Options) (model.Contract, error) {
		return textscore.New(textscore.Options{ArtifactPath: o.ArtifactPath, Metadata: o.Metadata, Strict: o.Strict}), nil
	})
	return r
}
