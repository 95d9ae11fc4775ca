// Package registry maps model names to constructors. The service binds exactly
// one of them, chosen by the "model" setting.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"modelsvc/internal/metadata"
	"modelsvc/internal/model"
)

// ErrUnknownModel is returned by Lookup for names that were never registered.
var ErrUnknownModel = errors.New("unknown model")

// Options are the settings passed to a Constructor.
type Options struct {
	// ArtifactPath is a file, or a directory holding "<name>.yaml".
	ArtifactPath string
	Metadata     *metadata.Metadata
	Strict       bool
}

// Constructor builds an unloaded model from options.
type Constructor func(Options) (model.Contract, error)

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Constructor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Constructor)}
}

// Register adds c under name. Names are unique.
func (r *Registry) Register(name string, c Constructor) error {
	if name == "" || c == nil {
		return fmt.Errorf("register: name and constructor are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[name]; dup {
		return fmt.Errorf("register %q: already registered", name)
	}
	r.entries[name] = c
	return nil
}

// MustRegister is Register for package initialization; it panics on error.
func (r *Registry) MustRegister(name string, c Constructor) {
	if err := r.Register(name, c); err != nil {
		panic(err)
	}
}

// Lookup returns the constructor registered under name.
func (r *Registry) Lookup(name string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownModel, name, r.namesLocked())
	}
	return c, nil
}

// Names lists registered models in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	out := make([]string, 0, len(r.entries))
	for n := range r.entries {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Factory resolves the artifact for name and returns a model.Factory that
// builds the model with opts.
func (r *Registry) Factory(name string, opts Options) (model.Factory, error) {
	c, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if opts.ArtifactPath != "" {
		p, err := ResolveArtifact(opts.ArtifactPath, name)
		if err != nil {
			return nil, err
		}
		opts.ArtifactPath = p
	}
	return func() (model.Contract, error) { return c(opts) }, nil
}
