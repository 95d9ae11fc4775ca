// Package model defines the contract a model implementation must satisfy to be
// served by the generic prediction HTTP layer, along with the value and error
// types that cross that boundary.
//
// A Contract is constructed unloaded, initialized exactly once by the manager,
// and then shared by every concurrent request. Implementations must not mutate
// their state after Initialize returns.
package model

import "context"

// Contract is the capability set a pluggable model provides.
type Contract interface {
	// Initialize loads artifacts (weights, vocabularies, thresholds). It is
	// called once before any Validate or Predict call. A returned error is
	// fatal for the process.
	Initialize(ctx context.Context) error
	// Validate checks presence, type and domain of the raw input fields and
	// returns an immutable Request. It must not run inference. Failures are
	// reported as *ValidationError.
	Validate(raw map[string]any) (Request, error)
	// Predict scores a validated request. It must be a pure function of the
	// model state and the request; failures are reported as *InferenceError.
	Predict(ctx context.Context, req Request) (Result, error)
	// Describe returns static metadata computed during Initialize.
	Describe() Metadata
}

// Factory constructs an unloaded Contract implementation.
type Factory func() (Contract, error)
