package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports caller-supplied input that failed schema or domain
// checks. It maps to 422 Unprocessable Entity.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Msg
	}
	return fmt.Sprintf("validation failed: %q %s", e.Field, e.Msg)
}

func (e *ValidationError) StatusCode() int { return http.StatusUnprocessableEntity }

// Invalid constructs a ValidationError for the named field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// InferenceError reports that the model executed but could not produce a
// result. Unavailable marks a missing downstream dependency (503) rather than a
// failure of the model itself (500).
type InferenceError struct {
	Msg         string
	Unavailable bool
	Err         error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return "inference failed: " + e.Msg + ": " + e.Err.Error()
	}
	return "inference failed: " + e.Msg
}

func (e *InferenceError) Unwrap() error { return e.Err }

func (e *InferenceError) StatusCode() int {
	if e.Unavailable {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Failed constructs an InferenceError wrapping err (which may be nil).
func Failed(msg string, err error) error { return &InferenceError{Msg: msg, Err: err} }

// InitializationError is fatal: the model could not be loaded and the service
// must not report readiness.
type InitializationError struct {
	Model string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize %s: %v", e.Model, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

func (e *InitializationError) StatusCode() int { return http.StatusServiceUnavailable }

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInference reports whether err is or wraps an *InferenceError.
func IsInference(err error) bool {
	var ie *InferenceError
	return errors.As(err, &ie)
}

// IsInitialization reports whether err is or wraps an *InitializationError.
func IsInitialization(err error) bool {
	var ie *InitializationError
	return errors.As(err, &ie)
}
