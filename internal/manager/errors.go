package manager

import (
	"errors"
	"net/http"
)

// tooBusyError signals admission timeout/overflow for 429 mapping.
type tooBusyError struct{ reason string }

func (e tooBusyError) Error() string   { return "too busy: " + e.reason }
func (e tooBusyError) StatusCode() int { return http.StatusTooManyRequests }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	var e tooBusyError
	return errors.As(err, &e)
}

// notReadyError is returned while the model is not in the ready state.
type notReadyError struct{ state State }

func (e notReadyError) Error() string   { return "model not ready: " + string(e.state) }
func (e notReadyError) StatusCode() int { return http.StatusServiceUnavailable }

// IsNotReady reports whether err indicates the model cannot serve yet (503).
func IsNotReady(err error) bool {
	var e notReadyError
	return errors.As(err, &e)
}

// badJobError signals an invalid file job configuration (400).
type badJobError struct{ msg string }

func (e badJobError) Error() string   { return e.msg }
func (e badJobError) StatusCode() int { return http.StatusBadRequest }

// ErrBadJob constructs a badJobError.
func ErrBadJob(msg string) error { return badJobError{msg: msg} }

// IsBadJob reports whether err indicates a malformed job request.
func IsBadJob(err error) bool {
	var e badJobError
	return errors.As(err, &e)
}

// outputMissingError is returned when a job finished without writing an
// expected output file.
type outputMissingError struct{ path string }

func (e outputMissingError) Error() string {
	return "expected model output was not written: \"" + e.path + "\""
}
func (e outputMissingError) StatusCode() int { return http.StatusInternalServerError }
