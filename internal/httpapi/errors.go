package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"modelsvc/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps a service error to an HTTP status. Our own deadline wins over
// the error's code so that timeouts surface as 504.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes the {message, statusCode, status} envelope.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.MessageResponse{Message: msg, StatusCode: status, Status: http.StatusText(status)})
}

// writeMessage is writeJSONError for non-error outcomes.
func writeMessage(w http.ResponseWriter, status int, msg string) { writeJSONError(w, status, msg) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
