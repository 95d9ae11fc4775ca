package manager

import (
	"fmt"
	"net/http"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   func(error) bool
		code int
	}{
		{"too busy", tooBusyError{reason: "queue full"}, IsTooBusy, http.StatusTooManyRequests},
		{"not ready", notReadyError{state: StateLoading}, IsNotReady, http.StatusServiceUnavailable},
		{"bad job", ErrBadJob("nope"), IsBadJob, http.StatusBadRequest},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("outer: %w", tc.err)
		if !tc.is(wrapped) {
			t.Fatalf("%s: classification lost through wrapping", tc.name)
		}
		sc, ok := tc.err.(interface{ StatusCode() int })
		if !ok || sc.StatusCode() != tc.code {
			t.Fatalf("%s: status code mismatch", tc.name)
		}
	}
	if IsTooBusy(ErrBadJob("x")) || IsBadJob(notReadyError{}) {
		t.Fatalf("classification must not cross types")
	}
}

func TestOutputMissingMessage(t *testing.T) {
	err := outputMissingError{path: "/tmp/out/results.json"}
	if err.Error() != `expected model output was not written: "/tmp/out/results.json"` {
		t.Fatalf("message=%q", err.Error())
	}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("status=%d", err.StatusCode())
	}
}
