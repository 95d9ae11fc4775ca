package httpapi

import (
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
// Default remains 1 MiB.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// predictTimeout bounds a single /predict or /run request.
// Zero means no additional timeout beyond server/connection timeouts.
var predictTimeout time.Duration

// SetPredictTimeout sets the per-request prediction timeout (0 disables).
func SetPredictTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	predictTimeout = d
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

// limiter throttles /predict and /run; nil disables rate limiting.
var limiter *rate.Limiter

// SetRateLimit installs a token bucket of rps requests per second with the
// given burst. rps <= 0 disables limiting.
func SetRateLimit(rps float64, burst int) {
	if rps <= 0 {
		limiter = nil
		return
	}
	if burst <= 0 {
		burst = 1
	}
	limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// shutdownFn is invoked by POST /shutdown after the response is written.
var shutdownFn func()

// SetShutdownFunc installs the function called by POST /shutdown.
func SetShutdownFunc(fn func()) { shutdownFn = fn }
