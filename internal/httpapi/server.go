package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelsvc/internal/model"
	"modelsvc/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Status() types.StatusResponse
	Describe() (types.ModelInfo, error)
	Predict(ctx context.Context, raw map[string]any) (model.Result, error)
	RunJob(ctx context.Context, job types.JobRequest) error
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		methods := corsAllowedMethods
		if len(methods) == 0 {
			methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: methods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	// @Summary  Model status
	// @Tags     model
	// @Produce  json
	// @Success  200 {object} types.StatusResponse
	// @Failure  503 {object} types.StatusResponse
	// @Router   /status [get]
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		st := svc.Status()
		code := st.StatusCode
		if code == 0 {
			code = http.StatusOK
		}
		writeJSON(w, code, st)
	})

	// @Summary  Model metadata
	// @Tags     model
	// @Produce  json
	// @Success  200 {object} types.ModelInfo
	// @Failure  503 {object} types.MessageResponse
	// @Router   /describe [get]
	r.Get("/describe", func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.Describe()
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, info)
	})

	// @Summary  Score one input
	// @Tags     model
	// @Accept   json
	// @Produce  json
	// @Param    body body object true "model input fields"
	// @Success  200 {object} types.PredictResponse
	// @Failure  400 {object} types.MessageResponse
	// @Failure  415 {object} types.MessageResponse
	// @Failure  422 {object} types.MessageResponse
	// @Failure  429 {object} types.MessageResponse
	// @Failure  500 {object} types.MessageResponse
	// @Failure  503 {object} types.MessageResponse
	// @Router   /predict [post]
	r.With(rateLimited).Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		if !requireJSON(w, r) {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var raw map[string]any
		obj, err := readJSONObject(r.Body)
		if err == nil {
			dec := json.NewDecoder(bytes.NewReader(obj))
			dec.UseNumber()
			err = dec.Decode(&raw)
		}
		if err != nil {
			// MaxBytesReader errors also land here; report 400 without size details
			writeJSONError(w, http.StatusBadRequest, "request body must be a JSON object")
			return
		}

		lvl := requestLogLevel(r)
		logStart(r, lvl, "predict")
		logDebug(r, lvl, "predict input", "input", raw)
		ctx, cancel := workContext(r)
		defer cancel()
		start := time.Now()
		res, err := svc.Predict(ctx, raw)
		if err != nil {
			// If context was canceled (client disconnect or shutdown), just return.
			if clientGone(r) {
				return
			}
			status := statusFor(err)
			if status == http.StatusTooManyRequests {
				IncrementBackpressure("admission")
			}
			observePrediction(status, time.Since(start))
			writeJSONError(w, status, errorMessage(status, err))
			logEnd(r, lvl, "predict", status, start, err)
			return
		}
		observePrediction(http.StatusOK, time.Since(start))
		resp := types.PredictResponse{Result: res}
		if info, err := svc.Describe(); err == nil {
			resp.Model, resp.Version = info.Name, info.Version
		}
		logDebug(r, lvl, "predict result", "result", res)
		writeJSON(w, http.StatusOK, resp)
		logEnd(r, lvl, "predict", http.StatusOK, start, nil)
	})

	// @Summary  Run a file job
	// @Tags     model
	// @Accept   json
	// @Produce  json
	// @Param    body body types.JobRequest true "job"
	// @Success  200 {object} types.MessageResponse
	// @Failure  400 {object} types.MessageResponse
	// @Failure  415 {object} types.MessageResponse
	// @Failure  422 {object} types.MessageResponse
	// @Failure  500 {object} types.MessageResponse
	// @Failure  503 {object} types.MessageResponse
	// @Router   /run [post]
	r.With(rateLimited).Post("/run", func(w http.ResponseWriter, r *http.Request) {
		// The body is parsed regardless of Content-Type; the media type only
		// decides between 415 and 400 when it is not a JSON object.
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		obj, err := readJSONObject(r.Body)
		if err != nil {
			if !isJSONContentType(r) {
				writeJSONError(w, http.StatusUnsupportedMediaType, `expected "application/json" encoded data`)
				return
			}
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		var job types.JobRequest
		if err := json.Unmarshal(obj, &job); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid job configuration")
			return
		}

		lvl := requestLogLevel(r)
		logStart(r, lvl, "run")
		logDebug(r, lvl, "run job", "job", job)
		ctx, cancel := workContext(r)
		defer cancel()
		start := time.Now()
		if err := svc.RunJob(ctx, job); err != nil {
			if clientGone(r) {
				return
			}
			status := statusFor(err)
			if status == http.StatusTooManyRequests {
				IncrementBackpressure("admission")
			}
			writeJSONError(w, status, errorMessage(status, err))
			logEnd(r, lvl, "run", status, start, err)
			return
		}
		writeMessage(w, http.StatusOK, "success")
		logEnd(r, lvl, "run", http.StatusOK, start, nil)
	})

	// @Summary  Stop the service
	// @Tags     admin
	// @Produce  json
	// @Success  202 {object} types.MessageResponse
	// @Router   /shutdown [post]
	r.Post("/shutdown", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusAccepted, "exiting")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		logger().Info().Str("remote", r.RemoteAddr).Msg("shutdown requested")
		if fn := shutdownFn; fn != nil {
			go fn()
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		if st := svc.Status(); st.State == "error" {
			_, _ = w.Write([]byte("error"))
			return
		}
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// requireJSON rejects requests whose Content-Type is not application/json.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if !isJSONContentType(r) {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	return true
}

func isJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return ct != "" && strings.HasPrefix(strings.ToLower(ct), "application/json")
}

var (
	errTrailingData = errors.New("unexpected data after JSON value")
	errNotObject    = errors.New("JSON value is not an object")
)

// readJSONObject reads exactly one JSON value from body and requires it to be
// an object. Anything but whitespace after the value is an error.
func readJSONObject(body io.Reader) (json.RawMessage, error) {
	dec := json.NewDecoder(body)
	var obj json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errTrailingData
	}
	if t := bytes.TrimSpace(obj); len(t) == 0 || t[0] != '{' {
		return nil, errNotObject
	}
	return obj, nil
}

// rateLimited rejects with 429 once the configured token bucket is empty.
func rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l := limiter; l != nil && !l.Allow() {
			IncrementBackpressure("rate_limit")
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// errorMessage returns the client-facing message. Typed errors carry their own
// message; timeouts get a fixed one.
func errorMessage(status int, err error) string {
	if status == http.StatusGatewayTimeout && errors.Is(err, context.DeadlineExceeded) {
		return "prediction timed out"
	}
	return err.Error()
}
