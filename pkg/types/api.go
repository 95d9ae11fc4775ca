package types

// PredictResponse is returned by POST /predict.
type PredictResponse struct {
	// Name of the model that produced the result.
	// example: textscore
	Model string `json:"model" example:"textscore"`
	// Version of the model that produced the result.
	// example: 1.0.0
	Version string `json:"version" example:"1.0.0"`
	// Output fields of the prediction.
	Result map[string]any `json:"result" swaggertype:"object"`
}

// JobRequest is the body of POST /run. Input and output are directories in
// the server's filesystem; the file names inside them come from model.yaml.
type JobRequest struct {
	// Job type; only "file" is supported.
	// example: file
	Type string `json:"type" example:"file"`
	// Directory holding the input files.
	// example: /data/input
	Input *string `json:"input" example:"/data/input"`
	// Directory receiving the output files. Created if missing.
	// example: /data/output
	Output *string `json:"output" example:"/data/output"`
}

// MessageResponse is the envelope used for status, job, shutdown and error
// responses.
type MessageResponse struct {
	// Human-readable message.
	// example: ready
	Message string `json:"message" example:"ready"`
	// HTTP status code.
	// example: 200
	StatusCode int `json:"statusCode" example:"200"`
	// HTTP status text.
	// example: OK
	Status string `json:"status" example:"OK"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	MessageResponse
	// Lifecycle state of the model (unloaded, loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Model metadata; present once the model is ready.
	Model *ModelInfo `json:"model,omitempty"`
	// Initialization error, if any.
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total number of predictions served, by outcome.
	Predictions PredictionCounts `json:"predictions"`
	// Requests currently being scored.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Requests waiting for an admission slot.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// Concurrency limit; 0 means unlimited.
	// example: 4
	MaxConcurrency int `json:"max_concurrency" example:"4"`
}

// PredictionCounts tallies prediction outcomes.
type PredictionCounts struct {
	OK       uint64 `json:"ok"`
	Invalid  uint64 `json:"invalid"`
	Failed   uint64 `json:"failed"`
	Rejected uint64 `json:"rejected"`
}
