package types

// ModelInfo describes the served model for /status and /describe.
type ModelInfo struct {
	// Model name.
	// example: textscore
	Name string `json:"name" example:"textscore"`
	// Model version.
	// example: 1.0.0
	Version string `json:"version" example:"1.0.0"`
	// Free-form description.
	Description string `json:"description,omitempty"`
	// Declared input fields of POST /predict.
	Inputs []FieldInfo `json:"inputs"`
	// Declared output fields.
	Outputs []FieldInfo `json:"outputs"`
	// Input file names used by POST /run.
	InputFiles []string `json:"input_files,omitempty"`
	// Output file names written by POST /run.
	OutputFiles []string `json:"output_files,omitempty"`
	// Extra implementation details.
	Extra map[string]string `json:"extra,omitempty"`
}

// FieldInfo describes one input or output field.
type FieldInfo struct {
	// example: threshold
	Name string `json:"name" example:"threshold"`
	// One of string, number, integer, boolean.
	// example: number
	Type string `json:"type" example:"number"`
	Required    bool     `json:"required,omitempty"`
	Description string   `json:"description,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	MaxLen      int      `json:"max_len,omitempty"`
}
