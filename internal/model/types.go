package model

// Request is a validated, immutable prediction input. It is produced by
// Contract.Validate and never modified afterwards.
type Request struct {
	fields map[string]any
}

// NewRequest copies fields into a new Request.
func NewRequest(fields map[string]any) Request {
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Request{fields: cp}
}

// Get returns the raw value of a field.
func (r Request) Get(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// String returns a string field or "" when absent or of another type.
func (r Request) String(key string) string {
	s, _ := r.fields[key].(string)
	return s
}

// Float returns a numeric field or 0 when absent or of another type.
func (r Request) Float(key string) float64 {
	f, _ := r.fields[key].(float64)
	return f
}

// Bool returns a boolean field or false when absent or of another type.
func (r Request) Bool(key string) bool {
	b, _ := r.fields[key].(bool)
	return b
}

// Fields returns a copy of the underlying mapping.
func (r Request) Fields() map[string]any {
	cp := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		cp[k] = v
	}
	return cp
}

// Len returns the number of fields.
func (r Request) Len() int { return len(r.fields) }

// Result holds the keyed output fields of one prediction. encoding/json sorts
// map keys, so equal results always encode to equal bytes.
type Result map[string]any

// Clone returns a shallow copy.
func (r Result) Clone() Result {
	cp := make(Result, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// FieldType is the semantic type of an input or output field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
)

// FieldSpec declares one input or output field.
type FieldSpec struct {
	Name        string    `json:"name" yaml:"name"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required,omitempty" yaml:"required"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Min         *float64  `json:"min,omitempty" yaml:"min"`
	Max         *float64  `json:"max,omitempty" yaml:"max"`
	Enum        []string  `json:"enum,omitempty" yaml:"enum"`
	MaxLen      int       `json:"max_len,omitempty" yaml:"max_len"`
}

// Metadata is the static description of a model used by health and
// introspection endpoints.
type Metadata struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description,omitempty"`
	Inputs      []FieldSpec       `json:"inputs"`
	Outputs     []FieldSpec       `json:"outputs"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Float64 returns a pointer to v, for FieldSpec bounds.
func Float64(v float64) *float64 { return &v }
