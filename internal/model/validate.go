package model

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidateFields checks raw against specs and returns a Request holding the
// normalized values (numbers as float64). Fields are checked in spec order so
// the first reported error is stable. When strict is set, fields not named by
// any spec are rejected; otherwise they are dropped.
func ValidateFields(specs []FieldSpec, raw map[string]any, strict bool) (Request, error) {
	out := make(map[string]any, len(specs))
	known := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		known[spec.Name] = struct{}{}
		v, ok := raw[spec.Name]
		if !ok || v == nil {
			if spec.Required {
				return Request{}, Invalid(spec.Name, "is required")
			}
			continue
		}
		nv, err := checkField(spec, v)
		if err != nil {
			return Request{}, err
		}
		out[spec.Name] = nv
	}
	if strict {
		var unknown []string
		for k := range raw {
			if _, ok := known[k]; !ok {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return Request{}, Invalid(unknown[0], "is not a recognized field")
		}
	}
	return Request{fields: out}, nil
}

func checkField(spec FieldSpec, v any) (any, error) {
	switch spec.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, Invalid(spec.Name, "must be a string")
		}
		if spec.Required && strings.TrimSpace(s) == "" {
			return nil, Invalid(spec.Name, "must not be empty")
		}
		if !utf8.ValidString(s) {
			return nil, Invalid(spec.Name, "must be valid UTF-8 text")
		}
		if spec.MaxLen > 0 && utf8.RuneCountInString(s) > spec.MaxLen {
			return nil, Invalid(spec.Name, "must be at most %d characters", spec.MaxLen)
		}
		if len(spec.Enum) > 0 && !contains(spec.Enum, s) {
			return nil, Invalid(spec.Name, "must be one of [%s]", strings.Join(spec.Enum, ", "))
		}
		return s, nil
	case TypeNumber, TypeInteger:
		f, ok := toFloat(v)
		if !ok {
			return nil, Invalid(spec.Name, "must be a number")
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, Invalid(spec.Name, "must be a finite number")
		}
		if spec.Type == TypeInteger && f != math.Trunc(f) {
			return nil, Invalid(spec.Name, "must be an integer")
		}
		if spec.Min != nil && f < *spec.Min {
			return nil, Invalid(spec.Name, "must be >= %g", *spec.Min)
		}
		if spec.Max != nil && f > *spec.Max {
			return nil, Invalid(spec.Name, "must be <= %g", *spec.Max)
		}
		return f, nil
	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, Invalid(spec.Name, "must be a boolean")
		}
		return b, nil
	default:
		return v, nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
