package modeltest

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// DefaultTolerance is the absolute tolerance used when comparing numbers in
// JSON results.
const DefaultTolerance = 1e-9

// JSONEqual reports whether two JSON documents are equal, comparing numbers
// within tol. The returned error names the first differing path.
func JSONEqual(actual, expected []byte, tol float64) error {
	var a, e any
	if err := json.Unmarshal(actual, &a); err != nil {
		return fmt.Errorf("actual result is not JSON: %w", err)
	}
	if err := json.Unmarshal(expected, &e); err != nil {
		return fmt.Errorf("expected result is not JSON: %w", err)
	}
	return equalValue("$", a, e, tol)
}

func equalValue(path string, a, e any, tol float64) error {
	switch ev := e.(type) {
	case map[string]any:
		av, ok := a.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %T", path, a)
		}
		keys := make([]string, 0, len(ev))
		for k := range ev {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			x, ok := av[k]
			if !ok {
				return fmt.Errorf("%s.%s: missing", path, k)
			}
			if err := equalValue(path+"."+k, x, ev[k], tol); err != nil {
				return err
			}
		}
		for k := range av {
			if _, ok := ev[k]; !ok {
				return fmt.Errorf("%s.%s: unexpected", path, k)
			}
		}
		return nil
	case []any:
		av, ok := a.([]any)
		if !ok || len(av) != len(ev) {
			return fmt.Errorf("%s: expected array of %d elements, got %v", path, len(ev), a)
		}
		for i := range ev {
			if err := equalValue(fmt.Sprintf("%s[%d]", path, i), av[i], ev[i], tol); err != nil {
				return err
			}
		}
		return nil
	case float64:
		av, ok := a.(float64)
		if !ok || math.Abs(av-ev) > tol {
			return fmt.Errorf("%s: expected %v, got %v", path, ev, a)
		}
		return nil
	default:
		if a != e {
			return fmt.Errorf("%s: expected %v, got %v", path, e, a)
		}
		return nil
	}
}
