// Package metadata locates and loads the model.yaml file describing the served
// model: its name and version, the input and output files used by file jobs,
// and the per-route timeouts.
package metadata

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFilename is the metadata file searched for when none is given.
const DefaultFilename = "model.yaml"

// ErrNotFound is returned by Find when no metadata file exists in the
// directory hierarchy.
var ErrNotFound = errors.New("metadata file not found")

// File describes one input or output file of a file job.
type File struct {
	Name        string `json:"name"`
	MediaType   string `json:"media_type,omitempty" yaml:"media_type"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Files keeps the declaration order of a YAML mapping of filename to File.
type Files []File

// UnmarshalYAML accepts either a mapping (filename -> attributes) or a
// sequence of filenames.
func (fs *Files) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(Files, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var f File
			if v := node.Content[i+1]; v.Kind == yaml.MappingNode {
				if err := v.Decode(&f); err != nil {
					return err
				}
			}
			f.Name = node.Content[i].Value
			out = append(out, f)
		}
		*fs = out
	case yaml.SequenceNode:
		out := make(Files, 0, len(node.Content))
		for _, n := range node.Content {
			out = append(out, File{Name: n.Value})
		}
		*fs = out
	case yaml.ScalarNode:
		*fs = Files{{Name: node.Value}}
	default:
		return fmt.Errorf("line %d: inputs/outputs must be a mapping, sequence or filename", node.Line)
	}
	return nil
}

// Names returns the filenames in declaration order.
func (fs Files) Names() []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Name)
	}
	return out
}

// Metadata is the parsed content of model.yaml.
type Metadata struct {
	Name        string            `json:"name" yaml:"name"`
	Version     string            `json:"version" yaml:"version"`
	Description string            `json:"description,omitempty" yaml:"description"`
	Inputs      Files             `json:"inputs" yaml:"inputs"`
	Outputs     Files             `json:"outputs" yaml:"outputs"`
	Timeout     map[string]string `json:"timeout,omitempty" yaml:"timeout"`
	// Path is the file the metadata was loaded from.
	Path string `json:"-" yaml:"-"`
}

// Default returns the metadata used when no model.yaml is present.
func Default() *Metadata {
	return &Metadata{
		Inputs:  Files{{Name: "input.json", MediaType: "application/json"}},
		Outputs: Files{{Name: "results.json", MediaType: "application/json"}},
	}
}

// Find searches for filename starting at pathHint (a file or directory) and
// walking up to the filesystem root.
func Find(pathHint, filename string) (string, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	fi, err := os.Stat(pathHint)
	if err != nil {
		return "", fmt.Errorf("path hint: %w", err)
	}
	dir := pathHint
	if !fi.IsDir() {
		dir = filepath.Dir(pathHint)
	}
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	for {
		p := filepath.Join(cur, filename)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("%w: %s above %s", ErrNotFound, filename, pathHint)
		}
		cur = parent
	}
}

// Load reads and parses a metadata file.
func Load(path string) (*Metadata, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	md := &Metadata{}
	if err := yaml.Unmarshal(b, md); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(md.Inputs) == 0 {
		md.Inputs = Default().Inputs
	}
	if len(md.Outputs) == 0 {
		md.Outputs = Default().Outputs
	}
	md.Path = path
	return md, nil
}

// Discover finds model.yaml above pathHint and loads it. When no file exists
// the defaults are returned without error.
func Discover(pathHint string) (*Metadata, error) {
	p, err := Find(pathHint, DefaultFilename)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(p)
}

// MaxTimeout returns the largest of the declared timeouts, rounded up to whole
// seconds. It returns 0 when none are declared.
func (m *Metadata) MaxTimeout() (time.Duration, error) {
	var longest time.Duration
	for route, v := range m.Timeout {
		d, err := ParseTimespan(v)
		if err != nil {
			return 0, fmt.Errorf("timeout %q: %w", route, err)
		}
		secs := math.Ceil(d.Seconds())
		if d := time.Duration(secs) * time.Second; d > longest {
			longest = d
		}
	}
	return longest, nil
}

var timespanUnits = map[string]time.Duration{
	"ms": time.Millisecond, "millisecond": time.Millisecond, "milliseconds": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"w": 7 * 24 * time.Hour, "week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
}

// ParseTimespan parses "90", "1m30s", "2 minutes" or "1.5h". A bare number is
// seconds.
func ParseTimespan(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, errors.New("empty timespan")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(f * float64(time.Second)), nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	i := strings.IndexFunc(s, func(r rune) bool { return !(r >= '0' && r <= '9' || r == '.') })
	if i <= 0 {
		return 0, fmt.Errorf("invalid timespan %q", s)
	}
	num, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timespan %q", s)
	}
	unit, ok := timespanUnits[strings.TrimSpace(s[i:])]
	if !ok {
		return 0, fmt.Errorf("unknown timespan unit in %q", s)
	}
	return time.Duration(num * float64(unit)), nil
}
