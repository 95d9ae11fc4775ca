package modeltest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Case is one test case directory: its name and the files it holds, keyed by
// file name.
type Case struct {
	Name  string
	Files map[string]string
}

// Lookup returns the path for name, trying the exact name first and then the
// name without its extension.
func (c Case) Lookup(name string) (string, bool) {
	if p, ok := c.Files[name]; ok {
		return p, true
	}
	p, ok := c.Files[StripExt(name)]
	return p, ok
}

// StripExt removes the final extension from a file name, if any.
func StripExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// WalkDataDir lists the test cases under dir. Each subdirectory of dir is one
// case. Inside a case every regular file is keyed by its name, and every
// directory must hold exactly one file, keyed by the directory name. With
// stripExt the keys lose their extensions, so "input.json", "input" and
// "input/anything.txt" all answer to "input".
func WalkDataDir(dir string, stripExt bool) ([]Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var cases []Case
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		c, err := readCase(filepath.Join(dir, e.Name()), stripExt)
		if err != nil {
			return nil, err
		}
		c.Name = e.Name()
		cases = append(cases, c)
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases, nil
}

func readCase(dir string, stripExt bool) (Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Case{}, fmt.Errorf("read case dir: %w", err)
	}
	c := Case{Files: make(map[string]string, len(entries))}
	for _, e := range entries {
		key, p := e.Name(), filepath.Join(dir, e.Name())
		if e.IsDir() {
			nested, err := os.ReadDir(p)
			if err != nil {
				return Case{}, fmt.Errorf("read case dir: %w", err)
			}
			if len(nested) != 1 || nested[0].IsDir() {
				return Case{}, fmt.Errorf("test data directory %q must contain exactly one file", p)
			}
			p = filepath.Join(p, nested[0].Name())
		}
		if stripExt {
			key = StripExt(key)
		}
		if _, dup := c.Files[key]; dup {
			return Case{}, fmt.Errorf("test case %q has more than one file named %q", filepath.Base(dir), key)
		}
		c.Files[key] = p
	}
	return c, nil
}

// CheckConfusable rejects a set of file names in which two names are equal or
// differ only by extension; such names cannot be told apart by WalkDataDir.
func CheckConfusable(names ...string) error {
	seen := make(map[string]bool, 2*len(names))
	for _, n := range names {
		if seen[n] || seen[StripExt(n)] {
			return fmt.Errorf("the filename %q is confusable with other input or output filenames; use a unique filename that does not differ only by file extension", n)
		}
		seen[n] = true
		seen[StripExt(n)] = true
	}
	return nil
}
