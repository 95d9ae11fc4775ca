package registry

import (
	"fmt"

	"modelsvc/internal/common/fsutil"
)

// artifactExts are tried in order when the artifact path is a directory.
var artifactExts = []string{".yaml", ".yml", ".json"}

// ResolveArtifact expands '~', makes path absolute and, when it names a
// directory, picks "<name>.yaml" (or .yml/.json) inside it. A missing file is
// not an error here; Initialize reports it.
func ResolveArtifact(path, name string) (string, error) {
	abs, err := fsutil.Resolve(path)
	if err != nil {
		return "", err
	}
	if !fsutil.IsDir(abs) {
		return abs, nil
	}
	candidates := make([]string, 0, len(artifactExts))
	for _, ext := range artifactExts {
		candidates = append(candidates, name+ext)
	}
	if p, ok := fsutil.FirstExisting(abs, candidates...); ok {
		return p, nil
	}
	return "", fmt.Errorf("no artifact for model %q in %s (looked for %v)", name, abs, candidates)
}
