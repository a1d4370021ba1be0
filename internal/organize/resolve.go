// Package organize executes an Organization Plan: it creates destination
// directories, resolves name collisions, and moves files with reverse
// rollback on failure.
package organize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxConflictProbes caps the numeric-suffix search for a free name.
const maxConflictProbes = 1000

// ErrTooManyConflicts is returned when no free name is found within the
// probe cap.
var ErrTooManyConflicts = errors.New("too many name conflicts")

// Resolve returns a path that does not currently exist: the input path
// unchanged when free, otherwise the first unused of stem_1.ext,
// stem_2.ext, and so on. The check is inherently racy against external
// writers; acceptable for a single-user tool.
func Resolve(path string) (string, error) {
	if !exists(path) {
		return path, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 1; i <= maxConflictProbes; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w for %s", ErrTooManyConflicts, path)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
