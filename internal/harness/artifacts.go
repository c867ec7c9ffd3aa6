package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ArtifactPrefix starts the name of every temporary file a run creates.
const ArtifactPrefix = "rtest_"

// Artifacts are the index-named temporary files of one unit.
type Artifacts struct {
	Stdout      string
	Stderr      string
	Compilation string
	MemCheckLog string
}

// ArtifactsFor names the artifacts of the unit at index inside dir.
func ArtifactsFor(dir string, index int) Artifacts {
	n := strconv.Itoa(index)
	return Artifacts{
		Stdout:      filepath.Join(dir, ArtifactPrefix+"stdout"+n),
		Stderr:      filepath.Join(dir, ArtifactPrefix+"stderr"+n),
		Compilation: filepath.Join(dir, ArtifactPrefix+"compilation"+n),
		MemCheckLog: filepath.Join(dir, ArtifactPrefix+"memcheck"+n),
	}
}

// Paths lists every artifact path.
func (a Artifacts) Paths() []string {
	return []string{a.Stdout, a.Stderr, a.Compilation, a.MemCheckLog}
}

// Remove deletes the artifacts. Failures are ignored: a file that was never
// created or cannot be removed does not change the unit's outcome.
func (a Artifacts) Remove() {
	for _, path := range a.Paths() {
		_ = os.Remove(path)
	}
}

var artifactKinds = []string{"stdout", "stderr", "compilation", "memcheck"}

// IsArtifact reports whether name is the file name of a run artifact.
func IsArtifact(name string) bool {
	rest, ok := strings.CutPrefix(name, ArtifactPrefix)
	if !ok {
		return false
	}
	for _, kind := range artifactKinds {
		digits, ok := strings.CutPrefix(rest, kind)
		if !ok || digits == "" {
			continue
		}
		if _, err := strconv.ParseUint(digits, 10, 64); err == nil {
			return true
		}
	}
	return false
}

// CleanStale removes artifacts left in dir by an interrupted run and returns
// the removed paths.
func CleanStale(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", dir, err)
	}
	var removed []string
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !IsArtifact(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}
