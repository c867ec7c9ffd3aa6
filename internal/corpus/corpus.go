// Package corpus discovers the test units of a run.
//
// A test unit is identified by the path of its primary input artifact: an
// ".in" file fed to a prebuilt program, or a ".c" file compiled per unit.
// Expected outputs live next to it and share its core name:
//
//	testy/sum.in  ->  testy/sum.out, testy/sum.err
//
// The core name is cut at the first dot of the file name, so "a.b.c.in"
// expects "a.out". Existing corpora rely on this.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Mode selects how units are executed and which files form the corpus.
type Mode uint8

const (
	// ModeFeeder feeds each ".in" file to a prebuilt subject program.
	ModeFeeder Mode = iota
	// ModeCompiled compiles each ".c" file against a library before running it.
	ModeCompiled
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	switch m {
	case ModeFeeder:
		return "feeder"
	case ModeCompiled:
		return "compiled"
	default:
		return "unknown"
	}
}

// Extension returns the file extension (with the dot) selected by the mode.
func (m Mode) Extension() string {
	if m == ModeCompiled {
		return ".c"
	}
	return ".in"
}

const (
	// StdoutSuffix is appended to a unit's core to name its expected stdout.
	StdoutSuffix = ".out"
	// StderrSuffix is appended to a unit's core to name its expected stderr.
	StderrSuffix = ".err"
)

// Unit is one test case. Units are immutable after Load.
type Unit struct {
	Path string
}

// Name returns the final path segment.
func (u Unit) Name() string {
	i := strings.LastIndexByte(u.Path, filepath.Separator)
	return u.Path[i+1:]
}

// Core returns the unit path truncated at the first dot of its file name.
func (u Unit) Core() string {
	dirLen := strings.LastIndexByte(u.Path, filepath.Separator) + 1
	name := u.Path[dirLen:]
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		return u.Path[:dirLen+dot]
	}
	return u.Path
}

// ExpectedStdout returns the path of the expected standard output.
func (u Unit) ExpectedStdout() string {
	return u.Core() + StdoutSuffix
}

// ExpectedStderr returns the path of the expected standard error.
func (u Unit) ExpectedStderr() string {
	return u.Core() + StderrSuffix
}

// Input returns the file fed to the subject's standard input. In compiled
// mode that is "<core>.in" when present and the null device otherwise.
func (u Unit) Input(mode Mode) string {
	if mode != ModeCompiled {
		return u.Path
	}
	in := u.Core() + ".in"
	if info, err := os.Stat(in); err == nil && info.Mode().IsRegular() {
		return in
	}
	return os.DevNull
}

// Load lists dir and returns one unit per regular entry carrying the mode's
// extension, sorted by path. Directory read failures are returned as is: they
// are configuration errors, not per-test conditions.
func Load(dir string, mode Mode) ([]Unit, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("opening test directory %q: %w", dir, err)
	}
	defer func() {
		_ = f.Close()
	}()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("reading test directory %q: %w", dir, err)
	}

	ext := mode.Extension()
	units := make([]Unit, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !hasExtension(entry.Name(), ext) {
			continue
		}
		units = append(units, Unit{Path: filepath.Join(dir, entry.Name())})
	}

	// Run order and temp-file indices both come from this order.
	slices.SortFunc(units, func(a, b Unit) int {
		return strings.Compare(a.Path, b.Path)
	})
	return units, nil
}

// hasExtension reports whether the last extension of name equals ext.
// A bare ".in" has no stem and therefore no extension.
func hasExtension(name, ext string) bool {
	return len(name) > len(ext) && filepath.Ext(name) == ext
}
