// Package toolchain wraps the external programs a run depends on: the subject
// program, the memory checker, the diff tool and the C compiler.
//
// Each adapter maps the tool's exit status and captured streams to a
// structured result. Failing to start a tool, or failing to read its exit
// status, is reported as an *InvocationError.
package toolchain

import (
	"os/exec"
	"slices"
)

// Tool names used in errors and traces.
const (
	ToolProgram  = "program"
	ToolMemCheck = "memcheck"
	ToolDiff     = "diff"
	ToolCompiler = "compiler"
)

// DefaultMemCheckExitCode is passed to valgrind as --error-exitcode.
// valgrind only accepts values in 1..255.
const DefaultMemCheckExitCode = 99

// MemCheckTool configures the memory checker.
type MemCheckTool struct {
	Path string
	Args []string
	// ErrorExitCode is the exit status the checker uses when it found errors.
	ErrorExitCode int
}

// DiffTool configures the text comparator.
type DiffTool struct {
	Path string
	Args []string
}

// CompilerTool configures the C compiler used in compiled mode.
type CompilerTool struct {
	Path  string
	Flags []string
}

// Tools bundles every external tool of a run.
type Tools struct {
	MemCheck MemCheckTool
	Diff     DiffTool
	Compiler CompilerTool
}

// DefaultTools returns valgrind with full leak detection, context diff and gcc.
func DefaultTools() Tools {
	return Tools{
		MemCheck: MemCheckTool{
			Path: "valgrind",
			Args: []string{
				"--leak-check=full",
				"--show-leak-kinds=all",
				"--errors-for-leak-kinds=all",
				"-q",
			},
			ErrorExitCode: DefaultMemCheckExitCode,
		},
		Diff: DiffTool{
			Path: "diff",
			Args: []string{"-c"},
		},
		Compiler: CompilerTool{
			Path:  "gcc",
			Flags: []string{"-O2", "-Wall", "-Wextra", "-Wno-implicit-fallthrough"},
		},
	}
}

// Missing returns the tools a run would need but cannot find on PATH.
func (t Tools) Missing(memCheck, compiled bool) []string {
	names := []string{t.Diff.Path}
	if memCheck {
		names = append(names, t.MemCheck.Path)
	}
	if compiled {
		names = append(names, t.Compiler.Path)
	}
	var missing []string
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, err := exec.LookPath(name); err != nil && !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	return missing
}
