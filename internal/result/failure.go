// Package result holds the per-unit outcome of a run and its failure taxonomy.
package result

import "fmt"

// Kind identifies the phase that failed.
type Kind uint8

const (
	// KindMemoryCheck means the memory checker reported errors.
	KindMemoryCheck Kind = iota + 1
	// KindComparison means captured output differs from the expected file.
	KindComparison
	// KindCompilation means the unit's source did not compile.
	KindCompilation
	// KindToolInvocation means an external tool could not be run or its exit
	// status could not be read.
	KindToolInvocation
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindMemoryCheck:
		return "memcheck"
	case KindComparison:
		return "comparison"
	case KindCompilation:
		return "compilation"
	case KindToolInvocation:
		return "tool"
	default:
		return "unknown"
	}
}

// Stream names the captured stream a comparison ran on.
type Stream uint8

const (
	// StreamUnspecified is used when the failing stream is not known.
	StreamUnspecified Stream = iota
	// StreamStdout is the subject's standard output.
	StreamStdout
	// StreamStderr is the subject's standard error.
	StreamStderr
)

// String returns the string representation of Stream.
func (s Stream) String() string {
	switch s {
	case StreamStdout:
		return "stdout"
	case StreamStderr:
		return "stderr"
	default:
		return "unspecified"
	}
}

// Failure is the single cause attached to a failed Outcome. The set of
// implementations is closed: MemoryCheckFailure, ComparisonFailure,
// CompilationFailure and ToolInvocationFailure.
type Failure interface {
	Kind() Kind
	// Detail returns the full diagnostic text, never truncated.
	Detail() string
	error
	isFailure()
}

// MemoryCheckFailure carries the memory checker's report.
type MemoryCheckFailure struct {
	Report string
}

func (MemoryCheckFailure) Kind() Kind       { return KindMemoryCheck }
func (f MemoryCheckFailure) Detail() string { return f.Report }
func (f MemoryCheckFailure) Error() string  { return "memory check failed" }
func (MemoryCheckFailure) isFailure()       {}

// ComparisonFailure carries the diff of one stream against its expected file.
type ComparisonFailure struct {
	Stream Stream
	Diff   string
}

func (ComparisonFailure) Kind() Kind       { return KindComparison }
func (f ComparisonFailure) Detail() string { return f.Diff }
func (f ComparisonFailure) Error() string {
	return fmt.Sprintf("%s differs from expected output", f.Stream)
}
func (ComparisonFailure) isFailure() {}

// CompilationFailure carries the compiler's standard error.
type CompilationFailure struct {
	Stderr string
}

func (CompilationFailure) Kind() Kind       { return KindCompilation }
func (f CompilationFailure) Detail() string { return f.Stderr }
func (f CompilationFailure) Error() string  { return "compilation failed" }
func (CompilationFailure) isFailure()       {}

// ToolInvocationFailure means a tool could not be spawned, its exit status
// was unreadable, or it reported trouble of its own (diff exit status 2).
// Stream is set when the tool was the comparator.
type ToolInvocationFailure struct {
	Tool    string
	Stream  Stream
	Message string
}

func (ToolInvocationFailure) Kind() Kind       { return KindToolInvocation }
func (f ToolInvocationFailure) Detail() string { return f.Message }
func (f ToolInvocationFailure) Error() string {
	if f.Stream != StreamUnspecified {
		return fmt.Sprintf("%s (%s): %s", f.Tool, f.Stream, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Tool, f.Message)
}
func (ToolInvocationFailure) isFailure() {}

// StreamOf returns the stream a failure is tagged with, if any.
func StreamOf(f Failure) Stream {
	switch v := f.(type) {
	case ComparisonFailure:
		return v.Stream
	case ToolInvocationFailure:
		return v.Stream
	default:
		return StreamUnspecified
	}
}
