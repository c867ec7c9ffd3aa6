package toolchain

import "context"

// DiffStatus is the verdict of one comparison.
type DiffStatus uint8

const (
	// DiffMatch means the files are equal (exit status 0).
	DiffMatch DiffStatus = iota
	// DiffMismatch means the files differ (exit status 1).
	DiffMismatch
	// DiffTrouble means the tool failed, e.g. a file is missing (any other status).
	DiffTrouble
)

// String returns the string representation of DiffStatus.
func (s DiffStatus) String() string {
	switch s {
	case DiffMatch:
		return "match"
	case DiffMismatch:
		return "mismatch"
	case DiffTrouble:
		return "trouble"
	default:
		return "unknown"
	}
}

// DiffResult carries the comparator's verdict. Text is the diff on a
// mismatch and the tool's stderr on trouble.
type DiffResult struct {
	Status   DiffStatus
	ExitCode int
	Text     string
}

// Compare diffs the captured output against the expected file.
func (t DiffTool) Compare(ctx context.Context, actual, expected string) (DiffResult, error) {
	args := make([]string, 0, len(t.Args)+2)
	args = append(args, t.Args...)
	args = append(args, actual, expected)

	code, stdout, stderr, err := runBuffered(ctx, ToolDiff, t.Path, args)
	if err != nil {
		return DiffResult{ExitCode: code}, err
	}
	switch code {
	case 0:
		return DiffResult{Status: DiffMatch}, nil
	case 1:
		return DiffResult{Status: DiffMismatch, ExitCode: code, Text: stdout}, nil
	default:
		return DiffResult{Status: DiffTrouble, ExitCode: code, Text: stderr}, nil
	}
}
