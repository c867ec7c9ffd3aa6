package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MemCheckResult is the verdict of one memory-checked run.
type MemCheckResult struct {
	// ExitCode is the subject's own exit code when no errors were found.
	ExitCode int
	// Errors is set when the checker reported memory errors.
	Errors bool
	// Report is the checker's log.
	Report string
}

// Run executes program under the memory checker. The checker's log goes to
// logPath, apart from the subject's stderr. Errors are detected when the
// checker exits with ErrorExitCode and its log is non-empty; an equal exit
// code with an empty log is the subject's own status.
func (t MemCheckTool) Run(ctx context.Context, program, input string, capture Capture, logPath string) (MemCheckResult, error) {
	errorCode := t.ErrorExitCode
	if errorCode <= 0 || errorCode > 255 {
		errorCode = DefaultMemCheckExitCode
	}
	args := make([]string, 0, len(t.Args)+3)
	args = append(args, t.Args...)
	args = append(args,
		"--error-exitcode="+strconv.Itoa(errorCode),
		"--log-file="+logPath,
		program,
	)

	code, err := runCaptured(ctx, ToolMemCheck, t.Path, args, input, capture)
	if err != nil {
		return MemCheckResult{ExitCode: code}, err
	}

	// #nosec G304 -- log path is an index-named artifact of this run
	data, readErr := os.ReadFile(logPath)
	if readErr != nil && !errors.Is(readErr, os.ErrNotExist) {
		return MemCheckResult{ExitCode: code}, invocationErr(ToolMemCheck, fmt.Errorf("reading log: %w", readErr))
	}
	report := string(data)
	if code == errorCode && strings.TrimSpace(report) != "" {
		return MemCheckResult{ExitCode: code, Errors: true, Report: report}, nil
	}
	return MemCheckResult{ExitCode: code, Report: report}, nil
}
