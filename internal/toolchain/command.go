package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// InvocationError reports that a tool could not be run to completion or that
// its exit status could not be read. It is never a content verdict.
type InvocationError struct {
	Tool string
	Err  error
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

func invocationErr(tool string, err error) error {
	return &InvocationError{Tool: tool, Err: err}
}

// Capture names the files a run writes the subject's streams to.
type Capture struct {
	Stdout string
	Stderr string
}

// exitCode turns the result of cmd.Run into an exit status. A process that
// exited on its own keeps its status even if ctx ended at the same moment.
// A process killed by a signal has no exit status; that and a cancelled
// context are invocation errors.
func exitCode(ctx context.Context, tool string, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, invocationErr(tool, ctxErr)
	}
	if exitErr == nil {
		return -1, invocationErr(tool, err)
	}
	return -1, invocationErr(tool, fmt.Errorf("exit status unavailable: %s", exitErr.ProcessState.String()))
}

// runCaptured runs name with stdin read from input and the streams written to
// capture. Files are created before the process starts, so both capture files
// exist whenever the command was attempted.
func runCaptured(ctx context.Context, tool, name string, args []string, input string, capture Capture) (int, error) {
	// #nosec G304 -- input is a corpus file chosen by the user
	in, err := os.Open(input)
	if err != nil {
		return -1, invocationErr(tool, fmt.Errorf("opening input: %w", err))
	}
	defer func() {
		_ = in.Close()
	}()

	stdout, err := os.Create(capture.Stdout)
	if err != nil {
		return -1, invocationErr(tool, fmt.Errorf("creating stdout capture: %w", err))
	}
	defer func() {
		_ = stdout.Close()
	}()
	stderr, err := os.Create(capture.Stderr)
	if err != nil {
		return -1, invocationErr(tool, fmt.Errorf("creating stderr capture: %w", err))
	}
	defer func() {
		_ = stderr.Close()
	}()

	// #nosec G204 -- running the configured subject is the purpose of the tool
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = in
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return exitCode(ctx, tool, cmd.Run())
}

// runBuffered runs name and returns its exit status with both streams.
func runBuffered(ctx context.Context, tool, name string, args []string) (int, string, string, error) {
	var stdout, stderr bytes.Buffer
	// #nosec G204 -- tool path comes from the run configuration
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	code, err := exitCode(ctx, tool, cmd.Run())
	return code, stdout.String(), stderr.String(), err
}
