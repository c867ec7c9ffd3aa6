package toolchain

import "context"

// RunProgram runs the subject with input on stdin, capturing its streams, and
// returns the subject's exit code.
func RunProgram(ctx context.Context, program, input string, capture Capture) (int, error) {
	return runCaptured(ctx, ToolProgram, program, nil, input, capture)
}
