package toolchain

import "context"

// CompileResult is the verdict of compiling one unit. Stderr holds the
// errors on failure and the warnings on success.
type CompileResult struct {
	OK       bool
	ExitCode int
	Stderr   string
}

// Compile builds source, linked with library when set, into output.
func (t CompilerTool) Compile(ctx context.Context, source, library, output string) (CompileResult, error) {
	args := make([]string, 0, len(t.Flags)+4)
	args = append(args, t.Flags...)
	args = append(args, source)
	if library != "" {
		args = append(args, library)
	}
	args = append(args, "-o", output)

	code, _, stderr, err := runBuffered(ctx, ToolCompiler, t.Path, args)
	if err != nil {
		return CompileResult{ExitCode: code}, err
	}
	return CompileResult{OK: code == 0, ExitCode: code, Stderr: stderr}, nil
}
