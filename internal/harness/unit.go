package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rtest/internal/corpus"
	"rtest/internal/observ"
	"rtest/internal/result"
	"rtest/internal/toolchain"
	"rtest/internal/trace"
)

// toolHarness names the harness itself as the failing tool.
const toolHarness = "harness"

// unitRun drives one unit through its strategy. It is owned by one worker.
type unitRun struct {
	cfg   *Config
	unit  corpus.Unit
	art   Artifacts
	out   *result.Outcome
	timer *observ.Timer

	tracer trace.Tracer
	spanID uint64
}

// execute runs unit and returns its outcome. Artifacts are removed on every
// path, including a panic inside a step.
func execute(ctx context.Context, cfg *Config, strat strategy, unit corpus.Unit, index int) (out result.Outcome) {
	out = result.Pending(unit, index)
	art := ArtifactsFor(cfg.WorkDir, index)
	defer art.Remove()

	ctx, span := trace.StartSpan(ctx, trace.ScopeUnit, "unit:"+unit.Name())
	tracer := trace.FromContext(ctx)
	timer := observ.NewTimer()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out.Fail(result.ToolInvocationFailure{
				Tool:    toolHarness,
				Message: fmt.Sprintf("internal error: %v", r),
			})
		}
		out.Elapsed = time.Since(start)
		out.Steps = timer.Report()

		status := StatusPassed
		var err error
		if !out.Passed {
			status = StatusFailed
			err = out.Failure
			span.WithExtra("failure", out.Failure.Kind().String())
		}
		span.WithExtra("exit", fmt.Sprint(out.ExitCode)).End(string(status))
		emit(cfg.Progress, Event{Unit: unit.Path, Index: index, Status: status, Err: err, Elapsed: out.Elapsed})
	}()

	r := &unitRun{
		cfg:    cfg,
		unit:   unit,
		art:    art,
		out:    &out,
		timer:  timer,
		tracer: tracer,
		spanID: span.ID(),
	}
	for _, stage := range strat.stages {
		emit(cfg.Progress, Event{Unit: unit.Path, Index: index, Stage: stage, Status: StatusWorking})
		if f := r.step(ctx, stage); f != nil {
			out.Fail(f)
			return out
		}
	}
	out.Pass()
	return out
}

// step runs one stage and returns its failure, if any.
func (r *unitRun) step(ctx context.Context, stage Stage) result.Failure {
	idx := r.timer.Begin(string(stage))
	span := trace.Begin(r.tracer, trace.ScopeStep, string(stage), r.spanID)

	var f result.Failure
	switch stage {
	case StageCompile:
		f = r.compile(ctx)
	case StageRun:
		f = r.run(ctx)
	case StageMemCheck:
		f = r.memCheck(ctx)
	case StageCompareStdout:
		f = r.compare(ctx, result.StreamStdout)
	case StageCompareStderr:
		f = r.compare(ctx, result.StreamStderr)
	default:
		f = result.ToolInvocationFailure{Tool: toolHarness, Message: fmt.Sprintf("unknown stage %q", stage)}
	}

	note := "ok"
	if f != nil {
		note = f.Error()
	}
	r.timer.End(idx, note)
	span.End(note)
	return f
}

func (r *unitRun) compile(ctx context.Context) result.Failure {
	res, err := r.cfg.Tools.Compiler.Compile(ctx, r.unit.Path, r.cfg.Library, r.art.Compilation)
	if err != nil {
		return invocationFailure(toolchain.ToolCompiler, result.StreamUnspecified, err)
	}
	if !res.OK {
		return result.CompilationFailure{Stderr: res.Stderr}
	}
	r.out.Warnings = res.Stderr
	return nil
}

// subject returns the executable under test and the file fed to its stdin.
func (r *unitRun) subject() (string, string) {
	if r.cfg.Compiled {
		return r.art.Compilation, r.unit.Input(corpus.ModeCompiled)
	}
	return r.cfg.Program, r.unit.Path
}

func (r *unitRun) capture() toolchain.Capture {
	return toolchain.Capture{Stdout: r.art.Stdout, Stderr: r.art.Stderr}
}

// withTimeout bounds a subject run when a timeout is configured.
func (r *unitRun) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, r.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

func (r *unitRun) run(ctx context.Context) result.Failure {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	program, input := r.subject()
	code, err := toolchain.RunProgram(ctx, program, input, r.capture())
	if err != nil {
		return invocationFailure(toolchain.ToolProgram, result.StreamUnspecified, err)
	}
	r.out.ExitCode = code
	return nil
}

func (r *unitRun) memCheck(ctx context.Context) result.Failure {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	program, input := r.subject()
	res, err := r.cfg.Tools.MemCheck.Run(ctx, program, input, r.capture(), r.art.MemCheckLog)
	if err != nil {
		return invocationFailure(toolchain.ToolMemCheck, result.StreamUnspecified, err)
	}
	if res.Errors {
		return result.MemoryCheckFailure{Report: res.Report}
	}
	r.out.ExitCode = res.ExitCode
	return nil
}

func (r *unitRun) compare(ctx context.Context, stream result.Stream) result.Failure {
	actual, expected := r.art.Stdout, r.unit.ExpectedStdout()
	if stream == result.StreamStderr {
		actual, expected = r.art.Stderr, r.unit.ExpectedStderr()
	}

	res, err := r.cfg.Tools.Diff.Compare(ctx, actual, expected)
	if err != nil {
		return invocationFailure(toolchain.ToolDiff, stream, err)
	}
	switch res.Status {
	case toolchain.DiffMatch:
		return nil
	case toolchain.DiffMismatch:
		return result.ComparisonFailure{Stream: stream, Diff: res.Text}
	default:
		msg := res.Text
		if msg == "" {
			msg = fmt.Sprintf("exit status %d", res.ExitCode)
		}
		return result.ToolInvocationFailure{Tool: toolchain.ToolDiff, Stream: stream, Message: msg}
	}
}

// invocationFailure converts an adapter error into a failure. A timeout is
// reported as such rather than as the underlying kill.
func invocationFailure(tool string, stream result.Stream, err error) result.Failure {
	msg := err.Error()
	var invErr *toolchain.InvocationError
	if errors.As(err, &invErr) {
		tool = invErr.Tool
		msg = invErr.Err.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "timed out"
	}
	return result.ToolInvocationFailure{Tool: tool, Stream: stream, Message: msg}
}
