package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"rtest/internal/trace"
)

// setupTracing inspects trace-related flags and initializes the tracer.
// It returns a cleanup function that is safe to call more than once.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace alone means unit-level tracing
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelUnit
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	root.SetContext(ctx)

	heartbeat := trace.StartHeartbeat(tracer, heartbeatInterval)

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			heartbeat.Stop()
			if err := tracer.Flush(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
			}
			if err := tracer.Close(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
			}
		})
	}
	return cleanup, nil
}

// dumpTrace writes events kept in memory to stderr after an internal error.
func dumpTrace(cmd *cobra.Command) {
	tracer := trace.FromContext(cmd.Context())
	if tracer == trace.Nop {
		return
	}
	fmt.Fprintln(os.Stderr, "trace: last events")
	if err := trace.DumpTo(tracer, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
	}
}
