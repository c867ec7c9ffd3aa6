package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rtest/internal/trace"
	"rtest/internal/version"
)

// errUnitsFailed makes the process exit 1 after a run whose results were
// already printed.
var errUnitsFailed = errors.New("some tests failed")

var rootCmd = &cobra.Command{
	Use:   "rtest",
	Short: "Black-box test runner for C programs",
	Long: `rtest feeds every .in file of a test directory to a program (or compiles
every .c file against a library), optionally under valgrind, and compares the
captured output with the expected .out and .err files.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupRoot,
	PersistentPostRunE: teardownRoot,
}

// main registers the subcommands and persistent flags, runs the root command
// with a context cancelled on SIGINT/SIGTERM, and exits 1 on any error.
func main() {
	rootCmd.Version = version.String()

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// global flags
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("config", "", "settings file (default ./"+settingsFileName()+")")

	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|run|unit|step)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", trace.DefaultRingSize, "events kept by the ring tracer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")

	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile of rtest to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile of rtest to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errUnitsFailed) {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		}
		os.Exit(1)
	}
}

// setupRoot applies --color and starts tracing for every subcommand.
func setupRoot(cmd *cobra.Command, _ []string) error {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = cleanup
	return nil
}

// traceCleanup flushes the tracer; PersistentPostRunE is skipped when RunE
// fails, so runCorpus calls it too.
var traceCleanup = func() {}

func teardownRoot(_ *cobra.Command, _ []string) error {
	traceCleanup()
	traceCleanup = func() {}
	return nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
