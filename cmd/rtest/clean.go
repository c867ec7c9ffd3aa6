package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rtest/internal/harness"
	"rtest/internal/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove temporary files left by an interrupted run",
	Long: `Remove rtest_* files (captured output, compiled units, memory checker
logs) from dir, or from the configured run.workdir when dir is omitted.
With --log the history.log report in the current directory is removed too.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("log", false, "also remove "+ui.HistoryLogName)
}

func runClean(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	} else {
		loaded, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if wd := loaded.Settings.Run.WorkDir; wd != "" {
			dir = wd
		}
	}

	removed, err := harness.CleanStale(dir)
	out := cmd.OutOrStdout()
	for _, path := range removed {
		fmt.Fprintf(out, "removed %s\n", path)
	}
	if err != nil {
		return err
	}

	if flagBool(cmd, "log") {
		logPath := ui.HistoryLogName
		if rmErr := os.Remove(logPath); rmErr == nil {
			fmt.Fprintf(out, "removed %s\n", logPath)
		} else if !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %q: %w", logPath, rmErr)
		}
	}
	if len(removed) == 0 {
		fmt.Fprintln(out, "nothing to clean")
	}
	return nil
}
