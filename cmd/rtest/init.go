package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rtest/internal/i18n"
	"rtest/internal/settings"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create rtest.toml and an empty test directory",
	Long: `Create a default rtest.toml and a testy/ directory in dir (the current
directory when omitted). The language is picked from LC_ALL or LANG. An
existing rtest.toml is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("program", "", "program under test")
	initCmd.Flags().Bool("compiled", false, "compile .c units against --program")
}

// localeFromEnv returns the first locale variable that is set.
func localeFromEnv() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", target, err)
	}

	path := filepath.Join(target, settings.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	s := settings.Default()
	s.UI.Language = i18n.Match(localeFromEnv())
	if program, _ := cmd.Flags().GetString("program"); program != "" {
		s.Program.Path = program
	}
	s.Program.Compiled = flagBool(cmd, "compiled")

	testDir := filepath.Join(target, s.Tests.Dir)
	if err := os.MkdirAll(testDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", testDir, err)
	}
	if err := settings.Save(path, s); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "created %s\n", path)
	fmt.Fprintf(out, "created %s\n", testDir)
	if s.Program.Path == settings.UnsetProgram {
		fmt.Fprintln(out, `next: rtest settings set program.path <program>`)
	}
	return nil
}
