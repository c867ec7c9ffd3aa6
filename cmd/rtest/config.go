package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rtest/internal/settings"
)

func settingsFileName() string {
	return settings.FileName
}

// settingsPath returns --config or rtest.toml in the working directory.
func settingsPath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		path = settings.FileName
	}
	return path, nil
}

// loadSettings reads the settings file and prints its warnings unless
// --quiet is set.
func loadSettings(cmd *cobra.Command) (settings.Loaded, error) {
	path, err := settingsPath(cmd)
	if err != nil {
		return settings.Loaded{}, err
	}
	loaded, err := settings.Load(path)
	if err != nil {
		return loaded, err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return loaded, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if !quiet {
		for _, w := range loaded.Warnings {
			fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("warning:"), w)
		}
	}
	return loaded, nil
}
