package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rtest/internal/i18n"
	"rtest/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change rtest.toml",
	Args:  cobra.NoArgs,
	RunE:  showSettings,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  showSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Validate and store one setting",
	Long: `Validate VALUE for the dotted KEY and write it to the settings file.
Paths must exist. Run "rtest settings keys" for the list of keys.`,
	Args: cobra.ExactArgs(2),
	RunE: setSetting,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the keys accepted by settings set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, k := range settings.Keys() {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
		return nil
	},
}

func init() {
	settingsCmd.Flags().Bool("raw", false, "print only the TOML document")
	settingsShowCmd.Flags().Bool("raw", false, "print only the TOML document")
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsKeysCmd)
}

func showSettings(cmd *cobra.Command, _ []string) error {
	loaded, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !flagBool(cmd, "raw") {
		dict, err := i18n.Load(loaded.Settings.UI.Language, i18n.OverrideDir)
		if err != nil {
			return err
		}
		writeSettingsSummary(out, dict, loaded)
		fmt.Fprintln(out)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(loaded.Settings); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	_, err = out.Write(buf.Bytes())
	return err
}

func writeSettingsSummary(w io.Writer, dict *i18n.Dictionary, loaded settings.Loaded) {
	s := loaded.Settings
	source := loaded.Path
	if !loaded.Found {
		source += " (defaults)"
	}
	fmt.Fprintf(w, "# %s\n", source)

	rows := []struct {
		key   i18n.Key
		value string
	}{
		{i18n.SettingTestDir, s.Tests.Dir},
		{i18n.SettingProgram, s.Subject()},
		{i18n.SettingMode, strconv.FormatBool(s.Program.Compiled)},
		{i18n.SettingMemCheck, strconv.FormatBool(s.MemCheck.Enabled)},
		{i18n.SettingStderr, strconv.FormatBool(s.Tests.Stderr)},
		{i18n.SettingLanguage, s.UI.Language},
	}
	label := color.New(color.Bold)
	for _, r := range rows {
		value := r.value
		if value == settings.UnsetProgram {
			value = color.RedString(value)
		}
		fmt.Fprintf(w, "%s: %s\n", label.Sprint(dict.T(r.key)), value)
	}
}

func setSetting(cmd *cobra.Command, args []string) error {
	path, err := settingsPath(cmd)
	if err != nil {
		return err
	}
	loaded, err := settings.Load(path)
	if err != nil {
		return err
	}
	if loaded.Found && len(loaded.Warnings) > 0 {
		// Saving would replace an unreadable file with defaults.
		for _, w := range loaded.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.YellowString("warning:"), w)
		}
	}
	s := loaded.Settings
	if err := s.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := settings.Save(path, s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
	return nil
}
