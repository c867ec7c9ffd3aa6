package main

import (
	"fmt"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

// uiModeEnv supplies the mode when --ui is not given.
const uiModeEnv = "RTEST_UI"

// resolveUIMode parses --ui, falling back to $RTEST_UI when the flag was not
// set on the command line.
func resolveUIMode(flag string, changed bool) (uiMode, error) {
	if !changed {
		if env, ok := os.LookupEnv(uiModeEnv); ok {
			mode, err := readUIMode(env)
			if err != nil {
				return "", fmt.Errorf("%s: %w", uiModeEnv, err)
			}
			return mode, nil
		}
	}
	return readUIMode(flag)
}

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid ui mode %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI decides whether the progress view runs. In auto mode it runs
// only on an interactive terminal outside CI.
func shouldUseTUI(mode uiMode, out *os.File) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(out)
}
