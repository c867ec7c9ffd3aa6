package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota
	// LevelError keeps unit events in memory for dumps on internal errors.
	LevelError
	// LevelRun emits orchestration boundaries.
	LevelRun
	// LevelUnit adds one span per unit.
	LevelUnit
	// LevelStep adds every step of every unit.
	LevelStep
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelRun:
		return "run"
	case LevelUnit:
		return "unit"
	case LevelStep:
		return "step"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "run":
		return LevelRun, nil
	case "unit":
		return LevelUnit, nil
	case "step":
		return LevelStep, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|run|unit|step)", s)
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelError:
		// kept in memory only; see New
		return scope <= ScopeUnit
	case LevelRun:
		return scope <= ScopeRun
	case LevelUnit:
		return scope <= ScopeUnit
	case LevelStep:
		return true
	default:
		return false
	}
}
