package settings

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"rtest/internal/i18n"
)

type setter func(s *Settings, value string) error

var setters = map[string]setter{
	"tests.dir": func(s *Settings, v string) error {
		if err := requireDir("tests.dir", v); err != nil {
			return err
		}
		s.Tests.Dir = v
		return nil
	},
	"tests.stderr": boolSetter(func(s *Settings) *bool { return &s.Tests.Stderr }),
	"program.path": func(s *Settings, v string) error {
		if err := requireFile("program.path", v); err != nil {
			return err
		}
		s.Program.Path = v
		return nil
	},
	"program.compiled": boolSetter(func(s *Settings) *bool { return &s.Program.Compiled }),
	"program.library": func(s *Settings, v string) error {
		if v != "" {
			if err := requireFile("program.library", v); err != nil {
				return err
			}
		}
		s.Program.Library = v
		return nil
	},
	"memcheck.enabled": boolSetter(func(s *Settings) *bool { return &s.MemCheck.Enabled }),
	"memcheck.tool":    stringSetter(func(s *Settings) *string { return &s.MemCheck.Tool }),
	"memcheck.args":    fieldsSetter(func(s *Settings) *[]string { return &s.MemCheck.Args }),
	"memcheck.error_exitcode": func(s *Settings, v string) error {
		n, err := parseInt(v)
		if err != nil {
			return err
		}
		if n < 1 || n > 255 {
			return fmt.Errorf("memcheck.error_exitcode %d outside 1..255", n)
		}
		s.MemCheck.ErrorExitCode = n
		return nil
	},
	"diff.tool":      stringSetter(func(s *Settings) *string { return &s.Diff.Tool }),
	"diff.args":      fieldsSetter(func(s *Settings) *[]string { return &s.Diff.Args }),
	"compiler.cc":    stringSetter(func(s *Settings) *string { return &s.Compiler.CC }),
	"compiler.flags": fieldsSetter(func(s *Settings) *[]string { return &s.Compiler.Flags }),
	"run.jobs":       nonNegativeSetter(func(s *Settings) *int { return &s.Run.Jobs }),
	"run.timeout": func(s *Settings, v string) error {
		if _, err := ParseTimeout(v); err != nil {
			return err
		}
		s.Run.Timeout = v
		return nil
	},
	"run.workdir": func(s *Settings, v string) error {
		if v != "" {
			if err := requireDir("run.workdir", v); err != nil {
				return err
			}
		}
		s.Run.WorkDir = v
		return nil
	},
	"ui.language": func(s *Settings, v string) error {
		if !i18n.IsSupported(v) {
			return fmt.Errorf("unsupported language %q (expected one of %s)", v, strings.Join(i18n.Supported(), ", "))
		}
		s.UI.Language = v
		return nil
	},
	"ui.fold_width": nonNegativeSetter(func(s *Settings) *int { return &s.UI.FoldWidth }),
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Set assigns value to the dotted key after validating it. Path keys must
// name existing files or directories.
func (s *Settings) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	if err := set(s, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func boolSetter(field func(*Settings) *bool) setter {
	return func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", v)
		}
		*field(s) = b
		return nil
	}
}

func stringSetter(field func(*Settings) *string) setter {
	return func(s *Settings, v string) error {
		if v == "" {
			return fmt.Errorf("value must not be empty")
		}
		*field(s) = v
		return nil
	}
}

func fieldsSetter(field func(*Settings) *[]string) setter {
	return func(s *Settings, v string) error {
		*field(s) = strings.Fields(v)
		return nil
	}
}

func nonNegativeSetter(field func(*Settings) *int) setter {
	return func(s *Settings, v string) error {
		n, err := parseInt(v)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("value %d is negative", n)
		}
		*field(s) = n
		return nil
	}
}

func parseInt(v string) (int, error) {
	n64, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %q", v)
	}
	n, err := safecast.Conv[int](n64)
	if err != nil {
		return 0, fmt.Errorf("integer %q out of range: %w", v, err)
	}
	return n, nil
}
