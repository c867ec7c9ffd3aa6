// Package settings owns the run configuration stored in rtest.toml.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"rtest/internal/harness"
	"rtest/internal/i18n"
	"rtest/internal/toolchain"
)

// FileName is the settings file looked up in the working directory.
const FileName = "rtest.toml"

// UnsetProgram is the placeholder program path of fresh settings.
const UnsetProgram = "PLEASE, SET!"

// DefaultFoldWidth is the column at which diagnostics are folded.
const DefaultFoldWidth = 200

// Settings mirrors rtest.toml.
type Settings struct {
	Tests    Tests    `toml:"tests"`
	Program  Program  `toml:"program"`
	MemCheck MemCheck `toml:"memcheck"`
	Diff     Diff     `toml:"diff"`
	Compiler Compiler `toml:"compiler"`
	Run      Run      `toml:"run"`
	UI       UI       `toml:"ui"`
}

type Tests struct {
	Dir    string `toml:"dir"`
	Stderr bool   `toml:"stderr"`
}

type Program struct {
	Path     string `toml:"path"`
	Compiled bool   `toml:"compiled"`
	Library  string `toml:"library,omitempty"`
}

type MemCheck struct {
	Enabled       bool     `toml:"enabled"`
	Tool          string   `toml:"tool"`
	Args          []string `toml:"args"`
	ErrorExitCode int      `toml:"error_exitcode"`
}

type Diff struct {
	Tool string   `toml:"tool"`
	Args []string `toml:"args"`
}

type Compiler struct {
	CC    string   `toml:"cc"`
	Flags []string `toml:"flags"`
}

type Run struct {
	Jobs int `toml:"jobs"`
	// Timeout is a Go duration ("2s", "1m"); empty or "0" disables it.
	Timeout string `toml:"timeout"`
	WorkDir string `toml:"workdir"`
}

type UI struct {
	Language  string `toml:"language"`
	FoldWidth int    `toml:"fold_width"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	tools := toolchain.DefaultTools()
	return Settings{
		Tests:   Tests{Dir: "testy/"},
		Program: Program{Path: UnsetProgram},
		MemCheck: MemCheck{
			Enabled:       true,
			Tool:          tools.MemCheck.Path,
			Args:          slices.Clone(tools.MemCheck.Args),
			ErrorExitCode: tools.MemCheck.ErrorExitCode,
		},
		Diff: Diff{
			Tool: tools.Diff.Path,
			Args: slices.Clone(tools.Diff.Args),
		},
		Compiler: Compiler{
			CC:    tools.Compiler.Path,
			Flags: slices.Clone(tools.Compiler.Flags),
		},
		UI: UI{
			Language:  i18n.DefaultLanguage,
			FoldWidth: DefaultFoldWidth,
		},
	}
}

// Loaded is the result of reading a settings file.
type Loaded struct {
	Settings Settings
	Path     string
	// Found is false when the file does not exist.
	Found bool
	// Warnings are problems that did not stop loading.
	Warnings []string
}

// Load reads path on top of Default. A missing file yields defaults. A file
// that fails to parse also yields defaults, with a warning.
func Load(path string) (Loaded, error) {
	loaded := Loaded{Settings: Default(), Path: path}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return loaded, nil
		}
		return loaded, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	loaded.Found = true

	s := Default()
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		loaded.Warnings = append(loaded.Warnings, fmt.Sprintf("%s: failed to parse TOML, using defaults: %v", path, err))
		return loaded, nil
	}
	for _, key := range meta.Undecoded() {
		loaded.Warnings = append(loaded.Warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	if !meta.IsDefined("program", "path") {
		loaded.Warnings = append(loaded.Warnings, fmt.Sprintf("%s: missing [program].path", path))
	}
	loaded.Settings = s
	return loaded, nil
}

// Save writes s to path atomically.
func Save(path string, s Settings) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".rtest-*.toml")
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving settings: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// ParseTimeout parses the [run] timeout value.
func ParseTimeout(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: negative", value)
	}
	return d, nil
}

// Subject returns the path that must exist for a run: the program in feeder
// mode, the library in compiled mode.
func (s Settings) Subject() string {
	if s.Program.Compiled && s.Program.Library != "" {
		return s.Program.Library
	}
	return s.Program.Path
}

// Validate reports every problem that would keep a run from starting.
func (s Settings) Validate() error {
	var errs []error
	if err := requireDir("tests.dir", s.Tests.Dir); err != nil {
		errs = append(errs, err)
	}
	subject := s.Subject()
	if subject == "" || subject == UnsetProgram {
		errs = append(errs, errors.New("program.path is not set"))
	} else if err := requireFile("program.path", subject); err != nil {
		errs = append(errs, err)
	}
	if code := s.MemCheck.ErrorExitCode; code < 1 || code > 255 {
		errs = append(errs, fmt.Errorf("memcheck.error_exitcode %d outside 1..255", code))
	}
	if s.Run.Jobs < 0 {
		errs = append(errs, fmt.Errorf("run.jobs %d is negative", s.Run.Jobs))
	}
	if _, err := ParseTimeout(s.Run.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("run.timeout: %w", err))
	}
	if s.Run.WorkDir != "" {
		if err := requireDir("run.workdir", s.Run.WorkDir); err != nil {
			errs = append(errs, err)
		}
	}
	if !i18n.IsSupported(s.UI.Language) {
		errs = append(errs, fmt.Errorf("ui.language %q is not supported", s.UI.Language))
	}
	if s.UI.FoldWidth < 0 {
		errs = append(errs, fmt.Errorf("ui.fold_width %d is negative", s.UI.FoldWidth))
	}
	return errors.Join(errs...)
}

func requireDir(key, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %q is not a directory", key, path)
	}
	return nil
}

func requireFile(key, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %q is a directory", key, path)
	}
	return nil
}

// HarnessConfig converts the settings into a run configuration.
func (s Settings) HarnessConfig() (harness.Config, error) {
	timeout, err := ParseTimeout(s.Run.Timeout)
	if err != nil {
		return harness.Config{}, err
	}
	return harness.Config{
		CorpusDir:     s.Tests.Dir,
		Program:       s.Program.Path,
		Library:       s.Program.Library,
		Compiled:      s.Program.Compiled,
		MemCheck:      s.MemCheck.Enabled,
		CompareStderr: s.Tests.Stderr,
		Tools: toolchain.Tools{
			MemCheck: toolchain.MemCheckTool{
				Path:          s.MemCheck.Tool,
				Args:          slices.Clone(s.MemCheck.Args),
				ErrorExitCode: s.MemCheck.ErrorExitCode,
			},
			Diff: toolchain.DiffTool{
				Path: s.Diff.Tool,
				Args: slices.Clone(s.Diff.Args),
			},
			Compiler: toolchain.CompilerTool{
				Path:  s.Compiler.CC,
				Flags: slices.Clone(s.Compiler.Flags),
			},
		},
		Jobs:    s.Run.Jobs,
		Timeout: timeout,
		WorkDir: s.Run.WorkDir,
	}, nil
}
