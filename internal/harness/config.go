package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"rtest/internal/corpus"
	"rtest/internal/toolchain"
)

// Config is the read-only configuration of one run.
type Config struct {
	// CorpusDir holds the units.
	CorpusDir string
	// Program is the subject executable in feeder mode. In compiled mode it
	// is the library linked with every unit unless Library is set.
	Program string
	Library string

	Compiled      bool
	MemCheck      bool
	CompareStderr bool

	Tools toolchain.Tools
	// Jobs bounds the number of units run at once; 0 means GOMAXPROCS.
	Jobs int
	// Timeout bounds one subject run; 0 waits forever.
	Timeout time.Duration
	// WorkDir receives the temporary artifacts; empty means the current
	// directory.
	WorkDir string

	Progress ProgressSink
}

// Mode returns the corpus mode selected by the configuration.
func (c Config) Mode() corpus.Mode {
	if c.Compiled {
		return corpus.ModeCompiled
	}
	return corpus.ModeFeeder
}

// resolve validates the configuration and fills in defaults. Paths handed to
// processes become absolute.
func (c Config) resolve() (Config, error) {
	if c.CorpusDir == "" {
		return c, errors.New("test directory is not set")
	}
	if c.Compiled {
		if c.Library == "" {
			c.Library = c.Program
		}
		if c.Library != "" {
			abs, err := filepath.Abs(c.Library)
			if err != nil {
				return c, fmt.Errorf("resolving library %q: %w", c.Library, err)
			}
			c.Library = abs
		}
	} else {
		if c.Program == "" {
			return c, errors.New("program path is not set")
		}
		c.Program = resolveExecutable(c.Program)
	}

	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	workDir, err := filepath.Abs(c.WorkDir)
	if err != nil {
		return c, fmt.Errorf("resolving work directory %q: %w", c.WorkDir, err)
	}
	c.WorkDir = workDir

	if c.Jobs <= 0 {
		c.Jobs = runtime.GOMAXPROCS(0)
	}
	if c.Timeout < 0 {
		return c, fmt.Errorf("negative timeout %s", c.Timeout)
	}

	defaults := toolchain.DefaultTools()
	if c.Tools.Diff.Path == "" {
		c.Tools.Diff = defaults.Diff
	}
	if c.Tools.MemCheck.Path == "" {
		c.Tools.MemCheck = defaults.MemCheck
	}
	if c.Tools.Compiler.Path == "" {
		c.Tools.Compiler = defaults.Compiler
	}
	return c, nil
}

// resolveExecutable makes an existing file path absolute. Bare names that do
// not exist in the current directory are left for PATH lookup.
func resolveExecutable(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
