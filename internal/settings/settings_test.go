package settings

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"rtest/internal/testkit"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Found {
		t.Fatalf("missing file reported as found")
	}
	if diff := cmp.Diff(Default(), loaded.Settings); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
	def := loaded.Settings
	if def.Tests.Dir != "testy/" || !def.MemCheck.Enabled || def.Tests.Stderr || def.UI.Language != "EN_en" {
		t.Fatalf("unexpected defaults %+v", def)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	testkit.WriteFile(t, path, `
[program]
path = "/opt/prog"

[memcheck]
enabled = false

[run]
jobs = 3
timeout = "2s"
`)

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", loaded.Warnings)
	}
	s := loaded.Settings
	if s.Program.Path != "/opt/prog" || s.MemCheck.Enabled || s.Run.Jobs != 3 {
		t.Fatalf("file values not applied: %+v", s)
	}
	if s.Diff.Tool != "diff" || s.Tests.Dir != "testy/" {
		t.Fatalf("defaults lost: %+v", s)
	}

	cfg, err := s.HarnessConfig()
	if err != nil {
		t.Fatalf("HarnessConfig: %v", err)
	}
	if cfg.Timeout != 2*time.Second || cfg.Jobs != 3 || cfg.MemCheck {
		t.Fatalf("unexpected harness config %+v", cfg)
	}
}

func TestLoadBrokenFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	testkit.WriteFile(t, path, "[program\npath = 1\n")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Warnings) != 1 || !strings.Contains(loaded.Warnings[0], "using defaults") {
		t.Fatalf("warnings = %v", loaded.Warnings)
	}
	if diff := cmp.Diff(Default(), loaded.Settings); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWarnsOnUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	testkit.WriteFile(t, path, "[program]\npath = \"x\"\nflavour = \"mint\"\n")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Warnings) != 1 || !strings.Contains(loaded.Warnings[0], "program.flavour") {
		t.Fatalf("warnings = %v", loaded.Warnings)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s := Default()
	s.Program.Compiled = true
	s.Program.Library = "/lib/libfoo.o"
	s.Run.Timeout = "1m"

	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(s, loaded.Settings); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSet(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "prog")
	testkit.WriteFile(t, prog, "")

	s := Default()
	steps := []struct{ key, value string }{
		{"tests.dir", dir},
		{"tests.stderr", "true"},
		{"program.path", prog},
		{"memcheck.enabled", "false"},
		{"memcheck.error_exitcode", "42"},
		{"compiler.flags", "-O0 -g"},
		{"run.jobs", "8"},
		{"run.timeout", "500ms"},
		{"ui.language", "PL_pl"},
		{"ui.fold_width", "80"},
	}
	for _, step := range steps {
		if err := s.Set(step.key, step.value); err != nil {
			t.Fatalf("Set(%s, %s): %v", step.key, step.value, err)
		}
	}

	if s.Tests.Dir != dir || !s.Tests.Stderr || s.Program.Path != prog || s.MemCheck.Enabled {
		t.Fatalf("values not applied: %+v", s)
	}
	if diff := cmp.Diff([]string{"-O0", "-g"}, s.Compiler.Flags); diff != "" {
		t.Fatalf("flags mismatch (-want +got):\n%s", diff)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSetRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	testkit.WriteFile(t, file, "")

	cases := []struct{ key, value string }{
		{"tests.dir", filepath.Join(dir, "missing")},
		{"tests.dir", file},
		{"program.path", dir},
		{"program.path", filepath.Join(dir, "missing")},
		{"tests.stderr", "maybe"},
		{"memcheck.error_exitcode", "0"},
		{"memcheck.error_exitcode", "256"},
		{"run.jobs", "-1"},
		{"run.jobs", "many"},
		{"run.timeout", "soon"},
		{"ui.language", "DE_de"},
		{"diff.tool", ""},
		{"no.such.key", "x"},
	}
	for _, tc := range cases {
		s := Default()
		before := s
		if err := s.Set(tc.key, tc.value); err == nil {
			t.Fatalf("Set(%s, %q) succeeded", tc.key, tc.value)
		}
		if diff := cmp.Diff(before, s); diff != "" {
			t.Fatalf("failed Set(%s) changed settings:\n%s", tc.key, diff)
		}
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	s := Default()
	s.Tests.Dir = filepath.Join(t.TempDir(), "missing")
	s.MemCheck.ErrorExitCode = 0
	s.UI.Language = "XX"

	err := s.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"tests.dir", "program.path is not set", "error_exitcode", "ui.language"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err, want)
		}
	}
}

func TestSubject(t *testing.T) {
	s := Default()
	s.Program.Path = "/lib/a.o"
	if s.Subject() != "/lib/a.o" {
		t.Fatalf("subject = %q", s.Subject())
	}
	s.Program.Compiled = true
	s.Program.Library = "/lib/b.o"
	if s.Subject() != "/lib/b.o" {
		t.Fatalf("compiled subject = %q", s.Subject())
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("keys not sorted: %v", keys)
		}
	}
}
