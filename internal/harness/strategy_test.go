package harness

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectStrategy(t *testing.T) {
	cases := []struct {
		cfg    Config
		name   string
		stages []Stage
	}{
		{Config{}, "feeder", []Stage{StageRun, StageCompareStdout}},
		{Config{MemCheck: true}, "feeder+memcheck", []Stage{StageMemCheck, StageCompareStdout}},
		{Config{Compiled: true, CompareStderr: true}, "compiled", []Stage{StageCompile, StageRun, StageCompareStdout, StageCompareStderr}},
		{Config{Compiled: true, MemCheck: true}, "compiled+memcheck", []Stage{StageCompile, StageMemCheck, StageCompareStdout}},
	}
	for _, tc := range cases {
		got := selectStrategy(tc.cfg)
		if got.name != tc.name {
			t.Fatalf("name = %q, want %q", got.name, tc.name)
		}
		if diff := cmp.Diff(tc.stages, got.stages); diff != "" {
			t.Fatalf("%s stages mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestArtifactNames(t *testing.T) {
	art := ArtifactsFor("/w", 7)
	want := Artifacts{
		Stdout:      "/w/rtest_stdout7",
		Stderr:      "/w/rtest_stderr7",
		Compilation: "/w/rtest_compilation7",
		MemCheckLog: "/w/rtest_memcheck7",
	}
	if diff := cmp.Diff(want, art); diff != "" {
		t.Fatalf("artifacts mismatch (-want +got):\n%s", diff)
	}
}

func TestIsArtifact(t *testing.T) {
	cases := map[string]bool{
		"rtest_stdout0":       true,
		"rtest_compilation12": true,
		"rtest_memcheck3":     true,
		"rtest_stdout":        false,
		"rtest_stdoutx":       false,
		"rtest.toml":          false,
		"history.log":         false,
	}
	for name, want := range cases {
		if got := IsArtifact(name); got != want {
			t.Fatalf("IsArtifact(%q) = %v, want %v", name, got, want)
		}
	}
}
