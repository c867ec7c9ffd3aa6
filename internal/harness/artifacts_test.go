package harness

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rtest/internal/testkit"
)

func TestCleanStale(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"rtest_stdout0", "rtest_stderr0", "rtest_compilation4", "rtest.toml", "notes.txt"} {
		testkit.WriteFile(t, filepath.Join(dir, name), "x")
	}

	removed, err := CleanStale(dir)
	if err != nil {
		t.Fatalf("CleanStale: %v", err)
	}
	slices.Sort(removed)
	want := []string{
		filepath.Join(dir, "rtest_compilation4"),
		filepath.Join(dir, "rtest_stderr0"),
		filepath.Join(dir, "rtest_stdout0"),
	}
	if diff := cmp.Diff(want, removed); diff != "" {
		t.Fatalf("removed mismatch (-want +got):\n%s", diff)
	}

	again, err := CleanStale(dir)
	if err != nil || len(again) != 0 {
		t.Fatalf("second clean removed %v, err %v", again, err)
	}
}
