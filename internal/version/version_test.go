package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestString(t *testing.T) {
	origMajor, origMinor, origPatch := Major, Minor, Patch
	t.Cleanup(func() {
		Major, Minor, Patch = origMajor, origMinor, origPatch
	})

	Major, Minor, Patch = "1", "2", "3"
	if got := String(); got != "1.2.3" {
		t.Fatalf("String() = %q, want %q", got, "1.2.3")
	}
}

func TestColoredWithoutColor(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })

	color.NoColor = true
	if got := Colored(); got != String() {
		t.Fatalf("Colored() = %q, want %q", got, String())
	}
}

func TestBuildMetadataOptional(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	t.Cleanup(func() { GitCommit, BuildDate = origCommit, origDate })

	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"
	if GitCommit != "abc123def456" || BuildDate != "2024-01-15T10:30:00Z" {
		t.Fatalf("build metadata not overridable")
	}
}
