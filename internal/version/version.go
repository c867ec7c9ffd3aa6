// Package version holds build metadata of the rtest CLI.
package version

import "github.com/fatih/color"

// These variables can be overridden at build time via -ldflags.
var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Major, Minor and Patch form the semantic version.
	Major = "0"
	Minor = "3"
	Patch = "0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// String returns the plain semantic version.
func String() string {
	return Major + "." + Minor + "." + Patch
}

// Colored returns the version with each component colored. Colors follow
// fatih/color's NoColor setting.
func Colored() string {
	return versionMajorColor.Sprint(Major) + "." + versionMinorColor.Sprint(Minor) + "." + versionPatchColor.Sprint(Patch)
}
