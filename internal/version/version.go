package version

import "fmt"

// Build metadata, overridden at release time through -ldflags.
var (
	// Version is the semantic version of the packaging tool itself.
	Version = "1.0.0"
	// Commit is the short revision hash the binary was built from.
	Commit = "none"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns the bare semantic version.
func Short() string {
	return Version
}

// Full returns the version together with the commit and build timestamp.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Version, Commit, BuildTime)
}
