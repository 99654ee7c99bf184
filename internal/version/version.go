// Package version provides build-time version information for razer-x-color.
// Version information is injected at build time using ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version of the application.
	// Injected at build time via: -ldflags "-X github.com/jmylchreest/razer-x-color/internal/version.Version=x.y.z".
	Version = "dev"

	// Commit is the git commit hash of the build.
	// Injected at build time via: -ldflags "-X github.com/jmylchreest/razer-x-color/internal/version.Commit=$(git rev-parse HEAD)".
	Commit = "unknown"

	// Date is the build date in RFC3339 format.
	Date = "unknown"

	// GoVersion is the Go version used to build the binary.
	GoVersion = runtime.Version()
)

// String returns a human-readable version string.
func String() string {
	platform := fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	if Commit != "unknown" && Date != "unknown" {
		commit := Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		return fmt.Sprintf("razer-x-color version %s (commit: %s, built: %s, %s, %s)",
			Version, commit, Date, GoVersion, platform)
	}
	return fmt.Sprintf("razer-x-color version %s (%s, %s)", Version, GoVersion, platform)
}

// Short returns a short version string suitable for CLI output.
func Short() string {
	return Version
}
