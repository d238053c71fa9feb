package version

import (
	"fmt"
	"runtime"
)

// Build metadata injected by goreleaser or makefile
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns a formatted version string
func GetVersion() string {
	if Version == "dev" {
		return "dev"
	}
	return Version
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() string {
	if Version == "dev" {
		return fmt.Sprintf("KatFlow dev (%s, %s/%s)", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("KatFlow %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}

// GetShortVersion is what the dashboard header shows.
func GetShortVersion() string {
	return "KatFlow " + GetVersion()
}
