// Package build provides version and build information for changelogger.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import "runtime/debug"

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Info returns the version, commit and build date. For dev builds installed
// with `go install` the module version and VCS revision are read from the
// embedded build info when ldflags were not set.
func Info() (version, commit, date string) {
	version, commit, date = Version, Commit, BuildDate
	if !IsDevBuild() {
		return version, commit, date
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit, date
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		version = v
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "unknown" && s.Value != "" {
				commit = s.Value
			}
		case "vcs.time":
			if date == "unknown" && s.Value != "" {
				date = s.Value
			}
		}
	}
	return version, commit, date
}
