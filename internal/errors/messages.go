package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the changelogger CLI.
// These templates ensure consistent, actionable error messages.

// ChangelogNotFound creates an error for a missing changelog file.
func ChangelogNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog not found: %s", path),
		"Run 'changelogger init' to create a changelog",
		"Or point to an existing file with --changelog or changelog.rel_path in .changelogger.yml",
	)
}

// ConfigFileNotFound creates an error for a config file passed with --config
// that does not exist.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Run 'changelogger init' to create .changelogger.yml",
		"Or drop --config to use the default search paths",
	)
}

// ConfigInvalid creates an error for a config file that failed to load or
// validate.
func ConfigInvalid(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Check .changelogger.yml against the commented template printed by 'changelogger init --print-config'",
		"Each versioned file needs rel_path, pattern and exactly one of jinja or template",
	)
}

// InvalidVersion creates an error for a version argument that is not semver.
func InvalidVersion(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid version: %s", provided),
		"changelogger force <major.minor.patch>",
		"Versions follow semantic versioning, e.g. 1.4.0 or 2.0.0-rc.1",
	)
}

// VersionNotGreater creates an error for a forced version that does not move
// past the latest release.
func VersionNotGreater(provided, latest string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("version %s is not greater than the latest version %s", provided, latest),
		"Pick a version above "+latest,
		"List released versions with: changelogger versions --all",
	)
}

// InvalidBumpKind creates an error for an unknown upgrade target.
func InvalidBumpKind(provided string, valid []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid upgrade type: %s", provided),
		"changelogger upgrade <"+strings.Join(valid, "|")+">",
		"Use 'changelogger force <version>' to set an explicit version",
	)
}

// NoVersions creates an error for a changelog with no released versions.
func NoVersions(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("no versions found in %s", path),
		"Add a release heading such as '### [0.1.0] - 2024-01-01'",
		"Or recreate the changelog with: changelogger init",
	)
}

// InvalidCategory creates an error for a release notes category outside the
// Keep a Changelog set.
func InvalidCategory(provided string, valid []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid release notes category: %s", provided),
		"Valid categories: "+strings.Join(valid, ", "),
	)
}

// UpdateFailed creates an error for an update that was rolled back cleanly.
func UpdateFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"Failed to update",
		"No files were changed",
		"Run 'changelogger check' to see which pattern no longer matches",
	)
}

// RollbackFailed creates an error for an update whose rollback also failed.
func RollbackFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"Failed to update. MANUAL INTERVENTION REQUIRED to fix versioned files",
		"Some versioned files may hold partially updated content",
		"Inspect the changes with: git diff",
		"Restore them with: git checkout -- <file>",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'changelogger <command> --help' to see valid options",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}
