package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/config"
	clierrors "github.com/ariel-frischer/changelogger/internal/errors"
	"github.com/ariel-frischer/changelogger/internal/update"
	"github.com/ariel-frischer/changelogger/internal/version"
)

// Exit codes for the changelogger CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates the command failed
	ExitFailure = 1

	// ExitValidationFailed indicates `check --fail` found invalid files
	ExitValidationFailed = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingPrerequisites indicates a required file or remote is missing
	ExitMissingPrerequisites = 4
)

// ExitError ends the command with a specific exit code. Its message has
// already been printed by the command.
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitCodeFor maps an error category to an exit code.
func exitCodeFor(err *clierrors.CLIError) int {
	switch err.Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Prerequisite:
		return ExitMissingPrerequisites
	default:
		return ExitFailure
	}
}

// toCLIError converts domain errors into CLIErrors with remediation steps.
func toCLIError(err error) *clierrors.CLIError {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		rollbackFailed *update.RollbackFailedError
		updateFailed   *update.UpdateFailedError
		configErr      *config.ValidationError
		parseErr       *version.ParseError
		unknownSection *changelog.UnknownSectionError
		partition      *changelog.PartitionNotFoundError
		validation     *changelog.ValidationErrors
		notFound       *changelog.VersionNotFoundError
	)

	switch {
	case errors.As(err, &rollbackFailed):
		return clierrors.RollbackFailed(err)
	case errors.As(err, &updateFailed):
		return clierrors.UpdateFailed(err)
	case errors.As(err, &configErr):
		return configError(err)
	case errors.As(err, &parseErr):
		return clierrors.InvalidVersion(parseErr.Input)
	case errors.As(err, &unknownSection):
		return clierrors.InvalidCategory(unknownSection.Name, changelog.ValidCategories())
	case errors.As(err, &notFound):
		return clierrors.NewArgumentError(notFound.Error(),
			"List versions with: changelogger versions --all")
	case errors.Is(err, changelog.ErrNoVersions):
		return clierrors.NewPrerequisiteError(err.Error(),
			"Add a release heading such as '### [0.1.0] - 2024-01-01'",
			"Or recreate the changelog with: changelogger init")
	case errors.As(err, &partition):
		return clierrors.NewPrerequisiteError(err.Error(),
			"Wrap release notes in "+changelog.BeginReleaseNotes+" ... "+changelog.EndReleaseNotes,
			"Wrap links in "+changelog.BeginLinks+" ... "+changelog.EndLinks)
	case errors.As(err, &validation):
		return clierrors.Wrap(err, clierrors.Runtime,
			"Run 'changelogger check' to see every problem")
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}

func configError(err error) *clierrors.CLIError {
	var configErr *config.ValidationError
	if errors.As(err, &configErr) && strings.Contains(configErr.Message, "not found") {
		return clierrors.ConfigFileNotFound(configErr.FilePath)
	}
	return clierrors.ConfigInvalid(err)
}
