package changelog

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/changelogger/internal/version"
)

// ErrNoVersions is returned when the release-notes partition has no valid
// version headings.
var ErrNoVersions = version.ErrNoVersions

// PartitionNotFoundError is returned when a partition's marker comments are
// missing from the document.
type PartitionNotFoundError struct {
	Name  string
	Begin string
	End   string
}

func (e *PartitionNotFoundError) Error() string {
	return fmt.Sprintf("could not find the %s partition (expected %q ... %q)", e.Name, e.Begin, e.End)
}

// ExtractionError is returned when release notes cannot be extracted for a
// heading.
type ExtractionError struct {
	Label string
	Until string
}

func (e *ExtractionError) Error() string {
	return "Could not extract release notes."
}

// Detail describes which headings were searched.
func (e *ExtractionError) Detail() string {
	if e.Until == "" {
		return fmt.Sprintf("no heading found for [%s]", e.Label)
	}
	return fmt.Sprintf("no span found from [%s] to [%s]", e.Label, e.Until)
}

// UnknownSectionError is returned for a release-notes category name outside
// the Keep a Changelog set.
type UnknownSectionError struct {
	Name string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown release notes section %q (valid: %s)",
		e.Name, strings.Join(ValidCategories(), ", "))
}

// VersionNotFoundError is returned when a requested version has no heading.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// ValidationErrors collects every problem found while validating a document
// so that all of them can be reported at once.
type ValidationErrors struct {
	Path   string
	Errors []error
}

func (e *ValidationErrors) Error() string {
	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	fmt.Fprintf(&b, "%d validation error(s)", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

func (e *ValidationErrors) add(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Errorf(format, args...))
}

// errOrNil returns nil when nothing was collected.
func (e *ValidationErrors) errOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
