// Package errors provides the categorized errors changelogger prints: each
// carries a message, optional usage line and the steps that fix it.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory decides how an error is labelled and which exit code the
// CLI returns for it.
type ErrorCategory int

const (
	// Argument errors come from bad command-line input.
	Argument ErrorCategory = iota
	// Configuration errors come from .changelogger.yml or its overrides.
	Configuration
	// Prerequisite errors mean a changelog, remote or section is missing.
	Prerequisite
	// Runtime errors happen while reading or rewriting files.
	Runtime
)

var categoryNames = map[ErrorCategory]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Prerequisite:  "Prerequisite Error",
	Runtime:       "Runtime Error",
}

func (c ErrorCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Error"
}

// CLIError is an error with remediation guidance.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Remediation []string
	// Usage is the correct command syntax, shown for argument errors.
	Usage string

	cause error
}

func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the error this CLIError was built from, if any.
func (e *CLIError) Unwrap() error {
	return e.cause
}

func newError(category ErrorCategory, message string, remediation []string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// NewArgumentError reports bad command-line input.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return newError(Argument, message, remediation)
}

// NewArgumentErrorWithUsage reports bad input along with the expected syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	err := newError(Argument, message, remediation)
	err.Usage = usage
	return err
}

// NewConfigError reports a configuration problem.
func NewConfigError(message string, remediation ...string) *CLIError {
	return newError(Configuration, message, remediation)
}

// NewPrerequisiteError reports something that must exist before the command
// can run.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return newError(Prerequisite, message, remediation)
}

// NewRuntimeError reports a failure while the command ran.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return newError(Runtime, message, remediation)
}

// Wrap categorizes err, keeping its message. It returns nil for a nil err.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	wrapped := newError(category, err.Error(), remediation)
	wrapped.cause = err
	return wrapped
}

// WrapWithMessage categorizes err under "message: err".
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	wrapped := newError(category, fmt.Sprintf("%s: %v", message, err), remediation)
	wrapped.cause = err
	return wrapped
}

// IsCLIError reports whether err is, or wraps, a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
