package update

import (
	"errors"
	"fmt"
)

// UpdateFailedError is returned when a file could not be updated and every
// file written before it was restored. Nothing on disk changed.
type UpdateFailedError struct {
	Path  string
	Cause error
}

func (e *UpdateFailedError) Error() string {
	return fmt.Sprintf("updating %s failed, rollback successful: %v", e.Path, e.Cause)
}

func (e *UpdateFailedError) Unwrap() error {
	return e.Cause
}

// RollbackFailedError is returned when an update failed and restoring the
// files written before it failed as well. The files on disk may be left
// partially updated.
type RollbackFailedError struct {
	Path         string
	Cause        error
	RollbackErrs []error
}

func (e *RollbackFailedError) Error() string {
	return fmt.Sprintf("updating %s failed and rollback failed: %v; %v",
		e.Path, e.Cause, errors.Join(e.RollbackErrs...))
}

// Unwrap exposes both the original failure and the restore failures.
func (e *RollbackFailedError) Unwrap() []error {
	return append([]error{e.Cause}, e.RollbackErrs...)
}
