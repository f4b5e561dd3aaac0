// Package update applies a pending changelog update to every versioned file
// with an all-or-nothing guarantee: when one file fails, every file already
// written is restored to its original content.
package update

import (
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/config"
	"github.com/ariel-frischer/changelogger/internal/templating"
)

// State is the lifecycle of an Orchestrator.
type State int

const (
	NotStarted State = iota
	InProgress
	Committed
	RolledBack
	RollbackFailed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled back"
	case RollbackFailed:
		return "rollback failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// snapshot is the content of a file before it was rewritten.
type snapshot struct {
	path    string
	content []byte
	mode    os.FileMode
}

// Orchestrator runs one update. It is single use: Apply may be called once.
type Orchestrator struct {
	fs      billy.Filesystem
	updater *templating.Updater
	state   State
	written []snapshot

	// Debugf, when set, receives progress messages.
	Debugf func(format string, args ...any)
}

// New creates an Orchestrator writing through fs.
func New(fs billy.Filesystem, updater *templating.Updater) *Orchestrator {
	return &Orchestrator{fs: fs, updater: updater}
}

// State returns the current state.
func (o *Orchestrator) State() State { return o.state }

// Written returns the paths written so far, in write order. After a
// rollback they have been restored.
func (o *Orchestrator) Written() []string {
	paths := make([]string, len(o.written))
	for i, s := range o.written {
		paths[i] = s.path
	}
	return paths
}

func (o *Orchestrator) debugf(format string, args ...any) {
	if o.Debugf != nil {
		o.Debugf(format, args...)
	}
}

// Apply renders update into each file in order and writes the result. On
// the first failure every file already written is restored in reverse order
// and an *UpdateFailedError is returned, or a *RollbackFailedError when a
// restore fails too. The failing file is never written and later files are
// never read.
func (o *Orchestrator) Apply(update changelog.ChangelogUpdate, files []config.VersionedFile) error {
	if o.state != NotStarted {
		return fmt.Errorf("update already %s", o.state)
	}
	o.state = InProgress

	for _, file := range files {
		if err := o.applyOne(update, file); err != nil {
			o.debugf("update of %s failed: %v", file.RelPath, err)
			return o.rollback(file.RelPath, err)
		}
	}

	o.state = Committed
	o.debugf("updated %d file(s)", len(o.written))
	return nil
}

func (o *Orchestrator) applyOne(update changelog.ChangelogUpdate, file config.VersionedFile) error {
	original, mode, err := o.read(file.RelPath)
	if err != nil {
		return err
	}

	updated, err := o.updater.Apply(file, update, string(original))
	if err != nil {
		return err
	}

	o.written = append(o.written, snapshot{path: file.RelPath, content: original, mode: mode})
	if err := util.WriteFile(o.fs, file.RelPath, []byte(updated), mode); err != nil {
		// A failed write may have truncated the file, so it is restored too.
		return fmt.Errorf("writing %s: %w", file.RelPath, err)
	}
	o.debugf("wrote %s", file.RelPath)
	return nil
}

func (o *Orchestrator) read(path string) ([]byte, os.FileMode, error) {
	info, err := o.fs.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}

	f, err := o.fs.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, info.Mode().Perm(), nil
}

// rollback restores every snapshot, newest first. A file listed twice is
// therefore left with its oldest snapshot, the content before this update.
func (o *Orchestrator) rollback(path string, cause error) error {
	var restoreErrs []error
	for i := len(o.written) - 1; i >= 0; i-- {
		s := o.written[i]
		if err := util.WriteFile(o.fs, s.path, s.content, s.mode); err != nil {
			o.debugf("restoring %s failed: %v", s.path, err)
			restoreErrs = append(restoreErrs, fmt.Errorf("restoring %s: %w", s.path, err))
			continue
		}
		o.debugf("restored %s", s.path)
	}

	if len(restoreErrs) > 0 {
		o.state = RollbackFailed
		return &RollbackFailedError{Path: path, Cause: cause, RollbackErrs: restoreErrs}
	}
	o.state = RolledBack
	return &UpdateFailedError{Path: path, Cause: cause}
}
