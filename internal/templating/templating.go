// Package templating renders versioned-file patterns and replacements and
// substitutes the first match in a file's content.
//
// Both the search pattern and the replacement are text/template sources
// rendered against the pending update. Variables are reachable both as
// fields ({{ .new_version }}) and, for configs written in the jinja style,
// as bare names ({{ new_version }}). The pattern is rendered first and
// compiled as a regular expression; its first match is then exposed to the
// replacement as .match so replacements can reuse capture groups.
package templating

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/config"
)

// DateFormat is the layout of the .today variable.
const DateFormat = "2006-01-02"

// Variables is the data a pattern or replacement is rendered with.
type Variables map[string]any

// Updater renders and applies versioned-file templates.
type Updater struct {
	fs       billy.Filesystem
	patterns *changelog.PatternCache
	now      func() time.Time
}

// Option configures an Updater.
type Option func(*Updater)

// WithFilesystem reads template files from fs instead of the working
// directory.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(u *Updater) {
		if fs != nil {
			u.fs = fs
		}
	}
}

// WithClock sets the source of .today.
func WithClock(now func() time.Time) Option {
	return func(u *Updater) {
		if now != nil {
			u.now = now
		}
	}
}

// WithPatternCache compiles rendered patterns through c.
func WithPatternCache(c *changelog.PatternCache) Option {
	return func(u *Updater) {
		if c != nil {
			u.patterns = c
		}
	}
}

// New creates an Updater.
func New(opts ...Option) *Updater {
	u := &Updater{
		fs:       osfs.New("."),
		patterns: changelog.DefaultPatterns(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Filesystem returns the filesystem template files are read from.
func (u *Updater) Filesystem() billy.Filesystem { return u.fs }

// Variables builds the render context for file and update.
func (u *Updater) Variables(file config.VersionedFile, update changelog.ChangelogUpdate) Variables {
	ctx := file.Context
	if ctx == nil {
		ctx = map[string]any{}
	}
	return Variables{
		"new_version": update.NewVersionString(),
		"old_version": update.OldVersionString(),
		"today":       u.now().Format(DateFormat),
		"sections":    update.ReleaseNotes.Sections(),
		"context":     ctx,
	}
}

// Render expands tmpl with vars. Referencing a missing key is an error, as is
// a bare name that is neither a variable nor a function.
func Render(name, tmpl string, vars Variables) (string, error) {
	t, err := template.New(name).
		Option("missingkey=error").
		Funcs(FuncMap()).
		Funcs(variableFuncs(vars)).
		Parse(tmpl)
	if err != nil {
		return "", &RenderError{Name: name, Template: tmpl, Err: err}
	}

	var b strings.Builder
	if err := t.Execute(&b, map[string]any(vars)); err != nil {
		return "", &RenderError{Name: name, Template: tmpl, Err: err}
	}
	return b.String(), nil
}

// Replacement returns the replacement template source for file. Template
// files are read at call time and lose a single trailing newline, so a file
// template behaves like the same text given inline.
func (u *Updater) Replacement(file config.VersionedFile) (string, error) {
	if file.Template == "" {
		return file.Jinja, nil
	}

	f, err := u.fs.Open(file.Template)
	if err != nil {
		return "", fmt.Errorf("opening template %s: %w", file.Template, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", file.Template, err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
