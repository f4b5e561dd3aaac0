package changelog

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Default search patterns for the built-in changelog segments. Both are
// templates themselves and are rendered before being compiled.
const (
	// DefaultOverviewPattern spans from the Unreleased heading to the heading
	// of the version being superseded, or to the end marker for a first release.
	DefaultOverviewPattern = `### \[Unreleased\][\s\S]*?` +
		`{{ if .old_version }}### \[{{ quote .old_version }}\]{{ else }}<!-- END RELEASE NOTES -->{{ end }}`

	// DefaultLinksPattern matches the Unreleased comparison link line.
	DefaultLinksPattern = `(?m)^\[Unreleased\]:[^\n]*\n?`
)

// Names of the embedded templates.
const (
	OverviewTemplateName     = "overview.md.tmpl"
	LinksTemplateName        = "links.md.tmpl"
	NewChangelogTemplateName = "CHANGELOG.md.tmpl"
)

// EmbeddedTemplate returns an embedded template by name. The final newline
// of the file is dropped so replacements end exactly where the pattern did.
func EmbeddedTemplate(name string) (string, error) {
	data, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("reading embedded template %s: %w", name, err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// MustEmbeddedTemplate is like EmbeddedTemplate but panics when the template
// is missing from the binary.
func MustEmbeddedTemplate(name string) string {
	tmpl, err := EmbeddedTemplate(name)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// NewChangelogTemplate returns the template used by `changelogger init`.
// Unlike the segment templates it keeps its trailing newline.
func NewChangelogTemplate() string {
	return MustEmbeddedTemplate(NewChangelogTemplateName) + "\n"
}
