package changelog

import (
	"strings"

	"github.com/ariel-frischer/changelogger/internal/version"
)

// Unreleased is the heading and link label used for changes that have not
// been released yet.
const Unreleased = "Unreleased"

// Category is one of the six Keep a Changelog sections.
// https://keepachangelog.com/en/1.1.0/
type Category int

const (
	Added Category = iota
	Changed
	Deprecated
	Removed
	Fixed
	Security
)

var categoryNames = [...]string{"added", "changed", "deprecated", "removed", "fixed", "security"}

var categoryHelp = [...]string{
	"For new features.",
	"For changes in existing functionality.",
	"For soon-to-be removed features.",
	"For now removed features.",
	"For any bug fixes.",
	"In case of vulnerabilities.",
}

// Categories returns every category in rendering order.
func Categories() []Category {
	return []Category{Added, Changed, Deprecated, Removed, Fixed, Security}
}

// ValidCategories returns the category names in their standard rendering order.
func ValidCategories() []string {
	names := make([]string, len(categoryNames))
	copy(names, categoryNames[:])
	return names
}

// ParseCategory maps a section name (any case, surrounding whitespace
// ignored) to its Category.
func ParseCategory(name string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == normalized {
			return Category(i), nil
		}
	}
	return 0, &UnknownSectionError{Name: name}
}

// String returns the lowercase name used in configs and template contexts.
func (c Category) String() string {
	if c < Added || c > Security {
		return "unknown"
	}
	return categoryNames[c]
}

// Title returns the heading form, e.g. "Added".
func (c Category) Title() string {
	s := c.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Help returns the Keep a Changelog description of the category.
func (c Category) Help() string {
	if c < Added || c > Security {
		return ""
	}
	return categoryHelp[c]
}

// ReleaseNotes groups note entries by category.
// All fields are optional; empty categories are omitted when rendering.
type ReleaseNotes struct {
	Added      []string `yaml:"added,omitempty"`
	Changed    []string `yaml:"changed,omitempty"`
	Deprecated []string `yaml:"deprecated,omitempty"`
	Removed    []string `yaml:"removed,omitempty"`
	Fixed      []string `yaml:"fixed,omitempty"`
	Security   []string `yaml:"security,omitempty"`
}

func (n *ReleaseNotes) field(c Category) *[]string {
	switch c {
	case Added:
		return &n.Added
	case Changed:
		return &n.Changed
	case Deprecated:
		return &n.Deprecated
	case Removed:
		return &n.Removed
	case Fixed:
		return &n.Fixed
	case Security:
		return &n.Security
	}
	return nil
}

// Get returns the entries of a category.
func (n ReleaseNotes) Get(c Category) []string {
	if f := n.field(c); f != nil {
		return *f
	}
	return nil
}

// Set replaces the entries of a category.
func (n *ReleaseNotes) Set(c Category, entries []string) {
	if f := n.field(c); f != nil {
		*f = entries
	}
}

// Append adds entries to the end of a category.
func (n *ReleaseNotes) Append(c Category, entries ...string) {
	if f := n.field(c); f != nil {
		*f = append(*f, entries...)
	}
}

// GetByName returns the entries of the named category.
func (n ReleaseNotes) GetByName(name string) ([]string, error) {
	c, err := ParseCategory(name)
	if err != nil {
		return nil, err
	}
	return n.Get(c), nil
}

// AppendByName adds entries to the named category.
func (n *ReleaseNotes) AppendByName(name string, entries ...string) error {
	c, err := ParseCategory(name)
	if err != nil {
		return err
	}
	n.Append(c, entries...)
	return nil
}

// Merge appends every entry of other, category by category.
func (n *ReleaseNotes) Merge(other ReleaseNotes) {
	for _, c := range Categories() {
		n.Append(c, other.Get(c)...)
	}
}

// HasNotes reports whether at least one category has an entry.
func (n ReleaseNotes) HasNotes() bool {
	return n.Count() > 0
}

// Count returns the total number of entries across all categories.
func (n ReleaseNotes) Count() int {
	total := 0
	for _, c := range Categories() {
		total += len(n.Get(c))
	}
	return total
}

// Sections returns the notes keyed by category name, with every category
// present. This is the "sections" value exposed to templates.
func (n ReleaseNotes) Sections() map[string][]string {
	sections := make(map[string][]string, len(categoryNames))
	for _, c := range Categories() {
		entries := n.Get(c)
		if entries == nil {
			entries = []string{}
		}
		sections[c.String()] = entries
	}
	return sections
}

// NotesFromSections is the inverse of Sections. Unknown keys are rejected.
func NotesFromSections(sections map[string][]string) (ReleaseNotes, error) {
	var notes ReleaseNotes
	for name, entries := range sections {
		if err := notes.AppendByName(name, entries...); err != nil {
			return ReleaseNotes{}, err
		}
	}
	return notes, nil
}

// ChangelogUpdate is a pending transition from OldVersion to NewVersion.
// OldVersion is nil for an initial release; NewVersion is nil while the notes
// stay under the Unreleased heading.
type ChangelogUpdate struct {
	OldVersion   *version.Info
	NewVersion   *version.Info
	ReleaseNotes ReleaseNotes
}

// OldVersionString renders OldVersion or returns "" when absent.
func (u ChangelogUpdate) OldVersionString() string {
	if u.OldVersion == nil {
		return ""
	}
	return u.OldVersion.String()
}

// NewVersionString renders NewVersion or returns "" when absent.
func (u ChangelogUpdate) NewVersionString() string {
	if u.NewVersion == nil {
		return ""
	}
	return u.NewVersion.String()
}

// IsRelease reports whether the update moves the notes into a new version.
func (u ChangelogUpdate) IsRelease() bool {
	return u.NewVersion != nil
}
