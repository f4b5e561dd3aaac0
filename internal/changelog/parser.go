package changelog

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ariel-frischer/changelogger/internal/version"
)

// Partition markers delimiting the regions of the document.
const (
	BeginReleaseNotes = "<!-- BEGIN RELEASE NOTES -->"
	EndReleaseNotes   = "<!-- END RELEASE NOTES -->"
	BeginLinks        = "<!-- BEGIN LINKS -->"
	EndLinks          = "<!-- END LINKS -->"
)

const (
	headingPattern = `(?m)^###[ \t]+\[([^\]\n]+)\](?:[ \t]+-[ \t]+(\d{4}-\d{2}-\d{2}))?`
	linkPattern    = `(?m)^\[([^\]\n]+)\]:[ \t]*(\S[^\n]*?)[ \t]*$`
	sectionPattern = `(?m)^#+[ \t]*`
	bulletPattern  = `^[ \t]*-[ \t]+(.*\S)[ \t]*$`
)

// Document is a changelog loaded into memory. It is read-only; callers that
// need to modify the file go through the update package.
type Document struct {
	path     string
	content  string
	patterns *PatternCache
	strict   bool
}

// Option configures a Document.
type Option func(*Document)

// WithPatternCache uses the given cache instead of the shared default.
func WithPatternCache(c *PatternCache) Option {
	return func(d *Document) {
		if c != nil {
			d.patterns = c
		}
	}
}

// WithStrictSections reports unknown release-notes categories as
// UnknownSectionError instead of silently dropping them.
func WithStrictSections(strict bool) Option {
	return func(d *Document) {
		d.strict = strict
	}
}

// Load reads the changelog at path.
func Load(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog file: %w", err)
	}
	doc := NewDocument(string(data), opts...)
	doc.path = path
	return doc, nil
}

// NewDocument wraps changelog text.
func NewDocument(content string, opts ...Option) *Document {
	d := &Document{content: content, patterns: DefaultPatterns()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Path returns the file the document was loaded from, if any.
func (d *Document) Path() string { return d.path }

// Content returns the full document text.
func (d *Document) Content() string { return d.content }

// ReleaseNotesPartition returns the text between the release-notes markers.
func (d *Document) ReleaseNotesPartition() (string, error) {
	return d.partition("release notes", BeginReleaseNotes, EndReleaseNotes)
}

// LinksPartition returns the text between the links markers.
func (d *Document) LinksPartition() (string, error) {
	return d.partition("links", BeginLinks, EndLinks)
}

// partition locates the region between begin and end. A blank document is
// treated as having empty partitions so that it simply yields no versions.
func (d *Document) partition(name, begin, end string) (string, error) {
	if strings.TrimSpace(d.content) == "" {
		return "", nil
	}

	start := strings.Index(d.content, begin)
	if start < 0 {
		return "", &PartitionNotFoundError{Name: name, Begin: begin, End: end}
	}
	start += len(begin)

	stop := strings.Index(d.content[start:], end)
	if stop < 0 {
		return "", &PartitionNotFoundError{Name: name, Begin: begin, End: end}
	}
	return d.content[start : start+stop], nil
}

// Heading is a `### [label]` line in the release-notes partition.
type Heading struct {
	Label string
	Date  string
}

// IsUnreleased reports whether the heading is the Unreleased section.
func (h Heading) IsUnreleased() bool {
	return strings.EqualFold(h.Label, Unreleased)
}

// Version parses the label. ok is false for labels that are not versions.
func (h Heading) Version() (version.Info, bool) {
	v, err := version.Parse(h.Label)
	if err != nil {
		return version.Info{}, false
	}
	return v, true
}

// Headings returns every heading in document order, including Unreleased
// and labels that are not valid versions.
func (d *Document) Headings() ([]Heading, error) {
	partition, err := d.ReleaseNotesPartition()
	if err != nil {
		return nil, err
	}

	re := d.patterns.MustCompile(headingPattern)
	var headings []Heading
	for _, m := range re.FindAllStringSubmatch(partition, -1) {
		headings = append(headings, Heading{Label: strings.TrimSpace(m[1]), Date: m[2]})
	}
	return headings, nil
}

// Heading looks up the heading for label.
func (d *Document) Heading(label string) (Heading, bool, error) {
	headings, err := d.Headings()
	if err != nil {
		return Heading{}, false, err
	}
	for _, h := range headings {
		if h.Label == label {
			return h, true, nil
		}
	}
	return Heading{}, false, nil
}

// AllVersions returns the versions in document order (newest first by
// convention). Headings whose label is not a version are skipped.
func (d *Document) AllVersions() ([]version.Info, error) {
	headings, err := d.Headings()
	if err != nil {
		return nil, err
	}

	versions := make([]version.Info, 0, len(headings))
	for _, h := range headings {
		if v, ok := h.Version(); ok {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

// SortedVersions returns the versions in ascending precedence order. This is
// not assumed to match document order.
func (d *Document) SortedVersions() ([]version.Info, error) {
	versions, err := d.AllVersions()
	if err != nil {
		return nil, err
	}
	return version.Sort(versions), nil
}

// LatestVersion returns the highest version in the document.
func (d *Document) LatestVersion() (version.Info, error) {
	versions, err := d.AllVersions()
	if err != nil {
		return version.Info{}, err
	}
	return version.Max(versions)
}

// AllLinks returns the link targets keyed by version string or "Unreleased".
// Lines whose label is neither are ignored.
func (d *Document) AllLinks() (map[string]string, error) {
	partition, err := d.LinksPartition()
	if err != nil {
		return nil, err
	}

	re := d.patterns.MustCompile(linkPattern)
	links := make(map[string]string)
	for _, m := range re.FindAllStringSubmatch(partition, -1) {
		label := strings.TrimSpace(m[1])
		if label != Unreleased && !version.IsValid(label) {
			continue
		}
		links[label] = m[2]
	}
	return links, nil
}

// ReleaseNotes extracts the notes under the heading for label, stopping at
// the heading for until. An empty until reads to the end of the partition.
func (d *Document) ReleaseNotes(label, until string) (ReleaseNotes, error) {
	span, err := d.span(label, until)
	if err != nil {
		return ReleaseNotes{}, err
	}
	return d.parseSections(span)
}

// span returns the text after the label's heading line up to the until
// heading (exclusive).
func (d *Document) span(label, until string) (string, error) {
	partition, err := d.ReleaseNotesPartition()
	if err != nil {
		return "", err
	}

	start, err := d.patterns.Compile(fmt.Sprintf(
		`(?m)^###[ \t]+\[%s\](?:[ \t]+-[ \t]+\d{4}-\d{2}-\d{2})?[^\n]*(?:\n|\z)`,
		regexp.QuoteMeta(label),
	))
	if err != nil {
		return "", err
	}

	loc := start.FindStringIndex(partition)
	if loc == nil {
		return "", &ExtractionError{Label: label, Until: until}
	}
	rest := partition[loc[1]:]

	if until == "" {
		return rest, nil
	}

	stop, err := d.patterns.Compile(fmt.Sprintf(`(?m)^###[ \t]+\[%s\]`, regexp.QuoteMeta(until)))
	if err != nil {
		return "", err
	}
	end := stop.FindStringIndex(rest)
	if end == nil {
		return "", &ExtractionError{Label: label, Until: until}
	}
	return rest[:end[0]], nil
}

// parseSections splits a span at heading lines. The first line of each block
// names the category and bullet lines become its entries. Text before the
// first heading belongs to no category and is ignored.
func (d *Document) parseSections(span string) (ReleaseNotes, error) {
	var notes ReleaseNotes

	splitter := d.patterns.MustCompile(sectionPattern)
	bullet := d.patterns.MustCompile(bulletPattern)

	blocks := splitter.Split(span, -1)
	for _, block := range blocks[1:] {
		lines := strings.Split(block, "\n")
		name := strings.TrimSpace(lines[0])
		if name == "" {
			continue
		}

		category, err := ParseCategory(name)
		if err != nil {
			if d.strict {
				return ReleaseNotes{}, err
			}
			continue
		}

		for _, line := range lines[1:] {
			if m := bullet.FindStringSubmatch(line); m != nil {
				notes.Append(category, strings.TrimSpace(m[1]))
			}
		}
	}

	return notes, nil
}
