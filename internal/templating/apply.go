package templating

import (
	"fmt"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/config"
)

// Match is the first match of a rendered pattern.
type Match struct {
	// Pattern is the rendered regular expression.
	Pattern string
	Start   int
	End     int
	// Groups holds the whole match at index 0 followed by the capture groups.
	Groups []string
	// Named maps named capture groups to their text.
	Named map[string]string
}

// Text returns the matched text.
func (m Match) Text() string {
	if len(m.Groups) == 0 {
		return ""
	}
	return m.Groups[0]
}

// RenderPattern renders file's search pattern for update.
func (u *Updater) RenderPattern(file config.VersionedFile, update changelog.ChangelogUpdate) (string, error) {
	return Render(file.RelPath+" pattern", file.Pattern, u.Variables(file, update))
}

// Find renders the pattern and looks for its first match in content. found
// is false when there is no match.
func (u *Updater) Find(file config.VersionedFile, update changelog.ChangelogUpdate, content string) (Match, bool, error) {
	rendered, err := u.RenderPattern(file, update)
	if err != nil {
		return Match{}, false, err
	}
	return u.find(rendered, content)
}

func (u *Updater) find(rendered, content string) (Match, bool, error) {
	re, err := u.patterns.Compile(rendered)
	if err != nil {
		return Match{}, false, err
	}

	loc := re.FindStringSubmatchIndex(content)
	if loc == nil {
		return Match{Pattern: rendered}, false, nil
	}

	m := Match{
		Pattern: rendered,
		Start:   loc[0],
		End:     loc[1],
		Groups:  make([]string, len(loc)/2),
		Named:   map[string]string{},
	}
	for i := range m.Groups {
		if loc[2*i] >= 0 {
			m.Groups[i] = content[loc[2*i]:loc[2*i+1]]
		}
	}
	for i, name := range re.SubexpNames() {
		if name != "" {
			m.Named[name] = m.Groups[i]
		}
	}
	return m, true, nil
}

// Apply replaces the first match of file's rendered pattern in content with
// the rendered replacement. The replacement sees the match as .match (a
// list, whole match first) and named groups as .groups.
func (u *Updater) Apply(file config.VersionedFile, update changelog.ChangelogUpdate, content string) (string, error) {
	vars := u.Variables(file, update)

	rendered, err := Render(file.RelPath+" pattern", file.Pattern, vars)
	if err != nil {
		return "", err
	}

	m, found, err := u.find(rendered, content)
	if err != nil {
		return "", err
	}
	if !found {
		return "", &NoMatchError{Path: file.RelPath, Pattern: file.Pattern, Rendered: rendered}
	}

	tmpl, err := u.Replacement(file)
	if err != nil {
		return "", err
	}

	vars["match"] = m.Groups
	vars["groups"] = m.Named

	replacement, err := Render(file.RelPath+" replacement", tmpl, vars)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file.RelPath, err)
	}

	return content[:m.Start] + replacement + content[m.End:], nil
}
