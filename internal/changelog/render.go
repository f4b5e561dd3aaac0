package changelog

import (
	"fmt"
	"io"
	"strings"
)

// Markdown renders the non-empty categories in standard order as
//
//	#### Added
//
//	- first entry
//	- second entry
//
// Returns the empty string when there are no notes.
func (n ReleaseNotes) Markdown() string {
	var b strings.Builder
	_ = n.RenderMarkdown(&b)
	return b.String()
}

// RenderMarkdown writes the markdown form of the notes to w.
func (n ReleaseNotes) RenderMarkdown(w io.Writer) error {
	for _, c := range Categories() {
		entries := n.Get(c)
		if len(entries) == 0 {
			continue
		}
		if err := renderCategory(c.Title(), entries, w); err != nil {
			return fmt.Errorf("rendering %s: %w", c, err)
		}
	}
	return nil
}

// renderCategory writes a single category section with its entries.
func renderCategory(name string, entries []string, w io.Writer) error {
	if _, err := io.WriteString(w, "#### "+name+"\n\n"); err != nil {
		return err
	}

	for _, entry := range entries {
		if _, err := io.WriteString(w, "- "+entry+"\n"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// SectionsMarkdown renders a template "sections" value. Unknown keys are
// ignored so that templates never fail on extra data.
func SectionsMarkdown(sections map[string][]string) string {
	var notes ReleaseNotes
	for name, entries := range sections {
		_ = notes.AppendByName(name, entries...)
	}
	return notes.Markdown()
}
