// Package prompt collects input from the terminal: release notes, yes/no
// confirmations, free-form answers and editor sessions. Every prompt reads
// from a caller-supplied io.Reader so commands and tests own the input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ariel-frischer/changelogger/internal/changelog"
)

// State is the position of a NotesCollector.
type State int

const (
	// Idle has not asked anything yet.
	Idle State = iota
	// AwaitingEntry waits for a note for the current category.
	AwaitingEntry
	// Done has visited every category or hit the end of input.
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingEntry:
		return "awaiting entry"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// NotesCollector walks the release notes categories in order and appends
// one note per non-empty line. An empty line moves on to the next category;
// the end of input finishes immediately.
type NotesCollector struct {
	out        io.Writer
	categories []changelog.Category
	index      int
	state      State
	notes      changelog.ReleaseNotes
}

// NewNotesCollector starts from notes (which may already hold entries) and
// asks about categories, or about all of them when none are given.
func NewNotesCollector(out io.Writer, notes changelog.ReleaseNotes, categories ...changelog.Category) *NotesCollector {
	if len(categories) == 0 {
		categories = changelog.Categories()
	}
	return &NotesCollector{out: out, categories: categories, notes: notes}
}

// State returns the current state.
func (c *NotesCollector) State() State { return c.state }

// Category returns the category being asked about. ok is false unless the
// collector is awaiting an entry.
func (c *NotesCollector) Category() (changelog.Category, bool) {
	if c.state != AwaitingEntry {
		return 0, false
	}
	return c.categories[c.index], true
}

// Notes returns the notes collected so far.
func (c *NotesCollector) Notes() changelog.ReleaseNotes { return c.notes }

// Start leaves Idle and asks about the first category.
func (c *NotesCollector) Start() {
	if c.state != Idle {
		return
	}
	c.enter(0)
}

// Feed handles one line of input.
func (c *NotesCollector) Feed(line string) {
	if c.state == Idle {
		c.Start()
	}
	if c.state != AwaitingEntry {
		return
	}

	note := strings.TrimSpace(line)
	if note == "" {
		c.enter(c.index + 1)
		return
	}

	c.notes.Append(c.categories[c.index], note)
	c.ask()
}

// Finish moves to Done, e.g. at the end of input.
func (c *NotesCollector) Finish() {
	c.state = Done
}

// Run feeds every line of in until the collector is done. Pass a
// *bufio.Reader to keep reading from it afterwards without losing input.
func (c *NotesCollector) Run(in io.Reader) (changelog.ReleaseNotes, error) {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}

	c.Start()
	for c.state == AwaitingEntry {
		line, err := reader.ReadString('\n')
		if line != "" {
			c.Feed(line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return c.notes, fmt.Errorf("reading release notes: %w", err)
		}
	}
	c.Finish()
	return c.notes, nil
}

func (c *NotesCollector) enter(index int) {
	if index >= len(c.categories) {
		c.state = Done
		return
	}
	c.index = index
	c.state = AwaitingEntry

	category := c.categories[index]
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(c.out, "\n%s %s\n", bold("Updating"), bold(category.Title()))
	fmt.Fprintf(c.out, "  %s\n", category.Help())
	c.ask()
}

func (c *NotesCollector) ask() {
	category := c.categories[c.index]
	for _, note := range c.notes.Get(category) {
		fmt.Fprintf(c.out, "  - %s\n", note)
	}
	fmt.Fprintf(c.out, "New %s note [Enter to continue]: ", category)
}
