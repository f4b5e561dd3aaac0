package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Display reports the progress of a series of named steps. On a TTY a
// spinner runs while a step is active; otherwise only results are printed.
// A nil *Display is valid and prints nothing.
type Display struct {
	mu      sync.Mutex
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spinner *spinner.Spinner
}

// NewDisplay creates a display writing to out.
func NewDisplay(out io.Writer, caps TerminalCapabilities) *Display {
	d := &Display{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
	if caps.IsTTY {
		d.spinner = spinner.New(spinner.CharSets[d.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(out))
	}
	return d
}

// Symbols returns the symbols in use.
func (d *Display) Symbols() ProgressSymbols {
	if d == nil {
		return SelectSymbols(TerminalCapabilities{})
	}
	return d.symbols
}

// Start shows name as the active step.
func (d *Display) Start(name string) {
	if d == nil || d.spinner == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.spinner.Suffix = " " + name
	d.spinner.Start()
}

// Stop halts the spinner without printing a result.
func (d *Display) Stop() {
	if d == nil || d.spinner == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.spinner.Stop()
}

// Succeed prints a successful result for name.
func (d *Display) Succeed(name string) {
	d.result(d.Symbols().Checkmark, color.FgGreen, name, "")
}

// Fail prints a failed result for name with its reason.
func (d *Display) Fail(name string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	d.result(d.Symbols().Failure, color.FgRed, name, detail)
}

func (d *Display) result(symbol string, attr color.Attribute, name, detail string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.spinner != nil {
		d.spinner.Stop()
	}
	mark := symbol
	if d.caps.SupportsColor {
		mark = color.New(attr, color.Bold).Sprint(symbol)
	}
	if detail == "" {
		fmt.Fprintf(d.out, "%s %s\n", mark, name)
		return
	}
	fmt.Fprintf(d.out, "%s %s\n    %s\n", mark, name, strings.ReplaceAll(detail, "\n", "\n    "))
}
