// Package progress shows activity while changelogger checks files: a
// spinner on capable terminals and plain status lines everywhere else.
package progress

import (
	"os"

	"golang.org/x/term"
)

// ASCIIEnv forces ASCII result markers when set to "1".
const ASCIIEnv = "CHANGELOGGER_ASCII"

// TerminalCapabilities describes what the output terminal can display.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols are the result markers and the spinner character set
// (an index into spinner.CharSets).
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int
}

var (
	unicodeSymbols = ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14}
	asciiSymbols   = ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9}
)

// DetectTerminalCapabilities inspects f, NO_COLOR and CHANGELOGGER_ASCII.
// Anything that is not a terminal gets no spinner and ASCII markers.
func DetectTerminalCapabilities(f *os.File) TerminalCapabilities {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return TerminalCapabilities{}
	}

	caps := TerminalCapabilities{
		IsTTY:           true,
		SupportsColor:   os.Getenv("NO_COLOR") == "",
		SupportsUnicode: os.Getenv(ASCIIEnv) != "1",
	}
	if w, _, err := term.GetSize(fd); err == nil {
		caps.Width = w
	}
	return caps
}

// SelectSymbols picks braille spinner frames with ✓/✗ on Unicode terminals
// and |/-\ with [OK]/[FAIL] otherwise.
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return unicodeSymbols
	}
	return asciiSymbols
}
