package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette styles each part of a formatted error.
type palette struct {
	label     func(a ...any) string
	category  func(a ...any) string
	message   func(a ...any) string
	usage     func(a ...any) string
	usageText func(a ...any) string
	fix       func(a ...any) string
	bullet    func(a ...any) string
}

// colored honors color.NoColor when each part is rendered.
var colored = palette{
	label:     color.New(color.FgRed, color.Bold).SprintFunc(),
	category:  color.New(color.FgYellow).SprintFunc(),
	message:   color.New(color.FgRed).SprintFunc(),
	usage:     color.New(color.FgCyan, color.Bold).SprintFunc(),
	usageText: color.New(color.FgCyan).SprintFunc(),
	fix:       color.New(color.FgGreen, color.Bold).SprintFunc(),
	bullet:    color.New(color.FgGreen).SprintFunc(),
}

var plain = palette{
	label:     fmt.Sprint,
	category:  fmt.Sprint,
	message:   fmt.Sprint,
	usage:     fmt.Sprint,
	usageText: fmt.Sprint,
	fix:       fmt.Sprint,
	bullet:    fmt.Sprint,
}

// FormatError renders err with its usage line and remediation steps.
func FormatError(err *CLIError) string {
	return render(err, colored)
}

// FormatErrorPlain renders err without escape sequences.
func FormatErrorPlain(err *CLIError) string {
	return render(err, plain)
}

// FprintError writes the formatted err to w.
func FprintError(w io.Writer, err *CLIError) {
	fmt.Fprint(w, FormatError(err))
}

func render(err *CLIError, p palette) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&b, "\n%s%s\n", p.usage("Usage: "), p.usageText(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&b, "  %s %s\n", p.bullet("•"), step)
		}
	}
	return b.String()
}
