package errors

import (
	"strings"

	"github.com/fatih/color"
)

// Reporter renders Diagnostics the way the rest of this codebase's CLI
// renders compiler-style diagnostics: a bold colored level tag, the message,
// and any chained cause on an indented continuation line.
type Reporter struct {
	NoColor bool
}

func NewReporter() *Reporter { return &Reporter{} }

// Format renders a single diagnostic as a one-paragraph human summary.
func (r *Reporter) Format(d *Diagnostic) string {
	if d == nil {
		return ""
	}

	levelColor := color.New(color.FgRed, color.Bold)
	if r.NoColor {
		levelColor.DisableColor()
	}

	var b strings.Builder
	b.WriteString(levelColor.Sprintf("error[%s]", d.Kind))
	b.WriteString(": ")
	b.WriteString(d.Message)

	if d.Cause != nil {
		dim := color.New(color.Faint)
		if r.NoColor {
			dim.DisableColor()
		}
		b.WriteString("\n")
		b.WriteString(dim.Sprintf("  caused by: %v", d.Cause))
	}

	return b.String()
}
