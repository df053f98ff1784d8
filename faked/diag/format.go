package diag

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Context selects how a diagnostic is rendered
type Context int

const (
	// ContextPlain is compiler-style, one line, for logs and CI.
	ContextPlain Context = iota
	// ContextTerminal is colored with hints on following lines.
	ContextTerminal
)

// Format renders d for the given context.
func (d *Diagnostic) Format(ctx Context) string {
	if ctx == ContextTerminal {
		return d.formatTerminal()
	}
	return d.formatPlain()
}

// formatPlain: "Thing.yaml:3:5: warning: Associated type not found: Missing [faked.warn-typeNotFound]"
func (d *Diagnostic) formatPlain() string {
	return fmt.Sprintf("%s: %s: %s [%s]", d.Anchor, d.Severity, d.Message, d.ID())
}

func (d *Diagnostic) formatTerminal() string {
	var sev string
	switch d.Severity {
	case SeverityError:
		sev = pterm.Red(string(d.Severity))
	case SeverityWarning:
		sev = pterm.Yellow(string(d.Severity))
	default:
		sev = string(d.Severity)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s %s", pterm.Bold.Sprint(d.Anchor.String()), sev, d.Message, pterm.Gray("["+d.ID()+"]"))
	if d.Node != "" {
		fmt.Fprintf(&b, "\n  %s %s", pterm.LightCyan("in"), d.Node)
	}
	if d.Hint != "" {
		fmt.Fprintf(&b, "\n  %s %s", pterm.Green("hint:"), d.Hint)
	}
	return b.String()
}

// FormatAll renders each diagnostic on its own line(s).
func FormatAll(diags []*Diagnostic, ctx Context) string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.Format(ctx)
	}
	return strings.Join(lines, "\n")
}
