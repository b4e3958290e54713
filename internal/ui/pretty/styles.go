// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ANSI 256 palette indexes used across the CLI.
const (
	colorRed    = "9"
	colorGreen  = "10"
	colorYellow = "11"
	colorBlue   = "12"
	colorCyan   = "14"
	colorGray   = "8"
	colorWhite  = "7"
)

// Styles holds the renderers used by the reporters.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Mismatch lines.
	FilePath lipgloss.Style
	Location lipgloss.Style
	Message  lipgloss.Style

	// Unified diffs of editing commands.
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TableFailRow   lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// painter builds styles, or plain styles when color is off.
type painter bool

func (p painter) fg(color string) lipgloss.Style {
	if !p {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func (p painter) bold(color string) lipgloss.Style {
	if !p {
		return lipgloss.NewStyle()
	}
	style := lipgloss.NewStyle().Bold(true)
	if color != "" {
		style = style.Foreground(lipgloss.Color(color))
	}
	return style
}

// NewStyles returns the CLI styles. With colorEnabled false every style
// renders text unchanged.
func NewStyles(colorEnabled bool) *Styles {
	p := painter(colorEnabled)
	return &Styles{
		Error:   p.bold(colorRed),
		Warning: p.bold(colorYellow),
		Info:    p.bold(colorBlue),

		FilePath: p.bold(""),
		Location: p.fg(colorGray),
		Message:  lipgloss.NewStyle(),

		DiffHeader:  p.bold(""),
		DiffHunk:    p.fg(colorCyan),
		DiffAdd:     p.fg(colorGreen),
		DiffRemove:  p.fg(colorRed),
		DiffContext: p.fg(colorGray),

		SummaryTitle: p.bold(""),
		SummaryValue: lipgloss.NewStyle(),
		Success:      p.bold(colorGreen),
		Failure:      p.bold(colorRed),

		TableHeader:    p.bold(colorWhite),
		TableFailRow:   p.fg(colorYellow),
		TableErrorRow:  p.fg(colorRed),
		TableSeparator: p.fg(colorGray),

		Dim:  p.fg(colorGray),
		Bold: p.bold(""),
	}
}

// IsColorEnabled decides whether output to writer is colored. Mode is
// "always", "never" or "auto" (anything else counts as auto). In auto
// mode NO_COLOR disables color, CLICOLOR_FORCE enables it, and otherwise
// the writer must be a terminal.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		return true
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
