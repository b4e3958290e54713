package highlight

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme assigns terminal styles to tags. When a span has several tags the
// innermost styled one wins, with bold and italic accumulated from the
// outer ones.
type Theme struct {
	styles map[Tag]lipgloss.Style
}

// NewTheme creates an empty theme.
func NewTheme() *Theme {
	return &Theme{styles: make(map[Tag]lipgloss.Style)}
}

// Set assigns a style to a tag.
func (th *Theme) Set(tag Tag, style lipgloss.Style) *Theme {
	th.styles[tag] = style
	return th
}

// DefaultTheme returns the built-in ANSI 256 color theme.
func DefaultTheme() *Theme {
	heading := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	markup := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	return NewTheme().
		Set(TagHeading1, heading.Underline(true)).
		Set(TagHeading2, heading).
		Set(TagHeading3, heading).
		Set(TagHeading4, heading).
		Set(TagHeading5, heading).
		Set(TagHeading6, heading).
		Set(TagHeading, lipgloss.NewStyle().Bold(true)).
		Set(TagQuote, lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Italic(true)).
		Set(TagContentSeparator, markup).
		Set(TagComment, lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)).
		Set(TagEscape, lipgloss.NewStyle().Foreground(lipgloss.Color("13"))).
		Set(TagCharacter, lipgloss.NewStyle().Foreground(lipgloss.Color("13"))).
		Set(TagEmphasis, lipgloss.NewStyle().Italic(true)).
		Set(TagStrong, lipgloss.NewStyle().Bold(true)).
		Set(TagLink, lipgloss.NewStyle().Foreground(lipgloss.Color("14"))).
		Set(TagList, lipgloss.NewStyle()).
		Set(TagMonospace, lipgloss.NewStyle().Foreground(lipgloss.Color("11"))).
		Set(TagURL, lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true)).
		Set(TagProcessingInstruction, markup).
		Set(TagLabelName, lipgloss.NewStyle().Foreground(lipgloss.Color("10"))).
		Set(TagString, lipgloss.NewStyle().Foreground(lipgloss.Color("10"))).
		Set(TagStrikethrough, lipgloss.NewStyle().Strikethrough(true)).
		Set(TagAtom, lipgloss.NewStyle().Foreground(lipgloss.Color("13"))).
		Set(TagSpecial, lipgloss.NewStyle().Foreground(lipgloss.Color("13"))).
		Set(TagHTML, lipgloss.NewStyle().Foreground(lipgloss.Color("9")))
}

// WithColors returns a copy of the theme with foreground colors replaced.
// Keys are tag names, values lipgloss colors ("9", "#ff8800").
func (th *Theme) WithColors(colors map[string]string) (*Theme, error) {
	next := NewTheme()
	for tag, style := range th.styles {
		next.styles[tag] = style
	}
	for name, color := range colors {
		tag := Tag(name)
		if !knownTag(tag) {
			return nil, fmt.Errorf("theme color for unknown tag %q", name)
		}
		next.styles[tag] = next.styles[tag].Foreground(lipgloss.Color(color))
	}
	return next, nil
}

func knownTag(tag Tag) bool {
	return slices.Contains(Tags(), tag)
}

// Style returns the combined style for a span's tags.
func (th *Theme) Style(tags []Tag) lipgloss.Style {
	style := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	for _, tag := range tags {
		s, ok := th.styles[tag]
		if !ok {
			continue
		}
		if s.GetBold() {
			style = style.Bold(true)
		}
		if s.GetItalic() {
			style = style.Italic(true)
		}
		if s.GetUnderline() {
			style = style.Underline(true)
		}
		if s.GetStrikethrough() {
			style = style.Strikethrough(true)
		}
		if _, noColor := s.GetForeground().(lipgloss.NoColor); !noColor {
			style = style.Foreground(s.GetForeground())
		}
	}
	return style
}

// Render returns text[from:to] with the spans styled by the theme.
func Render(text string, spans []Span, th *Theme, from, to int) string {
	var sb strings.Builder
	pos := from
	for _, span := range spans {
		if span.To <= from || span.From >= to {
			continue
		}
		start, end := max(span.From, from), min(span.To, to)
		sb.WriteString(text[pos:start])
		sb.WriteString(renderLines(th.Style(span.Tags), text[start:end]))
		pos = end
	}
	sb.WriteString(text[pos:to])
	return sb.String()
}

// renderLines styles each line separately so that escape sequences never
// span a line break.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
