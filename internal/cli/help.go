package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/highlight"
	"github.com/yaklabco/mdtree/pkg/markdown"
)

// helpTemplate renders help and usage. Element styles are looked up by
// highlight tag so help shares the palette of `mdtree highlight`.
const helpTemplate = `{{with (or .Long .Short)}}{{ markdown (trim .) }}

{{end}}{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ markdown .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ name (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

// HelpFormatter renders Cobra help with the highlight theme.
type HelpFormatter struct {
	theme *highlight.Theme
}

// NewHelpFormatter returns a formatter that styles output when colorMode
// and writer allow it.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	if !pretty.IsColorEnabled(colorMode, writer) {
		return &HelpFormatter{}
	}
	return &HelpFormatter{theme: highlight.DefaultTheme()}
}

// ApplyHelp installs the help and usage functions on cmd and, through
// inheritance, on its subcommands. The color decision is made per call from
// the command's --color flag and output writer.
func ApplyHelp(cmd *cobra.Command) {
	render := func(command *cobra.Command) error {
		colorMode := "auto"
		if flag := command.Flags().Lookup("color"); flag != nil {
			colorMode = flag.Value.String()
		}
		return NewHelpFormatter(colorMode, command.OutOrStdout()).Execute(command.OutOrStdout(), command)
	}

	cmd.SetUsageFunc(render)
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// Execute writes the help for cmd to w.
func (h *HelpFormatter) Execute(w io.Writer, cmd *cobra.Command) error {
	tmpl, err := template.New("help").Funcs(h.funcs()).Parse(helpTemplate)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	return tmpl.Execute(w, cmd)
}

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":  h.style(highlight.TagHeading2),
		"command":  h.style(highlight.TagStrong),
		"name":     h.style(highlight.TagLabelName),
		"dim":      h.style(highlight.TagProcessingInstruction),
		"markdown": h.markdown,
		"flags":    h.flags,
		"join":     strings.Join,
		"rpad":     rpad,
		"trim":     trimTrailingWhitespace,
	}
}

// style returns a renderer for one tag. Without a theme text passes
// through untouched.
func (h *HelpFormatter) style(tag highlight.Tag) func(string) string {
	if h.theme == nil {
		return func(s string) string { return s }
	}
	st := h.theme.Style([]highlight.Tag{tag})
	return func(s string) string {
		if s == "" {
			return s
		}
		return st.Render(s)
	}
}

// markdown highlights descriptions as Markdown documents.
func (h *HelpFormatter) markdown(text string) string {
	if h.theme == nil || text == "" {
		return text
	}
	doc := markdown.Default().ParseString(text)
	spans := highlight.Highlight(doc, highlight.Markdown, 0, len(text))
	return highlight.Render(text, spans, h.theme, 0, len(text))
}

// flags lays out a flag set in two columns, styling names and value
// placeholders separately.
func (h *HelpFormatter) flags(fs *pflag.FlagSet) string {
	flagStyle := h.style(highlight.TagMonospace)
	dim := h.style(highlight.TagProcessingInstruction)

	type row struct {
		width  int
		left   string
		detail string
	}
	var rows []row
	widest := 0

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		varname, usage := pflag.UnquoteUsage(f)

		plain := "    --" + f.Name
		left := "    " + flagStyle("--"+f.Name)
		if f.Shorthand != "" {
			plain = "-" + f.Shorthand + ", --" + f.Name
			left = flagStyle("-"+f.Shorthand) + ", " + flagStyle("--"+f.Name)
		}
		if varname != "" {
			plain += " " + varname
			left += " " + dim(varname)
		}
		if def := flagDefault(f); def != "" {
			usage += " " + dim("(default "+def+")")
		}

		rows = append(rows, row{width: len(plain), left: left, detail: usage})
		widest = max(widest, len(plain))
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, "  "+r.left+strings.Repeat(" ", widest-r.width+3)+r.detail)
	}
	return strings.Join(lines, "\n")
}

// flagDefault returns the default worth showing for f, or "".
func flagDefault(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "false", "0", "[]", "0s":
		return ""
	}
	if f.Value.Type() == "string" {
		return strconv.Quote(f.DefValue)
	}
	return f.DefValue
}

func rpad(s string, padding int) string {
	if len(s) >= padding {
		return s
	}
	return s + strings.Repeat(" ", padding-len(s))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
