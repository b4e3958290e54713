package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/highlight"
	"github.com/yaklabco/mdtree/pkg/metrics"
)

type highlightFlags struct {
	config   configFlags
	from, to int
}

func newHighlightCommand() *cobra.Command {
	flags := &highlightFlags{}

	cmd := &cobra.Command{
		Use:   "highlight [file]",
		Short: "Print a Markdown file with syntax highlighting",
		Long: `Parse a Markdown file (or stdin) and print it with terminal colors
taken from the syntax tree.

Examples:
  mdtree highlight README.md
  mdtree highlight --theme plain README.md
  mdtree highlight --from 120 --to 480 README.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHighlight(cmd, args, flags)
		},
	}

	cmd.Flags().AddFlagSet(flags.config.parserFlagSet())
	cmd.Flags().AddFlagSet(flags.config.themeFlagSet())
	cmd.Flags().IntVar(&flags.from, "from", 0, "first byte offset to print")
	cmd.Flags().IntVar(&flags.to, "to", 0, "end byte offset to print (0 = end of file)")

	return cmd
}

func runHighlight(cmd *cobra.Command, args []string, flags *highlightFlags) error {
	ctx, cfg, err := loadConfig(cmd, &flags.config)
	if err != nil {
		return err
	}

	colorMode, _ := cmd.Flags().GetString("color")
	theme := highlight.NewTheme()
	if pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()) {
		if theme, err = cfg.Theme(); err != nil {
			return err
		}
	}

	p, closeCache, err := buildParser(ctx, cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer closeCache() //nolint:errcheck // read-only use

	_, text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	from, to := flags.from, flags.to
	if to <= 0 || to > len(text) {
		to = len(text)
	}
	if from < 0 || from > to {
		return fmt.Errorf("%w: --from %d is outside 0..%d", errInvalidRange, from, to)
	}

	doc := p.ParseString(text)
	spans := highlight.Highlight(doc, highlight.Markdown, from, to)
	_, err = fmt.Fprint(cmd.OutOrStdout(), highlight.Render(text, spans, theme, from, to))
	return err
}
