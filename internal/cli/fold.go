package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/pkg/fold"
	"github.com/yaklabco/mdtree/pkg/metrics"
	"github.com/yaklabco/mdtree/pkg/tree"
)

type foldFlags struct {
	config configFlags
	format string
	line   int
}

// foldJSON is the JSON form of a fold range with 1-based line numbers.
type foldJSON struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Kind      string `json:"kind"`
	Node      string `json:"node"`
}

func newFoldCommand() *cobra.Command {
	flags := &foldFlags{}

	cmd := &cobra.Command{
		Use:   "fold [file]",
		Short: "List the foldable ranges of a Markdown file",
		Long: `List the ranges an editor can fold: multi-line blocks fold after their
first line, and headings fold their whole section.

Examples:
  mdtree fold README.md
  mdtree fold --line 12 README.md
  mdtree fold --format json README.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFold(cmd, args, flags)
		},
	}

	cmd.Flags().AddFlagSet(flags.config.parserFlagSet())
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "output format: text, json")
	cmd.Flags().IntVar(&flags.line, "line", 0, "only print the range that starts on this 1-based line")

	return cmd
}

func runFold(cmd *cobra.Command, args []string, flags *foldFlags) error {
	if flags.format != formatText && flags.format != formatJSON {
		return fmt.Errorf("%w: %q (want text or json)", errInvalidFormat, flags.format)
	}

	ctx, cfg, err := loadConfig(cmd, &flags.config)
	if err != nil {
		return err
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

	doc := p.ParseString(text)
	lines := tree.NewLineIndex(text)

	var ranges []fold.Range
	if flags.line > 0 {
		info, ok := lines.Line(flags.line)
		if !ok {
			return fmt.Errorf("%w: line %d is past the end of the file", errInvalidRange, flags.line)
		}
		if r, ok := fold.At(doc, text, info.StartOffset); ok {
			ranges = append(ranges, r)
		}
	} else {
		ranges = fold.Ranges(doc, text)
	}

	out := cmd.OutOrStdout()
	if flags.format == formatJSON {
		items := make([]foldJSON, 0, len(ranges))
		for _, r := range ranges {
			items = append(items, foldJSON{
				From:      r.From,
				To:        r.To,
				StartLine: lines.LineOf(r.From),
				EndLine:   lines.LineOf(r.To),
				Kind:      string(r.Kind),
				Node:      r.Node,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encode ranges: %w", err)
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINES\tRANGE\tKIND\tNODE")
	for _, r := range ranges {
		fmt.Fprintf(tw, "%d-%d\t%d..%d\t%s\t%s\n",
			lines.LineOf(r.From), lines.LineOf(r.To), r.From, r.To, r.Kind, r.Node)
	}
	return tw.Flush()
}
