package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/metrics"
	"github.com/yaklabco/mdtree/pkg/runner"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// defaultTreeWidth is used for tree output when stdout is not a terminal.
const defaultTreeWidth = 100

type parseFlags struct {
	config configFlags
	format string
	width  int
}

func newParseCommand() *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the syntax tree of a Markdown file",
		Long: `Parse a Markdown file (or stdin) and print its syntax tree.

Formats:
  dump   one line with node names and byte ranges
  tree   one node per line, indented, with a preview of its text
  json   nested objects with type, from, to and children

Examples:
  mdtree parse README.md
  mdtree parse --format tree -e gfm README.md
  echo '# Title' | mdtree parse --format json
  mdtree parse --stop-at 200 README.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, flags)
		},
	}

	cmd.Flags().AddFlagSet(flags.config.parserFlagSet())
	cmd.Flags().AddFlagSet(flags.config.stopFlagSet())
	cmd.Flags().StringVarP(&flags.format, "format", "f", "dump", "output format: dump, tree, json")
	cmd.Flags().IntVar(&flags.width, "width", 0, "truncate tree lines to this width (0 = terminal width)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, flags *parseFlags) error {
	format, err := config.ParseOutputFormat(flags.format)
	if err != nil {
		return err
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

	path, text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	pipeline := &runner.Pipeline{Parser: p, StopAt: cfg.StopAt, Logger: logging.FromContext(ctx)}
	result, err := pipeline.Process(ctx, path, []byte(text))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case config.FormatTree:
		return writeTreeLines(out, result.Tree, text, treeWidth(flags.width, out))
	case config.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(nodeJSON(result.Tree.TopNode())); err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		return nil
	default:
		_, err := fmt.Fprintln(out, result.Tree.Dump())
		return err
	}
}

// jsonNode is the JSON form of a syntax node.
type jsonNode struct {
	Type     string     `json:"type"`
	From     int        `json:"from"`
	To       int        `json:"to"`
	Children []jsonNode `json:"children,omitempty"`
}

func nodeJSON(n *tree.Node) jsonNode {
	out := jsonNode{Type: n.Name(), From: n.From(), To: n.To()}
	for _, child := range n.Children() {
		out.Children = append(out.Children, nodeJSON(child))
	}
	return out
}

// writeTreeLines prints one node per line, indented by depth, followed by
// a quoted preview of the node's text cut to width.
func writeTreeLines(w io.Writer, t *tree.Tree, text string, width int) error {
	var sb strings.Builder
	depth := 0
	enter := func(n *tree.Node) error {
		line := strings.Repeat("  ", depth) + n.Name() +
			" [" + strconv.Itoa(n.From()) + ".." + strconv.Itoa(n.To()) + "]"
		if n.To() > n.From() && n.To() <= len(text) {
			line += " " + strconv.Quote(text[n.From():n.To()])
		}
		if width > 0 {
			line = truncate.StringWithTail(line, uint(width), "…")
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
		depth++
		return nil
	}
	leave := func(*tree.Node) error {
		depth--
		return nil
	}
	if err := tree.WalkWithLeave(t.TopNode(), enter, leave); err != nil {
		return fmt.Errorf("walk tree: %w", err)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// treeWidth resolves the --width flag against the output terminal.
func treeWidth(flagWidth int, out io.Writer) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTreeWidth
}
