package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/commands"
	"github.com/yaklabco/mdtree/pkg/fsutil"
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/metrics"
	"github.com/yaklabco/mdtree/pkg/reporter"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// markupCommand is an editing command run at a cursor position.
type markupCommand func(t *tree.Tree, text string, pos int) (commands.Result, bool)

type markupFlags struct {
	config configFlags
	pos    int
	line   int
	col    int
	write  bool
	backup bool
}

func newMarkupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "markup",
		Short: "Run list and blockquote editing commands on a file",
		Long: `Run the editing commands an editor binds to Enter and Backspace.

Enter continues the list or blockquote markup around the cursor on a new
line. Backspace at the end of container markup removes one level of it.
The cursor is given as a byte offset (--pos) or a 1-based line and
column (--line, --col). Without --write the edit is printed as a diff.

Examples:
  mdtree markup enter --line 3 --col 9 notes.md
  mdtree markup backspace --pos 42 --write notes.md`,
	}

	cmd.AddCommand(newMarkupSubcommand("enter", "Continue markup on a new line", commands.Enter))
	cmd.AddCommand(newMarkupSubcommand("backspace", "Remove one level of markup", commands.Backspace))

	return cmd
}

func newMarkupSubcommand(name, short string, run markupCommand) *cobra.Command {
	flags := &markupFlags{}

	cmd := &cobra.Command{
		Use:   name + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarkup(cmd, args[0], run, flags)
		},
	}

	cmd.Flags().AddFlagSet(flags.config.parserFlagSet())
	cmd.Flags().IntVar(&flags.pos, "pos", -1, "cursor byte offset")
	cmd.Flags().IntVar(&flags.line, "line", 0, "cursor line (1-based)")
	cmd.Flags().IntVar(&flags.col, "col", 0, "cursor column (1-based, in bytes)")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a backup of the original file when writing")

	return cmd
}

func runMarkup(cmd *cobra.Command, path string, run markupCommand, flags *markupFlags) error {
	ctx, cfg, err := loadConfig(cmd, &flags.config)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return err
	}
	text := string(content)

	pos, err := cursorOffset(text, flags)
	if err != nil {
		return err
	}

	p, closeCache, err := buildParser(ctx, cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer closeCache() //nolint:errcheck // read-only use

	result, ok := applyMarkup(p, text, pos, run)
	if !ok {
		logger.Info("no markup at cursor", logging.FieldPath, path, "pos", pos)
		return nil
	}

	if !flags.write {
		colorMode, _ := cmd.Flags().GetString("color")
		diffs := reporter.NewDiffWriter(reporter.Options{Writer: cmd.OutOrStdout(), Color: colorMode})
		diffs.WriteEdits(path, text, result.Edits)
		diffs.WriteSummary()
		fmt.Fprintf(cmd.OutOrStdout(), "cursor: %d\n", result.Cursor)
		return nil
	}

	edited, err := result.Apply(text)
	if err != nil {
		return fmt.Errorf("apply edits: %w", err)
	}
	written, err := fsutil.Commit(ctx, snap, []byte(edited), fsutil.CommitOptions{Backup: flags.backup})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if written {
		logger.Info("updated file", logging.FieldPath, path, "cursor", result.Cursor)
	}
	return nil
}

// applyMarkup parses text and runs the command at pos.
func applyMarkup(p *markdown.Parser, text string, pos int, run markupCommand) (commands.Result, bool) {
	return run(p.ParseString(text), text, pos)
}

// cursorOffset resolves the cursor flags to a byte offset in text.
func cursorOffset(text string, flags *markupFlags) (int, error) {
	switch {
	case flags.pos >= 0 && flags.line > 0:
		return 0, fmt.Errorf("%w: use either --pos or --line/--col", errInvalidUsage)
	case flags.pos >= 0:
		if flags.pos > len(text) {
			return 0, fmt.Errorf("%w: --pos %d is past the end of the file (%d bytes)",
				errInvalidRange, flags.pos, len(text))
		}
		return flags.pos, nil
	case flags.line > 0:
		col := max(flags.col, 1)
		offset, ok := tree.NewLineIndex(text).Offset(flags.line, col)
		if !ok {
			return 0, fmt.Errorf("%w: line %d column %d is outside the file",
				errInvalidRange, flags.line, col)
		}
		return offset, nil
	default:
		return 0, fmt.Errorf("%w: a cursor position is required (--pos or --line)", errInvalidUsage)
	}
}
