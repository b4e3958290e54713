package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/crosscheck"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// TableReporter prints one row of parse statistics per file.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
}

// NewTableReporter creates a table reporter sized to the output terminal.
func NewTableReporter(opts Options) *TableReporter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))
	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, writerWidth(opts.Writer)),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)

	mismatches := 0
	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Success.Render("No files to check."))
		}
	} else {
		bw.WriteString(r.formatter.FormatTable(result))
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.formatter.FormatTableSummary(result.Stats, result.Stats.ParseTime.String()))
		}
		for _, file := range result.Files {
			if report := reportOf(file); report != nil {
				mismatches += len(report.Mismatches)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("write table: %w", err)
	}
	return mismatches, nil
}

func reportOf(file runner.FileOutcome) *crosscheck.Report {
	if file.Result == nil {
		return nil
	}
	return file.Result.Report
}

// writerWidth is the terminal width behind w, or 0 when w is not a
// terminal.
func writerWidth(w io.Writer) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
