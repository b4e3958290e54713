package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	total := r.writeMismatches(result)

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// writeMismatches writes one line per mismatch, under a header per file
// when GroupByFile is set, and returns how many it wrote.
func (r *TextReporter) writeMismatches(result *runner.Result) int {
	total := 0
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(file.Path, file.Error))
			continue
		}
		report := reportOf(file)
		if report == nil || report.OK() {
			continue
		}

		if r.opts.GroupByFile {
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(file.Path, len(report.Mismatches)))
		}
		for _, m := range report.Mismatches {
			fmt.Fprint(r.bw, r.styles.FormatMismatch(file.Path, m))
		}
		total += len(report.Mismatches)
		if r.opts.GroupByFile {
			fmt.Fprintln(r.bw)
		}
	}
	return total
}
