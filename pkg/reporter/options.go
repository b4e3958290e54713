package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/yaklabco/mdtree/pkg/analysis"
)

const bufWriterSize = 64 * 1024

// SummaryOrder picks which table the summary format prints first.
type SummaryOrder string

const (
	SummaryOrderNodes SummaryOrder = "nodes"
	SummaryOrderFiles SummaryOrder = "files"
)

// ParseSummaryOrder resolves an order name. The empty name means nodes.
func ParseSummaryOrder(name string) (SummaryOrder, error) {
	switch order := SummaryOrder(name); order {
	case "":
		return SummaryOrderNodes, nil
	case SummaryOrderNodes, SummaryOrderFiles:
		return order, nil
	default:
		return "", fmt.Errorf("unknown summary order %q; valid orders: %s, %s", name, SummaryOrderNodes, SummaryOrderFiles)
	}
}

// Options configures a Reporter.
type Options struct {
	Writer io.Writer
	Format Format

	// Color is "auto", "always" or "never".
	Color string

	// ShowSummary adds totals after the per-file output.
	ShowSummary bool

	// GroupByFile prints a header per file in the text format instead of
	// one self-contained line per mismatch.
	GroupByFile bool

	// Compact minifies JSON.
	Compact bool

	SummaryOrder SummaryOrder
	SortBy       analysis.SortField

	// WorkingDir, when set, makes reported paths relative to it.
	WorkingDir string
}

// DefaultOptions returns text output to stdout with a summary.
func DefaultOptions() Options {
	return Options{
		Writer:       os.Stdout,
		Format:       FormatText,
		Color:        "auto",
		ShowSummary:  true,
		GroupByFile:  true,
		SummaryOrder: SummaryOrderNodes,
		SortBy:       analysis.SortByCount,
	}
}
