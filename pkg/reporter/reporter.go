// Package reporter writes check results in text, table, JSON, and summary form.
package reporter

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/mdtree/pkg/analysis"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// Format names an output format.
type Format string

// Output formats.
const (
	FormatText    Format = "text"
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes output for result and returns the number of
	// mismatches it reported.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Renderer writes an aggregated analysis.Report. Formats that only need
// totals and tables implement Renderer and are wrapped by analyzed.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}

//nolint:gochecknoglobals // fixed table of formats
var formats = map[Format]func(Options) Reporter{
	FormatText:    func(o Options) Reporter { return NewTextReporter(o) },
	FormatTable:   func(o Options) Reporter { return NewTableReporter(o) },
	FormatJSON:    func(o Options) Reporter { return analyzed(NewJSONRenderer(o), o) },
	FormatSummary: func(o Options) Reporter { return analyzed(NewSummaryRenderer(o), o) },
}

// Formats returns the names of all output formats, sorted.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for f := range formats {
		names = append(names, string(f))
	}
	slices.Sort(names)
	return names
}

// ParseFormat resolves a format name. The empty name means text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	if f := Format(name); f.IsValid() {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(Formats(), ", "))
}

// IsValid reports whether f names a known format.
func (f Format) IsValid() bool {
	_, ok := formats[f]
	return ok
}

// New creates the Reporter for opts.Format, text when unset.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	build, ok := formats[opts.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	return build(opts), nil
}

// analyzedReporter runs the analysis step before handing the report to a
// Renderer.
type analyzedReporter struct {
	renderer Renderer
	opts     analysis.Options
}

func analyzed(renderer Renderer, opts Options) *analyzedReporter {
	analysisOpts := analysis.DefaultOptions()
	analysisOpts.SortBy = cmp.Or(opts.SortBy, analysis.SortByCount)
	analysisOpts.WorkingDir = opts.WorkingDir
	return &analyzedReporter{renderer: renderer, opts: analysisOpts}
}

// Report implements Reporter.
func (r *analyzedReporter) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, r.opts)
	if err := r.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Mismatches, nil
}
