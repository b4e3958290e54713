package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/truncate"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/analysis"
)

const (
	maxNodeNameLength = 28
	maxFilePathLength = 50
)

// SummaryRenderer prints node type and file statistics as two tables
// followed by a totals line.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Files == 0 {
		_, err := fmt.Fprintln(r.out, r.styles.Success.Render("No files to check."))
		return err
	}

	sections := []string{r.nodeTable(report.ByNode), r.fileTable(report.ByFile)}
	if r.opts.SummaryOrder == SummaryOrderFiles {
		sections[0], sections[1] = sections[1], sections[0]
	}

	var b strings.Builder
	for _, section := range sections {
		if section != "" {
			b.WriteString(section)
			b.WriteString("\n\n")
		}
	}
	b.WriteString(r.totals(report.Totals))
	b.WriteString("\n")

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *SummaryRenderer) nodeTable(nodes []analysis.NodeAnalysis) string {
	if len(nodes) == 0 {
		return ""
	}
	rows := make([][]string, len(nodes))
	for i, node := range nodes {
		rows[i] = []string{
			truncate.StringWithTail(node.Name, maxNodeNameLength, "…"),
			strconv.Itoa(node.Count),
			strconv.Itoa(len(node.Files)),
		}
	}
	return r.section("Node Types", []string{"Type", "Count", "Files"}, rows, nil)
}

func (r *SummaryRenderer) fileTable(files []analysis.FileAnalysis) string {
	if len(files) == 0 {
		return ""
	}
	rows := make([][]string, len(files))
	for i, file := range files {
		rows[i] = []string{
			trimPathStart(file.Path, maxFilePathLength),
			strconv.Itoa(file.Bytes),
			strconv.Itoa(file.Nodes),
			strconv.Itoa(file.Depth),
			strconv.Itoa(file.Mismatches),
		}
	}
	rowStyle := func(row int) lipgloss.Style {
		switch {
		case files[row].Error != "":
			return r.styles.TableErrorRow
		case files[row].Mismatches > 0:
			return r.styles.TableFailRow
		}
		return lipgloss.NewStyle()
	}
	return r.section("Files", []string{"File", "Bytes", "Nodes", "Depth", "Mism."}, rows, rowStyle)
}

// section renders a bold title over a table whose first column is text
// and whose remaining columns are right-aligned numbers.
func (r *SummaryRenderer) section(title string, headers []string, rows [][]string, rowStyle func(int) lipgloss.Style) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.TableSeparator).
		BorderLeft(false).
		BorderRight(false).
		BorderBottom(false).
		BorderColumn(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingRight(2)
			if col > 0 {
				style = style.Align(lipgloss.Right)
			}
			switch {
			case row == table.HeaderRow:
				return r.styles.TableHeader.Inherit(style)
			case col == 0 && rowStyle != nil:
				return rowStyle(row).Inherit(style)
			}
			return style
		})
	return r.styles.Bold.Render(title) + "\n" + tbl.String()
}

func (r *SummaryRenderer) totals(totals analysis.Totals) string {
	parts := []string{fmt.Sprintf("%d %s, %d nodes, max depth %d",
		totals.Files, pluralize(totals.Files, "file", "files"), totals.Nodes, totals.MaxDepth)}
	if totals.Mismatches > 0 {
		parts = append(parts, r.styles.Failure.Render(fmt.Sprintf("%d mismatches", totals.Mismatches)))
	}
	if totals.FilesErrored > 0 {
		parts = append(parts, r.styles.Error.Render(fmt.Sprintf("%d errors", totals.FilesErrored)))
	}
	return r.styles.Bold.Render("Total: ") + strings.Join(parts, ", ")
}

// trimPathStart shortens path to width runes, keeping its end.
func trimPathStart(path string, width int) string {
	runes := []rune(path)
	if len(runes) <= width {
		return path
	}
	return "…" + string(runes[len(runes)-width+1:])
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
