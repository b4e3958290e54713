package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/mdtree/pkg/runner"
)

const (
	defaultTermWidth = 100
	minFileWidth     = 20
	cellPadding      = 1
)

//nolint:gochecknoglobals // column titles
var tableHeaders = []string{"FILE", "BYTES", "NODES", "TIME", "STATUS"}

// RowStatus classifies a table row.
type RowStatus int

const (
	RowOK RowStatus = iota
	RowMismatch
	RowError
)

// TableRow is one file in the statistics table.
type TableRow struct {
	File   string
	Bytes  string
	Nodes  string
	Time   string
	Status string
	Kind   RowStatus
}

func (r TableRow) cells() []string {
	return []string{r.File, r.Bytes, r.Nodes, r.Time, r.Status}
}

// TableFormatter renders per-file parse statistics.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter returns a formatter that keeps tables within termWidth
// columns where it can. A non-positive width means 100.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// OutcomeToTableRow converts a runner outcome to a table row.
func OutcomeToTableRow(file runner.FileOutcome) TableRow {
	row := TableRow{File: file.Path, Bytes: "-", Nodes: "-", Time: "-"}
	switch {
	case file.Error != nil:
		row.Status, row.Kind = "error", RowError
	case file.Result == nil:
		row.Status = "skipped"
	default:
		res := file.Result
		row.Bytes = FormatBytes(res.Bytes)
		row.Nodes = strconv.Itoa(res.Nodes)
		row.Time = res.Duration.String()
		row.Status = "ok"
		if res.Report != nil && !res.Report.OK() {
			n := len(res.Report.Mismatches)
			row.Status = fmt.Sprintf("%d %s", n, plural(n, "mismatch", "mismatches"))
			row.Kind = RowMismatch
		}
	}
	return row
}

// FormatTable renders one row per file with a ruled header. Mismatched
// and failed rows are coloured by kind.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := make([]TableRow, len(result.Files))
	for i, file := range result.Files {
		rows[i] = OutcomeToTableRow(file)
	}
	fileWidth := t.fileWidth(rows)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(t.styles.TableSeparator).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		Headers(tableHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, cellPadding)
			if col >= 1 && col <= 3 {
				style = style.Align(lipgloss.Right)
			}
			if row == table.HeaderRow {
				return t.styles.TableHeader.Inherit(style)
			}
			switch rows[row].Kind {
			case RowError:
				return t.styles.TableErrorRow.Inherit(style)
			case RowMismatch:
				return t.styles.TableFailRow.Inherit(style)
			}
			return style
		})

	for _, row := range rows {
		cells := row.cells()
		cells[0] = truncateFilePath(cells[0], fileWidth)
		tbl.Row(cells...)
	}
	return tbl.String() + "\n"
}

// fileWidth is the widest the file column may be so the table fits the
// terminal. Only the file column shrinks.
func (t *TableFormatter) fileWidth(rows []TableRow) int {
	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row.cells() {
			widths[i] = max(widths[i], len([]rune(cell)))
		}
	}

	others := 0
	for _, w := range widths[1:] {
		others += w + 2*cellPadding
	}
	room := t.termWidth - others - 2*cellPadding
	return max(minFileWidth, min(widths[0], room))
}

// FormatTableSummary formats the line printed below the table.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	parts := []string{
		fmt.Sprintf("%d files parsed", stats.FilesProcessed),
		fmt.Sprintf("%d nodes", stats.Nodes),
	}
	if stats.Mismatches > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d mismatches", stats.Mismatches)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d errors", stats.FilesErrored)))
	}
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}
	return " " + strings.Join(parts, " | ")
}

// truncateFilePath shortens path to width runes, keeping the file name.
func truncateFilePath(path string, width int) string {
	runes := []rune(path)
	if len(runes) <= width {
		return path
	}
	if width <= 1 {
		return string(runes[len(runes)-width:])
	}
	return "…" + string(runes[len(runes)-width+1:])
}
