package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/mdtree/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 files parsed (48.2 KB, 3051 nodes) in 4ms, 2 mismatches in 1 file".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	parsed := fmt.Sprintf("%d %s parsed", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))
	detail := fmt.Sprintf(" (%s, %d nodes) in %s", FormatBytes(stats.Bytes), stats.Nodes, stats.ParseTime.Round(time.Microsecond))

	parts := []string{s.Bold.Render(parsed) + s.Dim.Render(detail)}

	if stats.Mismatches > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s in %d %s",
			stats.Mismatches, plural(stats.Mismatches, "mismatch", "mismatches"),
			stats.FilesMismatched, plural(stats.FilesMismatched, wordFile, wordFiles))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s failed",
			stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles))))
	}
	if stats.Mismatches == 0 && stats.FilesErrored == 0 {
		parts = append(parts, s.Success.Render("no mismatches"))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files parsed:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Error.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	builder.WriteString("  Bytes:             " +
		s.SummaryValue.Render(FormatBytes(stats.Bytes)) + "\n")
	builder.WriteString("  Nodes:             " +
		s.SummaryValue.Render(strconv.Itoa(stats.Nodes)) + "\n")
	builder.WriteString("  Parse time:        " +
		s.SummaryValue.Render(stats.ParseTime.String()) + "\n")

	if stats.Mismatches > 0 {
		builder.WriteString("\n")
		builder.WriteString("  Mismatches:        " +
			s.Failure.Render(strconv.Itoa(stats.Mismatches)) + "\n")
		builder.WriteString("  Files mismatched:  " +
			s.Failure.Render(strconv.Itoa(stats.FilesMismatched)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Check failed with errors"))
	case stats.Mismatches > 0:
		builder.WriteString(s.Warning.Render("Check found mismatches"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := int64(n) / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
