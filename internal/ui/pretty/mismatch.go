package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdtree/pkg/crosscheck"
)

// FormatMismatch formats one cross-check mismatch for terminal output.
func (s *Styles) FormatMismatch(path string, m crosscheck.Mismatch) string {
	where := "inline"
	if m.Index >= 0 {
		where = fmt.Sprintf("block %d", m.Index+1)
	}
	return fmt.Sprintf("  %s  %s  %s\n",
		s.FilePath.Render(path),
		s.Location.Render(where),
		s.Message.Render(m.Message),
	)
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, mismatchCount int) string {
	header := s.FilePath.Render(path)
	if mismatchCount > 0 {
		noun := "mismatches"
		if mismatchCount == 1 {
			noun = "mismatch"
		}
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", mismatchCount, noun))
	}
	return header
}

// FormatFileError formats a file that could not be processed.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s\n",
		s.FilePath.Render(path),
		s.Error.Render(fmt.Sprintf("error: %v", err)),
	)
}

// FormatDiff colorizes a unified diff line by line.
func (s *Styles) FormatDiff(diff string) string {
	var builder strings.Builder
	for line := range strings.Lines(diff) {
		text := strings.TrimSuffix(line, "\n")
		var styled string
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			styled = s.DiffHeader.Render(text)
		case strings.HasPrefix(text, "@@"):
			styled = s.DiffHunk.Render(text)
		case strings.HasPrefix(text, "+"):
			styled = s.DiffAdd.Render(text)
		case strings.HasPrefix(text, "-"):
			styled = s.DiffRemove.Render(text)
		default:
			styled = s.DiffContext.Render(text)
		}
		builder.WriteString(styled)
		builder.WriteString("\n")
	}
	return builder.String()
}
