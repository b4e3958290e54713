package tree

import "sort"

// LineInfo holds metadata for a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of text).
	EndOffset int
}

// LineIndex maps between byte offsets and lines of a text.
type LineIndex struct {
	text  string
	lines []LineInfo
}

// NewLineIndex builds the line table for text.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func NewLineIndex(text string) *LineIndex {
	var lines []LineInfo
	lineStart := 0

	for idx := range len(text) {
		if text[idx] != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && text[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// The last line may be empty or lack a trailing newline.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(text),
		EndOffset:    len(text),
	})

	return &LineIndex{text: text, lines: lines}
}

// Count returns the number of lines.
func (l *LineIndex) Count() int {
	return len(l.lines)
}

// Line returns the metadata of a 1-based line number.
func (l *LineIndex) Line(line int) (LineInfo, bool) {
	if line < 1 || line > len(l.lines) {
		return LineInfo{}, false
	}
	return l.lines[line-1], true
}

// LineOf returns the 1-based line containing offset. Offsets past the end
// map to the last line.
func (l *LineIndex) LineOf(offset int) int {
	if offset <= 0 {
		return 1
	}
	idx := sort.Search(len(l.lines), func(i int) bool {
		return l.lines[i].EndOffset > offset
	})
	if idx >= len(l.lines) {
		idx = len(l.lines) - 1
	}
	return idx + 1
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
func (l *LineIndex) LineAt(offset int) Position {
	if offset < 0 {
		return Position{}
	}
	line := l.LineOf(offset)
	return Position{Line: line, Column: offset - l.lines[line-1].StartOffset + 1}
}

// Offset converts 1-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (l *LineIndex) Offset(line, col int) (int, bool) {
	info, ok := l.Line(line)
	if !ok || col < 1 {
		return 0, false
	}

	offset := info.StartOffset + col - 1

	// Allow column to point to end of line (for cursor positioning).
	if offset > info.NewlineStart {
		return 0, false
	}

	return offset, true
}

// LineContent returns the text of a 1-based line number, excluding the newline.
func (l *LineIndex) LineContent(line int) string {
	info, ok := l.Line(line)
	if !ok {
		return ""
	}
	return l.text[info.StartOffset:info.NewlineStart]
}

// LineBounds returns the start offset and the offset of the newline for the
// line containing offset.
func (l *LineIndex) LineBounds(offset int) (int, int) {
	info := l.lines[l.LineOf(offset)-1]
	return info.StartOffset, info.NewlineStart
}
