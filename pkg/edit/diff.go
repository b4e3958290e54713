package edit

import (
	"fmt"
	"strings"
)

// Hunk is a run of whole lines touched by one or more edits.
type Hunk struct {
	// OldStart and NewStart are 1-based line numbers.
	OldStart int
	NewStart int
	Removed  []string
	Added    []string
}

// Hunks groups sorted edits by the lines they touch. Edits that touch a
// common line share a hunk.
func Hunks(text string, edits []TextEdit) []Hunk {
	var hunks []Hunk
	lineShift := 0
	for i := 0; i < len(edits); {
		from := lineStart(text, edits[i].From)
		to := lineEnd(text, edits[i].To)
		j := i + 1
		for j < len(edits) && lineStart(text, edits[j].From) <= to {
			to = max(to, lineEnd(text, edits[j].To))
			j++
		}
		group := make([]TextEdit, 0, j-i)
		for _, e := range edits[i:j] {
			group = append(group, TextEdit{From: e.From - from, To: e.To - from, Insert: e.Insert})
		}
		oldSeg := text[from:to]
		newSeg := applySorted(oldSeg, group)
		oldStart := strings.Count(text[:from], "\n") + 1
		h := Hunk{
			OldStart: oldStart,
			NewStart: oldStart + lineShift,
			Removed:  strings.Split(oldSeg, "\n"),
			Added:    strings.Split(newSeg, "\n"),
		}
		lineShift += len(h.Added) - len(h.Removed)
		hunks = append(hunks, h)
		i = j
	}
	return hunks
}

// Diff renders the edits as a unified diff without context lines.
func Diff(path, text string, edits []TextEdit) string {
	hunks := Hunks(text, edits)
	if len(hunks) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.OldStart, len(h.Removed), h.NewStart, len(h.Added))
		for _, line := range h.Removed {
			sb.WriteString("-" + line + "\n")
		}
		for _, line := range h.Added {
			sb.WriteString("+" + line + "\n")
		}
	}
	return sb.String()
}

func lineStart(text string, pos int) int {
	return strings.LastIndexByte(text[:pos], '\n') + 1
}

func lineEnd(text string, pos int) int {
	if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(text)
}
