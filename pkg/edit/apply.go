package edit

import (
	"strings"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// Apply applies edits to text. The edits are prepared first, so they may
// be given in any order.
func Apply(text string, edits []TextEdit) (string, error) {
	sorted, err := Prepare(edits, len(text))
	if err != nil {
		return "", err
	}
	return applySorted(text, sorted), nil
}

func applySorted(text string, edits []TextEdit) string {
	if len(edits) == 0 {
		return text
	}
	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}
	var sb strings.Builder
	sb.Grow(len(text) + delta)
	pos := 0
	for _, e := range edits {
		sb.WriteString(text[pos:e.From])
		sb.WriteString(e.Insert)
		pos = e.To
	}
	sb.WriteString(text[pos:])
	return sb.String()
}

// ChangedRanges converts sorted, non-overlapping edits into the changed
// ranges that tree.ApplyChanges expects. B positions account for the
// length changes of earlier edits.
func ChangedRanges(edits []TextEdit) []tree.ChangedRange {
	if len(edits) == 0 {
		return nil
	}
	out := make([]tree.ChangedRange, 0, len(edits))
	shift := 0
	for _, e := range edits {
		fromB := e.From + shift
		out = append(out, tree.ChangedRange{
			FromA: e.From,
			ToA:   e.To,
			FromB: fromB,
			ToB:   fromB + len(e.Insert),
		})
		shift += e.Delta()
	}
	return out
}

// MapPos maps a position in the old text through sorted edits. A position
// inside a replaced range, or at an insertion point, moves to the end of the
// inserted text.
func MapPos(edits []TextEdit, pos int) int {
	shift := 0
	for _, e := range edits {
		if pos < e.From || (pos == e.From && e.To > e.From) {
			break
		}
		if pos < e.To || pos == e.From {
			return e.From + shift + len(e.Insert)
		}
		shift += e.Delta()
	}
	return pos + shift
}

// Between returns the single edit turning a into b: the span between
// their common prefix and common suffix, replaced by b's part of it.
func Between(a, b string) TextEdit {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	return TextEdit{From: prefix, To: len(a) - suffix, Insert: b[prefix : len(b)-suffix]}
}
