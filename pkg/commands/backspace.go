package commands

import (
	"github.com/yaklabco/mdtree/pkg/edit"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// Backspace handles a backspace at pos when the cursor sits at the end of
// container markup. Extra whitespace after the markup is removed first. A
// list marker on a continuation item becomes indentation; any other
// markup level is deleted.
//
// It reports false when the default single-character delete applies.
func Backspace(t *tree.Tree, text string, pos int) (Result, bool) {
	lines := tree.NewLineIndex(text)
	lineFrom, lineTo := lines.LineBounds(pos)
	line := text[lineFrom:lineTo]
	col := pos - lineFrom

	levels := markupContext(t.ResolveInner(pos, -1), text, lines)
	if len(levels) == 0 {
		return Result{}, false
	}
	inner := levels[len(levels)-1]
	spaceEnd := inner.to - len(inner.spaceAfter)
	if inner.spaceAfter != "" {
		spaceEnd++
	}

	if col > spaceEnd && !hasNonSpace(line[spaceEnd:col]) {
		b := edit.NewBuilder().Delete(lineFrom+spaceEnd, pos)
		return Result{Edits: b.Edits, Cursor: lineFrom + spaceEnd}, true
	}
	if col != spaceEnd {
		return Result{}, false
	}
	if inner.item != nil && lineFrom > inner.item.From() && hasNonSpace(slice(line, 0, inner.to)) {
		return Result{}, false
	}

	start := lineFrom + inner.from
	if inner.item != nil && inner.node.From() < inner.item.From() && hasNonSpace(slice(line, inner.from, inner.to)) {
		insert := inner.blank(countColumn(line, 4, inner.to)-countColumn(line, 4, inner.from), true)
		b := edit.NewBuilder().Replace(start, lineFrom+inner.to, insert)
		return Result{Edits: b.Edits, Cursor: start + len(insert)}, true
	}
	if start < pos {
		b := edit.NewBuilder().Delete(start, pos)
		return Result{Edits: b.Edits, Cursor: start}, true
	}
	return Result{}, false
}
