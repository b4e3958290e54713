package commands

import (
	"strconv"

	"github.com/yaklabco/mdtree/pkg/edit"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// Enter inserts a line break at pos that continues the enclosing list
// and blockquote markup. On an empty list item it ends the item instead,
// and on the second of two empty quote lines it leaves the quote. Ordered
// lists after the cursor are renumbered.
//
// It reports false when pos is not inside container markup, in which case
// the caller should insert a plain line break.
func Enter(t *tree.Tree, text string, pos int) (Result, bool) {
	lines := tree.NewLineIndex(text)
	lineFrom, lineTo := lines.LineBounds(pos)
	line := text[lineFrom:lineTo]
	col := pos - lineFrom

	levels := markupContext(t.ResolveInner(pos, -1), text, lines)
	for len(levels) > 0 && levels[len(levels)-1].from > col {
		levels = levels[:len(levels)-1]
	}
	if len(levels) == 0 {
		return Result{}, false
	}
	inner := levels[len(levels)-1]
	markEnd := inner.to - len(inner.spaceAfter)
	if markEnd > col {
		return Result{}, false
	}
	emptyLine := !hasNonSpace(slice(line, inner.to, len(line)))

	b := edit.NewBuilder()
	if inner.item != nil && emptyLine {
		if r, ok := endItem(levels, text, lines, pos); ok {
			return r, true
		}
		// Break a tight two-item list apart instead.
		insert := blankLine(levels, line)
		b.Insert(lineFrom, insert+"\n")
		return Result{Edits: b.Edits, Cursor: pos + len(insert) + 1}, true
	}

	if inner.node.Name() == "Blockquote" && emptyLine && lineFrom > 0 {
		prevFrom, prevTo := lines.LineBounds(lineFrom - 1)
		if loc := quotedBlank.FindStringIndex(text[prevFrom:prevTo]); loc != nil && loc[0] == inner.from {
			edits := []edit.TextEdit{
				{From: prevFrom + loc[0], To: prevTo},
				{From: lineFrom + inner.from, To: lineTo},
			}
			return Result{Edits: edits, Cursor: edit.MapPos(edits, pos)}, true
		}
	}

	if inner.node.Name() == "OrderedList" {
		renumber(inner.item, text, b, 0)
	}
	continued := inner.item != nil && inner.item.From() < lineFrom
	insert := ""
	if !continued || len(markupPrefix.FindString(line)) >= inner.to {
		for i, lvl := range levels {
			last := i == len(levels)-1
			if last && !continued {
				insert += lvl.marker(text, 1)
				continue
			}
			width := noWidth
			if !last {
				width = countColumn(line, 4, levels[i+1].from) - len(insert)
			}
			insert += lvl.blank(width, true)
		}
	}
	from := pos
	for from > lineFrom && isSpace(text[from-1]) {
		from--
	}
	if looseList(inner.node, lines) {
		insert = blankLine(levels, line) + "\n" + insert
	}
	b.Replace(from, pos, "\n"+insert)
	return Result{Edits: b.Edits, Cursor: from + len(insert) + 1}, true
}

// endItem handles Enter on an empty list item. Unless the item directly
// follows the first item of a tight list, the item's markup is removed,
// or replaced by a new item of the enclosing list.
func endItem(levels []*markup, text string, lines *tree.LineIndex, pos int) (Result, bool) {
	inner := levels[len(levels)-1]
	lineFrom, _ := lines.LineBounds(pos)

	first, second := inner.node.FirstChild(), secondItem(inner.node)
	prevBlank := false
	if lineFrom > 0 {
		prevFrom, prevTo := lines.LineBounds(lineFrom - 1)
		prevBlank = blankQuoteLine.MatchString(text[prevFrom:prevTo])
	}
	if first.To() < pos && (second == nil || second.To() >= pos) && !prevBlank {
		return Result{}, false
	}

	var next *markup
	if len(levels) > 1 {
		next = levels[len(levels)-2]
	}
	b := edit.NewBuilder()
	delTo, insert := lineFrom, ""
	if next != nil && next.item != nil {
		delTo = lineFrom + next.from
		insert = next.marker(text, 1)
	} else if next != nil {
		delTo = lineFrom + next.to
	}
	b.Replace(delTo, pos, insert)
	if inner.node.Name() == "OrderedList" {
		renumber(inner.item, text, b, -2)
	}
	if next != nil && next.node.Name() == "OrderedList" {
		renumber(next.item, text, b, 0)
	}
	return Result{Edits: b.Edits, Cursor: delTo + len(insert)}, true
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
