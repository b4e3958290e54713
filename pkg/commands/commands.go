// Package commands implements the Markdown editing commands that work on
// container markup: Enter continues list and blockquote markup on the
// new line, and Backspace at the end of the markup removes one level.
//
// Commands are pure functions of a parsed tree, its text and a cursor
// position. They return edits rather than modifying anything.
package commands

import (
	"regexp"

	"github.com/yaklabco/mdtree/pkg/edit"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// Result is the outcome of a command.
type Result struct {
	// Edits are relative to the original text and may be in any order.
	Edits []edit.TextEdit

	// Cursor is the new cursor position in the edited text.
	Cursor int
}

// Apply returns the edited text.
func (r Result) Apply(text string) (string, error) {
	return edit.Apply(text, r.Edits)
}

var blankQuoteLine = regexp.MustCompile(`^[\s>]*$`)

// renumber rewrites the numbers of the ordered list items following after
// so that they count on from its number, shifted by offset. It stops at
// the first item that was not numbered consecutively.
func renumber(after *tree.Node, text string, b *edit.Builder, offset int) {
	prev := -1
	for node := after; node != nil; node = node.NextSibling() {
		if node.Name() != "ListItem" {
			continue
		}
		n, from, to, ok := itemNumber(node, text)
		if !ok {
			return
		}
		if prev >= 0 {
			if n != prev+1 {
				return
			}
			b.Replace(from, to, itoa(prev+2+offset))
		}
		prev = n
	}
}

func secondItem(list *tree.Node) *tree.Node {
	items := list.ChildrenOf("ListItem")
	if len(items) < 2 {
		return nil
	}
	return items[1]
}

// looseList reports whether a list already has a blank line between its
// first two items.
func looseList(list *tree.Node, lines *tree.LineIndex) bool {
	if list.Name() != "BulletList" && list.Name() != "OrderedList" {
		return false
	}
	second := secondItem(list)
	if second == nil {
		return false
	}
	line1 := lines.LineOf(list.FirstChild().To())
	line2 := lines.LineOf(second.From())
	if blankQuoteLine.MatchString(lines.LineContent(line1)) {
		return line1 < line2
	}
	return line1+1 < line2
}

// blankLine returns the markup for an empty line inside every level but
// the innermost.
func blankLine(levels []*markup, line string) string {
	insert := ""
	last := len(levels) - 2
	for i := 0; i <= last; i++ {
		width := noWidth
		if i < last {
			width = countColumn(line, 4, levels[i+1].from) - len(insert)
		}
		insert += levels[i].blank(width, i < last)
	}
	return insert
}

// slice returns line[from:to] clamped to the line.
func slice(line string, from, to int) string {
	to = min(to, len(line))
	if from >= to {
		return ""
	}
	return line[from:to]
}
