package commands

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/mdtree/pkg/tree"
)

var (
	quotePrefix   = regexp.MustCompile(`^ *>( ?)`)
	orderedPrefix = regexp.MustCompile(`^( *)\d+([.)])( *)`)
	bulletPrefix  = regexp.MustCompile(`^( *)([-+*])( {1,4}\[[ xX]\])?( +)`)
	itemNumberRe  = regexp.MustCompile(`^(\s*)(\d+)[.)]`)
	markupPrefix  = regexp.MustCompile(`^[\s\d.)\-+*>]*`)
	quotedBlank   = regexp.MustCompile(`>\s*$`)
)

// markup is one level of container markup on a line. From and To are
// columns relative to the start of the line that opens the container.
type markup struct {
	// node is the Blockquote, the list, or the FencedCode the level
	// belongs to.
	node *tree.Node

	// item is the list item for list levels.
	item *tree.Node

	from, to    int
	spaceBefore string
	spaceAfter  string
	mark        string
}

// noWidth asks blank to size the result from the markup itself.
const noWidth = math.MinInt

// blank returns the text that continues this level on a line that does
// not start a new item. Unless width is noWidth the result is padded to
// that column.
func (m *markup) blank(width int, trailing bool) string {
	result := m.spaceBefore
	if m.node.Name() == "Blockquote" {
		result += ">"
	}
	if width != noWidth {
		for len(result) < width {
			result += " "
		}
		return result
	}
	if n := m.to - m.from - len(result) - len(m.spaceAfter); n > 0 {
		result += strings.Repeat(" ", n)
	}
	if trailing {
		result += m.spaceAfter
	}
	return result
}

// marker returns the markup that opens a new item at this level, with
// ordered list numbers advanced by add.
func (m *markup) marker(text string, add int) string {
	number := ""
	if m.node.Name() == "OrderedList" {
		if n, _, _, ok := itemNumber(m.item, text); ok {
			number = strconv.Itoa(n + add)
		}
	}
	return m.spaceBefore + number + m.mark + m.spaceAfter
}

// markupContext returns the container levels enclosing node, outermost
// first.
func markupContext(node *tree.Node, text string, lines *tree.LineIndex) []*markup {
	var nodes []*tree.Node
	for cur := node; cur != nil && cur.Name() != "Document"; cur = cur.Parent() {
		switch cur.Name() {
		case "ListItem", "Blockquote", "FencedCode":
			nodes = append(nodes, cur)
		}
	}

	var levels []*markup
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		lineFrom, lineTo := lines.LineBounds(n.From())
		start := n.From() - lineFrom
		rest := text[n.From():lineTo]
		switch n.Name() {
		case "FencedCode":
			levels = append(levels, &markup{node: n, from: start, to: start})
		case "Blockquote":
			if m := quotePrefix.FindStringSubmatch(rest); m != nil {
				levels = append(levels, &markup{
					node: n, from: start, to: start + len(m[0]),
					spaceAfter: m[1], mark: ">",
				})
			}
		case "ListItem":
			if lvl := listMarkup(n, rest, start); lvl != nil {
				levels = append(levels, lvl)
			}
		}
	}
	return levels
}

func listMarkup(item *tree.Node, rest string, start int) *markup {
	list := item.Parent()
	switch list.Name() {
	case "OrderedList":
		m := orderedPrefix.FindStringSubmatch(rest)
		if m == nil {
			return nil
		}
		after, size := m[3], len(m[0])
		if len(after) >= 4 {
			after, size = after[:len(after)-4], size-4
		}
		return &markup{node: list, item: item, from: start, to: start + size, spaceBefore: m[1], spaceAfter: after, mark: m[2]}
	case "BulletList":
		m := bulletPrefix.FindStringSubmatch(rest)
		if m == nil {
			return nil
		}
		after, size := m[4], len(m[0])
		if len(after) > 4 {
			after, size = after[:len(after)-4], size-4
		}
		mark := m[2]
		if m[3] != "" {
			mark += strings.NewReplacer("x", " ", "X", " ").Replace(m[3])
		}
		return &markup{node: list, item: item, from: start, to: start + size, spaceBefore: m[1], spaceAfter: after, mark: mark}
	default:
		return nil
	}
}

// itemNumber returns the number of an ordered list item and the range of
// its digits.
func itemNumber(item *tree.Node, text string) (int, int, int, bool) {
	end := min(item.From()+10, len(text))
	m := itemNumberRe.FindStringSubmatchIndex(text[item.From():end])
	if m == nil {
		return 0, 0, 0, false
	}
	from, to := item.From()+m[4], item.From()+m[5]
	n, err := strconv.Atoi(text[from:to])
	if err != nil {
		return 0, 0, 0, false
	}
	return n, from, to, true
}

// countColumn returns the column of byte offset to in line, expanding tabs.
func countColumn(line string, tabSize, to int) int {
	col := 0
	for i := 0; i < to && i < len(line); i++ {
		if line[i] == '\t' {
			col += tabSize - col%tabSize
		} else {
			col++
		}
	}
	return col
}

func hasNonSpace(s string) bool {
	return strings.TrimSpace(s) != ""
}
