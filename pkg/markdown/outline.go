package markdown

import (
	"strings"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// Heading is an entry of a document outline.
type Heading struct {
	Level int
	Text  string
	Node  *tree.Node
}

// Range returns the byte range of the heading.
func (h Heading) Range() tree.Range {
	return h.Node.Range()
}

// markupNodes are replaced when extracting the plain text of a node.
// Block markers become a space so words on either side stay apart.
//
//nolint:gochecknoglobals // Read-only lookup table.
var markupNodes = map[string]string{
	"HeaderMark":        " ",
	"QuoteMark":         " ",
	"ListMark":          " ",
	"TaskMarker":        " ",
	"EmphasisMark":      "",
	"CodeMark":          "",
	"LinkMark":          "",
	"URL":               "",
	"LinkTitle":         "",
	"LinkLabel":         "",
	"StrikethroughMark": "",
	"SubscriptMark":     "",
	"SuperscriptMark":   "",
}

// Outline returns the headings of a document in order.
func Outline(t *tree.Tree, text string) []Heading {
	var headings []Heading
	//nolint:errcheck // the walk function never fails
	tree.Walk(t.TopNode(), func(n *tree.Node) error {
		level := IsHeading(n.Type())
		if level == 0 {
			return nil
		}
		headings = append(headings, Heading{Level: level, Text: PlainText(n, text), Node: n})
		return tree.SkipChildren
	})
	return headings
}

// PlainText returns the text of a node without markup tokens, with runs
// of whitespace collapsed. Escapes keep only the escaped character.
func PlainText(n *tree.Node, text string) string {
	var sb strings.Builder
	writePlain(&sb, n, text)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func writePlain(sb *strings.Builder, n *tree.Node, text string) {
	pos := n.From()
	for _, child := range n.Children() {
		sb.WriteString(text[pos:child.From()])
		replacement, isMarkup := markupNodes[child.Name()]
		switch {
		case isMarkup:
			sb.WriteString(replacement)
		case child.Name() == "Escape":
			sb.WriteString(text[child.From()+1 : child.To()])
		default:
			writePlain(sb, child, text)
		}
		pos = child.To()
	}
	sb.WriteString(text[pos:n.To()])
}
