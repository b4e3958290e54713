// Package fold computes foldable ranges of a parsed Markdown document.
//
// Block nodes fold from the end of their first line to their end. Headings
// fold their section: everything up to the next sibling heading of equal
// or higher rank.
package fold

import (
	"slices"

	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// Kind distinguishes block folds from heading sections.
type Kind string

// Fold kinds.
const (
	KindBlock   Kind = "block"
	KindSection Kind = "section"
)

// Range is a foldable range. Folding hides [From, To).
type Range struct {
	From, To int
	Kind     Kind

	// Node is the name of the node the range belongs to.
	Node string
}

// Ranges returns every foldable range of the document, ordered by start
// and, for equal starts, outermost first.
func Ranges(t *tree.Tree, text string) []Range {
	lines := tree.NewLineIndex(text)
	var out []Range
	//nolint:errcheck // the walk function never fails
	tree.Walk(t.TopNode(), func(n *tree.Node) error {
		if r, ok := foldNode(n, lines); ok {
			out = append(out, r)
		}
		return nil
	})
	slices.SortStableFunc(out, func(a, b Range) int {
		if a.From != b.From {
			return a.From - b.From
		}
		return b.To - a.To
	})
	return out
}

// At returns the outermost range that starts on the line beginning at
// lineStart, if any.
func At(t *tree.Tree, text string, lineStart int) (Range, bool) {
	lines := tree.NewLineIndex(text)
	_, lineEnd := lines.LineBounds(lineStart)

	var best Range
	found := false
	for node := t.ResolveInner(lineEnd, -1); node != nil; node = node.Parent() {
		if node.From() < lineStart {
			break
		}
		r, ok := foldNode(node, lines)
		if !ok || r.From != lineEnd {
			continue
		}
		if !found || r.To >= best.To {
			best, found = r, true
		}
	}
	return best, found
}

func foldNode(n *tree.Node, lines *tree.LineIndex) (Range, bool) {
	typ := n.Type()
	if level := markdown.IsHeading(typ); level > 0 {
		end := SectionEnd(n, level)
		if end <= n.To() {
			return Range{}, false
		}
		return Range{From: n.To(), To: end, Kind: KindSection, Node: typ.Name}, true
	}
	if !foldable(typ) {
		return Range{}, false
	}
	_, firstLineEnd := lines.LineBounds(n.From())
	if n.To() <= firstLineEnd {
		return Range{}, false
	}
	return Range{From: firstLineEnd, To: n.To(), Kind: KindBlock, Node: typ.Name}, true
}

func foldable(typ *tree.NodeType) bool {
	if !typ.InGroup(tree.GroupBlock) {
		return false
	}
	switch typ.Name {
	case "Document", "BulletList", "OrderedList":
		return false
	default:
		return true
	}
}

// SectionEnd returns the end of the section a heading of the given level
// opens: the end of the last sibling before the next heading of the same
// or a higher rank.
func SectionEnd(heading *tree.Node, level int) int {
	last := heading
	for next := heading.NextSibling(); next != nil; next = next.NextSibling() {
		if l := markdown.IsHeading(next.Type()); l > 0 && l <= level {
			break
		}
		last = next
	}
	return last.To()
}
