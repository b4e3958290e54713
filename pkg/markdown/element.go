package markdown

import (
	"strconv"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// Element is an in-progress syntax node. When Tree is set the element
// wraps a finished subtree (a reused node) and Children is unused.
type Element struct {
	Type     int
	From, To int
	Children []Element
	Tree     *tree.Tree
}

// elt creates an element of a built-in type.
func elt(typ Type, from, to int, children ...Element) Element {
	return Element{Type: int(typ), From: from, To: to, Children: children}
}

// treeElement wraps a finished subtree positioned at from.
func treeElement(t *tree.Tree, from int) Element {
	return Element{Type: t.Type().ID, From: from, To: from + t.Length(), Tree: t}
}

func (e Element) writeTo(buf *buffer, offset int) {
	if e.Tree != nil {
		buf.nodes = append(buf.nodes, e.Tree)
		buf.content = append(buf.content, len(buf.nodes)-1, e.From+offset, e.To+offset, tree.ReusedSize)
		return
	}
	start := len(buf.content)
	buf.writeElements(e.Children, offset)
	buf.content = append(buf.content, e.Type, e.From+offset, e.To+offset, len(buf.content)+4-start)
}

// ToTree finalizes the element into a tree positioned at e.From.
func (e Element) ToTree(set *tree.NodeSet) *tree.Tree {
	if e.Tree != nil {
		return e.Tree
	}
	return newBuffer(set).writeElements(e.Children, -e.From).finish(e.Type, e.To-e.From)
}

// buffer accumulates (type, from, to, size) quadruples for tree.Build.
type buffer struct {
	set     *tree.NodeSet
	content []int
	nodes   []*tree.Tree
}

func newBuffer(set *tree.NodeSet) *buffer {
	return &buffer{set: set}
}

// write adds a node whose children are the previous children entries.
func (b *buffer) write(typ, from, to, children int) *buffer {
	b.content = append(b.content, typ, from, to, 4+children*4)
	return b
}

func (b *buffer) writeElements(elts []Element, offset int) *buffer {
	for _, e := range elts {
		e.writeTo(b, offset)
	}
	return b
}

func (b *buffer) finish(typ, length int) *tree.Tree {
	return tree.Build(tree.BuildSpec{
		Buffer:  b.content,
		NodeSet: b.set,
		TopID:   typ,
		Length:  length,
		Reused:  b.nodes,
	})
}

// injectMarks merges markers found inside a leaf (blockquote markers in a
// paragraph, for example) into its inline elements, nesting them into the
// element that covers them.
func injectMarks(elements, marks []Element) []Element {
	if len(marks) == 0 {
		return elements
	}
	if len(elements) == 0 {
		return marks
	}
	elts := make([]Element, len(elements), len(elements)+len(marks))
	copy(elts, elements)
	idx := 0
	for _, mark := range marks {
		for idx < len(elts) && elts[idx].To < mark.To {
			idx++
		}
		if idx < len(elts) && elts[idx].From < mark.From {
			if e := elts[idx]; e.Tree == nil {
				e.Children = injectMarks(e.Children, []Element{mark})
				elts[idx] = e
			}
			continue
		}
		elts = append(elts, Element{})
		copy(elts[idx+1:], elts[idx:])
		elts[idx] = mark
		idx++
	}
	return elts
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
