// Package tree provides the immutable concrete syntax tree produced by the
// Markdown parser. It defines:
// - NodeType/NodeSet: per-parser tables of node kinds
// - Tree: an immutable node with relative child positions
// - Node/Cursor: positioned views for querying a tree
// - Fragment: reusable pieces of an old tree for incremental parsing
package tree

import (
	"slices"
	"strings"
)

// BranchFactor is the maximum number of children a node keeps before its
// children are grouped into anonymous balance nodes.
const BranchFactor = 8

// Tree is an immutable syntax node. Child positions are relative to the
// start of the tree. Trees can be shared freely between parses.
type Tree struct {
	typ       *NodeType
	children  []*Tree
	positions []int
	length    int
	hash      uint32
	mounts    []Mount
}

// New creates a tree. The children and positions slices are owned by the
// tree afterwards and must not be modified by the caller.
func New(typ *NodeType, children []*Tree, positions []int, length int) *Tree {
	if len(children) != len(positions) {
		panic("tree: children and positions differ in length")
	}
	return &Tree{typ: typ, children: children, positions: positions, length: length}
}

// Leaf creates a tree without children.
func Leaf(typ *NodeType, length int) *Tree {
	return &Tree{typ: typ, length: length}
}

// Type returns the node type.
func (t *Tree) Type() *NodeType {
	return t.typ
}

// Length returns the number of bytes the tree covers.
func (t *Tree) Length() int {
	return t.length
}

// ContextHash returns the block context hash recorded on the tree, or 0.
func (t *Tree) ContextHash() uint32 {
	return t.hash
}

// WithContextHash returns the tree carrying the given hash. The receiver
// is returned unchanged when the hash already matches.
func (t *Tree) WithContextHash(hash uint32) *Tree {
	if t.hash == hash {
		return t
	}
	clone := *t
	clone.hash = hash
	return &clone
}

// ChildCount returns the number of direct children, balance nodes included.
func (t *Tree) ChildCount() int {
	return len(t.children)
}

// Child returns the i-th direct child and its position relative to t.
func (t *Tree) Child(i int) (*Tree, int) {
	return t.children[i], t.positions[i]
}

// TopNode returns a positioned view of the tree rooted at offset 0.
func (t *Tree) TopNode() *Node {
	return &Node{tree: t}
}

// Cursor returns a raw cursor positioned on the tree itself.
func (t *Tree) Cursor() *Cursor {
	return newCursor(t)
}

// Mounts returns the sub-language trees attached to this tree.
func (t *Tree) Mounts() []Mount {
	return t.mounts
}

// WithMounts returns a copy of the tree carrying the given mounts.
func (t *Tree) WithMounts(mounts []Mount) *Tree {
	clone := *t
	clone.mounts = slices.Clone(mounts)
	return &clone
}

// String renders the tree as a compact s-expression, for example
// Document(Paragraph(Emphasis(EmphasisMark,EmphasisMark))). Balance
// nodes are flattened away.
func (t *Tree) String() string {
	var sb strings.Builder
	writeTree(&sb, t.TopNode(), false)
	return sb.String()
}

// Dump renders the tree including byte ranges:
// Document[0..5](Paragraph[0..5]).
func (t *Tree) Dump() string {
	var sb strings.Builder
	writeTree(&sb, t.TopNode(), true)
	return sb.String()
}

func writeTree(sb *strings.Builder, node *Node, ranges bool) {
	sb.WriteString(node.Type().Name)
	if ranges {
		sb.WriteString("[")
		sb.WriteString(itoa(node.From()))
		sb.WriteString("..")
		sb.WriteString(itoa(node.To()))
		sb.WriteString("]")
	}
	children := node.Children()
	if len(children) == 0 {
		return
	}
	sb.WriteString("(")
	for i, child := range children {
		if i > 0 {
			sb.WriteString(",")
		}
		writeTree(sb, child, ranges)
	}
	sb.WriteString(")")
}

// Mount attaches a tree parsed by another language to a host node.
type Mount struct {
	// From and To are the absolute range of the host node.
	From, To int

	// Host is the name of the host node type.
	Host string

	// Selector names the sub-language ("html", "go").
	Selector string

	// Overlay lists the absolute ranges the sub-tree was parsed from.
	// Empty means the whole host range.
	Overlay []Range

	// Tree is the sub-language tree. Its positions are offsets into the
	// overlay ranges joined together.
	Tree *Tree
}

func (m Mount) overlay() []Range {
	if len(m.Overlay) == 0 {
		return []Range{{From: m.From, To: m.To}}
	}
	return m.Overlay
}

// DocPos maps a position in the sub-tree to a document position.
func (m Mount) DocPos(pos int) int {
	ranges := m.overlay()
	for _, r := range ranges {
		if pos <= r.Len() {
			return r.From + pos
		}
		pos -= r.Len()
	}
	return ranges[len(ranges)-1].To
}

// SubPos maps a document position to a position in the sub-tree. It
// reports false for positions outside the overlay.
func (m Mount) SubPos(pos int) (int, bool) {
	base := 0
	for _, r := range m.overlay() {
		if pos >= r.From && pos <= r.To {
			return base + pos - r.From, true
		}
		base += r.Len()
	}
	return 0, false
}
