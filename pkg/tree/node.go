package tree

// Node is a positioned view of a subtree. Anonymous balance nodes are
// never exposed through Node: their children appear as children of the
// nearest named ancestor.
type Node struct {
	tree   *Tree
	from   int
	parent *Node
}

// Tree returns the underlying subtree.
func (n *Node) Tree() *Tree {
	return n.tree
}

// Type returns the node type.
func (n *Node) Type() *NodeType {
	return n.tree.typ
}

// Name returns the node type name.
func (n *Node) Name() string {
	return n.tree.typ.Name
}

// From returns the absolute start offset.
func (n *Node) From() int {
	return n.from
}

// To returns the absolute end offset.
func (n *Node) To() int {
	return n.from + n.tree.length
}

// Range returns the absolute range of the node.
func (n *Node) Range() Range {
	return Range{From: n.from, To: n.To()}
}

// Parent returns the enclosing node, or nil for the top node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the named children in order.
func (n *Node) Children() []*Node {
	var out []*Node
	n.collect(n.tree, n.from, &out)
	return out
}

func (n *Node) collect(t *Tree, from int, out *[]*Node) {
	for i, child := range t.children {
		pos := from + t.positions[i]
		if child.typ.IsAnonymous() {
			n.collect(child, pos, out)
			continue
		}
		*out = append(*out, &Node{tree: child, from: pos, parent: n})
	}
}

// FirstChild returns the first named child, or nil.
func (n *Node) FirstChild() *Node {
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// LastChild returns the last named child, or nil.
func (n *Node) LastChild() *Node {
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	return children[len(children)-1]
}

// Child returns the first child whose type is or belongs to name.
func (n *Node) Child(name string) *Node {
	for _, child := range n.Children() {
		if child.Type().Is(name) {
			return child
		}
	}
	return nil
}

// ChildrenOf returns all children whose type is or belongs to name.
func (n *Node) ChildrenOf(name string) []*Node {
	var out []*Node
	for _, child := range n.Children() {
		if child.Type().Is(name) {
			out = append(out, child)
		}
	}
	return out
}

func (n *Node) siblingIndex() ([]*Node, int) {
	if n.parent == nil {
		return nil, -1
	}
	siblings := n.parent.Children()
	for i, sib := range siblings {
		if sib.tree == n.tree && sib.from == n.from {
			return siblings, i
		}
	}
	return siblings, -1
}

// NextSibling returns the following sibling, or nil.
func (n *Node) NextSibling() *Node {
	siblings, idx := n.siblingIndex()
	if idx < 0 || idx+1 >= len(siblings) {
		return nil
	}
	return siblings[idx+1]
}

// PrevSibling returns the preceding sibling, or nil.
func (n *Node) PrevSibling() *Node {
	siblings, idx := n.siblingIndex()
	if idx <= 0 {
		return nil
	}
	return siblings[idx-1]
}

// Ancestor returns the nearest ancestor (or n itself) whose type is or
// belongs to name.
func (n *Node) Ancestor(name string) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Type().Is(name) {
			return cur
		}
	}
	return nil
}

// ResolveInner returns the innermost node covering pos. side < 0 selects
// nodes containing the character before pos, side > 0 the character after
// it, and side == 0 any node touching pos (the later one on a tie).
func (t *Tree) ResolveInner(pos, side int) *Node {
	node := t.TopNode()
	for {
		var next *Node
		for _, child := range node.Children() {
			if covers(child, pos, side) {
				next = child
				if side <= 0 {
					continue
				}
				break
			}
		}
		if next == nil {
			return node
		}
		node = next
	}
}

func covers(n *Node, pos, side int) bool {
	switch {
	case side < 0:
		return n.From() < pos && n.To() >= pos
	case side > 0:
		return n.From() <= pos && n.To() > pos
	default:
		return n.From() <= pos && n.To() >= pos
	}
}
