package tree

type cursorFrame struct {
	tree  *Tree
	from  int
	index int
}

// Cursor walks a tree including its anonymous balance nodes. It is the
// low-level view used by fragment reuse, where whole balance groups can be
// taken at once.
type Cursor struct {
	stack []cursorFrame
}

func newCursor(t *Tree) *Cursor {
	return &Cursor{stack: []cursorFrame{{tree: t, index: -1}}}
}

func (c *Cursor) top() *cursorFrame {
	return &c.stack[len(c.stack)-1]
}

// Tree returns the subtree the cursor points at.
func (c *Cursor) Tree() *Tree {
	return c.top().tree
}

// Type returns the type of the current node.
func (c *Cursor) Type() *NodeType {
	return c.top().tree.typ
}

// From returns the absolute start of the current node.
func (c *Cursor) From() int {
	return c.top().from
}

// To returns the absolute end of the current node.
func (c *Cursor) To() int {
	frame := c.top()
	return frame.from + frame.tree.length
}

// FirstChild moves to the first child. It returns false when there is none.
func (c *Cursor) FirstChild() bool {
	return c.enter(0)
}

func (c *Cursor) enter(index int) bool {
	frame := c.top()
	if index >= len(frame.tree.children) {
		return false
	}
	c.stack = append(c.stack, cursorFrame{
		tree:  frame.tree.children[index],
		from:  frame.from + frame.tree.positions[index],
		index: index,
	})
	return true
}

// ChildAfter moves to the first child that ends after pos.
func (c *Cursor) ChildAfter(pos int) bool {
	frame := c.top()
	for i, child := range frame.tree.children {
		if frame.from+frame.tree.positions[i]+child.length > pos {
			return c.enter(i)
		}
	}
	return false
}

// Parent moves to the parent node. It returns false at the root.
func (c *Cursor) Parent() bool {
	if len(c.stack) == 1 {
		return false
	}
	c.stack = c.stack[:len(c.stack)-1]
	return true
}

// NextSibling moves to the next sibling, stepping out of balance groups
// whose children are exhausted. It returns false when there is no sibling.
func (c *Cursor) NextSibling() bool {
	for len(c.stack) > 1 {
		frame := c.top()
		parent := c.stack[len(c.stack)-2]
		next := frame.index + 1
		if next < len(parent.tree.children) {
			*frame = cursorFrame{
				tree:  parent.tree.children[next],
				from:  parent.from + parent.tree.positions[next],
				index: next,
			}
			return true
		}
		if !parent.tree.typ.IsAnonymous() {
			return false
		}
		c.stack = c.stack[:len(c.stack)-1]
	}
	return false
}
