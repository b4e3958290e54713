package tree

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk; return SkipChildren to skip the
// node's children without stopping.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the named nodes under root.
// If walkFunc returns a non-nil error other than SkipChildren, the walk
// stops immediately and returns that error.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		if err == SkipChildren { //nolint:errorlint // sentinel compared by identity
			return nil
		}
		return err
	}

	for _, child := range root.Children() {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// WalkWithLeave performs a traversal with enter and leave callbacks.
// Either callback may be nil.
func WalkWithLeave(root *Node, enter, leave WalkFunc) error {
	if root == nil {
		return nil
	}

	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}

	for _, child := range root.Children() {
		if err := WalkWithLeave(child, enter, leave); err != nil {
			return err
		}
	}

	if leave != nil {
		if err := leave(root); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByName returns all nodes whose type is or belongs to name.
func FindByName(root *Node, name string) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Type().Is(name)
	})
}

// SkipChildren can be returned from a WalkFunc to skip a node's children.
var SkipChildren = &stopWalkError{msg: "skip children"} //nolint:gochecknoglobals // sentinel

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{msg: "stop walk"} //nolint:gochecknoglobals // sentinel

type stopWalkError struct {
	msg string
}

func (e *stopWalkError) Error() string {
	return e.msg
}

// IterateSpec configures Tree.Iterate.
type IterateSpec struct {
	// From and To limit the iteration to nodes touching the range. A zero
	// To means the end of the tree.
	From, To int

	// Enter is called before a node's children. Returning false skips
	// them, and Leave is not called for that node.
	Enter func(n *Node) bool

	// Leave is called after a node's children. It may be nil.
	Leave func(n *Node)
}

// Iterate visits the named nodes touching [spec.From, spec.To] in
// document order.
func (t *Tree) Iterate(spec IterateSpec) {
	if spec.To == 0 {
		spec.To = t.length
	}
	iterate(t.TopNode(), &spec)
}

func iterate(n *Node, spec *IterateSpec) {
	if n.To() < spec.From || n.From() > spec.To {
		return
	}
	if spec.Enter != nil && !spec.Enter(n) {
		return
	}
	for _, child := range n.Children() {
		iterate(child, spec)
	}
	if spec.Leave != nil {
		spec.Leave(n)
	}
}
