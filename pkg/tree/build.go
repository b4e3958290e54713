package tree

import "slices"

// ReusedSize marks a buffer entry that refers to a reused subtree. The
// entry's type field is then an index into BuildSpec.Reused.
const ReusedSize = -1

// BuildSpec describes a flat node buffer to be turned into a tree.
//
// Buffer holds (type, from, to, size) quadruples in post-order: a node's
// descendants precede it, and size counts the ints of the node and all of
// its descendants. Positions are relative to the start of the top node.
type BuildSpec struct {
	Buffer  []int
	NodeSet *NodeSet
	TopID   int
	Length  int
	Reused  []*Tree
}

// Build finalizes a buffer into a balanced tree.
func Build(spec BuildSpec) *Tree {
	children, positions := buildRange(&spec, spec.Buffer, 0)
	return balance(New(spec.NodeSet.Type(spec.TopID), children, positions, spec.Length), 0)
}

// buildRange decodes the sibling sequence held in buf. Nodes are read from
// the end of the buffer backwards.
func buildRange(spec *BuildSpec, buf []int, base int) ([]*Tree, []int) {
	var (
		children  []*Tree
		positions []int
	)
	end := len(buf)
	for end >= 4 {
		typ, from, to, size := buf[end-4], buf[end-3], buf[end-2], buf[end-1]
		if size == ReusedSize {
			children = append(children, spec.Reused[typ])
			positions = append(positions, from-base)
			end -= 4
			continue
		}
		start := end - size
		kids, kidPositions := buildRange(spec, buf[start:end-4], from)
		children = append(children, balance(New(spec.NodeSet.Type(typ), kids, kidPositions, to-from), 0))
		positions = append(positions, from-base)
		end = start
	}
	slices.Reverse(children)
	slices.Reverse(positions)
	return children, positions
}
