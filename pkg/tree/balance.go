package tree

// balance groups the children of t into anonymous balance nodes when there
// are more than BranchFactor of them. Balance groups carry groupHash.
func balance(t *Tree, groupHash uint32) *Tree {
	if len(t.children) <= BranchFactor {
		return t
	}
	children, positions := balanceChildren(t.children, t.positions, groupHash)
	clone := *t
	clone.children = children
	clone.positions = positions
	return &clone
}

// Balance returns t with its children grouped so that no node has more
// than BranchFactor direct children. Ranges and order are unchanged. The
// balance groups carry groupHash, which should be the context hash the
// children were recorded under.
func (t *Tree) Balance(groupHash uint32) *Tree {
	return balance(t, groupHash)
}

func balanceChildren(children []*Tree, positions []int, hash uint32) ([]*Tree, []int) {
	if len(children) <= BranchFactor {
		return children, positions
	}
	size := (len(children) + BranchFactor - 1) / BranchFactor
	grouped := make([]*Tree, 0, BranchFactor)
	groupedPos := make([]int, 0, BranchFactor)
	for start := 0; start < len(children); start += size {
		end := min(start+size, len(children))
		if end-start == 1 {
			grouped = append(grouped, children[start])
			groupedPos = append(groupedPos, positions[start])
			continue
		}
		base := positions[start]
		rel := make([]int, end-start)
		for i := start; i < end; i++ {
			rel[i-start] = positions[i] - base
		}
		kids := make([]*Tree, end-start)
		copy(kids, children[start:end])
		kids, rel = balanceChildren(kids, rel, hash)
		last := end - 1
		grouped = append(grouped, &Tree{
			typ:       None,
			children:  kids,
			positions: rel,
			length:    positions[last] + children[last].length - base,
			hash:      hash,
		})
		groupedPos = append(groupedPos, base)
	}
	return grouped, groupedPos
}
