package markdown

import (
	"sort"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// gapMap records how gap-free parse positions correspond to input
// positions when a document is parsed from several ranges. Each segment
// starts at a line start or at a point where a line was joined across a
// gap; positions inside a segment map linearly.
type gapMap struct {
	segments []gapSegment
}

type gapSegment struct {
	rel, abs int
}

func (g *gapMap) add(rel, abs int) {
	if n := len(g.segments); n > 0 && g.segments[n-1].rel == rel {
		g.segments[n-1].abs = abs
		return
	}
	g.segments = append(g.segments, gapSegment{rel: rel, abs: abs})
}

// toAbsolute maps a gap-free position to an input position. A position
// on a segment boundary belongs to the later segment when start is set,
// and to the earlier one otherwise.
func (g *gapMap) toAbsolute(rel int, start bool) int {
	i := sort.Search(len(g.segments), func(i int) bool {
		if start {
			return g.segments[i].rel > rel
		}
		return g.segments[i].rel >= rel
	}) - 1
	if i < 0 {
		if len(g.segments) == 0 {
			return rel
		}
		i = 0
	}
	seg := g.segments[i]
	return seg.abs + rel - seg.rel
}

// apply rebuilds a tree built in gap-free coordinates, positioned at base,
// with input positions.
func (g *gapMap) apply(t *tree.Tree, base int) *tree.Tree {
	from := g.toAbsolute(base, true)
	to := max(g.toAbsolute(base+t.Length(), false), from)
	n := t.ChildCount()
	if n == 0 {
		return tree.Leaf(t.Type(), to-from).WithContextHash(t.ContextHash())
	}
	children := make([]*tree.Tree, n)
	positions := make([]int, n)
	for i := range n {
		child, pos := t.Child(i)
		children[i] = g.apply(child, base+pos)
		positions[i] = g.toAbsolute(base+pos, true) - from
	}
	return tree.New(t.Type(), children, positions, to-from).WithContextHash(t.ContextHash())
}
