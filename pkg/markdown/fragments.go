package markdown

import "github.com/yaklabco/mdtree/pkg/tree"

// fragmentCursor walks the fragments of a previous parse looking for
// blocks that can be copied into the new tree unchanged.
type fragmentCursor struct {
	fragments   []tree.Fragment
	input       tree.Input
	i           int
	fragment    *tree.Fragment
	fragmentEnd int
	cursor      *tree.Cursor
}

func newFragmentCursor(fragments []tree.Fragment, input tree.Input) *fragmentCursor {
	fc := &fragmentCursor{fragments: fragments, input: input, fragmentEnd: -1}
	fc.nextFragment()
	return fc
}

func (fc *fragmentCursor) nextFragment() {
	fc.fragment = nil
	if fc.i < len(fc.fragments) {
		fc.fragment = &fc.fragments[fc.i]
		fc.i++
	}
	fc.cursor = nil
	fc.fragmentEnd = -1
}

// moveTo positions the cursor on the first old node starting at pos. It
// reports whether such a node exists within a fragment that also covers
// the start of the current line.
func (fc *fragmentCursor) moveTo(pos, lineStart int) bool {
	for fc.fragment != nil && fc.fragment.To <= pos {
		fc.nextFragment()
	}
	if fc.fragment == nil || fc.fragment.From > max(pos-1, 0) {
		return false
	}
	if fc.fragmentEnd < 0 {
		end := fc.fragment.To
		for end > 0 && fc.input.Read(end-1, end) != "\n" {
			end--
		}
		fc.fragmentEnd = max(end-1, 0)
	}

	c := fc.cursor
	if c == nil {
		c = fc.fragment.Tree.Cursor()
		c.FirstChild()
		fc.cursor = c
	}

	rPos := pos + fc.fragment.Offset
	for c.To() <= rPos {
		if !c.Parent() {
			return false
		}
	}
	for {
		if c.From() >= rPos {
			return fc.fragment.From <= lineStart
		}
		if !c.ChildAfter(rPos) {
			return false
		}
	}
}

// matches reports whether the node under the cursor was parsed in a block
// context with the given hash.
func (fc *fragmentCursor) matches(hash uint32) bool {
	return fc.cursor.Tree().ContextHash() == hash
}

// takeNodes copies consecutive old nodes into the current block. The copy
// always stops after a complete block that cannot be continued by later
// lines. It returns the number of bytes covered.
func (fc *fragmentCursor) takeNodes(cx *BlockContext) int {
	cur, off := fc.cursor, fc.fragment.Offset
	fragEnd := fc.fragmentEnd
	if fc.fragment.OpenEnd {
		fragEnd--
	}
	start := cx.absoluteLineStart
	end, blockI := start, cx.block.ChildCount()
	for {
		if cur.To()-off > fragEnd {
			if cur.Type().IsAnonymous() && cur.FirstChild() {
				continue
			}
			break
		}
		cx.AddNode(cur.Tree(), cur.From()-off)
		if typ := cur.Type(); typ.InGroup(tree.GroupBlock) && !continuable(Type(typ.ID)) {
			end = cur.To() - off
			blockI = cx.block.ChildCount()
		}
		if !cur.NextSibling() {
			break
		}
	}
	cx.block.truncate(blockI)
	return end - start
}

// continuable reports whether a block of this type might absorb lines
// that follow it, so a reused run must not end with it.
func continuable(t Type) bool {
	switch t {
	case CodeBlock, ListItem, OrderedList, BulletList:
		return true
	default:
		return false
	}
}
