package markdown

import "github.com/yaklabco/mdtree/pkg/tree"

// CompositeBlock is an open block context (document, blockquote, list or
// list item) on the parser's context stack.
type CompositeBlock struct {
	// Type is the node type ID.
	Type int

	// Value carries type-specific data: the content indent of a list item,
	// or the bullet/delimiter character of a list.
	Value int

	// From is the start of the block; End the furthest known end.
	From int
	End  int

	// Hash identifies the chain of enclosing contexts. Reused subtrees
	// must carry the hash of the block they are added to.
	Hash uint32

	children  []*tree.Tree
	positions []int
}

func newCompositeBlock(typ, value, from int, parentHash uint32, end int) *CompositeBlock {
	hash := parentHash + parentHash<<8 + uint32(typ) + uint32(value)<<4 //nolint:gosec // hash arithmetic wraps by design
	return &CompositeBlock{Type: typ, Value: value, From: from, End: end, Hash: hash}
}

func (b *CompositeBlock) addChild(child *tree.Tree, pos int) {
	b.children = append(b.children, child.WithContextHash(b.Hash))
	b.positions = append(b.positions, pos)
}

// ChildCount returns the number of children added so far.
func (b *CompositeBlock) ChildCount() int {
	return len(b.children)
}

func (b *CompositeBlock) truncate(n int) {
	b.children = b.children[:n]
	b.positions = b.positions[:n]
}

func (b *CompositeBlock) toTree(set *tree.NodeSet, end int) *tree.Tree {
	if last := len(b.children) - 1; last >= 0 {
		end = max(end, b.positions[last]+b.children[last].Length()+b.From)
	}
	return tree.New(set.Type(b.Type), b.children, b.positions, end-b.From).Balance(b.Hash)
}

// SkipMarkupFunc consumes a context's continuation markup at the start of
// a line. It returns false when the line does not continue the context.
type SkipMarkupFunc func(bl *CompositeBlock, cx *BlockContext, line *Line) bool

func skipBlockquote(bl *CompositeBlock, cx *BlockContext, line *Line) bool {
	if line.Next != '>' {
		return false
	}
	line.AddMarker(elt(QuoteMark, cx.lineStart+line.Pos, cx.lineStart+line.Pos+1))
	step := 1
	if isSpace(charAt(line.Text, line.Pos+1)) {
		step = 2
	}
	line.MoveBase(line.Pos + step)
	bl.End = cx.lineStart + len(line.Text)
	return true
}

func skipListItem(bl *CompositeBlock, _ *BlockContext, line *Line) bool {
	if line.Indent < line.BaseIndent+bl.Value && line.Next > -1 {
		return false
	}
	line.MoveBaseColumn(line.BaseIndent + bl.Value)
	return true
}

func skipList(bl *CompositeBlock, cx *BlockContext, line *Line) bool {
	if line.Pos == len(line.Text) ||
		(bl != cx.block && line.Indent >= cx.stack[line.Depth+1].Value+line.BaseIndent) {
		return true
	}
	if line.Indent >= line.BaseIndent+4 {
		return false
	}
	var size int
	if Type(bl.Type) == OrderedList {
		size = isOrderedList(line, cx, false)
	} else {
		size = isBulletList(line, cx, false)
	}
	return size > 0 &&
		(Type(bl.Type) != BulletList || isHorizontalRule(line, cx, false) < 0) &&
		int(line.Text[line.Pos+size-1]) == bl.Value
}

func skipDocument(*CompositeBlock, *BlockContext, *Line) bool {
	return true
}

func defaultSkipMarkup() map[int]SkipMarkupFunc {
	return map[int]SkipMarkupFunc{
		int(Blockquote):  skipBlockquote,
		int(ListItem):    skipListItem,
		int(OrderedList): skipList,
		int(BulletList):  skipList,
		int(Document):    skipDocument,
	}
}
