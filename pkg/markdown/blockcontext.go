package markdown

import (
	"errors"
	"strings"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// ErrStopAtForward is returned when StopAt is asked to move an existing
// stop position further into the document.
var ErrStopAtForward = errors.New("cannot move stop position forward")

// BlockContext drives block-level parsing of one document. It reads the
// input line by line, keeps the stack of open composite blocks and hands
// each line to the configured block parsers. It implements PartialParse.
type BlockContext struct {
	parser *Parser
	input  tree.Input
	ranges []tree.Range

	block *CompositeBlock
	stack []*CompositeBlock
	line  Line
	atEnd bool

	fragments *fragmentCursor
	gaps      *gapMap
	to        int
	stoppedAt int

	// lineStart is the start of the current line in gap-free coordinates;
	// absoluteLineStart and absoluteLineEnd are input positions. The two
	// only differ when parsing several ranges.
	lineStart         int
	absoluteLineStart int
	absoluteLineEnd   int
	rangeI            int
}

func newBlockContext(parser *Parser, input tree.Input, fragments []tree.Fragment, ranges []tree.Range) *BlockContext {
	cx := &BlockContext{
		parser:    parser,
		input:     input,
		ranges:    ranges,
		to:        ranges[len(ranges)-1].To,
		stoppedAt: -1,
	}
	cx.lineStart = ranges[0].From
	cx.absoluteLineStart = ranges[0].From
	cx.absoluteLineEnd = ranges[0].From
	cx.block = newCompositeBlock(int(Document), 0, 0, 0, 0)
	cx.stack = []*CompositeBlock{cx.block}
	switch {
	case len(ranges) > 1:
		cx.gaps = &gapMap{}
	case len(fragments) > 0:
		cx.fragments = newFragmentCursor(fragments, input)
	}
	cx.readLine()
	return cx
}

// ParsedPos returns the input position up to which the document has been
// consumed.
func (cx *BlockContext) ParsedPos() int {
	return cx.absoluteLineStart
}

// StopAt makes the parse finish once it passes pos. The position can only
// move backwards.
func (cx *BlockContext) StopAt(pos int) error {
	if cx.stoppedAt >= 0 && cx.stoppedAt < pos {
		return ErrStopAtForward
	}
	cx.stoppedAt = pos
	return nil
}

// StoppedAt returns the stop position, if one was set.
func (cx *BlockContext) StoppedAt() (int, bool) {
	return cx.stoppedAt, cx.stoppedAt >= 0
}

// Advance parses one block. It returns the finished tree once the end of
// the input (or the stop position) is reached, and nil otherwise.
func (cx *BlockContext) Advance() *tree.Tree {
	if cx.stoppedAt >= 0 && cx.absoluteLineStart > cx.stoppedAt {
		return cx.finish()
	}

	line := &cx.line
	for {
		for markI := 0; ; {
			var next *CompositeBlock
			if line.Depth < len(cx.stack) {
				next = cx.stack[len(cx.stack)-1]
			}
			for markI < len(line.Markers) && (next == nil || line.Markers[markI].From < next.End) {
				mark := line.Markers[markI]
				markI++
				cx.AddNodeType(mark.Type, mark.From, mark.To)
			}
			if next == nil {
				break
			}
			cx.finishContext()
		}
		if line.Pos < len(line.Text) {
			break
		}
		if !cx.NextLine() {
			return cx.finish()
		}
	}

	if cx.fragments != nil && cx.reuseFragment(line.BasePos) {
		return nil
	}

blocks:
	for {
		for _, parse := range cx.parser.blockParsers {
			if parse == nil {
				continue
			}
			switch parse(cx, line) {
			case BlockDone:
				return nil
			case BlockOpened:
				line.Forward()
				continue blocks
			case BlockNone:
			}
		}
		break
	}

	leaf := &LeafBlock{Start: cx.lineStart + line.Pos, Content: line.Text[line.Pos:]}
	for _, factory := range cx.parser.leafBlockParsers {
		if factory == nil {
			continue
		}
		if lp := factory(cx, leaf); lp != nil {
			leaf.parsers = append(leaf.parsers, lp)
		}
	}

lines:
	for cx.NextLine() {
		if line.Pos == len(line.Text) {
			break
		}
		if line.Indent < line.BaseIndent+4 {
			for _, stop := range cx.parser.endLeafBlock {
				if stop(cx, line, leaf) {
					break lines
				}
			}
		}
		for _, lp := range leaf.parsers {
			if lp.NextLine(cx, line, leaf) {
				return nil
			}
		}
		leaf.Content += "\n" + line.Scrub()
		leaf.marks = append(leaf.marks, line.Markers...)
	}
	cx.finishLeaf(leaf)
	return nil
}

func (cx *BlockContext) reuseFragment(start int) bool {
	if !cx.fragments.moveTo(cx.absoluteLineStart+start, cx.absoluteLineStart) ||
		!cx.fragments.matches(cx.block.Hash) {
		return false
	}
	taken := cx.fragments.takeNodes(cx)
	if taken == 0 {
		return false
	}
	cx.absoluteLineStart += taken
	cx.lineStart = cx.absoluteLineStart
	cx.moveRangeI()
	if cx.absoluteLineStart < cx.to {
		cx.lineStart++
		cx.absoluteLineStart++
	} else {
		cx.atEnd = true
	}
	cx.readLine()
	return true
}

// Parser returns the parser driving this context.
func (cx *BlockContext) Parser() *Parser {
	return cx.parser
}

// LineStart returns the document position of the current line.
func (cx *BlockContext) LineStart() int {
	return cx.lineStart
}

// Depth returns the number of open composite blocks.
func (cx *BlockContext) Depth() int {
	return len(cx.stack)
}

// ParentType returns the type of the composite block at the given depth.
func (cx *BlockContext) ParentType(depth int) *tree.NodeType {
	return cx.parser.nodeSet.Type(cx.stack[depth].Type)
}

// Block returns the innermost open composite block.
func (cx *BlockContext) Block() *CompositeBlock {
	return cx.block
}

// NextLine moves to the next line, reporting false at the end of input.
func (cx *BlockContext) NextLine() bool {
	cx.lineStart += len(cx.line.Text)
	if cx.absoluteLineEnd >= cx.to {
		cx.absoluteLineStart = cx.absoluteLineEnd
		cx.atEnd = true
		cx.readLine()
		return false
	}
	cx.lineStart++
	cx.absoluteLineStart = cx.absoluteLineEnd + 1
	cx.moveRangeI()
	cx.readLine()
	return true
}

// PeekLine returns the text of the next line without moving to it.
func (cx *BlockContext) PeekLine() string {
	text, _ := cx.scanLine(cx.absoluteLineEnd+1, false)
	return text
}

func (cx *BlockContext) moveRangeI() {
	for cx.rangeI < len(cx.ranges)-1 && cx.absoluteLineStart >= cx.ranges[cx.rangeI].To {
		cx.rangeI++
		cx.absoluteLineStart = max(cx.absoluteLineStart, cx.ranges[cx.rangeI].From)
	}
}

// scanLine reads the line starting at input position start, joining text
// across range gaps. It returns the text and the input position of its end.
// With record set, the joins are noted in the gap map.
func (cx *BlockContext) scanLine(start int, record bool) (string, int) {
	if start >= cx.to {
		return "", start
	}
	text := cx.lineChunkAt(start)
	end := start + len(text)
	if len(cx.ranges) > 1 {
		textOffset, rangeI := start, cx.rangeI
		for rangeI < len(cx.ranges)-1 && cx.ranges[rangeI].To < end {
			rangeI++
			nextFrom := cx.ranges[rangeI].From
			after := cx.lineChunkAt(nextFrom)
			end = nextFrom + len(after)
			text = text[:cx.ranges[rangeI-1].To-textOffset] + after
			textOffset = end - len(text)
			if record {
				cx.gaps.add(cx.lineStart+len(text)-len(after), nextFrom)
			}
		}
	}
	return text, end
}

func (cx *BlockContext) readLine() {
	line := &cx.line
	if cx.gaps != nil {
		cx.gaps.add(cx.lineStart, cx.absoluteLineStart)
	}
	text, end := cx.scanLine(cx.absoluteLineStart, cx.gaps != nil)
	cx.absoluteLineEnd = end
	line.reset(text)
	for ; line.Depth < len(cx.stack); line.Depth++ {
		bl := cx.stack[line.Depth]
		handler, ok := cx.parser.skipContextMarkup[bl.Type]
		if !ok {
			panic("markdown: unhandled block context " + cx.parser.nodeSet.Type(bl.Type).Name)
		}
		if !handler(bl, cx, line) {
			break
		}
		line.Forward()
	}
}

func (cx *BlockContext) lineChunkAt(pos int) string {
	next := cx.input.Chunk(pos)
	var text string
	if !cx.input.LineChunks() {
		text = next
		if eol := strings.IndexByte(next, '\n'); eol >= 0 {
			text = next[:eol]
		}
	} else if next != "\n" {
		text = next
	}
	if pos+len(text) > cx.to {
		return text[:cx.to-pos]
	}
	return text
}

// PrevLineEnd returns the end of the previous line, or the end of the
// document once the last line was consumed.
func (cx *BlockContext) PrevLineEnd() int {
	if cx.atEnd {
		return cx.lineStart
	}
	return cx.lineStart - 1
}

// StartContext opens a composite block of the given type at offset start
// in the current line.
func (cx *BlockContext) StartContext(typ, start, value int) {
	cx.block = newCompositeBlock(typ, value, cx.lineStart+start, cx.block.Hash, cx.lineStart+len(cx.line.Text))
	cx.stack = append(cx.stack, cx.block)
}

// StartComposite opens a composite block of a named node type. The type
// must have been defined as a composite by an extension.
func (cx *BlockContext) StartComposite(name string, start, value int) {
	cx.StartContext(cx.parser.mustNodeType(name), start, value)
}

// AddNode adds a finished subtree at document position from to the
// innermost open block.
func (cx *BlockContext) AddNode(t *tree.Tree, from int) {
	cx.block.addChild(t, from-cx.block.From)
}

// AddNodeType adds a childless node of the given type.
func (cx *BlockContext) AddNodeType(typ, from, to int) {
	cx.AddNode(tree.Leaf(cx.parser.nodeSet.Type(typ), to-from), from)
}

// AddElement adds an element to the innermost open block.
func (cx *BlockContext) AddElement(e Element) {
	cx.AddNode(e.ToTree(cx.parser.nodeSet), e.From)
}

// AddLeafElement adds the node for a leaf block, merging in the context
// markers collected on its continuation lines.
func (cx *BlockContext) AddLeafElement(leaf *LeafBlock, e Element) {
	cx.AddNode(newBuffer(cx.parser.nodeSet).
		writeElements(injectMarks(e.Children, leaf.marks), -e.From).
		finish(e.Type, e.To-e.From), e.From)
}

// Elt creates an element of a named node type. It panics when the name
// is unknown, which is a programming error in an extension.
func (cx *BlockContext) Elt(name string, from, to int, children ...Element) Element {
	return Element{Type: cx.parser.mustNodeType(name), From: from, To: to, Children: children}
}

func (cx *BlockContext) finishContext() {
	last := len(cx.stack) - 1
	bl := cx.stack[last]
	cx.stack = cx.stack[:last]
	top := cx.stack[last-1]
	top.addChild(bl.toTree(cx.parser.nodeSet, bl.End), bl.From-top.From)
	cx.block = top
}

func (cx *BlockContext) finish() *tree.Tree {
	for len(cx.stack) > 1 {
		cx.finishContext()
	}
	doc := cx.block.toTree(cx.parser.nodeSet, cx.lineStart)
	if len(cx.ranges) > 1 {
		doc = cx.gaps.apply(doc, 0)
	}
	return doc
}

func (cx *BlockContext) finishLeaf(leaf *LeafBlock) {
	for _, lp := range leaf.parsers {
		if lp.Finish(cx, leaf) {
			return
		}
	}
	inline := injectMarks(cx.parser.ParseInline(leaf.Content, leaf.Start), leaf.marks)
	cx.AddNode(newBuffer(cx.parser.nodeSet).
		writeElements(inline, -leaf.Start).
		finish(int(Paragraph), len(leaf.Content)), leaf.Start)
}
