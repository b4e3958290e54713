package markdown

// LeafBlock accumulates the lines of a leaf block (a paragraph, or
// something a leaf parser claims) until the block ends.
type LeafBlock struct {
	// Start is the document position of the first content byte.
	Start int

	// Content holds the block's lines joined with "\n", with context markup
	// on continuation lines replaced by spaces.
	Content string

	marks   []Element
	parsers []LeafBlockParser
}

// LeafBlockParser follows a leaf block line by line and may claim it.
type LeafBlockParser interface {
	// NextLine is called for each continuation line before it is added to
	// the leaf. Returning true means the parser finished the leaf itself,
	// having added its node and advanced past the consumed lines.
	NextLine(cx *BlockContext, line *Line, leaf *LeafBlock) bool

	// Finish is called when the leaf ends. Returning true means the parser
	// added a node for the leaf; otherwise a Paragraph is produced.
	Finish(cx *BlockContext, leaf *LeafBlock) bool
}

// LeafParserFactory decides, at the first line of a leaf block, whether to
// follow it. It returns nil to decline.
type LeafParserFactory func(cx *BlockContext, leaf *LeafBlock) LeafBlockParser

// EndLeafFunc reports whether a line interrupts the current leaf block.
type EndLeafFunc func(cx *BlockContext, line *Line, leaf *LeafBlock) bool

func defaultEndLeaf() []EndLeafFunc {
	return []EndLeafFunc{
		func(_ *BlockContext, line *Line, _ *LeafBlock) bool { return isAtxHeading(line) >= 0 },
		func(_ *BlockContext, line *Line, _ *LeafBlock) bool { return isFencedCode(line) >= 0 },
		func(_ *BlockContext, line *Line, _ *LeafBlock) bool { return isBlockquote(line) >= 0 },
		func(cx *BlockContext, line *Line, _ *LeafBlock) bool { return isBulletList(line, cx, true) >= 0 },
		func(cx *BlockContext, line *Line, _ *LeafBlock) bool { return isOrderedList(line, cx, true) >= 0 },
		func(cx *BlockContext, line *Line, _ *LeafBlock) bool { return isHorizontalRule(line, cx, true) >= 0 },
		func(cx *BlockContext, line *Line, _ *LeafBlock) bool { return isHTMLBlock(line, cx, true) >= 0 },
	}
}

type refStage int

const (
	refFailed refStage = iota - 1
	refStart
	refLabel
	refLink
	refTitle
)

// linkReferenceParser recognizes [label]: url "title" definitions. It
// follows a leaf starting with '[' and gives up as soon as the text cannot
// be a definition.
type linkReferenceParser struct {
	stage refStage
	elts  []Element
	pos   int
	start int
}

func newLinkReferenceParser(_ *BlockContext, leaf *LeafBlock) LeafBlockParser {
	if charAt(leaf.Content, 0) != '[' {
		return nil
	}
	p := &linkReferenceParser{start: leaf.Start}
	p.advance(leaf.Content)
	return p
}

func (p *linkReferenceParser) NextLine(cx *BlockContext, line *Line, leaf *LeafBlock) bool {
	if p.stage == refFailed {
		return false
	}
	content := leaf.Content + "\n" + line.Scrub()
	finish := p.advance(content)
	if finish > -1 && finish < len(content) {
		return p.complete(cx, leaf, finish)
	}
	return false
}

func (p *linkReferenceParser) Finish(cx *BlockContext, leaf *LeafBlock) bool {
	if (p.stage == refLink || p.stage == refTitle) && skipSpace(leaf.Content, p.pos) == len(leaf.Content) {
		return p.complete(cx, leaf, len(leaf.Content))
	}
	return false
}

func (p *linkReferenceParser) complete(cx *BlockContext, leaf *LeafBlock, length int) bool {
	cx.AddLeafElement(leaf, elt(LinkReference, p.start, p.start+length, p.elts...))
	return true
}

// nextStage records a parsed component. A missing component leaves the
// stage alone so more lines can complete it; an invalid one fails.
func (p *linkReferenceParser) nextStage(e Element, res scanResult) bool {
	switch res {
	case scanOK:
		p.pos = e.To - p.start
		p.elts = append(p.elts, e)
		p.stage++
		return true
	case scanInvalid:
		p.stage = refFailed
	}
	return false
}

func (p *linkReferenceParser) advance(content string) int {
	for {
		switch p.stage {
		case refFailed:
			return -1
		case refStart:
			if !p.nextStage(parseLinkLabel(content, p.pos, p.start, true)) {
				return -1
			}
			if charAt(content, p.pos) != ':' {
				p.stage = refFailed
				return -1
			}
			p.elts = append(p.elts, elt(LinkMark, p.pos+p.start, p.pos+p.start+1))
			p.pos++
		case refLabel:
			if !p.nextStage(parseURL(content, skipSpace(content, p.pos), p.start)) {
				return -1
			}
		case refLink:
			skip, end := skipSpace(content, p.pos), 0
			if skip > p.pos {
				if title, res := parseLinkTitle(content, skip, p.start); res == scanOK {
					if titleEnd := lineEnd(content, title.To-p.start); titleEnd > 0 {
						p.nextStage(title, res)
						end = titleEnd
					}
				}
			}
			if end == 0 {
				end = lineEnd(content, p.pos)
			}
			if end > 0 && end < len(content) {
				return end
			}
			return -1
		default:
			return lineEnd(content, p.pos)
		}
	}
}

// lineEnd returns the index of the line break at or after pos when only
// whitespace precedes it, or -1.
func lineEnd(text string, pos int) int {
	for ; pos < len(text); pos++ {
		next := text[pos]
		if next == '\n' {
			break
		}
		if !isSpace(int(next)) {
			return -1
		}
	}
	return pos
}

// setextHeadingParser turns a paragraph followed by a "===" or "---" line
// into a setext heading.
type setextHeadingParser struct{}

func newSetextHeadingParser(*BlockContext, *LeafBlock) LeafBlockParser {
	return setextHeadingParser{}
}

func (setextHeadingParser) NextLine(cx *BlockContext, line *Line, leaf *LeafBlock) bool {
	underline := -1
	if line.Depth >= len(cx.stack) {
		underline = isSetextUnderline(line)
	}
	if underline < 0 {
		return false
	}
	next := line.Next
	underlineMark := elt(HeaderMark, cx.lineStart+line.Pos, cx.lineStart+underline)
	cx.NextLine()
	typ := SetextHeading2
	if next == '=' {
		typ = SetextHeading1
	}
	children := append(cx.parser.ParseInline(leaf.Content, leaf.Start), underlineMark)
	cx.AddLeafElement(leaf, elt(typ, leaf.Start, cx.PrevLineEnd(), children...))
	return true
}

func (setextHeadingParser) Finish(*BlockContext, *LeafBlock) bool {
	return false
}
