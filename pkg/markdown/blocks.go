package markdown

// BlockResult is what a block parser reports for the current line.
type BlockResult int

const (
	// BlockNone means the parser does not apply; the next one is tried.
	BlockNone BlockResult = iota

	// BlockDone means a block was consumed along with all of its lines.
	BlockDone

	// BlockOpened means a context was opened. Recognition restarts on the
	// same line at the new base position.
	BlockOpened
)

// BlockParseFunc tries to recognize a block at the current line position.
type BlockParseFunc func(cx *BlockContext, line *Line) BlockResult

func isFencedCode(line *Line) int {
	if line.Next != '`' && line.Next != '~' {
		return -1
	}
	pos := line.Pos + 1
	for pos < len(line.Text) && int(line.Text[pos]) == line.Next {
		pos++
	}
	if pos < line.Pos+3 {
		return -1
	}
	if line.Next == '`' {
		for i := pos; i < len(line.Text); i++ {
			if line.Text[i] == '`' {
				return -1
			}
		}
	}
	return pos
}

func isBlockquote(line *Line) int {
	if line.Next != '>' {
		return -1
	}
	if charAt(line.Text, line.Pos+1) == ' ' {
		return 2
	}
	return 1
}

func isHorizontalRule(line *Line, cx *BlockContext, breaking bool) int {
	if line.Next != '*' && line.Next != '-' && line.Next != '_' {
		return -1
	}
	count := 1
	for pos := line.Pos + 1; pos < len(line.Text); pos++ {
		ch := int(line.Text[pos])
		if ch == line.Next {
			count++
		} else if !isSpace(ch) {
			return -1
		}
	}
	if breaking && setextWins(line, cx) {
		return -1
	}
	if count < 3 {
		return -1
	}
	return 1
}

// setextWins decides the ambiguity between a thematic break and a setext
// underline for a line that ends a paragraph. A "---" line directly below
// paragraph text at the same nesting depth underlines it, provided setext
// headings are enabled. Lines of "***" or "___" are never underlines.
func setextWins(line *Line, cx *BlockContext) bool {
	return line.Next == '-' &&
		isSetextUnderline(line) > -1 &&
		line.Depth == len(cx.stack) &&
		cx.parser.setextEnabled()
}

func inList(cx *BlockContext, typ Type) bool {
	for i := len(cx.stack) - 1; i >= 0; i-- {
		if Type(cx.stack[i].Type) == typ {
			return true
		}
	}
	return false
}

func isBulletList(line *Line, cx *BlockContext, breaking bool) int {
	if line.Next != '-' && line.Next != '+' && line.Next != '*' {
		return -1
	}
	if line.Pos != len(line.Text)-1 && !isSpace(int(line.Text[line.Pos+1])) {
		return -1
	}
	if breaking && !inList(cx, BulletList) && line.SkipSpace(line.Pos+2) >= len(line.Text) {
		return -1
	}
	return 1
}

func isOrderedList(line *Line, cx *BlockContext, breaking bool) int {
	pos, next := line.Pos, line.Next
	for next >= '0' && next <= '9' {
		pos++
		if pos == len(line.Text) {
			return -1
		}
		next = int(line.Text[pos])
	}
	if pos == line.Pos || pos > line.Pos+9 ||
		(next != '.' && next != ')') ||
		(pos < len(line.Text)-1 && !isSpace(int(line.Text[pos+1]))) {
		return -1
	}
	if breaking && !inList(cx, OrderedList) &&
		(line.SkipSpace(pos+1) == len(line.Text) || pos > line.Pos+1 || line.Next != '1') {
		return -1
	}
	return pos + 1 - line.Pos
}

func isAtxHeading(line *Line) int {
	if line.Next != '#' {
		return -1
	}
	pos := line.Pos + 1
	for pos < len(line.Text) && line.Text[pos] == '#' {
		pos++
	}
	if pos < len(line.Text) && line.Text[pos] != ' ' && line.Text[pos] != '\t' {
		return -1
	}
	size := pos - line.Pos
	if size > 6 {
		return -1
	}
	return size
}

func isSetextUnderline(line *Line) int {
	if (line.Next != '-' && line.Next != '=') || line.Indent >= line.BaseIndent+4 {
		return -1
	}
	pos := line.Pos + 1
	for pos < len(line.Text) && int(line.Text[pos]) == line.Next {
		pos++
	}
	end := pos
	for pos < len(line.Text) && isSpace(int(line.Text[pos])) {
		pos++
	}
	if pos == len(line.Text) {
		return end
	}
	return -1
}

func getListIndent(line *Line, pos int) int {
	indentAfter := line.CountIndent(pos, line.Pos, line.Indent)
	indented := line.CountIndent(line.SkipSpace(pos), pos, indentAfter)
	if indented >= indentAfter+5 {
		return indentAfter + 1
	}
	return indented
}

func addCodeText(marks []Element, from, to int) []Element {
	if last := len(marks) - 1; last >= 0 && marks[last].To == from && Type(marks[last].Type) == CodeText {
		marks[last].To = to
		return marks
	}
	return append(marks, elt(CodeText, from, to))
}

func parseIndentedCode(cx *BlockContext, line *Line) BlockResult {
	base := line.BaseIndent + 4
	if line.Indent < base {
		return BlockNone
	}
	start := line.FindColumn(base)
	from, to := cx.lineStart+start, cx.lineStart+len(line.Text)
	var marks, pending []Element
	marks = addCodeText(marks, from, to)
lines:
	for cx.NextLine() && line.Depth >= len(cx.stack) {
		switch {
		case line.Pos == len(line.Text):
			pending = addCodeText(pending, cx.lineStart-1, cx.lineStart)
			pending = append(pending, line.Markers...)
		case line.Indent < base:
			break lines
		default:
			for _, m := range pending {
				if Type(m.Type) == CodeText {
					marks = addCodeText(marks, m.From, m.To)
				} else {
					marks = append(marks, m)
				}
			}
			pending = pending[:0]
			marks = addCodeText(marks, cx.lineStart-1, cx.lineStart)
			marks = append(marks, line.Markers...)
			to = cx.lineStart + len(line.Text)
			codeStart := cx.lineStart + line.FindColumn(line.BaseIndent+4)
			if codeStart < to {
				marks = addCodeText(marks, codeStart, to)
			}
		}
	}
	if len(pending) > 0 {
		var kept []Element
		for _, m := range pending {
			if Type(m.Type) != CodeText {
				kept = append(kept, m)
			}
		}
		if len(kept) > 0 {
			line.Markers = append(kept, line.Markers...)
		}
	}
	cx.AddNode(newBuffer(cx.parser.nodeSet).writeElements(marks, -from).finish(int(CodeBlock), to-from), from)
	return BlockDone
}

func parseFencedCode(cx *BlockContext, line *Line) BlockResult {
	fenceEnd := isFencedCode(line)
	if fenceEnd < 0 {
		return BlockNone
	}
	from, ch, size := cx.lineStart+line.Pos, line.Next, fenceEnd-line.Pos
	infoFrom := line.SkipSpace(fenceEnd)
	infoTo := skipSpaceBack(line.Text, len(line.Text), infoFrom)
	marks := []Element{elt(CodeMark, from, from+size)}
	if infoFrom < infoTo {
		marks = append(marks, elt(CodeInfo, cx.lineStart+infoFrom, cx.lineStart+infoTo))
	}

	empty, hasLine := true, false
	for first := true; cx.NextLine() && line.Depth >= len(cx.stack); first = false {
		i := line.Pos
		if line.Indent-line.BaseIndent < 4 {
			for i < len(line.Text) && int(line.Text[i]) == ch {
				i++
			}
		}
		if i-line.Pos >= size && line.SkipSpace(i) == len(line.Text) {
			marks = append(marks, line.Markers...)
			if empty && hasLine {
				marks = addCodeText(marks, cx.lineStart-1, cx.lineStart)
			}
			marks = append(marks, elt(CodeMark, cx.lineStart+line.Pos, cx.lineStart+i))
			cx.NextLine()
			break
		}
		hasLine = true
		if !first {
			marks = addCodeText(marks, cx.lineStart-1, cx.lineStart)
			empty = false
		}
		marks = append(marks, line.Markers...)
		textStart, textEnd := cx.lineStart+line.BasePos, cx.lineStart+len(line.Text)
		if textStart < textEnd {
			marks = addCodeText(marks, textStart, textEnd)
			empty = false
		}
	}
	end := cx.PrevLineEnd()
	cx.AddNode(newBuffer(cx.parser.nodeSet).writeElements(marks, -from).finish(int(FencedCode), end-from), from)
	return BlockDone
}

func parseBlockquote(cx *BlockContext, line *Line) BlockResult {
	size := isBlockquote(line)
	if size < 0 {
		return BlockNone
	}
	cx.StartContext(int(Blockquote), line.Pos, 0)
	cx.AddNodeType(int(QuoteMark), cx.lineStart+line.Pos, cx.lineStart+line.Pos+1)
	line.MoveBase(line.Pos + size)
	return BlockOpened
}

func parseHorizontalRule(cx *BlockContext, line *Line) BlockResult {
	if isHorizontalRule(line, cx, false) < 0 {
		return BlockNone
	}
	from := cx.lineStart + line.Pos
	cx.NextLine()
	cx.AddNodeType(int(HorizontalRule), from, cx.PrevLineEnd())
	return BlockDone
}

func parseBulletList(cx *BlockContext, line *Line) BlockResult {
	size := isBulletList(line, cx, false)
	if size < 0 {
		return BlockNone
	}
	if Type(cx.block.Type) != BulletList {
		cx.StartContext(int(BulletList), line.BasePos, line.Next)
	}
	newBase := getListIndent(line, line.Pos+1)
	cx.StartContext(int(ListItem), line.BasePos, newBase-line.BaseIndent)
	cx.AddNodeType(int(ListMark), cx.lineStart+line.Pos, cx.lineStart+line.Pos+size)
	line.MoveBaseColumn(newBase)
	return BlockOpened
}

func parseOrderedList(cx *BlockContext, line *Line) BlockResult {
	size := isOrderedList(line, cx, false)
	if size < 0 {
		return BlockNone
	}
	if Type(cx.block.Type) != OrderedList {
		cx.StartContext(int(OrderedList), line.BasePos, int(line.Text[line.Pos+size-1]))
	}
	newBase := getListIndent(line, line.Pos+size)
	cx.StartContext(int(ListItem), line.BasePos, newBase-line.BaseIndent)
	cx.AddNodeType(int(ListMark), cx.lineStart+line.Pos, cx.lineStart+line.Pos+size)
	line.MoveBaseColumn(newBase)
	return BlockOpened
}

func parseATXHeading(cx *BlockContext, line *Line) BlockResult {
	size := isAtxHeading(line)
	if size < 0 {
		return BlockNone
	}
	off := line.Pos
	from := cx.lineStart + off
	endOfSpace := skipSpaceBack(line.Text, len(line.Text), off)
	after := endOfSpace
	for after > off && int(line.Text[after-1]) == line.Next {
		after--
	}
	if after == endOfSpace || after == off || !isSpace(int(line.Text[after-1])) {
		after = len(line.Text)
	}
	buf := newBuffer(cx.parser.nodeSet).write(int(HeaderMark), 0, size, 0)
	if contentStart := off + size + 1; contentStart < after {
		buf.writeElements(cx.parser.ParseInline(line.Text[contentStart:after], from+size+1), -from)
	}
	if after < len(line.Text) {
		buf.write(int(HeaderMark), after-off, endOfSpace-off, 0)
	}
	node := buf.finish(int(ATXHeading1)-1+size, len(line.Text)-off)
	cx.NextLine()
	cx.AddNode(node, from)
	return BlockDone
}

func parseHTMLBlock(cx *BlockContext, line *Line) BlockResult {
	kind := isHTMLBlock(line, cx, false)
	if kind < 0 {
		return BlockNone
	}
	from := cx.lineStart + line.Pos
	end := htmlBlockKinds[kind].close
	var marks []Element
	// End conditions apply to the line content after container markup,
	// so a quoted blank line ends kinds 6 and 7 inside a blockquote.
	ended := func() bool { return end.MatchString(line.Text[line.BasePos:]) }
	trailing := end != emptyLinePattern
	for !ended() && cx.NextLine() {
		if line.Depth < len(cx.stack) || (!trailing && ended()) {
			trailing = false
			break
		}
		marks = append(marks, line.Markers...)
	}
	if trailing {
		cx.NextLine()
	}
	nodeType := HTMLBlock
	switch end {
	case commentEndPattern:
		nodeType = CommentBlock
	case processingEndPattern:
		nodeType = ProcessingInstructionBlock
	}
	to := cx.PrevLineEnd()
	cx.AddNode(newBuffer(cx.parser.nodeSet).writeElements(marks, -from).finish(int(nodeType), to-from), from)
	return BlockDone
}
