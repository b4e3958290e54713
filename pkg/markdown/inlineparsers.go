package markdown

import "strings"

// asciiPunctuation lists the characters a backslash can escape.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func parseEscape(cx *InlineContext, next, start int) int {
	if next != '\\' || start == cx.End()-1 {
		return -1
	}
	escaped := cx.Char(start + 1)
	if escaped < 0 || !strings.ContainsRune(asciiPunctuation, rune(escaped)) {
		return -1
	}
	return cx.Append(elt(Escape, start, start+2))
}

func parseEntity(cx *InlineContext, next, start int) int {
	if next != '&' {
		return -1
	}
	m := entityPattern.FindString(cx.Slice(start+1, start+31))
	if m == "" {
		return -1
	}
	return cx.Append(elt(Entity, start, start+1+len(m)))
}

func parseInlineCode(cx *InlineContext, next, start int) int {
	if next != '`' || cx.Char(start-1) == '`' {
		return -1
	}
	pos := start + 1
	for pos < cx.End() && cx.Char(pos) == '`' {
		pos++
	}
	size, curSize := pos-start, 0
	for ; pos < cx.End(); pos++ {
		if cx.Char(pos) != '`' {
			curSize = 0
			continue
		}
		curSize++
		if curSize == size && cx.Char(pos+1) != '`' {
			return cx.Append(elt(InlineCode, start, pos+1,
				elt(CodeMark, start, start+size),
				elt(CodeMark, pos+1-size, pos+1),
			))
		}
	}
	return -1
}

func parseHTMLTag(cx *InlineContext, next, start int) int {
	if next != '<' || start == cx.End()-1 {
		return -1
	}
	after := cx.Slice(start+1, cx.End())
	if url := inlineAutolinkPattern.FindString(after); url != "" {
		return cx.Append(elt(Autolink, start, start+1+len(url),
			elt(LinkMark, start, start+1),
			elt(URL, start+1, start+len(url)),
			elt(LinkMark, start+len(url), start+1+len(url)),
		))
	}
	if comment := inlineCommentPattern.FindString(after); comment != "" {
		return cx.Append(elt(Comment, start, start+1+len(comment)))
	}
	if proc := inlineProcPattern.FindString(after); proc != "" {
		return cx.Append(elt(ProcessingInstruction, start, start+1+len(proc)))
	}
	m := inlineTagPattern.FindString(after)
	if m == "" {
		return -1
	}
	return cx.Append(elt(HTMLTag, start, start+1+len(m)))
}

func parseEmphasis(cx *InlineContext, next, start int) int {
	if next != '_' && next != '*' {
		return -1
	}
	pos := start + 1
	for cx.Char(pos) == next {
		pos++
	}
	canOpen, canClose := cx.Flanking(start, pos, next == '_')
	typ := EmphasisAsterisk
	if next == '_' {
		typ = EmphasisUnderscore
	}
	return cx.AddDelimiter(typ, start, pos, canOpen, canClose)
}

func parseHardBreak(cx *InlineContext, next, start int) int {
	if next == '\\' && cx.Char(start+1) == '\n' {
		return cx.Append(elt(HardBreak, start, start+2))
	}
	if next == ' ' {
		pos := start + 1
		for cx.Char(pos) == ' ' {
			pos++
		}
		if cx.Char(pos) == '\n' && pos >= start+2 {
			return cx.Append(elt(HardBreak, start, pos+1))
		}
	}
	return -1
}

func parseLinkStart(cx *InlineContext, next, start int) int {
	if next != '[' {
		return -1
	}
	return cx.appendDelimiter(InlineDelimiter{Type: LinkStart, From: start, To: start + 1, Side: MarkOpen})
}

func parseImageStart(cx *InlineContext, next, start int) int {
	if next != '!' || cx.Char(start+1) != '[' {
		return -1
	}
	return cx.appendDelimiter(InlineDelimiter{Type: ImageStart, From: start, To: start + 2, Side: MarkOpen})
}

// parseLinkEnd closes the nearest open bracket. Once a link is formed,
// every earlier link bracket is deactivated so links never nest.
func parseLinkEnd(cx *InlineContext, next, start int) int {
	if next != ']' {
		return -1
	}
	for i := len(cx.parts) - 1; i >= 0; i-- {
		p := cx.parts[i]
		if p.kind != partDelimiter || (p.delim.Type != LinkStart && p.delim.Type != ImageStart) {
			continue
		}
		opener := p.delim
		after := cx.Char(start + 1)
		if opener.Side == MarkNone || (cx.SkipSpace(opener.To) == start && after != '(' && after != '[') {
			cx.parts[i] = part{}
			return -1
		}
		content := cx.TakeContent(i)
		typ := Link
		if opener.Type == ImageStart {
			typ = Image
		}
		link := finishLink(cx, content, typ, opener.From, start+1)
		cx.parts = append(cx.parts, part{kind: partElement, elt: link})
		if opener.Type == LinkStart {
			for j := range i {
				if q := &cx.parts[j]; q.kind == partDelimiter && q.delim.Type == LinkStart {
					q.delim.Side = MarkNone
				}
			}
		}
		return link.To
	}
	return -1
}
