package markdown

// scanResult distinguishes a component that is absent (more text might
// still complete it) from one that is malformed.
type scanResult int

const (
	scanNone scanResult = iota
	scanInvalid
	scanOK
)

// parseURL reads a link destination starting at start. Positions in the
// returned element are shifted by offset.
func parseURL(text string, start, offset int) (Element, scanResult) {
	if charAt(text, start) == '<' {
		for pos := start + 1; pos < len(text); pos++ {
			switch text[pos] {
			case '>':
				return elt(URL, start+offset, pos+1+offset), scanOK
			case '<', '\n':
				return Element{}, scanInvalid
			}
		}
		return Element{}, scanNone
	}
	depth, pos := 0, start
	for escaped := false; pos < len(text); pos++ {
		ch := text[pos]
		if isSpace(int(ch)) {
			break
		}
		switch {
		case escaped:
			escaped = false
		case ch == '(':
			depth++
		case ch == ')':
			if depth == 0 {
				return urlResult(text, start, pos, offset)
			}
			depth--
		case ch == '\\':
			escaped = true
		}
	}
	return urlResult(text, start, pos, offset)
}

func urlResult(text string, start, pos, offset int) (Element, scanResult) {
	switch {
	case pos > start:
		return elt(URL, start+offset, pos+offset), scanOK
	case pos == len(text):
		return Element{}, scanNone
	default:
		return Element{}, scanInvalid
	}
}

// parseLinkTitle reads a quoted or parenthesized link title.
func parseLinkTitle(text string, start, offset int) (Element, scanResult) {
	next := charAt(text, start)
	if next != '\'' && next != '"' && next != '(' {
		return Element{}, scanInvalid
	}
	end := byte(next)
	if next == '(' {
		end = ')'
	}
	for pos, escaped := start+1, false; pos < len(text); pos++ {
		ch := text[pos]
		switch {
		case escaped:
			escaped = false
		case ch == end:
			return elt(LinkTitle, start+offset, pos+1+offset), scanOK
		case ch == '\\':
			escaped = true
		}
	}
	return Element{}, scanNone
}

// maxLabelLength bounds how far a link label is scanned.
const maxLabelLength = 999

// parseLinkLabel reads a bracketed label starting at the '[' at start.
// With requireNonWS, a label of only whitespace is invalid.
func parseLinkLabel(text string, start, offset int, requireNonWS bool) (Element, scanResult) {
	end := min(len(text), start+1+maxLabelLength)
	for pos, escaped := start+1, false; pos < end; pos++ {
		ch := text[pos]
		switch {
		case escaped:
			escaped = false
		case ch == ']':
			if requireNonWS {
				return Element{}, scanInvalid
			}
			return elt(LinkLabel, start+offset, pos+1+offset), scanOK
		default:
			if requireNonWS && !isSpace(int(ch)) {
				requireNonWS = false
			}
			if ch == '[' {
				return Element{}, scanInvalid
			}
			if ch == '\\' {
				escaped = true
			}
		}
	}
	return Element{}, scanNone
}

// finishLink builds a Link or Image element from the bracketed content,
// consuming an inline destination "(url "title")" or a reference label
// "[label]" when one follows the closing bracket at startPos-1.
func finishLink(cx *InlineContext, content []Element, typ Type, start, startPos int) Element {
	next, endPos := cx.Char(startPos), startPos
	markLen := 1
	if typ == Image {
		markLen = 2
	}
	children := make([]Element, 0, len(content)+6)
	children = append(children, elt(LinkMark, start, start+markLen))
	children = append(children, content...)
	children = append(children, elt(LinkMark, startPos-1, startPos))

	switch next {
	case '(':
		pos := cx.SkipSpace(startPos + 1)
		dest, destRes := parseURL(cx.text, pos-cx.offset, cx.offset)
		var (
			title    Element
			titleRes scanResult
		)
		if destRes == scanOK {
			pos = cx.SkipSpace(dest.To)
			if pos != dest.To {
				title, titleRes = parseLinkTitle(cx.text, pos-cx.offset, cx.offset)
				if titleRes == scanOK {
					pos = cx.SkipSpace(title.To)
				}
			}
		}
		if cx.Char(pos) == ')' {
			children = append(children, elt(LinkMark, startPos, startPos+1))
			endPos = pos + 1
			if destRes == scanOK {
				children = append(children, dest)
			}
			if titleRes == scanOK {
				children = append(children, title)
			}
			children = append(children, elt(LinkMark, pos, endPos))
		}
	case '[':
		if label, res := parseLinkLabel(cx.text, startPos-cx.offset, cx.offset, false); res == scanOK {
			children = append(children, label)
			endPos = label.To
		}
	}
	return elt(typ, start, endPos, children...)
}
