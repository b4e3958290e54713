package markdown

import (
	"slices"
	"unicode"
	"unicode/utf8"
)

// InlineParseFunc tries to parse an inline construct at pos, where next is
// the byte found there. It returns the position after the construct, or -1
// when it does not apply.
type InlineParseFunc func(cx *InlineContext, next int, pos int) int

// Mark tells on which side a delimiter can act.
type Mark int

// Delimiter sides. A delimiter may be both an opener and a closer.
const (
	MarkNone  Mark = 0
	MarkOpen  Mark = 1
	MarkClose Mark = 2
)

// DelimiterType identifies a kind of inline delimiter. Delimiters only
// match others of the identical type.
type DelimiterType struct {
	// Resolve names the node type produced when a pair matches. Empty
	// means the delimiter is resolved by other means (link brackets).
	Resolve string

	// Mark names the node type given to the delimiters themselves.
	Mark string
}

// InlineDelimiter is an unmatched delimiter run recorded during parsing.
type InlineDelimiter struct {
	Type *DelimiterType
	From int
	To   int
	Side Mark
}

//nolint:gochecknoglobals // Delimiter types are compared by identity.
var (
	EmphasisUnderscore = &DelimiterType{Resolve: "Emphasis", Mark: "EmphasisMark"}
	EmphasisAsterisk   = &DelimiterType{Resolve: "Emphasis", Mark: "EmphasisMark"}
	LinkStart          = &DelimiterType{}
	ImageStart         = &DelimiterType{}
)

type partKind uint8

const (
	partTombstone partKind = iota
	partElement
	partDelimiter
)

// part is a slot in the inline arena. Matched or discarded entries become
// tombstones so indices stay stable during resolution.
type part struct {
	kind  partKind
	elt   Element
	delim InlineDelimiter
}

// InlineContext holds the state of parsing one run of inline content.
type InlineContext struct {
	parser *Parser
	text   string
	offset int
	parts  []part
}

func newInlineContext(parser *Parser, text string, offset int) *InlineContext {
	return &InlineContext{parser: parser, text: text, offset: offset}
}

// Text returns the content being parsed.
func (cx *InlineContext) Text() string {
	return cx.text
}

// Offset returns the document position of the first byte of the text.
func (cx *InlineContext) Offset() int {
	return cx.offset
}

// End returns the document position after the text.
func (cx *InlineContext) End() int {
	return cx.offset + len(cx.text)
}

// Char returns the byte at document position pos, or -1 outside the text.
func (cx *InlineContext) Char(pos int) int {
	if pos < cx.offset || pos >= cx.End() {
		return -1
	}
	return int(cx.text[pos-cx.offset])
}

// Slice returns the text between two document positions, clamped to the
// content.
func (cx *InlineContext) Slice(from, to int) string {
	from = min(max(from-cx.offset, 0), len(cx.text))
	to = min(max(to-cx.offset, from), len(cx.text))
	return cx.text[from:to]
}

// SkipSpace returns the first non-whitespace position at or after from.
func (cx *InlineContext) SkipSpace(from int) int {
	return skipSpace(cx.text, from-cx.offset) + cx.offset
}

// Append adds a finished element and returns its end.
func (cx *InlineContext) Append(e Element) int {
	cx.parts = append(cx.parts, part{kind: partElement, elt: e})
	return e.To
}

// AddDelimiter records a delimiter run and returns its end.
func (cx *InlineContext) AddDelimiter(typ *DelimiterType, from, to int, canOpen, canClose bool) int {
	side := MarkNone
	if canOpen {
		side |= MarkOpen
	}
	if canClose {
		side |= MarkClose
	}
	return cx.appendDelimiter(InlineDelimiter{Type: typ, From: from, To: to, Side: side})
}

func (cx *InlineContext) appendDelimiter(d InlineDelimiter) int {
	cx.parts = append(cx.parts, part{kind: partDelimiter, delim: d})
	return d.To
}

// HasOpenLink reports whether an unclosed link or image bracket precedes
// the current position.
func (cx *InlineContext) HasOpenLink() bool {
	for i := len(cx.parts) - 1; i >= 0; i-- {
		if p := cx.parts[i]; p.kind == partDelimiter && (p.delim.Type == LinkStart || p.delim.Type == ImageStart) {
			return true
		}
	}
	return false
}

// FindOpeningDelimiter returns the index of the last delimiter of the given
// type, or -1.
func (cx *InlineContext) FindOpeningDelimiter(typ *DelimiterType) int {
	for i := len(cx.parts) - 1; i >= 0; i-- {
		if p := cx.parts[i]; p.kind == partDelimiter && p.delim.Type == typ {
			return i
		}
	}
	return -1
}

// TakeContent resolves the parts from startIndex on and removes them,
// returning the resulting elements.
func (cx *InlineContext) TakeContent(startIndex int) []Element {
	content := cx.resolveMarkers(startIndex)
	cx.parts = cx.parts[:startIndex]
	return content
}

// Elt creates an element of a named node type. It panics on unknown names.
func (cx *InlineContext) Elt(name string, from, to int, children ...Element) Element {
	return Element{Type: cx.parser.mustNodeType(name), From: from, To: to, Children: children}
}

// emphasisSkip reports whether the rule of three forbids pairing an opener
// of length openLen with a closer of length closeLen, given that one of
// them can act on both sides.
func emphasisSkip(openLen, closeLen int) bool {
	return (openLen+closeLen)%3 == 0 && (openLen%3 != 0 || closeLen%3 != 0)
}

func (cx *InlineContext) resolveMarkers(from int) []Element {
	for i := from; i < len(cx.parts); i++ {
		if cx.parts[i].kind != partDelimiter {
			continue
		}
		closer := cx.parts[i].delim
		if closer.Type.Resolve == "" || closer.Side&MarkClose == 0 {
			continue
		}

		emp := closer.Type == EmphasisUnderscore || closer.Type == EmphasisAsterisk
		closeSize := closer.To - closer.From
		j := i - 1
		for ; j >= from; j-- {
			p := cx.parts[j]
			if p.kind != partDelimiter || p.delim.Side&MarkOpen == 0 || p.delim.Type != closer.Type {
				continue
			}
			bothSides := closer.Side&MarkOpen != 0 || p.delim.Side&MarkClose != 0
			if emp && bothSides && emphasisSkip(p.delim.To-p.delim.From, closeSize) {
				continue
			}
			break
		}
		if j < from {
			continue
		}
		opener := cx.parts[j].delim

		typName := closer.Type.Resolve
		start, end := opener.From, closer.To
		if emp {
			size := min(2, opener.To-opener.From, closeSize)
			start, end = opener.To-size, closer.From+size
			typName = "Emphasis"
			if size == 2 {
				typName = "StrongEmphasis"
			}
		}

		var content []Element
		if opener.Type.Mark != "" {
			content = append(content, cx.Elt(opener.Type.Mark, start, opener.To))
		}
		for k := j + 1; k < i; k++ {
			if cx.parts[k].kind == partElement {
				content = append(content, cx.parts[k].elt)
			}
			cx.parts[k] = part{}
		}
		if closer.Type.Mark != "" {
			content = append(content, cx.Elt(closer.Type.Mark, closer.From, end))
		}
		element := part{kind: partElement, elt: cx.Elt(typName, start, end, content...)}

		cx.parts[j] = part{}
		if emp && opener.From != start {
			cx.parts[j] = part{kind: partDelimiter, delim: InlineDelimiter{Type: opener.Type, From: opener.From, To: start, Side: opener.Side}}
		}
		if emp && closer.To != end {
			cx.parts[i] = part{kind: partDelimiter, delim: InlineDelimiter{Type: closer.Type, From: end, To: closer.To, Side: closer.Side}}
			cx.parts = slices.Insert(cx.parts, i, element)
		} else {
			cx.parts[i] = element
		}
	}

	var result []Element
	for _, p := range cx.parts[from:] {
		if p.kind == partElement {
			result = append(result, p.elt)
		}
	}
	return result
}

// ParseInline parses inline content starting at document position offset
// and returns the resulting elements.
func (p *Parser) ParseInline(text string, offset int) []Element {
	cx := newInlineContext(p, text, offset)
outer:
	for pos := offset; pos < cx.End(); {
		next := cx.Char(pos)
		for _, parse := range p.inlineParsers {
			if parse == nil {
				continue
			}
			if result := parse(cx, next, pos); result >= 0 {
				pos = result
				continue outer
			}
		}
		pos++
	}
	return cx.resolveMarkers(0)
}

// runeBefore and runeAfter return the character adjacent to a position as
// a string, or "" at the edges of the content.
func (cx *InlineContext) runeBefore(pos int) string {
	rel := pos - cx.offset
	if rel <= 0 || rel > len(cx.text) {
		return ""
	}
	_, size := utf8.DecodeLastRuneInString(cx.text[:rel])
	return cx.text[rel-size : rel]
}

func (cx *InlineContext) runeAfter(pos int) string {
	rel := pos - cx.offset
	if rel < 0 || rel >= len(cx.text) {
		return ""
	}
	_, size := utf8.DecodeRuneInString(cx.text[rel:])
	return cx.text[rel : rel+size]
}

// isPunctuation reports whether s holds a Unicode punctuation or symbol
// character.
func isPunctuation(s string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// isWhitespace reports whether s is empty or holds a Unicode space.
func isWhitespace(s string) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

// Flanking computes which sides a delimiter run between from and to can
// act on, following the left- and right-flanking rules. Underscore runs
// pass strict=true, which restricts intraword emphasis.
func (cx *InlineContext) Flanking(from, to int, strict bool) (canOpen, canClose bool) {
	before, after := cx.runeBefore(from), cx.runeAfter(to)
	pBefore, pAfter := isPunctuation(before), isPunctuation(after)
	sBefore, sAfter := isWhitespace(before), isWhitespace(after)
	leftFlanking := !sAfter && (!pAfter || sBefore || pBefore)
	rightFlanking := !sBefore && (!pBefore || sAfter || pAfter)
	canOpen = leftFlanking && (!strict || !rightFlanking || pBefore)
	canClose = rightFlanking && (!strict || !leftFlanking || pAfter)
	return canOpen, canClose
}
