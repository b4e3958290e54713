package markdown

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	tableDelimiterLine = regexp.MustCompile(`^\|?(\s*:?-+:?\s*\|)+(\s*:?-+:?\s*)?$`)
	taskMarkerPattern  = regexp.MustCompile(`^\[[ xX]\][ \t]`)
)

// parseRow counts the cells of a table row starting at startI. When elts
// is non-nil, TableCell and TableDelimiter elements are appended to it,
// positioned by offset.
func parseRow(cx *BlockContext, line string, startI int, elts *[]Element, offset int) int {
	count, first := 0, true
	cellStart, cellEnd := -1, -1
	esc := false
	parseCell := func() {
		*elts = append(*elts, cx.Elt("TableCell", offset+cellStart, offset+cellEnd,
			cx.parser.ParseInline(line[cellStart:cellEnd], offset+cellStart)...))
	}
	for i := startI; i < len(line); i++ {
		next := line[i]
		switch {
		case next == '|' && !esc:
			if !first || cellStart > -1 {
				count++
			}
			first = false
			if elts != nil {
				if cellStart > -1 {
					parseCell()
				}
				*elts = append(*elts, cx.Elt("TableDelimiter", i+offset, i+offset+1))
			}
			cellStart, cellEnd = -1, -1
		case esc || (next != ' ' && next != '\t'):
			if cellStart < 0 {
				cellStart = i
			}
			cellEnd = i + 1
		}
		esc = !esc && next == '\\'
	}
	if cellStart > -1 {
		count++
		if elts != nil {
			parseCell()
		}
	}
	return count
}

// hasPipe reports whether str contains an unescaped '|' at or after start.
func hasPipe(str string, start int) bool {
	for i := start; i < len(str); i++ {
		switch str[i] {
		case '|':
			return true
		case '\\':
			i++
		}
	}
	return false
}

type tableState int

const (
	tablePending tableState = iota
	tableRejected
	tableAccepted
)

// tableParser follows a paragraph whose first line contains a pipe. The
// second line decides: a delimiter row with the same number of cells
// turns the paragraph into a table.
type tableParser struct {
	state tableState
	rows  []Element
}

func (t *tableParser) NextLine(cx *BlockContext, line *Line, leaf *LeafBlock) bool {
	switch t.state {
	case tablePending:
		t.state = tableRejected
		if line.Next != '-' && line.Next != ':' && line.Next != '|' {
			return false
		}
		if !tableDelimiterLine.MatchString(line.Text[line.Pos:]) {
			return false
		}
		var firstRow []Element
		firstCount := parseRow(cx, leaf.Content, 0, &firstRow, leaf.Start)
		if firstCount == parseRow(cx, line.Text, line.Pos, nil, 0) {
			t.state = tableAccepted
			t.rows = []Element{
				cx.Elt("TableHeader", leaf.Start, leaf.Start+len(leaf.Content), firstRow...),
				cx.Elt("TableDelimiter", cx.lineStart+line.Pos, cx.lineStart+len(line.Text)),
			}
		}
	case tableAccepted:
		var content []Element
		parseRow(cx, line.Text, line.Pos, &content, cx.lineStart)
		t.rows = append(t.rows, cx.Elt("TableRow", cx.lineStart+line.Pos, cx.lineStart+len(line.Text), content...))
	case tableRejected:
	}
	return false
}

func (t *tableParser) Finish(cx *BlockContext, leaf *LeafBlock) bool {
	if t.state != tableAccepted {
		return false
	}
	cx.AddLeafElement(leaf, cx.Elt("Table", leaf.Start, leaf.Start+len(leaf.Content), t.rows...))
	return true
}

func tableEndLeaf(cx *BlockContext, line *Line, leaf *LeafBlock) bool {
	for _, lp := range leaf.parsers {
		if _, ok := lp.(*tableParser); ok {
			return false
		}
	}
	if !hasPipe(line.Text, line.BasePos) {
		return false
	}
	next := cx.PeekLine()
	return tableDelimiterLine.MatchString(next) &&
		parseRow(cx, line.Text, line.BasePos, nil, 0) == parseRow(cx, next, line.BasePos, nil, 0)
}

// taskParser turns a list item paragraph starting with "[ ]" or "[x]" into
// a Task.
type taskParser struct{}

func (taskParser) NextLine(*BlockContext, *Line, *LeafBlock) bool {
	return false
}

func (taskParser) Finish(cx *BlockContext, leaf *LeafBlock) bool {
	children := append(
		[]Element{cx.Elt("TaskMarker", leaf.Start, leaf.Start+3)},
		cx.parser.ParseInline(leaf.Content[3:], leaf.Start+3)...,
	)
	cx.AddLeafElement(leaf, cx.Elt("Task", leaf.Start, leaf.Start+len(leaf.Content), children...))
	return true
}

//nolint:gochecknoglobals // Delimiter types are compared by identity.
var strikethroughDelim = &DelimiterType{Resolve: "Strikethrough", Mark: "StrikethroughMark"}

func parseStrikethrough(cx *InlineContext, next, pos int) int {
	if next != '~' || cx.Char(pos+1) != '~' || cx.Char(pos+2) == '~' {
		return -1
	}
	canOpen, canClose := cx.Flanking(pos, pos+2, false)
	return cx.AddDelimiter(strikethroughDelim, pos, pos+2, canOpen, canClose)
}

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	autolinkStart      = regexp.MustCompile(`^(?:(www\.)|(https?://)|([\w.+-]{1,100}@)|(mailto:|xmpp:))`)
	autolinkURL        = regexp.MustCompile(`^[\w-]+(?:\.[\w-]+)+(?:/[^\s<]*)?`)
	lastTwoDomainWords = regexp.MustCompile(`[\w-]+\.[\w-]+(?:$|/)`)
	autolinkEmail      = regexp.MustCompile(`^[\w.+-]+@[\w-]+(?:\.[\w.-]+)+`)
	xmppResource       = regexp.MustCompile(`^/[a-zA-Z\d@.]+`)
	trailingEntity     = regexp.MustCompile(`&(?:#\d+|#x[a-fA-F\d]+|\w+);$`)
	noBracketPrefix    = regexp.MustCompile(`^(?:[^\[\]]|\[[^\]]*\])*`)
)

func autolinkURLEnd(text string, from int) int {
	m := autolinkURL.FindString(text[from:])
	if m == "" || strings.Contains(lastTwoDomainWords.FindString(m), "_") {
		return -1
	}
	end := from + len(m)
	for end > from {
		last := text[end-1]
		if strings.IndexByte("?!.,:*_~", last) >= 0 ||
			(last == ')' && strings.Count(text[from:end], ")") > strings.Count(text[from:end], "(")) {
			end--
			continue
		}
		if last == ';' {
			if loc := trailingEntity.FindStringIndex(text[from:end]); loc != nil {
				end = from + loc[0]
				continue
			}
		}
		break
	}
	return end
}

func autolinkEmailEnd(text string, from int) int {
	m := autolinkEmail.FindString(text[from:])
	if m == "" {
		return -1
	}
	switch m[len(m)-1] {
	case '_', '-':
		return -1
	case '.':
		return from + len(m) - 1
	default:
		return from + len(m)
	}
}

func isWordByte(ch byte) bool {
	return ch == '_' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

// parseAutolink recognizes bare URLs (www., http://, https://) and email
// addresses in text.
func parseAutolink(cx *InlineContext, _ int, absPos int) int {
	pos := absPos - cx.offset
	if pos > 0 && isWordByte(cx.text[pos-1]) {
		return -1
	}
	m := autolinkStart.FindStringSubmatchIndex(cx.text[pos:])
	if m == nil {
		return -1
	}
	matchLen := m[1]
	end := -1
	switch {
	case m[2] >= 0 || m[4] >= 0:
		end = autolinkURLEnd(cx.text, pos+matchLen)
		if end > -1 && cx.HasOpenLink() {
			end = pos + len(noBracketPrefix.FindString(cx.text[pos:end]))
		}
	case m[6] >= 0:
		end = autolinkEmailEnd(cx.text, pos)
	default:
		end = autolinkEmailEnd(cx.text, pos+matchLen)
		if end > -1 && cx.text[pos:pos+matchLen] == "xmpp:" {
			if res := xmppResource.FindString(cx.text[end:]); res != "" {
				end += len(res)
			}
		}
	}
	if end < 0 {
		return -1
	}
	return cx.Append(cx.Elt("URL", absPos, end+cx.offset))
}

// Extensions for GitHub Flavored Markdown.
//
//nolint:gochecknoglobals // Extensions are immutable values.
var (
	// Table adds pipe tables.
	Table = Extension{
		Name: "table",
		DefineNodes: []NodeSpec{
			{Name: "Table", Block: true},
			{Name: "TableHeader"},
			{Name: "TableRow"},
			{Name: "TableCell"},
			{Name: "TableDelimiter"},
		},
		ParseBlock: []BlockParserSpec{{
			Name: "Table",
			Leaf: func(_ *BlockContext, leaf *LeafBlock) LeafBlockParser {
				if !hasPipe(leaf.Content, 0) {
					return nil
				}
				return &tableParser{}
			},
			EndLeaf: tableEndLeaf,
			Before:  "SetextHeading",
		}},
	}

	// TaskList adds "[ ]" and "[x]" markers to list items.
	TaskList = Extension{
		Name: "tasklist",
		DefineNodes: []NodeSpec{
			{Name: "Task", Block: true},
			{Name: "TaskMarker"},
		},
		ParseBlock: []BlockParserSpec{{
			Name: "TaskList",
			Leaf: func(cx *BlockContext, leaf *LeafBlock) LeafBlockParser {
				if !taskMarkerPattern.MatchString(leaf.Content) || cx.ParentType(cx.Depth()-1).Name != "ListItem" {
					return nil
				}
				return taskParser{}
			},
			After: "SetextHeading",
		}},
	}

	// Strikethrough adds ~~deleted~~ text.
	Strikethrough = Extension{
		Name: "strikethrough",
		DefineNodes: []NodeSpec{
			{Name: "Strikethrough"},
			{Name: "StrikethroughMark"},
		},
		ParseInline: []InlineParserSpec{{
			Name:  "Strikethrough",
			Parse: parseStrikethrough,
			After: "Emphasis",
		}},
	}

	// GFMAutolink marks bare URLs and email addresses.
	GFMAutolink = Extension{
		Name: "autolink",
		ParseInline: []InlineParserSpec{{
			Name:  "Autolink",
			Parse: parseAutolink,
		}},
	}

	// GFM bundles Table, TaskList, Strikethrough and GFMAutolink.
	GFM = Extension{
		Name:       "gfm",
		Extensions: []Extension{Table, TaskList, Strikethrough, GFMAutolink},
	}
)
