package markdown

// Line is the line currently being parsed. It is reused and reset for
// every line the parser reads.
type Line struct {
	// Text is the line without its line break.
	Text string

	// BaseIndent is the column up to which enclosing contexts consumed
	// markup; BasePos is the matching string index.
	BaseIndent int
	BasePos    int

	// Depth is the number of open contexts the line continued.
	Depth int

	// Markers holds nodes (such as QuoteMark) produced while skipping
	// context markup.
	Markers []Element

	// Pos is the index of the first non-space character after BasePos.
	Pos int

	// Indent is the column of Pos.
	Indent int

	// Next is the byte at Pos, or -1 at the end of the line.
	Next int
}

// Forward moves Pos past whitespace when the base position moved past it.
func (l *Line) Forward() {
	if l.BasePos > l.Pos {
		l.forwardInner()
	}
}

func (l *Line) forwardInner() {
	newPos := l.SkipSpace(l.BasePos)
	l.Indent = l.CountIndent(newPos, l.Pos, l.Indent)
	l.Pos = newPos
	if newPos == len(l.Text) {
		l.Next = -1
	} else {
		l.Next = int(l.Text[newPos])
	}
}

// SkipSpace returns the index of the first non-whitespace byte at or after
// from.
func (l *Line) SkipSpace(from int) int {
	return skipSpace(l.Text, from)
}

func (l *Line) reset(text string) {
	l.Text = text
	l.BaseIndent, l.BasePos, l.Pos, l.Indent = 0, 0, 0, 0
	l.forwardInner()
	l.Depth = 1
	l.Markers = l.Markers[:0]
}

// MoveBase sets the base position to the given index.
func (l *Line) MoveBase(to int) {
	l.BasePos = to
	l.BaseIndent = l.CountIndent(to, l.Pos, l.Indent)
}

// MoveBaseColumn sets the base position to the given column.
func (l *Line) MoveBaseColumn(indent int) {
	l.BaseIndent = indent
	l.BasePos = l.FindColumn(indent)
}

// AddMarker records a marker node for the line.
func (l *Line) AddMarker(e Element) {
	l.Markers = append(l.Markers, e)
}

// CountIndent returns the column at index to, counting from index from
// at column indent. Tabs advance to the next multiple of 4.
func (l *Line) CountIndent(to, from, indent int) int {
	for i := from; i < to; i++ {
		if l.Text[i] == '\t' {
			indent += 4 - indent%4
		} else {
			indent++
		}
	}
	return indent
}

// FindColumn returns the index at which the given column is reached.
func (l *Line) FindColumn(goal int) int {
	i := 0
	for indent := 0; i < len(l.Text) && indent < goal; i++ {
		if l.Text[i] == '\t' {
			indent += 4 - indent%4
		} else {
			indent++
		}
	}
	return i
}

// Scrub returns the text with the consumed prefix replaced by spaces.
func (l *Line) Scrub() string {
	if l.BaseIndent == 0 {
		return l.Text
	}
	buf := make([]byte, 0, len(l.Text))
	for range l.BasePos {
		buf = append(buf, ' ')
	}
	return string(append(buf, l.Text[l.BasePos:]...))
}

func isSpace(ch int) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func skipSpace(text string, from int) int {
	for from < len(text) && isSpace(int(text[from])) {
		from++
	}
	return from
}

func skipSpaceBack(text string, i, to int) int {
	for i > to && isSpace(int(text[i-1])) {
		i--
	}
	return i
}

// charAt returns the byte at i, or -1 when i is out of range.
func charAt(text string, i int) int {
	if i < 0 || i >= len(text) {
		return -1
	}
	return int(text[i])
}
