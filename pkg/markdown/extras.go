package markdown

import "regexp"

// parseSubSuper returns an inline parser for a construct delimited by a
// single ch on both sides, without whitespace inside.
func parseSubSuper(ch int, node, mark string) InlineParseFunc {
	return func(cx *InlineContext, next, pos int) int {
		if next != ch || cx.Char(pos+1) == ch {
			return -1
		}
		elts := []Element{cx.Elt(mark, pos, pos+1)}
		for i := pos + 1; i < cx.End(); i++ {
			c := cx.Char(i)
			if c == ch {
				elts = append(elts, cx.Elt(mark, i, i+1))
				return cx.Append(cx.Elt(node, pos, i+1, elts...))
			}
			if c == '\\' {
				elts = append(elts, elt(Escape, i, i+2))
				i++
			}
			if isSpace(c) {
				break
			}
		}
		return -1
	}
}

//nolint:gochecknoglobals // Compiled pattern is read-only.
var emojiPattern = regexp.MustCompile(`^[a-zA-Z_0-9]+:`)

func parseEmoji(cx *InlineContext, next, pos int) int {
	if next != ':' {
		return -1
	}
	m := emojiPattern.FindString(cx.Slice(pos+1, cx.End()))
	if m == "" {
		return -1
	}
	return cx.Append(cx.Elt("Emoji", pos, pos+1+len(m)))
}

//nolint:gochecknoglobals // Extensions are immutable values.
var (
	// Superscript adds ^superscript^ text.
	Superscript = Extension{
		Name: "superscript",
		DefineNodes: []NodeSpec{
			{Name: "Superscript"},
			{Name: "SuperscriptMark"},
		},
		ParseInline: []InlineParserSpec{{
			Name:  "Superscript",
			Parse: parseSubSuper('^', "Superscript", "SuperscriptMark"),
		}},
	}

	// Subscript adds ~subscript~ text.
	Subscript = Extension{
		Name: "subscript",
		DefineNodes: []NodeSpec{
			{Name: "Subscript"},
			{Name: "SubscriptMark"},
		},
		ParseInline: []InlineParserSpec{{
			Name:  "Subscript",
			Parse: parseSubSuper('~', "Subscript", "SubscriptMark"),
		}},
	}

	// Emoji marks :shortcode: emoji.
	Emoji = Extension{
		Name:        "emoji",
		DefineNodes: []NodeSpec{{Name: "Emoji"}},
		ParseInline: []InlineParserSpec{{
			Name:  "Emoji",
			Parse: parseEmoji,
		}},
	}
)
