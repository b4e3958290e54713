// Package highlight maps syntax tree nodes to highlighting tags through a
// declarative table, and renders tagged spans for the terminal.
package highlight

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Tag is a highlighting category. Themes assign styles to tags.
type Tag string

// Highlighting tags used by the Markdown table.
const (
	TagHeading1              Tag = "heading1"
	TagHeading2              Tag = "heading2"
	TagHeading3              Tag = "heading3"
	TagHeading4              Tag = "heading4"
	TagHeading5              Tag = "heading5"
	TagHeading6              Tag = "heading6"
	TagQuote                 Tag = "quote"
	TagContentSeparator      Tag = "contentSeparator"
	TagComment               Tag = "comment"
	TagEscape                Tag = "escape"
	TagCharacter             Tag = "character"
	TagEmphasis              Tag = "emphasis"
	TagStrong                Tag = "strong"
	TagLink                  Tag = "link"
	TagList                  Tag = "list"
	TagMonospace             Tag = "monospace"
	TagURL                   Tag = "url"
	TagProcessingInstruction Tag = "processingInstruction"
	TagLabelName             Tag = "labelName"
	TagString                Tag = "string"
	TagContent               Tag = "content"
	TagStrikethrough         Tag = "strikethrough"
	TagHeading               Tag = "heading"
	TagAtom                  Tag = "atom"
	TagSpecial               Tag = "special"
	TagHTML                  Tag = "html"
)

// Tags returns every tag in a fixed order.
func Tags() []Tag {
	return []Tag{
		TagHeading1, TagHeading2, TagHeading3, TagHeading4, TagHeading5, TagHeading6,
		TagQuote, TagContentSeparator, TagComment, TagEscape, TagCharacter, TagEmphasis,
		TagStrong, TagLink, TagList, TagMonospace, TagURL, TagProcessingInstruction,
		TagLabelName, TagString, TagContent, TagStrikethrough, TagHeading, TagAtom,
		TagSpecial, TagHTML,
	}
}

// ErrBadSelector is returned for malformed table selectors.
var ErrBadSelector = errors.New("bad highlight selector")

// inheritSuffix marks a selector whose tag also covers the node's
// descendants.
const inheritSuffix = "/..."

type rule struct {
	tag     Tag
	inherit bool
}

// Table maps node names to tags. Keys of the source map are selectors: a
// space-separated list of node names, each optionally suffixed with "/..."
// to apply the tag to the whole subtree.
type Table struct {
	rules map[string]rule
}

// NewTable compiles a selector map.
func NewTable(spec map[string]Tag) (*Table, error) {
	t := &Table{rules: make(map[string]rule)}
	keys := make([]string, 0, len(spec))
	for key := range spec {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		tag := spec[key]
		for _, sel := range strings.Fields(key) {
			name, inherit := strings.CutSuffix(sel, inheritSuffix)
			if name == "" || strings.ContainsAny(name, "/.") {
				return nil, fmt.Errorf("%w: %q", ErrBadSelector, sel)
			}
			if _, dup := t.rules[name]; dup {
				return nil, fmt.Errorf("%w: %q selected twice", ErrBadSelector, name)
			}
			t.rules[name] = rule{tag: tag, inherit: inherit}
		}
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
func MustTable(spec map[string]Tag) *Table {
	t, err := NewTable(spec)
	if err != nil {
		panic(err)
	}
	return t
}

// Extend returns a table with extra selectors. Names in spec replace
// existing rules.
func (t *Table) Extend(spec map[string]Tag) (*Table, error) {
	extra, err := NewTable(spec)
	if err != nil {
		return nil, err
	}
	merged := &Table{rules: make(map[string]rule, len(t.rules)+len(extra.rules))}
	for name, r := range t.rules {
		merged.rules[name] = r
	}
	for name, r := range extra.rules {
		merged.rules[name] = r
	}
	return merged, nil
}

// TagOf returns the tag a node name maps to, if any.
func (t *Table) TagOf(name string) (Tag, bool) {
	r, ok := t.rules[name]
	return r.tag, ok
}

// Markdown is the default table covering the CommonMark node types and
// the bundled extensions.
//
//nolint:gochecknoglobals // Immutable default table.
var Markdown = MustTable(map[string]Tag{
	"Blockquote/...":                       TagQuote,
	"HorizontalRule":                       TagContentSeparator,
	"ATXHeading1/... SetextHeading1/...":   TagHeading1,
	"ATXHeading2/... SetextHeading2/...":   TagHeading2,
	"ATXHeading3/...":                      TagHeading3,
	"ATXHeading4/...":                      TagHeading4,
	"ATXHeading5/...":                      TagHeading5,
	"ATXHeading6/...":                      TagHeading6,
	"Comment CommentBlock":                 TagComment,
	"Escape":                               TagEscape,
	"Entity Emoji":                         TagCharacter,
	"Emphasis/...":                         TagEmphasis,
	"StrongEmphasis/...":                   TagStrong,
	"Link/... Image/...":                   TagLink,
	"OrderedList/... BulletList/...":       TagList,
	"InlineCode CodeText":                  TagMonospace,
	"URL Autolink":                         TagURL,
	"HeaderMark HardBreak QuoteMark":       TagProcessingInstruction,
	"ListMark LinkMark EmphasisMark":       TagProcessingInstruction,
	"CodeMark TableDelimiter":              TagProcessingInstruction,
	"StrikethroughMark":                    TagProcessingInstruction,
	"SubscriptMark SuperscriptMark":        TagProcessingInstruction,
	"CodeInfo LinkLabel":                   TagLabelName,
	"LinkTitle":                            TagString,
	"Paragraph":                            TagContent,
	"Strikethrough/...":                    TagStrikethrough,
	"TableHeader/...":                      TagHeading,
	"TaskMarker":                           TagAtom,
	"Subscript Superscript":                TagSpecial,
	"HTMLBlock HTMLTag":                    TagHTML,
	"ProcessingInstruction":                TagHTML,
	"ProcessingInstructionBlock":           TagHTML,
})
