package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/markdown"
)

const sample = "# A\n\npara one\nline two\n\n## B\n\n```\ncode\n```\n\n# C\n\n> q\n> r"

func TestRanges(t *testing.T) {
	t.Parallel()

	doc := markdown.Default().ParseString(sample)
	got := Ranges(doc, sample)

	want := []Range{
		{From: 3, To: 42, Kind: KindSection, Node: "ATXHeading1"},
		{From: 13, To: 22, Kind: KindBlock, Node: "Paragraph"},
		{From: 28, To: 42, Kind: KindSection, Node: "ATXHeading2"},
		{From: 33, To: 42, Kind: KindBlock, Node: "FencedCode"},
		{From: 47, To: 56, Kind: KindSection, Node: "ATXHeading1"},
		{From: 52, To: 56, Kind: KindBlock, Node: "Blockquote"},
		{From: 52, To: 56, Kind: KindBlock, Node: "Paragraph"},
	}
	assert.Equal(t, want, got)
}

func TestAt(t *testing.T) {
	t.Parallel()

	doc := markdown.Default().ParseString(sample)

	tests := []struct {
		name      string
		lineStart int
		want      Range
		ok        bool
	}{
		{"heading line", 0, Range{From: 3, To: 42, Kind: KindSection, Node: "ATXHeading1"}, true},
		{"fence line", 30, Range{From: 33, To: 42, Kind: KindBlock, Node: "FencedCode"}, true},
		{"quote prefers outer", 49, Range{From: 52, To: 56, Kind: KindBlock, Node: "Blockquote"}, true},
		{"blank line", 4, Range{}, false},
		{"last paragraph line", 14, Range{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := At(doc, sample, tt.lineStart)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSectionEnd_NestedLevels(t *testing.T) {
	t.Parallel()

	text := "## one\n\n### sub\n\ntext\n\n## two"
	doc := markdown.Default().ParseString(text)
	headings := markdown.Outline(doc, text)
	require.Len(t, headings, 3)

	assert.Equal(t, len("## one\n\n### sub\n\ntext"), SectionEnd(headings[0].Node, 2))
	assert.Equal(t, len("## one\n\n### sub\n\ntext"), SectionEnd(headings[1].Node, 3))
	assert.Equal(t, len(text), SectionEnd(headings[2].Node, 2))
}

func TestRanges_ListItems(t *testing.T) {
	t.Parallel()

	text := "- a\n  more\n- b"
	doc := markdown.Default().ParseString(text)
	got := Ranges(doc, text)

	// The list itself does not fold; its multi-line item and paragraph do.
	require.Len(t, got, 2)
	assert.Equal(t, "ListItem", got[0].Node)
	assert.Equal(t, Range{From: 3, To: 10, Kind: KindBlock, Node: "ListItem"}, got[0])
}
