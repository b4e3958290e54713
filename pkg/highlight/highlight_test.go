package highlight

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/markdown"
)

func TestNewTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    map[string]Tag
		wantErr bool
	}{
		{"plain names", map[string]Tag{"A B": TagLink}, false},
		{"inherit", map[string]Tag{"A/...": TagLink}, false},
		{"path selector", map[string]Tag{"A/B": TagLink}, true},
		{"bare suffix", map[string]Tag{"/...": TagLink}, true},
		{"duplicate", map[string]Tag{"A": TagLink, "B A": TagURL}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewTable(tt.spec)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadSelector)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTable_Extend(t *testing.T) {
	t.Parallel()

	ext, err := Markdown.Extend(map[string]Tag{"Paragraph": TagQuote, "Custom/...": TagAtom})
	require.NoError(t, err)

	tag, ok := ext.TagOf("Paragraph")
	require.True(t, ok)
	assert.Equal(t, TagQuote, tag)

	tag, _ = Markdown.TagOf("Paragraph")
	assert.Equal(t, TagContent, tag)

	_, ok = ext.TagOf("Custom")
	assert.True(t, ok)
}

func TestHighlight_Emphasis(t *testing.T) {
	t.Parallel()

	doc := markdown.Default().ParseString("*a*")
	spans := Highlight(doc, Markdown, 0, 0)

	assert.Equal(t, []Span{
		{From: 0, To: 1, Tags: []Tag{TagEmphasis, TagProcessingInstruction}},
		{From: 1, To: 2, Tags: []Tag{TagEmphasis}},
		{From: 2, To: 3, Tags: []Tag{TagEmphasis, TagProcessingInstruction}},
	}, spans)
}

func TestHighlight_Heading(t *testing.T) {
	t.Parallel()

	text := "# Title\n\nplain"
	doc := markdown.Default().ParseString(text)
	spans := Highlight(doc, Markdown, 0, 0)

	require.Len(t, spans, 3)
	assert.Equal(t, Span{From: 0, To: 1, Tags: []Tag{TagHeading1, TagProcessingInstruction}}, spans[0])
	assert.Equal(t, Span{From: 1, To: 7, Tags: []Tag{TagHeading1}}, spans[1])
	assert.Equal(t, Span{From: 9, To: 14, Tags: []Tag{TagContent}}, spans[2])
}

func TestHighlight_Range(t *testing.T) {
	t.Parallel()

	text := "# Title\n\nsome `code` here"
	doc := markdown.Default().ParseString(text)
	spans := Highlight(doc, Markdown, 14, 20)

	for _, span := range spans {
		assert.GreaterOrEqual(t, span.From, 14)
		assert.LessOrEqual(t, span.To, 20)
	}
	require.Len(t, spans, 3)
	assert.Equal(t, Span{From: 15, To: 19, Tags: []Tag{TagMonospace}}, spans[1])
	assert.True(t, spans[0].Has(TagProcessingInstruction))
}

func TestHighlight_Extensions(t *testing.T) {
	t.Parallel()

	p, err := markdown.New(markdown.Strikethrough)
	require.NoError(t, err)
	doc := p.ParseString("~~x~~")
	spans := Highlight(doc, Markdown, 0, 0)

	require.Len(t, spans, 3)
	assert.True(t, spans[1].Has(TagStrikethrough))
	assert.True(t, spans[0].Has(TagProcessingInstruction))
}

func TestRender_PlainProfile(t *testing.T) {
	t.Parallel()

	text := "# Title\n\n- *item*\n\tcode"
	doc := markdown.Default().ParseString(text)
	spans := Highlight(doc, Markdown, 0, 0)

	// Tests run without a terminal, so styles render as plain text.
	assert.Equal(t, text, Render(text, spans, DefaultTheme(), 0, len(text)))
	assert.Equal(t, "Title", Render(text, spans, DefaultTheme(), 2, 7))
}

func TestTheme_Style(t *testing.T) {
	t.Parallel()

	th := NewTheme().
		Set(TagStrong, lipgloss.NewStyle().Bold(true)).
		Set(TagLink, lipgloss.NewStyle().Foreground(lipgloss.Color("14")))

	style := th.Style([]Tag{TagStrong, TagLink, TagContent})
	assert.True(t, style.GetBold())
	assert.Equal(t, lipgloss.Color("14"), style.GetForeground())

	colored, err := th.WithColors(map[string]string{"link": "9"})
	require.NoError(t, err)
	assert.Equal(t, lipgloss.Color("9"), colored.Style([]Tag{TagLink}).GetForeground())
	assert.Equal(t, lipgloss.Color("14"), th.Style([]Tag{TagLink}).GetForeground())

	_, err = th.WithColors(map[string]string{"nope": "9"})
	require.Error(t, err)
}

func TestTags_AllKnown(t *testing.T) {
	t.Parallel()

	tags := Tags()
	assert.Len(t, tags, 26)
	for _, tag := range tags {
		assert.True(t, knownTag(tag), tag)
	}
	assert.False(t, knownTag(Tag("nope")))
}
