package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/tree"
)

func TestOutline(t *testing.T) {
	t.Parallel()

	text := "# Intro *fast*\n\ntext\n\nUsage `go`\n-----\n\n### Deep \\# dive ###\n\n> # quoted"
	doc := parseWith(t, text)
	headings := Outline(doc, text)

	require.Len(t, headings, 4)
	assert.Equal(t, Heading{Level: 1, Text: "Intro fast"}, withoutNode(headings[0]))
	assert.Equal(t, Heading{Level: 2, Text: "Usage go"}, withoutNode(headings[1]))
	assert.Equal(t, Heading{Level: 3, Text: "Deep # dive"}, withoutNode(headings[2]))
	assert.Equal(t, Heading{Level: 1, Text: "quoted"}, withoutNode(headings[3]))
	assert.Equal(t, tree.Range{From: 0, To: 14}, headings[0].Range())
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"link", "see [the docs](/d \"t\") now", "see the docs now"},
		{"image", "![alt text](a.png)", "alt text"},
		{"entity stays", "a &amp; b", "a &amp; b"},
		{"emphasis", "***both***", "both"},
		{"soft break", "one\ntwo", "one two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseWith(t, tt.text)
			para := doc.TopNode().FirstChild()
			require.NotNil(t, para)
			assert.Equal(t, tt.want, PlainText(para, tt.text))
		})
	}
}

func withoutNode(h Heading) Heading {
	h.Node = nil
	return h
}
