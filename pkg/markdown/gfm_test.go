package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/tree"
)

func TestExtensions_Trees(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		exts []Extension
		text string
		want string
	}{
		{
			name: "table",
			exts: []Extension{Table},
			text: "| a | b |\n| - | - |\n| 1 | 2 |",
			want: "Document(Table(TableHeader(TableDelimiter,TableCell,TableDelimiter,TableCell,TableDelimiter)," +
				"TableDelimiter,TableRow(TableDelimiter,TableCell,TableDelimiter,TableCell,TableDelimiter)))",
		},
		{
			name: "table needs matching delimiter row",
			exts: []Extension{Table},
			text: "| a | b |\n| - |\n| 1 | 2 |",
			want: "Document(Paragraph)",
		},
		{
			name: "table disabled",
			text: "| a | b |\n| - | - |",
			want: "Document(Paragraph)",
		},
		{
			name: "task list",
			exts: []Extension{TaskList},
			text: "- [ ] todo\n- [x] done",
			want: "Document(BulletList(ListItem(ListMark,Task(TaskMarker)),ListItem(ListMark,Task(TaskMarker))))",
		},
		{
			name: "task marker outside list",
			exts: []Extension{TaskList},
			text: "[ ] not a task",
			want: "Document(Paragraph)",
		},
		{
			name: "strikethrough",
			exts: []Extension{Strikethrough},
			text: "~~gone~~",
			want: "Document(Paragraph(Strikethrough(StrikethroughMark,StrikethroughMark)))",
		},
		{
			name: "single tilde is not strikethrough",
			exts: []Extension{Strikethrough},
			text: "a ~gone~ b",
			want: "Document(Paragraph)",
		},
		{
			name: "bare url",
			exts: []Extension{GFMAutolink},
			text: "see https://example.com/path now",
			want: "Document(Paragraph(URL))",
		},
		{
			name: "www url",
			exts: []Extension{GFMAutolink},
			text: "www.example.com",
			want: "Document(Paragraph(URL))",
		},
		{
			name: "email",
			exts: []Extension{GFMAutolink},
			text: "mail me@example.com",
			want: "Document(Paragraph(URL))",
		},
		{
			name: "superscript",
			exts: []Extension{Superscript},
			text: "2^10^",
			want: "Document(Paragraph(Superscript(SuperscriptMark,SuperscriptMark)))",
		},
		{
			name: "subscript",
			exts: []Extension{Subscript},
			text: "H~2~O",
			want: "Document(Paragraph(Subscript(SubscriptMark,SubscriptMark)))",
		},
		{
			name: "subscript stops at space",
			exts: []Extension{Subscript},
			text: "a~b c~",
			want: "Document(Paragraph)",
		},
		{
			name: "emoji",
			exts: []Extension{Emoji},
			text: "hi :smile:",
			want: "Document(Paragraph(Emoji))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseWith(t, tt.text, tt.exts...).String()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGFM_Bundle(t *testing.T) {
	t.Parallel()

	p, err := New(GFM)
	require.NoError(t, err)

	assert.Equal(t, []string{"table", "tasklist", "strikethrough", "autolink", "gfm"}, p.Extensions())
	assert.Contains(t, p.BlockParserNames(), "Table")
	assert.Contains(t, p.BlockParserNames(), "TaskList")
	assert.Contains(t, p.InlineParserNames(), "Strikethrough")
	assert.Contains(t, p.InlineParserNames(), "Autolink")

	for _, name := range []string{"Table", "TableCell", "Task", "TaskMarker", "Strikethrough", "StrikethroughMark"} {
		_, err := p.NodeType(name)
		assert.NoError(t, err, name)
	}
}

func TestTable_CellText(t *testing.T) {
	t.Parallel()

	text := "| name | value |\n| ---- | ----: |\n| x | 1 |"
	doc := parseWith(t, text, Table)

	var cells []string
	for _, cell := range tree.FindByName(doc.TopNode(), "TableCell") {
		cells = append(cells, text[cell.From():cell.To()])
	}
	assert.Equal(t, []string{"name", "value", "x", "1"}, cells)
}

func TestTable_InlineContent(t *testing.T) {
	t.Parallel()

	doc := parseWith(t, "| *a* | b |\n| - | - |", Table)
	cell := tree.FindFirst(doc.TopNode(), func(n *tree.Node) bool { return n.Name() == "TableCell" })
	require.NotNil(t, cell)
	require.NotNil(t, cell.Child("Emphasis"))
}

func TestAutolink_TrailingPunctuation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"visit www.example.com.", "www.example.com"},
		{"(see https://example.com/a)", "https://example.com/a"},
		{"https://example.com/a_(b)", "https://example.com/a_(b)"},
		{"go to https://example.com/?q=1&amp;", "https://example.com/?q=1"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			doc := parseWith(t, tt.text, GFMAutolink)
			urls := tree.FindByName(doc.TopNode(), "URL")
			require.Len(t, urls, 1)
			assert.Equal(t, tt.want, tt.text[urls[0].From():urls[0].To()])
		})
	}
}
