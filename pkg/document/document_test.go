package document_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/document"
	"github.com/yaklabco/mdtree/pkg/edit"
	"github.com/yaklabco/mdtree/pkg/markdown"
)

func sample(sections int) string {
	var sb strings.Builder
	for i := range sections {
		fmt.Fprintf(&sb, "## Section %d\n\nParagraph %d with *emphasis* and `code`.\n\n- item a\n- item b\n\n", i, i)
	}
	return sb.String()
}

func TestNew(t *testing.T) {
	t.Parallel()

	doc, err := document.New(context.Background(), markdown.Default(), "# Hi\n")
	require.NoError(t, err)

	assert.Equal(t, "# Hi\n", doc.Text())
	assert.Equal(t, 5, doc.Len())
	assert.Equal(t, 1, doc.Version())
	assert.False(t, doc.Stats().Incremental)
	assert.Equal(t, "Document(ATXHeading1(HeaderMark))", doc.Tree().String())
}

func TestApply_MatchesFreshParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edits []edit.TextEdit
	}{
		{"insert in paragraph", edit.NewBuilder().Insert(strings.Index(sample(30), "Paragraph 15")+9, "x").Edits},
		{"delete heading mark", edit.NewBuilder().Delete(0, 3).Edits},
		{"open fence", edit.NewBuilder().Insert(strings.Index(sample(30), "## Section 20"), "```\n").Edits},
		{"two edits", edit.NewBuilder().Insert(len(sample(30)), "tail\n").Replace(3, 10, "Intro").Edits},
		{"append", edit.NewBuilder().Insert(len(sample(30)), "> quote\n").Edits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text := sample(30)
			doc, err := document.New(context.Background(), markdown.Default(), text)
			require.NoError(t, err)

			require.NoError(t, doc.Apply(context.Background(), tt.edits))
			want, err := edit.Apply(text, tt.edits)
			require.NoError(t, err)

			assert.Equal(t, want, doc.Text())
			assert.Equal(t, 2, doc.Version())
			fresh := markdown.Default().ParseString(want)
			if diff := cmp.Diff(fresh.Dump(), doc.Tree().Dump()); diff != "" {
				t.Fatalf("incremental tree differs (-fresh +incremental):\n%s", diff)
			}
		})
	}
}

func TestApply_ReusesMostOfTheDocument(t *testing.T) {
	t.Parallel()

	text := sample(50)
	doc, err := document.New(context.Background(), markdown.Default(), text)
	require.NoError(t, err)

	pos := strings.Index(text, "Paragraph 25") + len("Paragraph ")
	require.NoError(t, doc.Apply(context.Background(), []edit.TextEdit{{From: pos, To: pos, Insert: "7"}}))

	stats := doc.Stats()
	assert.True(t, stats.Incremental)
	assert.Equal(t, len(text)+1, stats.Total)
	assert.Greater(t, stats.Ratio(), 0.6)
}

func TestApply_Deletions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edits []edit.TextEdit
		want  string
		tree  string
	}{
		{
			name:  "two ranges",
			edits: []edit.TextEdit{{From: 6, To: 12}, {From: 16, To: 17}},
			want:  "# a\n\nhorld",
			tree:  "Document(ATXHeading1(HeaderMark),Paragraph)",
		},
		{
			name:  "replace inside deletion",
			edits: []edit.TextEdit{{From: 5, To: 10, Insert: "bye"}},
			want:  "# a\n\nbye world\n",
			tree:  "Document(ATXHeading1(HeaderMark),Paragraph)",
		},
		{
			name:  "head",
			edits: []edit.TextEdit{{From: 0, To: 5}},
			want:  "hello world\n",
			tree:  "Document(Paragraph)",
		},
		{
			name:  "everything",
			edits: []edit.TextEdit{{From: 0, To: 18}},
			want:  "",
			tree:  "Document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := document.New(context.Background(), markdown.Default(), "# a\n\nhello world\n")
			require.NoError(t, err)

			require.NoError(t, doc.Apply(context.Background(), tt.edits))
			assert.Equal(t, tt.want, doc.Text())
			assert.Equal(t, len(tt.want), doc.Len())
			assert.Equal(t, tt.tree, doc.Tree().String())
		})
	}
}

func TestApply_InvalidEditLeavesDocument(t *testing.T) {
	t.Parallel()

	doc, err := document.New(context.Background(), markdown.Default(), "abc")
	require.NoError(t, err)
	before := doc.Tree()

	err = doc.Apply(context.Background(), []edit.TextEdit{{From: 2, To: 9}})
	require.Error(t, err)
	assert.Equal(t, "abc", doc.Text())
	assert.Same(t, before, doc.Tree())
	assert.Equal(t, 1, doc.Version())
}

func TestApply_EmptyDocument(t *testing.T) {
	t.Parallel()

	doc, err := document.New(context.Background(), markdown.Default(), "")
	require.NoError(t, err)

	require.NoError(t, doc.Apply(context.Background(), []edit.TextEdit{{Insert: "- a"}}))
	assert.Equal(t, "- a", doc.Text())
	assert.Equal(t, "Document(BulletList(ListItem(ListMark,Paragraph)))", doc.Tree().String())

	require.NoError(t, doc.Apply(context.Background(), []edit.TextEdit{{From: 0, To: 3}}))
	assert.Empty(t, doc.Text())
}

func TestUpdate_Incremental(t *testing.T) {
	t.Parallel()

	text := sample(30)
	doc, err := document.New(context.Background(), markdown.Default(), text)
	require.NoError(t, err)

	next := strings.Replace(text, "Paragraph 12", "Paragraph twelve", 1)
	require.NoError(t, doc.Update(context.Background(), next))

	assert.Equal(t, next, doc.Text())
	assert.True(t, doc.Stats().Incremental)
	assert.Greater(t, doc.Stats().Ratio(), 0.6)
	fresh := markdown.Default().ParseString(next)
	assert.Empty(t, cmp.Diff(fresh.Dump(), doc.Tree().Dump()))

	version := doc.Version()
	require.NoError(t, doc.Update(context.Background(), next))
	assert.Equal(t, version, doc.Version(), "unchanged text does not reparse")
}

func TestSet_CancelledContext(t *testing.T) {
	t.Parallel()

	doc, err := document.New(context.Background(), markdown.Default(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, doc.Set(ctx, "b"), context.Canceled)
	assert.Equal(t, "a", doc.Text())
}

func TestSharedBytes(t *testing.T) {
	t.Parallel()

	p := markdown.Default()
	a := p.ParseString("# A\n\ntext\n")
	assert.Equal(t, 0, document.SharedBytes(a, p.ParseString("# A\n\ntext\n")))
	// The top node is never counted; heading and paragraph are.
	assert.Equal(t, len("# A")+len("text"), document.SharedBytes(a, a))
}
