package markdown

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/tree"
)

func parseWith(t *testing.T, text string, exts ...Extension) *tree.Tree {
	t.Helper()
	p, err := New(exts...)
	require.NoError(t, err)
	return p.ParseString(text)
}

func TestParse_Blocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", "Document"},
		{"paragraph", "hello", "Document(Paragraph)"},
		{"two paragraphs", "a\n\nb", "Document(Paragraph,Paragraph)"},
		{"atx heading", "# Hi", "Document(ATXHeading1(HeaderMark))"},
		{"atx heading closed", "## Hi ##", "Document(ATXHeading2(HeaderMark,HeaderMark))"},
		{"seven hashes is text", "####### no", "Document(Paragraph)"},
		{"setext level 1", "Title\n=====", "Document(SetextHeading1(HeaderMark))"},
		{"setext level 2", "para\n---", "Document(SetextHeading2(HeaderMark))"},
		{"lone dashes are a rule", "---", "Document(HorizontalRule)"},
		{"stars break a paragraph", "para\n***", "Document(Paragraph,HorizontalRule)"},
		{
			"dashes after a quote are a rule",
			"> para\n---",
			"Document(Blockquote(QuoteMark,Paragraph),HorizontalRule)",
		},
		{
			"dashes after a list are a rule",
			"- a\n---",
			"Document(BulletList(ListItem(ListMark,Paragraph)),HorizontalRule)",
		},
		{"indented code", "    code\n    more", "Document(CodeBlock(CodeText,CodeText))"},
		{"fenced code", "```js\ncode\n```", "Document(FencedCode(CodeMark,CodeInfo,CodeText,CodeMark))"},
		{"unclosed fence", "~~~\na", "Document(FencedCode(CodeMark,CodeText))"},
		{"blockquote", "> a\n> b", "Document(Blockquote(QuoteMark,Paragraph(QuoteMark)))"},
		{
			"bullet list",
			"- a\n- b",
			"Document(BulletList(ListItem(ListMark,Paragraph),ListItem(ListMark,Paragraph)))",
		},
		{
			"ordered list",
			"1. a\n2. b",
			"Document(OrderedList(ListItem(ListMark,Paragraph),ListItem(ListMark,Paragraph)))",
		},
		{"html block", "<div>\nhi\n</div>", "Document(HTMLBlock)"},
		{"comment block", "<!-- note -->", "Document(CommentBlock)"},
		{"script block", "<script>\nvar a;\n</script>\npara", "Document(HTMLBlock,Paragraph)"},
		{"pre block keeps blank lines", "<pre>\n\ncode\n</pre>", "Document(HTMLBlock)"},
		{"style block on one line", "<style>p{}</style>", "Document(HTMLBlock)"},
		{"processing instruction", "<?php echo 1; ?>", "Document(ProcessingInstructionBlock)"},
		{"declaration", "<!DOCTYPE html>\npara", "Document(HTMLBlock,Paragraph)"},
		{"cdata", "<![CDATA[\nx\n]]>", "Document(HTMLBlock)"},
		{"html block ends at blank line", "<div>\nhi\n\npara", "Document(HTMLBlock,Paragraph)"},
		{"custom tag block", "<custom-tag>\nhi\n\npara", "Document(HTMLBlock,Paragraph)"},
		{"custom tag cannot interrupt a paragraph", "para\n<custom-tag>", "Document(Paragraph(HTMLTag))"},
		{"div interrupts a paragraph", "para\n<div>", "Document(Paragraph,HTMLBlock)"},
		{
			"quoted blank line ends html block",
			"> <div>\n>\n> para",
			"Document(Blockquote(QuoteMark,HTMLBlock,QuoteMark,QuoteMark,Paragraph))",
		},
		{"link reference", "[a]: /url \"title\"", "Document(LinkReference(LinkLabel,LinkMark,URL,LinkTitle))"},
		{"link reference without title", "[a]: /url", "Document(LinkReference(LinkLabel,LinkMark,URL))"},
		{"not a link reference", "[a] text", "Document(Paragraph)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseWith(t, tt.text).String()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Inline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"emphasis", "*a*", "Document(Paragraph(Emphasis(EmphasisMark,EmphasisMark)))"},
		{"strong", "**a**", "Document(Paragraph(StrongEmphasis(EmphasisMark,EmphasisMark)))"},
		{"rule of three", "*a**b*", "Document(Paragraph(Emphasis(EmphasisMark,EmphasisMark)))"},
		{"intraword underscore", "snake_case_name", "Document(Paragraph)"},
		{
			"two links",
			"[a](b)[c](d)",
			"Document(Paragraph(Link(LinkMark,LinkMark,LinkMark,URL,LinkMark),Link(LinkMark,LinkMark,LinkMark,URL,LinkMark)))",
		},
		{"link with title", "[a](b \"t\")", "Document(Paragraph(Link(LinkMark,LinkMark,LinkMark,URL,LinkTitle,LinkMark)))"},
		{"reference link", "[a][b]", "Document(Paragraph(Link(LinkMark,LinkMark,LinkLabel)))"},
		{"image", "![alt](src)", "Document(Paragraph(Image(LinkMark,LinkMark,LinkMark,URL,LinkMark)))"},
		{"inline code", "`x`", "Document(Paragraph(InlineCode(CodeMark,CodeMark)))"},
		{"escape", "\\*", "Document(Paragraph(Escape))"},
		{"entity", "&amp;", "Document(Paragraph(Entity))"},
		{"autolink", "<https://example.com>", "Document(Paragraph(Autolink(LinkMark,URL,LinkMark)))"},
		{"html tag", "a <b> c", "Document(Paragraph(HTMLTag))"},
		{"inline comment", "a <!-- c --> b", "Document(Paragraph(Comment))"},
		{"inline comment with dashes", "a <!-- x -- y --> b", "Document(Paragraph(Comment))"},
		{"empty inline comment", "a <!--> b", "Document(Paragraph(Comment))"},
		{"hard break", "a  \nb", "Document(Paragraph(HardBreak))"},
		{"code hides emphasis", "`*a*`", "Document(Paragraph(InlineCode(CodeMark,CodeMark)))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseWith(t, tt.text).String()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_NoNestedLinks(t *testing.T) {
	t.Parallel()

	doc := parseWith(t, "[[a]](b)")
	links := tree.FindByName(doc.TopNode(), "Link")
	require.Len(t, links, 1)
	assert.Nil(t, links[0].Parent().Ancestor("Link"))
	assert.Equal(t, tree.Range{From: 1, To: 4}, links[0].Range())
}

func TestParse_FencedCodeRanges(t *testing.T) {
	t.Parallel()

	text := "```js\ncode\n```"
	doc := parseWith(t, text)
	fence := doc.TopNode().FirstChild()
	require.NotNil(t, fence)

	info := fence.Child("CodeInfo")
	require.NotNil(t, info)
	assert.Equal(t, "js", text[info.From():info.To()])

	code := fence.Child("CodeText")
	require.NotNil(t, code)
	assert.Equal(t, "code", text[code.From():code.To()])
	assert.Equal(t, len(text), fence.To())
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	text := sampleDocument(4)
	first := parseWith(t, text, GFM)
	second := parseWith(t, text, GFM)
	if diff := cmp.Diff(first.Dump(), second.Dump()); diff != "" {
		t.Errorf("re-parse differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, len(text), first.Length())
}

func TestParse_Balanced(t *testing.T) {
	t.Parallel()

	text := sampleDocument(10)
	doc := parseWith(t, text)

	var check func(*tree.Tree)
	check = func(node *tree.Tree) {
		assert.LessOrEqual(t, node.ChildCount(), tree.BranchFactor, node.Type().Name)
		for i := range node.ChildCount() {
			child, _ := node.Child(i)
			check(child)
		}
	}
	check(doc)
	assert.Greater(t, len(doc.TopNode().Children()), tree.BranchFactor)
}

func TestParse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Default().Parse(ctx, tree.NewStringInput("a"), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Contains(t, err.Error(), "parse cancelled")
}

func TestParse_StopAt(t *testing.T) {
	t.Parallel()

	text := "a\n\nb\n\nc\n\nd"
	parse := Default().StartParse(tree.NewStringInput(text), nil, nil)
	require.NoError(t, parse.StopAt(4))

	pos, ok := parse.StoppedAt()
	assert.True(t, ok)
	assert.Equal(t, 4, pos)

	require.ErrorIs(t, parse.StopAt(6), ErrStopAtForward)
	require.NoError(t, parse.StopAt(3))

	var doc *tree.Tree
	for doc == nil {
		doc = parse.Advance()
	}
	assert.Equal(t, "Document(Paragraph,Paragraph)", doc.String())
}

func TestParse_Ranges(t *testing.T) {
	t.Parallel()

	text := "aaa\nbbb\nccc"
	doc, err := Default().Parse(context.Background(), tree.NewStringInput(text), nil,
		[]tree.Range{{From: 0, To: 3}, {From: 8, To: 11}})
	require.NoError(t, err)

	para := doc.TopNode().FirstChild()
	require.NotNil(t, para)
	assert.Equal(t, "Paragraph", para.Name())
	assert.Equal(t, tree.Range{From: 0, To: 11}, para.Range())
}

func TestParse_CordInput(t *testing.T) {
	t.Parallel()

	text := sampleDocument(3)
	want := parseWith(t, text).Dump()

	doc, err := Default().Parse(context.Background(), newCordInput(text), nil, nil)
	require.NoError(t, err)
	if diff := cmp.Diff(want, doc.Dump()); diff != "" {
		t.Errorf("cord input differs (-string +cord):\n%s", diff)
	}
}
