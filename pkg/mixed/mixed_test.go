package mixed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/mixed"
	"github.com/yaklabco/mdtree/pkg/tree"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := mixed.NewRegistry()
	p := mixed.SubParserFunc(func(_, code string) (*tree.Tree, error) { return nil, nil })
	require.NoError(t, reg.Register("Mermaid", p, "mmd"))

	_, ok := reg.Lookup("mermaid")
	assert.True(t, ok)
	_, ok = reg.Lookup(" MMD ")
	assert.True(t, ok)
	_, ok = reg.Lookup("go")
	assert.False(t, ok, "no fallback registered")

	err := reg.Register("other", p, "mermaid")
	require.ErrorIs(t, err, mixed.ErrDuplicateSelector)
	_, ok = reg.Lookup("other")
	assert.False(t, ok, "failed registration must not add any name")

	reg.SetFallback(mixed.CodeParser())
	_, ok = reg.Lookup("go")
	assert.True(t, ok)
}

func TestHTMLParser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want string
	}{
		{
			name: "element with attribute",
			code: `<div class="a">hi<br><!-- c --></div>`,
			want: "HTML[0..37](Element[0..37](Attribute[5..14],Text[15..17],Element[17..21],Comment[21..31]))",
		},
		{
			name: "unclosed element",
			code: "<p>a",
			want: "HTML[0..4](Element[0..4](Text[3..4]))",
		},
		{
			name: "end tag closes inner elements",
			code: "<b><i>x</b>",
			want: "HTML[0..11](Element[0..11](Element[3..11](Text[6..7])))",
		},
		{
			name: "stray end tag",
			code: "</span>",
			want: "HTML[0..7]",
		},
		{
			name: "unquoted and bare attributes",
			code: "<input type=text disabled>",
			want: "HTML[0..26](Element[0..26](Attribute[7..16],Attribute[17..25]))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := mixed.HTMLParser().Parse("html", tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Dump())
		})
	}
}

func TestCodeParser(t *testing.T) {
	t.Parallel()

	p := mixed.CodeParser()

	got, err := p.Parse("golang", "x := 1")
	require.NoError(t, err)
	assert.Equal(t, "go", got.Type().Name)
	assert.True(t, got.Type().InGroup(mixed.GroupCode))
	assert.Equal(t, 6, got.Length())

	got, err = p.Parse("", "package main\n")
	require.NoError(t, err)
	assert.Equal(t, "go", got.Type().Name)

	again, err := p.Parse("go", "package x\n")
	require.NoError(t, err)
	assert.Same(t, got.Type(), again.Type(), "node types are cached per language")
}

const mixedDoc = "```go\npackage main\n```\n\n<div>x</div>\n"

func TestWrap_AttachesMounts(t *testing.T) {
	t.Parallel()

	p := markdown.Default().MustConfigure(mixed.Extension(mixed.DefaultRegistry()))
	doc := p.ParseString(mixedDoc)

	mounts := doc.Mounts()
	require.Len(t, mounts, 2)

	assert.Equal(t, "FencedCode", mounts[0].Host)
	assert.Equal(t, "go", mounts[0].Selector)
	assert.Equal(t, "go", mounts[0].Tree.Type().Name)
	assert.Equal(t, []tree.Range{{From: 6, To: 18}}, mounts[0].Overlay)

	assert.Equal(t, "HTMLBlock", mounts[1].Host)
	assert.Equal(t, "html", mounts[1].Selector)
	assert.Equal(t, "HTML(Element(Text))", mounts[1].Tree.String())

	// The Markdown structure itself is unchanged.
	assert.Equal(t, markdown.Default().ParseString(mixedDoc).Dump(), doc.Dump())
	assert.Contains(t, p.Extensions(), "mixed")
}

func TestResolve(t *testing.T) {
	t.Parallel()

	doc := mixed.Attach(markdown.Default().ParseString(mixedDoc), mixedDoc, mixed.DefaultRegistry())

	m, node, ok := mixed.Resolve(doc, 29)
	require.True(t, ok)
	assert.Equal(t, "html", m.Selector)
	assert.Equal(t, "Text", node.Name())
	assert.Equal(t, 29, m.DocPos(node.From()))

	_, _, ok = mixed.Resolve(doc, 21)
	assert.False(t, ok, "fence markers are outside every overlay")
}

func TestAttach_NoRegions(t *testing.T) {
	t.Parallel()

	doc := markdown.Default().ParseString("just text")
	assert.Same(t, doc, mixed.Attach(doc, "just text", mixed.DefaultRegistry()))
}
