package crosscheck

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// Block kinds shared by both parsers.
const (
	KindParagraph  = "paragraph"
	KindHeading    = "heading"
	KindBlockquote = "blockquote"
	KindList       = "list"
	KindOrdered    = "ordered_list"
	KindItem       = "item"
	KindCode       = "code"
	KindRule       = "thematic_break"
	KindHTML       = "html"
	KindTable      = "table"
)

// Block is one block of a document outline.
type Block struct {
	Kind  string
	Level int
	Depth int

	// Line is the 1-based line the block's text starts on, or 0 when it
	// is not compared.
	Line int
}

func (b Block) String() string {
	s := b.Kind
	if b.Level > 0 {
		s += fmt.Sprintf("(%d)", b.Level)
	}
	if b.Line > 0 {
		s += fmt.Sprintf(" at line %d", b.Line)
	}
	return fmt.Sprintf("%s depth %d", s, b.Depth)
}

// Inline constructs counted by both parsers.
const (
	InlineEmphasis      = "emphasis"
	InlineStrong        = "strong"
	InlineCode          = "code_span"
	InlineStrikethrough = "strikethrough"
)

type shape struct {
	blocks  []Block
	inlines map[string]int
}

func newShape() *shape {
	return &shape{inlines: make(map[string]int)}
}

// fromTree extracts the shape of an mdtree syntax tree.
func fromTree(t *tree.Tree, text string) *shape {
	s := newShape()
	lines := tree.NewLineIndex(text)
	depth := 0
	enter := func(n *tree.Node) error {
		if name, ok := treeInlines[n.Name()]; ok {
			s.inlines[name]++
			return nil
		}
		b, ok := treeBlock(n)
		if !ok {
			return nil
		}
		b.Depth = depth
		if b.Kind == KindHeading || b.Kind == KindParagraph {
			b.Line = lines.LineOf(n.From())
		}
		s.blocks = append(s.blocks, b)
		depth++
		return nil
	}
	leave := func(n *tree.Node) error {
		if _, ok := treeBlock(n); ok {
			depth--
		}
		return nil
	}
	for _, child := range t.TopNode().Children() {
		//nolint:errcheck // the callbacks never fail
		tree.WalkWithLeave(child, enter, leave)
	}
	return s
}

//nolint:gochecknoglobals // Read-only lookup table.
var treeInlines = map[string]string{
	"Emphasis":       InlineEmphasis,
	"StrongEmphasis": InlineStrong,
	"InlineCode":     InlineCode,
	"Strikethrough":  InlineStrikethrough,
}

func treeBlock(n *tree.Node) (Block, bool) {
	if level := markdown.IsHeading(n.Type()); level > 0 {
		return Block{Kind: KindHeading, Level: level}, true
	}
	switch n.Name() {
	case "Paragraph", "Task":
		return Block{Kind: KindParagraph}, true
	case "Blockquote":
		return Block{Kind: KindBlockquote}, true
	case "BulletList":
		return Block{Kind: KindList}, true
	case "OrderedList":
		return Block{Kind: KindOrdered}, true
	case "ListItem":
		return Block{Kind: KindItem}, true
	case "FencedCode", "CodeBlock":
		return Block{Kind: KindCode}, true
	case "HorizontalRule":
		return Block{Kind: KindRule}, true
	case "HTMLBlock", "CommentBlock", "ProcessingInstructionBlock":
		return Block{Kind: KindHTML}, true
	case "Table":
		return Block{Kind: KindTable}, true
	default:
		return Block{}, false
	}
}

// fromGoldmark extracts the shape of a goldmark AST.
func fromGoldmark(doc ast.Node, source []byte) *shape {
	s := newShape()
	lines := tree.NewLineIndex(string(source))
	depth := 0
	//nolint:errcheck // the walker never fails
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if name, ok := goldmarkInline(n); ok {
				s.inlines[name]++
				return ast.WalkContinue, nil
			}
		}
		b, ok := goldmarkBlock(n)
		if !ok {
			return ast.WalkContinue, nil
		}
		if !entering {
			depth--
			return ast.WalkContinue, nil
		}
		b.Depth = depth
		if (b.Kind == KindHeading || b.Kind == KindParagraph) && n.Lines().Len() > 0 {
			b.Line = lines.LineOf(n.Lines().At(0).Start)
		}
		s.blocks = append(s.blocks, b)
		depth++
		return ast.WalkContinue, nil
	})
	return s
}

func goldmarkInline(n ast.Node) (string, bool) {
	switch node := n.(type) {
	case *ast.Emphasis:
		if node.Level == 2 {
			return InlineStrong, true
		}
		return InlineEmphasis, true
	case *ast.CodeSpan:
		return InlineCode, true
	case *east.Strikethrough:
		return InlineStrikethrough, true
	default:
		return "", false
	}
}

func goldmarkBlock(n ast.Node) (Block, bool) {
	switch node := n.(type) {
	case *ast.Heading:
		return Block{Kind: KindHeading, Level: node.Level}, true
	case *ast.Paragraph, *ast.TextBlock:
		return Block{Kind: KindParagraph}, true
	case *ast.Blockquote:
		return Block{Kind: KindBlockquote}, true
	case *ast.List:
		if node.IsOrdered() {
			return Block{Kind: KindOrdered}, true
		}
		return Block{Kind: KindList}, true
	case *ast.ListItem:
		return Block{Kind: KindItem}, true
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return Block{Kind: KindCode}, true
	case *ast.ThematicBreak:
		return Block{Kind: KindRule}, true
	case *ast.HTMLBlock:
		return Block{Kind: KindHTML}, true
	case *east.Table:
		return Block{Kind: KindTable}, true
	default:
		return Block{}, false
	}
}
