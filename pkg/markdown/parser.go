// Package markdown implements an incremental CommonMark parser that
// produces a concrete syntax tree. Parsing happens in two levels: block
// structure is recognized line by line, and inline content of leaf blocks
// is parsed with a delimiter stack. Parsers are immutable and extended
// through Extension values; GFM constructs ship as bundled extensions.
package markdown

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// PartialParse is a parse in progress that can be advanced step by step.
type PartialParse interface {
	// Advance does a unit of work. It returns the finished tree, or nil
	// when more work remains.
	Advance() *tree.Tree

	// ParsedPos returns the position up to which input was consumed.
	ParsedPos() int

	// StopAt asks the parse to finish at pos. The stop position can only
	// move backwards; moving it forward returns ErrStopAtForward.
	StopAt(pos int) error

	// StoppedAt returns the stop position, if set.
	StoppedAt() (int, bool)
}

// ParseWrapper wraps a parse, for example to attach mounted sub-language
// trees once the inner parse finishes.
type ParseWrapper func(inner PartialParse, input tree.Input, fragments []tree.Fragment, ranges []tree.Range) PartialParse

// Parser is an immutable Markdown parser configuration.
type Parser struct {
	nodeSet           *tree.NodeSet
	blockParsers      []BlockParseFunc
	leafBlockParsers  []LeafParserFactory
	blockNames        []string
	endLeafBlock      []EndLeafFunc
	skipContextMarkup map[int]SkipMarkupFunc
	inlineParsers     []InlineParseFunc
	inlineNames       []string
	wrappers          []ParseWrapper
	extensions        []string
}

//nolint:gochecknoglobals // The base parser is immutable and shared.
var defaultParser = sync.OnceValue(newDefaultParser)

func newDefaultParser() *Parser {
	return &Parser{
		nodeSet: defaultNodeSet(),
		blockParsers: []BlockParseFunc{
			nil, parseIndentedCode, parseFencedCode, parseBlockquote, parseHorizontalRule,
			parseBulletList, parseOrderedList, parseATXHeading, parseHTMLBlock, nil,
		},
		leafBlockParsers: []LeafParserFactory{
			newLinkReferenceParser, nil, nil, nil, nil, nil, nil, nil, nil, newSetextHeadingParser,
		},
		blockNames: []string{
			"LinkReference", "IndentedCode", "FencedCode", "Blockquote", "HorizontalRule",
			"BulletList", "OrderedList", "ATXHeading", "HTMLBlock", "SetextHeading",
		},
		endLeafBlock:      defaultEndLeaf(),
		skipContextMarkup: defaultSkipMarkup(),
		inlineParsers: []InlineParseFunc{
			parseEscape, parseEntity, parseInlineCode, parseHTMLTag, parseEmphasis,
			parseHardBreak, parseLinkStart, parseImageStart, parseLinkEnd,
		},
		inlineNames: []string{
			"Escape", "Entity", "InlineCode", "HTMLTag", "Emphasis",
			"HardBreak", "Link", "Image", "LinkEnd",
		},
	}
}

// Default returns the CommonMark parser without extensions.
func Default() *Parser {
	return defaultParser()
}

// New returns the CommonMark parser configured with the given extensions.
func New(exts ...Extension) (*Parser, error) {
	return Default().Configure(exts...)
}

// NodeSet returns the node types this parser produces.
func (p *Parser) NodeSet() *tree.NodeSet {
	return p.nodeSet
}

// NodeType returns the ID of a named node type.
func (p *Parser) NodeType(name string) (int, error) {
	typ, ok := p.nodeSet.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNodeType, name)
	}
	return typ.ID, nil
}

func (p *Parser) mustNodeType(name string) int {
	id, err := p.NodeType(name)
	if err != nil {
		panic("markdown: " + err.Error())
	}
	return id
}

// Extensions returns the names of the extensions applied to the parser.
func (p *Parser) Extensions() []string {
	return slices.Clone(p.extensions)
}

// BlockParserNames returns the active block parser names in order.
func (p *Parser) BlockParserNames() []string {
	return activeNames(p.blockNames, func(i int) bool {
		return p.blockParsers[i] != nil || p.leafBlockParsers[i] != nil
	})
}

// InlineParserNames returns the active inline parser names in order.
func (p *Parser) InlineParserNames() []string {
	return activeNames(p.inlineNames, func(i int) bool { return p.inlineParsers[i] != nil })
}

func activeNames(names []string, active func(int) bool) []string {
	out := make([]string, 0, len(names))
	for i, name := range names {
		if active(i) {
			out = append(out, name)
		}
	}
	return out
}

// setextEnabled reports whether setext headings are recognized, which
// decides how "---" under a paragraph is read.
func (p *Parser) setextEnabled() bool {
	i := slices.Index(p.blockNames, "SetextHeading")
	return i >= 0 && p.leafBlockParsers[i] != nil
}

// StartParse begins a parse. Ranges default to the whole input; fragments
// from a previous parse of an edited document enable reuse.
func (p *Parser) StartParse(input tree.Input, fragments []tree.Fragment, ranges []tree.Range) PartialParse {
	if len(ranges) == 0 {
		ranges = []tree.Range{{From: 0, To: input.Length()}}
	}
	var parse PartialParse = newBlockContext(p, input, fragments, ranges)
	for _, wrap := range p.wrappers {
		parse = wrap(parse, input, fragments, ranges)
	}
	return parse
}

// Parse runs a parse to completion. It checks ctx between blocks.
func (p *Parser) Parse(ctx context.Context, input tree.Input, fragments []tree.Fragment, ranges []tree.Range) (*tree.Tree, error) {
	parse := p.StartParse(input, fragments, ranges)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parse cancelled: %w", err)
		}
		if done := parse.Advance(); done != nil {
			return done, nil
		}
	}
}

// ParseString parses a complete document held in a string.
func (p *Parser) ParseString(text string) *tree.Tree {
	parse := p.StartParse(tree.NewStringInput(text), nil, nil)
	for {
		if done := parse.Advance(); done != nil {
			return done
		}
	}
}
