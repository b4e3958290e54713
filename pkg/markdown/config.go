package markdown

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// Configuration errors.
var (
	// ErrUnknownParser is returned when an extension positions a parser
	// relative to, or removes, a parser name that does not exist.
	ErrUnknownParser = errors.New("unknown parser name")

	// ErrUnknownNodeType is returned when a node type name is not defined.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrUnknownExtension is returned by ExtensionByName.
	ErrUnknownExtension = errors.New("unknown extension")
)

// NodeSpec defines a node type added by an extension.
type NodeSpec struct {
	Name string

	// Block marks a block-level node.
	Block bool

	// Composite makes the node a container block. The function consumes
	// the node's continuation markup at the start of each line, like the
	// "> " of a blockquote, and reports whether the line continues it.
	Composite func(cx *BlockContext, line *Line, value int) bool
}

// BlockParserSpec adds or replaces a block parser.
type BlockParserSpec struct {
	// Name identifies the parser. A spec reusing an existing name replaces
	// that parser in place.
	Name string

	// Parse recognizes the block at the start of a line.
	Parse BlockParseFunc

	// Leaf is consulted when a leaf block (paragraph) starts.
	Leaf LeafParserFactory

	// EndLeaf reports lines that interrupt a paragraph.
	EndLeaf EndLeafFunc

	// Before and After position a new parser relative to an existing one.
	// Without either, it goes right before the last default parser.
	Before string
	After  string
}

// InlineParserSpec adds or replaces an inline parser.
type InlineParserSpec struct {
	Name   string
	Parse  InlineParseFunc
	Before string
	After  string
}

// Extension bundles changes to a parser configuration.
type Extension struct {
	// Name is used in diagnostics and by ExtensionByName.
	Name string

	DefineNodes []NodeSpec
	ParseBlock  []BlockParserSpec
	ParseInline []InlineParserSpec

	// Remove lists block or inline parser names to disable.
	Remove []string

	// Wrap adds a wrapper around every parse.
	Wrap ParseWrapper

	// Extensions are applied before the fields above.
	Extensions []Extension
}

// flatten collects the extension and its nested extensions in the order
// they are applied.
func (e Extension) flatten(out []Extension) []Extension {
	for _, nested := range e.Extensions {
		out = nested.flatten(out)
	}
	return append(out, e)
}

func findName(names []string, name string) (int, error) {
	if i := slices.Index(names, name); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownParser, name)
}

func insertPos(names []string, before, after string) (int, error) {
	switch {
	case before != "":
		return findName(names, before)
	case after != "":
		i, err := findName(names, after)
		return i + 1, err
	default:
		return len(names) - 1, nil
	}
}

// Configure returns a new parser with the extensions applied. The receiver
// is not modified.
func (p *Parser) Configure(exts ...Extension) (*Parser, error) {
	var flat []Extension
	for _, ext := range exts {
		flat = ext.flatten(flat)
	}
	if len(flat) == 0 {
		return p, nil
	}

	next := p.clone()
	for _, ext := range flat {
		if err := next.apply(ext); err != nil {
			if ext.Name != "" {
				return nil, fmt.Errorf("configure %s: %w", ext.Name, err)
			}
			return nil, fmt.Errorf("configure: %w", err)
		}
		if ext.Name != "" {
			next.extensions = append(next.extensions, ext.Name)
		}
	}
	return next, nil
}

// MustConfigure is like Configure but panics on error. It is meant for
// package-level parser variables.
func (p *Parser) MustConfigure(exts ...Extension) *Parser {
	next, err := p.Configure(exts...)
	if err != nil {
		panic(err)
	}
	return next
}

func (p *Parser) clone() *Parser {
	next := *p
	next.blockParsers = slices.Clone(p.blockParsers)
	next.leafBlockParsers = slices.Clone(p.leafBlockParsers)
	next.blockNames = slices.Clone(p.blockNames)
	next.endLeafBlock = slices.Clone(p.endLeafBlock)
	next.inlineParsers = slices.Clone(p.inlineParsers)
	next.inlineNames = slices.Clone(p.inlineNames)
	next.wrappers = slices.Clone(p.wrappers)
	next.extensions = slices.Clone(p.extensions)
	next.skipContextMarkup = make(map[int]SkipMarkupFunc, len(p.skipContextMarkup))
	for k, v := range p.skipContextMarkup {
		next.skipContextMarkup[k] = v
	}
	return &next
}

func (p *Parser) apply(ext Extension) error {
	if len(ext.DefineNodes) > 0 {
		p.defineNodes(ext.DefineNodes)
	}

	for _, name := range ext.Remove {
		block, inline := slices.Index(p.blockNames, name), slices.Index(p.inlineNames, name)
		if block < 0 && inline < 0 {
			return fmt.Errorf("remove: %w: %q", ErrUnknownParser, name)
		}
		if block >= 0 {
			p.blockParsers[block] = nil
			p.leafBlockParsers[block] = nil
		}
		if inline >= 0 {
			p.inlineParsers[inline] = nil
		}
	}

	for _, spec := range ext.ParseBlock {
		if found := slices.Index(p.blockNames, spec.Name); found >= 0 {
			p.blockParsers[found] = spec.Parse
			p.leafBlockParsers[found] = spec.Leaf
		} else {
			pos, err := insertPos(p.blockNames, spec.Before, spec.After)
			if err != nil {
				return fmt.Errorf("block parser %s: %w", spec.Name, err)
			}
			p.blockParsers = slices.Insert(p.blockParsers, pos, spec.Parse)
			p.leafBlockParsers = slices.Insert(p.leafBlockParsers, pos, spec.Leaf)
			p.blockNames = slices.Insert(p.blockNames, pos, spec.Name)
		}
		if spec.EndLeaf != nil {
			p.endLeafBlock = append(p.endLeafBlock, spec.EndLeaf)
		}
	}

	for _, spec := range ext.ParseInline {
		if found := slices.Index(p.inlineNames, spec.Name); found >= 0 {
			p.inlineParsers[found] = spec.Parse
			continue
		}
		pos, err := insertPos(p.inlineNames, spec.Before, spec.After)
		if err != nil {
			return fmt.Errorf("inline parser %s: %w", spec.Name, err)
		}
		p.inlineParsers = slices.Insert(p.inlineParsers, pos, spec.Parse)
		p.inlineNames = slices.Insert(p.inlineNames, pos, spec.Name)
	}

	if ext.Wrap != nil {
		p.wrappers = append(p.wrappers, ext.Wrap)
	}
	return nil
}

func (p *Parser) defineNodes(specs []NodeSpec) {
	defs := make([]tree.NodeType, 0, len(specs))
	for _, spec := range specs {
		if _, exists := p.nodeSet.Lookup(spec.Name); exists {
			continue
		}
		var groups []string
		switch {
		case spec.Composite != nil:
			groups = []string{tree.GroupBlock, tree.GroupBlockContext}
		case spec.Block:
			groups = []string{tree.GroupBlock, tree.GroupLeafBlock}
		}
		defs = append(defs, tree.NodeType{Name: spec.Name, Groups: groups})
	}
	p.nodeSet = p.nodeSet.Extend(defs...)
	for _, spec := range specs {
		if spec.Composite == nil {
			continue
		}
		typ, _ := p.nodeSet.Lookup(spec.Name)
		composite := spec.Composite
		p.skipContextMarkup[typ.ID] = func(bl *CompositeBlock, cx *BlockContext, line *Line) bool {
			return composite(cx, line, bl.Value)
		}
	}
}

//nolint:gochecknoglobals // Registry of the bundled extensions.
var extensionRegistry = map[string]Extension{
	"gfm":           GFM,
	"table":         Table,
	"tasklist":      TaskList,
	"strikethrough": Strikethrough,
	"autolink":      GFMAutolink,
	"subscript":     Subscript,
	"superscript":   Superscript,
	"emoji":         Emoji,
}

// ExtensionByName returns a bundled extension ("gfm", "table",
// "strikethrough" and so on) so configuration files can enable them.
func ExtensionByName(name string) (Extension, error) {
	ext, ok := extensionRegistry[name]
	if !ok {
		return Extension{}, fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}
	return ext, nil
}

// ExtensionsByName resolves a list of extension names.
func ExtensionsByName(names []string) ([]Extension, error) {
	exts := make([]Extension, 0, len(names))
	for _, name := range names {
		ext, err := ExtensionByName(name)
		if err != nil {
			return nil, err
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

// ExtensionNames lists the bundled extension names in sorted order.
func ExtensionNames() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
