// Package crosscheck compares the block structure mdtree produces with the
// one goldmark produces for the same text. Goldmark serves as an
// independent CommonMark implementation; a mismatch points at a parsing
// difference worth a closer look.
package crosscheck

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdtree/pkg/markdown"
)

// Flavors accepted by New.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Checker parses text with both parsers and compares the results.
type Checker struct {
	flavor string
	md     goldmark.Markdown
	parser *markdown.Parser
}

// New creates a checker for the given flavor. Unknown flavors default to
// CommonMark. A nil parser selects the one matching the flavor.
func New(flavor string, p *markdown.Parser) (*Checker, error) {
	f := flavorOrDefault(flavor)
	if p == nil {
		var err error
		if p, err = parserFor(f); err != nil {
			return nil, err
		}
	}
	return &Checker{flavor: f, md: newGoldmarkInstance(f), parser: p}, nil
}

// Flavor returns the configured flavor.
func (c *Checker) Flavor() string {
	return c.flavor
}

// Check parses content with both parsers and returns their differences.
func (c *Checker) Check(ctx context.Context, path string, content []byte) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check cancelled: %w", err)
	}

	src := string(content)
	doc := c.parser.ParseString(src)
	got := fromTree(doc, src)

	reader := text.NewReader(content)
	gmDoc := c.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))
	want := fromGoldmark(gmDoc, content)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check cancelled: %w", err)
	}

	return &Report{
		Path:       path,
		Blocks:     len(got.blocks),
		Mismatches: compare(want, got),
	}, nil
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

func parserFor(flavor string) (*markdown.Parser, error) {
	if flavor == FlavorGFM {
		return markdown.New(markdown.GFM)
	}
	return markdown.Default(), nil
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}
