package lsp

import (
	"unicode/utf8"

	lsp "github.com/sourcegraph/go-lsp"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// positions converts between byte offsets and LSP positions, whose
// character counts UTF-16 code units.
type positions struct {
	text  string
	lines *tree.LineIndex
}

func newPositions(text string) *positions {
	return &positions{text: text, lines: tree.NewLineIndex(text)}
}

func (p *positions) position(offset int) lsp.Position {
	offset = min(max(offset, 0), len(p.text))
	line := p.lines.LineOf(offset)
	info, _ := p.lines.Line(line)
	return lsp.Position{Line: line - 1, Character: utf16Len(p.text[info.StartOffset:offset])}
}

func (p *positions) rng(from, to int) lsp.Range {
	return lsp.Range{Start: p.position(from), End: p.position(to)}
}

// offset converts a position to a byte offset. Positions past the end of
// a line clamp to the line end, and lines past the end to the text end.
func (p *positions) offset(pos lsp.Position) int {
	info, ok := p.lines.Line(pos.Line + 1)
	if !ok {
		if pos.Line < 0 {
			return 0
		}
		return len(p.text)
	}
	units := 0
	for i, r := range p.text[info.StartOffset:info.NewlineStart] {
		if units >= pos.Character {
			return info.StartOffset + i
		}
		units += runeUnits(r)
	}
	return info.NewlineStart
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

func runeUnits(r rune) int {
	if r == utf8.RuneError || r <= 0xFFFF {
		return 1
	}
	return 2
}
