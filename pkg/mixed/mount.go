package mixed

import (
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// Wrap returns a parse wrapper that mounts sub-language trees onto the
// finished document.
func Wrap(reg *Registry) markdown.ParseWrapper {
	return func(inner markdown.PartialParse, input tree.Input, _ []tree.Fragment, _ []tree.Range) markdown.PartialParse {
		return &mountingParse{PartialParse: inner, reg: reg, input: input}
	}
}

// Extension returns a Markdown extension that mounts sub-language trees.
func Extension(reg *Registry) markdown.Extension {
	return markdown.Extension{Name: "mixed", Wrap: Wrap(reg)}
}

type mountingParse struct {
	markdown.PartialParse
	reg   *Registry
	input tree.Input
}

func (p *mountingParse) Advance() *tree.Tree {
	done := p.PartialParse.Advance()
	if done == nil {
		return nil
	}
	return Attach(done, p.input.Read(0, p.input.Length()), p.reg)
}

// Attach parses every embedded region of t that has a sub-parser and
// returns t carrying the results as mounts. Regions whose sub-parse fails
// stay unmounted.
func Attach(t *tree.Tree, text string, reg *Registry) *tree.Tree {
	var mounts []tree.Mount
	for _, region := range markdown.EmbeddedRegions(t, text) {
		p, ok := reg.Lookup(region.Selector)
		if !ok {
			continue
		}
		sub, err := p.Parse(region.Selector, region.Code(text))
		if err != nil || sub == nil {
			continue
		}
		mounts = append(mounts, tree.Mount{
			From:     region.Host.From(),
			To:       region.Host.To(),
			Host:     region.Host.Name(),
			Selector: region.Selector,
			Overlay:  region.Ranges,
			Tree:     sub,
		})
	}
	if len(mounts) == 0 {
		return t
	}
	return t.WithMounts(mounts)
}

// Resolve returns the mount covering pos and the innermost sub-tree node
// there.
func Resolve(t *tree.Tree, pos int) (tree.Mount, *tree.Node, bool) {
	for _, m := range t.Mounts() {
		if pos < m.From || pos > m.To {
			continue
		}
		sub, ok := m.SubPos(pos)
		if !ok {
			continue
		}
		return m, m.Tree.ResolveInner(sub, 1), true
	}
	return tree.Mount{}, nil, false
}
