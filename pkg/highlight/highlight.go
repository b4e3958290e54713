package highlight

import (
	"slices"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// Span is a run of text sharing the same tags. Tags are ordered from the
// outermost node to the innermost.
type Span struct {
	From, To int
	Tags     []Tag
}

// Has reports whether the span carries tag.
func (s Span) Has(tag Tag) bool {
	return slices.Contains(s.Tags, tag)
}

type highlighter struct {
	table *Table
	from  int
	to    int
	at    int
	tags  []Tag
	spans []Span
}

// Highlight returns the tagged spans of t between from and to. Text not
// covered by any tag produces no span. A zero to means the end of the tree.
func Highlight(t *tree.Tree, table *Table, from, to int) []Span {
	if to == 0 {
		to = t.Length()
	}
	h := &highlighter{table: table, from: from, to: to, at: from}
	h.node(t.TopNode(), nil)
	h.flush(to)
	return h.spans
}

func (h *highlighter) node(n *tree.Node, inherited []Tag) {
	start, end := n.From(), n.To()
	if start >= h.to || end <= h.from {
		return
	}
	tags := inherited
	if r, ok := h.table.rules[n.Name()]; ok {
		tags = append(slices.Clip(inherited), r.tag)
		if r.inherit {
			inherited = tags
		}
	}
	h.start(max(h.from, start), tags)
	for _, child := range n.Children() {
		if child.From() >= h.to {
			break
		}
		h.node(child, inherited)
		h.start(max(h.from, child.To()), tags)
	}
}

func (h *highlighter) start(at int, tags []Tag) {
	if slices.Equal(tags, h.tags) {
		return
	}
	h.flush(at)
	if at > h.at {
		h.at = at
	}
	h.tags = tags
}

func (h *highlighter) flush(to int) {
	to = min(to, h.to)
	if to > h.at && len(h.tags) > 0 {
		h.spans = append(h.spans, Span{From: h.at, To: to, Tags: h.tags})
	}
	h.at = max(h.at, to)
}
