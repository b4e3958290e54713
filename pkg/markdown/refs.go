package markdown

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// NormalizeLabel returns the matching key of a link label: brackets
// removed, inner whitespace collapsed and Unicode case folded.
func NormalizeLabel(label string) string {
	label = strings.TrimPrefix(label, "[")
	label = strings.TrimSuffix(label, "]")
	return cases.Fold().String(strings.Join(strings.Fields(label), " "))
}

// Definition is a link reference definition.
type Definition struct {
	// Label is the normalized label.
	Label string
	URL   string
	Title string
	Node  *tree.Node
}

// References holds the link reference definitions of a document.
type References struct {
	defs  map[string]Definition
	order []string
}

// CollectReferences gathers the LinkReference definitions in a tree. The
// first definition of a label wins.
func CollectReferences(t *tree.Tree, text string) *References {
	refs := &References{defs: make(map[string]Definition)}
	for _, n := range tree.FindByName(t.TopNode(), "LinkReference") {
		label := n.Child("LinkLabel")
		if label == nil {
			continue
		}
		def := Definition{Label: NormalizeLabel(nodeText(label, text)), Node: n}
		if def.Label == "" {
			continue
		}
		if u := n.Child("URL"); u != nil {
			def.URL = strings.TrimSuffix(strings.TrimPrefix(nodeText(u, text), "<"), ">")
		}
		if title := n.Child("LinkTitle"); title != nil {
			if s := nodeText(title, text); len(s) >= 2 {
				def.Title = s[1 : len(s)-1]
			}
		}
		if _, dup := refs.defs[def.Label]; dup {
			continue
		}
		refs.defs[def.Label] = def
		refs.order = append(refs.order, def.Label)
	}
	return refs
}

// Len returns the number of distinct definitions.
func (r *References) Len() int {
	return len(r.order)
}

// Definitions returns the definitions in document order.
func (r *References) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, label := range r.order {
		out = append(out, r.defs[label])
	}
	return out
}

// Lookup finds the definition for a label in any form.
func (r *References) Lookup(label string) (Definition, bool) {
	def, ok := r.defs[NormalizeLabel(label)]
	return def, ok
}

// ReferenceLabel returns the label a Link or Image node refers to: the
// explicit label of a full reference, or the link text of a collapsed
// ("[text][]") or shortcut ("[text]") reference. It reports false for
// inline links with a destination.
func ReferenceLabel(link *tree.Node, text string) (string, bool) {
	marks := link.ChildrenOf("LinkMark")
	if len(marks) < 2 {
		return "", false
	}
	open, closing := marks[0], marks[1]
	if len(marks) > 2 && text[marks[2].From():marks[2].To()] == "(" {
		return "", false
	}
	if label := link.Child("LinkLabel"); label != nil {
		if s := nodeText(label, text); strings.TrimSpace(s[1:len(s)-1]) != "" {
			return s, true
		}
	}
	return text[open.To():closing.From()], true
}

// Resolve finds the definition a Link or Image node refers to.
func (r *References) Resolve(link *tree.Node, text string) (Definition, bool) {
	label, ok := ReferenceLabel(link, text)
	if !ok {
		return Definition{}, false
	}
	return r.Lookup(label)
}

func nodeText(n *tree.Node, text string) string {
	return text[n.From():n.To()]
}
