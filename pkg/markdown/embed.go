package markdown

import (
	"strings"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// SelectorHTML is the selector reported for raw HTML regions.
const SelectorHTML = "html"

// EmbeddedRegion is a part of the document that another language parser
// may process.
type EmbeddedRegion struct {
	// Host is the node containing the region.
	Host *tree.Node

	// Selector names the language: the first word of a fence's info
	// string, "" for indented code, or SelectorHTML.
	Selector string

	// Ranges are the byte ranges eligible for sub-parsing, in order.
	Ranges []tree.Range
}

// Code returns the text of the region, with its ranges joined.
func (r EmbeddedRegion) Code(text string) string {
	var sb strings.Builder
	for _, rng := range r.Ranges {
		sb.WriteString(text[rng.From:rng.To])
	}
	return sb.String()
}

// EmbeddedRegions lists the code and HTML regions of a parsed document.
// Code regions cover a block's CodeText children. HTML regions cover the
// parts of an HTML node not taken by child nodes such as quote markers.
func EmbeddedRegions(t *tree.Tree, text string) []EmbeddedRegion {
	var regions []EmbeddedRegion
	//nolint:errcheck // the walk function never fails
	tree.Walk(t.TopNode(), func(n *tree.Node) error {
		switch n.Name() {
		case "FencedCode", "CodeBlock":
			if r, ok := codeRegion(n, text); ok {
				regions = append(regions, r)
			}
			return tree.SkipChildren
		case "HTMLBlock", "CommentBlock", "ProcessingInstructionBlock",
			"HTMLTag", "Comment", "ProcessingInstruction":
			if ranges := leftOverSpace(n); len(ranges) > 0 {
				regions = append(regions, EmbeddedRegion{Host: n, Selector: SelectorHTML, Ranges: ranges})
			}
			return tree.SkipChildren
		}
		return nil
	})
	return regions
}

func codeRegion(n *tree.Node, text string) (EmbeddedRegion, bool) {
	region := EmbeddedRegion{Host: n}
	if info := n.Child("CodeInfo"); info != nil {
		region.Selector = FenceLanguage(text[info.From():info.To()])
	}
	for _, code := range n.ChildrenOf("CodeText") {
		region.Ranges = append(region.Ranges, code.Range())
	}
	return region, len(region.Ranges) > 0
}

// FenceLanguage returns the first whitespace-delimited word of a fence
// info string.
func FenceLanguage(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// leftOverSpace returns the parts of n not covered by its children.
func leftOverSpace(n *tree.Node) []tree.Range {
	var ranges []tree.Range
	pos := n.From()
	for _, child := range n.Children() {
		if child.From() > pos {
			ranges = append(ranges, tree.Range{From: pos, To: child.From()})
		}
		pos = child.To()
	}
	if n.To() > pos {
		ranges = append(ranges, tree.Range{From: pos, To: n.To()})
	}
	return ranges
}
