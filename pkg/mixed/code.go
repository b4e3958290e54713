package mixed

import (
	"sync"

	"github.com/yaklabco/mdtree/pkg/langdetect"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// GroupCode is the group of the node types produced by the code parser.
const GroupCode = "Code"

type codeParser struct {
	// sets caches one node set per language tag.
	sets sync.Map
}

// CodeParser returns a sub-parser that resolves a code block's language
// from its selector, or from its content when the selector names no known
// language. The result is a single node whose type name is the language
// tag ("go", "python", "text").
func CodeParser() SubParser {
	return &codeParser{}
}

func (c *codeParser) Parse(selector, code string) (*tree.Tree, error) {
	lang := langdetect.Resolve(selector, []byte(code))
	return tree.Leaf(c.nodeType(lang.Tag), len(code)), nil
}

func (c *codeParser) nodeType(tag string) *tree.NodeType {
	if set, ok := c.sets.Load(tag); ok {
		return set.(*tree.NodeSet).Type(1) //nolint:forcetypeassert // only node sets are stored
	}
	set := tree.NewNodeSet([]*tree.NodeType{tree.None, {ID: 1, Name: tag, Groups: []string{GroupCode}}})
	actual, _ := c.sets.LoadOrStore(tag, set)
	return actual.(*tree.NodeSet).Type(1) //nolint:forcetypeassert // only node sets are stored
}
