package mixed

import (
	"errors"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// HTML node type IDs.
const (
	htmlDocument = iota + 1
	htmlElement
	htmlAttribute
	htmlText
	htmlComment
	htmlDoctype
)

//nolint:gochecknoglobals // Read-only node type table.
var htmlNodeSet = sync.OnceValue(func() *tree.NodeSet {
	return tree.NewNodeSet([]*tree.NodeType{
		tree.None,
		{ID: htmlDocument, Name: "HTML"},
		{ID: htmlElement, Name: "Element"},
		{ID: htmlAttribute, Name: "Attribute"},
		{ID: htmlText, Name: "Text"},
		{ID: htmlComment, Name: "Comment"},
		{ID: htmlDoctype, Name: "Doctype"},
	})
})

// HTMLNodeSet returns the node types produced by the HTML sub-parser.
func HTMLNodeSet() *tree.NodeSet {
	return htmlNodeSet()
}

// voidElements never have content or an end tag.
//
//nolint:gochecknoglobals // Read-only lookup table.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// HTMLParser returns a sub-parser for HTML fragments built on the
// golang.org/x/net/html tokenizer. Elements nest by matching end tags;
// an end tag closes any elements left open inside it, and elements still
// open at the end run to the end of the fragment.
func HTMLParser() SubParser {
	return SubParserFunc(parseHTML)
}

// htmlNode is a node under construction.
type htmlNode struct {
	typ      int
	name     string
	from, to int
	children []*htmlNode
}

func parseHTML(_, code string) (*tree.Tree, error) {
	root := &htmlNode{typ: htmlDocument, to: len(code)}
	stack := []*htmlNode{root}
	top := func() *htmlNode { return stack[len(stack)-1] }

	z := html.NewTokenizer(strings.NewReader(code))
	pos := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			break
		}
		raw := string(z.Raw())
		tok := z.Token()
		from, to := pos, pos+len(raw)
		pos = to

		switch tt {
		case html.TextToken:
			top().children = append(top().children, &htmlNode{typ: htmlText, from: from, to: to})
		case html.CommentToken:
			top().children = append(top().children, &htmlNode{typ: htmlComment, from: from, to: to})
		case html.DoctypeToken:
			top().children = append(top().children, &htmlNode{typ: htmlDoctype, from: from, to: to})
		case html.StartTagToken, html.SelfClosingTagToken:
			el := &htmlNode{typ: htmlElement, name: tok.Data, from: from, to: to}
			el.children = attributes(raw, tok.Attr, from)
			top().children = append(top().children, el)
			if tt == html.StartTagToken && !voidElements[tok.Data] {
				stack = append(stack, el)
			}
		case html.EndTagToken:
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].name != tok.Data {
					continue
				}
				for _, open := range stack[i:] {
					open.to = to
				}
				stack = stack[:i]
				break
			}
		}
	}
	for _, open := range stack[1:] {
		open.to = len(code)
	}
	return root.build(htmlNodeSet()), nil
}

// attributes locates the attributes of a tag in its raw text. The
// tokenizer lowercases names and unescapes values, so positions are found
// by scanning the raw text in order.
func attributes(raw string, attrs []html.Attribute, base int) []*htmlNode {
	if len(attrs) == 0 {
		return nil
	}
	lower := strings.ToLower(raw)
	search := strings.IndexAny(lower, " \t\n\r\f/>")
	if search < 0 {
		return nil
	}
	var nodes []*htmlNode
	for _, attr := range attrs {
		i := strings.Index(lower[search:], attr.Key)
		if i < 0 {
			break
		}
		start := search + i
		end := attrEnd(raw, start+len(attr.Key))
		nodes = append(nodes, &htmlNode{typ: htmlAttribute, from: base + start, to: base + end})
		search = end
	}
	return nodes
}

// attrEnd returns the end of an attribute whose name ends at i.
func attrEnd(raw string, i int) int {
	j := i
	for j < len(raw) && isHTMLSpace(raw[j]) {
		j++
	}
	if j >= len(raw) || raw[j] != '=' {
		return i
	}
	j++
	for j < len(raw) && isHTMLSpace(raw[j]) {
		j++
	}
	if j < len(raw) && (raw[j] == '"' || raw[j] == '\'') {
		if k := strings.IndexByte(raw[j+1:], raw[j]); k >= 0 {
			return j + k + 2
		}
		return len(raw)
	}
	for j < len(raw) && !isHTMLSpace(raw[j]) && raw[j] != '>' {
		j++
	}
	return j
}

func isHTMLSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func (n *htmlNode) build(set *tree.NodeSet) *tree.Tree {
	children := make([]*tree.Tree, 0, len(n.children))
	positions := make([]int, 0, len(n.children))
	for _, child := range n.children {
		children = append(children, child.build(set))
		positions = append(positions, child.from-n.from)
	}
	return tree.New(set.Type(n.typ), children, positions, n.to-n.from).Balance(0)
}
