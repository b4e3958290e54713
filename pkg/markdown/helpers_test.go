package markdown

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cords"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// sampleDocument returns n repeated sections mixing headings, paragraphs,
// lists, quotes and code.
func sampleDocument(n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "# Heading %d\n\n", i)
		fmt.Fprintf(&sb, "Paragraph %d with *emphasis* and `code`.\nSecond line.\n\n", i)
		sb.WriteString("- item one\n- item two\n\n")
		sb.WriteString("> quoted\n\n")
		sb.WriteString("```go\nfmt.Println()\n```\n\n")
	}
	return sb.String()
}

func newCordInput(text string) *tree.CordInput {
	return tree.NewCordInput(cords.FromString(text))
}
