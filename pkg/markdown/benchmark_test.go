package markdown

import (
	"fmt"
	"strings"
	"testing"
)

func benchDocument(sections int) string {
	var sb strings.Builder
	for i := range sections {
		fmt.Fprintf(&sb, "## Section %d\n\nSome *emphasis*, a [link](http://x.com) and `code`.\n\n", i)
		sb.WriteString("- item one\n- item two\n  > nested quote\n\n```go\nfunc f() {}\n```\n\n")
		sb.WriteString("| a | b |\n| - | - |\n| 1 | ~~2~~ |\n\n")
	}
	return sb.String()
}

func BenchmarkParse(b *testing.B) {
	text := benchDocument(200)
	parsers := []struct {
		name string
		p    *Parser
	}{
		{"commonmark", Default()},
		{"gfm", Default().MustConfigure(GFM)},
	}
	for _, bc := range parsers {
		b.Run(bc.name, func(b *testing.B) {
			b.SetBytes(int64(len(text)))
			b.ReportAllocs()
			for b.Loop() {
				_ = bc.p.ParseString(text)
			}
		})
	}
}
