package langdetect

import (
	"testing"
)

func BenchmarkResolve(b *testing.B) {
	cases := []struct {
		name     string
		selector string
		content  string
	}{
		{"tag", "go", "package main\n"},
		{"extension", "py", "print('x')\n"},
		{"pattern", "", "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}"},
		{"classifier", "", "#include <stdio.h>\nint main(void) { return 0; }\n"},
		{"empty", "", ""},
	}
	for _, bc := range cases {
		content := []byte(bc.content)
		b.Run(bc.name, func(b *testing.B) {
			for range b.N {
				Resolve(bc.selector, content)
			}
		})
	}
}
