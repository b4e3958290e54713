package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdtree/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
		source  langdetect.Source
	}{
		{"shebang bash", "#!/bin/bash\necho hello", "bash", langdetect.SourceShebang},
		{"shebang sh", "#!/bin/sh\necho hello", "bash", langdetect.SourceShebang},
		{"shebang python", "#!/usr/bin/env python3\nprint('hello')", "python", langdetect.SourceShebang},
		{"shebang wins over content", "#!/bin/bash\ndef foo():\n    pass", "bash", langdetect.SourceShebang},
		{"go", "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}", "go", langdetect.SourcePattern},
		{"python", "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", "python", langdetect.SourcePattern},
		{"javascript", "const x = () => { return 42; };\nconsole.log(x());", "javascript", langdetect.SourcePattern},
		{"json", `{"key": "value", "number": 123}`, "json", langdetect.SourcePattern},
		{"yaml", "key: value\nother: 123\nlist:\n  - item1\n  - item2", "yaml", langdetect.SourcePattern},
		{"rust", "fn main() {\n    println!(\"Hello, world!\");\n}", "rust", langdetect.SourcePattern},
		{"sql", "SELECT * FROM users WHERE id = 1;", "sql", langdetect.SourcePattern},
		{"html", "<!DOCTYPE html>\n<html>\n<head><title>Test</title></head>\n<body></body>\n</html>", "html", langdetect.SourcePattern},
		{"dockerfile", "FROM golang:1.21\nWORKDIR /app\nCOPY . .\nRUN go build", "dockerfile", langdetect.SourcePattern},
		{"plain text", "just some text without any code patterns", "text", langdetect.SourceNone},
		{"empty", "", "text", langdetect.SourceNone},
		{"blank", "  \n\t", "text", langdetect.SourceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := langdetect.Detect([]byte(tt.content))
			assert.Equal(t, tt.want, got.Tag)
			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, tt.source != langdetect.SourceNone, got.Known())
		})
	}
}

func TestByTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want string
		ok   bool
	}{
		{"go", "Go", true},
		{"golang", "Go", true},
		{"js", "JavaScript", true},
		{"sh", "Shell", true},
		{"py", "Python", true},
		{".rb", "Ruby", true},
		{"  Go  ", "Go", true},
		{"", "Text", false},
		{"definitely-not-a-language", "Text", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()

			got, ok := langdetect.ByTag(tt.tag)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	code := []byte("package main\n")

	got := langdetect.Resolve("python", code)
	assert.Equal(t, "python", got.Tag)
	assert.Equal(t, langdetect.SourceInfo, got.Source)

	got = langdetect.Resolve("", code)
	assert.Equal(t, "go", got.Tag)
	assert.Equal(t, langdetect.SourcePattern, got.Source)

	got = langdetect.Resolve("mystery", code)
	assert.Equal(t, "go", got.Tag)
}
