// Package langdetect resolves the language of a fenced code block, from
// its info string when it names one, and otherwise from the content using
// go-enry.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Source tells how a language was determined.
type Source int

// Detection sources, from most to least reliable.
const (
	SourceNone Source = iota
	SourceInfo
	SourceShebang
	SourcePattern
	SourceClassifier
)

// Language is the resolved language of a code block.
type Language struct {
	// Name is the linguist name, such as "Go" or "Shell".
	Name string

	// Tag is the short fence tag, such as "go" or "bash".
	Tag string

	Source Source
}

// Known reports whether a language was determined.
func (l Language) Known() bool {
	return l.Source != SourceNone
}

//nolint:gochecknoglobals // Read-only fallback value.
var text = Language{Name: "Text", Tag: "text"}

// classifierCandidates limits the classifier to languages that commonly
// appear in Markdown code blocks.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Resolve returns the language of a code block. A selector naming a known
// language or file extension wins; otherwise the content is classified.
func Resolve(selector string, content []byte) Language {
	if selector != "" {
		if lang, ok := ByTag(selector); ok {
			return lang
		}
	}
	return Detect(content)
}

// ByTag looks up a fence tag, which may be a language alias ("js",
// "golang") or a file extension ("py", ".rs").
func ByTag(tag string) (Language, bool) {
	tag = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tag)), ".")
	if tag == "" {
		return text, false
	}
	if name, ok := enry.GetLanguageByAlias(tag); ok {
		return fromName(name, SourceInfo), true
	}
	if name, safe := enry.GetLanguageByExtension("block." + tag); safe && name != "" {
		return fromName(name, SourceInfo), true
	}
	return text, false
}

// Detect classifies code content. Shebangs are checked first, then
// distinctive patterns, then the go-enry classifier. Content that matches
// nothing with confidence is reported as text.
func Detect(content []byte) Language {
	if len(bytes.TrimSpace(content)) == 0 {
		return text
	}
	if name, safe := enry.GetLanguageByShebang(content); safe {
		return fromName(name, SourceShebang)
	}
	trimmed := bytes.TrimSpace(content)
	for _, p := range patterns {
		if p.match(content, trimmed) {
			return fromName(p.name, SourcePattern)
		}
	}
	if name, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && name != "" {
		return fromName(name, SourceClassifier)
	}
	return text
}

func fromName(name string, source Source) Language {
	return Language{Name: name, Tag: tagOf(name), Source: source}
}

func tagOf(name string) string {
	if name == "Shell" {
		return "bash"
	}
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
