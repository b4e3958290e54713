package langdetect

import (
	"bytes"
	"strings"
)

// pattern recognizes content that is distinctive enough to skip the
// classifier.
type pattern struct {
	name  string
	match func(content, trimmed []byte) bool
}

// patterns are checked in order; more specific ones come first.
//
//nolint:gochecknoglobals // Read-only detector table.
var patterns = []pattern{
	{"Go", func(_, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("package "))
	}},
	{"Python", isPython},
	{"HTML", func(_, trimmed []byte) bool {
		return containsAny(string(bytes.ToLower(trimmed)), "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"JSON", func(_, trimmed []byte) bool {
		return (trimmed[0] == '{' || trimmed[0] == '[') && bytes.ContainsRune(trimmed, '"')
	}},
	{"Dockerfile", func(content, trimmed []byte) bool {
		s := string(content)
		return bytes.HasPrefix(trimmed, []byte("FROM ")) ||
			(strings.Contains(s, "\nFROM ") && strings.Contains(s, "\nRUN ")) ||
			(strings.Contains(s, "WORKDIR ") && strings.Contains(s, "COPY "))
	}},
	{"SQL", func(_, trimmed []byte) bool {
		upper := strings.ToUpper(string(trimmed))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{"Rust", func(content, _ []byte) bool {
		return containsAny(string(content), "fn main()", "println!", "let mut ")
	}},
	{"JavaScript", func(content, _ []byte) bool {
		return containsAny(string(content), "=>", "const ", "let ", "console.log")
	}},
	{"YAML", isYAML},
}

func isPython(content, trimmed []byte) bool {
	s := string(content)
	switch {
	case strings.Contains(s, "def ") && strings.Contains(s, "):"):
		return true
	case strings.Contains(s, "__name__"), strings.Contains(s, "__main__"):
		return true
	case strings.Contains(s, "import (") || !strings.Contains(s, "import "):
		return false
	default:
		return strings.Contains(s, "from ") || bytes.HasPrefix(trimmed, []byte("import "))
	}
}

// isYAML counts "key: value" lines and root level list items.
func isYAML(content, _ []byte) bool {
	keys := 0
	for line := range bytes.SplitSeq(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "({") && line[0] != '"' {
			keys++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			keys++
		}
	}
	return keys >= 2
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
