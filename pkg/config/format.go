package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned for an output format that is not recognized.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseOutputFormat resolves a --format flag value. The empty string maps
// to FormatDump.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatDump, nil
	case FormatDump, FormatTree, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want dump, tree, or json)", ErrUnknownFormat, s)
	}
}

// IsValid reports whether f is a known format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatDump, FormatTree, FormatJSON:
		return true
	default:
		return false
	}
}
