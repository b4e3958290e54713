package analysis

import (
	"fmt"
	"strings"
)

// SortField orders the per-file and per-node tables.
type SortField string

const (
	// SortByCount orders by node count.
	SortByCount SortField = "count"
	// SortByAlpha orders by path or node type name.
	SortByAlpha SortField = "alpha"
	// SortBySize orders files by bytes and node types by how many files
	// contain them.
	SortBySize SortField = "size"
)

// SortFields lists the valid sort orders.
func SortFields() []SortField {
	return []SortField{SortByCount, SortByAlpha, SortBySize}
}

// IsValid reports whether s names a sort order.
func (s SortField) IsValid() bool {
	for _, f := range SortFields() {
		if s == f {
			return true
		}
	}
	return false
}

// ParseSortField resolves a sort order name. The empty name means count.
func ParseSortField(name string) (SortField, error) {
	if name == "" {
		return SortByCount, nil
	}
	if f := SortField(name); f.IsValid() {
		return f, nil
	}
	valid := make([]string, 0, len(SortFields()))
	for _, f := range SortFields() {
		valid = append(valid, string(f))
	}
	return "", fmt.Errorf("unknown sort order %q; valid orders: %s", name, strings.Join(valid, ", "))
}

// Options selects what Analyze computes.
type Options struct {
	IncludeMismatches bool
	IncludeByFile     bool
	IncludeByNode     bool

	SortBy   SortField
	SortDesc bool

	// WorkingDir, when set, makes file paths relative to it.
	WorkingDir string
}

// DefaultOptions computes every section, largest first by count.
func DefaultOptions() Options {
	return Options{
		IncludeMismatches: true,
		IncludeByFile:     true,
		IncludeByNode:     true,
		SortBy:            SortByCount,
		SortDesc:          true,
	}
}
