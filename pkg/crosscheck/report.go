package crosscheck

import (
	"fmt"
	"slices"
	"strings"
)

// Mismatch is one difference between the two parses. Want comes from
// goldmark and Got from mdtree.
type Mismatch struct {
	// Index is the position in the block outline, or -1 for inline
	// count differences.
	Index   int
	Message string
}

func (m Mismatch) String() string {
	if m.Index < 0 {
		return m.Message
	}
	return fmt.Sprintf("block %d: %s", m.Index+1, m.Message)
}

// Report is the result of checking one file.
type Report struct {
	Path       string
	Blocks     int
	Mismatches []Mismatch
}

// OK reports whether both parses agree.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0
}

// String renders the report as one line per mismatch.
func (r *Report) String() string {
	if r.OK() {
		return fmt.Sprintf("%s: ok (%d blocks)", r.Path, r.Blocks)
	}
	var sb strings.Builder
	for _, m := range r.Mismatches {
		fmt.Fprintf(&sb, "%s: %s\n", r.Path, m)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// maxBlockMismatches caps the outline differences reported per file;
// after the first structural difference the rest usually follows from it.
const maxBlockMismatches = 5

func compare(want, got *shape) []Mismatch {
	var out []Mismatch
	n := max(len(want.blocks), len(got.blocks))
	for i := 0; i < n && len(out) < maxBlockMismatches; i++ {
		switch {
		case i >= len(got.blocks):
			out = append(out, Mismatch{Index: i, Message: "missing " + want.blocks[i].String()})
		case i >= len(want.blocks):
			out = append(out, Mismatch{Index: i, Message: "unexpected " + got.blocks[i].String()})
		case !sameBlock(want.blocks[i], got.blocks[i]):
			out = append(out, Mismatch{
				Index:   i,
				Message: fmt.Sprintf("want %s, got %s", want.blocks[i], got.blocks[i]),
			})
		}
	}

	kinds := make([]string, 0, len(want.inlines)+len(got.inlines))
	for kind := range want.inlines {
		kinds = append(kinds, kind)
	}
	for kind := range got.inlines {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	for _, kind := range slices.Compact(kinds) {
		if w, g := want.inlines[kind], got.inlines[kind]; w != g {
			out = append(out, Mismatch{Index: -1, Message: fmt.Sprintf("%s count: want %d, got %d", kind, w, g)})
		}
	}
	return out
}

// sameBlock compares lines only when both sides recorded one.
func sameBlock(a, b Block) bool {
	if a.Kind != b.Kind || a.Level != b.Level || a.Depth != b.Depth {
		return false
	}
	return a.Line == 0 || b.Line == 0 || a.Line == b.Line
}
