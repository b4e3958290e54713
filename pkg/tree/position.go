package tree

import "strconv"

// Range is a half-open byte range [From, To).
type Range struct {
	From int
	To   int
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.To - r.From
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.From == r.To
}

// Contains returns true if the given offset is within this range.
func (r Range) Contains(offset int) bool {
	return offset >= r.From && offset < r.To
}

// ChangedRange describes one edit between an old document (A) and a new
// one (B). FromA/ToA are positions in the old text, FromB/ToB in the new.
type ChangedRange struct {
	FromA, ToA int
	FromB, ToB int
}

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
