package edit

import (
	"fmt"
	"slices"
)

// ValidationError describes an edit whose range does not fit the document.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.From, e.Edit.To, e.Message)
}

// ConflictError describes two overlapping edits.
type ConflictError struct {
	First  TextEdit
	Second TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.From, e.First.To, e.Second.From, e.Second.To)
}

// Validate checks that every edit lies within a document of length n.
func Validate(edits []TextEdit, n int) error {
	for _, e := range edits {
		switch {
		case e.From < 0:
			return &ValidationError{Edit: e, Message: "start offset is negative"}
		case e.To < e.From:
			return &ValidationError{Edit: e, Message: "end offset is before start offset"}
		case e.To > n:
			return &ValidationError{Edit: e, Message: fmt.Sprintf("end offset %d exceeds length %d", e.To, n)}
		}
	}
	return nil
}

// Sort orders edits by start, then by end.
func Sort(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if a.From != b.From {
			return a.From - b.From
		}
		return a.To - b.To
	})
}

// DetectConflicts reports the first overlap in a sorted slice. Two
// insertions at the same position also conflict, since their order would
// be ambiguous.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev, curr := edits[i-1], edits[i]
		if curr.From < prev.To || (curr.From == prev.From && curr.From == curr.To && prev.From == prev.To) {
			return &ConflictError{First: prev, Second: curr}
		}
	}
	return nil
}

// Prepare validates a copy of the edits, sorts it and rejects overlaps.
func Prepare(edits []TextEdit, n int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}
	if err := Validate(edits, n); err != nil {
		return nil, err
	}
	sorted := slices.Clone(edits)
	Sort(sorted)
	if err := DetectConflicts(sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}
