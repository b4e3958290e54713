// Package edit provides text edits, their validation and application, and
// their translation into the changed ranges used for incremental parsing.
package edit

// TextEdit replaces the bytes [From, To) of a document with Insert.
type TextEdit struct {
	// From is the byte index where the edit begins (inclusive).
	From int

	// To is the byte index where the edit ends (exclusive).
	To int

	// Insert is the replacement text.
	Insert string
}

// Delta returns how much the edit changes the document length.
func (e TextEdit) Delta() int {
	return len(e.Insert) - (e.To - e.From)
}

// Builder accumulates edits for one document.
type Builder struct {
	Edits []TextEdit
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{Edits: make([]TextEdit, 0)}
}

// Replace adds an edit that replaces bytes [from, to) with text.
func (b *Builder) Replace(from, to int, text string) *Builder {
	b.Edits = append(b.Edits, TextEdit{From: from, To: to, Insert: text})
	return b
}

// Insert adds an edit that inserts text at pos.
func (b *Builder) Insert(pos int, text string) *Builder {
	return b.Replace(pos, pos, text)
}

// Delete adds an edit that deletes bytes [from, to).
func (b *Builder) Delete(from, to int) *Builder {
	return b.Replace(from, to, "")
}
