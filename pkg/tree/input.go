package tree

import (
	"strings"

	"github.com/npillmayer/cords"
)

// Input is the text source a parse reads from.
type Input interface {
	// Length returns the total length of the input in bytes.
	Length() int

	// Chunk returns a piece of text starting at from. It may end anywhere
	// up to the end of the input. When LineChunks is true, chunks end at
	// line boundaries and a chunk of "\n" stands for a line break.
	Chunk(from int) string

	// LineChunks reports whether Chunk always stops at line ends.
	LineChunks() bool

	// Read returns the text between from and to.
	Read(from, to int) string
}

// StringInput is an Input backed by a string.
type StringInput struct {
	text string
}

// NewStringInput wraps text as an Input.
func NewStringInput(text string) *StringInput {
	return &StringInput{text: text}
}

// Length implements Input.
func (s *StringInput) Length() int { return len(s.text) }

// Chunk implements Input.
func (s *StringInput) Chunk(from int) string { return s.text[from:] }

// LineChunks implements Input.
func (s *StringInput) LineChunks() bool { return false }

// Read implements Input.
func (s *StringInput) Read(from, to int) string { return s.text[from:to] }

// CordInput is an Input backed by a rope, so edits to large documents do
// not copy the whole text. Chunks are delivered one line at a time.
type CordInput struct {
	cord   cords.Cord
	length int
}

// NewCordInput wraps a cord as an Input.
func NewCordInput(cord cords.Cord) *CordInput {
	return &CordInput{cord: cord, length: int(cord.Len())}
}

// Cord returns the underlying rope.
func (c *CordInput) Cord() cords.Cord {
	return c.cord
}

// Length implements Input.
func (c *CordInput) Length() int { return c.length }

// LineChunks implements Input.
func (c *CordInput) LineChunks() bool { return true }

// Chunk implements Input. It returns the rest of the line at from, or "\n"
// when from sits on a line break.
func (c *CordInput) Chunk(from int) string {
	if from >= c.length {
		return ""
	}
	const window = 256
	var sb strings.Builder
	for pos := from; pos < c.length; pos += window {
		piece := c.Read(pos, min(pos+window, c.length))
		if idx := strings.IndexByte(piece, '\n'); idx >= 0 {
			if pos == from && idx == 0 {
				return "\n"
			}
			sb.WriteString(piece[:idx])
			return sb.String()
		}
		sb.WriteString(piece)
	}
	return sb.String()
}

// Read implements Input.
func (c *CordInput) Read(from, to int) string {
	if to <= from {
		return ""
	}
	text, err := c.cord.Report(uint64(from), uint64(to-from))
	if err != nil {
		return ""
	}
	return text
}
