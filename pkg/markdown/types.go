package markdown

import "github.com/yaklabco/mdtree/pkg/tree"

// Type is the ID of a built-in node type. Extension node types get IDs
// after the built-in ones and are looked up by name.
type Type int

// Built-in node types. The order fixes their IDs.
const (
	Document Type = iota + 1

	CodeBlock
	FencedCode
	Blockquote
	HorizontalRule
	BulletList
	OrderedList
	ListItem
	ATXHeading1
	ATXHeading2
	ATXHeading3
	ATXHeading4
	ATXHeading5
	ATXHeading6
	SetextHeading1
	SetextHeading2
	HTMLBlock
	LinkReference
	Paragraph
	CommentBlock
	ProcessingInstructionBlock

	// Inline nodes.
	Escape
	Entity
	HardBreak
	Emphasis
	StrongEmphasis
	Link
	Image
	InlineCode
	HTMLTag
	Comment
	ProcessingInstruction
	Autolink

	// Smaller tokens.
	HeaderMark
	QuoteMark
	ListMark
	LinkMark
	EmphasisMark
	CodeMark
	CodeText
	CodeInfo
	LinkTitle
	LinkLabel
	URL

	typeCount
)

//nolint:gochecknoglobals // Read-only name table for the built-in types.
var typeNames = [...]string{
	Document:                   "Document",
	CodeBlock:                  "CodeBlock",
	FencedCode:                 "FencedCode",
	Blockquote:                 "Blockquote",
	HorizontalRule:             "HorizontalRule",
	BulletList:                 "BulletList",
	OrderedList:                "OrderedList",
	ListItem:                   "ListItem",
	ATXHeading1:                "ATXHeading1",
	ATXHeading2:                "ATXHeading2",
	ATXHeading3:                "ATXHeading3",
	ATXHeading4:                "ATXHeading4",
	ATXHeading5:                "ATXHeading5",
	ATXHeading6:                "ATXHeading6",
	SetextHeading1:             "SetextHeading1",
	SetextHeading2:             "SetextHeading2",
	HTMLBlock:                  "HTMLBlock",
	LinkReference:              "LinkReference",
	Paragraph:                  "Paragraph",
	CommentBlock:               "CommentBlock",
	ProcessingInstructionBlock: "ProcessingInstructionBlock",
	Escape:                     "Escape",
	Entity:                     "Entity",
	HardBreak:                  "HardBreak",
	Emphasis:                   "Emphasis",
	StrongEmphasis:             "StrongEmphasis",
	Link:                       "Link",
	Image:                      "Image",
	InlineCode:                 "InlineCode",
	HTMLTag:                    "HTMLTag",
	Comment:                    "Comment",
	ProcessingInstruction:      "ProcessingInstruction",
	Autolink:                   "Autolink",
	HeaderMark:                 "HeaderMark",
	QuoteMark:                  "QuoteMark",
	ListMark:                   "ListMark",
	LinkMark:                   "LinkMark",
	EmphasisMark:               "EmphasisMark",
	CodeMark:                   "CodeMark",
	CodeText:                   "CodeText",
	CodeInfo:                   "CodeInfo",
	LinkTitle:                  "LinkTitle",
	LinkLabel:                  "LinkLabel",
	URL:                        "URL",
}

func (t Type) String() string {
	if t <= 0 || t >= typeCount {
		return "Type(" + itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// isBlockContext reports whether a built-in type is a composite block.
func isBlockContext(t Type) bool {
	switch t {
	case Document, Blockquote, BulletList, OrderedList, ListItem:
		return true
	default:
		return false
	}
}

// IsHeading returns the heading level of a node type, or 0.
func IsHeading(typ *tree.NodeType) int {
	switch Type(typ.ID) {
	case ATXHeading1, SetextHeading1:
		return 1
	case ATXHeading2, SetextHeading2:
		return 2
	case ATXHeading3:
		return 3
	case ATXHeading4:
		return 4
	case ATXHeading5:
		return 5
	case ATXHeading6:
		return 6
	default:
		return 0
	}
}

func defaultNodeSet() *tree.NodeSet {
	types := make([]*tree.NodeType, typeCount)
	types[0] = tree.None
	for id := Document; id < typeCount; id++ {
		var groups []string
		switch {
		case id >= Escape:
		case isBlockContext(id):
			groups = []string{tree.GroupBlock, tree.GroupBlockContext}
		case id >= ATXHeading1 && id <= SetextHeading2:
			groups = []string{tree.GroupBlock, tree.GroupLeafBlock, tree.GroupHeading}
		default:
			groups = []string{tree.GroupBlock, tree.GroupLeafBlock}
		}
		types[id] = &tree.NodeType{ID: int(id), Name: typeNames[id], Groups: groups}
	}
	return tree.NewNodeSet(types)
}
