package tree

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Node groups shared by the Markdown node types.
const (
	GroupBlock        = "Block"
	GroupBlockContext = "BlockContext"
	GroupLeafBlock    = "LeafBlock"
	GroupHeading      = "Heading"
)

// NodeType describes one kind of node. Types are immutable once they
// are part of a NodeSet.
type NodeType struct {
	// ID is the index of the type in its NodeSet. ID 0 is reserved for
	// anonymous balance nodes.
	ID int

	// Name is the type name used by consumers ("Paragraph", "Emphasis").
	Name string

	// Groups lists the groups this type belongs to ("Block", "Heading").
	Groups []string
}

// None is the anonymous type used for balance groups. It is always ID 0.
//
//nolint:gochecknoglobals // Immutable sentinel shared by every NodeSet.
var None = &NodeType{ID: 0}

// IsAnonymous reports whether nodes of this type are structural only.
func (t *NodeType) IsAnonymous() bool {
	return t.ID == 0
}

// Is reports whether the type has the given name or belongs to a group of
// that name.
func (t *NodeType) Is(name string) bool {
	return t.Name == name || t.InGroup(name)
}

// InGroup reports whether the type belongs to the named group.
func (t *NodeType) InGroup(group string) bool {
	return slices.Contains(t.Groups, group)
}

func (t *NodeType) String() string {
	if t.IsAnonymous() {
		return "⚠"
	}
	return t.Name
}

// NodeSet is an immutable table of node types indexed by ID. Each parser
// instance owns its own set.
type NodeSet struct {
	types  []*NodeType
	byName map[string]*NodeType
}

// NewNodeSet builds a set from types whose IDs match their position in the
// slice. The first entry must be None. It panics on a malformed table,
// which is always a programming error.
func NewNodeSet(types []*NodeType) *NodeSet {
	if len(types) == 0 || types[0] != None {
		panic("tree: node set must start with tree.None")
	}
	set := &NodeSet{
		types:  slices.Clone(types),
		byName: make(map[string]*NodeType, len(types)),
	}
	for idx, typ := range types {
		if typ.ID != idx {
			panic(fmt.Sprintf("tree: node type %q has id %d at position %d", typ.Name, typ.ID, idx))
		}
		if idx > 0 {
			set.byName[typ.Name] = typ
		}
	}
	return set
}

// Len returns the number of types including None.
func (s *NodeSet) Len() int {
	return len(s.types)
}

// Type returns the type with the given ID, or None if out of range.
func (s *NodeSet) Type(id int) *NodeType {
	if id < 0 || id >= len(s.types) {
		return None
	}
	return s.types[id]
}

// Lookup finds a type by name.
func (s *NodeSet) Lookup(name string) (*NodeType, bool) {
	typ, ok := s.byName[name]
	return typ, ok
}

// Types returns a copy of the type table.
func (s *NodeSet) Types() []*NodeType {
	return slices.Clone(s.types)
}

// Extend returns a new set with the given types appended. Types whose name
// already exists are skipped; IDs are assigned by position.
func (s *NodeSet) Extend(defs ...NodeType) *NodeSet {
	types := slices.Clone(s.types)
	for _, def := range defs {
		if _, exists := s.byName[def.Name]; exists {
			continue
		}
		if slices.ContainsFunc(types[len(s.types):], func(t *NodeType) bool { return t.Name == def.Name }) {
			continue
		}
		types = append(types, &NodeType{ID: len(types), Name: def.Name, Groups: slices.Clone(def.Groups)})
	}
	return NewNodeSet(types)
}

// Fingerprint hashes the ordered type names. Encoded trees can only be
// decoded against a set with the same fingerprint.
func (s *NodeSet) Fingerprint() uint64 {
	digest := xxhash.New()
	for _, typ := range s.types[1:] {
		_, _ = digest.WriteString(typ.Name)
		_, _ = digest.WriteString("\x00")
	}
	return digest.Sum64()
}
