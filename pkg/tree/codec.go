package tree

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Encoding errors.
var (
	ErrCorruptEncoding = errors.New("corrupt tree encoding")
	ErrNodeSetMismatch = errors.New("tree was encoded with a different node set")
)

const codecMagic = "MDT1"

// Encode serializes a tree into a compact byte form. Balance nodes are
// dropped and rebuilt by Decode; mounts are not encoded.
func Encode(t *Tree, set *NodeSet) []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, codecMagic...)
	buf = binary.AppendUvarint(buf, set.Fingerprint())
	return encodeNode(buf, t.TopNode(), 0)
}

func encodeNode(buf []byte, node *Node, base int) []byte {
	children := node.Children()
	buf = binary.AppendUvarint(buf, uint64(node.Type().ID))
	buf = binary.AppendUvarint(buf, uint64(node.From()-base))
	buf = binary.AppendUvarint(buf, uint64(node.Tree().Length()))
	buf = binary.AppendUvarint(buf, uint64(node.Tree().ContextHash()))
	buf = binary.AppendUvarint(buf, uint64(len(children)))
	for _, child := range children {
		buf = encodeNode(buf, child, node.From())
	}
	return buf
}

// Decode restores a tree produced by Encode. The node set must be the one
// the tree was encoded with.
func Decode(data []byte, set *NodeSet) (*Tree, error) {
	if len(data) < len(codecMagic) || string(data[:len(codecMagic)]) != codecMagic {
		return nil, ErrCorruptEncoding
	}
	dec := &decoder{data: data[len(codecMagic):], set: set}
	fingerprint := dec.uvarint()
	if dec.err != nil {
		return nil, dec.err
	}
	if fingerprint != set.Fingerprint() {
		return nil, ErrNodeSetMismatch
	}
	result, _ := dec.node()
	if dec.err != nil {
		return nil, fmt.Errorf("decode tree: %w", dec.err)
	}
	return result, nil
}

type decoder struct {
	data []byte
	set  *NodeSet
	err  error
}

func (d *decoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	val, n := binary.Uvarint(d.data)
	if n <= 0 {
		d.err = ErrCorruptEncoding
		return 0
	}
	d.data = d.data[n:]
	return val
}

func (d *decoder) node() (*Tree, int) {
	typID := int(d.uvarint())
	pos := int(d.uvarint())
	length := int(d.uvarint())
	hash := uint32(d.uvarint())
	count := int(d.uvarint())
	if d.err != nil {
		return nil, 0
	}
	if typID <= 0 || typID >= d.set.Len() || count > len(d.data) {
		d.err = ErrCorruptEncoding
		return nil, 0
	}
	children := make([]*Tree, 0, count)
	positions := make([]int, 0, count)
	var groupHash uint32
	for range count {
		child, childPos := d.node()
		if d.err != nil {
			return nil, 0
		}
		groupHash = child.hash
		children = append(children, child)
		positions = append(positions, childPos)
	}
	t := New(d.set.Type(typID), children, positions, length)
	t.hash = hash
	return balance(t, groupHash), pos
}
