package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet() *NodeSet {
	return NewNodeSet([]*NodeType{
		None,
		{ID: 1, Name: "Doc", Groups: []string{GroupBlock, GroupBlockContext}},
		{ID: 2, Name: "Para", Groups: []string{GroupBlock, GroupLeafBlock}},
		{ID: 3, Name: "Em"},
		{ID: 4, Name: "Mark"},
	})
}

// buildDoc creates Doc(Para(Em(Mark,Mark)),Para) over "*a*\n\nbb".
func buildDoc(t *testing.T) *Tree {
	t.Helper()
	set := testSet()
	para1 := Build(BuildSpec{
		Buffer:  []int{4, 0, 1, 4, 4, 2, 3, 4, 3, 0, 3, 12},
		NodeSet: set,
		TopID:   2,
		Length:  3,
	})
	para2 := Leaf(set.Type(2), 2)
	return New(set.Type(1), []*Tree{para1, para2}, []int{0, 5}, 7)
}

func TestTree_StringAndDump(t *testing.T) {
	t.Parallel()

	doc := buildDoc(t)
	assert.Equal(t, "Doc(Para(Em(Mark,Mark)),Para)", doc.String())
	assert.Equal(t, "Doc[0..7](Para[0..3](Em[0..3](Mark[0..1],Mark[2..3])),Para[5..7])", doc.Dump())
}

func TestNode_Navigation(t *testing.T) {
	t.Parallel()

	doc := buildDoc(t)
	top := doc.TopNode()
	first := top.FirstChild()
	require.NotNil(t, first)
	assert.Equal(t, "Para", first.Name())

	second := first.NextSibling()
	require.NotNil(t, second)
	assert.Equal(t, Range{From: 5, To: 7}, second.Range())
	assert.Nil(t, second.NextSibling())
	assert.Equal(t, first.Range(), second.PrevSibling().Range())

	em := first.Child("Em")
	require.NotNil(t, em)
	assert.Len(t, em.ChildrenOf("Mark"), 2)
	assert.Equal(t, "Doc", em.Ancestor(GroupBlockContext).Name())
	assert.Len(t, FindByName(top, GroupLeafBlock), 2)
}

func TestTree_ResolveInner(t *testing.T) {
	t.Parallel()

	doc := buildDoc(t)
	tests := []struct {
		pos, side int
		want      string
	}{
		{0, 1, "Mark"},
		{1, 1, "Em"},
		{3, -1, "Mark"},
		{3, 1, "Doc"},
		{4, 0, "Doc"},
		{6, 0, "Para"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, doc.ResolveInner(tt.pos, tt.side).Name(), "pos %d side %d", tt.pos, tt.side)
	}
}

func TestTree_Iterate(t *testing.T) {
	t.Parallel()

	doc := buildDoc(t)

	var entered, left []string
	doc.Iterate(IterateSpec{
		Enter: func(n *Node) bool {
			entered = append(entered, n.Name())
			return n.Name() != "Em"
		},
		Leave: func(n *Node) { left = append(left, n.Name()) },
	})
	assert.Equal(t, []string{"Doc", "Para", "Em", "Para"}, entered)
	assert.Equal(t, []string{"Para", "Para", "Doc"}, left)

	var ranged []string
	doc.Iterate(IterateSpec{From: 5, To: 6, Enter: func(n *Node) bool {
		ranged = append(ranged, n.Name())
		return true
	}})
	assert.Equal(t, []string{"Doc", "Para"}, ranged)
}

func TestBalance(t *testing.T) {
	t.Parallel()

	set := testSet()
	children := make([]*Tree, 20)
	positions := make([]int, 20)
	for i := range children {
		children[i] = Leaf(set.Type(2), 1)
		positions[i] = i * 2
	}
	doc := New(set.Type(1), children, positions, 39).Balance(7)

	assert.LessOrEqual(t, doc.ChildCount(), BranchFactor)
	group, _ := doc.Child(0)
	assert.True(t, group.Type().IsAnonymous())
	assert.Equal(t, uint32(7), group.ContextHash())

	named := doc.TopNode().Children()
	require.Len(t, named, 20)
	for i, n := range named {
		assert.Equal(t, Range{From: i * 2, To: i*2 + 1}, n.Range())
	}
}

func TestCursor_WalksBalanceGroups(t *testing.T) {
	t.Parallel()

	set := testSet()
	children := make([]*Tree, 10)
	positions := make([]int, 10)
	for i := range children {
		children[i] = Leaf(set.Type(2), 1)
		positions[i] = i
	}
	doc := New(set.Type(1), children, positions, 10).Balance(0)

	c := doc.Cursor()
	require.True(t, c.FirstChild())
	for c.Type().IsAnonymous() {
		require.True(t, c.FirstChild())
	}
	count := 1
	for c.NextSibling() {
		if c.Type().IsAnonymous() {
			require.True(t, c.FirstChild())
		}
		count++
	}
	assert.Equal(t, 10, count)

	c = doc.Cursor()
	require.True(t, c.ChildAfter(6))
	for c.Type().IsAnonymous() {
		require.True(t, c.ChildAfter(6))
	}
	assert.Equal(t, 6, c.From())
}

func TestNodeSet_Extend(t *testing.T) {
	t.Parallel()

	set := testSet()
	ext := set.Extend(NodeType{Name: "Table", Groups: []string{GroupBlock}}, NodeType{Name: "Para"})

	assert.Equal(t, set.Len()+1, ext.Len())
	typ, ok := ext.Lookup("Table")
	require.True(t, ok)
	assert.Equal(t, set.Len(), typ.ID)
	_, ok = set.Lookup("Table")
	assert.False(t, ok)
	assert.NotEqual(t, set.Fingerprint(), ext.Fingerprint())
	assert.Equal(t, set.Fingerprint(), testSet().Fingerprint())
	assert.Same(t, None, ext.Type(99))
}

func TestNewNodeSet_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewNodeSet(nil) })
	assert.Panics(t, func() { NewNodeSet([]*NodeType{None, {ID: 2, Name: "X"}}) })
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	doc := buildDoc(t)
	data := Encode(doc, testSet())
	got, err := Decode(data, testSet())
	require.NoError(t, err)
	assert.Equal(t, doc.Dump(), got.Dump())

	other := testSet().Extend(NodeType{Name: "Extra"})
	_, err = Decode(data, other)
	require.ErrorIs(t, err, ErrNodeSetMismatch)

	_, err = Decode([]byte("nope"), testSet())
	require.ErrorIs(t, err, ErrCorruptEncoding)

	_, err = Decode(data[:len(data)-2], testSet())
	require.ErrorIs(t, err, ErrCorruptEncoding)
}

func TestTree_WithMounts(t *testing.T) {
	t.Parallel()

	doc := buildDoc(t)
	mounted := doc.WithMounts([]Mount{{From: 5, To: 7, Host: "Para", Selector: "html"}})

	assert.Empty(t, doc.Mounts())
	require.Len(t, mounted.Mounts(), 1)
	assert.Equal(t, doc.Dump(), mounted.Dump())
}

func TestNew_PanicsOnMismatch(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { New(None, []*Tree{Leaf(None, 1)}, nil, 1) })
}

func TestMount_PositionMapping(t *testing.T) {
	t.Parallel()

	m := Mount{From: 0, To: 30, Overlay: []Range{{From: 2, To: 8}, {From: 12, To: 20}}}
	tests := []struct {
		sub, doc int
	}{
		{0, 2},
		{5, 7},
		{6, 8},
		{7, 13},
		{14, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.doc, m.DocPos(tt.sub), "DocPos(%d)", tt.sub)
	}

	sub, ok := m.SubPos(13)
	require.True(t, ok)
	assert.Equal(t, 7, sub)

	_, ok = m.SubPos(10)
	assert.False(t, ok)

	whole := Mount{From: 4, To: 9}
	assert.Equal(t, 6, whole.DocPos(2))
}
