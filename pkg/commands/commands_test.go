package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/markdown"
)

type commandFunc func(text string, pos int) (Result, bool)

func run(t *testing.T, cmd commandFunc, text string, pos int) (string, int, bool) {
	t.Helper()
	r, ok := cmd(text, pos)
	if !ok {
		return text, pos, false
	}
	got, err := r.Apply(text)
	require.NoError(t, err)
	return got, r.Cursor, true
}

func enter(text string, pos int) (Result, bool) {
	return Enter(markdown.Default().ParseString(text), text, pos)
}

func backspace(text string, pos int) (Result, bool) {
	return Backspace(markdown.Default().ParseString(text), text, pos)
}

func TestEnter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		pos    int
		want   string
		cursor int
		ok     bool
	}{
		{"plain paragraph", "abc", 3, "abc", 3, false},
		{"before markup", "- a", 0, "- a", 0, false},
		{"bullet item", "- a", 3, "- a\n- ", 6, true},
		{"task item", "- [x] a", 7, "- [x] a\n- [ ] ", 14, true},
		{"ordered renumbers", "1. a\n2. b", 4, "1. a\n2. \n3. b", 8, true},
		{"blockquote", "> a", 3, "> a\n> ", 6, true},
		{"empty quote line trims space", "> a\n> ", 6, "> a\n>\n> ", 8, true},
		{"second empty quote line exits", "> a\n>\n> ", 8, "> a\n\n", 5, true},
		{"quote in list item", "- a\n  > b", 9, "- a\n  > b\n  > ", 14, true},
		{"empty only item", "- ", 2, "", 0, true},
		{"empty second item loosens list", "- a\n- ", 6, "- a\n\n- ", 7, true},
		{"empty item after blank line", "- a\n\n- ", 7, "- a\n\n", 5, true},
		{"empty ordered item renumbers", "1. a\n2. b\n3. \n4. c", 13, "1. a\n2. b\n\n3. c", 10, true},
		{"loose list stays loose", "- a\n\n- b", 8, "- a\n\n- b\n\n- ", 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, cursor, ok := run(t, enter, tt.text, tt.pos)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.cursor, cursor)
		})
	}
}

func TestBackspace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		pos    int
		want   string
		cursor int
		ok     bool
	}{
		{"plain text", "abc", 3, "abc", 3, false},
		{"inside item text", "- abc", 5, "- abc", 5, false},
		{"only bullet", "- ", 2, "", 0, true},
		{"only quote", "> ", 2, "", 0, true},
		{"extra spaces after marker", "-   ", 4, "- ", 2, true},
		{"continuation item becomes indent", "- a\n- ", 6, "- a\n  ", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, cursor, ok := run(t, backspace, tt.text, tt.pos)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.cursor, cursor)
		})
	}
}

func TestEnter_ThenReparse(t *testing.T) {
	t.Parallel()

	text := "1. one\n2. two"
	got, cursor, ok := run(t, enter, text, len("1. one"))
	require.True(t, ok)

	got = got[:cursor] + "new" + got[cursor:]
	doc := markdown.Default().ParseString(got)
	list := doc.TopNode().FirstChild()
	require.Equal(t, "OrderedList", list.Name())
	assert.Len(t, list.ChildrenOf("ListItem"), 3)
	assert.Equal(t, "1. one\n2. new\n3. two", got)
}

func TestCountColumn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, countColumn("abc", 4, 0))
	assert.Equal(t, 3, countColumn("abc", 4, 3))
	assert.Equal(t, 4, countColumn("\tx", 4, 1))
	assert.Equal(t, 8, countColumn("ab\tx\t", 4, 5))
}
