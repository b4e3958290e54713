package edit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/edit"
	"github.com/yaklabco/mdtree/pkg/tree"
)

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		edits []edit.TextEdit
		want  string
	}{
		{"no edits", "hello world", nil, "hello world"},
		{"replace", "hello world", []edit.TextEdit{{From: 0, To: 5, Insert: "hi"}}, "hi world"},
		{"insert", "hello world", []edit.TextEdit{{From: 5, To: 5, Insert: " big"}}, "hello big world"},
		{"delete", "hello world", []edit.TextEdit{{From: 5, To: 11}}, "hello"},
		{
			name:  "unsorted",
			text:  "hello world",
			edits: []edit.TextEdit{{From: 6, To: 11, Insert: "there"}, {From: 0, To: 5, Insert: "hi"}},
			want:  "hi there",
		},
		{
			name:  "adjacent",
			text:  "abcdef",
			edits: []edit.TextEdit{{From: 0, To: 2, Insert: "X"}, {From: 2, To: 4, Insert: "Y"}},
			want:  "XYef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := edit.Apply(tt.text, tt.edits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		edits    []edit.TextEdit
		conflict bool
	}{
		{"negative start", []edit.TextEdit{{From: -1, To: 2}}, false},
		{"inverted", []edit.TextEdit{{From: 3, To: 2}}, false},
		{"past end", []edit.TextEdit{{From: 0, To: 99}}, false},
		{"overlap", []edit.TextEdit{{From: 0, To: 3}, {From: 2, To: 4}}, true},
		{"double insert", []edit.TextEdit{{From: 1, To: 1, Insert: "a"}, {From: 1, To: 1, Insert: "b"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := edit.Apply("abcdef", tt.edits)
			require.Error(t, err)
			if tt.conflict {
				var conflict *edit.ConflictError
				require.ErrorAs(t, err, &conflict)
				return
			}
			var invalid *edit.ValidationError
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestPrepare_DoesNotReorderInput(t *testing.T) {
	t.Parallel()

	edits := []edit.TextEdit{{From: 4, To: 5}, {From: 0, To: 1}}
	sorted, err := edit.Prepare(edits, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, sorted[0].From)
	assert.Equal(t, 4, edits[0].From)
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	b := edit.NewBuilder().Insert(0, "> ").Delete(3, 4).Replace(5, 6, "x")
	assert.Equal(t, []edit.TextEdit{
		{From: 0, To: 0, Insert: "> "},
		{From: 3, To: 4},
		{From: 5, To: 6, Insert: "x"},
	}, b.Edits)
}

func TestChangedRanges(t *testing.T) {
	t.Parallel()

	edits := []edit.TextEdit{
		{From: 2, To: 2, Insert: "abc"},
		{From: 10, To: 14, Insert: "z"},
		{From: 20, To: 21},
	}
	assert.Equal(t, []tree.ChangedRange{
		{FromA: 2, ToA: 2, FromB: 2, ToB: 5},
		{FromA: 10, ToA: 14, FromB: 13, ToB: 14},
		{FromA: 20, ToA: 21, FromB: 20, ToB: 20},
	}, edit.ChangedRanges(edits))
	assert.Nil(t, edit.ChangedRanges(nil))
}

func TestMapPos(t *testing.T) {
	t.Parallel()

	edits := []edit.TextEdit{
		{From: 2, To: 2, Insert: "abc"},
		{From: 10, To: 14, Insert: "z"},
	}
	tests := []struct {
		pos, want int
	}{
		{0, 0},
		{2, 5},
		{5, 8},
		{10, 13},
		{12, 14},
		{14, 14},
		{20, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, edit.MapPos(edits, tt.pos), "pos %d", tt.pos)
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	text := "- a\n- b\nend"
	edits := []edit.TextEdit{{From: 3, To: 3, Insert: "\n- "}}
	want := "--- a/x.md\n+++ b/x.md\n@@ -1,1 +1,2 @@\n-- a\n+- a\n+- \n"
	assert.Equal(t, want, edit.Diff("x.md", text, edits))
	assert.Empty(t, edit.Diff("x.md", text, nil))
}

func TestHunks_LineNumbersShift(t *testing.T) {
	t.Parallel()

	text := "one\ntwo\nthree\nfour"
	edits := []edit.TextEdit{
		{From: 3, To: 3, Insert: "\nextra"},
		{From: 14, To: 18, Insert: "FOUR"},
	}
	hunks := edit.Hunks(text, edits)
	require.Len(t, hunks, 2)
	assert.Equal(t, 1, hunks[0].OldStart)
	assert.Equal(t, []string{"one", "extra"}, hunks[0].Added)
	assert.Equal(t, 4, hunks[1].OldStart)
	assert.Equal(t, 5, hunks[1].NewStart)
	assert.Equal(t, []string{"FOUR"}, hunks[1].Added)
}

func FuzzApply(f *testing.F) {
	f.Add("hello world", 2, 5, "xyz")
	f.Add("", 0, 0, "a")
	f.Add("a\nb", 1, 2, "")

	f.Fuzz(func(t *testing.T, text string, from, to int, insert string) {
		e := edit.TextEdit{From: from, To: to, Insert: insert}
		got, err := edit.Apply(text, []edit.TextEdit{e})
		if err != nil {
			return
		}
		if len(got) != len(text)+e.Delta() {
			t.Fatalf("length %d, want %d", len(got), len(text)+e.Delta())
		}
		ranges := edit.ChangedRanges([]edit.TextEdit{e})
		if got[ranges[0].FromB:ranges[0].ToB] != insert {
			t.Fatalf("changed range does not cover the insertion")
		}
	})
}

func TestBetween(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want edit.TextEdit
	}{
		{"append", "- a\n", "- a\n- ", edit.TextEdit{From: 4, To: 4, Insert: "- "}},
		{"equal", "abc", "abc", edit.TextEdit{From: 3, To: 3}},
		{"replace middle", "one two three", "one 2 three", edit.TextEdit{From: 4, To: 7, Insert: "2"}},
		{"delete prefix", "> quote", "quote", edit.TextEdit{From: 0, To: 2}},
		{"repeated runes", "aaa", "aa", edit.TextEdit{From: 2, To: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := edit.Between(tt.a, tt.b)
			assert.Equal(t, tt.want, got)

			applied, err := edit.Apply(tt.a, []edit.TextEdit{got})
			require.NoError(t, err)
			assert.Equal(t, tt.b, applied)
		})
	}
}
