package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/mdtree/pkg/fsutil"
)

func FuzzCommit(f *testing.F) {
	f.Add("", "x")
	f.Add("- a\n", "- a\n- \n")
	f.Add("same", "same")
	f.Add("\x00\xff", "\n\n")

	f.Fuzz(func(t *testing.T, before, after string) {
		path := filepath.Join(t.TempDir(), "doc.md")
		if err := os.WriteFile(path, []byte(before), 0o644); err != nil {
			t.Fatal(err)
		}

		_, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatal(err)
		}

		written, err := fsutil.Commit(context.Background(), snap, []byte(after), fsutil.CommitOptions{})
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
		if written != (before != after) {
			t.Errorf("written = %v for %q -> %q", written, before, after)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != after {
			t.Errorf("content = %q, want %q", got, after)
		}
	})
}
