package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/mdtree/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
		mode     os.FileMode
		wantMode os.FileMode
	}{
		{name: "new file default mode", mode: 0, wantMode: fsutil.DefaultFileMode},
		{name: "new file explicit mode", mode: 0o600, wantMode: 0o600},
		{name: "replace existing", existing: "old", mode: 0o644, wantMode: 0o644},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "out.md")
			if tt.existing != "" {
				writeFile(t, path, tt.existing, 0o644)
			}

			if err := fsutil.WriteAtomic(context.Background(), path, []byte("new"), tt.mode); err != nil {
				t.Fatalf("WriteAtomic() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != "new" {
				t.Errorf("content = %q, want %q", got, "new")
			}

			stat, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if stat.Mode().Perm() != tt.wantMode {
				t.Errorf("mode = %o, want %o", stat.Mode().Perm(), tt.wantMode)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 1 {
				t.Errorf("temp files left behind: %d entries", len(entries))
			}
		})
	}
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out.md")
	if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0); err == nil {
		t.Error("expected error for missing directory")
	}
}
