package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/mdtree/pkg/fsutil"
)

func TestCommit(t *testing.T) {
	t.Parallel()

	t.Run("writes new content and keeps mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, path, "- a\n", 0o640)
		_, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatal(err)
		}

		written, err := fsutil.Commit(context.Background(), snap, []byte("- a\n- \n"), fsutil.CommitOptions{})
		if err != nil || !written {
			t.Fatalf("Commit() = %v, %v; want true, nil", written, err)
		}

		got, _ := os.ReadFile(path)
		if string(got) != "- a\n- \n" {
			t.Errorf("content = %q", got)
		}
		stat, _ := os.Stat(path)
		if stat.Mode().Perm() != 0o640 {
			t.Errorf("mode = %o, want 640", stat.Mode().Perm())
		}
		if _, err := os.Stat(fsutil.BackupPath(path)); !errors.Is(err, os.ErrNotExist) {
			t.Error("backup written without Backup option")
		}
	})

	t.Run("unchanged content is not written", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, path, "same", 0o644)
		content, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatal(err)
		}

		written, err := fsutil.Commit(context.Background(), snap, content, fsutil.CommitOptions{Backup: true})
		if err != nil || written {
			t.Errorf("Commit() = %v, %v; want false, nil", written, err)
		}
		if _, err := os.Stat(fsutil.BackupPath(path)); !errors.Is(err, os.ErrNotExist) {
			t.Error("backup written for a no-op commit")
		}
	})

	t.Run("backup", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, path, "before", 0o644)
		_, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := fsutil.Commit(context.Background(), snap, []byte("after"), fsutil.CommitOptions{Backup: true}); err != nil {
			t.Fatal(err)
		}
		backup, err := os.ReadFile(fsutil.BackupPath(path))
		if err != nil {
			t.Fatal(err)
		}
		if string(backup) != "before" {
			t.Errorf("backup = %q, want before", backup)
		}
	})

	t.Run("concurrent modification", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, path, "v1", 0o644)
		_, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatal(err)
		}
		writeFile(t, path, "someone else", 0o644)

		_, err = fsutil.Commit(context.Background(), snap, []byte("mine"), fsutil.CommitOptions{})
		if !errors.Is(err, fsutil.ErrModified) {
			t.Errorf("error = %v, want ErrModified", err)
		}
		got, _ := os.ReadFile(path)
		if string(got) != "someone else" {
			t.Errorf("file overwritten: %q", got)
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		t.Parallel()

		if _, err := fsutil.Commit(context.Background(), nil, nil, fsutil.CommitOptions{}); !errors.Is(err, fsutil.ErrNilSnapshot) {
			t.Errorf("error = %v, want ErrNilSnapshot", err)
		}
	})
}
