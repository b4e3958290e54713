package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for files without a snapshot.
const DefaultFileMode os.FileMode = 0o644

// pendingFile is a temp file that becomes its target on commit.
type pendingFile struct {
	*os.File
	target string
}

func createPending(target string) (*pendingFile, error) {
	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &pendingFile{File: f, target: target}, nil
}

// abort discards the temp file. It is safe after commit.
func (p *pendingFile) abort() {
	_ = p.Close()
	_ = os.Remove(p.Name())
}

// commit flushes the temp file, applies mode and renames it over target.
func (p *pendingFile) commit(mode os.FileMode) error {
	if err := p.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := p.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := p.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(p.Name(), p.target); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	syncDir(filepath.Dir(p.target))
	return nil
}

// syncDir persists a rename where the platform allows syncing a
// directory. Failures are ignored since the rename already happened.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// WriteAtomic replaces path with content so readers see either the old or
// the new file, never a mix. A zero mode means DefaultFileMode.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	pending, err := createPending(path)
	if err != nil {
		return err
	}
	defer pending.abort()

	if _, err := pending.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	return pending.commit(mode)
}
