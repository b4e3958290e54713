package fsutil

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// CommitOptions controls Commit.
type CommitOptions struct {
	// Backup writes a sidecar copy of the original before replacing it.
	Backup bool
}

// Commit replaces the file described by snap with content. It fails with
// ErrModified when the file changed after the snapshot, and does nothing
// when content equals what was read. It reports whether the file was
// written.
func Commit(ctx context.Context, snap *Snapshot, content []byte, opts CommitOptions) (bool, error) {
	if snap == nil {
		return false, ErrNilSnapshot
	}
	if xxhash.Sum64(content) == snap.Hash && int64(len(content)) == snap.Size {
		return false, nil
	}

	changed, err := Changed(ctx, snap)
	if err != nil {
		return false, err
	}
	if changed {
		return false, fmt.Errorf("%w: %s", ErrModified, snap.Path)
	}

	if opts.Backup {
		if _, err := CreateBackup(ctx, snap.Path); err != nil {
			return false, err
		}
	}

	if err := WriteAtomic(ctx, snap.Path, content, snap.Mode.Perm()); err != nil {
		return false, err
	}
	return true, nil
}
