package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupSuffix is appended to a file's path to name its backup.
const BackupSuffix = ".mdtree.bak"

// BackupPath returns the sidecar backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies path to its sidecar backup. An existing backup is
// kept so repeated rewrites never lose the first original. It reports
// whether a backup was written.
func CreateBackup(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}
	backup := BackupPath(path)
	exists, err := pathExists(backup)
	if err != nil || exists {
		return false, err
	}
	copied, err := copyAtomic(ctx, path, backup)
	if err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return copied, nil
}

// RestoreBackup copies the sidecar backup back over path. It reports false
// when there is no backup.
func RestoreBackup(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("restore backup: %w", err)
	}
	restored, err := copyAtomic(ctx, BackupPath(path), path)
	if err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}
	return restored, nil
}

// RemoveBackup deletes the sidecar backup, reporting whether one existed.
func RemoveBackup(path string) (bool, error) {
	err := os.Remove(BackupPath(path))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("remove backup: %w", err)
	}
}

// copyAtomic copies src over dst keeping the mode of src. A missing src
// copies nothing.
func copyAtomic(ctx context.Context, src, dst string) (bool, error) {
	info, err := os.Stat(src)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", src, err)
	}
	content, err := os.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", src, err)
	}
	if err := WriteAtomic(ctx, dst, content, info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
