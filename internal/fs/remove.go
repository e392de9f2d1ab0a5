package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// implements guarded deletion: a prune candidate is only removed while it
// still matches the descriptor captured at scan time.

// ErrFileChanged marks a file that was rewritten between classification and
// deletion. The caller should skip it and rescan.
var ErrFileChanged = errors.New("file changed since scan")

func removeIfUnchanged(ctx context.Context, f FS, expected FileInfo) error {
	now, err := f.Stat(expected.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if fileChanged(expected, now) {
		return fmt.Errorf("%s: %w", expected.Path, ErrFileChanged)
	}

	return removeWithRetry(ctx, expected.Path)
}

func fileChanged(orig, now FileInfo) bool {
	if now.Inode != 0 && orig.Inode != 0 && now.Inode != orig.Inode {
		return true
	}
	if now.MTime.After(orig.MTime) {
		return true
	}
	if now.Size != orig.Size {
		return true
	}
	return false
}

func removeWithRetry(ctx context.Context, path string) error {
	return retry(ctx, "remove", func() error {
		err := os.Remove(path)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	})
}
