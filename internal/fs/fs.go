// Package fs defines the filesystem abstraction used by the pruner.
// The engine itself is read-only; this layer covers directory scanning and
// the guarded deletion of confirmed prune candidates.
package fs

import (
	"context"
	"time"
)

// FileInfo describes one candidate file as it looked at scan time. The
// inode (where available) lets deletion detect a file that was replaced
// after classification.
type FileInfo struct {
	Path  string
	Size  int64
	MTime time.Time
	Inode uint64
}

type FS interface {
	Stat(path string) (FileInfo, error)
	// ReadDir lists the regular files directly inside dir.
	ReadDir(dir string) ([]FileInfo, error)
	Remove(ctx context.Context, path string) error
	// RemoveIfUnchanged deletes expected.Path only if the file still
	// matches the captured size, mtime and inode. A file rewritten since
	// the scan returns ErrFileChanged; a file already gone is not an
	// error.
	RemoveIfUnchanged(ctx context.Context, expected FileInfo) error
}
