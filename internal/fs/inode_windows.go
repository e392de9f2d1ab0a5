//go:build windows

package fs

import "os"

// Windows does not expose POSIX inodes; guarded deletion falls back to
// size and mtime comparison there.

func inodeOf(info os.FileInfo) uint64 {
	_ = info
	return 0
}
