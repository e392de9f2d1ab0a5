//go:build unix

package fs

import (
	"os"
	"syscall"
)

// extracts the inode from syscall.Stat_t on Unix. Inode values let guarded
// deletion notice a file that was replaced in place.

func inodeOf(info os.FileInfo) uint64 {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0
	}
	return st.Ino
}
