package fs

import (
	"context"
	"os"
	"path/filepath"
)

// OSFS is the concrete FS backed by the local filesystem. Platform details
// (inode extraction) live in build-tagged files.
type OSFS struct{}

func New() *OSFS {
	return &OSFS{}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}

	return FileInfo{
		Path:  path,
		Size:  st.Size(),
		MTime: st.ModTime(),
		Inode: inodeOf(st),
	}, nil
}

func (o *OSFS) ReadDir(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []FileInfo
	for _, ent := range entries {
		if !ent.Type().IsRegular() {
			continue
		}
		info, err := o.Stat(filepath.Join(dir, ent.Name()))
		if err != nil {
			// Raced with a concurrent delete; skip.
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

func (o *OSFS) Remove(ctx context.Context, path string) error {
	return removeWithRetry(ctx, path)
}

func (o *OSFS) RemoveIfUnchanged(ctx context.Context, expected FileInfo) error {
	return removeIfUnchanged(ctx, o, expected)
}
