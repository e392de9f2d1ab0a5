package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkomon/pruner/internal/worker"
)

// detect scans the directory for new or updated backup files and enqueues
// a prune job if it finds any that are stable.
func (w *Watcher) detect() {
	w.mu.RLock()
	dir := w.dir
	ext := w.ext
	w.mu.RUnlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.log.Error("reading scan directory failed", "dir", dir, "error", err)
		return
	}

	changed := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		name := e.Name()
		if ext != "" && !strings.HasSuffix(name, ext) {
			continue
		}

		full := filepath.Join(dir, name)
		info, err := os.Stat(full)
		if err != nil {
			continue
		}

		mod := info.ModTime()

		w.mu.RLock()
		last, seen := w.lastSeen[full]
		w.mu.RUnlock()

		if seen && !mod.After(last) {
			continue
		}

		if !w.isFileStable(full) {
			// Still being written; the next trigger will pick it up.
			continue
		}

		w.mu.Lock()
		w.lastSeen[full] = mod
		w.mu.Unlock()

		w.log.Debug("new backup file detected", "file", full)
		changed = true
	}

	if changed {
		w.mb.Put(worker.Job{Trigger: "change", Timestamp: time.Now()})
	}
}

// isFileStable reports whether the file's size held steady over the
// stability window, i.e. the upload or encryption finished.
func (w *Watcher) isFileStable(path string) bool {
	w.mu.RLock()
	stability := w.stability
	w.mu.RUnlock()

	info1, err := os.Stat(path)
	if err != nil {
		return false
	}

	time.Sleep(stability)

	info2, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info1.Size() == info2.Size()
}
