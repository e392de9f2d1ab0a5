// Package watcher monitors the backup directory in daemon mode and
// requests a prune pass when new backup files appear.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mkomon/pruner/internal/config"
	"github.com/mkomon/pruner/internal/fsprobe"
	"github.com/mkomon/pruner/internal/logging"
	"github.com/mkomon/pruner/internal/mailbox"
	"github.com/mkomon/pruner/internal/worker"
)

// Watcher observes the scan directory and enqueues prune jobs when files
// matching the extension filter are created or updated.
type Watcher struct {
	mu sync.RWMutex

	dir       string
	ext       string
	mode      string
	interval  time.Duration
	debounce  time.Duration
	stability time.Duration

	log logging.Logger

	lastSeen map[string]time.Time // path -> mtime at last trigger

	mb *mailbox.Mailbox[worker.Job]
}

// New creates a watcher from the scan and daemon configuration.
func New(cfg *config.Config, log logging.Logger, mb *mailbox.Mailbox[worker.Job]) *Watcher {
	return &Watcher{
		dir:       cfg.Scan.Path,
		ext:       cfg.Scan.Extension,
		mode:      cfg.Daemon.Watch.Mode,
		interval:  cfg.Daemon.Watch.PollInterval.Std(),
		debounce:  cfg.Daemon.Watch.DebounceWindow.Std(),
		stability: cfg.Daemon.Watch.StabilityWindow.Std(),
		log:       log,
		lastSeen:  make(map[string]time.Time),
		mb:        mb,
	}
}

// Start chooses the watching strategy based on config.
func (w *Watcher) Start(ctx context.Context) error {
	switch w.mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		w.StartPolling(ctx)
		return nil

	case "", "auto":
		res := fsprobe.Probe(w.dir)
		if res.FsnotifySupported {
			return w.StartFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled, falling back to polling", "reason", res.Reason)
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown watch mode %q", w.mode)
	}
}

// UpdateConfig updates watcher fields atomically for hot-reload.
func (w *Watcher) UpdateConfig(cfg *config.Config) {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirChanged := cfg.Scan.Path != w.dir

	w.dir = cfg.Scan.Path
	w.ext = cfg.Scan.Extension
	w.mode = cfg.Daemon.Watch.Mode
	w.interval = cfg.Daemon.Watch.PollInterval.Std()
	w.debounce = cfg.Daemon.Watch.DebounceWindow.Std()
	w.stability = cfg.Daemon.Watch.StabilityWindow.Std()

	if dirChanged {
		w.lastSeen = make(map[string]time.Time)
	}
}
