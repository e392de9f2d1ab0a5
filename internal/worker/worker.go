// Package worker runs prune passes in daemon mode: it takes jobs from the
// mailbox, plans against the current config and, only when apply is
// enabled, deletes the prune candidates.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mkomon/pruner/internal/config"
	"github.com/mkomon/pruner/internal/fs"
	"github.com/mkomon/pruner/internal/logging"
	"github.com/mkomon/pruner/internal/mailbox"
	"github.com/mkomon/pruner/internal/prune"
)

type Worker struct {
	mu  sync.RWMutex
	cfg *config.Config

	fs  fs.FS
	log logging.Logger
	mb  *mailbox.Mailbox[Job]
	now func() time.Time
}

// New creates a worker. A nil filesystem selects the local OS filesystem.
func New(cfg *config.Config, log logging.Logger, filesystem fs.FS, mb *mailbox.Mailbox[Job]) *Worker {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Worker{
		cfg: cfg,
		fs:  filesystem,
		log: log,
		mb:  mb,
		now: time.Now,
	}
}

// Start runs the worker loop until the context is canceled. The mailbox is
// polled so cancellation never hangs behind a blocking Take.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting worker")

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job := w.mb.TryTake()
			if job == nil {
				continue
			}
			if err := w.Run(ctx, *job); err != nil {
				w.log.Error("prune pass failed", "trigger", job.Trigger, "error", err)
			}
		}
	}
}

// UpdateConfig hot-reloads settings for subsequent passes.
func (w *Worker) UpdateConfig(cfg *config.Config) {
	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()
}

// Run executes one prune pass: scan, plan, and apply if configured.
func (w *Worker) Run(ctx context.Context, job Job) error {
	w.mu.RLock()
	cfg := w.cfg
	w.mu.RUnlock()

	windows, err := cfg.Policy.EngineWindows()
	if err != nil {
		return err
	}

	files, err := w.fs.ReadDir(cfg.Scan.Path)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.Scan.Path, err)
	}

	plan := prune.BuildPlan(prune.Request{
		Files:       files,
		Extension:   cfg.Scan.Extension,
		MinSize:     cfg.Scan.MinSize,
		Windows:     windows,
		Today:       w.now(),
		AllowFuture: cfg.Policy.AllowFuture,
	})

	for _, f := range plan.Failures {
		w.log.Warn("skipping file without date stamp", "file", f.Name, "reason", f.Reason)
	}
	for _, f := range plan.Undersized {
		w.log.Warn("file suspiciously small, possible failing backup", "file", f.Path, "size", f.Size)
	}

	prunable := plan.Prunable()
	w.log.Info("prune pass planned",
		"trigger", job.Trigger,
		"files", len(plan.Decisions),
		"keep", plan.Kept(),
		"prune", len(prunable),
	)

	if len(prunable) == 0 || !cfg.Daemon.Apply {
		return nil
	}

	deleted, skipped := w.apply(ctx, prunable)
	w.log.Info("prune pass applied", "deleted", deleted, "skipped", skipped)
	return nil
}

// apply deletes prune candidates, skipping any file that changed since it
// was scanned.
func (w *Worker) apply(ctx context.Context, decisions []prune.Decision) (deleted, skipped int) {
	for _, d := range decisions {
		err := w.fs.RemoveIfUnchanged(ctx, d.Entry.File)
		switch {
		case errors.Is(err, fs.ErrFileChanged):
			w.log.Warn("file changed since scan, not deleting", "file", d.Entry.File.Path)
			skipped++
		case err != nil:
			w.log.Error("delete failed", "file", d.Entry.File.Path, "error", err)
			skipped++
		default:
			w.log.Debug("deleted", "file", d.Entry.File.Path, "reason", d.Reason)
			deleted++
		}
	}
	return deleted, skipped
}
