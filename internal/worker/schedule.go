package worker

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// StartSchedule starts a cron scheduler that drops a prune job into the
// mailbox on the configured spec. Returns nil when no schedule is set; the
// caller owns stopping the returned scheduler.
func (w *Worker) StartSchedule() (*cron.Cron, error) {
	w.mu.RLock()
	spec := w.cfg.Daemon.Schedule
	w.mu.RUnlock()

	if spec == "" {
		return nil, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		w.mb.Put(Job{Trigger: "schedule", Timestamp: time.Now()})
	}); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	c.Start()
	w.log.Info("schedule active", "spec", spec)
	return c, nil
}
