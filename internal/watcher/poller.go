package watcher

import (
	"context"
	"time"
)

// StartPolling triggers detect() on the configured interval. The interval
// is re-read every cycle, so a hot reload takes effect on the next tick.
func (w *Watcher) StartPolling(ctx context.Context) {
	for {
		w.mu.RLock()
		interval := w.interval
		w.mu.RUnlock()

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			w.detect()
		}
	}
}
