package worker

import (
	"time"
)

// Job asks the worker for one prune pass over the scan directory.
type Job struct {
	Trigger   string // "change", "schedule", "manual"
	Timestamp time.Time
}
