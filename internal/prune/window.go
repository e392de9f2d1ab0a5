package prune

import (
	"fmt"
	"time"
)

// Period is one generation category. Its string value doubles as the keep
// reason on decisions.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// Window is one generation rule: keep the Count most recent distinct
// period boundaries, each represented by at most one file.
type Window struct {
	Period Period
	Count  int
}

// InvalidWindowError rejects a retention window at configuration time,
// before any classification runs.
type InvalidWindowError struct {
	Window Window
	Reason string
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("retention window %s:%d: %s", e.Window.Period, e.Window.Count, e.Reason)
}

// ValidateWindows checks every window for a known period and a
// non-negative count.
func ValidateWindows(windows []Window) error {
	for _, w := range windows {
		switch w.Period {
		case Daily, Weekly, Monthly, Yearly:
		default:
			return &InvalidWindowError{Window: w, Reason: "unknown period"}
		}
		if w.Count < 0 {
			return &InvalidWindowError{Window: w, Reason: "negative count"}
		}
	}
	return nil
}

// boundary identifies one calendar-aligned span of a period: a day, an ISO
// week, a month or a year. At most one file may cover a boundary.
type boundary struct {
	year int
	unit int
}

// boundaryOf maps a date onto the boundary containing it.
func (p Period) boundaryOf(d time.Time) boundary {
	switch p {
	case Daily:
		return boundary{year: d.Year(), unit: d.YearDay()}
	case Weekly:
		y, w := d.ISOWeek()
		return boundary{year: y, unit: w}
	case Monthly:
		return boundary{year: d.Year(), unit: int(d.Month())}
	default: // Yearly
		return boundary{year: d.Year()}
	}
}

