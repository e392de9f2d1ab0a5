package prune

import (
	"time"

	"github.com/mkomon/pruner/internal/fs"
)

// Entry is one candidate backup file: its raw filename, the date extracted
// from it, the group it was clustered into and the descriptor of the
// underlying file. The engine never opens or mutates the descriptor.
type Entry struct {
	Name  string
	Date  time.Time
	Group string
	File  fs.FileInfo
}

// Action is the engine's verdict for an entry.
type Action int

const (
	Keep Action = iota
	Prune
)

func (a Action) String() string {
	if a == Keep {
		return "KEEP"
	}
	return "PRUNE"
}

// Decision reasons beyond the period label of the claiming window.
const (
	ReasonNoMatch   = "no-window-match"
	ReasonDuplicate = "duplicate-date"
	ReasonFuture    = "future-date"
)

// Decision is the engine's output for a single entry. Reason is the period
// label of the window the entry was kept for, or one of the Reason*
// constants.
type Decision struct {
	Entry  Entry
	Action Action
	Reason string
}
