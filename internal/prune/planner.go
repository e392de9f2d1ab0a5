package prune

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkomon/pruner/internal/dateparse"
	"github.com/mkomon/pruner/internal/fs"
)

// Request carries everything one planning pass needs. Today defaults to
// the wall clock date when zero; everything else is explicit.
type Request struct {
	Files       []fs.FileInfo
	Extension   string // filter applied before parsing; empty keeps all
	MinSize     int64  // advisory threshold in bytes; 0 disables
	Windows     []Window
	Today       time.Time
	AllowFuture bool
}

// Failure is a file whose name carries no valid date stamp. Failures are
// reported, never silently dropped.
type Failure struct {
	Name   string
	Reason string
}

// Plan is the complete outcome of one planning pass: a decision per parsed
// file, the parse failures, and the advisory list of files below the
// minimum size (which never affects keep/prune).
type Plan struct {
	Decisions  []Decision
	Failures   []Failure
	Undersized []fs.FileInfo
}

// Prunable returns the decisions proposing deletion.
func (p Plan) Prunable() []Decision {
	var out []Decision
	for _, d := range p.Decisions {
		if d.Action == Prune {
			out = append(out, d)
		}
	}
	return out
}

// Kept returns the number of decisions retaining their file.
func (p Plan) Kept() int {
	n := 0
	for _, d := range p.Decisions {
		if d.Action == Keep {
			n++
		}
	}
	return n
}

// BuildPlan filters the candidate files by extension, parses their date
// stamps, groups them and classifies every entry against the retention
// windows.
func BuildPlan(req Request) Plan {
	today := req.Today
	if today.IsZero() {
		today = time.Now()
	}

	var plan Plan
	var entries []Entry
	for _, f := range req.Files {
		name := filepath.Base(f.Path)
		if req.Extension != "" && !strings.HasSuffix(name, req.Extension) {
			continue
		}
		if req.MinSize > 0 && f.Size < req.MinSize {
			plan.Undersized = append(plan.Undersized, f)
		}
		stamp, err := dateparse.Parse(name)
		if err != nil {
			reason := err.Error()
			var pe *dateparse.ParseError
			if errors.As(err, &pe) {
				reason = pe.Reason
			}
			plan.Failures = append(plan.Failures, Failure{Name: name, Reason: reason})
			continue
		}
		entries = append(entries, Entry{
			Name:  name,
			Date:  stamp.Date,
			Group: stamp.GroupKey,
			File:  f,
		})
	}

	plan.Decisions = Classify(entries, req.Windows, today, Options{AllowFuture: req.AllowFuture})
	return plan
}
