// Package prune implements the generational retention engine: it groups
// dated backup entries into independent sets and decides, per set, which
// entries fall inside the retained daily/weekly/monthly/yearly generations
// and which are prune candidates. The engine is pure; the reference date is
// always injected and deletion is the caller's business.
package prune

import (
	"sort"
	"time"
)

// Options tweaks classification policy.
type Options struct {
	// AllowFuture keeps entries dated after the reference date instead of
	// flagging them as prune candidates. They still claim no boundary.
	AllowFuture bool
}

// Classify applies the retention windows to all entries and returns exactly
// one decision per entry. Groups are independent: boundary claims never
// cross group lines. Windows must have been validated beforehand.
//
// Within a group, entries are walked newest to oldest (ties broken by
// ascending filename, later duplicates of a date pruned outright). Each
// entry tries the windows in the order given and claims the first window
// that still has capacity left and whose boundary around the entry's date
// is unclaimed. A window of count N thus retains the N most recent
// distinct boundaries that entries actually cover, each represented by one
// file. Entries claiming nothing are pruned.
func Classify(entries []Entry, windows []Window, today time.Time, opts Options) []Decision {
	today = DateOnly(today)

	groups := make(map[string][]Entry)
	for _, e := range entries {
		groups[e.Group] = append(groups[e.Group], e)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Decision
	for _, k := range keys {
		out = append(out, classifyGroup(groups[k], windows, today, opts)...)
	}
	return out
}

func classifyGroup(group []Entry, windows []Window, today time.Time, opts Options) []Decision {
	sort.Slice(group, func(i, j int) bool {
		if !group[i].Date.Equal(group[j].Date) {
			return group[i].Date.After(group[j].Date)
		}
		return group[i].Name < group[j].Name
	})

	claimed := make([]map[boundary]bool, len(windows))
	for i := range windows {
		claimed[i] = make(map[boundary]bool)
	}

	decisions := make([]Decision, 0, len(group))
	seen := make(map[time.Time]bool)

	for _, e := range group {
		date := DateOnly(e.Date)

		if seen[date] {
			decisions = append(decisions, Decision{Entry: e, Action: Prune, Reason: ReasonDuplicate})
			continue
		}
		seen[date] = true

		if date.After(today) {
			action := Prune
			if opts.AllowFuture {
				action = Keep
			}
			decisions = append(decisions, Decision{Entry: e, Action: action, Reason: ReasonFuture})
			continue
		}

		decisions = append(decisions, claim(e, date, windows, claimed))
	}
	return decisions
}

// claim lets the entry try each window in order; the first window with
// spare capacity whose boundary is not yet covered takes it. A claimed
// boundary is never reclaimed by an older entry.
func claim(e Entry, date time.Time, windows []Window, claimed []map[boundary]bool) Decision {
	for i, w := range windows {
		b := w.Period.boundaryOf(date)
		if claimed[i][b] {
			continue
		}
		if len(claimed[i]) >= w.Count {
			continue
		}
		claimed[i][b] = true
		return Decision{Entry: e, Action: Keep, Reason: string(w.Period)}
	}
	return Decision{Entry: e, Action: Prune, Reason: ReasonNoMatch}
}

// DateOnly truncates a timestamp to its calendar date at midnight UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
