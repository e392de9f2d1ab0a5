package prune

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(group string, d time.Time) Entry {
	return Entry{
		Name:  fmt.Sprintf("%s%s.gz.gpg", group, d.Format("2006-01-02")),
		Date:  d,
		Group: group,
	}
}

func decisionFor(t *testing.T, decisions []Decision, name string) Decision {
	t.Helper()
	for _, d := range decisions {
		if d.Entry.Name == name {
			return d
		}
	}
	t.Fatalf("no decision for %s", name)
	return Decision{}
}

// 31 daily files, daily:7 -> exactly the 7 most recent dates are kept.
func TestClassify_DailyWindow(t *testing.T) {
	var entries []Entry
	for day := 1; day <= 31; day++ {
		entries = append(entries, entry("backup_", date(2024, time.January, day)))
	}

	decisions := Classify(entries, []Window{{Period: Daily, Count: 7}}, date(2024, time.February, 1), Options{})
	require.Len(t, decisions, 31)

	for day := 1; day <= 31; day++ {
		d := decisionFor(t, decisions, fmt.Sprintf("backup_2024-01-%02d.gz.gpg", day))
		if day >= 25 {
			assert.Equal(t, Keep, d.Action, "day %d", day)
			assert.Equal(t, "daily", d.Reason)
		} else {
			assert.Equal(t, Prune, d.Action, "day %d", day)
			assert.Equal(t, ReasonNoMatch, d.Reason)
		}
	}
}

// Two files with the same date: the lexicographic tie-break winner is
// evaluated, the other is a duplicate.
func TestClassify_DuplicateDate(t *testing.T) {
	d := date(2024, time.June, 10)
	entries := []Entry{
		{Name: "db-2024-06-10-120000.gz.gpg", Date: d, Group: "db-"},
		{Name: "db-2024-06-10.gz.gpg", Date: d, Group: "db-"},
	}

	decisions := Classify(entries, []Window{{Period: Daily, Count: 7}}, date(2024, time.June, 11), Options{})
	require.Len(t, decisions, 2)

	winner := decisionFor(t, decisions, "db-2024-06-10-120000.gz.gpg")
	assert.Equal(t, Keep, winner.Action)
	assert.Equal(t, "daily", winner.Reason)

	dup := decisionFor(t, decisions, "db-2024-06-10.gz.gpg")
	assert.Equal(t, Prune, dup.Action)
	assert.Equal(t, ReasonDuplicate, dup.Reason)
}

// daily:3 + weekly:2 + monthly:1 over 40 days of backups: at most 6 keeps,
// no entry double-counted.
func TestClassify_WindowsAreAdditive(t *testing.T) {
	today := date(2024, time.March, 1)
	var entries []Entry
	for i := 0; i < 40; i++ {
		entries = append(entries, entry("db-", today.AddDate(0, 0, -i)))
	}

	windows := []Window{
		{Period: Daily, Count: 3},
		{Period: Weekly, Count: 2},
		{Period: Monthly, Count: 1},
	}
	decisions := Classify(entries, windows, today, Options{})
	require.Len(t, decisions, 40)

	keeps := map[string]int{}
	for _, d := range decisions {
		if d.Action == Keep {
			keeps[d.Reason]++
		}
	}

	assert.Equal(t, 3, keeps["daily"])
	assert.Equal(t, 2, keeps["weekly"])
	assert.Equal(t, 1, keeps["monthly"])
}

// Future-dated files are flagged, not kept, under the default policy.
func TestClassify_FutureDates(t *testing.T) {
	entries := []Entry{
		entry("backup_", date(2025, time.March, 20)),
		entry("backup_", date(2025, time.March, 10)),
	}
	windows := []Window{{Period: Daily, Count: 7}}
	today := date(2025, time.March, 15)

	decisions := Classify(entries, windows, today, Options{})
	future := decisionFor(t, decisions, "backup_2025-03-20.gz.gpg")
	assert.Equal(t, Prune, future.Action)
	assert.Equal(t, ReasonFuture, future.Reason)

	past := decisionFor(t, decisions, "backup_2025-03-10.gz.gpg")
	assert.Equal(t, Keep, past.Action)

	decisions = Classify(entries, windows, today, Options{AllowFuture: true})
	future = decisionFor(t, decisions, "backup_2025-03-20.gz.gpg")
	assert.Equal(t, Keep, future.Action)
	assert.Equal(t, ReasonFuture, future.Reason)
}

// Groups are independent retention units: each gets its own generations.
func TestClassify_GroupsIndependent(t *testing.T) {
	var entries []Entry
	for i := 0; i < 5; i++ {
		d := date(2024, time.May, 10-i)
		entries = append(entries, entry("db-", d))
		entries = append(entries, entry("mail-", d))
	}

	decisions := Classify(entries, []Window{{Period: Daily, Count: 2}}, date(2024, time.May, 10), Options{})

	keeps := map[string]int{}
	for _, d := range decisions {
		if d.Action == Keep {
			keeps[d.Entry.Group]++
		}
	}
	assert.Equal(t, 2, keeps["db-"])
	assert.Equal(t, 2, keeps["mail-"])
}

func TestClassify_EmptyAndZeroCount(t *testing.T) {
	assert.Empty(t, Classify(nil, []Window{{Period: Daily, Count: 7}}, date(2024, time.January, 1), Options{}))

	entries := []Entry{entry("db-", date(2024, time.January, 1))}
	decisions := Classify(entries, []Window{{Period: Daily, Count: 0}}, date(2024, time.January, 2), Options{})
	require.Len(t, decisions, 1)
	assert.Equal(t, Prune, decisions[0].Action)
	assert.Equal(t, ReasonNoMatch, decisions[0].Reason)
}

// Same input, same output: ordering and tie-breaks are deterministic.
func TestClassify_Deterministic(t *testing.T) {
	var entries []Entry
	for i := 0; i < 20; i++ {
		entries = append(entries, entry("a-", date(2024, time.April, 1).AddDate(0, 0, i)))
		entries = append(entries, entry("b-", date(2024, time.April, 1).AddDate(0, 0, i)))
	}
	windows := []Window{
		{Period: Daily, Count: 4},
		{Period: Weekly, Count: 3},
	}
	today := date(2024, time.April, 21)

	first := Classify(entries, windows, today, Options{})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(entries, windows, today, Options{}))
	}
}

// Every input appears exactly once; per window no boundary is covered
// twice and at most Count entries carry its reason.
func TestClassify_Properties(t *testing.T) {
	var entries []Entry
	d := date(2023, time.January, 1)
	for i := 0; i < 200; i += 3 {
		entries = append(entries, entry("x-", d.AddDate(0, 0, i)))
	}
	windows := []Window{
		{Period: Daily, Count: 5},
		{Period: Weekly, Count: 4},
		{Period: Monthly, Count: 3},
		{Period: Yearly, Count: 2},
	}
	decisions := Classify(entries, windows, date(2023, time.August, 1), Options{})
	require.Len(t, decisions, len(entries))

	seen := map[string]bool{}
	perReason := map[string]int{}
	covered := map[string]map[boundary]bool{}
	for _, dec := range decisions {
		assert.False(t, seen[dec.Entry.Name], "entry %s decided twice", dec.Entry.Name)
		seen[dec.Entry.Name] = true

		if dec.Action != Keep {
			continue
		}
		perReason[dec.Reason]++

		b := Period(dec.Reason).boundaryOf(dec.Entry.Date)
		if covered[dec.Reason] == nil {
			covered[dec.Reason] = map[boundary]bool{}
		}
		assert.False(t, covered[dec.Reason][b], "boundary of %s covered twice", dec.Entry.Name)
		covered[dec.Reason][b] = true
	}

	assert.LessOrEqual(t, perReason["daily"], 5)
	assert.LessOrEqual(t, perReason["weekly"], 4)
	assert.LessOrEqual(t, perReason["monthly"], 3)
	assert.LessOrEqual(t, perReason["yearly"], 2)
}

func TestValidateWindows(t *testing.T) {
	err := ValidateWindows([]Window{{Period: "hourly", Count: 3}})
	require.Error(t, err)
	var iw *InvalidWindowError
	require.ErrorAs(t, err, &iw)
	assert.Equal(t, "unknown period", iw.Reason)

	err = ValidateWindows([]Window{{Period: Daily, Count: -1}})
	require.ErrorAs(t, err, &iw)
	assert.Equal(t, "negative count", iw.Reason)

	assert.NoError(t, ValidateWindows([]Window{{Period: Daily, Count: 0}, {Period: Yearly, Count: 5}}))
}
