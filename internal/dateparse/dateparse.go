// Package dateparse extracts calendar dates embedded in backup filenames.
// Three notations are recognized, tried in a fixed priority at each scan
// position: YYYY-mm-dd, YYYY_mm_dd, YYYYmmdd. Years are restricted to
// 1900-2099 so arbitrary digit runs are not misread as dates.
package dateparse

import (
	"fmt"
	"strings"
	"time"
)

// Stamp is the result of a successful parse: the embedded date (midnight
// UTC, any time-of-day token is discarded) and the group key, the filename
// residue that identifies the backup set the file belongs to.
type Stamp struct {
	Date     time.Time
	GroupKey string
}

// ParseError reports a filename that carries no valid embedded date.
type ParseError struct {
	Filename string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Filename, e.Reason)
}

// DefaultGroup is the group key for filenames that are nothing but a date
// stamp, e.g. "2023-01-01.tgz".
const DefaultGroup = "default"

// Parse scans name left to right for the first date-shaped substring,
// validates it as a real calendar date and strips it (together with an
// adjacent time-of-day token and the extension suffix) to form the group
// key. A date-shaped substring that is not a real calendar date fails the
// whole parse rather than being skipped silently.
func Parse(name string) (Stamp, error) {
	for i := 0; i+8 <= len(name); i++ {
		for _, m := range matchers {
			end, ok := m.match(name, i)
			if !ok {
				continue
			}
			y, mo, d := m.fields(name, i)
			if !validDate(y, mo, d) {
				return Stamp{}, &ParseError{
					Filename: name,
					Reason:   fmt.Sprintf("invalid calendar date %04d-%02d-%02d", y, mo, d),
				}
			}
			end += timeTokenLen(name[end:])
			return Stamp{
				Date:     time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC),
				GroupKey: groupKey(name, i, end),
			}, nil
		}
	}
	return Stamp{}, &ParseError{Filename: name, Reason: "no date stamp found"}
}

// matcher recognizes one date notation at a fixed position.
type matcher struct {
	length int
	sep    byte // 0 for the compact form
}

// Priority order: dashed, underscored, compact.
var matchers = []matcher{
	{length: 10, sep: '-'},
	{length: 10, sep: '_'},
	{length: 8, sep: 0},
}

// match reports whether the notation is date-shaped at position i:
// year starting 19 or 20, month 01-12, day 01-31. Calendar validity is
// checked separately so that e.g. 2023-02-30 is a hard failure.
func (m matcher) match(s string, i int) (end int, ok bool) {
	if i+m.length > len(s) {
		return 0, false
	}
	t := s[i : i+m.length]
	if !(strings.HasPrefix(t, "19") || strings.HasPrefix(t, "20")) {
		return 0, false
	}
	var mo, d string
	if m.sep != 0 {
		if t[4] != m.sep || t[7] != m.sep {
			return 0, false
		}
		mo, d = t[5:7], t[8:10]
	} else {
		mo, d = t[4:6], t[6:8]
	}
	if !allDigits(t[0:4]) || !allDigits(mo) || !allDigits(d) {
		return 0, false
	}
	if v := num(mo); v < 1 || v > 12 {
		return 0, false
	}
	if v := num(d); v < 1 || v > 31 {
		return 0, false
	}
	return i + m.length, true
}

func (m matcher) fields(s string, i int) (y, mo, d int) {
	t := s[i:]
	y = num(t[0:4])
	if m.sep != 0 {
		return y, num(t[5:7]), num(t[8:10])
	}
	return y, num(t[4:6]), num(t[6:8])
}

// timeTokenLen returns the length of an optional time-of-day token at the
// start of s: an optional '-' or '_' separator followed by HHMMSS, or by
// HH:MM:SS with a consistent ':', '-' or '_' separator. The token is
// discarded; it only widens the span removed from the group key.
func timeTokenLen(s string) int {
	off := 0
	if len(s) > 0 && (s[0] == '-' || s[0] == '_') {
		off = 1
	}
	t := s[off:]

	// HHMMSS, not followed by another digit
	if len(t) >= 6 && allDigits(t[0:6]) {
		if len(t) > 6 && isDigit(t[6]) {
			return 0
		}
		if validClock(num(t[0:2]), num(t[2:4]), num(t[4:6])) {
			return off + 6
		}
	}

	// HH?MM?SS with matching separators
	if len(t) >= 8 {
		sep := t[2]
		if (sep == ':' || sep == '-' || sep == '_') && t[5] == sep &&
			allDigits(t[0:2]) && allDigits(t[3:5]) && allDigits(t[6:8]) {
			if len(t) > 8 && isDigit(t[8]) {
				return 0
			}
			if validClock(num(t[0:2]), num(t[3:5]), num(t[6:8])) {
				return off + 8
			}
		}
	}
	return 0
}

// groupKey removes the [start,end) span from name, strips everything from
// the first dot of the residue and folds '_' to '-', so that filenames
// differing only in their date/time stamp or separator style collapse onto
// the same key.
func groupKey(name string, start, end int) string {
	residue := name[:start] + name[end:]
	if dot := strings.IndexByte(residue, '.'); dot >= 0 {
		residue = residue[:dot]
	}
	residue = strings.ReplaceAll(residue, "_", "-")
	if residue == "" {
		return DefaultGroup
	}
	return residue
}

func validDate(y, mo, d int) bool {
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && int(t.Month()) == mo && t.Day() == d
}

func validClock(h, m, s int) bool {
	return h < 24 && m < 60 && s < 60
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func num(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
