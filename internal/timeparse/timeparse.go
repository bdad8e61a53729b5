// Package timeparse turns flexible human time expressions into
// timezone-aware instants with second precision.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Clock supplies the current instant. Pass nil to use the wall clock;
// tests inject a fixed clock instead.
type Clock func() time.Time

// Examples is shown to the user when an input cannot be parsed.
var Examples = []string{
	"2026-02-25T07:34:00-05:00",
	"2026-02-25 7:34am",
	"7:34am",
	"19:34",
	"yesterday 9am",
	"3 days ago",
}

// ParseError reports an unparsable time expression along with the
// accepted formats.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse time %q; try one of: %s", e.Input, strings.Join(Examples, ", "))
}

var relativeRe = regexp.MustCompile(`^(\d+)\s*(day|days|hour|hours|minute|minutes)\s*ago$`)
var keywordRe = regexp.MustCompile(`^(today|yesterday|tomorrow)\s+(.+)$`)

// Layouts accepted as ISO 8601. Naive forms are resolved in the local
// timezone.
var isoLayouts = []struct {
	layout string
	zoned  bool
}{
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02T15:04Z07:00", true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02", false},
}

var dateTimeLayouts = []string{
	"2006-01-02 3:04pm",
	"2006-01-02 3:04 pm",
	"2006-01-02 3pm",
	"2006-01-02 15:04",
	"2006/01/02 3:04pm",
	"2006/01/02 3:04 pm",
	"2006/01/02 15:04",
}

var timeOnlyLayouts = []string{
	"3:04pm",
	"3:04 pm",
	"3pm",
	"15:04",
}

// Parse resolves a user-supplied time expression to an instant in the
// local timezone, truncated to seconds. Blank input means "now".
//
// Accepted forms, in priority order: ISO 8601 (naive assumed local),
// relative ("3 days ago"), day keywords ("yesterday 9am"), date+time
// ("2026-02-25 7:34am"), and time-only ("7:34am", "19:34", assumed
// today). Minutes default to :00 when omitted ("9am").
func Parse(clock Clock, value string) (time.Time, error) {
	now := nowLocal(clock)

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return now, nil
	}

	for _, iso := range isoLayouts {
		var t time.Time
		var err error
		if iso.zoned {
			t, err = time.Parse(iso.layout, trimmed)
		} else {
			t, err = time.ParseInLocation(iso.layout, trimmed, time.Local)
		}
		if err == nil {
			return t.In(time.Local).Truncate(time.Second), nil
		}
	}

	s := strings.ToLower(trimmed)

	if m := relativeRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, &ParseError{Input: value}
		}
		var d time.Duration
		switch {
		case strings.HasPrefix(m[2], "day"):
			d = time.Duration(n) * 24 * time.Hour
		case strings.HasPrefix(m[2], "hour"):
			d = time.Duration(n) * time.Hour
		default:
			d = time.Duration(n) * time.Minute
		}
		return now.Add(-d), nil
	}

	if m := keywordRe.FindStringSubmatch(s); m != nil {
		base := now
		switch m[1] {
		case "yesterday":
			base = now.AddDate(0, 0, -1)
		case "tomorrow":
			base = now.AddDate(0, 0, 1)
		}
		t, ok := parseTimeOnly(strings.TrimSpace(m[2]), base)
		if !ok {
			return time.Time{}, &ParseError{Input: value}
		}
		return t, nil
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Truncate(time.Second), nil
		}
	}

	if t, ok := parseTimeOnly(s, now); ok {
		return t, nil
	}

	return time.Time{}, &ParseError{Input: value}
}

// parseTimeOnly parses "9am", "7:34am", "14:30" and applies it to the
// calendar date of base.
func parseTimeOnly(s string, base time.Time) (time.Time, bool) {
	for _, layout := range timeOnlyLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		resolved := time.Date(
			base.Year(), base.Month(), base.Day(),
			t.Hour(), t.Minute(), 0, 0, time.Local,
		)
		return resolved, true
	}
	return time.Time{}, false
}

func nowLocal(clock Clock) time.Time {
	if clock == nil {
		clock = time.Now
	}
	return clock().In(time.Local).Truncate(time.Second)
}

// FromEntry resolves a stored entry timestamp. Unlike Parse, it only
// accepts ISO forms and never errors: malformed historical timestamps
// return ok=false and the entry is skipped by callers.
func FromEntry(ts string) (time.Time, bool) {
	trimmed := strings.TrimSpace(ts)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, iso := range isoLayouts {
		var t time.Time
		var err error
		if iso.zoned {
			t, err = time.Parse(iso.layout, trimmed)
		} else {
			t, err = time.ParseInLocation(iso.layout, trimmed, time.Local)
		}
		if err == nil {
			return t.In(time.Local).Truncate(time.Second), true
		}
	}
	return time.Time{}, false
}

// FormatEntry renders an instant the way entries are stored: ISO 8601
// with explicit offset, second precision.
func FormatEntry(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02T15:04:05-07:00")
}

// FormatClock renders a short 12-hour clock label like "7:34 AM".
func FormatClock(t time.Time) string {
	s := t.Format("03:04 PM")
	return strings.TrimPrefix(s, "0")
}
