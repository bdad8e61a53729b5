package store

import (
	"fmt"
	"sort"
	"strings"
)

// MoodEntry is one mood log. Score is nil when the stored value was
// missing or not an integer; such entries stay in the document but are
// excluded from analysis.
type MoodEntry struct {
	TS            string   `json:"ts"`
	Score         *int     `json:"score,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	SleepTotalMin *int     `json:"sleep_total_min,omitempty"`
	SleepRemMin   *int     `json:"sleep_rem_min,omitempty"`
	SleepDeepMin  *int     `json:"sleep_deep_min,omitempty"`
}

// ValidScore reports the score when it is an integer in [1, 10].
func (m MoodEntry) ValidScore() (int, bool) {
	if m.Score == nil {
		return 0, false
	}
	s := *m.Score
	if s < 1 || s > 10 {
		return 0, false
	}
	return s, true
}

// DedupeKey normalizes an entry into a comparable identity: timestamp,
// score, trimmed notes, case-folded sorted tags, and the sleep fields.
func (m MoodEntry) DedupeKey() string {
	tags := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)

	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		m.TS,
		intKey(m.Score),
		strings.TrimSpace(m.Notes),
		strings.Join(tags, ","),
		intKey(m.SleepTotalMin),
		intKey(m.SleepRemMin),
		intKey(m.SleepDeepMin),
	)
}

func intKey(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

// MedicationEntry is one medication dose log.
type MedicationEntry struct {
	TS    string `json:"ts"`
	Name  string `json:"name"`
	Dose  string `json:"dose"`
	Notes string `json:"notes,omitempty"`
}

// WaterEntry is one water intake log in ounces.
type WaterEntry struct {
	TS string `json:"ts"`
	Oz int    `json:"oz"`
}

// FocusSession is one logged focus-timer work phase.
type FocusSession struct {
	TS          string `json:"ts"`
	Task        string `json:"task"`
	Type        string `json:"type,omitempty"`
	DurationMin int    `json:"duration_min"`
	Completed   bool   `json:"completed"`
}

// ParseTags splits a comma- or space-separated tag string, dropping
// blanks and deduplicating case-insensitively. The first-seen casing
// wins and first-occurrence order is preserved.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, chunk := range strings.Fields(strings.ReplaceAll(raw, ",", " ")) {
		c := strings.TrimSpace(chunk)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// IntPtr is a convenience for building optional integer fields.
func IntPtr(v int) *int { return &v }
