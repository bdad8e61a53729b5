package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

// TagCount is one tag with its occurrence count.
type TagCount struct {
	Tag   string
	Count int
}

// NameCount is one medication name with its dose count.
type NameCount struct {
	Name  string
	Count int
}

// HourCount is one clock hour (0..23) with its entry count.
type HourCount struct {
	Hour  int
	Count int
}

// MoodStats is the window summary behind `mood stats`: daily averages
// with trend, the raw score distribution, and top tags.
type MoodStats struct {
	WindowDays int
	Series     DailySeries

	Entries int
	Avg     float64 // mean of daily averages
	Min     float64
	Max     float64
	Best    DailyPoint
	Worst   DailyPoint

	Slope float64
	Trend Trend
	Net   float64 // last day avg minus first day avg

	Distribution [10]int // raw score s counts at index s-1
	TopTags      []TagCount
}

// BuildMoodStats summarizes the mood window. ok is false when no valid
// scores fall inside it. days <= 0 means all time.
func BuildMoodStats(clock timeparse.Clock, moods []store.MoodEntry, days int, epsilon float64) (MoodStats, bool) {
	st := MoodStats{WindowDays: days}
	st.Series = MoodDaily(clock, moods, days)
	if len(st.Series) == 0 {
		return st, false
	}

	cutoff, bounded := WindowCutoff(clock, days)
	tagCounts := map[string]int{}
	for _, m := range moods {
		ts, ok := timeparse.FromEntry(m.TS)
		if !ok {
			continue
		}
		if bounded && ts.Before(cutoff) {
			continue
		}
		for _, t := range m.Tags {
			tagCounts[t]++
		}
		if score, ok := m.ValidScore(); ok {
			st.Entries++
			st.Distribution[score-1]++
		}
	}

	vals := st.Series.Values()
	st.Min, st.Max = vals[0], vals[0]
	st.Best, st.Worst = st.Series[0], st.Series[0]
	total := 0.0
	for i, v := range vals {
		total += v
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
		if v > st.Best.Value {
			st.Best = st.Series[i]
		}
		if v < st.Worst.Value {
			st.Worst = st.Series[i]
		}
	}
	st.Avg = total / float64(len(vals))
	st.Slope, st.Trend = EstimateTrend(vals, epsilon)
	if len(vals) >= 2 {
		st.Net = vals[len(vals)-1] - vals[0]
	}

	for tag, c := range tagCounts {
		st.TopTags = append(st.TopTags, TagCount{Tag: tag, Count: c})
	}
	sort.Slice(st.TopTags, func(i, j int) bool {
		if st.TopTags[i].Count != st.TopTags[j].Count {
			return st.TopTags[i].Count > st.TopTags[j].Count
		}
		return st.TopTags[i].Tag < st.TopTags[j].Tag
	})
	if len(st.TopTags) > 10 {
		st.TopTags = st.TopTags[:10]
	}
	return st, true
}

// MedStats counts doses by medication name and by hour of day.
type MedStats struct {
	Days     int
	Total    int
	ByName   []NameCount
	TopHours []HourCount
}

// BuildMedStats summarizes the medication window. ok is false when no
// entries fall inside it.
func BuildMedStats(clock timeparse.Clock, meds []store.MedicationEntry, days int) (MedStats, bool) {
	st := MedStats{Days: days}
	cutoff, bounded := WindowCutoff(clock, days)

	counts := map[string]int{}
	hours := map[int]int{}
	for _, m := range meds {
		ts, ok := timeparse.FromEntry(m.TS)
		if !ok {
			continue
		}
		if bounded && ts.Before(cutoff) {
			continue
		}
		name := strings.TrimSpace(m.Name)
		if name == "" {
			name = "Unknown"
		}
		counts[name]++
		hours[ts.Hour()]++
		st.Total++
	}
	if st.Total == 0 {
		return st, false
	}

	for name, c := range counts {
		st.ByName = append(st.ByName, NameCount{Name: name, Count: c})
	}
	sort.Slice(st.ByName, func(i, j int) bool {
		if st.ByName[i].Count != st.ByName[j].Count {
			return st.ByName[i].Count > st.ByName[j].Count
		}
		return strings.ToLower(st.ByName[i].Name) < strings.ToLower(st.ByName[j].Name)
	})

	for h, c := range hours {
		st.TopHours = append(st.TopHours, HourCount{Hour: h, Count: c})
	}
	sort.Slice(st.TopHours, func(i, j int) bool {
		if st.TopHours[i].Count != st.TopHours[j].Count {
			return st.TopHours[i].Count > st.TopHours[j].Count
		}
		return st.TopHours[i].Hour < st.TopHours[j].Hour
	})
	if len(st.TopHours) > 5 {
		st.TopHours = st.TopHours[:5]
	}
	return st, true
}

// FocusStats summarizes logged focus sessions over a window.
type FocusStats struct {
	Days         int
	Sessions     int
	Completed    int
	TotalMinutes int
	Daily        DailySeries // per-day minutes
}

// BuildFocusStats summarizes the focus window. days <= 0 means all time.
func BuildFocusStats(clock timeparse.Clock, sessions []store.FocusSession, days int) FocusStats {
	st := FocusStats{Days: days}
	cutoff, bounded := WindowCutoff(clock, days)

	var samples []sample
	for _, s := range sessions {
		ts, ok := timeparse.FromEntry(s.TS)
		if !ok {
			continue
		}
		if bounded && ts.Before(cutoff) {
			continue
		}
		st.Sessions++
		if s.Completed {
			st.Completed++
		}
		if s.DurationMin > 0 {
			st.TotalMinutes += s.DurationMin
			samples = append(samples, sample{ts: s.TS, value: float64(s.DurationMin)})
		}
	}
	st.Daily = buildDaily(clock, samples, days, true)
	return st
}

// sameLocalDay reports whether two instants fall on one local calendar day.
func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.In(time.Local).Date()
	by, bm, bd := b.In(time.Local).Date()
	return ay == by && am == bm && ad == bd
}

// MedsToday returns today's medication entries in log order.
func MedsToday(clock timeparse.Clock, meds []store.MedicationEntry) []store.MedicationEntry {
	now := clock()
	var out []store.MedicationEntry
	for _, m := range meds {
		ts, ok := timeparse.FromEntry(m.TS)
		if !ok {
			continue
		}
		if sameLocalDay(ts, now) {
			out = append(out, m)
		}
	}
	return out
}

// MoodsToday returns today's mood entries in log order.
func MoodsToday(clock timeparse.Clock, moods []store.MoodEntry) []store.MoodEntry {
	now := clock()
	var out []store.MoodEntry
	for _, m := range moods {
		ts, ok := timeparse.FromEntry(m.TS)
		if !ok {
			continue
		}
		if sameLocalDay(ts, now) {
			out = append(out, m)
		}
	}
	return out
}

// WaterTodayTotal sums today's positive water ounces.
func WaterTodayTotal(clock timeparse.Clock, water []store.WaterEntry) int {
	now := clock()
	total := 0
	for _, w := range water {
		if w.Oz <= 0 {
			continue
		}
		ts, ok := timeparse.FromEntry(w.TS)
		if !ok {
			continue
		}
		if sameLocalDay(ts, now) {
			total += w.Oz
		}
	}
	return total
}

// FocusToday counts today's sessions and their minutes.
func FocusToday(clock timeparse.Clock, sessions []store.FocusSession) (count, minutes int) {
	now := clock()
	for _, s := range sessions {
		ts, ok := timeparse.FromEntry(s.TS)
		if !ok {
			continue
		}
		if sameLocalDay(ts, now) {
			count++
			if s.DurationMin > 0 {
				minutes += s.DurationMin
			}
		}
	}
	return count, minutes
}

// LatestMood returns the most recent parseable mood entry.
func LatestMood(moods []store.MoodEntry) (store.MoodEntry, time.Time, bool) {
	var best store.MoodEntry
	var bestTS time.Time
	found := false
	for _, m := range moods {
		ts, ok := timeparse.FromEntry(m.TS)
		if !ok {
			continue
		}
		if !found || ts.After(bestTS) {
			best, bestTS, found = m, ts, true
		}
	}
	return best, bestTS, found
}
