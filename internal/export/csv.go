package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/carelog/internal/analysis"
	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

var moodHeader = []string{
	"ts", "date", "time", "timezone", "weekday", "score",
	"sleep_total_min", "sleep_rem_min", "sleep_deep_min", "tags", "notes",
}

var moodDailyHeader = []string{
	"date", "weekday", "avg_score", "min_score", "max_score", "entries",
	"avg_sleep_total_min", "avg_sleep_rem_min", "avg_sleep_deep_min", "tags_top",
}

var focusHeader = []string{
	"ts", "date", "time", "task", "type", "duration_min", "completed",
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// MoodCSV writes one row per valid mood entry in the window. A window
// with no rows still produces a header-only file. Returns the number
// of rows written.
func MoodCSV(clock timeparse.Clock, moods []store.MoodEntry, days int, path string) (int, error) {
	cutoff, bounded := analysis.WindowCutoff(clock, days)

	var rows [][]string
	for _, m := range moods {
		ts, ok := timeparse.FromEntry(m.TS)
		if !ok {
			continue
		}
		if bounded && ts.Before(cutoff) {
			continue
		}
		score, ok := m.ValidScore()
		if !ok {
			continue
		}

		var tags []string
		for _, t := range m.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}

		rows = append(rows, []string{
			m.TS,
			ts.Format("2006-01-02"),
			ts.Format("15:04"),
			ts.Format("-0700"),
			ts.Format("Mon"),
			strconv.Itoa(score),
			optInt(m.SleepTotalMin),
			optInt(m.SleepRemMin),
			optInt(m.SleepDeepMin),
			strings.Join(tags, ", "),
			strings.TrimSpace(m.Notes),
		})
	}

	if err := writeCSV(path, moodHeader, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// dayAccum collects one calendar day's entries for the daily summary.
type dayAccum struct {
	scores     []int
	sleepTotal []int
	sleepRem   []int
	sleepDeep  []int
	tags       map[string]int
}

func avgCell(xs []int) string {
	if len(xs) == 0 {
		return ""
	}
	total := 0
	for _, x := range xs {
		total += x
	}
	return fmt.Sprintf("%.2f", float64(total)/float64(len(xs)))
}

// MoodDailyCSV writes one summary row per day with at least one valid
// score: average/min/max score, entry count, sleep averages, and the
// day's top 5 tags as "tag(count)".
func MoodDailyCSV(clock timeparse.Clock, moods []store.MoodEntry, days int, path string) (int, error) {
	cutoff, bounded := analysis.WindowCutoff(clock, days)

	byDay := map[string]*dayAccum{}
	for _, m := range moods {
		ts, ok := timeparse.FromEntry(m.TS)
		if !ok {
			continue
		}
		if bounded && ts.Before(cutoff) {
			continue
		}
		score, ok := m.ValidScore()
		if !ok {
			continue
		}

		day := ts.Format("2006-01-02")
		acc, ok := byDay[day]
		if !ok {
			acc = &dayAccum{tags: map[string]int{}}
			byDay[day] = acc
		}
		acc.scores = append(acc.scores, score)
		for _, t := range m.Tags {
			if t = strings.TrimSpace(t); t != "" {
				acc.tags[t]++
			}
		}
		if m.SleepTotalMin != nil && *m.SleepTotalMin >= 0 {
			acc.sleepTotal = append(acc.sleepTotal, *m.SleepTotalMin)
		}
		if m.SleepRemMin != nil && *m.SleepRemMin >= 0 {
			acc.sleepRem = append(acc.sleepRem, *m.SleepRemMin)
		}
		if m.SleepDeepMin != nil && *m.SleepDeepMin >= 0 {
			acc.sleepDeep = append(acc.sleepDeep, *m.SleepDeepMin)
		}
	}

	daysSorted := make([]string, 0, len(byDay))
	for day := range byDay {
		daysSorted = append(daysSorted, day)
	}
	sort.Strings(daysSorted)

	var rows [][]string
	for _, day := range daysSorted {
		acc := byDay[day]
		total, mn, mx := 0, acc.scores[0], acc.scores[0]
		for _, s := range acc.scores {
			total += s
			if s < mn {
				mn = s
			}
			if s > mx {
				mx = s
			}
		}

		rows = append(rows, []string{
			day,
			weekdayOf(day),
			fmt.Sprintf("%.2f", float64(total)/float64(len(acc.scores))),
			strconv.Itoa(mn),
			strconv.Itoa(mx),
			strconv.Itoa(len(acc.scores)),
			avgCell(acc.sleepTotal),
			avgCell(acc.sleepRem),
			avgCell(acc.sleepDeep),
			topTagsCell(acc.tags),
		})
	}

	if err := writeCSV(path, moodDailyHeader, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func weekdayOf(day string) string {
	d, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		return ""
	}
	return d.Format("Mon")
}

// topTagsCell renders the day's 5 most common tags as "tag(count)".
func topTagsCell(tags map[string]int) string {
	type tc struct {
		tag   string
		count int
	}
	var tcs []tc
	for tag, c := range tags {
		tcs = append(tcs, tc{tag, c})
	}
	sort.Slice(tcs, func(i, j int) bool {
		if tcs[i].count != tcs[j].count {
			return tcs[i].count > tcs[j].count
		}
		return tcs[i].tag < tcs[j].tag
	})
	if len(tcs) > 5 {
		tcs = tcs[:5]
	}
	var parts []string
	for _, t := range tcs {
		parts = append(parts, fmt.Sprintf("%s(%d)", t.tag, t.count))
	}
	return strings.Join(parts, ", ")
}

// FocusCSV writes one row per focus session in the window.
func FocusCSV(clock timeparse.Clock, sessions []store.FocusSession, days int, path string) (int, error) {
	cutoff, bounded := analysis.WindowCutoff(clock, days)

	var rows [][]string
	for _, s := range sessions {
		ts, ok := timeparse.FromEntry(s.TS)
		if !ok {
			continue
		}
		if bounded && ts.Before(cutoff) {
			continue
		}
		rows = append(rows, []string{
			s.TS,
			ts.Format("2006-01-02"),
			ts.Format("15:04"),
			s.Task,
			s.Type,
			strconv.Itoa(s.DurationMin),
			strconv.FormatBool(s.Completed),
		})
	}

	if err := writeCSV(path, focusHeader, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
