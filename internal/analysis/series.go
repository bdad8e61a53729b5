package analysis

import (
	"sort"
	"time"

	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

// DailyPoint is one calendar day's aggregate. Value is the day's mean
// for mood and sleep series and the day's sum for water.
type DailyPoint struct {
	Day   time.Time
	Value float64
	Min   float64
	Max   float64
	Count int
}

// DailySeries is sorted ascending by day. Days without qualifying
// entries are absent, never zero-filled.
type DailySeries []DailyPoint

// Values returns the per-day aggregates in series order.
func (s DailySeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Days returns the series dates in order.
func (s DailySeries) Days() []time.Time {
	out := make([]time.Time, len(s))
	for i, p := range s {
		out[i] = p.Day
	}
	return out
}

// WindowCutoff computes the midnight-aligned start of an N-day window
// ending today, so days=1 means "today only". days <= 0 means no cutoff.
func WindowCutoff(clock timeparse.Clock, days int) (time.Time, bool) {
	if days <= 0 {
		return time.Time{}, false
	}
	now := clock().In(time.Local)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return start.AddDate(0, 0, -(days - 1)), true
}

// sample is one timestamped value entering daily aggregation.
type sample struct {
	ts    string
	value float64
}

// buildDaily buckets samples by local calendar day. Samples with
// unparsable timestamps are skipped silently. When sum is true the
// day's Value is the total, otherwise the mean.
func buildDaily(clock timeparse.Clock, samples []sample, days int, sum bool) DailySeries {
	cutoff, bounded := WindowCutoff(clock, days)

	type bucket struct {
		total float64
		min   float64
		max   float64
		count int
	}
	byDay := map[time.Time]*bucket{}

	for _, s := range samples {
		ts, ok := timeparse.FromEntry(s.ts)
		if !ok {
			continue
		}
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.Local)
		if bounded && day.Before(cutoff) {
			continue
		}
		b, ok := byDay[day]
		if !ok {
			b = &bucket{min: s.value, max: s.value}
			byDay[day] = b
		}
		b.total += s.value
		if s.value < b.min {
			b.min = s.value
		}
		if s.value > b.max {
			b.max = s.value
		}
		b.count++
	}

	out := make(DailySeries, 0, len(byDay))
	for day, b := range byDay {
		v := b.total
		if !sum {
			v = b.total / float64(b.count)
		}
		out = append(out, DailyPoint{Day: day, Value: v, Min: b.min, Max: b.max, Count: b.count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// MoodDaily averages valid scores (integer 1..10) per day over the
// most recent N calendar days. days <= 0 means all time.
func MoodDaily(clock timeparse.Clock, moods []store.MoodEntry, days int) DailySeries {
	var samples []sample
	for _, m := range moods {
		score, ok := m.ValidScore()
		if !ok {
			continue
		}
		samples = append(samples, sample{ts: m.TS, value: float64(score)})
	}
	return buildDaily(clock, samples, days, false)
}

// SleepDaily averages sleep_total_min per day for entries that carry it.
func SleepDaily(clock timeparse.Clock, moods []store.MoodEntry, days int) DailySeries {
	var samples []sample
	for _, m := range moods {
		if m.SleepTotalMin == nil || *m.SleepTotalMin < 0 {
			continue
		}
		samples = append(samples, sample{ts: m.TS, value: float64(*m.SleepTotalMin)})
	}
	return buildDaily(clock, samples, days, false)
}

// WaterDaily sums positive ounces per day.
func WaterDaily(clock timeparse.Clock, water []store.WaterEntry, days int) DailySeries {
	var samples []sample
	for _, w := range water {
		if w.Oz <= 0 {
			continue
		}
		samples = append(samples, sample{ts: w.TS, value: float64(w.Oz)})
	}
	return buildDaily(clock, samples, days, true)
}

// Join inner-joins two daily series on shared dates, returning aligned
// value slices. Days present in only one series are dropped.
func Join(a, b DailySeries) (xs, ys []float64) {
	byDay := make(map[time.Time]float64, len(b))
	for _, p := range b {
		byDay[p.Day] = p.Value
	}
	for _, p := range a {
		if v, ok := byDay[p.Day]; ok {
			xs = append(xs, p.Value)
			ys = append(ys, v)
		}
	}
	return xs, ys
}
