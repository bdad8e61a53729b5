package analysis

import (
	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

// CorrStatus says whether a correlation could be computed.
type CorrStatus int

const (
	CorrOK CorrStatus = iota
	CorrTooFewPoints
	CorrNoVariance
)

// CorrResult is one correlation outcome. R is only meaningful when
// Status is CorrOK; an undefined correlation is never reported as a
// computed zero.
type CorrResult struct {
	R      float64
	N      int
	Status CorrStatus
}

// Band classifies r against a |r| threshold: +1 directional positive,
// -1 directional negative, 0 weak or none.
func (c CorrResult) Band(threshold float64) int {
	if c.Status != CorrOK {
		return 0
	}
	if c.R > threshold {
		return 1
	}
	if c.R < -threshold {
		return -1
	}
	return 0
}

func correlate(xs, ys []float64) CorrResult {
	n := len(xs)
	if n < 3 {
		return CorrResult{N: n, Status: CorrTooFewPoints}
	}
	r, ok := Pearson(xs, ys)
	if !ok {
		return CorrResult{N: n, Status: CorrNoVariance}
	}
	return CorrResult{R: r, N: n, Status: CorrOK}
}

// SleepMoodCorrelation inner-joins the daily sleep and mood series and
// correlates the shared days.
func SleepMoodCorrelation(clock timeparse.Clock, moods []store.MoodEntry, days int) CorrResult {
	sleep := SleepDaily(clock, moods, days)
	mood := MoodDaily(clock, moods, days)
	xs, ys := Join(sleep, mood)
	return correlate(xs, ys)
}

// WaterMoodCorrelation inner-joins daily water totals with daily mood
// averages and correlates the shared days.
func WaterMoodCorrelation(clock timeparse.Clock, water []store.WaterEntry, moods []store.MoodEntry, days int) CorrResult {
	wd := WaterDaily(clock, water, days)
	mood := MoodDaily(clock, moods, days)
	xs, ys := Join(wd, mood)
	return correlate(xs, ys)
}

// MoodReport is the combined analysis both frontends render: window
// stats over daily averages, trend, the two correlations, and the
// alert report.
type MoodReport struct {
	WindowDays int // 0 = all time
	Series     DailySeries

	Entries  int // raw valid scores in the window
	DayCount int
	Avg      float64 // mean of daily averages
	Min      float64
	Max      float64

	Slope float64
	Trend Trend

	SleepCorr CorrResult
	WaterCorr CorrResult

	Alerts AlertReport
}

// corrWindowDays bounds the correlation inputs when the report window
// is wider or unbounded.
const corrWindowDays = 30

// BuildMoodReport assembles the full mood analysis for a window.
// days <= 0 means all time. Alerts always use their own lookback.
func BuildMoodReport(clock timeparse.Clock, doc *store.Document, days int, epsilon float64, cfg AlertConfig) MoodReport {
	series := MoodDaily(clock, doc.Moods, days)

	rep := MoodReport{WindowDays: days, Series: series}

	cutoff, bounded := WindowCutoff(clock, days)
	for _, m := range doc.Moods {
		if _, ok := m.ValidScore(); !ok {
			continue
		}
		ts, ok := timeparse.FromEntry(m.TS)
		if !ok {
			continue
		}
		if bounded && ts.Before(cutoff) {
			continue
		}
		rep.Entries++
	}

	if len(series) > 0 {
		vals := series.Values()
		rep.DayCount = len(vals)
		rep.Min, rep.Max = vals[0], vals[0]
		total := 0.0
		for _, v := range vals {
			total += v
			if v < rep.Min {
				rep.Min = v
			}
			if v > rep.Max {
				rep.Max = v
			}
		}
		rep.Avg = total / float64(len(vals))
		rep.Slope, rep.Trend = EstimateTrend(vals, epsilon)
	} else {
		rep.Trend = TrendIndeterminate
	}

	corrDays := days
	if corrDays <= 0 || corrDays > corrWindowDays {
		corrDays = corrWindowDays
	}
	rep.SleepCorr = SleepMoodCorrelation(clock, doc.Moods, corrDays)
	rep.WaterCorr = WaterMoodCorrelation(clock, doc.Water, doc.Moods, corrDays)

	rep.Alerts = DetectAlerts(MoodDaily(clock, doc.Moods, cfg.LookbackDays), cfg)
	return rep
}
