package analysis

import "time"

// AlertConfig holds the thresholds for dip and crash detection.
type AlertConfig struct {
	LookbackDays      int
	BaselineDays      int
	ExcludeRecentDays int
	DipThreshold      float64
	CrashDropDay      float64
	CrashDrop3Day     float64
	LowZone           float64
	HighZone          float64
}

// DefaultAlertConfig returns the standard thresholds.
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		LookbackDays:      90,
		BaselineDays:      30,
		ExcludeRecentDays: 3,
		DipThreshold:      1.0,
		CrashDropDay:      2.0,
		CrashDrop3Day:     1.5,
		LowZone:           4.0,
		HighZone:          7.0,
	}
}

// minAlertDays is how many days of data the detector needs to run.
const minAlertDays = 5

// RollingMean computes a window-sized sliding mean aligned to the end
// index of each window. Indices before the first full window are nil.
func RollingMean(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	running := 0.0
	for i := 0; i < window; i++ {
		running += values[i]
	}
	v := running / float64(window)
	out[window-1] = &v
	for i := window; i < len(values); i++ {
		running += values[i] - values[i-window]
		v := running / float64(window)
		out[i] = &v
	}
	return out
}

// Baseline averages the daily values after dropping the most recent
// excludeRecent entries, over at most the last baselineDays of what
// remains. Nil when the pool is empty.
func Baseline(values []float64, baselineDays, excludeRecent int) *float64 {
	pool := values
	if excludeRecent > 0 && len(pool) > excludeRecent {
		pool = pool[:len(pool)-excludeRecent]
	}
	if len(pool) == 0 {
		return nil
	}
	if baselineDays > 0 && len(pool) > baselineDays {
		pool = pool[len(pool)-baselineDays:]
	}
	total := 0.0
	for _, v := range pool {
		total += v
	}
	avg := total / float64(len(pool))
	return &avg
}

// DipStatus is the most recent dip event: the day its rolling 3-day
// average fell below baseline minus the threshold.
type DipStatus struct {
	Day     time.Time
	Avg3    float64
	Drop    float64
	Ongoing bool
}

// CrashKind distinguishes the three crash heuristics.
type CrashKind int

const (
	CrashDayDrop CrashKind = iota
	CrashAvgDrop
	CrashLowStreak
)

func (k CrashKind) String() string {
	switch k {
	case CrashDayDrop:
		return "day-to-day drop"
	case CrashAvgDrop:
		return "3-day avg drop"
	default:
		return "low streak after high"
	}
}

// CrashHit is one detected crash pattern. Drops carry two day/value
// pairs; low streaks carry three.
type CrashHit struct {
	Kind   CrashKind
	Days   []time.Time
	Values []float64
	Drop   float64
}

// AlertReport is the structured detector output. Baseline nil means
// dip detection could not run; Dip nil with a baseline means no dip.
type AlertReport struct {
	Insufficient bool
	Baseline     *float64
	Dip          *DipStatus
	Crashes      []CrashHit
}

// DetectAlerts runs baseline, dip, and crash detection over a daily
// mood series. Fewer than 5 days yields an insufficient-data report.
//
// The 3-day-average crash comparison spans 3 index positions, which
// are 3 series entries, not necessarily 3 calendar days when history
// has gaps.
func DetectAlerts(series DailySeries, cfg AlertConfig) AlertReport {
	if len(series) < minAlertDays {
		return AlertReport{Insufficient: true}
	}

	days := series.Days()
	vals := series.Values()

	baseline := Baseline(vals, cfg.BaselineDays, cfg.ExcludeRecentDays)
	r3 := RollingMean(vals, 3)

	report := AlertReport{Baseline: baseline}

	if baseline != nil {
		var last *DipStatus
		for i := range vals {
			avg3 := r3[i]
			if avg3 == nil {
				continue
			}
			if *avg3 <= *baseline-cfg.DipThreshold {
				last = &DipStatus{
					Day:  days[i],
					Avg3: *avg3,
					Drop: *baseline - *avg3,
				}
			}
		}
		if last != nil {
			last.Ongoing = days[len(days)-1].Equal(last.Day)
			report.Dip = last
		}
	}

	var hits []CrashHit

	for i := 1; i < len(vals); i++ {
		drop := vals[i-1] - vals[i]
		if drop >= cfg.CrashDropDay {
			hits = append(hits, CrashHit{
				Kind:   CrashDayDrop,
				Days:   []time.Time{days[i-1], days[i]},
				Values: []float64{vals[i-1], vals[i]},
				Drop:   drop,
			})
		}
	}

	for i := 5; i < len(vals); i++ {
		now, prev := r3[i], r3[i-3]
		if now == nil || prev == nil {
			continue
		}
		drop := *prev - *now
		if drop >= cfg.CrashDrop3Day {
			hits = append(hits, CrashHit{
				Kind:   CrashAvgDrop,
				Days:   []time.Time{days[i-3], days[i]},
				Values: []float64{*prev, *now},
				Drop:   drop,
			})
		}
	}

	for i := 0; i+2 < len(vals); i++ {
		if vals[i] >= cfg.HighZone && vals[i+1] <= cfg.LowZone && vals[i+2] <= cfg.LowZone {
			hits = append(hits, CrashHit{
				Kind:   CrashLowStreak,
				Days:   []time.Time{days[i], days[i+1], days[i+2]},
				Values: []float64{vals[i], vals[i+1], vals[i+2]},
			})
		}
	}

	if len(hits) > 6 {
		hits = hits[len(hits)-6:]
	}
	report.Crashes = hits
	return report
}
