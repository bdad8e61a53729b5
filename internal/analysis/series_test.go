package analysis

import (
	"testing"
	"time"

	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

func fixedClock(t time.Time) timeparse.Clock {
	return func() time.Time { return t }
}

// ts builds an entry timestamp daysAgo days before testNow at the
// given hour.
func ts(daysAgo, hour int) string {
	d := testNow.AddDate(0, 0, -daysAgo)
	return timeparse.FormatEntry(time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.Local))
}

func mood(daysAgo, hour, score int) store.MoodEntry {
	return store.MoodEntry{TS: ts(daysAgo, hour), Score: store.IntPtr(score)}
}

// ============================================================
// Daily aggregation
// ============================================================

func TestMoodDailyAveragesPerDay(t *testing.T) {
	moods := []store.MoodEntry{
		mood(1, 9, 6),
		mood(1, 20, 8),
		mood(0, 10, 5),
	}
	series := MoodDaily(fixedClock(testNow), moods, 7)
	if len(series) != 2 {
		t.Fatalf("got %d days, want 2", len(series))
	}
	if series[0].Value != 7.0 || series[0].Count != 2 {
		t.Fatalf("yesterday = %+v, want avg 7.0 of 2", series[0])
	}
	if series[0].Min != 6 || series[0].Max != 8 {
		t.Fatalf("yesterday min/max = %v/%v", series[0].Min, series[0].Max)
	}
	if series[1].Value != 5.0 || series[1].Count != 1 {
		t.Fatalf("today = %+v, want avg 5.0 of 1", series[1])
	}
	if !series[0].Day.Before(series[1].Day) {
		t.Fatal("series should be sorted ascending by day")
	}
}

func TestMoodDailySkipsInvalidEntries(t *testing.T) {
	moods := []store.MoodEntry{
		mood(0, 9, 7),
		{TS: ts(0, 10), Score: store.IntPtr(12)}, // out of range
		{TS: ts(0, 11)},                          // no score
		{TS: "not-a-timestamp", Score: store.IntPtr(5)},
	}
	series := MoodDaily(fixedClock(testNow), moods, 7)
	if len(series) != 1 {
		t.Fatalf("got %d days, want 1", len(series))
	}
	if series[0].Value != 7.0 || series[0].Count != 1 {
		t.Fatalf("today = %+v, want only the valid entry", series[0])
	}
}

func TestMoodDailyWindowIsMidnightAligned(t *testing.T) {
	moods := []store.MoodEntry{
		mood(1, 23, 4), // late yesterday: outside a 1-day window even though <24h ago
		mood(0, 1, 8),  // early today
	}
	series := MoodDaily(fixedClock(testNow), moods, 1)
	if len(series) != 1 {
		t.Fatalf("got %d days, want 1 (today only)", len(series))
	}
	if series[0].Value != 8.0 {
		t.Fatalf("today = %+v", series[0])
	}
}

func TestMoodDailyAllTime(t *testing.T) {
	moods := []store.MoodEntry{mood(400, 9, 6), mood(0, 9, 8)}
	series := MoodDaily(fixedClock(testNow), moods, 0)
	if len(series) != 2 {
		t.Fatalf("all time should keep everything, got %d days", len(series))
	}
}

func TestGapDaysAreAbsentNotZero(t *testing.T) {
	moods := []store.MoodEntry{mood(5, 9, 7), mood(0, 9, 3)}
	series := MoodDaily(fixedClock(testNow), moods, 30)
	if len(series) != 2 {
		t.Fatalf("got %d days, want 2 (gaps omitted)", len(series))
	}
	for _, p := range series {
		if p.Count < 1 {
			t.Fatalf("day %v has count %d; absent days must be omitted, not zeroed", p.Day, p.Count)
		}
	}
}

func TestWaterDailySums(t *testing.T) {
	water := []store.WaterEntry{
		{TS: ts(0, 8), Oz: 16},
		{TS: ts(0, 14), Oz: 12},
		{TS: ts(0, 15), Oz: 0},  // non-positive ignored
		{TS: ts(0, 16), Oz: -4}, // non-positive ignored
		{TS: ts(1, 9), Oz: 20},
	}
	series := WaterDaily(fixedClock(testNow), water, 7)
	if len(series) != 2 {
		t.Fatalf("got %d days, want 2", len(series))
	}
	if series[0].Value != 20 {
		t.Fatalf("yesterday total = %v, want 20", series[0].Value)
	}
	if series[1].Value != 28 || series[1].Count != 2 {
		t.Fatalf("today = %+v, want total 28 of 2", series[1])
	}
}

func TestSleepDaily(t *testing.T) {
	moods := []store.MoodEntry{
		{TS: ts(0, 8), Score: store.IntPtr(7), SleepTotalMin: store.IntPtr(400)},
		{TS: ts(0, 20), Score: store.IntPtr(5), SleepTotalMin: store.IntPtr(500)},
		{TS: ts(1, 8), Score: store.IntPtr(6)}, // no sleep data
	}
	series := SleepDaily(fixedClock(testNow), moods, 7)
	if len(series) != 1 {
		t.Fatalf("got %d days, want 1", len(series))
	}
	if series[0].Value != 450 {
		t.Fatalf("today sleep avg = %v, want 450", series[0].Value)
	}
}

func TestJoinInnerJoinsOnDate(t *testing.T) {
	clock := fixedClock(testNow)
	moods := []store.MoodEntry{mood(2, 9, 6), mood(1, 9, 7), mood(0, 9, 8)}
	water := []store.WaterEntry{
		{TS: ts(2, 9), Oz: 40},
		{TS: ts(0, 9), Oz: 64},
		{TS: ts(5, 9), Oz: 10}, // no mood that day
	}
	xs, ys := Join(WaterDaily(clock, water, 30), MoodDaily(clock, moods, 30))
	if len(xs) != 2 || len(ys) != 2 {
		t.Fatalf("got %d pairs, want 2", len(xs))
	}
	if xs[0] != 40 || ys[0] != 6 {
		t.Fatalf("first pair = (%v, %v), want (40, 6)", xs[0], ys[0])
	}
	if xs[1] != 64 || ys[1] != 8 {
		t.Fatalf("second pair = (%v, %v), want (64, 8)", xs[1], ys[1])
	}
}

// ============================================================
// Today helpers
// ============================================================

func TestWaterTodayTotal(t *testing.T) {
	water := []store.WaterEntry{
		{TS: ts(0, 8), Oz: 16},
		{TS: ts(0, 12), Oz: 8},
		{TS: ts(1, 8), Oz: 64},
	}
	if got := WaterTodayTotal(fixedClock(testNow), water); got != 24 {
		t.Fatalf("today total = %d, want 24", got)
	}
}

func TestMedsToday(t *testing.T) {
	meds := []store.MedicationEntry{
		{TS: ts(1, 8), Name: "old", Dose: "10mg"},
		{TS: ts(0, 8), Name: "vyvanse", Dose: "30mg"},
		{TS: "garbage", Name: "skip", Dose: "1"},
	}
	got := MedsToday(fixedClock(testNow), meds)
	if len(got) != 1 || got[0].Name != "vyvanse" {
		t.Fatalf("got %+v, want only today's dose", got)
	}
}

func TestLatestMood(t *testing.T) {
	moods := []store.MoodEntry{mood(3, 9, 4), mood(0, 11, 8), mood(1, 9, 6)}
	m, _, ok := LatestMood(moods)
	if !ok {
		t.Fatal("expected a latest mood")
	}
	if m.Score == nil || *m.Score != 8 {
		t.Fatalf("latest = %+v, want score 8", m)
	}

	if _, _, ok := LatestMood(nil); ok {
		t.Fatal("empty input should report not found")
	}
}

func TestFocusToday(t *testing.T) {
	sessions := []store.FocusSession{
		{TS: ts(0, 9), Task: "a", DurationMin: 25, Completed: true},
		{TS: ts(0, 10), Task: "b", DurationMin: 10},
		{TS: ts(2, 9), Task: "c", DurationMin: 25, Completed: true},
	}
	count, minutes := FocusToday(fixedClock(testNow), sessions)
	if count != 2 || minutes != 35 {
		t.Fatalf("today = (%d, %d), want (2, 35)", count, minutes)
	}
}

// ============================================================
// Stats builders
// ============================================================

func TestBuildMoodStats(t *testing.T) {
	moods := []store.MoodEntry{
		{TS: ts(2, 9), Score: store.IntPtr(4), Tags: []string{"work"}},
		{TS: ts(1, 9), Score: store.IntPtr(6), Tags: []string{"work", "gym"}},
		{TS: ts(0, 9), Score: store.IntPtr(8), Tags: []string{"gym"}},
	}
	st, ok := BuildMoodStats(fixedClock(testNow), moods, 7, DefaultTrendEpsilon)
	if !ok {
		t.Fatal("expected stats")
	}
	if st.Entries != 3 {
		t.Fatalf("entries = %d, want 3", st.Entries)
	}
	if st.Avg != 6.0 || st.Min != 4.0 || st.Max != 8.0 {
		t.Fatalf("avg/min/max = %v/%v/%v", st.Avg, st.Min, st.Max)
	}
	if st.Best.Value != 8.0 || st.Worst.Value != 4.0 {
		t.Fatalf("best/worst = %v/%v", st.Best.Value, st.Worst.Value)
	}
	if st.Trend != TrendIncreasing || st.Slope != 2.0 {
		t.Fatalf("trend = %v slope %v, want increasing 2.0", st.Trend, st.Slope)
	}
	if st.Net != 4.0 {
		t.Fatalf("net = %v, want 4.0", st.Net)
	}
	if st.Distribution[3] != 1 || st.Distribution[5] != 1 || st.Distribution[7] != 1 {
		t.Fatalf("distribution = %v", st.Distribution)
	}
	if len(st.TopTags) != 2 || st.TopTags[0].Count != 2 {
		t.Fatalf("top tags = %+v", st.TopTags)
	}
}

func TestBuildMoodStatsEmptyWindow(t *testing.T) {
	moods := []store.MoodEntry{mood(60, 9, 7)}
	if _, ok := BuildMoodStats(fixedClock(testNow), moods, 7, DefaultTrendEpsilon); ok {
		t.Fatal("window with no data should report not ok")
	}
}

func TestBuildMedStats(t *testing.T) {
	meds := []store.MedicationEntry{
		{TS: ts(0, 8), Name: "vyvanse", Dose: "30mg"},
		{TS: ts(1, 8), Name: "vyvanse", Dose: "30mg"},
		{TS: ts(1, 21), Name: "melatonin", Dose: "3mg"},
		{TS: ts(40, 8), Name: "vyvanse", Dose: "30mg"}, // outside window
	}
	st, ok := BuildMedStats(fixedClock(testNow), meds, 30)
	if !ok {
		t.Fatal("expected stats")
	}
	if st.Total != 3 {
		t.Fatalf("total = %d, want 3", st.Total)
	}
	if st.ByName[0].Name != "vyvanse" || st.ByName[0].Count != 2 {
		t.Fatalf("by name = %+v", st.ByName)
	}
	if st.TopHours[0].Hour != 8 || st.TopHours[0].Count != 2 {
		t.Fatalf("top hours = %+v", st.TopHours)
	}
}

func TestBuildFocusStats(t *testing.T) {
	sessions := []store.FocusSession{
		{TS: ts(1, 9), Task: "deep work", DurationMin: 25, Completed: true},
		{TS: ts(1, 10), Task: "deep work", DurationMin: 12, Completed: false},
		{TS: ts(0, 9), Task: "email", DurationMin: 25, Completed: true},
	}
	st := BuildFocusStats(fixedClock(testNow), sessions, 7)
	if st.Sessions != 3 || st.Completed != 2 {
		t.Fatalf("sessions/completed = %d/%d", st.Sessions, st.Completed)
	}
	if st.TotalMinutes != 62 {
		t.Fatalf("total minutes = %d, want 62", st.TotalMinutes)
	}
	if len(st.Daily) != 2 || st.Daily[0].Value != 37 {
		t.Fatalf("daily = %+v", st.Daily)
	}
}
