package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

func fixedClock(t time.Time) timeparse.Clock {
	return func() time.Time { return t }
}

func entryTS(daysAgo, hour int) string {
	d := testNow.AddDate(0, 0, -daysAgo)
	return timeparse.FormatEntry(time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.Local))
}

func sampleMoods() []store.MoodEntry {
	return []store.MoodEntry{
		{
			TS:            entryTS(1, 7),
			Score:         store.IntPtr(6),
			Notes:         "groggy, late start",
			Tags:          []string{"sleep", "work"},
			SleepTotalMin: store.IntPtr(420),
			SleepRemMin:   store.IntPtr(90),
		},
		{
			TS:    entryTS(1, 21),
			Score: store.IntPtr(8),
			Tags:  []string{"work"},
		},
		{
			TS:    entryTS(0, 9),
			Score: store.IntPtr(7),
		},
		{TS: entryTS(0, 10), Score: store.IntPtr(12)}, // invalid score
		{TS: "not-a-time", Score: store.IntPtr(5)},    // unparsable ts
		{TS: entryTS(60, 9), Score: store.IntPtr(3)},  // outside window
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// Mood CSV
// ============================================================

func TestMoodCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moods.csv")
	n, err := MoodCSV(fixedClock(testNow), sampleMoods(), 30, path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("wrote %d rows, want 3", n)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("got %d records incl header, want 4", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(moodHeader, ",") {
		t.Fatalf("header = %v", records[0])
	}

	first := records[1]
	if first[5] != "6" {
		t.Fatalf("score cell = %q, want 6", first[5])
	}
	if first[6] != "420" || first[7] != "90" || first[8] != "" {
		t.Fatalf("sleep cells = %q %q %q", first[6], first[7], first[8])
	}
	if first[9] != "sleep, work" {
		t.Fatalf("tags cell = %q", first[9])
	}
	if first[10] != "groggy, late start" {
		t.Fatalf("notes cell = %q", first[10])
	}
}

func TestMoodCSVHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	n, err := MoodCSV(fixedClock(testNow), nil, 7, path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("wrote %d rows, want 0", n)
	}
	records := readCSV(t, path)
	if len(records) != 1 {
		t.Fatalf("empty export should still carry the header, got %d records", len(records))
	}
}

// ============================================================
// Daily summary CSV
// ============================================================

func TestMoodDailyCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily.csv")
	n, err := MoodDailyCSV(fixedClock(testNow), sampleMoods(), 30, path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("wrote %d rows, want 2 days", n)
	}

	records := readCSV(t, path)
	yesterday := records[1]
	if yesterday[2] != "7.00" {
		t.Fatalf("avg_score = %q, want 7.00", yesterday[2])
	}
	if yesterday[3] != "6" || yesterday[4] != "8" {
		t.Fatalf("min/max = %q/%q", yesterday[3], yesterday[4])
	}
	if yesterday[5] != "2" {
		t.Fatalf("entries = %q, want 2", yesterday[5])
	}
	if yesterday[6] != "420.00" {
		t.Fatalf("avg_sleep_total_min = %q, want 420.00", yesterday[6])
	}
	if !strings.Contains(yesterday[9], "work(2)") {
		t.Fatalf("tags_top = %q, want work(2) first", yesterday[9])
	}

	today := records[2]
	if today[2] != "7.00" || today[5] != "1" {
		t.Fatalf("today row = %v", today)
	}
	if today[6] != "" {
		t.Fatalf("today has no sleep data, got %q", today[6])
	}
}

// ============================================================
// Focus exports
// ============================================================

func sampleSessions() []store.FocusSession {
	return []store.FocusSession{
		{TS: entryTS(1, 9), Task: "deep work", Type: "work", DurationMin: 25, Completed: true},
		{TS: entryTS(0, 14), Task: "email", Type: "work", DurationMin: 11, Completed: false},
		{TS: entryTS(90, 9), Task: "old", Type: "work", DurationMin: 25, Completed: true},
	}
}

func TestFocusCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.csv")
	n, err := FocusCSV(fixedClock(testNow), sampleSessions(), 30, path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("wrote %d rows, want 2", n)
	}
	records := readCSV(t, path)
	if records[1][3] != "deep work" || records[1][6] != "true" {
		t.Fatalf("first row = %v", records[1])
	}
	if records[2][5] != "11" || records[2][6] != "false" {
		t.Fatalf("second row = %v", records[2])
	}
}

func TestFocusJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.json")
	n, err := FocusJSON(fixedClock(testNow), sampleSessions(), 30, path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("wrote %d sessions, want 2", n)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		ExportedAt string `json:"exported_at"`
		Count      int    `json:"count"`
		Sessions   []struct {
			Task        string `json:"task"`
			DurationMin int    `json:"duration_min"`
			Completed   bool   `json:"completed"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || len(out.Sessions) != 2 {
		t.Fatalf("count = %d, sessions = %d", out.Count, len(out.Sessions))
	}
	if out.Sessions[0].Task != "deep work" || !out.Sessions[0].Completed {
		t.Fatalf("first session = %+v", out.Sessions[0])
	}
	if out.ExportedAt == "" {
		t.Fatal("exported_at should be set")
	}
}

func TestDocumentJSON(t *testing.T) {
	doc := store.NewDocument()
	doc.Moods = sampleMoods()[:1]
	doc.WaterGoals = map[string]int{"default": 64}

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := DocumentJSON(doc, path); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"moods", "medications", "water", "focus_sessions", "water_goals"} {
		if _, ok := top[key]; !ok {
			t.Fatalf("snapshot missing key %q", key)
		}
	}
}
