package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

var testNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)

func init() {
	clk = func() time.Time { return testNow }
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(filepath.Join(t.TempDir(), "data.json"))
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// ============================================================
// App: tab switching
// ============================================================

func TestAppTabKeys(t *testing.T) {
	s := newTestStore(t)
	a := NewApp(s)

	cases := []struct {
		key  rune
		want viewState
	}{
		{'2', viewMood},
		{'3', viewMeds},
		{'4', viewWater},
		{'5', viewFocus},
		{'6', viewAnalysis},
		{'1', viewDashboard},
	}
	for _, tc := range cases {
		model, _ := a.Update(keyRune(tc.key))
		a = model.(App)
		if a.activeView != tc.want {
			t.Fatalf("key %q: activeView = %v, want %v", tc.key, a.activeView, tc.want)
		}
	}
}

func TestAppTabCycles(t *testing.T) {
	s := newTestStore(t)
	a := NewApp(s)

	for i := 0; i < 6; i++ {
		model, _ := a.Update(tea.KeyMsg{Type: tea.KeyTab})
		a = model.(App)
	}
	if a.activeView != viewDashboard {
		t.Fatalf("six tab presses should wrap back to dashboard, got %v", a.activeView)
	}
}

func TestAppQuit(t *testing.T) {
	s := newTestStore(t)
	a := NewApp(s)

	_, cmd := a.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestAppStatusMsg(t *testing.T) {
	s := newTestStore(t)
	a := NewApp(s)

	model, _ := a.Update(statusMsg{text: "saved"})
	a = model.(App)
	if a.status != "saved" {
		t.Fatalf("status = %q", a.status)
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboardRefreshAndView(t *testing.T) {
	s := newTestStore(t)
	doc := store.NewDocument()
	doc.Moods = []store.MoodEntry{
		{TS: timeparse.FormatEntry(testNow.Add(-2 * time.Hour)), Score: store.IntPtr(7), Tags: []string{"work"}},
	}
	doc.Medications = []store.MedicationEntry{
		{TS: timeparse.FormatEntry(testNow.Add(-5 * time.Hour)), Name: "vyvanse", Dose: "30mg"},
	}
	doc.Water = []store.WaterEntry{
		{TS: timeparse.FormatEntry(testNow.Add(-1 * time.Hour)), Oz: 16},
	}
	if err := s.Save(doc); err != nil {
		t.Fatal(err)
	}

	d := newDashboardModel(s)
	d.setSize(100, 40)

	msg := d.refresh()()
	data, ok := msg.(dashboardDataMsg)
	if !ok {
		t.Fatalf("refresh returned %T", msg)
	}
	d, _ = d.update(data)

	if d.latestMood == nil {
		t.Fatal("latest mood should be set")
	}
	if d.waterOz != 16 {
		t.Fatalf("waterOz = %d, want 16", d.waterOz)
	}

	view := d.view()
	for _, want := range []string{"7/10", "vyvanse 30mg", "16/", "oz"} {
		if !strings.Contains(view, want) {
			t.Fatalf("dashboard view missing %q:\n%s", want, view)
		}
	}
}

func TestDashboardEmptyStore(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s)
	d.setSize(100, 40)

	msg := d.refresh()()
	data, ok := msg.(dashboardDataMsg)
	if !ok {
		t.Fatalf("refresh returned %T", msg)
	}
	d, _ = d.update(data)

	view := d.view()
	if !strings.Contains(view, "No mood entries yet") {
		t.Fatalf("empty dashboard should prompt for entries:\n%s", view)
	}
}

// ============================================================
// Mood and meds entry
// ============================================================

func TestMoodSaveEntry(t *testing.T) {
	s := newTestStore(t)
	m := newMoodModel(s)

	msg := m.saveEntry(7, "9am", "work, Work", "ok day", "7h30m")()
	if _, ok := msg.(docChangedMsg); !ok {
		t.Fatalf("saveEntry returned %T: %v", msg, msg)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Moods) != 1 {
		t.Fatalf("got %d moods, want 1", len(doc.Moods))
	}
	e := doc.Moods[0]
	if e.Score == nil || *e.Score != 7 {
		t.Fatalf("score = %v", e.Score)
	}
	if len(e.Tags) != 1 || e.Tags[0] != "work" {
		t.Fatalf("tags = %v, want deduped [work]", e.Tags)
	}
	if e.SleepTotalMin == nil || *e.SleepTotalMin != 450 {
		t.Fatalf("sleep = %v, want 450", e.SleepTotalMin)
	}
	ts, ok := timeparse.FromEntry(e.TS)
	if !ok || ts.Hour() != 9 {
		t.Fatalf("ts = %q, want 9am today", e.TS)
	}
}

func TestMoodSaveEntryBadTime(t *testing.T) {
	s := newTestStore(t)
	m := newMoodModel(s)

	msg := m.saveEntry(7, "the other day", "", "", "")()
	status, ok := msg.(statusMsg)
	if !ok || !status.isError {
		t.Fatalf("bad time should produce an error status, got %T", msg)
	}

	doc, _ := s.Load()
	if len(doc.Moods) != 0 {
		t.Fatal("failed save must not write an entry")
	}
}

func TestMedsSaveEntry(t *testing.T) {
	s := newTestStore(t)
	m := newMedsModel(s)

	msg := m.saveEntry(" vyvanse ", "30mg", "7:34am", "")()
	if _, ok := msg.(docChangedMsg); !ok {
		t.Fatalf("saveEntry returned %T: %v", msg, msg)
	}

	doc, _ := s.Load()
	if len(doc.Medications) != 1 {
		t.Fatalf("got %d meds, want 1", len(doc.Medications))
	}
	if doc.Medications[0].Name != "vyvanse" {
		t.Fatalf("name = %q, want trimmed", doc.Medications[0].Name)
	}
}

func TestMoodKeyOpensForm(t *testing.T) {
	s := newTestStore(t)
	m := newMoodModel(s)
	m.setSize(100, 40)

	m, _ = m.update(keyRune('n'))
	if !m.formActive {
		t.Fatal("n should open the entry form")
	}

	// Esc closes it again.
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.formActive {
		t.Fatal("esc should close the form")
	}
}

// ============================================================
// Water
// ============================================================

func TestWaterQuickAdd(t *testing.T) {
	s := newTestStore(t)
	m := newWaterModel(s)
	m.setSize(100, 40)

	// Move to the second preset and add it.
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	_, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should add water")
	}
	if _, ok := cmd().(docChangedMsg); !ok {
		t.Fatal("add should report a document change")
	}

	doc, _ := s.Load()
	if len(doc.Water) != 1 || doc.Water[0].Oz != quickAmounts[1] {
		t.Fatalf("water = %+v, want one %d oz entry", doc.Water, quickAmounts[1])
	}
}

func TestWaterCursorBounds(t *testing.T) {
	s := newTestStore(t)
	m := newWaterModel(s)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Fatal("cursor should not go above the first preset")
	}
	for i := 0; i < 10; i++ {
		m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != len(quickAmounts)-1 {
		t.Fatalf("cursor = %d, want %d", m.cursor, len(quickAmounts)-1)
	}
}

func TestWaterSetGoal(t *testing.T) {
	s := newTestStore(t)
	m := newWaterModel(s)

	if msg := m.setGoal(80)(); msg != (docChangedMsg{}) {
		t.Fatalf("setGoal returned %v", msg)
	}

	doc, _ := s.Load()
	if doc.WaterGoalFor(today()) != 80 {
		t.Fatalf("goal = %d, want 80", doc.WaterGoalFor(today()))
	}
}

func TestWaterBar(t *testing.T) {
	if got := waterBar(0, 64, 10); strings.Contains(got, "█") {
		t.Fatalf("empty bar should have no fill: %q", got)
	}
	// Over-goal clamps at full width.
	full := waterBar(100, 64, 10)
	if strings.Count(full, "█") != 10 {
		t.Fatalf("over-goal bar should be full: %q", full)
	}
	if waterBar(10, 0, 10) != "" {
		t.Fatal("zero goal should render nothing")
	}
}

// ============================================================
// Focus timer
// ============================================================

func TestFocusPhaseAdvance(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s)
	m.task = "deep work"
	m.sessionType = "work"

	m, _ = m.startWorkPhase()
	if m.phase != focusWork {
		t.Fatalf("phase = %v, want work", m.phase)
	}

	// Force the countdown to expire.
	m.phaseEnd = time.Now().Add(-time.Second)
	m, _ = m.update(tickMsg(time.Now()))
	if m.phase != focusShortBreak {
		t.Fatalf("phase = %v, want short break after work", m.phase)
	}
	if m.completedCount != 1 {
		t.Fatalf("completedCount = %d, want 1", m.completedCount)
	}

	// Break expiry goes back to work.
	m.phaseEnd = time.Now().Add(-time.Second)
	m, _ = m.update(tickMsg(time.Now()))
	if m.phase != focusWork {
		t.Fatalf("phase = %v, want work after break", m.phase)
	}
}

func TestFocusSessionTarget(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s)
	m.task = "deep work"
	m.sessionType = "work"

	m, _ = m.startWorkPhase()
	m.completedCount = targetCount - 1
	m, _ = m.advancePhase()
	if m.phase != focusDone {
		t.Fatalf("phase = %v, want done after final work phase", m.phase)
	}
}

func TestFocusLogSession(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s)
	m.task = "deep work"
	m.sessionType = "study"

	msg := m.logSession(25, true)()
	logged, ok := msg.(focusLoggedMsg)
	if !ok {
		t.Fatalf("logSession returned %T: %v", msg, msg)
	}
	if !logged.session.Completed || logged.session.DurationMin != 25 {
		t.Fatalf("session = %+v", logged.session)
	}

	doc, _ := s.Load()
	if len(doc.FocusSessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(doc.FocusSessions))
	}
	f := doc.FocusSessions[0]
	if f.Task != "deep work" || f.Type != "study" || !f.Completed {
		t.Fatalf("session = %+v", f)
	}
}

func TestFocusCancelKeepsPartial(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s)
	m.task = "deep work"
	m.sessionType = "work"

	m, _ = m.startWorkPhase()
	m.remaining = m.workSpan - 3*time.Minute // 3 minutes elapsed
	m, cmd := m.cancelSession()
	if m.phase != focusIdle {
		t.Fatalf("phase = %v, want idle", m.phase)
	}
	if cmd == nil {
		t.Fatal("cancel with elapsed time should log a partial session")
	}
	if _, ok := cmd().(focusLoggedMsg); !ok {
		t.Fatal("cancel should log the partial session")
	}

	doc, _ := s.Load()
	if len(doc.FocusSessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(doc.FocusSessions))
	}
	f := doc.FocusSessions[0]
	if f.Completed || f.DurationMin != 3 {
		t.Fatalf("session = %+v, want 3 min partial", f)
	}
}

func TestFocusCancelDropsUnderMinute(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s)
	m.task = "deep work"

	m, _ = m.startWorkPhase()
	m.remaining = m.workSpan - 30*time.Second
	m, cmd := m.cancelSession()
	if m.phase != focusIdle {
		t.Fatalf("phase = %v, want idle", m.phase)
	}
	if status, ok := cmd().(statusMsg); !ok || status.isError {
		t.Fatalf("sub-minute cancel should just report cancellation, got %T", cmd())
	}

	doc, _ := s.Load()
	if len(doc.FocusSessions) != 0 {
		t.Fatal("sub-minute partial sessions must not be logged")
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{25 * time.Minute, "25:00"},
		{90 * time.Second, "01:30"},
		{-5 * time.Second, "00:00"},
	}
	for _, tc := range cases {
		if got := formatCountdown(tc.d); got != tc.want {
			t.Fatalf("formatCountdown(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

// ============================================================
// Analysis
// ============================================================

func TestAnalysisWindowCycling(t *testing.T) {
	s := newTestStore(t)
	m := newAnalysisModel(s)
	m.setSize(100, 40)

	if m.window() != 30 {
		t.Fatalf("default window = %d, want 30", m.window())
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.window() != 7 {
		t.Fatalf("window = %d, want 7", m.window())
	}
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.window() != 7 {
		t.Fatal("window should clamp at the smallest option")
	}

	for i := 0; i < 5; i++ {
		m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	}
	if m.window() != 0 {
		t.Fatalf("window = %d, want 0 (all time)", m.window())
	}
}

func TestAnalysisRefreshBuildsReport(t *testing.T) {
	s := newTestStore(t)
	doc := store.NewDocument()
	for i := 0; i < 10; i++ {
		ts := testNow.AddDate(0, 0, -i)
		doc.Moods = append(doc.Moods, store.MoodEntry{
			TS:    timeparse.FormatEntry(ts),
			Score: store.IntPtr(5 + i%3),
		})
	}
	if err := s.Save(doc); err != nil {
		t.Fatal(err)
	}

	m := newAnalysisModel(s)
	m.setSize(100, 40)

	msg := m.refresh()()
	data, ok := msg.(analysisDataMsg)
	if !ok {
		t.Fatalf("refresh returned %T", msg)
	}
	m, _ = m.update(data)

	if !m.loaded {
		t.Fatal("model should be loaded after data msg")
	}
	if m.report.Entries != 10 {
		t.Fatalf("entries = %d, want 10", m.report.Entries)
	}

	view := m.view()
	for _, want := range []string{"Mood Analysis", "entries: 10"} {
		if !strings.Contains(view, want) {
			t.Fatalf("analysis view missing %q:\n%s", want, view)
		}
	}
}

func TestAnalysisEmptyRange(t *testing.T) {
	s := newTestStore(t)
	m := newAnalysisModel(s)
	m.setSize(100, 40)

	msg := m.refresh()()
	data, ok := msg.(analysisDataMsg)
	if !ok {
		t.Fatalf("refresh returned %T", msg)
	}
	m, _ = m.update(data)

	if !strings.Contains(m.view(), "No mood entries in this range") {
		t.Fatal("empty range should say so")
	}
}

// ============================================================
// Sparkline
// ============================================================

func TestMoodSpark(t *testing.T) {
	got := moodSpark([]float64{1, 10})
	runes := []rune(got)
	if len(runes) != 2 {
		t.Fatalf("spark %q should have 2 runes", got)
	}
	if runes[0] != '▁' || runes[1] != '█' {
		t.Fatalf("spark = %q, want lowest then highest glyph", got)
	}
	// Out-of-range values clamp instead of panicking.
	if moodSpark([]float64{0, 12}) != got {
		t.Fatal("values outside 1..10 should clamp")
	}
}
