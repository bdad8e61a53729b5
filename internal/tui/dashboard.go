package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/carelog/internal/analysis"
	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	latestMood   *store.MoodEntry
	latestMoodAt time.Time
	moodSeries   analysis.DailySeries
	medsToday    []store.MedicationEntry
	waterOz      int
	waterGoal    int
	focusCount   int
	focusMinutes int
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{store: s}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	latestMood   *store.MoodEntry
	latestMoodAt time.Time
	moodSeries   analysis.DailySeries
	medsToday    []store.MedicationEntry
	waterOz      int
	waterGoal    int
	focusCount   int
	focusMinutes int
}

func (d dashboardModel) refresh() tea.Cmd {
	return func() tea.Msg {
		doc, err := d.store.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		msg := dashboardDataMsg{
			moodSeries: analysis.MoodDaily(clk, doc.Moods, 7),
			medsToday:  analysis.MedsToday(clk, doc.Medications),
			waterOz:    analysis.WaterTodayTotal(clk, doc.Water),
			waterGoal:  doc.WaterGoalFor(today()),
		}
		if entry, at, ok := analysis.LatestMood(doc.Moods); ok {
			msg.latestMood = &entry
			msg.latestMoodAt = at
		}
		msg.focusCount, msg.focusMinutes = analysis.FocusToday(clk, doc.FocusSessions)
		return msg
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.latestMood = msg.latestMood
		d.latestMoodAt = msg.latestMoodAt
		d.moodSeries = msg.moodSeries
		d.medsToday = msg.medsToday
		d.waterOz = msg.waterOz
		d.waterGoal = msg.waterGoal
		d.focusCount = msg.focusCount
		d.focusMinutes = msg.focusMinutes
		return d, nil
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderMoodPanel(w),
		d.renderTodayPanel(w),
	)
}

func (d dashboardModel) renderMoodPanel(w int) string {
	title := titleStyle.Render("Mood")

	var rows []string
	rows = append(rows, title)

	if d.latestMood == nil {
		rows = append(rows, mutedStyle.Render("No mood entries yet. Press 2 to log one."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	if score, ok := d.latestMood.ValidScore(); ok {
		line := fmt.Sprintf("latest: %s at %s",
			scoreStyle(score).Render(fmt.Sprintf("%d/10", score)),
			timeparse.FormatClock(d.latestMoodAt))
		if len(d.latestMood.Tags) > 0 {
			line += mutedStyle.Render(" [" + strings.Join(d.latestMood.Tags, ", ") + "]")
		}
		rows = append(rows, line)
	}

	if len(d.moodSeries) > 0 {
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("last 7 days: ")+moodSpark(d.moodSeries.Values()))
		for _, p := range d.moodSeries {
			score := int(p.Value + 0.5)
			bar := scoreStyle(score).Render(strings.Repeat("█", score))
			rows = append(rows, fmt.Sprintf("  %s %5.2f %s", p.Day.Format("Mon 02"), p.Value, bar))
		}
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today")

	var rows []string
	rows = append(rows, title)

	// Meds chip
	if len(d.medsToday) == 0 {
		rows = append(rows, mutedStyle.Render("meds:  none logged"))
	} else {
		var parts []string
		for _, m := range d.medsToday {
			parts = append(parts, m.Name+" "+m.Dose)
		}
		rows = append(rows, "meds:  "+highlightStyle.Render(strings.Join(parts, ", ")))
	}

	// Water chip with progress bar
	rows = append(rows, "water: "+waterBar(d.waterOz, d.waterGoal, 20)+
		fmt.Sprintf(" %d/%d oz", d.waterOz, d.waterGoal))

	// Focus chip
	if d.focusCount == 0 {
		rows = append(rows, mutedStyle.Render("focus: no sessions"))
	} else {
		rows = append(rows, fmt.Sprintf("focus: %d sessions, %d min", d.focusCount, d.focusMinutes))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// moodSpark maps daily averages onto block glyphs over the fixed
// 1..10 score scale.
func moodSpark(values []float64) string {
	const vmin, vmax = 1.0, 10.0
	var b strings.Builder
	for _, v := range values {
		if v < vmin {
			v = vmin
		}
		if v > vmax {
			v = vmax
		}
		idx := int((v - vmin) / (vmax - vmin) * float64(len(sparkRunes)-1))
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func waterBar(have, goal, width int) string {
	if goal <= 0 || width <= 0 {
		return ""
	}
	filled := have * width / goal
	if filled > width {
		filled = width
	}
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return bar
}
