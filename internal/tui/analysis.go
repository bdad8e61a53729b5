package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/carelog/internal/analysis"
	"github.com/sadopc/carelog/internal/store"
)

var analysisWindows = []int{7, 30, 90, 0}

type analysisModel struct {
	store  *store.Store
	width  int
	height int

	windowIdx int
	report    analysis.MoodReport
	loaded    bool

	chart barchart.Model
}

func newAnalysisModel(s *store.Store) analysisModel {
	return analysisModel{
		store:     s,
		windowIdx: 1, // 30 days
		chart:     barchart.New(60, 10),
	}
}

func (m *analysisModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m analysisModel) window() int {
	return analysisWindows[m.windowIdx]
}

type analysisDataMsg struct {
	report analysis.MoodReport
}

func (m analysisModel) refresh() tea.Cmd {
	days := m.window()
	return func() tea.Msg {
		doc, err := m.store.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		report := analysis.BuildMoodReport(clk, doc, days,
			analysis.DefaultTrendEpsilon, analysis.DefaultAlertConfig())
		return analysisDataMsg{report: report}
	}
}

func (m analysisModel) update(msg tea.Msg) (analysisModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisDataMsg:
		m.report = msg.report
		m.loaded = true
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if m.windowIdx > 0 {
				m.windowIdx--
			}
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			if m.windowIdx < len(analysisWindows)-1 {
				m.windowIdx++
			}
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m *analysisModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, p := range m.report.Series {
		score := int(p.Value + 0.5)
		style := lipgloss.NewStyle().Foreground(colorSuccess)
		switch {
		case score <= 3:
			style = lipgloss.NewStyle().Foreground(colorError)
		case score <= 6:
			style = lipgloss.NewStyle().Foreground(colorWarning)
		}
		bars = append(bars, barchart.BarData{
			Label: p.Day.Format("02"),
			Values: []barchart.BarValue{
				{Name: "mood", Value: p.Value, Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m analysisModel) view() string {
	w := m.width - 4

	// Window tabs
	var tabs []string
	for i, days := range analysisWindows {
		label := "all"
		if days > 0 {
			label = fmt.Sprintf("%dd", days)
		}
		if i == m.windowIdx {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Mood Analysis"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	if !m.loaded {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("Loading..."),
		))
	}
	if m.report.Entries == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("No mood entries in this range"),
		))
	}

	summary := m.renderSummary()
	chartView := m.chart.View()
	alerts := m.renderAlerts()
	nav := mutedStyle.Render("  ←/→: change window")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", summary, "", chartView, "", alerts, "", nav,
		),
	)
}

func (m analysisModel) renderSummary() string {
	r := m.report

	var rows []string
	rows = append(rows, fmt.Sprintf("  entries: %d across %d days   avg %.2f/10 (min %.2f, max %.2f)",
		r.Entries, r.DayCount, r.Avg, r.Min, r.Max))

	trend := "not enough data"
	if r.Trend != analysis.TrendIndeterminate {
		trend = fmt.Sprintf("%s (%+.2f/day)", r.Trend, r.Slope)
	}
	rows = append(rows, "  trend: "+trend)

	rows = append(rows, "  "+corrLine("sleep vs mood", r.SleepCorr))
	rows = append(rows, "  "+corrLine("water vs mood", r.WaterCorr))

	return strings.Join(rows, "\n")
}

func corrLine(name string, c analysis.CorrResult) string {
	switch c.Status {
	case analysis.CorrTooFewPoints:
		return mutedStyle.Render(fmt.Sprintf("%s: not enough overlapping days (%d)", name, c.N))
	case analysis.CorrNoVariance:
		return mutedStyle.Render(name + ": unavailable (data lacks variation)")
	default:
		return fmt.Sprintf("%s: r=%+.2f over %d shared days", name, c.R, c.N)
	}
}

func (m analysisModel) renderAlerts() string {
	rep := m.report.Alerts

	if rep.Insufficient {
		return mutedStyle.Render("  alerts: not enough mood data yet")
	}

	var rows []string
	if rep.Dip != nil {
		status := "recent"
		if rep.Dip.Ongoing {
			status = "ongoing"
		}
		rows = append(rows, warningStyle.Render(
			fmt.Sprintf("  ▲ 3-day dip vs baseline (%s): avg %.2f, drop %.2f", status, rep.Dip.Avg3, rep.Dip.Drop)))
	} else if rep.Baseline != nil {
		rows = append(rows, successStyle.Render(
			fmt.Sprintf("  ● no dips below baseline (%.2f/10)", *rep.Baseline)))
	}

	if len(rep.Crashes) == 0 {
		rows = append(rows, successStyle.Render("  ● no crash patterns detected"))
	} else {
		rows = append(rows, errorStyle.Render(
			fmt.Sprintf("  ▼ %d crash pattern(s) detected — see `carelog mood analyze`", len(rep.Crashes))))
	}

	return strings.Join(rows, "\n")
}
