package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/carelog/internal/analysis"
	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

var quickAmounts = []int{8, 12, 16, 24}

type waterModel struct {
	store  *store.Store
	width  int
	height int

	todayOz int
	goal    int
	series  analysis.DailySeries
	cursor  int

	formActive bool
	form       *huh.Form
	formType   string // "amount", "goal"
	formValue  *string
}

func newWaterModel(s *store.Store) waterModel {
	value := ""
	return waterModel{store: s, formValue: &value}
}

func (m *waterModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type waterDataMsg struct {
	todayOz int
	goal    int
	series  analysis.DailySeries
}

func (m waterModel) refresh() tea.Cmd {
	return func() tea.Msg {
		doc, err := m.store.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return waterDataMsg{
			todayOz: analysis.WaterTodayTotal(clk, doc.Water),
			goal:    doc.WaterGoalFor(today()),
			series:  analysis.WaterDaily(clk, doc.Water, 7),
		}
	}
}

func (m waterModel) update(msg tea.Msg) (waterModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case waterDataMsg:
		m.todayOz = msg.todayOz
		m.goal = msg.goal
		m.series = msg.series
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(quickAmounts)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			return m, m.addWater(quickAmounts[m.cursor])
		case key.Matches(msg, keys.New):
			return m.showForm("amount", "Ounces to log")
		case key.Matches(msg, keys.Goal):
			return m.showForm("goal", "Daily goal (oz)")
		}
	}
	return m, nil
}

func (m waterModel) showForm(formType, title string) (waterModel, tea.Cmd) {
	*m.formValue = ""
	m.formType = formType
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(title).Value(m.formValue),
		),
	).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m waterModel) updateForm(msg tea.Msg) (waterModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		oz, err := strconv.Atoi(strings.TrimSpace(*m.formValue))
		if err != nil || oz <= 0 {
			return m, func() tea.Msg {
				return statusMsg{text: "Amount must be a positive whole number of ounces", isError: true}
			}
		}
		if m.formType == "goal" {
			return m, m.setGoal(oz)
		}
		return m, m.addWater(oz)
	}

	return m, cmd
}

func (m waterModel) addWater(oz int) tea.Cmd {
	return func() tea.Msg {
		doc, err := m.store.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		doc.Water = append(doc.Water, store.WaterEntry{
			TS: timeparse.FormatEntry(clk()),
			Oz: oz,
		})
		if err := m.store.Save(doc); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return docChangedMsg{}
	}
}

func (m waterModel) setGoal(oz int) tea.Cmd {
	return func() tea.Msg {
		doc, err := m.store.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		if doc.WaterGoals == nil {
			doc.WaterGoals = map[string]int{}
		}
		doc.WaterGoals[store.WaterGoalKeyDefault] = oz
		if err := m.store.Save(doc); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return docChangedMsg{}
	}
}

func (m waterModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Water")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Water")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("today: %s %d/%d oz",
		waterBar(m.todayOz, m.goal, 24), m.todayOz, m.goal))
	rows = append(rows, "")

	for i, oz := range quickAmounts {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s+%d oz", cursor, oz)))
	}

	if len(m.series) > 0 {
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("last 7 days:"))
		for _, p := range m.series {
			rows = append(rows, fmt.Sprintf("  %s %s %d oz",
				p.Day.Format("Mon 02"), waterBar(int(p.Value), m.goal, 16), int(p.Value)))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: quick add  n: custom amount  g: set goal"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
