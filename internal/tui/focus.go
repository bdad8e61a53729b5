package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/gen2brain/beeep"

	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

type focusPhase int

const (
	focusIdle focusPhase = iota
	focusWork
	focusShortBreak
	focusLongBreak
	focusDone
)

const (
	workDuration      = 25 * time.Minute
	breakDuration     = 5 * time.Minute
	longBreakDuration = 15 * time.Minute
	targetCount       = 4
)

var sessionTypes = []string{"work", "study", "admin", "chores"}

type focusModel struct {
	store  *store.Store
	width  int
	height int

	phase          focusPhase
	completedCount int

	remaining time.Duration
	phaseEnd  time.Time
	workSpan  time.Duration // duration of the current work phase

	task        string
	sessionType string

	recent []store.FocusSession

	formActive bool
	form       *huh.Form
	formTask   *string
	formType   *string
}

func newFocusModel(s *store.Store) focusModel {
	task, typ := "", sessionTypes[0]
	return focusModel{
		store:    s,
		phase:    focusIdle,
		formTask: &task,
		formType: &typ,
	}
}

func (m *focusModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m focusModel) active() bool {
	return m.phase == focusWork || m.phase == focusShortBreak || m.phase == focusLongBreak
}

type focusDataMsg struct {
	recent []store.FocusSession
}

func (m focusModel) refresh() tea.Cmd {
	return func() tea.Msg {
		doc, err := m.store.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return focusDataMsg{recent: doc.FocusSessions}
	}
}

func (m focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case focusDataMsg:
		m.recent = msg.recent
		return m, nil

	case tickMsg:
		if m.active() {
			m.remaining = time.Until(m.phaseEnd)
			if m.remaining <= 0 {
				return m.advancePhase()
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if m.phase == focusIdle || m.phase == focusDone {
				return m.showForm()
			}
		case key.Matches(msg, keys.Stop):
			if m.phase != focusIdle {
				return m.cancelSession()
			}
		case key.Matches(msg, keys.Skip):
			if m.phase == focusShortBreak || m.phase == focusLongBreak {
				return m.startWorkPhase()
			}
		}
	}
	return m, nil
}

func (m focusModel) showForm() (focusModel, tea.Cmd) {
	*m.formTask = ""
	*m.formType = sessionTypes[0]

	typeOptions := make([]huh.Option[string], len(sessionTypes))
	for i, t := range sessionTypes {
		typeOptions[i] = huh.NewOption(t, t)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Placeholder("deep work").Value(m.formTask),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(m.formType),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m focusModel) updateForm(msg tea.Msg) (focusModel, tea.Cmd) {
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
		m.task = strings.TrimSpace(*m.formTask)
		if m.task == "" {
			m.task = "focus"
		}
		m.sessionType = *m.formType
		m.completedCount = 0
		next, cmd2 := m.startWorkPhase()
		return next, cmd2
	}

	return m, cmd
}

func (m focusModel) startWorkPhase() (focusModel, tea.Cmd) {
	m.phase = focusWork
	m.workSpan = workDuration
	m.remaining = workDuration
	m.phaseEnd = time.Now().Add(workDuration)
	return m, nil
}

func (m focusModel) advancePhase() (focusModel, tea.Cmd) {
	switch m.phase {
	case focusWork:
		m.completedCount++
		logCmd := m.logSession(int(m.workSpan.Minutes()), true)

		if m.completedCount >= targetCount {
			m.phase = focusDone
			return m, tea.Batch(logCmd, notifyCmd("Focus session complete", "All work phases done. Nice."))
		}

		// Every 4th work phase earns a long break.
		if m.completedCount%targetCount == 0 {
			m.phase = focusLongBreak
			m.remaining = longBreakDuration
			m.phaseEnd = time.Now().Add(longBreakDuration)
		} else {
			m.phase = focusShortBreak
			m.remaining = breakDuration
			m.phaseEnd = time.Now().Add(breakDuration)
		}
		return m, tea.Batch(logCmd, notifyCmd("Work phase complete", "Break time."))

	case focusShortBreak, focusLongBreak:
		next, cmd := m.startWorkPhase()
		return next, tea.Batch(cmd, notifyCmd("Break over", "Back to work."))
	}
	return m, nil
}

func (m focusModel) cancelSession() (focusModel, tea.Cmd) {
	var logCmd tea.Cmd
	if m.phase == focusWork {
		// Partial sessions under a minute are dropped.
		elapsed := m.workSpan - m.remaining
		if minutes := int(elapsed.Minutes()); minutes >= 1 {
			logCmd = m.logSession(minutes, false)
		}
	}
	m.phase = focusIdle
	m.remaining = 0
	if logCmd != nil {
		return m, logCmd
	}
	return m, func() tea.Msg {
		return statusMsg{text: "Focus session cancelled"}
	}
}

func (m focusModel) logSession(minutes int, completed bool) tea.Cmd {
	task, typ := m.task, m.sessionType
	return func() tea.Msg {
		doc, err := m.store.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		session := store.FocusSession{
			TS:          timeparse.FormatEntry(clk()),
			Task:        task,
			Type:        typ,
			DurationMin: minutes,
			Completed:   completed,
		}
		doc.FocusSessions = append(doc.FocusSessions, session)
		if err := m.store.Save(doc); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return focusLoggedMsg{session: session}
	}
}

// notifyCmd fires a desktop notification; failure only surfaces in
// the status line via the terminal bell fallback.
func notifyCmd(title, body string) tea.Cmd {
	return func() tea.Msg {
		_ = beeep.Notify("carelog", title+" — "+body, "")
		return statusMsg{text: title + " \a"}
	}
}

func (m focusModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Start Focus Session")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Focus Timer")

	var timeDisplay, phaseLabel, indicator string
	switch m.phase {
	case focusIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatCountdown(workDuration))
		phaseLabel = mutedStyle.Render("Ready to start")
		indicator = mutedStyle.Render("Press s to begin")
	case focusWork:
		timeDisplay = accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(m.remaining))
		phaseLabel = accentStyle.Bold(true).Render("WORK — " + m.task)
		indicator = m.renderProgress()
	case focusShortBreak:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(m.remaining))
		phaseLabel = successStyle.Bold(true).Render("SHORT BREAK")
		indicator = m.renderProgress()
	case focusLongBreak:
		timeDisplay = highlightStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(m.remaining))
		phaseLabel = highlightStyle.Bold(true).Render("LONG BREAK")
		indicator = m.renderProgress()
	case focusDone:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render("Done!")
		phaseLabel = successStyle.Bold(true).Render("SESSION COMPLETE")
		indicator = m.renderProgress()
	}

	var controls string
	switch m.phase {
	case focusIdle, focusDone:
		controls = mutedStyle.Render("s: start  q: quit")
	case focusWork:
		controls = mutedStyle.Render("x: cancel (partial time is kept)")
	case focusShortBreak, focusLongBreak:
		controls = mutedStyle.Render("space: skip break  x: cancel")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		indicator,
		"",
		controls,
	)

	timerPanel := panelStyle.Width(w).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, m.renderRecent(w))
}

func (m focusModel) renderProgress() string {
	var parts []string
	for i := 0; i < targetCount; i++ {
		if i < m.completedCount {
			parts = append(parts, successStyle.Render("●"))
		} else if i == m.completedCount && m.phase == focusWork {
			parts = append(parts, accentStyle.Render("◐"))
		} else {
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	progress := strings.Join(parts, " ")
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", m.completedCount, targetCount))
	return progress + counter
}

func (m focusModel) renderRecent(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(m.recent) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No sessions yet"),
		))
	}

	var rows []string
	rows = append(rows, title)
	shown := m.recent
	if len(shown) > 5 {
		shown = shown[len(shown)-5:]
	}
	for i := len(shown) - 1; i >= 0; i-- {
		s := shown[i]
		when := s.TS
		if ts, ok := timeparse.FromEntry(s.TS); ok {
			when = ts.Format("Jan 02 15:04")
		}
		status := successStyle.Render("✓")
		if !s.Completed {
			status = warningStyle.Render("◌")
		}
		rows = append(rows, fmt.Sprintf("  %s %s  %-16s %3d min", status, when, s.Task, s.DurationMin))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
