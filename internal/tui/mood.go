package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

type moodModel struct {
	store  *store.Store
	width  int
	height int

	entries []store.MoodEntry

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formScore *int
	formWhen  *string
	formTags  *string
	formNotes *string
	formSleep *string
}

func newMoodModel(s *store.Store) moodModel {
	score, when, tags, notes, sleep := 5, "", "", "", ""
	return moodModel{
		store:     s,
		formScore: &score,
		formWhen:  &when,
		formTags:  &tags,
		formNotes: &notes,
		formSleep: &sleep,
	}
}

func (m *moodModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type moodDataMsg struct {
	entries []store.MoodEntry
}

func (m moodModel) refresh() tea.Cmd {
	return func() tea.Msg {
		doc, err := m.store.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return moodDataMsg{entries: doc.Moods}
	}
}

func (m moodModel) update(msg tea.Msg) (moodModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case moodDataMsg:
		m.entries = msg.entries
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.New) {
			return m.showForm()
		}
	}
	return m, nil
}

func (m moodModel) showForm() (moodModel, tea.Cmd) {
	*m.formScore = 5
	*m.formWhen = ""
	*m.formTags = ""
	*m.formNotes = ""
	*m.formSleep = ""

	scoreOptions := make([]huh.Option[int], 10)
	for i := 0; i < 10; i++ {
		scoreOptions[i] = huh.NewOption(fmt.Sprintf("%d", i+1), i+1)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("Score (1-10)").Options(scoreOptions...).Value(m.formScore),
			huh.NewInput().Title("When").Placeholder("now, 7:34am, 2 hours ago").Value(m.formWhen),
			huh.NewInput().Title("Tags").Placeholder("work, tired").Value(m.formTags),
			huh.NewInput().Title("Notes").Value(m.formNotes),
			huh.NewInput().Title("Sleep").Placeholder("450, 7:30, or 7h30m").Value(m.formSleep),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m moodModel) updateForm(msg tea.Msg) (moodModel, tea.Cmd) {
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
		return m, m.saveEntry(*m.formScore, *m.formWhen, *m.formTags, *m.formNotes, *m.formSleep)
	}

	return m, cmd
}

func (m moodModel) saveEntry(score int, when, tags, notes, sleep string) tea.Cmd {
	return func() tea.Msg {
		ts, err := timeparse.Parse(clk, when)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		sleepMin, err := timeparse.ParseMinutes("sleep", sleep)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		doc, err := m.store.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		doc.Moods = append(doc.Moods, store.MoodEntry{
			TS:            timeparse.FormatEntry(ts),
			Score:         store.IntPtr(score),
			Notes:         strings.TrimSpace(notes),
			Tags:          store.ParseTags(tags),
			SleepTotalMin: sleepMin,
		})
		if err := m.store.Save(doc); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return docChangedMsg{}
	}
}

func (m moodModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Mood Entry")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Mood Entries")

	if len(m.entries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No entries yet. Press n to log your mood."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	shown := m.entries
	if len(shown) > 12 {
		shown = shown[len(shown)-12:]
	}
	for i := len(shown) - 1; i >= 0; i-- {
		e := shown[i]
		when := e.TS
		if ts, ok := timeparse.FromEntry(e.TS); ok {
			when = ts.Format("Jan 02 15:04")
		}
		scoreCell := mutedStyle.Render("   -")
		if score, ok := e.ValidScore(); ok {
			scoreCell = scoreStyle(score).Render(fmt.Sprintf("%2d/10", score))
		}
		line := fmt.Sprintf("  %s  %s", when, scoreCell)
		if len(e.Tags) > 0 {
			line += mutedStyle.Render("  [" + strings.Join(e.Tags, ", ") + "]")
		}
		if e.Notes != "" {
			line += "  " + e.Notes
		}
		rows = append(rows, line)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new entry"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
