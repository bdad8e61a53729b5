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

type medsModel struct {
	store  *store.Store
	width  int
	height int

	entries []store.MedicationEntry

	formActive bool
	form       *huh.Form

	formName  *string
	formDose  *string
	formWhen  *string
	formNotes *string
}

func newMedsModel(s *store.Store) medsModel {
	name, dose, when, notes := "", "", "", ""
	return medsModel{
		store:     s,
		formName:  &name,
		formDose:  &dose,
		formWhen:  &when,
		formNotes: &notes,
	}
}

func (m *medsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type medsDataMsg struct {
	entries []store.MedicationEntry
}

func (m medsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		doc, err := m.store.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return medsDataMsg{entries: doc.Medications}
	}
}

func (m medsModel) update(msg tea.Msg) (medsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case medsDataMsg:
		m.entries = msg.entries
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.New) {
			return m.showForm()
		}
	}
	return m, nil
}

func (m medsModel) showForm() (medsModel, tea.Cmd) {
	*m.formName = ""
	*m.formDose = ""
	*m.formWhen = ""
	*m.formNotes = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Medication").Placeholder("vyvanse").Value(m.formName),
			huh.NewInput().Title("Dose").Placeholder("30mg").Value(m.formDose),
			huh.NewInput().Title("When").Placeholder("now, 7:34am, yesterday 9pm").Value(m.formWhen),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m medsModel) updateForm(msg tea.Msg) (medsModel, tea.Cmd) {
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
		if strings.TrimSpace(*m.formName) == "" {
			return m, nil
		}
		return m, m.saveEntry(*m.formName, *m.formDose, *m.formWhen, *m.formNotes)
	}

	return m, cmd
}

func (m medsModel) saveEntry(name, dose, when, notes string) tea.Cmd {
	return func() tea.Msg {
		ts, err := timeparse.Parse(clk, when)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		doc, err := m.store.Load()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		doc.Medications = append(doc.Medications, store.MedicationEntry{
			TS:    timeparse.FormatEntry(ts),
			Name:  strings.TrimSpace(name),
			Dose:  strings.TrimSpace(dose),
			Notes: strings.TrimSpace(notes),
		})
		if err := m.store.Save(doc); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return docChangedMsg{}
	}
}

func (m medsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Log Dose")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Medication Log")

	if len(m.entries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No doses logged yet. Press n to add one."),
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
		line := fmt.Sprintf("  %s  %s %s", when, highlightStyle.Render(e.Name), e.Dose)
		if e.Notes != "" {
			line += mutedStyle.Render("  " + e.Notes)
		}
		rows = append(rows, line)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: log dose"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
