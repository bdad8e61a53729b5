package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewMood
	viewMeds
	viewWater
	viewFocus
	viewAnalysis
)

var viewNames = []string{"Dashboard", "Mood", "Meds", "Water", "Focus", "Analysis"}

// clk supplies the current time; tests override it.
var clk timeparse.Clock = time.Now

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// docChangedMsg tells other views their cached data may be stale.
type docChangedMsg struct{}

type exportDoneMsg struct {
	path string
}

type focusLoggedMsg struct {
	session store.FocusSession
}

// --- Helpers ---

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func today() string {
	return clk().In(time.Local).Format("2006-01-02")
}
