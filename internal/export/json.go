package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/carelog/internal/analysis"
	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

type focusExport struct {
	ExportedAt string         `json:"exported_at"`
	Count      int            `json:"count"`
	Sessions   []focusSession `json:"sessions"`
}

type focusSession struct {
	TS          string `json:"ts"`
	Task        string `json:"task"`
	Type        string `json:"type,omitempty"`
	DurationMin int    `json:"duration_min"`
	Completed   bool   `json:"completed"`
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FocusJSON writes the window's focus sessions with an export envelope.
func FocusJSON(clock timeparse.Clock, sessions []store.FocusSession, days int, path string) (int, error) {
	cutoff, bounded := analysis.WindowCutoff(clock, days)

	out := focusExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Sessions:   []focusSession{},
	}
	for _, s := range sessions {
		ts, ok := timeparse.FromEntry(s.TS)
		if !ok {
			continue
		}
		if bounded && ts.Before(cutoff) {
			continue
		}
		out.Sessions = append(out.Sessions, focusSession{
			TS:          s.TS,
			Task:        s.Task,
			Type:        s.Type,
			DurationMin: s.DurationMin,
			Completed:   s.Completed,
		})
	}
	out.Count = len(out.Sessions)

	if err := writeJSON(path, out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// DocumentJSON writes a full snapshot of the data document, unknown
// keys included.
func DocumentJSON(doc *store.Document, path string) error {
	return writeJSON(path, doc)
}
