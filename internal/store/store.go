package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnvDataPath overrides the default data file location when set.
const EnvDataPath = "CARELOG_DATA"

// Store reads and writes the JSON document at a fixed path. Load always
// returns a usable document: a missing or blank file is initialized, a
// corrupt one is backed up and reset.
type Store struct {
	path string
}

// New creates a store for the given path. Nothing is touched on disk
// until Load or Save.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the data file location.
func (s *Store) Path() string { return s.path }

// DefaultDataPath is ~/.config/carelog/data.json, or
// ~/.config/carelog/<profile>.json when a profile is set.
func DefaultDataPath(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	name := "data.json"
	if profile != "" {
		name = profile + ".json"
	}
	return filepath.Join(home, ".config", "carelog", name), nil
}

// ResolveDataPath picks the data file: explicit path first, then the
// CARELOG_DATA environment variable, then the profile-scoped default.
func ResolveDataPath(dataArg, profile string) (string, error) {
	if dataArg != "" {
		return absExpanded(dataArg)
	}
	if env := os.Getenv(EnvDataPath); env != "" {
		return absExpanded(env)
	}
	p, err := DefaultDataPath(profile)
	if err != nil {
		return "", err
	}
	return absExpanded(p)
}

func absExpanded(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve data path: %w", err)
	}
	return abs, nil
}

// Load reads the document. Missing or blank files are initialized to an
// empty document on disk. A file that fails to parse is moved aside to
// <name>.corrupt-<unix>.json and replaced with an empty document. JSON
// that parses but is not an object is treated as empty without a backup.
func (s *Store) Load() (*Document, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		doc := NewDocument()
		if err := s.Save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	if strings.TrimSpace(string(raw)) == "" {
		doc := NewDocument()
		if err := s.Save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}

	doc := NewDocument()
	if err := json.Unmarshal(raw, doc); err != nil {
		if json.Valid(raw) {
			// Parseable but not an object (an array, a bare string).
			// Start empty without trashing what is there.
			return NewDocument(), nil
		}
		if err := s.backupCorrupt(raw); err != nil {
			return nil, err
		}
		doc = NewDocument()
		if err := s.Save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	return doc, nil
}

func (s *Store) backupCorrupt(raw []byte) error {
	base := strings.TrimSuffix(s.path, filepath.Ext(s.path))
	backup := fmt.Sprintf("%s.corrupt-%d.json", base, time.Now().Unix())
	if err := os.WriteFile(backup, raw, 0o600); err != nil {
		return fmt.Errorf("back up corrupt data file: %w", err)
	}
	return nil
}

// Save writes the document atomically: temp file in the same directory,
// fsync, rename over the target, then chmod 0600 best-effort.
func (s *Store) Save(doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	payload = append(payload, '\n')

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp data file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp data file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace data file: %w", err)
	}
	_ = os.Chmod(s.path, 0o600)
	return nil
}
