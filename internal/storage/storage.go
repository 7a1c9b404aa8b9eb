// Package storage is the persistence seam for the game: two independent
// records behind small interfaces, so the same state machine runs against
// files in production and in-memory stores in tests. The contract mirrors a
// browser profile's local storage: one key holding the current session
// snapshot, one holding the completion map, whole-record rewrites, last
// write wins.
package storage

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/Ministry-of-Technology-AU/dailyword/internal/game"
	"github.com/Ministry-of-Technology-AU/dailyword/internal/ledger"
)

const (
	sessionFileName = "session.json"
	ledgerFileName  = "completions.json"
)

// SessionStore persists the single current-session snapshot. Load returns
// (nil, nil) when nothing usable is stored.
type SessionStore interface {
	Load() (*game.SessionSnapshot, error)
	Save(*game.SessionSnapshot) error
}

// SessionFile keeps the current session snapshot in one JSON file,
// overwritten on every mutation.
type SessionFile struct {
	path string
}

// NewSessionFile creates the data directory if needed and returns the store.
func NewSessionFile(dir string) (*SessionFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &SessionFile{path: filepath.Join(dir, sessionFileName)}, nil
}

func (s *SessionFile) Load() (*game.SessionSnapshot, error) {
	var snap game.SessionSnapshot
	if !readJSONFile(s.path, &snap) {
		return nil, nil
	}
	return &snap, nil
}

func (s *SessionFile) Save(snap *game.SessionSnapshot) error {
	return writeJSONFile(s.path, snap)
}

// LedgerFile keeps the full completion map in one JSON file.
type LedgerFile struct {
	path string
}

func NewLedgerFile(dir string) (*LedgerFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &LedgerFile{path: filepath.Join(dir, ledgerFileName)}, nil
}

func (l *LedgerFile) Load() (map[string]ledger.CompletionResult, error) {
	var entries map[string]ledger.CompletionResult
	if !readJSONFile(l.path, &entries) {
		return nil, nil
	}
	return entries, nil
}

func (l *LedgerFile) Save(entries map[string]ledger.CompletionResult) error {
	return writeJSONFile(l.path, entries)
}

// readJSONFile reports whether v was populated. A missing file is simply
// absent; an unreadable or corrupt file is removed and treated as absent,
// never surfaced to the player.
func readJSONFile(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] Failed to read %s: %v", path, err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("[WARN] Failed to unmarshal %s (corrupted), removing: %v", path, err)
		os.Remove(path)
		return false
	}
	return true
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
