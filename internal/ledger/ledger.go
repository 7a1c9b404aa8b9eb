// Package ledger tracks which calendar days this profile has finished, with
// what result. It is independent of in-progress session state: a finished
// day is short-circuited with a summary instead of replaying a frozen board.
package ledger

import (
	"log"
	"maps"
	"sync"
)

// CompletionResult records how a finished day went.
type CompletionResult struct {
	GuessCount     int  `json:"guessCount"`
	ElapsedSeconds int  `json:"elapsedSeconds"`
	Won            bool `json:"won"`
}

// Store persists the full day-to-result map as one record.
type Store interface {
	Load() (map[string]CompletionResult, error)
	Save(map[string]CompletionResult) error
}

// Ledger is the per-day completion record. One entry per day; a repeat
// Record for the same day overwrites rather than accumulating.
type Ledger struct {
	mu      sync.Mutex
	store   Store
	entries map[string]CompletionResult
}

// New loads the ledger from its store. Unreadable content starts empty; a
// corrupted record must never block play.
func New(store Store) *Ledger {
	entries := map[string]CompletionResult{}
	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			log.Printf("[WARN] Failed to load completion ledger, starting empty: %v", err)
		} else if loaded != nil {
			entries = loaded
		}
	}
	return &Ledger{store: store, entries: entries}
}

// HasCompleted reports whether a result exists for the day.
func (l *Ledger) HasCompleted(dateKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[dateKey]
	return ok
}

// Result returns the stored result for a day, if any.
func (l *Ledger) Result(dateKey string) (CompletionResult, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.entries[dateKey]
	return r, ok
}

// Record upserts the result for a day and persists the whole map. Idempotent:
// the later of two calls for the same day wins.
func (l *Ledger) Record(dateKey string, r CompletionResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[dateKey] = r
	if l.store == nil {
		return
	}
	if err := l.store.Save(maps.Clone(l.entries)); err != nil {
		log.Printf("[WARN] Failed to persist completion ledger: %v", err)
	}
}

// RecordCompletion adapts Record to the session state machine's recorder
// contract.
func (l *Ledger) RecordCompletion(dateKey string, guessCount, elapsedSeconds int, won bool) {
	l.Record(dateKey, CompletionResult{
		GuessCount:     guessCount,
		ElapsedSeconds: elapsedSeconds,
		Won:            won,
	})
}

// Days returns the number of recorded days.
func (l *Ledger) Days() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
