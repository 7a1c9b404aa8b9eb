package storage

import (
	"maps"
	"sync"

	"github.com/Ministry-of-Technology-AU/dailyword/internal/game"
	"github.com/Ministry-of-Technology-AU/dailyword/internal/ledger"
)

// MemorySessionStore holds the snapshot in memory. Used by tests.
type MemorySessionStore struct {
	mu   sync.Mutex
	snap *game.SessionSnapshot
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (m *MemorySessionStore) Load() (*game.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *MemorySessionStore) Save(snap *game.SessionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	return nil
}

// MemoryLedgerStore holds the completion map in memory. Used by tests.
type MemoryLedgerStore struct {
	mu      sync.Mutex
	entries map[string]ledger.CompletionResult
}

func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{}
}

func (m *MemoryLedgerStore) Load() (map[string]ledger.CompletionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.entries), nil
}

func (m *MemoryLedgerStore) Save(entries map[string]ledger.CompletionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = maps.Clone(entries)
	return nil
}
