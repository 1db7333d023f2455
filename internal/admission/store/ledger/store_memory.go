// Package ledger provides the in-memory free-trial usage store.
package ledger

import (
	"context"
	"sync"
)

// InMemoryLedgerStore implements ports.LedgerStore. Usage entries are
// created lazily on first increment and live for the process lifetime.
type InMemoryLedgerStore struct {
	mu    sync.RWMutex
	usage map[string]int
}

// New creates an empty in-memory ledger store.
func New() *InMemoryLedgerStore {
	return &InMemoryLedgerStore{
		usage: make(map[string]int),
	}
}

// Peek returns the current usage for key without mutating it. Unknown keys
// report zero usage.
func (s *InMemoryLedgerStore) Peek(_ context.Context, key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage[key], nil
}

// IncrementIfBelow atomically increments key's usage if it is below ceiling.
// The compare and the increment happen under one lock, so a key can never
// exceed ceiling through ledger operations alone.
func (s *InMemoryLedgerStore) IncrementIfBelow(_ context.Context, key string, ceiling int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.usage[key]
	if current >= ceiling {
		return current, false, nil
	}
	s.usage[key] = current + 1
	return current + 1, true, nil
}
