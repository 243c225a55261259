// Package memory is a process-local key-value provider. Nothing survives a
// restart; it backs tests and throwaway sessions.
package memory

import (
	"context"
	"maps"
	"sync"
)

type Store struct {
	mu     sync.Mutex
	items  map[string]string
	writes int
}

func New() *Store {
	return &Store{items: map[string]string{}}
}

// NewWithSeed starts the store with a copy of seed.
func NewWithSeed(seed map[string]string) *Store {
	s := New()
	maps.Copy(s.items, seed)
	return s
}

// Get implements ledger.KV
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

// Set implements ledger.KV
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	s.writes++
	return nil
}

// Writes counts Set calls since creation.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
