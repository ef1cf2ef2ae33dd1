// Package memory provides an in-process key-value store for local development and tests.
package memory

import (
	"context"
	"sync"
)

// Store keeps string values in a map.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// GetString implements persistence.Store.
func (s *Store) GetString(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

// SetString implements persistence.Store.
func (s *Store) SetString(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// RemoveKey implements persistence.Store.
func (s *Store) RemoveKey(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
