// Package memory provides an in-process blob store for local development and tests.
package memory

import (
	"context"
	"sync"
)

// Store keeps blobs in a map.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]string
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{blobs: make(map[string]string)}
}

// Get returns the blob stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.blobs[key]
	return value, ok, nil
}

// Set overwrites the blob stored under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = value
	return nil
}
