package memory

import (
	"context"
	"sync"

	"github.com/mcoot/scoretracker/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Contents are lost when the process exits.
type Storage struct {
	mu     sync.RWMutex
	values map[storage.Key][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		values: make(map[storage.Key][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Get(ctx context.Context, key storage.Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, storage.ErrKeyNotFound
	}
	return cloneBytes(value), nil
}

func (s *Storage) Set(ctx context.Context, key storage.Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = cloneBytes(value)
	return nil
}

func (s *Storage) SetMany(ctx context.Context, values map[storage.Key][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range values {
		s.values[key] = cloneBytes(value)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, keys ...storage.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// Len returns the number of stored keys
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
