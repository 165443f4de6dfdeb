package artifact

import (
	"fmt"
	"sync"
)

// MemoryStore implements Store using an in-memory map.
// Intended for tests; no filesystem required.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[Identity][]byte
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[Identity][]byte)}
}

func (s *MemoryStore) Exists(id Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[id]
	return ok, nil
}

func (s *MemoryStore) Write(id Identity, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; ok {
		return fmt.Errorf("writing artifact %s: %w", id, ErrExists)
	}
	s.data[id] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Overwrite(id Identity, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Read(id Identity) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("reading artifact %s: %w", id, ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Len reports how many artifacts the store holds.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
