package runtime

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]map[string]Record)}
}

func (s *MemoryStore) Insert(_ context.Context, entity string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[entity] == nil {
		s.records[entity] = make(map[string]Record)
	}
	if _, ok := s.records[entity][rec.ID]; ok {
		return fmt.Errorf("duplicate record %s/%s", entity, rec.ID)
	}
	s.records[entity][rec.ID] = rec
	return nil
}

func (s *MemoryStore) Get(_ context.Context, entity, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[entity][id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Update(_ context.Context, entity, id string, data map[string]any) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[entity][id]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.Data = data
	rec.UpdatedAt = time.Now().UTC()
	s.records[entity][id] = rec
	return rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, entity, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[entity][id]; !ok {
		return ErrNotFound
	}
	delete(s.records[entity], id)
	return nil
}

func (s *MemoryStore) List(_ context.Context, entity string, q Query) ([]Record, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Record
	for _, rec := range s.records[entity] {
		if matches(rec, q) {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	off := q.Offset()
	if off >= total {
		return nil, total, nil
	}
	end := off + q.Limit
	if q.Limit <= 0 || end > total {
		end = total
	}
	return matched[off:end], total, nil
}

func (s *MemoryStore) FindByField(_ context.Context, entity, field, value string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records[entity] {
		if str, ok := rec.Data[field].(string); ok && str == value {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func matches(rec Record, q Query) bool {
	for f, want := range q.Filter {
		if fmt.Sprint(rec.Data[f]) != want {
			return false
		}
	}
	if q.Search == "" || len(q.SearchFields) == 0 {
		return true
	}
	term := strings.ToLower(q.Search)
	for _, f := range q.SearchFields {
		if v, ok := rec.Data[f].(string); ok && strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
