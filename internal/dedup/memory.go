package dedup

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. Duplicates are only caught within
// the lifetime of this instance; use the Postgres or Redis store when
// redelivery can span restarts.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

func (s *MemoryStore) Exists(ctx context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[eventID]
	return ok, nil
}

func (s *MemoryStore) Insert(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[eventID] = struct{}{}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
