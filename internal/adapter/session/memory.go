package session

import (
	"context"
	"sync"
	"time"

	"lendora-backend/internal/usecase/auth"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in-process. Entries are reaped lazily on read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var exp time.Time
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.entries[key] = entry{value: v, expiresAt: exp}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, auth.ErrSessionNotFound
	}
	v := make([]byte, len(e.value))
	copy(v, e.value)
	return v, nil
}

func (s *MemoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
