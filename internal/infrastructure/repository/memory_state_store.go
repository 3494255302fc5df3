package repository

import (
	"context"
	"sync"
	"time"

	"skyutilities-dashboard/internal/ports"
)

// MemoryStateStore keeps OAuth state nonces in process memory.
// Used when no Redis is configured; states do not survive restarts or span replicas.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

// NewMemoryStateStore creates an in-memory state store
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		states: make(map[string]time.Time),
		now:    time.Now,
	}
}

var _ ports.OAuthStateStore = (*MemoryStateStore)(nil)

// Save records the state until ttl elapses, dropping any expired entries
func (s *MemoryStateStore) Save(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, expiresAt := range s.states {
		if now.After(expiresAt) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(ttl)
	return nil
}

// Consume removes the state and reports whether it was still valid
func (s *MemoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.states[state]
	if !ok {
		return false, nil
	}
	delete(s.states, state)
	return !s.now().After(expiresAt), nil
}
