package settings

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps blobs in-memory for tests and ephemeral sessions.
type MemoryStore struct {
	mu          sync.RWMutex
	blobs       map[string][]byte
	broadcaster *changeBroadcaster
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs:       make(map[string][]byte),
		broadcaster: newChangeBroadcaster(),
	}
}

// Get returns a copy of the blob stored under key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, ErrKeyRequired
	}
	s.mu.RLock()
	blob, ok := s.blobs[trimmed]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), blob...), nil
}

// Put stores blob under key.
func (s *MemoryStore) Put(_ context.Context, key string, blob []byte) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ErrKeyRequired
	}

	s.mu.Lock()
	_, exists := s.blobs[trimmed]
	s.blobs[trimmed] = append([]byte(nil), blob...)
	s.mu.Unlock()

	eventType := ChangeCreated
	if exists {
		eventType = ChangeUpdated
	}
	s.broadcaster.Broadcast(ChangeEvent{Type: eventType, Key: trimmed})
	return nil
}

// Delete removes the blob stored under key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ErrKeyRequired
	}

	s.mu.Lock()
	if _, ok := s.blobs[trimmed]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.blobs, trimmed)
	s.mu.Unlock()

	s.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: trimmed})
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (s *MemoryStore) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.broadcaster.Subscribe(ctx)
}
