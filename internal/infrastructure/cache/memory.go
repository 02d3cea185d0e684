package cache

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is a thread-safe in-memory implementation of the cache store.
// It is the default backend and mirrors what the extension used to keep in
// browser local storage: plain keys mapping to JSON documents.
type MemoryStore struct {
	mutex sync.RWMutex
	data  map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]json.RawMessage)}
}

// Get retrieves the value for key, reporting ok=false when absent.
func (s *MemoryStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

// SetMany stores every entry, overwriting existing keys.
func (s *MemoryStore) SetMany(ctx context.Context, entries map[string]json.RawMessage) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key, value := range entries {
		// Copy so callers can reuse their buffers.
		stored := make(json.RawMessage, len(value))
		copy(stored, value)
		s.data[key] = stored
	}
	return nil
}

// RemoveMany deletes the given keys; missing keys are ignored.
func (s *MemoryStore) RemoveMany(ctx context.Context, keys []string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

// Enumerate returns a snapshot of the full store contents.
func (s *MemoryStore) Enumerate(ctx context.Context) (map[string]json.RawMessage, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	snapshot := make(map[string]json.RawMessage, len(s.data))
	for key, value := range s.data {
		snapshot[key] = value
	}
	return snapshot, nil
}

// Size returns the current number of stored keys (for debugging/monitoring).
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}
