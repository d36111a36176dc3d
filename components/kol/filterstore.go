package kol

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// FilterStorageKey is the fixed name under which the serialized condition
// list is held. Browser clients use it as their sessionStorage key; the
// in-memory store namespaces it per session id.
const FilterStorageKey = "kol_table_filters"

// InMemoryFilterStore provides a concurrency-safe default store. It keeps the
// JSON encoding rather than decoded structs so reloads exercise the same
// round-trip a browser session store would.
type InMemoryFilterStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewInMemoryFilterStore creates an empty filter store.
func NewInMemoryFilterStore() *InMemoryFilterStore {
	return &InMemoryFilterStore{data: make(map[string][]byte)}
}

// Load returns the persisted conditions for a session, or nil when absent.
func (s *InMemoryFilterStore) Load(_ context.Context, session Session) ([]Condition, error) {
	s.mu.RLock()
	raw, ok := s.data[s.key(session)]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var conds []Condition
	if err := json.Unmarshal(raw, &conds); err != nil {
		return nil, fmt.Errorf("kol: decode persisted filters: %w", err)
	}
	return conds, nil
}

// Save persists the condition list. An empty list removes the entry.
func (s *InMemoryFilterStore) Save(_ context.Context, session Session, conds []Condition) error {
	if session.ID == "" {
		return fmt.Errorf("kol: filter store requires session id")
	}
	if len(conds) == 0 {
		s.mu.Lock()
		delete(s.data, s.key(session))
		s.mu.Unlock()
		return nil
	}
	raw, err := json.Marshal(conds)
	if err != nil {
		return fmt.Errorf("kol: encode filters: %w", err)
	}
	s.mu.Lock()
	s.data[s.key(session)] = raw
	s.mu.Unlock()
	return nil
}

// Clear removes the persisted entry for a session.
func (s *InMemoryFilterStore) Clear(_ context.Context, session Session) error {
	s.mu.Lock()
	delete(s.data, s.key(session))
	s.mu.Unlock()
	return nil
}

// Has reports whether an entry exists for the session.
func (s *InMemoryFilterStore) Has(session Session) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[s.key(session)]
	return ok
}

func (s *InMemoryFilterStore) key(session Session) string {
	return session.ID + "::" + FilterStorageKey
}
