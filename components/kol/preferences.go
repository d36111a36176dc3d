package kol

import (
	"context"
	"fmt"
	"sync"
)

const defaultPageSize = 10

// pageSizeChoices mirror the page-size selector in the table footer.
var pageSizeChoices = []int{10, 20, 50, 100}

// InMemoryPreferenceStore provides a concurrency-safe default store for
// per-viewer table preferences.
type InMemoryPreferenceStore struct {
	mu      sync.RWMutex
	catalog *Catalog
	data    map[string]TablePreferences
}

// NewInMemoryPreferenceStore creates an empty preference store. The catalog
// supplies the default visible-column set.
func NewInMemoryPreferenceStore(catalog *Catalog) *InMemoryPreferenceStore {
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &InMemoryPreferenceStore{
		catalog: catalog,
		data:    make(map[string]TablePreferences),
	}
}

// TablePreferences returns stored preferences or defaults (all columns
// visible, default page size).
func (s *InMemoryPreferenceStore) TablePreferences(_ context.Context, session Session) (TablePreferences, error) {
	if session.UserID != "" {
		s.mu.RLock()
		prefs, ok := s.data[session.UserID]
		s.mu.RUnlock()
		if ok {
			s.normalize(&prefs)
			return prefs, nil
		}
	}
	return s.defaults(), nil
}

// SaveTablePreferences persists preferences for a viewer.
func (s *InMemoryPreferenceStore) SaveTablePreferences(_ context.Context, session Session, prefs TablePreferences) error {
	if session.UserID == "" {
		return fmt.Errorf("kol: preference store requires viewer user id")
	}
	s.normalize(&prefs)
	s.mu.Lock()
	s.data[session.UserID] = prefs
	s.mu.Unlock()
	return nil
}

func (s *InMemoryPreferenceStore) defaults() TablePreferences {
	cols := s.catalog.Columns()
	visible := make([]string, 0, len(cols))
	for _, col := range cols {
		visible = append(visible, col.Key)
	}
	return TablePreferences{VisibleColumns: visible, PageSize: defaultPageSize}
}

// normalize drops unknown columns and clamps the page size to the selector
// choices.
func (s *InMemoryPreferenceStore) normalize(prefs *TablePreferences) {
	if prefs.VisibleColumns == nil {
		prefs.VisibleColumns = s.defaults().VisibleColumns
	} else {
		kept := prefs.VisibleColumns[:0]
		for _, key := range prefs.VisibleColumns {
			if _, ok := s.catalog.Column(key); ok {
				kept = append(kept, key)
			}
		}
		prefs.VisibleColumns = kept
	}
	valid := false
	for _, size := range pageSizeChoices {
		if prefs.PageSize == size {
			valid = true
			break
		}
	}
	if !valid {
		prefs.PageSize = defaultPageSize
	}
}
