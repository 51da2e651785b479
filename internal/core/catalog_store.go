package core

import (
	"slices"
	"sync"
)

// CatalogStore holds one session's full firm list and the currently filtered
// subset. Both are replaced wholesale, never merged. Readers get copies.
type CatalogStore struct {
	mu       sync.RWMutex
	full     []Firm
	filtered []Firm
	loaded   bool
}

// NewCatalogStore returns an empty store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{}
}

// Load sets the full catalog and resets the filtered view to it.
func (s *CatalogStore) Load(firms []Firm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.full = slices.Clone(firms)
	s.filtered = slices.Clone(firms)
	s.loaded = true
}

// Loaded reports whether Load has been called.
func (s *CatalogStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Full returns a copy of the unfiltered catalog in original order.
func (s *CatalogStore) Full() []Firm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.full)
}

// Filtered returns a copy of the current filtered subset.
func (s *CatalogStore) Filtered() []Firm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.filtered)
}

// ReplaceFiltered swaps in a new filtered subset.
func (s *CatalogStore) ReplaceFiltered(firms []Firm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtered = slices.Clone(firms)
}

// ResetFiltered makes the filtered subset equal to the full catalog.
func (s *CatalogStore) ResetFiltered() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtered = slices.Clone(s.full)
}

// Lookup finds a firm in the full catalog by ID.
func (s *CatalogStore) Lookup(id string) (Firm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.full {
		if f.ID == id {
			return f, true
		}
	}
	return Firm{}, false
}
