package core

import (
	"slices"
	"sync"

	"github.com/JonMunkholm/PropCompare/internal/metrics"
)

// MaxSelection is the most firms a comparison can hold.
const MaxSelection = 4

// SelectionSet is the ordered set of firm IDs picked for comparison.
// Order is insertion order and decides comparison column order.
type SelectionSet struct {
	mu  sync.RWMutex
	ids []string
}

// NewSelectionSet returns an empty selection.
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{}
}

// Toggle removes id if present, otherwise appends it. When the set is full
// and id is absent nothing changes and ErrSelectionLimitReached is returned
// together with the unchanged IDs.
func (s *SelectionSet) Toggle(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return slices.Clone(s.ids), nil
	}
	if len(s.ids) >= MaxSelection {
		metrics.SelectionRejected.Inc()
		return slices.Clone(s.ids), ErrSelectionLimitReached
	}
	s.ids = append(s.ids, id)
	return slices.Clone(s.ids), nil
}

// Clear empties the selection.
func (s *SelectionSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
}

// IDs returns the selected IDs in insertion order.
func (s *SelectionSet) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

// Contains reports whether id is selected.
func (s *SelectionSet) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.ids, id)
}

// Len returns the number of selected firms.
func (s *SelectionSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Full reports whether another firm can be added.
func (s *SelectionSet) Full() bool {
	return s.Len() >= MaxSelection
}
