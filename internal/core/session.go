package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/PropCompare/internal/logging"
)

// Catalog is the remote catalog service consumed by a session.
type Catalog interface {
	FirmLister
	GetFirm(ctx context.Context, id string) (Firm, error)
	Statistics(ctx context.Context) (Statistics, error)
	Compare(ctx context.Context, ids []string) ([]Firm, error)
}

// Session is the controller for one user's transient browsing state: the
// catalog store, filter criteria, search query and comparison selection.
// Sessions share nothing mutable with each other.
type Session struct {
	ID        string
	CreatedAt time.Time

	catalog   Catalog
	recorder  ActivityRecorder
	store     *CatalogStore
	engine    *FilterEngine
	selection *SelectionSet

	bootMu sync.Mutex

	mu       sync.RWMutex
	criteria FilterCriteria
	query    string
	stats    *Statistics
}

// NewSession creates an empty session. Call Bootstrap before use.
func NewSession(id string, catalog Catalog, recorder ActivityRecorder) *Session {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	store := NewCatalogStore()
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		catalog:   catalog,
		recorder:  recorder,
		store:     store,
		engine:    NewFilterEngine(catalog, store),
		selection: NewSelectionSet(),
	}
}

// Bootstrap loads the full catalog and the statistics concurrently. It is a
// no-op once the catalog has loaded. A statistics failure is logged and
// leaves the statistics empty; a catalog failure is returned.
func (s *Session) Bootstrap(ctx context.Context) error {
	s.bootMu.Lock()
	defer s.bootMu.Unlock()

	if s.store.Loaded() {
		return nil
	}

	logger := logging.WithFields(ctx, "session_id", s.ID)

	var (
		firms []Firm
		stats Statistics
		gotSt bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		firms, err = s.catalog.ListFirms(gctx, url.Values{})
		return err
	})
	g.Go(func() error {
		st, err := s.catalog.Statistics(gctx)
		if err != nil {
			logger.Warn("statistics unavailable", "error", err)
			return nil
		}
		stats, gotSt = st, true
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrFetchFailed) {
			return fmt.Errorf("bootstrap session: %w", err)
		}
		return fmt.Errorf("bootstrap session: %w: %w", ErrFetchFailed, err)
	}

	s.store.Load(firms)
	if gotSt {
		s.mu.Lock()
		s.stats = &stats
		s.mu.Unlock()
	}

	logger.Info("session bootstrapped", "firms", len(firms), "statistics", gotSt)
	return nil
}

// ApplyFilters fetches the firms matching c. On success the criteria become
// current and the visible list is returned. A superseded response is dropped
// silently: the caller gets the current visible list and no error. Fetch and
// validation errors leave the previous results in place.
func (s *Session) ApplyFilters(ctx context.Context, c FilterCriteria) ([]Firm, error) {
	firms, err := s.engine.Apply(ctx, c)
	if IsStale(err) {
		logging.WithFields(ctx, "session_id", s.ID).Debug("dropped superseded filter response")
		return s.Visible(), nil
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.criteria = c
	s.mu.Unlock()

	criteria := c
	s.record(ctx, ActivityEntry{
		Kind:        ActivityFilterApply,
		Criteria:    &criteria,
		ResultCount: len(firms),
	})
	return s.Visible(), nil
}

// ResetFilters clears the criteria and restores the full catalog without a
// network call.
func (s *Session) ResetFilters(ctx context.Context) []Firm {
	firms := s.engine.Reset()

	s.mu.Lock()
	s.criteria = FilterCriteria{}
	s.mu.Unlock()

	s.record(ctx, ActivityEntry{Kind: ActivityFilterReset, ResultCount: len(firms)})
	return s.Visible()
}

// Criteria returns the criteria of the last successful apply.
func (s *Session) Criteria() FilterCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

// SetQuery sets the search text applied on top of the filtered list.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Query returns the current search text.
func (s *Session) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Visible returns the filtered list narrowed by the search text.
func (s *Session) Visible() []Firm {
	return SearchAll(s.Query(), s.store.Filtered())
}

// FullCatalog returns the unfiltered catalog.
func (s *Session) FullCatalog() []Firm {
	return s.store.Full()
}

// Suggestions returns firm names matching q across the full catalog.
func (s *Session) Suggestions(q string, limit int) []string {
	return Suggest(q, s.store.Full(), limit)
}

// Statistics returns the catalog statistics loaded at bootstrap.
func (s *Session) Statistics() (Statistics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return Statistics{}, false
	}
	return *s.stats, true
}

// Toggle adds or removes a firm from the comparison. Unknown firms are
// rejected with ErrNotFound; a full selection with ErrSelectionLimitReached.
// The current IDs are returned either way.
func (s *Session) Toggle(id string) ([]string, error) {
	if !s.selection.Contains(id) {
		if _, ok := s.store.Lookup(id); !ok {
			return s.selection.IDs(), fmt.Errorf("toggle %q: %w", id, ErrNotFound)
		}
	}
	return s.selection.Toggle(id)
}

// ClearSelection empties the comparison.
func (s *Session) ClearSelection() {
	s.selection.Clear()
}

// SelectedIDs returns the comparison IDs in selection order.
func (s *Session) SelectedIDs() []string {
	return s.selection.IDs()
}

// IsSelected reports whether the firm is in the comparison.
func (s *Session) IsSelected(id string) bool {
	return s.selection.Contains(id)
}

// SelectedFirms returns the selected firms in selection order.
func (s *Session) SelectedFirms() []Firm {
	return Resolve(s.store.Full(), s.selection.IDs())
}

// Comparison computes the comparison table over the local catalog records.
func (s *Session) Comparison(ctx context.Context) Table {
	firms := s.SelectedFirms()
	if len(firms) > 0 {
		s.record(ctx, ActivityEntry{
			Kind:        ActivityCompare,
			FirmIDs:     firmIDs(firms),
			ResultCount: len(firms),
		})
	}
	return Compare(firms)
}

// RemoteComparison asks the catalog for fresh records of the selected firms
// and compares those. The catalog returns them in selection order.
func (s *Session) RemoteComparison(ctx context.Context) (Table, error) {
	ids := s.selection.IDs()
	if len(ids) == 0 {
		return Compare(nil), nil
	}
	firms, err := s.catalog.Compare(ctx, ids)
	if err != nil {
		return Table{}, fmt.Errorf("compare %d firms: %w", len(ids), err)
	}
	s.record(ctx, ActivityEntry{
		Kind:        ActivityCompare,
		FirmIDs:     ids,
		ResultCount: len(firms),
	})
	return Compare(firms), nil
}

// FirmDetail fetches the latest record for one firm.
func (s *Session) FirmDetail(ctx context.Context, id string) (Firm, error) {
	f, err := s.catalog.GetFirm(ctx, id)
	if err != nil {
		return Firm{}, fmt.Errorf("firm %q: %w", id, err)
	}
	return f, nil
}

// record writes an activity entry. Failures are logged and otherwise ignored.
func (s *Session) record(ctx context.Context, entry ActivityEntry) {
	entry.SessionID = s.ID
	entry.IPAddress = IPAddressFromContext(ctx)
	entry.UserAgent = UserAgentFromContext(ctx)
	entry.CreatedAt = time.Now().UTC()

	if err := s.recorder.Record(ctx, entry); err != nil {
		logging.WithFields(ctx, "session_id", s.ID).Warn("activity not recorded",
			"kind", entry.Kind,
			"error", err,
		)
	}
}

func firmIDs(firms []Firm) []string {
	ids := make([]string, len(firms))
	for i, f := range firms {
		ids[i] = f.ID
	}
	return ids
}
