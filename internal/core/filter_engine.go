package core

// filter_engine.go turns FilterCriteria into catalog queries.
//
// Only the newest Apply may write to the store. Each call takes a generation
// number and cancels the context of the call it supersedes; when a response
// arrives its generation is checked under the lock that guards the store
// write, so an older response can never overwrite a newer one regardless of
// the order in which they complete.

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/JonMunkholm/PropCompare/internal/metrics"
)

// FirmLister fetches the firm list matching a catalog query.
type FirmLister interface {
	ListFirms(ctx context.Context, query url.Values) ([]Firm, error)
}

// FilterEngine applies criteria against the remote catalog and keeps one
// CatalogStore's filtered view current.
type FilterEngine struct {
	lister FirmLister
	store  *CatalogStore

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewFilterEngine creates an engine writing into store.
func NewFilterEngine(lister FirmLister, store *CatalogStore) *FilterEngine {
	return &FilterEngine{lister: lister, store: store}
}

// Apply fetches the firms matching c and replaces the filtered view.
//
// On a transport failure the error wraps ErrFetchFailed and the filtered view
// keeps its last value. If a newer Apply or Reset started before this one
// finished, the result is discarded and ErrStaleResponse is returned.
func (e *FilterEngine) Apply(ctx context.Context, c FilterCriteria) ([]Firm, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	gen, reqCtx, cancel := e.begin(ctx)
	defer cancel()
	firms, err := e.lister.ListFirms(reqCtx, c.Query())

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		metrics.StaleResponses.Inc()
		return nil, ErrStaleResponse
	}
	e.cancel = nil

	if err != nil {
		if errors.Is(err, ErrFetchFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	e.store.ReplaceFiltered(firms)
	return e.store.Filtered(), nil
}

// Reset restores the filtered view to the full catalog without a network
// call. Any in-flight Apply becomes stale.
func (e *FilterEngine) Reset() []Firm {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.supersede()
	e.store.ResetFiltered()
	return e.store.Filtered()
}

// begin registers a new request generation and returns a context that is
// cancelled when a later request supersedes it.
func (e *FilterEngine) begin(ctx context.Context) (uint64, context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.supersede()
	e.cancel = cancel
	return e.generation, reqCtx, cancel
}

// supersede bumps the generation and cancels the in-flight request.
// Caller must hold e.mu.
func (e *FilterEngine) supersede() {
	e.generation++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}
