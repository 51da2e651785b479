package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, *fakeCatalog, *memoryRecorder) {
	t.Helper()
	cat := newFakeCatalog()
	rec := &memoryRecorder{}
	s := NewSession("sess-1", cat, rec)
	require.NoError(t, s.Bootstrap(context.Background()))
	return s, cat, rec
}

func TestSession_Bootstrap(t *testing.T) {
	s, cat, _ := newTestSession(t)

	assert.Len(t, s.FullCatalog(), 5)
	assert.Equal(t, firmIDs(s.FullCatalog()), firmIDs(s.Visible()))

	st, ok := s.Statistics()
	require.True(t, ok)
	assert.Equal(t, "MT5", st.MostPopularPlatform)

	// Bootstrapping again is a no-op.
	require.NoError(t, s.Bootstrap(context.Background()))
	assert.Equal(t, 1, cat.calls())
	assert.Empty(t, cat.queries[0], "bootstrap should request the unfiltered catalog")
}

func TestSession_BootstrapToleratesMissingStatistics(t *testing.T) {
	cat := newFakeCatalog()
	cat.statsErr = errBoom
	s := NewSession("sess-1", cat, nil)

	require.NoError(t, s.Bootstrap(context.Background()))

	_, ok := s.Statistics()
	assert.False(t, ok)
	assert.Len(t, s.FullCatalog(), 5)
}

func TestSession_BootstrapFailure(t *testing.T) {
	cat := newFakeCatalog()
	cat.listErr = errBoom
	s := NewSession("sess-1", cat, nil)

	err := s.Bootstrap(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Empty(t, s.FullCatalog())

	// A later attempt retries once the catalog recovers.
	cat.setListErr(nil)
	require.NoError(t, s.Bootstrap(context.Background()))
	assert.Len(t, s.FullCatalog(), 5)
}

func TestSession_ApplyAndResetFilters(t *testing.T) {
	s, _, rec := newTestSession(t)
	ctx := ContextWithIPAddress(context.Background(), "203.0.113.7")

	c := FilterCriteria{MinProfitSplit: Ptr(90)}
	firms, err := s.ApplyFilters(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"topstep", "apex"}, firmIDs(firms))
	assert.Equal(t, c, s.Criteria())

	firms = s.ResetFilters(ctx)
	assert.Equal(t, firmIDs(s.FullCatalog()), firmIDs(firms))
	assert.True(t, s.Criteria().IsZero())

	assert.Equal(t, []ActivityKind{ActivityFilterApply, ActivityFilterReset}, rec.kinds())
	assert.Equal(t, "203.0.113.7", rec.entries[0].IPAddress)
	assert.Equal(t, "sess-1", rec.entries[0].SessionID)
	assert.Equal(t, 2, rec.entries[0].ResultCount)
}

func TestSession_ApplyFailureKeepsState(t *testing.T) {
	s, cat, rec := newTestSession(t)
	ctx := context.Background()

	_, err := s.ApplyFilters(ctx, FilterCriteria{Platform: Ptr("MT5")})
	require.NoError(t, err)
	before := firmIDs(s.Visible())

	cat.setListErr(errBoom)
	_, err = s.ApplyFilters(ctx, FilterCriteria{Platform: Ptr("MT4")})

	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, before, firmIDs(s.Visible()))
	assert.Equal(t, "MT5", *s.Criteria().Platform, "criteria should stay at the last successful apply")
	assert.Len(t, rec.kinds(), 1)
}

func TestSession_ApplyRejectsInvalidCriteria(t *testing.T) {
	s, cat, _ := newTestSession(t)

	_, err := s.ApplyFilters(context.Background(), FilterCriteria{MinRating: Ptr(9.0)})

	assert.ErrorIs(t, err, ErrValidationRejected)
	assert.Equal(t, 1, cat.calls(), "only the bootstrap call should have been made")
}

func TestSession_StaleApplyIsSilent(t *testing.T) {
	lister := newBlockingLister()
	cat := newFakeCatalog()
	s := NewSession("sess-1", cat, nil)
	require.NoError(t, s.Bootstrap(context.Background()))
	s.engine = NewFilterEngine(lister, s.store)

	type result struct {
		firms []Firm
		err   error
	}
	done1 := make(chan result, 1)
	go func() {
		firms, err := s.ApplyFilters(context.Background(), FilterCriteria{Platform: Ptr("MT4")})
		done1 <- result{firms, err}
	}()
	call1 := receive(t, lister.calls)

	done2 := make(chan result, 1)
	go func() {
		firms, err := s.ApplyFilters(context.Background(), FilterCriteria{Platform: Ptr("Rithmic")})
		done2 <- result{firms, err}
	}()
	call2 := receive(t, lister.calls)

	call2.reply <- listResult{firms: []Firm{sampleFirms()[3]}}
	r2 := receive(t, done2)
	require.NoError(t, r2.err)

	call1.reply <- listResult{firms: []Firm{sampleFirms()[0]}}
	r1 := receive(t, done1)
	require.NoError(t, r1.err, "superseded responses must not surface an error")
	assert.Equal(t, []string{"apex"}, firmIDs(r1.firms))
	assert.Equal(t, "Rithmic", *s.Criteria().Platform)
}

func TestSession_SearchOverFiltered(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.ApplyFilters(ctx, FilterCriteria{MinProfitSplit: Ptr(85)})
	require.NoError(t, err)

	s.SetQuery("FUTURES")
	assert.Equal(t, "FUTURES", s.Query())
	assert.Equal(t, []string{"topstep", "apex"}, firmIDs(s.Visible()))

	// Suggestions search the whole catalog, not the filtered view.
	assert.Equal(t, []string{"FTMO"}, s.Suggestions("ftmo", 0))

	s.SetQuery("")
	assert.Len(t, s.Visible(), 3)
}

func TestSession_Toggle(t *testing.T) {
	s, _, _ := newTestSession(t)

	got, err := s.Toggle("apex")
	require.NoError(t, err)
	assert.Equal(t, []string{"apex"}, got)
	assert.True(t, s.IsSelected("apex"))

	_, err = s.Toggle("does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"apex"}, s.SelectedIDs())

	for _, id := range []string{"ftmo", "the5ers", "topstep"} {
		_, err := s.Toggle(id)
		require.NoError(t, err)
	}
	got, err = s.Toggle("fundednext")
	assert.ErrorIs(t, err, ErrSelectionLimitReached)
	assert.Equal(t, []string{"apex", "ftmo", "the5ers", "topstep"}, got)

	s.ClearSelection()
	assert.Empty(t, s.SelectedIDs())
}

func TestSession_SelectionSurvivesFiltering(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Toggle("ftmo")
	require.NoError(t, err)

	_, err = s.ApplyFilters(ctx, FilterCriteria{MinProfitSplit: Ptr(90)})
	require.NoError(t, err)

	assert.True(t, s.IsSelected("ftmo"))
	assert.Equal(t, []string{"ftmo"}, firmIDs(s.SelectedFirms()))
}

func TestSession_Comparison(t *testing.T) {
	s, _, rec := newTestSession(t)
	ctx := context.Background()

	for _, id := range []string{"the5ers", "ftmo"} {
		_, err := s.Toggle(id)
		require.NoError(t, err)
	}

	table := s.Comparison(ctx)
	require.Len(t, table.Columns, 2)
	assert.Equal(t, "the5ers", table.Columns[0].ID)
	assert.Equal(t, []ActivityKind{ActivityCompare}, rec.kinds())
	assert.Equal(t, []string{"the5ers", "ftmo"}, rec.entries[0].FirmIDs)

	remote, err := s.RemoteComparison(ctx)
	require.NoError(t, err)
	assert.Equal(t, table.Columns, remote.Columns)
}

func TestSession_ComparisonEmpty(t *testing.T) {
	s, _, rec := newTestSession(t)

	table := s.Comparison(context.Background())
	assert.Empty(t, table.Columns)
	assert.Empty(t, rec.kinds(), "an empty comparison is not recorded")
}

func TestSession_FirmDetail(t *testing.T) {
	s, _, _ := newTestSession(t)

	f, err := s.FirmDetail(context.Background(), "topstep")
	require.NoError(t, err)
	assert.Equal(t, "Topstep", f.Name)

	_, err = s.FirmDetail(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSession_RecorderFailureIsIgnored(t *testing.T) {
	cat := newFakeCatalog()
	rec := &memoryRecorder{err: errors.New("database is down")}
	s := NewSession("sess-1", cat, rec)
	require.NoError(t, s.Bootstrap(context.Background()))

	_, err := s.ApplyFilters(context.Background(), FilterCriteria{Platform: Ptr("MT5")})
	assert.NoError(t, err)
}

func TestSession_IsolatedFromOtherSessions(t *testing.T) {
	cat := newFakeCatalog()
	a := NewSession("a", cat, nil)
	b := NewSession("b", cat, nil)
	require.NoError(t, a.Bootstrap(context.Background()))
	require.NoError(t, b.Bootstrap(context.Background()))

	_, err := a.ApplyFilters(context.Background(), FilterCriteria{MinProfitSplit: Ptr(90)})
	require.NoError(t, err)
	_, err = a.Toggle("ftmo")
	require.NoError(t, err)

	assert.Len(t, b.Visible(), 5)
	assert.Empty(t, b.SelectedIDs())
}
