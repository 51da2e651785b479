package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func loadedStore() *CatalogStore {
	s := NewCatalogStore()
	s.Load(sampleFirms())
	return s
}

func TestFilterEngine_Apply(t *testing.T) {
	cat := newFakeCatalog()
	store := loadedStore()
	e := NewFilterEngine(cat, store)

	got, err := e.Apply(context.Background(), FilterCriteria{MinProfitSplit: Ptr(90)})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := []string{"topstep", "apex"}
	if diff := cmp.Diff(want, firmIDs(got)); diff != "" {
		t.Errorf("Apply result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, firmIDs(store.Filtered())); diff != "" {
		t.Errorf("store filtered mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(firmIDs(sampleFirms()), firmIDs(store.Full())); diff != "" {
		t.Errorf("full catalog changed (-want +got):\n%s", diff)
	}

	q := cat.queries[0]
	if q.Get(ParamMinProfitSplit) != "90" || len(q) != 1 {
		t.Errorf("query = %v, want only min_profit_split=90", q)
	}
}

func TestFilterEngine_ApplyIsIdempotent(t *testing.T) {
	store := loadedStore()
	e := NewFilterEngine(newFakeCatalog(), store)
	c := FilterCriteria{Platform: Ptr("MT5")}

	first, err := e.Apply(context.Background(), c)
	if err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	second, err := e.Apply(context.Background(), c)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	if diff := cmp.Diff(firmIDs(first), firmIDs(second)); diff != "" {
		t.Errorf("repeated Apply differs (-first +second):\n%s", diff)
	}
}

func TestFilterEngine_ResetRestoresFull(t *testing.T) {
	cat := newFakeCatalog()
	store := loadedStore()
	e := NewFilterEngine(cat, store)

	if _, err := e.Apply(context.Background(), FilterCriteria{MinProfitSplit: Ptr(85)}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	callsBefore := cat.calls()

	got := e.Reset()

	if diff := cmp.Diff(firmIDs(store.Full()), firmIDs(got)); diff != "" {
		t.Errorf("Reset mismatch (-full +got):\n%s", diff)
	}
	if cat.calls() != callsBefore {
		t.Errorf("Reset made %d catalog calls, want 0", cat.calls()-callsBefore)
	}
}

func TestFilterEngine_FailureKeepsPreviousResults(t *testing.T) {
	cat := newFakeCatalog()
	store := loadedStore()
	e := NewFilterEngine(cat, store)

	if _, err := e.Apply(context.Background(), FilterCriteria{MinProfitSplit: Ptr(90)}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	before := firmIDs(store.Filtered())

	cat.setListErr(errBoom)
	_, err := e.Apply(context.Background(), FilterCriteria{Platform: Ptr("MT4")})

	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("error = %v, want ErrFetchFailed", err)
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("error = %v, want cause preserved", err)
	}
	if diff := cmp.Diff(before, firmIDs(store.Filtered())); diff != "" {
		t.Errorf("filtered changed after failure (-before +after):\n%s", diff)
	}
}

func TestFilterEngine_InvalidCriteriaMakesNoCall(t *testing.T) {
	cat := newFakeCatalog()
	e := NewFilterEngine(cat, loadedStore())

	_, err := e.Apply(context.Background(), FilterCriteria{MinProfitSplit: Ptr(120)})

	if !errors.Is(err, ErrValidationRejected) {
		t.Fatalf("error = %v, want ErrValidationRejected", err)
	}
	if cat.calls() != 0 {
		t.Errorf("catalog called %d times, want 0", cat.calls())
	}
}

type applyOutcome struct {
	firms []Firm
	err   error
}

func startApply(e *FilterEngine, c FilterCriteria) <-chan applyOutcome {
	done := make(chan applyOutcome, 1)
	go func() {
		firms, err := e.Apply(context.Background(), c)
		done <- applyOutcome{firms, err}
	}()
	return done
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting")
		panic("unreachable")
	}
}

func TestFilterEngine_NewestRequestWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	lister := newBlockingLister()
	store := loadedStore()
	e := NewFilterEngine(lister, store)

	older := []Firm{sampleFirms()[0]}
	newer := []Firm{sampleFirms()[1], sampleFirms()[3]}

	done1 := startApply(e, FilterCriteria{Platform: Ptr("MT4")})
	call1 := receive(t, lister.calls)

	done2 := startApply(e, FilterCriteria{Platform: Ptr("NinjaTrader")})
	call2 := receive(t, lister.calls)

	if !errors.Is(call1.ctx.Err(), context.Canceled) {
		t.Errorf("superseded request context err = %v, want context.Canceled", call1.ctx.Err())
	}

	// The newer request completes first, then the older one arrives late.
	call2.reply <- listResult{firms: newer}
	out2 := receive(t, done2)
	if out2.err != nil {
		t.Fatalf("newer Apply: %v", out2.err)
	}

	call1.reply <- listResult{firms: older}
	out1 := receive(t, done1)
	if !errors.Is(out1.err, ErrStaleResponse) {
		t.Fatalf("older Apply error = %v, want ErrStaleResponse", out1.err)
	}

	if diff := cmp.Diff(firmIDs(newer), firmIDs(store.Filtered())); diff != "" {
		t.Errorf("filtered mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterEngine_StaleAfterOutOfOrderCompletion(t *testing.T) {
	defer goleak.VerifyNone(t)

	lister := newBlockingLister()
	store := loadedStore()
	e := NewFilterEngine(lister, store)

	done1 := startApply(e, FilterCriteria{MinProfitSplit: Ptr(80)})
	call1 := receive(t, lister.calls)
	done2 := startApply(e, FilterCriteria{MinProfitSplit: Ptr(90)})
	call2 := receive(t, lister.calls)

	// Older completes first; it must still be discarded.
	call1.reply <- listResult{firms: sampleFirms()[:1]}
	if out := receive(t, done1); !IsStale(out.err) {
		t.Fatalf("older Apply error = %v, want stale", out.err)
	}

	call2.reply <- listResult{firms: sampleFirms()[1:2]}
	if out := receive(t, done2); out.err != nil {
		t.Fatalf("newer Apply: %v", out.err)
	}

	if diff := cmp.Diff([]string{"topstep"}, firmIDs(store.Filtered())); diff != "" {
		t.Errorf("filtered mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterEngine_ResetSupersedesInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	lister := newBlockingLister()
	store := loadedStore()
	e := NewFilterEngine(lister, store)

	done := startApply(e, FilterCriteria{Platform: Ptr("MT4")})
	call := receive(t, lister.calls)

	e.Reset()
	call.reply <- listResult{firms: sampleFirms()[:1]}

	if out := receive(t, done); !IsStale(out.err) {
		t.Fatalf("Apply error = %v, want stale", out.err)
	}
	if diff := cmp.Diff(firmIDs(store.Full()), firmIDs(store.Filtered())); diff != "" {
		t.Errorf("filtered should equal full after reset (-full +got):\n%s", diff)
	}
}

func TestFilterEngine_SupersededFailureIsStale(t *testing.T) {
	defer goleak.VerifyNone(t)

	lister := newBlockingLister()
	store := loadedStore()
	e := NewFilterEngine(lister, store)

	done1 := startApply(e, FilterCriteria{Platform: Ptr("MT4")})
	call1 := receive(t, lister.calls)
	done2 := startApply(e, FilterCriteria{Platform: Ptr("MT5")})
	call2 := receive(t, lister.calls)

	call1.reply <- listResult{err: context.Canceled}
	if out := receive(t, done1); !IsStale(out.err) {
		t.Errorf("superseded failure error = %v, want stale", out.err)
	}

	call2.reply <- listResult{firms: sampleFirms()[2:3]}
	if out := receive(t, done2); out.err != nil {
		t.Fatalf("newer Apply: %v", out.err)
	}
}
