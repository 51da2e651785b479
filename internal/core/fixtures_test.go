package core

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"strconv"
	"sync"
)

func sampleFirms() []Firm {
	return []Firm{
		{
			ID:              "ftmo",
			Name:            "FTMO",
			Description:     "Two-step evaluation with a verification phase",
			Rating:          4.8,
			ProfitSplit:     ProfitSplit{80, 20},
			MinAccountSize:  10000,
			MaxAccountSize:  200000,
			MaxDrawdown:     10,
			DailyDrawdown:   5,
			ProfitTarget:    10,
			PayoutFrequency: PayoutBiWeekly,
			MinimumPayout:   100,
			EvaluationFee:   NewFeeSchedule(FeeTier{"10k", 155}, FeeTier{"25k", 250}),
			ExpertAdvisors:  true,
			ScalingPlan:     true,
			TradingPlatforms: []string{
				"MT4", "MT5", "cTrader",
			},
		},
		{
			ID:               "topstep",
			Name:             "Topstep",
			Description:      "Futures combine with a single evaluation step",
			Rating:           4.5,
			ProfitSplit:      ProfitSplit{90, 10},
			MinAccountSize:   50000,
			MaxAccountSize:   150000,
			MaxDrawdown:      4,
			DailyDrawdown:    2,
			ProfitTarget:     6,
			PayoutFrequency:  PayoutWeekly,
			MinimumPayout:    125,
			EvaluationFee:    NewFeeSchedule(FeeTier{"50k", 49}),
			NewsTrading:      true,
			TradingPlatforms: []string{"NinjaTrader", "Tradovate"},
		},
		{
			ID:               "the5ers",
			Name:             "The5ers",
			Description:      "Instant funding and a bootcamp program",
			Rating:           4.6,
			ProfitSplit:      ProfitSplit{80, 20},
			MinAccountSize:   5000,
			MaxAccountSize:   250000,
			MaxDrawdown:      6,
			DailyDrawdown:    3,
			ProfitTarget:     8,
			PayoutFrequency:  PayoutMonthly,
			MinimumPayout:    150,
			EvaluationFee:    NewFeeSchedule(FeeTier{"5k", 39}, FeeTier{"20k", 95}),
			NewsTrading:      true,
			ExpertAdvisors:   true,
			ScalingPlan:      true,
			TradingPlatforms: []string{"MT5"},
		},
		{
			ID:               "apex",
			Name:             "Apex Trader Funding",
			Description:      "Futures evaluations with frequent sales",
			Rating:           4.3,
			ProfitSplit:      ProfitSplit{90, 10},
			MinAccountSize:   25000,
			MaxAccountSize:   300000,
			MaxDrawdown:      6,
			DailyDrawdown:    0,
			ProfitTarget:     6,
			PayoutFrequency:  PayoutBiWeekly,
			MinimumPayout:    500,
			TradingPlatforms: []string{"NinjaTrader", "Rithmic"},
		},
		{
			ID:               "fundednext",
			Name:             "FundedNext",
			Description:      "Stellar challenge with a profit share during evaluation",
			Rating:           4.4,
			ProfitSplit:      ProfitSplit{85, 15},
			MinAccountSize:   6000,
			MaxAccountSize:   200000,
			MaxDrawdown:      10,
			DailyDrawdown:    5,
			ProfitTarget:     8,
			PayoutFrequency:  PayoutWeekly,
			MinimumPayout:    50,
			EvaluationFee:    NewFeeSchedule(FeeTier{"6k", 59}),
			ExpertAdvisors:   true,
			TradingPlatforms: []string{"MT4", "MT5"},
		},
	}
}

// fakeCatalog serves sampleFirms and filters on min_profit_split and
// platform, which is enough to tell filtered results apart.
type fakeCatalog struct {
	mu sync.Mutex

	firms    []Firm
	stats    Statistics
	listErr  error
	statsErr error

	listCalls int
	queries   []url.Values
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		firms: sampleFirms(),
		stats: Statistics{TotalFirms: 5, AvgProfitSplit: 85, MostPopularPlatform: "MT5"},
	}
}

func (c *fakeCatalog) ListFirms(ctx context.Context, q url.Values) ([]Firm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listCalls++
	c.queries = append(c.queries, q)
	if c.listErr != nil {
		return nil, c.listErr
	}

	out := make([]Firm, 0, len(c.firms))
	for _, f := range c.firms {
		if raw := q.Get(ParamMinProfitSplit); raw != "" {
			n, _ := strconv.Atoi(raw)
			if f.ProfitSplit.Trader() < n {
				continue
			}
		}
		if p := q.Get(ParamPlatform); p != "" && !f.SupportsPlatform(p) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (c *fakeCatalog) GetFirm(ctx context.Context, id string) (Firm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.firms {
		if f.ID == id {
			return f, nil
		}
	}
	return Firm{}, ErrNotFound
}

func (c *fakeCatalog) Statistics(ctx context.Context) (Statistics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statsErr != nil {
		return Statistics{}, c.statsErr
	}
	return c.stats, nil
}

func (c *fakeCatalog) Compare(ctx context.Context, ids []string) ([]Firm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Resolve(c.firms, ids), nil
}

func (c *fakeCatalog) setListErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listErr = err
}

func (c *fakeCatalog) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listCalls
}

// memoryRecorder keeps recorded activity for assertions.
type memoryRecorder struct {
	mu      sync.Mutex
	entries []ActivityEntry
	err     error
}

func (r *memoryRecorder) Record(ctx context.Context, e ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *memoryRecorder) kinds() []ActivityKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ActivityKind, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Kind
	}
	return out
}

// pendingCall is one ListFirms invocation held by a blockingLister until the
// test replies.
type pendingCall struct {
	ctx   context.Context
	query url.Values
	reply chan listResult
}

type listResult struct {
	firms []Firm
	err   error
}

// blockingLister hands each call to the test and waits for its reply,
// ignoring cancellation, so tests control completion order exactly.
type blockingLister struct {
	calls chan pendingCall
}

func newBlockingLister() *blockingLister {
	return &blockingLister{calls: make(chan pendingCall)}
}

func (l *blockingLister) ListFirms(ctx context.Context, q url.Values) ([]Firm, error) {
	call := pendingCall{ctx: ctx, query: q, reply: make(chan listResult, 1)}
	l.calls <- call
	res := <-call.reply
	return slices.Clone(res.firms), res.err
}

var errBoom = errors.New("connection reset by peer")
