package core

// compare.go builds the side-by-side comparison table.
//
// Each attribute has a direction. For numeric attributes every firm holding
// the best value is highlighted, so ties highlight several cells. Boolean
// attributes highlight the firms where the feature is available. A table of
// a single firm has no highlights: there is nothing to be best against.

import (
	"strconv"
	"strings"
)

// Direction says which end of an attribute's range is better.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
	TrueIsBetter
)

// Column identifies one firm in a comparison table.
type Column struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Row is one compared attribute. Values and Highlight are indexed like the
// table's Columns.
type Row struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Direction Direction `json:"-"`
	Values    []string  `json:"values"`
	Highlight []bool    `json:"highlight"`
}

// Table is a computed comparison.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HighlightCount returns the number of highlighted cells.
func (t Table) HighlightCount() int {
	n := 0
	for _, r := range t.Rows {
		for _, h := range r.Highlight {
			if h {
				n++
			}
		}
	}
	return n
}

// Row returns the row with the given key.
func (t Table) Row(key string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Key == key {
			return r, true
		}
	}
	return Row{}, false
}

type attribute struct {
	key    string
	label  string
	dir    Direction
	value  func(Firm) (float64, bool)
	format func(Firm) string
}

func always(fn func(Firm) float64) func(Firm) (float64, bool) {
	return func(f Firm) (float64, bool) { return fn(f), true }
}

func boolValue(fn func(Firm) bool) func(Firm) (float64, bool) {
	return func(f Firm) (float64, bool) {
		if fn(f) {
			return 1, true
		}
		return 0, true
	}
}

func yesNo(fn func(Firm) bool) func(Firm) string {
	return func(f Firm) string {
		if fn(f) {
			return "Yes"
		}
		return "No"
	}
}

var attributes = []attribute{
	{
		key:    "profit_split",
		label:  "Profit split",
		dir:    HigherIsBetter,
		value:  always(func(f Firm) float64 { return float64(f.ProfitSplit.Trader()) }),
		format: func(f Firm) string { return strconv.Itoa(f.ProfitSplit.Trader()) + "%" },
	},
	{
		key:    "min_account_size",
		label:  "Minimum account",
		dir:    LowerIsBetter,
		value:  always(func(f Firm) float64 { return float64(f.MinAccountSize) }),
		format: func(f Firm) string { return FormatUSD(f.MinAccountSize) },
	},
	{
		key:    "max_account_size",
		label:  "Maximum account",
		dir:    HigherIsBetter,
		value:  always(func(f Firm) float64 { return float64(f.MaxAccountSize) }),
		format: func(f Firm) string { return FormatUSD(f.MaxAccountSize) },
	},
	{
		key:    "max_drawdown",
		label:  "Maximum drawdown",
		dir:    LowerIsBetter,
		value:  always(func(f Firm) float64 { return float64(f.MaxDrawdown) }),
		format: func(f Firm) string { return strconv.Itoa(f.MaxDrawdown) + "%" },
	},
	{
		key:    "daily_drawdown",
		label:  "Daily drawdown",
		dir:    LowerIsBetter,
		value:  always(func(f Firm) float64 { return float64(f.DailyDrawdown) }),
		format: func(f Firm) string { return strconv.Itoa(f.DailyDrawdown) + "%" },
	},
	{
		key:    "profit_target",
		label:  "Profit target",
		dir:    LowerIsBetter,
		value:  always(func(f Firm) float64 { return float64(f.ProfitTarget) }),
		format: func(f Firm) string { return strconv.Itoa(f.ProfitTarget) + "%" },
	},
	{
		key:   "payout_frequency",
		label: "Payout frequency",
		dir:   HigherIsBetter,
		value: func(f Firm) (float64, bool) {
			r := f.PayoutFrequency.Rank()
			return float64(r), r > 0
		},
		format: func(f Firm) string { return f.PayoutFrequency.Label() },
	},
	{
		key:    "minimum_payout",
		label:  "Minimum payout",
		dir:    LowerIsBetter,
		value:  always(func(f Firm) float64 { return float64(f.MinimumPayout) }),
		format: func(f Firm) string { return FormatUSD(f.MinimumPayout) },
	},
	{
		key:   "evaluation_fee",
		label: "Evaluation fee",
		dir:   LowerIsBetter,
		value: func(f Firm) (float64, bool) {
			fee, ok := f.EvaluationFee.Representative()
			return float64(fee), ok
		},
		format: func(f Firm) string {
			fee, ok := f.EvaluationFee.Representative()
			if !ok {
				return "n/a"
			}
			return FormatUSD(fee)
		},
	},
	{
		key:    "news_trading",
		label:  "News trading",
		dir:    TrueIsBetter,
		value:  boolValue(func(f Firm) bool { return f.NewsTrading }),
		format: yesNo(func(f Firm) bool { return f.NewsTrading }),
	},
	{
		key:    "expert_advisors",
		label:  "Expert advisors",
		dir:    TrueIsBetter,
		value:  boolValue(func(f Firm) bool { return f.ExpertAdvisors }),
		format: yesNo(func(f Firm) bool { return f.ExpertAdvisors }),
	},
	{
		key:    "scaling_plan",
		label:  "Scaling plan",
		dir:    TrueIsBetter,
		value:  boolValue(func(f Firm) bool { return f.ScalingPlan }),
		format: yesNo(func(f Firm) bool { return f.ScalingPlan }),
	},
}

// Compare builds the comparison table for firms, one column per firm in the
// given order.
func Compare(firms []Firm) Table {
	t := Table{
		Columns: make([]Column, len(firms)),
		Rows:    make([]Row, 0, len(attributes)),
	}
	for i, f := range firms {
		t.Columns[i] = Column{ID: f.ID, Name: f.Name}
	}

	for _, attr := range attributes {
		row := Row{
			Key:       attr.key,
			Label:     attr.label,
			Direction: attr.dir,
			Values:    make([]string, len(firms)),
			Highlight: make([]bool, len(firms)),
		}
		for i, f := range firms {
			row.Values[i] = attr.format(f)
		}
		if len(firms) > 1 {
			markBest(attr, firms, row.Highlight)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// markBest sets highlight[i] for every firm at the attribute's best value.
func markBest(attr attribute, firms []Firm, highlight []bool) {
	values := make([]float64, len(firms))
	present := make([]bool, len(firms))
	for i, f := range firms {
		values[i], present[i] = attr.value(f)
	}

	if attr.dir == TrueIsBetter {
		for i := range firms {
			highlight[i] = present[i] && values[i] != 0
		}
		return
	}

	var (
		best  float64
		found bool
	)
	for i, v := range values {
		if !present[i] {
			continue
		}
		if !found || better(attr.dir, v, best) {
			best, found = v, true
		}
	}
	if !found {
		return
	}
	for i, v := range values {
		highlight[i] = present[i] && v == best
	}
}

func better(dir Direction, candidate, current float64) bool {
	if dir == LowerIsBetter {
		return candidate < current
	}
	return candidate > current
}

// Resolve maps selected IDs to firms from the full catalog, keeping
// selection order. IDs no longer in the catalog are skipped.
func Resolve(full []Firm, ids []string) []Firm {
	byID := make(map[string]Firm, len(full))
	for _, f := range full {
		byID[f.ID] = f
	}
	out := make([]Firm, 0, len(ids))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// FormatUSD renders whole dollars with thousands separators, e.g. $10,000.
func FormatUSD(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.Itoa(amount)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
