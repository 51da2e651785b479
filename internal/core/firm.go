package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PayoutFrequency is how often a firm pays out trader profits.
type PayoutFrequency string

const (
	PayoutWeekly   PayoutFrequency = "weekly"
	PayoutBiWeekly PayoutFrequency = "bi-weekly"
	PayoutMonthly  PayoutFrequency = "monthly"
)

// PayoutFrequencies lists the known frequencies, most frequent first.
var PayoutFrequencies = []PayoutFrequency{PayoutWeekly, PayoutBiWeekly, PayoutMonthly}

// Rank orders frequencies so that more frequent payouts rank higher.
// Unknown values rank 0.
func (p PayoutFrequency) Rank() int {
	switch p {
	case PayoutWeekly:
		return 3
	case PayoutBiWeekly:
		return 2
	case PayoutMonthly:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known frequencies.
func (p PayoutFrequency) Valid() bool {
	return p.Rank() > 0
}

// Label returns the display form of the frequency.
func (p PayoutFrequency) Label() string {
	switch p {
	case PayoutWeekly:
		return "Weekly"
	case PayoutBiWeekly:
		return "Bi-weekly"
	case PayoutMonthly:
		return "Monthly"
	default:
		return string(p)
	}
}

// ProfitSplit is the [trader, firm] percentage pair.
type ProfitSplit [2]int

// Trader returns the trader's share in percent.
func (p ProfitSplit) Trader() int { return p[0] }

// Firm returns the firm's share in percent.
func (p ProfitSplit) Firm() int { return p[1] }

// FeeTier is one account-size tier of an evaluation fee schedule.
type FeeTier struct {
	Tier string
	Fee  int
}

// FeeSchedule maps account-size tiers to evaluation fees. Unlike a Go map it
// keeps the order the tiers were served in, which decides the representative
// fee used for comparisons.
type FeeSchedule struct {
	tiers []FeeTier
}

// NewFeeSchedule builds a schedule from tiers in the given order. Later
// duplicates of a tier replace the earlier fee but keep its position.
func NewFeeSchedule(tiers ...FeeTier) FeeSchedule {
	var fs FeeSchedule
	for _, t := range tiers {
		fs.set(t.Tier, t.Fee)
	}
	return fs
}

func (fs *FeeSchedule) set(tier string, fee int) {
	for i := range fs.tiers {
		if fs.tiers[i].Tier == tier {
			fs.tiers[i].Fee = fee
			return
		}
	}
	fs.tiers = append(fs.tiers, FeeTier{Tier: tier, Fee: fee})
}

// Tiers returns a copy of the tiers in insertion order.
func (fs FeeSchedule) Tiers() []FeeTier {
	out := make([]FeeTier, len(fs.tiers))
	copy(out, fs.tiers)
	return out
}

// Len returns the number of tiers.
func (fs FeeSchedule) Len() int { return len(fs.tiers) }

// Representative returns the first fee in insertion order. ok is false for an
// empty schedule.
func (fs FeeSchedule) Representative() (fee int, ok bool) {
	if len(fs.tiers) == 0 {
		return 0, false
	}
	return fs.tiers[0].Fee, true
}

// Lowest returns the smallest fee in the schedule.
func (fs FeeSchedule) Lowest() (fee int, ok bool) {
	for i, t := range fs.tiers {
		if i == 0 || t.Fee < fee {
			fee = t.Fee
		}
	}
	return fee, len(fs.tiers) > 0
}

// UnmarshalJSON decodes a JSON object token by token so that key order
// survives decoding.
func (fs *FeeSchedule) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		fs.tiers = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("evaluation_fee: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("evaluation_fee: expected object, got %v", tok)
	}

	var parsed FeeSchedule
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("evaluation_fee: %w", err)
		}
		tier, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("evaluation_fee: unexpected key %v", keyTok)
		}

		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return fmt.Errorf("evaluation_fee[%s]: %w", tier, err)
		}
		fee, err := parseFee(num)
		if err != nil {
			return fmt.Errorf("evaluation_fee[%s]: %w", tier, err)
		}
		parsed.set(tier, fee)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("evaluation_fee: %w", err)
	}

	*fs = parsed
	return nil
}

// parseFee accepts integral JSON numbers, including ones written as 99.0.
func parseFee(num json.Number) (int, error) {
	if i, err := num.Int64(); err == nil {
		return int(i), nil
	}
	f, err := num.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", num)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("invalid number %q: fee must be whole", num)
	}
	return int(f), nil
}

// MarshalJSON writes the schedule as a JSON object in insertion order.
func (fs FeeSchedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range fs.tiers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Tier)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(t.Fee))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Firm is one proprietary trading firm program as served by the catalog.
type Firm struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Rating              float64         `json:"rating"`
	TotalReviews        int             `json:"total_reviews"`
	ProfitSplit         ProfitSplit     `json:"profit_split"`
	MinAccountSize      int             `json:"min_account_size"`
	MaxAccountSize      int             `json:"max_account_size"`
	AccountSizes        []int           `json:"account_sizes,omitempty"`
	MaxDrawdown         int             `json:"max_drawdown"`
	DailyDrawdown       int             `json:"daily_drawdown"`
	ProfitTarget        int             `json:"profit_target"`
	PayoutFrequency     PayoutFrequency `json:"payout_frequency"`
	MinimumPayout       int             `json:"minimum_payout"`
	MaximumPayout       *int            `json:"maximum_payout,omitempty"`
	EvaluationFee       FeeSchedule     `json:"evaluation_fee"`
	MonthlyFee          int             `json:"monthly_fee"`
	MinTradingDays      int             `json:"min_trading_days,omitempty"`
	MaxTradingDays      int             `json:"max_trading_days,omitempty"`
	NewsTrading         bool            `json:"news_trading"`
	ExpertAdvisors      bool            `json:"expert_advisors"`
	ScalingPlan         bool            `json:"scaling_plan"`
	WeekendHolding      bool            `json:"weekend_holding"`
	CopyTrading         bool            `json:"copy_trading"`
	TradingPlatforms    []string        `json:"trading_platforms"`
	Instruments         []string        `json:"instruments"`
	CountriesRestricted []string        `json:"countries_restricted,omitempty"`
	Pros                []string        `json:"pros,omitempty"`
	Cons                []string        `json:"cons,omitempty"`
	LogoURL             string          `json:"logo_url"`
	WebsiteURL          string          `json:"website_url"`
	Headquarters        string          `json:"headquarters"`
	FoundedYear         int             `json:"founded_year,omitempty"`
}

// SupportsPlatform reports whether the firm offers the named platform.
func (f Firm) SupportsPlatform(platform string) bool {
	for _, p := range f.TradingPlatforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Statistics is the catalog-wide aggregate served by the remote service.
type Statistics struct {
	TotalFirms          int     `json:"total_firms"`
	AvgProfitSplit      float64 `json:"avg_profit_split"`
	AvgRating           float64 `json:"avg_rating"`
	LowestEvaluationFee int     `json:"lowest_evaluation_fee"`
	MostPopularPlatform string  `json:"most_popular_platform"`
	HighestPayout       int     `json:"highest_payout,omitempty"`
}
