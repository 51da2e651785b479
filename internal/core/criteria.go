package core

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query keys understood by the catalog's firm listing.
const (
	ParamMinAccountSize  = "min_account_size"
	ParamMaxAccountSize  = "max_account_size"
	ParamMinProfitSplit  = "min_profit_split"
	ParamPlatform        = "platform"
	ParamPayoutFrequency = "payout_frequency"
	ParamNewsTrading     = "news_trading"
	ParamExpertAdvisors  = "expert_advisors"
	ParamScalingPlan     = "scaling_plan"
	ParamMinRating       = "min_rating"
)

// FilterCriteria is the set of user-chosen constraints on the firm list.
//
// Every field is a pointer: nil means "unconstrained". A non-nil pointer to a
// zero value (a false checkbox, a minimum of 0) is an explicit constraint and
// is sent to the catalog as such.
type FilterCriteria struct {
	MinAccountSize  *int             `json:"min_account_size,omitempty"`
	MaxAccountSize  *int             `json:"max_account_size,omitempty"`
	MinProfitSplit  *int             `json:"min_profit_split,omitempty"`
	Platform        *string          `json:"platform,omitempty"`
	PayoutFrequency *PayoutFrequency `json:"payout_frequency,omitempty"`
	NewsTrading     *bool            `json:"news_trading,omitempty"`
	ExpertAdvisors  *bool            `json:"expert_advisors,omitempty"`
	ScalingPlan     *bool            `json:"scaling_plan,omitempty"`
	MinRating       *float64         `json:"min_rating,omitempty"`
}

// Ptr returns a pointer to v, for building criteria literals.
func Ptr[T any](v T) *T { return &v }

// IsZero reports whether no field is set.
func (c FilterCriteria) IsZero() bool {
	return c.MinAccountSize == nil && c.MaxAccountSize == nil && c.MinProfitSplit == nil &&
		c.Platform == nil && c.PayoutFrequency == nil && c.NewsTrading == nil &&
		c.ExpertAdvisors == nil && c.ScalingPlan == nil && c.MinRating == nil
}

// Validate rejects values the catalog could never match.
func (c FilterCriteria) Validate() error {
	var errs []string

	if c.MinAccountSize != nil && *c.MinAccountSize < 0 {
		errs = append(errs, "min_account_size must be non-negative")
	}
	if c.MaxAccountSize != nil && *c.MaxAccountSize < 0 {
		errs = append(errs, "max_account_size must be non-negative")
	}
	if c.MinAccountSize != nil && c.MaxAccountSize != nil && *c.MaxAccountSize < *c.MinAccountSize {
		errs = append(errs, "max_account_size must be >= min_account_size")
	}
	if c.MinProfitSplit != nil && (*c.MinProfitSplit < 0 || *c.MinProfitSplit > 100) {
		errs = append(errs, "min_profit_split must be 0-100")
	}
	if c.Platform != nil && strings.TrimSpace(*c.Platform) == "" {
		errs = append(errs, "platform must not be blank")
	}
	if c.PayoutFrequency != nil && !c.PayoutFrequency.Valid() {
		errs = append(errs, fmt.Sprintf("payout_frequency %q must be one of weekly, bi-weekly, monthly", *c.PayoutFrequency))
	}
	if c.MinRating != nil && (*c.MinRating < 0 || *c.MinRating > 5) {
		errs = append(errs, "min_rating must be 0-5")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidationRejected, strings.Join(errs, "; "))
	}
	return nil
}

// Query encodes only the set fields. Numbers are decimal strings and booleans
// the literals "true"/"false".
func (c FilterCriteria) Query() url.Values {
	q := url.Values{}
	if c.MinAccountSize != nil {
		q.Set(ParamMinAccountSize, strconv.Itoa(*c.MinAccountSize))
	}
	if c.MaxAccountSize != nil {
		q.Set(ParamMaxAccountSize, strconv.Itoa(*c.MaxAccountSize))
	}
	if c.MinProfitSplit != nil {
		q.Set(ParamMinProfitSplit, strconv.Itoa(*c.MinProfitSplit))
	}
	if c.Platform != nil {
		q.Set(ParamPlatform, *c.Platform)
	}
	if c.PayoutFrequency != nil {
		q.Set(ParamPayoutFrequency, string(*c.PayoutFrequency))
	}
	if c.NewsTrading != nil {
		q.Set(ParamNewsTrading, strconv.FormatBool(*c.NewsTrading))
	}
	if c.ExpertAdvisors != nil {
		q.Set(ParamExpertAdvisors, strconv.FormatBool(*c.ExpertAdvisors))
	}
	if c.ScalingPlan != nil {
		q.Set(ParamScalingPlan, strconv.FormatBool(*c.ScalingPlan))
	}
	if c.MinRating != nil {
		q.Set(ParamMinRating, strconv.FormatFloat(*c.MinRating, 'f', -1, 64))
	}
	return q
}

// ParseCriteria is the inverse of Query. Absent or empty keys stay unset;
// malformed values are rejected with ErrValidationRejected.
func ParseCriteria(v url.Values) (FilterCriteria, error) {
	var (
		c    FilterCriteria
		errs []string
	)

	parseInt := func(key string) *int {
		raw := strings.TrimSpace(v.Get(key))
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s %q is not a whole number", key, raw))
			return nil
		}
		return &n
	}
	parseBool := func(key string) *bool {
		raw := strings.TrimSpace(v.Get(key))
		if raw == "" {
			return nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s %q is not true or false", key, raw))
			return nil
		}
		return &b
	}

	c.MinAccountSize = parseInt(ParamMinAccountSize)
	c.MaxAccountSize = parseInt(ParamMaxAccountSize)
	c.MinProfitSplit = parseInt(ParamMinProfitSplit)
	if p := strings.TrimSpace(v.Get(ParamPlatform)); p != "" {
		c.Platform = &p
	}
	if f := strings.TrimSpace(v.Get(ParamPayoutFrequency)); f != "" {
		pf := PayoutFrequency(f)
		c.PayoutFrequency = &pf
	}
	c.NewsTrading = parseBool(ParamNewsTrading)
	c.ExpertAdvisors = parseBool(ParamExpertAdvisors)
	c.ScalingPlan = parseBool(ParamScalingPlan)
	if raw := strings.TrimSpace(v.Get(ParamMinRating)); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s %q is not a number", ParamMinRating, raw))
		} else {
			c.MinRating = &r
		}
	}

	if len(errs) > 0 {
		return FilterCriteria{}, fmt.Errorf("%w: %s", ErrValidationRejected, strings.Join(errs, "; "))
	}
	if err := c.Validate(); err != nil {
		return FilterCriteria{}, err
	}
	return c, nil
}
