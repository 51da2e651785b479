package core

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFeeSchedule_UnmarshalKeepsOrder(t *testing.T) {
	var fs FeeSchedule
	data := `{"100k": 540, "10k": 155, "50k": 345.0}`
	if err := json.Unmarshal([]byte(data), &fs); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := []FeeTier{{"100k", 540}, {"10k", 155}, {"50k", 345}}
	if diff := cmp.Diff(want, fs.Tiers()); diff != "" {
		t.Errorf("tiers (-want +got):\n%s", diff)
	}

	fee, ok := fs.Representative()
	if !ok || fee != 540 {
		t.Errorf("Representative() = %d, %v; want 540, true", fee, ok)
	}
	low, _ := fs.Lowest()
	if low != 155 {
		t.Errorf("Lowest() = %d, want 155", low)
	}
}

func TestFeeSchedule_MarshalRoundTrip(t *testing.T) {
	fs := NewFeeSchedule(FeeTier{"25k", 250}, FeeTier{"10k", 155})
	out, err := json.Marshal(fs)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"25k":250,"10k":155}` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestFeeSchedule_Empty(t *testing.T) {
	for _, data := range []string{`null`, `{}`} {
		var fs FeeSchedule
		if err := json.Unmarshal([]byte(data), &fs); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if _, ok := fs.Representative(); ok {
			t.Errorf("Representative on %s reported a fee", data)
		}
	}
}

func TestFeeSchedule_Rejects(t *testing.T) {
	for _, data := range []string{`[1,2]`, `{"10k": "cheap"}`, `{"10k": 99.5}`} {
		var fs FeeSchedule
		if err := json.Unmarshal([]byte(data), &fs); err == nil {
			t.Errorf("Unmarshal(%s) succeeded, want error", data)
		}
	}
}

func TestFirm_Decode(t *testing.T) {
	data := `{
		"id": "ftmo",
		"name": "FTMO",
		"profit_split": [80, 20],
		"payout_frequency": "bi-weekly",
		"evaluation_fee": {"10k": 155},
		"trading_platforms": ["MT4", "MT5"],
		"news_trading": false,
		"scaling_plan": true
	}`

	var f Firm
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if f.ProfitSplit.Trader() != 80 || f.ProfitSplit.Firm() != 20 {
		t.Errorf("ProfitSplit = %v", f.ProfitSplit)
	}
	if f.PayoutFrequency.Rank() != 2 {
		t.Errorf("PayoutFrequency rank = %d, want 2", f.PayoutFrequency.Rank())
	}
	if !f.SupportsPlatform("MT5") || f.SupportsPlatform("cTrader") {
		t.Errorf("SupportsPlatform wrong for %v", f.TradingPlatforms)
	}
	if !f.ScalingPlan || f.NewsTrading {
		t.Errorf("booleans decoded wrong: %+v", f)
	}
}

func TestPayoutFrequency(t *testing.T) {
	if !(PayoutWeekly.Rank() > PayoutBiWeekly.Rank() && PayoutBiWeekly.Rank() > PayoutMonthly.Rank()) {
		t.Error("payout ranks must order weekly > bi-weekly > monthly")
	}
	if PayoutFrequency("daily").Valid() {
		t.Error("unknown frequency reported valid")
	}
	if got := PayoutBiWeekly.Label(); got != "Bi-weekly" {
		t.Errorf("Label = %q", got)
	}
}
