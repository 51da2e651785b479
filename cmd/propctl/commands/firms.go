package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/PropCompare/internal/core"
)

type firmFilters struct {
	minAccount, maxAccount, minSplit int
	platform, payout                 string
	news, ea, scaling                bool
	minRating                        float64
	search                           string
}

// criteria builds FilterCriteria from the flags the user actually set, so
// --news=false is a constraint while omitting --news is not.
func (f *firmFilters) criteria(cmd *cobra.Command) (core.FilterCriteria, error) {
	var c core.FilterCriteria
	flags := cmd.Flags()
	if flags.Changed("min-account") {
		c.MinAccountSize = core.Ptr(f.minAccount)
	}
	if flags.Changed("max-account") {
		c.MaxAccountSize = core.Ptr(f.maxAccount)
	}
	if flags.Changed("min-split") {
		c.MinProfitSplit = core.Ptr(f.minSplit)
	}
	if flags.Changed("platform") {
		c.Platform = core.Ptr(f.platform)
	}
	if flags.Changed("payout") {
		c.PayoutFrequency = core.Ptr(core.PayoutFrequency(f.payout))
	}
	if flags.Changed("news") {
		c.NewsTrading = core.Ptr(f.news)
	}
	if flags.Changed("ea") {
		c.ExpertAdvisors = core.Ptr(f.ea)
	}
	if flags.Changed("scaling") {
		c.ScalingPlan = core.Ptr(f.scaling)
	}
	if flags.Changed("min-rating") {
		c.MinRating = core.Ptr(f.minRating)
	}
	return c, c.Validate()
}

func firmsCmd(a *app) *cobra.Command {
	f := &firmFilters{}
	cmd := &cobra.Command{
		Use:   "firms",
		Short: "List firms, optionally filtered and searched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.criteria(cmd)
			if err != nil {
				return err
			}
			firms, err := a.client.ListFirms(cmd.Context(), c.Query())
			if err != nil {
				return fmt.Errorf("list firms: %s", core.FormatUserError(err))
			}
			firms = core.SearchAll(f.search, firms)

			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, firms)
			}
			if len(firms) == 0 {
				_, err := fmt.Fprintln(out, "No firms match.")
				return err
			}

			rows := make([][]string, len(firms))
			for i, firm := range firms {
				fee := "n/a"
				if v, ok := firm.EvaluationFee.Representative(); ok {
					fee = core.FormatUSD(v)
				}
				rows[i] = []string{
					firm.ID,
					firm.Name,
					fmt.Sprintf("%d/%d", firm.ProfitSplit.Trader(), firm.ProfitSplit.Firm()),
					core.FormatUSD(firm.MinAccountSize),
					firm.PayoutFrequency.Label(),
					strconv.FormatFloat(firm.Rating, 'f', 1, 64),
					fee,
				}
			}
			t := newTable([]string{"ID", "Name", "Split", "From", "Payouts", "Rating", "Fee"}, rows, nil)
			_, err = fmt.Fprintf(out, "%s\n%d firms\n", t, len(firms))
			return err
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.minAccount, "min-account", 0, "minimum account size in USD")
	flags.IntVar(&f.maxAccount, "max-account", 0, "maximum account size in USD")
	flags.IntVar(&f.minSplit, "min-split", 0, "minimum trader profit split percent")
	flags.StringVar(&f.platform, "platform", "", "trading platform, e.g. MT5")
	flags.StringVar(&f.payout, "payout", "", "payout frequency: weekly, bi-weekly, monthly")
	flags.BoolVar(&f.news, "news", false, "news trading allowed (use --news=false to exclude)")
	flags.BoolVar(&f.ea, "ea", false, "expert advisors allowed")
	flags.BoolVar(&f.scaling, "scaling", false, "scaling plan offered")
	flags.Float64Var(&f.minRating, "min-rating", 0, "minimum rating, 0-5")
	flags.StringVarP(&f.search, "search", "s", "", "narrow results by name or description")
	return cmd
}
