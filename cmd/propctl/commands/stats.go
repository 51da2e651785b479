package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/PropCompare/internal/core"
)

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print catalog-wide statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.client.Statistics(cmd.Context())
			if err != nil {
				return fmt.Errorf("statistics: %s", core.FormatUserError(err))
			}
			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, st)
			}
			t := newTable([]string{"Statistic", "Value"}, [][]string{
				{"Firms", fmt.Sprint(st.TotalFirms)},
				{"Average split", fmt.Sprintf("%.1f%%", st.AvgProfitSplit)},
				{"Average rating", fmt.Sprintf("%.1f", st.AvgRating)},
				{"Lowest evaluation fee", core.FormatUSD(st.LowestEvaluationFee)},
				{"Most popular platform", st.MostPopularPlatform},
			}, nil)
			_, err = fmt.Fprintln(out, t)
			return err
		},
	}
}
