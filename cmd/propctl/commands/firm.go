package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/PropCompare/internal/core"
)

func firmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "firm <id>",
		Short: "Show one firm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			firm, err := a.client.GetFirm(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("firm %s: %s", args[0], core.FormatUserError(err))
			}
			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, firm)
			}
			_, err = fmt.Fprintln(out, renderFirm(firm))
			return err
		},
	}
}

func renderFirm(f core.Firm) string {
	line := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
	}

	lines := []string{
		titleStyle.Render(f.Name),
		line("Rating", fmt.Sprintf("%.1f (%d reviews)", f.Rating, f.TotalReviews)),
		line("Profit split", fmt.Sprintf("%d/%d", f.ProfitSplit.Trader(), f.ProfitSplit.Firm())),
		line("Account sizes", core.FormatUSD(f.MinAccountSize)+" to "+core.FormatUSD(f.MaxAccountSize)),
		line("Payouts", f.PayoutFrequency.Label()+", minimum "+core.FormatUSD(f.MinimumPayout)),
		line("Platforms", strings.Join(f.TradingPlatforms, ", ")),
	}
	if f.EvaluationFee.Len() > 0 {
		tiers := make([]string, 0, f.EvaluationFee.Len())
		for _, t := range f.EvaluationFee.Tiers() {
			tiers = append(tiers, t.Tier+" "+core.FormatUSD(t.Fee))
		}
		lines = append(lines, line("Evaluation fee", strings.Join(tiers, ", ")))
	}
	if f.FoundedYear > 0 {
		lines = append(lines, line("Founded", strconv.Itoa(f.FoundedYear)))
	}
	if f.Description != "" {
		lines = append(lines, "", f.Description)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
