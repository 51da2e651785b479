package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/PropCompare/internal/core"
)

func compareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <id> [id...]",
		Short: fmt.Sprintf("Compare up to %d firms side by side", core.MaxSelection),
		Args:  cobra.RangeArgs(1, core.MaxSelection),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The selection set enforces uniqueness and the limit, the same
			// way the web comparison does.
			sel := core.NewSelectionSet()
			for _, id := range args {
				if sel.Contains(id) {
					continue
				}
				if _, err := sel.Toggle(id); err != nil {
					return err
				}
			}

			firms, err := a.client.Compare(cmd.Context(), sel.IDs())
			if err != nil {
				return fmt.Errorf("compare: %s", core.FormatUserError(err))
			}
			if missing := len(sel.IDs()) - len(firms); missing > 0 {
				cmd.PrintErrf("%d firm(s) not found in the catalog\n", missing)
			}
			table := core.Compare(firms)

			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, table)
			}
			_, err = fmt.Fprintln(out, renderComparison(table))
			return err
		},
	}
}

// renderComparison lays the table out with attributes as rows and firms as
// columns; best cells are emphasised.
func renderComparison(t core.Table) string {
	headers := make([]string, 0, len(t.Columns)+1)
	headers = append(headers, "")
	for _, c := range t.Columns {
		headers = append(headers, c.Name)
	}

	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]string{r.Label}, r.Values...)
	}

	return newTable(headers, rows, func(row, col int) bool {
		if col == 0 || row < 0 || row >= len(t.Rows) {
			return false
		}
		return t.Rows[row].Highlight[col-1]
	}).String()
}
