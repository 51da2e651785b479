package commands

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	bestStyle   = cellStyle.Foreground(lipgloss.Color("42")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(22)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true).MarginBottom(1)
)

// newTable returns a bordered table with the shared header styling. best,
// when non-nil, reports which body cells to emphasise.
func newTable(headers []string, rows [][]string, best func(row, col int) bool) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if best != nil && best(row, col) {
				return bestStyle
			}
			return cellStyle
		})
}
