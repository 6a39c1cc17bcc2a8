// Package review presents an imported batch for confirmation and persists
// batches waiting to be submitted.
package review

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// DefaultRows is how many transactions Render shows when limit is not positive.
const DefaultRows = 50

const maxDescriptionWidth = 40

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	amountStyle  = cellStyle.Align(lipgloss.Right)
	incomeStyle  = amountStyle.Foreground(lipgloss.Color("#a6e3a1"))
	expenseStyle = amountStyle.Foreground(lipgloss.Color("#f38ba8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

const (
	colDate = iota
	colDescription
	colAmount
	colCategory
	colType
)

// Render writes the first limit transactions of b as a table, followed by the
// batch totals.
func Render(w io.Writer, b *model.Batch, limit int) error {
	if limit <= 0 {
		limit = DefaultRows
	}
	shown := b.Transactions
	if len(shown) > limit {
		shown = shown[:limit]
	}

	rows := make([][]string, 0, len(shown))
	for _, t := range shown {
		rows = append(rows, []string{
			t.Date.Format("2006-01-02"),
			truncate(t.Description, maxDescriptionWidth),
			t.Amount.StringFixed(2),
			t.Category,
			string(t.Type),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("Date", "Description", "Amount", "Category", "Type").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col != colAmount {
				return cellStyle
			}
			if row >= 0 && row < len(shown) && shown[row].Type == model.DirectionIncome {
				return incomeStyle
			}
			return expenseStyle
		})

	if _, err := fmt.Fprintln(w, tbl.String()); err != nil {
		return err
	}

	if len(shown) < len(b.Transactions) {
		if _, err := fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Showing %d of %d transactions", len(shown), len(b.Transactions)))); err != nil {
			return err
		}
	}

	income, expense, net := b.Totals()
	_, err := fmt.Fprintf(w, "Income: %s  Expense: %s  Net: %s\n",
		income.StringFixed(2), expense.StringFixed(2), net.StringFixed(2))
	if err != nil {
		return err
	}

	if b.Skipped > 0 || b.Dropped > 0 {
		_, err = fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d line(s) skipped, %d zero-amount line(s) dropped", b.Skipped, b.Dropped)))
	}
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
