package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Batch is the result of processing one statement file.
type Batch struct {
	ID           uuid.UUID
	Bank         string
	FileName     string
	CreatedAt    time.Time
	Transactions []CategorizedTransaction
	Skipped      int // lines that could not be extracted
	Dropped      int // zero-amount transactions
}

// Totals sums the batch. Expense is reported as a positive figure.
func (b *Batch) Totals() (income, expense, net decimal.Decimal) {
	for _, t := range b.Transactions {
		if t.Type == DirectionIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount.Neg())
		}
	}
	return income, expense, income.Sub(expense)
}
