package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the income/expense flag derived from an amount's sign.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// DirectionOf returns income for positive amounts and expense otherwise.
func DirectionOf(amount decimal.Decimal) Direction {
	if amount.IsPositive() {
		return DirectionIncome
	}
	return DirectionExpense
}

// Transaction is one normalized bank statement row.
type Transaction struct {
	Date        time.Time           // UTC midnight, no time component
	Description string
	Amount      decimal.Decimal     // positive = inflow, negative = outflow
	Balance     decimal.NullDecimal // running balance, when the export has one
	Reference   string              // <bank>_YYYYMMDD_<prefix>, used for idempotent imports
}

// CategorizedTransaction is a Transaction annotated by the categorizer.
type CategorizedTransaction struct {
	Transaction
	Category    string
	Type        Direction
	AccountCode string
}
