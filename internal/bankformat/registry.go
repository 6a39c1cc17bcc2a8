// Package bankformat describes how each supported bank lays out its CSV export.
package bankformat

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// NoColumn marks a column role the export does not have.
const NoColumn = -1

// GenericID is the identifier of the auto-detecting fallback format.
const GenericID = "generic"

// BankFormat is a static descriptor of one bank's statement export.
type BankFormat struct {
	ID         string
	Name       string
	Columns    []string // expected column order, for display
	HeaderRows int
	DateCol    int
	DescCol    int
	AmountCol  int // single signed amount column, or NoColumn
	DebitCol   int // used with CreditCol when AmountCol is NoColumn
	CreditCol  int
	BalanceCol int
	DateHint   string
}

// IsGeneric reports whether the format has no fixed column roles.
func (f BankFormat) IsGeneric() bool {
	return f.DateCol == NoColumn && f.DescCol == NoColumn
}

// SplitAmount reports whether amounts come from separate debit/credit columns.
func (f BankFormat) SplitAmount() bool {
	return f.AmountCol == NoColumn && f.DebitCol != NoColumn && f.CreditCol != NoColumn
}

// Generic is the fallback used for unknown banks.
var Generic = BankFormat{
	ID:         GenericID,
	Name:       "Other bank (auto-detect)",
	HeaderRows: 0,
	DateCol:    NoColumn,
	DescCol:    NoColumn,
	AmountCol:  NoColumn,
	DebitCol:   NoColumn,
	CreditCol:  NoColumn,
	BalanceCol: NoColumn,
}

var builtins = []BankFormat{
	{
		ID:         "fnb",
		Name:       "First National Bank",
		Columns:    []string{"Date", "Description", "Amount", "Balance"},
		HeaderRows: 1,
		DateCol:    0,
		DescCol:    1,
		AmountCol:  2,
		DebitCol:   NoColumn,
		CreditCol:  NoColumn,
		BalanceCol: 3,
		DateHint:   "YYYY/MM/DD",
	},
	{
		ID:         "standard",
		Name:       "Standard Bank",
		Columns:    []string{"Date", "Description", "Debit", "Credit", "Balance"},
		HeaderRows: 1,
		DateCol:    0,
		DescCol:    1,
		AmountCol:  NoColumn,
		DebitCol:   2,
		CreditCol:  3,
		BalanceCol: 4,
		DateHint:   "YYYY-MM-DD",
	},
	{
		ID:         "absa",
		Name:       "Absa",
		Columns:    []string{"Date", "Description", "Amount", "Balance"},
		HeaderRows: 1,
		DateCol:    0,
		DescCol:    1,
		AmountCol:  2,
		DebitCol:   NoColumn,
		CreditCol:  NoColumn,
		BalanceCol: 3,
		DateHint:   "DD/MM/YYYY",
	},
	{
		ID:         "nedbank",
		Name:       "Nedbank",
		Columns:    []string{"Date", "Reference", "Description", "Amount", "Balance"},
		HeaderRows: 1,
		DateCol:    0,
		DescCol:    2,
		AmountCol:  3,
		DebitCol:   NoColumn,
		CreditCol:  NoColumn,
		BalanceCol: 4,
		DateHint:   "DD/MM/YYYY",
	},
	{
		ID:         "capitec",
		Name:       "Capitec Business",
		Columns:    []string{"Date", "Description", "Money In", "Money Out", "Balance"},
		HeaderRows: 1,
		DateCol:    0,
		DescCol:    1,
		AmountCol:  NoColumn,
		DebitCol:   3,
		CreditCol:  2,
		BalanceCol: 4,
		DateHint:   "DD/MM/YYYY",
	},
	{
		ID:         "investec",
		Name:       "Investec",
		Columns:    []string{"Date", "Description", "Debit", "Credit", "Balance"},
		HeaderRows: 2,
		DateCol:    0,
		DescCol:    1,
		AmountCol:  NoColumn,
		DebitCol:   2,
		CreditCol:  3,
		BalanceCol: 4,
		DateHint:   "YYYY-MM-DD",
	},
}

var byID = func() map[string]BankFormat {
	m := make(map[string]BankFormat, len(builtins)+1)
	for _, f := range builtins {
		m[f.ID] = f
	}
	m[GenericID] = Generic
	return m
}()

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Lookup returns the format for id, or Generic when id is empty or unknown.
func Lookup(id string) BankFormat {
	if f, ok := byID[normalize(id)]; ok {
		return f
	}
	return Generic
}

// Known reports whether id names a registered format.
func Known(id string) bool {
	_, ok := byID[normalize(id)]
	return ok
}

// Formats returns the built-in formats in display order, Generic last.
func Formats() []BankFormat {
	out := make([]BankFormat, 0, len(builtins)+1)
	out = append(out, builtins...)
	return append(out, Generic)
}

// Suggest returns the registered id closest to id, or "" if nothing is close.
func Suggest(id string) string {
	id = normalize(id)
	if id == "" {
		return ""
	}
	best, bestDist := "", 3
	for key := range byID {
		if d := levenshtein.ComputeDistance(id, key); d < bestDist || (d == bestDist && best != "" && key < best) {
			best, bestDist = key, d
		}
	}
	return best
}
