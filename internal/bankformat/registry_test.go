package bankformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup_Known(t *testing.T) {
	f := Lookup("fnb")
	assert.Equal(t, "fnb", f.ID)
	assert.Equal(t, 2, f.AmountCol)
	assert.Equal(t, 3, f.BalanceCol)
	assert.False(t, f.IsGeneric())
	assert.False(t, f.SplitAmount())
}

func TestLookup_CaseAndWhitespace(t *testing.T) {
	assert.Equal(t, "standard", Lookup("  Standard ").ID)
	assert.Equal(t, "absa", Lookup("ABSA").ID)
}

func TestLookup_FallsBackToGeneric(t *testing.T) {
	for _, id := range []string{"", "unknown-bank", "chase"} {
		f := Lookup(id)
		assert.Equal(t, GenericID, f.ID, "Lookup(%q)", id)
		assert.True(t, f.IsGeneric())
		assert.Equal(t, 0, f.HeaderRows)
	}
}

func TestSplitAmountFormats(t *testing.T) {
	for _, id := range []string{"standard", "capitec", "investec"} {
		f := Lookup(id)
		assert.True(t, f.SplitAmount(), "%s should use debit/credit columns", id)
		assert.Equal(t, NoColumn, f.AmountCol)
	}
}

func TestFormats(t *testing.T) {
	formats := Formats()
	assert.GreaterOrEqual(t, len(formats), 7, "six banks plus generic")
	assert.Equal(t, GenericID, formats[len(formats)-1].ID)

	seen := make(map[string]bool)
	for _, f := range formats {
		assert.False(t, seen[f.ID], "duplicate format %s", f.ID)
		seen[f.ID] = true
		assert.NotEmpty(t, f.Name)
		if !f.IsGeneric() {
			assert.Len(t, f.Columns, maxColumn(f)+1, "%s column list should cover every role", f.ID)
		}
	}
}

func maxColumn(f BankFormat) int {
	m := NoColumn
	for _, c := range []int{f.DateCol, f.DescCol, f.AmountCol, f.DebitCol, f.CreditCol, f.BalanceCol} {
		if c > m {
			m = c
		}
	}
	return m
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("nedbank"))
	assert.True(t, Known("generic"))
	assert.False(t, Known("monzo"))
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "fnb", Suggest("fbn"))
	assert.Equal(t, "capitec", Suggest("capitek"))
	assert.Equal(t, "", Suggest("completely-different"))
	assert.Equal(t, "", Suggest(""))
}
