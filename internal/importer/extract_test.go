package importer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline-dev/ledgerline/internal/bankformat"
	"github.com/ledgerline-dev/ledgerline/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtract_FNBSalaryLine(t *testing.T) {
	line := `"2024/01/15","SALARY PAYMENT FROM ACME CORP","15000.00","45000.00"`

	txn, err := Extract(Tokenize(line), bankformat.Lookup("fnb"))
	require.NoError(t, err)

	assert.Equal(t, date(2024, 1, 15), txn.Date)
	assert.Equal(t, "SALARY PAYMENT FROM ACME CORP", txn.Description)
	assert.Equal(t, "15000.00", txn.Amount.StringFixed(2))
	require.True(t, txn.Balance.Valid)
	assert.Equal(t, "45000.00", txn.Balance.Decimal.StringFixed(2))
	assert.Regexp(t, `^fnb_20240115_SALARYPAYM_[0-9a-f]{12}$`, txn.Reference)
}

func TestExtract_StandardDebitOnly(t *testing.T) {
	txn, err := Extract(Tokenize("2024-02-03,VODACOM DEBIT ORDER,250.00,,33400.00"), bankformat.Lookup("standard"))
	require.NoError(t, err)

	assert.Equal(t, "-250.00", txn.Amount.StringFixed(2))
	assert.True(t, txn.Amount.IsNegative())
}

func TestExtract_StandardCreditOnly(t *testing.T) {
	txn, err := Extract(Tokenize(`2024-02-02,YOCO PAYOUT,,"2,150.00",33650.00`), bankformat.Lookup("standard"))
	require.NoError(t, err)
	assert.Equal(t, "2150.00", txn.Amount.StringFixed(2))
}

// Every built-in format gets a well-formed inflow and outflow row; the sign
// of the extracted amount must follow the money.
func TestExtract_SignPerFormat(t *testing.T) {
	for _, f := range bankformat.Formats() {
		if f.IsGeneric() {
			continue
		}
		t.Run(f.ID, func(t *testing.T) {
			in := sampleRow(f, "500.00", true)
			out := sampleRow(f, "500.00", false)

			inTxn, err := Extract(in, f)
			require.NoError(t, err)
			assert.True(t, inTxn.Amount.IsPositive(), "credit should be positive")

			outTxn, err := Extract(out, f)
			require.NoError(t, err)
			assert.True(t, outTxn.Amount.IsNegative(), "debit should be negative")
			assert.Equal(t, "500.00", outTxn.Amount.Abs().StringFixed(2))
		})
	}
}

// sampleRow builds a row laid out for f, with amount as an inflow or outflow.
func sampleRow(f bankformat.BankFormat, amount string, inflow bool) []string {
	fields := make([]string, len(f.Columns))
	fields[f.DateCol] = "2024/03/01"
	fields[f.DescCol] = "SAMPLE TRANSACTION"
	if f.BalanceCol != bankformat.NoColumn {
		fields[f.BalanceCol] = "10000.00"
	}
	switch {
	case f.SplitAmount() && inflow:
		fields[f.CreditCol] = amount
	case f.SplitAmount():
		fields[f.DebitCol] = amount
	case inflow:
		fields[f.AmountCol] = amount
	default:
		fields[f.AmountCol] = "-" + amount
	}
	for i := range fields {
		if fields[i] == "" && i != f.DebitCol && i != f.CreditCol {
			fields[i] = "x"
		}
	}
	return fields
}

func TestExtract_MappedErrors(t *testing.T) {
	fnb := bankformat.Lookup("fnb")

	tests := []struct {
		name   string
		fields []string
		err    error
	}{
		{"too few fields", []string{"2024/01/15", "SALARY"}, errShortRecord},
		{"empty description", []string{"2024/01/15", `""`, "1.00"}, errEmptyDescription},
		{"bad date", []string{"yesterday", "SALARY", "1.00"}, errInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.fields, fnb)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestExtract_MissingBalanceOptional(t *testing.T) {
	txn, err := Extract([]string{"2024/01/15", "SALARY", "1.00"}, bankformat.Lookup("fnb"))
	require.NoError(t, err)
	assert.False(t, txn.Balance.Valid)

	txn, err = Extract([]string{"2024/01/15", "SALARY", "1.00", ""}, bankformat.Lookup("fnb"))
	require.NoError(t, err)
	assert.False(t, txn.Balance.Valid)
}

func TestExtract_StripsQuotesFromDescription(t *testing.T) {
	txn, err := Extract([]string{"2024/01/15", `ACME "PTY" LTD`, "1.00"}, bankformat.Lookup("fnb"))
	require.NoError(t, err)
	assert.Equal(t, "ACME PTY LTD", txn.Description)
}

func TestExtract_AmountFailureIsZero(t *testing.T) {
	fnb := bankformat.Lookup("fnb")

	x, err := extract([]string{"2024/01/15", "CORRUPT", "n/a"}, fnb, 2)
	require.NoError(t, err)
	assert.True(t, x.txn.Amount.IsZero())
	assert.False(t, x.amountOK)

	x, err = extract([]string{"2024/01/15", "ENQUIRY", "0.00"}, fnb, 3)
	require.NoError(t, err)
	assert.True(t, x.txn.Amount.IsZero())
	assert.True(t, x.amountOK)
}

func TestExtract_Generic(t *testing.T) {
	txn, err := Extract(Tokenize("15/03/2024,CARD PURCHASE TAKEALOT,-1299.00"), bankformat.Generic)
	require.NoError(t, err)

	assert.Equal(t, date(2024, 3, 15), txn.Date)
	assert.Equal(t, "CARD PURCHASE TAKEALOT", txn.Description)
	assert.Equal(t, "-1299.00", txn.Amount.StringFixed(2))
	assert.False(t, txn.Balance.Valid)
	assert.Regexp(t, `^generic_20240315_CARDPURCHA_[0-9a-f]{12}$`, txn.Reference)
}

// A row shaped like a known bank's export recovers the same transaction
// through auto-detection.
func TestExtract_GenericMatchesKnownFormat(t *testing.T) {
	lines := map[string]string{
		"fnb":     `"2024/01/15","SALARY PAYMENT FROM ACME CORP","15000.00","45000.00"`,
		"absa":    `15/01/2024,"ELECTRICITY PREPAID, SANDTON",-500.00,1200.00`,
		"nedbank": `2024-01-15,REF123,MONTHLY ACCOUNT FEE,-69.00,4000.00`,
	}
	for bank, line := range lines {
		t.Run(bank, func(t *testing.T) {
			fields := Tokenize(line)

			known, err := Extract(fields, bankformat.Lookup(bank))
			require.NoError(t, err)
			detected, err := Extract(fields, bankformat.Generic)
			require.NoError(t, err)

			assert.Equal(t, known.Date, detected.Date)
			assert.Equal(t, known.Description, detected.Description)
			assert.True(t, known.Amount.Equal(detected.Amount), "%s != %s", known.Amount, detected.Amount)
		})
	}
}

func TestExtract_GenericUndetectable(t *testing.T) {
	tests := map[string]string{
		"no date":        "CARD PURCHASE TAKEALOT,-1299.00",
		"no amount":      "15/03/2024,CARD PURCHASE TAKEALOT",
		"short desc":     "16/03/2024,short,-5.00",
		"header":         "Date,Description,Amount",
		"only separator": ",,",
	}
	for name, line := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(Tokenize(line), bankformat.Generic)
			assert.ErrorIs(t, err, ErrUndetectable)
		})
	}
}

func TestMakeReference(t *testing.T) {
	txn := func(desc string) model.Transaction {
		return model.Transaction{Date: date(2024, 1, 15), Description: desc, Amount: decimal.RequireFromString("-100.00")}
	}
	assert.Regexp(t, `^fnb_20240115_SALARYPAYM_[0-9a-f]{12}$`, makeReference("fnb", 2, txn("SALARY PAYMENT FROM ACME")))
	assert.Regexp(t, `^standard_20240115_AB_[0-9a-f]{12}$`, makeReference("standard", 2, txn("A.B")))
	assert.Regexp(t, `^absa_20240115__[0-9a-f]{12}$`, makeReference("absa", 2, txn("***")))

	assert.Equal(t, makeReference("fnb", 4, txn("ENGEN")), makeReference("fnb", 4, txn("ENGEN")), "stable across runs")
}

func TestMakeReference_SameDayRowsDiffer(t *testing.T) {
	fnb := bankformat.Lookup("fnb")
	lines := []string{
		`"2024/01/15","ATM WITHDRAWAL ROSEBANK","-500.00","9500.00"`,
		`"2024/01/15","ATM WITHDRAWAL SANDTON","-500.00","9000.00"`,
		`"2024/01/15","CARD PURCHASE WOOLWORTHS","-120.00","8880.00"`,
		`"2024/01/15","CARD PURCHASE ENGEN","-120.00","8760.00"`,
	}

	seen := make(map[string]string)
	for i, line := range lines {
		x, err := extract(Tokenize(line), fnb, i+2)
		require.NoError(t, err)
		prev, dup := seen[x.txn.Reference]
		assert.False(t, dup, "%q and %q share reference %s", prev, x.txn.Description, x.txn.Reference)
		seen[x.txn.Reference] = x.txn.Description
	}
}

func TestMakeReference_IdenticalRowsOnDifferentLines(t *testing.T) {
	fnb := bankformat.Lookup("fnb")
	fields := Tokenize(`"2024/01/15","MONTHLY ACCOUNT FEE","-69.00",""`)

	first, err := extract(fields, fnb, 2)
	require.NoError(t, err)
	second, err := extract(fields, fnb, 3)
	require.NoError(t, err)
	again, err := extract(fields, fnb, 2)
	require.NoError(t, err)

	assert.NotEqual(t, first.txn.Reference, second.txn.Reference)
	assert.Equal(t, first.txn.Reference, again.txn.Reference, "re-importing a statement keeps its references")
}
