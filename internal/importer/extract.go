package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline-dev/ledgerline/internal/bankformat"
	"github.com/ledgerline-dev/ledgerline/internal/model"
)

var (
	errShortRecord      = errors.New("record has too few fields")
	errEmptyDescription = errors.New("empty description")
)

// extraction is a Transaction plus whether its amount parsed cleanly, so a
// parse failure can be told apart from a genuine zero.
type extraction struct {
	txn      model.Transaction
	amountOK bool
}

// Extract turns tokenized fields into a Transaction using f's column roles,
// or auto-detection when f is generic. Unparseable amounts become zero.
func Extract(fields []string, f bankformat.BankFormat) (model.Transaction, error) {
	x, err := extract(fields, f, 0)
	if err != nil {
		return model.Transaction{}, err
	}
	return x.txn, nil
}

// extract also stamps the Reference; line is the record's position in the
// file and keeps otherwise identical rows apart.
func extract(fields []string, f bankformat.BankFormat, line int) (extraction, error) {
	var x extraction
	var err error
	if f.IsGeneric() {
		x, err = extractDetected(fields)
	} else {
		x, err = extractMapped(fields, f)
	}
	if err != nil {
		return extraction{}, err
	}
	x.txn.Reference = makeReference(f.ID, line, x.txn)
	return x, nil
}

func extractMapped(fields []string, f bankformat.BankFormat) (extraction, error) {
	need := []int{f.DateCol, f.DescCol}
	if f.SplitAmount() {
		need = append(need, f.DebitCol, f.CreditCol)
	} else {
		need = append(need, f.AmountCol)
	}
	for _, c := range need {
		if c >= len(fields) {
			return extraction{}, fmt.Errorf("%w: want column %d, got %d fields", errShortRecord, c, len(fields))
		}
	}

	date, err := ParseDate(fields[f.DateCol])
	if err != nil {
		return extraction{}, err
	}

	desc := cleanDescription(fields[f.DescCol])
	if desc == "" {
		return extraction{}, errEmptyDescription
	}

	var amount decimal.Decimal
	amountOK := true
	if f.SplitAmount() {
		debit, derr := parseAmountStrict(fields[f.DebitCol])
		credit, cerr := parseAmountStrict(fields[f.CreditCol])
		amountOK = derr == nil && cerr == nil
		amount = credit.Sub(debit)
	} else {
		var aerr error
		amount, aerr = parseAmountStrict(fields[f.AmountCol])
		amountOK = aerr == nil
	}

	txn := model.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
	}
	if f.BalanceCol != bankformat.NoColumn && f.BalanceCol < len(fields) && cleanAmount(fields[f.BalanceCol]) != "" {
		if bal, err := parseAmountStrict(fields[f.BalanceCol]); err == nil {
			txn.Balance = decimal.NewNullDecimal(bal)
		}
	}
	return extraction{txn: txn, amountOK: amountOK}, nil
}

func extractDetected(fields []string) (extraction, error) {
	cols, ok := detectColumns(fields)
	if !ok {
		return extraction{}, ErrUndetectable
	}

	date, err := ParseDate(fields[cols[roleDate]])
	if err != nil {
		return extraction{}, err
	}
	desc := cleanDescription(fields[cols[roleDescription]])
	// The amount column matched signedDecimal, so it always parses.
	amount := ParseAmount(fields[cols[roleAmount]])

	return extraction{
		txn: model.Transaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
		},
		amountOK: true,
	}, nil
}

func cleanDescription(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

var referenceSpace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("ledgerline/transaction-reference"))

// makeReference creates a reference like fnb_20240115_SALARYPAYM_3f2a9c01b7de.
// The suffix hashes every extracted field plus the line, so two rows only
// share a reference when they are the same row of the same statement.
func makeReference(bank string, line int, t model.Transaction) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, t.Description)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}

	balance := ""
	if t.Balance.Valid {
		balance = t.Balance.Decimal.String()
	}
	key := strings.Join([]string{
		bank,
		t.Date.Format("2006-01-02"),
		t.Description,
		t.Amount.String(),
		balance,
		strconv.Itoa(line),
	}, "\x1f")
	sum := strings.ReplaceAll(uuid.NewSHA1(referenceSpace, []byte(key)).String(), "-", "")

	return fmt.Sprintf("%s_%s_%s_%s", bank, t.Date.Format("20060102"), prefix, sum[:12])
}
