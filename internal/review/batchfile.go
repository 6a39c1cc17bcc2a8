package review

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline-dev/ledgerline/internal/importer"
	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// QueueDir is the directory of batches awaiting submission, relative to a
// workspace root.
const QueueDir = "queue"

const metaPrefix = "# ledgerline-batch "

const (
	numFields      = 9
	colBatchID     = 0
	colTxnDate     = 1
	colDesc        = 2
	colTxnAmount   = 3
	colBalance     = 4
	colTxnCategory = 5
	colTxnType     = 6
	colAccountCode = 7
	colReference   = 8
)

var header = []string{"batch_id", "date", "description", "amount", "balance", "category", "type", "account_code", "reference"}

// WriteBatch writes b as CSV preceded by a metadata comment line.
func WriteBatch(w io.Writer, b *model.Batch) error {
	meta := url.Values{}
	meta.Set("id", b.ID.String())
	meta.Set("bank", b.Bank)
	meta.Set("file", b.FileName)
	meta.Set("created", b.CreatedAt.UTC().Format(time.RFC3339))
	meta.Set("skipped", strconv.Itoa(b.Skipped))
	meta.Set("dropped", strconv.Itoa(b.Dropped))
	if _, err := io.WriteString(w, metaPrefix+meta.Encode()+"\n"); err != nil {
		return fmt.Errorf("writing batch metadata: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range b.Transactions {
		if err := cw.Write(MarshalTransaction(b.ID, t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing batch: %w", err)
	}
	return nil
}

// ReadBatch reads a batch written by WriteBatch.
func ReadBatch(r io.Reader) (*model.Batch, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading batch metadata: %w", err)
	}
	b, err := parseMeta(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = numFields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading batch CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("reading batch CSV: missing header")
	}

	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if rec[colBatchID] != b.ID.String() {
			return nil, fmt.Errorf("row %d: batch_id %q does not match %s", i+2, rec[colBatchID], b.ID)
		}
		b.Transactions = append(b.Transactions, t)
	}
	return b, nil
}

func parseMeta(line string) (*model.Batch, error) {
	if !strings.HasPrefix(line, metaPrefix) {
		return nil, errors.New("not a ledgerline batch file")
	}
	meta, err := url.ParseQuery(strings.TrimPrefix(line, metaPrefix))
	if err != nil {
		return nil, fmt.Errorf("parsing batch metadata: %w", err)
	}

	id, err := uuid.Parse(meta.Get("id"))
	if err != nil {
		return nil, fmt.Errorf("parsing batch id: %w", err)
	}
	created, err := time.Parse(time.RFC3339, meta.Get("created"))
	if err != nil {
		return nil, fmt.Errorf("parsing batch created time: %w", err)
	}
	skipped, _ := strconv.Atoi(meta.Get("skipped"))
	dropped, _ := strconv.Atoi(meta.Get("dropped"))

	return &model.Batch{
		ID:        id,
		Bank:      meta.Get("bank"),
		FileName:  meta.Get("file"),
		CreatedAt: created,
		Skipped:   skipped,
		Dropped:   dropped,
	}, nil
}

// MarshalTransaction converts a CategorizedTransaction to a CSV row. Amounts
// keep their full precision.
func MarshalTransaction(batchID uuid.UUID, t model.CategorizedTransaction) []string {
	row := make([]string, numFields)
	row[colBatchID] = batchID.String()
	row[colTxnDate] = t.Date.Format("2006-01-02")
	row[colDesc] = t.Description
	row[colTxnAmount] = t.Amount.String()
	if t.Balance.Valid {
		row[colBalance] = t.Balance.Decimal.String()
	}
	row[colTxnCategory] = t.Category
	row[colTxnType] = string(t.Type)
	row[colAccountCode] = t.AccountCode
	row[colReference] = t.Reference
	return row
}

// UnmarshalTransaction converts a CSV row to a CategorizedTransaction.
func UnmarshalTransaction(record []string) (model.CategorizedTransaction, error) {
	if len(record) != numFields {
		return model.CategorizedTransaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := importer.ParseDate(record[colTxnDate])
	if err != nil {
		return model.CategorizedTransaction{}, err
	}
	amount, err := decimal.NewFromString(record[colTxnAmount])
	if err != nil {
		return model.CategorizedTransaction{}, fmt.Errorf("parsing amount %q: %w", record[colTxnAmount], err)
	}
	var balance decimal.NullDecimal
	if record[colBalance] != "" {
		bal, err := decimal.NewFromString(record[colBalance])
		if err != nil {
			return model.CategorizedTransaction{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
		}
		balance = decimal.NewNullDecimal(bal)
	}

	typ := model.Direction(record[colTxnType])
	if typ != model.DirectionIncome && typ != model.DirectionExpense {
		return model.CategorizedTransaction{}, fmt.Errorf("parsing type %q: want income or expense", record[colTxnType])
	}

	return model.CategorizedTransaction{
		Transaction: model.Transaction{
			Date:        date,
			Description: record[colDesc],
			Amount:      amount,
			Balance:     balance,
			Reference:   record[colReference],
		},
		Category:    record[colTxnCategory],
		Type:        typ,
		AccountCode: record[colAccountCode],
	}, nil
}

// SaveBatch writes b to <dir>/<bank>-<id>.csv and returns the path.
func SaveBatch(dir string, b *model.Batch) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating queue dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.csv", b.Bank, b.ID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating batch file: %w", err)
	}
	defer f.Close()

	if err := WriteBatch(f, b); err != nil {
		return "", fmt.Errorf("writing batch: %w", err)
	}
	return path, nil
}

// LoadBatch reads a batch file.
func LoadBatch(path string) (*model.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening batch: %w", err)
	}
	defer f.Close()

	b, err := ReadBatch(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return b, nil
}

// Queued returns the batch files in dir, sorted by name. A missing directory
// yields none.
func Queued(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading queue dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}
