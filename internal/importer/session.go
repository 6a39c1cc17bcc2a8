package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerline-dev/ledgerline/internal/bankformat"
	"github.com/ledgerline-dev/ledgerline/internal/categorize"
	"github.com/ledgerline-dev/ledgerline/internal/model"
	"github.com/ledgerline-dev/ledgerline/internal/observability"
)

// Session runs the import pipeline for one upload: split, tokenize, extract,
// drop zero amounts, categorize. Everything it produces is returned in the
// Batch; the Session keeps no per-file state.
type Session struct {
	format      bankformat.BankFormat
	categorizer *categorize.Categorizer
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time
}

// NewSession creates a Session. logger and metrics may be nil.
func NewSession(format bankformat.BankFormat, c *categorize.Categorizer, logger *zap.Logger, metrics *observability.Metrics) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		format:      format,
		categorizer: c,
		logger:      logger.With(zap.String("bank", format.ID)),
		metrics:     metrics,
		now:         time.Now,
	}
}

// Format returns the bank format the session extracts with.
func (s *Session) Format() bankformat.BankFormat {
	return s.format
}

// ProcessFile checks the file type, reads the file and processes it.
func (s *Session) ProcessFile(ctx context.Context, path string) (*model.Batch, error) {
	if err := CheckFileType(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	return s.Process(ctx, filepath.Base(path), string(data))
}

// Process parses statement text into a categorized Batch. Lines that cannot be
// extracted are logged and skipped; zero amounts are dropped. Returns
// ErrNoTransactions when nothing usable remains. Parsing is not interrupted by
// ctx once started.
func (s *Session) Process(ctx context.Context, fileName, text string) (*model.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.now()
	log := s.logger.With(zap.String("file", fileName))

	batch := &model.Batch{
		ID:        uuid.New(),
		Bank:      s.format.ID,
		FileName:  fileName,
		CreatedAt: start.UTC(),
	}

	for i, record := range SplitRecords(text, s.format.HeaderRows) {
		line := i + 1 + s.format.HeaderRows

		x, err := extract(Tokenize(record), s.format, line)
		if err != nil {
			log.Warn("skipping line", zap.Error(&LineError{Line: line, Err: err}))
			batch.Skipped++
			s.metrics.RecordRow(s.format.ID, observability.OutcomeSkipped)
			continue
		}

		if x.txn.Amount.IsZero() {
			if x.amountOK {
				log.Debug("dropping zero amount", zap.Int("line", line))
			} else {
				log.Warn("dropping unparseable amount", zap.Int("line", line), zap.String("record", record))
			}
			batch.Dropped++
			s.metrics.RecordRow(s.format.ID, observability.OutcomeZero)
			continue
		}

		ct := s.categorizer.Categorize(x.txn)
		batch.Transactions = append(batch.Transactions, ct)
		s.metrics.RecordRow(s.format.ID, observability.OutcomeImported)
		s.metrics.RecordTransaction(string(ct.Type))
	}

	s.metrics.ObserveImport(s.now().Sub(start))

	if len(batch.Transactions) == 0 {
		log.Info("no transactions found",
			zap.Int("skipped", batch.Skipped),
			zap.Int("dropped", batch.Dropped),
		)
		return nil, fmt.Errorf("%s: %w", fileName, ErrNoTransactions)
	}

	log.Info("statement processed",
		zap.String("batch", batch.ID.String()),
		zap.Int("transactions", len(batch.Transactions)),
		zap.Int("skipped", batch.Skipped),
		zap.Int("dropped", batch.Dropped),
	)
	return batch, nil
}
