package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledgerline-dev/ledgerline/internal/accounts"
	"github.com/ledgerline-dev/ledgerline/internal/backend"
	"github.com/ledgerline-dev/ledgerline/internal/bankformat"
	"github.com/ledgerline-dev/ledgerline/internal/config"
	"github.com/ledgerline-dev/ledgerline/internal/features"
	"github.com/ledgerline-dev/ledgerline/internal/importlog"
	"github.com/ledgerline-dev/ledgerline/internal/model"
	"github.com/ledgerline-dev/ledgerline/internal/review"
)

var errBackendNotConfigured = fmt.Errorf("backend not configured: set %s and %s", config.EnvSupabaseURL, config.EnvSupabaseAnonKey)

var errNoOrganization = fmt.Errorf("organization not registered: run `ledgerline onboard` with a backend or set %s", config.EnvOrgID)

var errBankImportNotInPlan = errors.New("bank import is not included in the organization's plan")

var errMissingAccount = errors.New("account not in chart of accounts")

func newSubmitCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submit [batch.csv...]",
		Short: "Submit queued batches to the backend",
		Long: "Post reviewed batches to the hosted ledger. With no arguments every\n" +
			"batch in queue/ is submitted. A batch that fails stays queued.",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := ws.close(); err == nil {
					err = cerr
				}
			}()
			return runSubmit(cmd, ws, args)
		},
	}
}

func runSubmit(cmd *cobra.Command, ws *workspace, paths []string) error {
	out := cmd.OutOrStdout()
	if len(paths) == 0 {
		queued, err := review.Queued(ws.path(review.QueueDir))
		if err != nil {
			return err
		}
		if len(queued) == 0 {
			fmt.Fprintln(out, "Nothing queued.")
			return nil
		}
		paths = queued
	}

	var errs []error
	for _, path := range paths {
		if err := cmd.Context().Err(); err != nil {
			errs = append(errs, err)
			break
		}
		batch, err := review.LoadBatch(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := submitBatch(cmd, ws, path, batch); err != nil {
			errs = append(errs, err)
			if errors.Is(err, errBackendNotConfigured) || errors.Is(err, errNoOrganization) ||
				errors.Is(err, errBankImportNotInPlan) {
				break
			}
		}
	}
	return errors.Join(errs...)
}

// submitBatch posts a batch to the backend. On success the queued file is
// removed; on failure it is kept for a later `ledgerline submit`.
func submitBatch(cmd *cobra.Command, ws *workspace, path string, batch *model.Batch) error {
	client := ws.backendClient()
	if client == nil {
		return errBackendNotConfigured
	}
	orgID := ws.cfg.Organization.ID
	if orgID == "" {
		return errNoOrganization
	}

	allowed, err := ws.featureGate().Allowed(cmd.Context(), features.ModuleBankImport)
	if err != nil {
		return fmt.Errorf("checking plan: %w", err)
	}
	if !allowed {
		return errBankImportNotInPlan
	}

	entry := importlog.Entry{
		Action:       importlog.ActionSubmitted,
		BatchID:      batch.ID.String(),
		Bank:         batch.Bank,
		File:         batch.FileName,
		Transactions: len(batch.Transactions),
	}

	ledger, err := ledgerAccount(ws, batch)
	if err != nil {
		return err
	}

	err = postBatch(cmd, ws, client, orgID, ledger, batch, &entry)
	if err == nil {
		if err := importlog.Append(ws.root, entry); err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing submitted batch: %w", err)
		}
		return nil
	}

	ws.logger.Error("batch submission failed",
		zap.String("batch", batch.ID.String()),
		zap.String("path", path),
		zap.Error(err),
	)
	entry.Timestamp = time.Now().UTC()
	entry.Action = importlog.ActionFailed
	entry.Details = err.Error()
	if lerr := importlog.Append(ws.root, entry); lerr != nil {
		ws.logger.Warn("writing import log", zap.Error(lerr))
	}
	return fmt.Errorf("submitting %s (batch kept in %s): %w", batch.FileName, filepath.Base(path), err)
}

// ledgerAccount returns the chart account the batch posts against. Every
// transaction's account must exist in the workspace chart.
func ledgerAccount(ws *workspace, batch *model.Batch) (model.Account, error) {
	chart, err := accounts.Load(ws.root)
	if err != nil {
		return model.Account{}, err
	}
	ledger, ok := chart.Get(accounts.DefaultAccountCode)
	if !ok {
		return model.Account{}, fmt.Errorf("%w: %s", errMissingAccount, accounts.DefaultAccountCode)
	}
	for _, t := range batch.Transactions {
		if !chart.Exists(t.AccountCode) {
			return model.Account{}, fmt.Errorf("%w: %s (%s)", errMissingAccount, t.AccountCode, t.Reference)
		}
	}
	return ledger, nil
}

func postBatch(cmd *cobra.Command, ws *workspace, client *backend.Client, orgID string, ledger model.Account, batch *model.Batch, entry *importlog.Entry) error {
	ctx := cmd.Context()
	conn, err := client.EnsureBankConnection(ctx, orgID, bankformat.Lookup(batch.Bank), ledger)
	if err != nil {
		return err
	}
	res, err := client.ImportTransactions(ctx, orgID, conn.ID, batch.Transactions)
	if err != nil {
		return err
	}

	ws.logger.Info("batch submitted",
		zap.String("batch", batch.ID.String()),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
	)
	entry.Timestamp = time.Now().UTC()
	entry.Details = fmt.Sprintf("imported %d, skipped %d", res.Imported, res.Skipped)
	fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s: %d imported, %d duplicates skipped\n",
		batch.FileName, res.Imported, res.Skipped)
	return nil
}
