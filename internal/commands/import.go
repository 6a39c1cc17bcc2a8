package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledgerline-dev/ledgerline/internal/bankformat"
	"github.com/ledgerline-dev/ledgerline/internal/categorize"
	"github.com/ledgerline-dev/ledgerline/internal/importer"
	"github.com/ledgerline-dev/ledgerline/internal/importlog"
	"github.com/ledgerline-dev/ledgerline/internal/review"
)

type importOptions struct {
	bank   string
	submit bool
	rows   int
}

// statement is one file to import. dropped is set for files found in the
// import/ drop folder, which are moved to import/processed/ once queued.
type statement struct {
	path    string
	dropped bool
}

func newImportCommand(opts *globalOptions) *cobra.Command {
	var imp importOptions

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank statements into the review queue",
		Long: "Parse and categorize bank statement CSV files. With no files, every\n" +
			"statement in the workspace import/ folder is processed.",
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
			return runImport(cmd, ws, imp, args)
		},
	}

	cmd.Flags().StringVarP(&imp.bank, "bank", "b", "", "bank format id (see `ledgerline banks`); defaults to import.default_bank")
	cmd.Flags().BoolVar(&imp.submit, "submit", false, "submit each batch to the backend after queueing")
	cmd.Flags().IntVar(&imp.rows, "rows", 0, "rows to show in the review table (default import.review_rows)")

	return cmd
}

func runImport(cmd *cobra.Command, ws *workspace, imp importOptions, args []string) error {
	out := cmd.OutOrStdout()

	format := resolveBank(out, ws, imp.bank)

	rules, err := categorize.LoadRules(ws.path(categorize.RulesFile))
	if err != nil {
		return err
	}
	session := importer.NewSession(format, categorize.New(rules), ws.logger, ws.metrics)

	var statements []statement
	for _, a := range args {
		statements = append(statements, statement{path: a})
	}
	if len(statements) == 0 {
		files, err := importer.Scan(ws.root)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintln(out, "No statements in import/.")
			return nil
		}
		for _, f := range files {
			statements = append(statements, statement{path: f.Path, dropped: true})
		}
	}

	rows := imp.rows
	if rows <= 0 {
		rows = ws.cfg.Import.ReviewRows
	}

	var errs []error
	for _, st := range statements {
		if err := cmd.Context().Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := importStatement(cmd, ws, session, st, rows, imp.submit); err != nil {
			fmt.Fprintf(out, "%s: %v\n", filepath.Base(st.path), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// resolveBank maps the requested bank id to a format. Unknown ids fall back to
// auto-detection with a hint.
func resolveBank(out io.Writer, ws *workspace, id string) bankformat.BankFormat {
	if id == "" {
		id = ws.cfg.Import.DefaultBank
	}
	if id == "" || bankformat.Known(id) {
		return bankformat.Lookup(id)
	}

	hint := bankformat.Suggest(id)
	ws.logger.Warn("unknown bank, using auto-detection",
		zap.String("bank", id),
		zap.String("suggestion", hint),
	)
	if hint != "" {
		fmt.Fprintf(out, "Unknown bank %q (did you mean %q?); using auto-detection.\n", id, hint)
	} else {
		fmt.Fprintf(out, "Unknown bank %q; using auto-detection.\n", id)
	}
	return bankformat.Generic
}

func importStatement(cmd *cobra.Command, ws *workspace, session *importer.Session, st statement, rows int, submit bool) error {
	out := cmd.OutOrStdout()

	batch, err := session.ProcessFile(cmd.Context(), st.path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s (%s)\n", batch.FileName, session.Format().Name)
	if err := review.Render(out, batch, rows); err != nil {
		return fmt.Errorf("rendering review: %w", err)
	}

	path, err := review.SaveBatch(ws.path(review.QueueDir), batch)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	entry := importlog.Entry{
		Timestamp:    now,
		Action:       importlog.ActionProcessed,
		BatchID:      batch.ID.String(),
		Bank:         batch.Bank,
		File:         batch.FileName,
		Transactions: len(batch.Transactions),
		Details:      fmt.Sprintf("%d skipped, %d dropped", batch.Skipped, batch.Dropped),
	}
	queued := entry
	queued.Action = importlog.ActionQueued
	queued.Details = filepath.Base(path)
	if err := importlog.Append(ws.root, entry, queued); err != nil {
		return err
	}

	if st.dropped {
		if err := importer.MarkProcessed(ws.root, filepath.Base(st.path)); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Queued %d transactions in %s\n", len(batch.Transactions), path)

	if submit {
		return submitBatch(cmd, ws, path, batch)
	}
	return nil
}
