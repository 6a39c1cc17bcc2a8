package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// ImportResult reports how many transactions the backend posted and how many
// it skipped as duplicates.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// transactionRow is the wire form of one categorized transaction. Amounts are
// sent as JSON numbers with two decimals.
type transactionRow struct {
	Date        string       `json:"date"`
	Description string       `json:"description"`
	Amount      json.Number  `json:"amount"`
	Balance     *json.Number `json:"balance"`
	Category    string       `json:"category"`
	Type        string       `json:"type"`
	Reference   string       `json:"reference"`
}

type importRequest struct {
	OrganizationID   string           `json:"p_organization_id"`
	BankConnectionID string           `json:"p_bank_connection_id"`
	Transactions     []transactionRow `json:"p_transactions"`
}

func toRows(txns []model.CategorizedTransaction) []transactionRow {
	rows := make([]transactionRow, 0, len(txns))
	for _, t := range txns {
		row := transactionRow{
			Date:        t.Date.Format("2006-01-02"),
			Description: t.Description,
			Amount:      json.Number(t.Amount.String()),
			Category:    t.Category,
			Type:        string(t.Type),
			Reference:   t.Reference,
		}
		if t.Balance.Valid {
			bal := json.Number(t.Balance.Decimal.String())
			row.Balance = &bal
		}
		rows = append(rows, row)
	}
	return rows
}

// ImportTransactions submits a categorized batch in a single RPC. The backend
// de-duplicates by reference and posts the ledger entries. The RPC is sent
// once; a failed batch is resubmitted by the caller.
func (c *Client) ImportTransactions(ctx context.Context, orgID, connectionID string, txns []model.CategorizedTransaction) (ImportResult, error) {
	ctx, span := tracer.Start(ctx, "Backend.ImportTransactions")
	defer span.End()
	span.SetAttributes(
		attribute.String("organization.id", orgID),
		attribute.String("bank_connection.id", connectionID),
		attribute.Int("transactions", len(txns)),
	)

	req := importRequest{
		OrganizationID:   orgID,
		BankConnectionID: connectionID,
		Transactions:     toRows(txns),
	}

	var result ImportResult
	err := c.callOnce(ctx, "import_transactions", func() error {
		body, err := c.do(ctx, http.MethodPost, "rpc/import_bank_transactions", req)
		if err != nil {
			return err
		}
		return decodeJSON(body, &result, "import result")
	})
	if err != nil {
		return ImportResult{}, err
	}

	span.SetAttributes(attribute.Int("imported", result.Imported), attribute.Int("skipped", result.Skipped))
	return result, nil
}
