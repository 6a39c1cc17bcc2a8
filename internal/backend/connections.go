package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ledgerline-dev/ledgerline/internal/bankformat"
	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// BankConnection links an organization's bank to its ledger account.
type BankConnection struct {
	ID              string `json:"id,omitempty"`
	OrganizationID  string `json:"organization_id"`
	BankCode        string `json:"bank_code"`
	BankName        string `json:"bank_name"`
	LedgerAccountID string `json:"ledger_account_id"`
}

type ledgerAccount struct {
	ID             string `json:"id,omitempty"`
	OrganizationID string `json:"organization_id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Type           string `json:"type"`
}

// GetBankConnection looks up the connection for (orgID, bank). Returns
// *ErrNotFound when none exists.
func (c *Client) GetBankConnection(ctx context.Context, orgID, bank string) (*BankConnection, error) {
	ctx, span := tracer.Start(ctx, "Backend.GetBankConnection")
	defer span.End()
	span.SetAttributes(attribute.String("organization.id", orgID), attribute.String("bank", bank))

	var conns []BankConnection
	err := c.call(ctx, "get_bank_connection", func() error {
		path := fmt.Sprintf("bank_connections?organization_id=eq.%s&bank_code=eq.%s&limit=1",
			url.QueryEscape(orgID), url.QueryEscape(bank))
		body, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		return decodeJSON(body, &conns, "bank connections")
	})
	if err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return nil, &ErrNotFound{Resource: "bank connection", ID: orgID + "/" + bank}
	}
	return &conns[0], nil
}

// EnsureBankConnection returns the existing connection for the bank or
// creates a ledger account from the chart's ledger entry and a connection
// pointing at it.
func (c *Client) EnsureBankConnection(ctx context.Context, orgID string, bank bankformat.BankFormat, ledger model.Account) (*BankConnection, error) {
	ctx, span := tracer.Start(ctx, "Backend.EnsureBankConnection")
	defer span.End()
	span.SetAttributes(attribute.String("organization.id", orgID), attribute.String("bank", bank.ID))

	conn, err := c.GetBankConnection(ctx, orgID, bank.ID)
	if err == nil {
		return conn, nil
	}
	var nf *ErrNotFound
	if !errors.As(err, &nf) {
		return nil, err
	}

	c.logger.Info("creating bank connection",
		zap.String("organization_id", orgID),
		zap.String("bank", bank.ID),
	)

	var created []ledgerAccount
	err = c.callOnce(ctx, "create_ledger_account", func() error {
		body, err := c.do(ctx, http.MethodPost, "ledger_accounts", ledgerAccount{
			OrganizationID: orgID,
			Code:           ledger.Code,
			Name:           fmt.Sprintf("%s - %s", ledger.Name, bank.Name),
			Type:           string(ledger.Type),
		})
		if err != nil {
			return err
		}
		return decodeJSON(body, &created, "ledger account")
	})
	if err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, &ErrExternalService{Service: "supabase/create_ledger_account", Err: errors.New("no row returned")}
	}

	var conns []BankConnection
	err = c.callOnce(ctx, "create_bank_connection", func() error {
		body, err := c.do(ctx, http.MethodPost, "bank_connections", BankConnection{
			OrganizationID:  orgID,
			BankCode:        bank.ID,
			BankName:        bank.Name,
			LedgerAccountID: created[0].ID,
		})
		if err != nil {
			return err
		}
		return decodeJSON(body, &conns, "bank connection")
	})
	if err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return nil, &ErrExternalService{Service: "supabase/create_bank_connection", Err: errors.New("no row returned")}
	}
	return &conns[0], nil
}
