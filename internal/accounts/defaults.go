package accounts

import (
	"slices"
	"strings"

	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// DefaultAccountCode is the ledger account every imported bank transaction is
// posted against.
const DefaultAccountCode = "1000"

// Entity types accepted by DefaultChart.
const (
	EntitySoleProprietor = "sole_proprietor"
	EntityPartnership    = "partnership"
	EntityCompany        = "pty_ltd"
)

// EntityTypes lists the supported entity types.
func EntityTypes() []string {
	return []string{EntitySoleProprietor, EntityPartnership, EntityCompany}
}

// DefaultChart returns the default chart of accounts for an entity type and
// industry, ordered by code. Unknown entity types get the company chart.
func DefaultChart(entityType, industry string) []model.Account {
	chart := baseChart()
	switch entityType {
	case EntitySoleProprietor, EntityPartnership:
		chart = append(chart, ownerEquity()...)
	default:
		chart = append(chart, companyEquity()...)
	}
	chart = append(chart, industryAccounts(industry)...)

	slices.SortFunc(chart, func(a, b model.Account) int {
		return strings.Compare(a.Code, b.Code)
	})
	return chart
}

func baseChart() []model.Account {
	return []model.Account{
		{Code: DefaultAccountCode, Name: "Bank", Type: model.AccountTypeAsset, Description: "Business current account"},
		{Code: "1010", Name: "Petty Cash", Type: model.AccountTypeAsset},
		{Code: "1100", Name: "Accounts Receivable", Type: model.AccountTypeAsset},
		{Code: "1200", Name: "VAT Input", Type: model.AccountTypeAsset, TaxLine: "vat_input"},
		{Code: "2000", Name: "Accounts Payable", Type: model.AccountTypeLiability},
		{Code: "2100", Name: "VAT Output", Type: model.AccountTypeLiability, TaxLine: "vat_output"},
		{Code: "2200", Name: "Loans Payable", Type: model.AccountTypeLiability, Description: "Loan and finance agreements"},
		{Code: "4000", Name: "Sales Revenue", Type: model.AccountTypeRevenue, TaxLine: "vat_standard"},
		{Code: "4100", Name: "Interest Income", Type: model.AccountTypeRevenue, TaxLine: "vat_exempt"},
		{Code: "4200", Name: "Other Income", Type: model.AccountTypeRevenue},
		{Code: "5000", Name: "Bank Charges", Type: model.AccountTypeExpense, TaxLine: "vat_exempt"},
		{Code: "5100", Name: "Salaries & Wages", Type: model.AccountTypeExpense, Description: "Staff salaries, wages and PAYE"},
		{Code: "5200", Name: "Rent", Type: model.AccountTypeExpense, TaxLine: "vat_standard"},
		{Code: "5300", Name: "Utilities", Type: model.AccountTypeExpense, TaxLine: "vat_standard", Description: "Electricity, water and municipal rates"},
		{Code: "5400", Name: "Telephone & Internet", Type: model.AccountTypeExpense, TaxLine: "vat_standard"},
		{Code: "5500", Name: "Fuel & Transport", Type: model.AccountTypeExpense, TaxLine: "vat_zero"},
		{Code: "5600", Name: "Insurance", Type: model.AccountTypeExpense, TaxLine: "vat_exempt"},
		{Code: "5700", Name: "Software & Subscriptions", Type: model.AccountTypeExpense, TaxLine: "vat_standard"},
		{Code: "5800", Name: "Advertising & Marketing", Type: model.AccountTypeExpense, TaxLine: "vat_standard"},
		{Code: "5900", Name: "Office Supplies", Type: model.AccountTypeExpense, TaxLine: "vat_standard"},
		{Code: "5950", Name: "Meals & Entertainment", Type: model.AccountTypeExpense, Description: "Input VAT not claimable"},
	}
}

func ownerEquity() []model.Account {
	return []model.Account{
		{Code: "3000", Name: "Owner's Capital", Type: model.AccountTypeEquity},
		{Code: "3100", Name: "Owner's Drawings", Type: model.AccountTypeEquity, ParentCode: "3000"},
	}
}

func companyEquity() []model.Account {
	return []model.Account{
		{Code: "3000", Name: "Share Capital", Type: model.AccountTypeEquity},
		{Code: "3200", Name: "Retained Earnings", Type: model.AccountTypeEquity},
	}
}

func industryAccounts(industry string) []model.Account {
	costOfSales := model.Account{Code: "6000", Name: "Cost of Sales", Type: model.AccountTypeExpense, TaxLine: "vat_standard"}

	switch industry {
	case "retail", "manufacturing", "hospitality":
		return []model.Account{
			{Code: "1300", Name: "Inventory", Type: model.AccountTypeAsset, Description: "Stock on hand"},
			costOfSales,
		}
	case "construction":
		return []model.Account{
			{Code: "1400", Name: "Work in Progress", Type: model.AccountTypeAsset, Description: "Costs on uncompleted contracts"},
			costOfSales,
			{Code: "6100", Name: "Subcontractors", Type: model.AccountTypeExpense, ParentCode: "6000", TaxLine: "vat_standard"},
		}
	}
	return nil
}
