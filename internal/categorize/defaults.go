package categorize

// DefaultRules returns the built-in rule catalog. Each call returns a fresh
// copy.
func DefaultRules() RuleSet {
	return RuleSet{
		Income: []Rule{
			{Category: "Salary & Wages", Keywords: []string{"salary", "wages", "payroll"}},
			{Category: "Sales Revenue", Keywords: []string{"payment received", "invoice", "sale", "yoco", "snapscan", "zapper"}},
			{Category: "Interest Income", Keywords: []string{"interest", "int cr"}},
			{Category: "Refunds", Keywords: []string{"refund", "reversal", "cashback"}},
			{Category: "Transfers In", Keywords: []string{"transfer from", "trf from", "inward transfer"}},
			{Category: "Other Income", Keywords: []string{"deposit", "credit"}},
		},
		Expense: []Rule{
			{Category: "Bank Charges", Keywords: []string{"bank charge", "service fee", "fees", "admin charge", "monthly acc", "cash handling"}},
			{Category: "Salaries & Wages", Keywords: []string{"salary", "wages", "payroll"}},
			{Category: "Rent", Keywords: []string{"rental", "rent payment", "lease"}},
			{Category: "Utilities", Keywords: []string{"electricity", "eskom", "water", "municipal", "prepaid elec"}},
			{Category: "Telephone & Internet", Keywords: []string{"vodacom", "mtn", "telkom", "cell c", "airtime", "fibre", "internet"}},
			{Category: "Fuel & Transport", Keywords: []string{"engen", "shell", "sasol", "bp ", "caltex", "fuel", "petrol", "uber", "toll"}},
			{Category: "Insurance", Keywords: []string{"insurance", "santam", "outsurance", "discovery", "old mutual"}},
			{Category: "Software & Subscriptions", Keywords: []string{"microsoft", "google workspace", "adobe", "xero", "subscription", "aws", "github"}},
			{Category: "Advertising & Marketing", Keywords: []string{"facebook", "meta ads", "google ads", "advertising", "marketing"}},
			{Category: "Office Supplies", Keywords: []string{"stationery", "takealot", "office", "makro"}},
			{Category: "Meals & Entertainment", Keywords: []string{"restaurant", "coffee", "mcdonalds", "kfc", "nandos", "woolworths food"}},
			{Category: "Tax", Keywords: []string{"sars", "paye", "vat201", "income tax", "provisional tax"}},
			{Category: "Loan Repayments", Keywords: []string{"loan", "bond repayment", "finance"}},
			{Category: "Transfers Out", Keywords: []string{"transfer to", "trf to", "outward transfer"}},
		},
	}
}
