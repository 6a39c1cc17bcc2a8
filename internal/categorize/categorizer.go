package categorize

import (
	"strings"

	"github.com/ledgerline-dev/ledgerline/internal/accounts"
	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// Uncategorized is assigned when no rule matches.
const Uncategorized = "Uncategorized"

// Categorizer matches transactions against a RuleSet. It holds no mutable
// state and is safe for concurrent use.
type Categorizer struct {
	income  []compiledRule
	expense []compiledRule
}

type compiledRule struct {
	category string
	keywords []string // lower-cased
}

// New creates a Categorizer. Keywords are lower-cased once here.
func New(set RuleSet) *Categorizer {
	return &Categorizer{
		income:  compile(set.Income),
		expense: compile(set.Expense),
	}
}

func compile(rules []Rule) []compiledRule {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{category: r.Category}
		for _, k := range r.Keywords {
			cr.keywords = append(cr.keywords, strings.ToLower(k))
		}
		out = append(out, cr)
	}
	return out
}

// Categorize annotates t with a category, direction and ledger account code.
// Direction comes from the amount sign; the first rule in that direction's
// list with a keyword contained in the description wins.
func (c *Categorizer) Categorize(t model.Transaction) model.CategorizedTransaction {
	dir := model.DirectionOf(t.Amount)
	rules := c.expense
	if dir == model.DirectionIncome {
		rules = c.income
	}

	return model.CategorizedTransaction{
		Transaction: t,
		Category:    match(rules, strings.ToLower(t.Description)),
		Type:        dir,
		AccountCode: accounts.DefaultAccountCode,
	}
}

func match(rules []compiledRule, desc string) string {
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(desc, k) {
				return r.category
			}
		}
	}
	return Uncategorized
}
