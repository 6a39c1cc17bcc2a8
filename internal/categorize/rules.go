// Package categorize assigns accounting categories to bank transactions using
// ordered keyword rules.
package categorize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RulesFile is the rule file path relative to a workspace root.
const RulesFile = "rules/categorization-rules.yaml"

// Rule maps any of its keywords to a category.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// RuleSet holds the ordered rules for each direction. Order is significant:
// the first matching rule wins.
type RuleSet struct {
	Income  []Rule `yaml:"income"`
	Expense []Rule `yaml:"expense"`
}

var errInvalidRule = errors.New("invalid rule")

// Validate checks that every rule has a category and at least one non-empty
// keyword.
func (s RuleSet) Validate() error {
	check := func(list string, rules []Rule) error {
		for i, r := range rules {
			if r.Category == "" {
				return fmt.Errorf("%s rule %d: %w: missing category", list, i+1, errInvalidRule)
			}
			if len(r.Keywords) == 0 {
				return fmt.Errorf("%s rule %d (%s): %w: no keywords", list, i+1, r.Category, errInvalidRule)
			}
			for _, k := range r.Keywords {
				if k == "" {
					return fmt.Errorf("%s rule %d (%s): %w: empty keyword", list, i+1, r.Category, errInvalidRule)
				}
			}
		}
		return nil
	}
	if err := check("income", s.Income); err != nil {
		return err
	}
	return check("expense", s.Expense)
}

// LoadRules reads a rule file. A missing file yields DefaultRules; an empty
// list in the file is replaced by the default list for that direction.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultRules(), nil
		}
		return RuleSet{}, fmt.Errorf("reading rules: %w", err)
	}

	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return RuleSet{}, fmt.Errorf("parsing rules: %w", err)
	}

	defaults := DefaultRules()
	if len(set.Income) == 0 {
		set.Income = defaults.Income
	}
	if len(set.Expense) == 0 {
		set.Expense = defaults.Expense
	}

	if err := set.Validate(); err != nil {
		return RuleSet{}, fmt.Errorf("validating rules: %w", err)
	}
	return set, nil
}

// SaveRules writes a rule file, creating parent directories.
func SaveRules(path string, set RuleSet) error {
	if err := set.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
