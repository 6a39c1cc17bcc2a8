// Package onboarding validates the onboarding form and lays out a new
// ledgerline workspace.
package onboarding

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ledgerline-dev/ledgerline/internal/accounts"
	"github.com/ledgerline-dev/ledgerline/internal/categorize"
	"github.com/ledgerline-dev/ledgerline/internal/config"
	"github.com/ledgerline-dev/ledgerline/internal/features"
	"github.com/ledgerline-dev/ledgerline/internal/review"
)

// ErrInvalidForm is wrapped by every validation failure.
var ErrInvalidForm = errors.New("invalid onboarding form")

// ErrWorkspaceExists is returned when the directory already holds a
// ledgerline.yaml.
var ErrWorkspaceExists = errors.New("workspace already exists")

const maxNameLength = 120

var strictPolicy = bluemonday.StrictPolicy()

// Form is what the user supplies when onboarding a business.
type Form struct {
	Name          string
	Industry      string
	EntityType    string
	VATRegistered bool
	YearEnd       string // MM-DD
}

// Validate returns a cleaned copy of the form. Markup is stripped from the
// name, and an empty industry becomes "other".
func (f Form) Validate() (Form, error) {
	out := f
	out.Name = sanitizeName(f.Name)
	if out.Name == "" {
		return Form{}, fmt.Errorf("%w: name is required", ErrInvalidForm)
	}
	if len([]rune(out.Name)) > maxNameLength {
		return Form{}, fmt.Errorf("%w: name longer than %d characters", ErrInvalidForm, maxNameLength)
	}

	out.Industry = strings.ToLower(strings.TrimSpace(f.Industry))
	if out.Industry == "" {
		out.Industry = string(features.IndustryOther)
	}
	if !features.KnownIndustry(out.Industry) {
		return Form{}, fmt.Errorf("%w: unknown industry %q (one of %s)", ErrInvalidForm, f.Industry, joinIndustries())
	}

	out.EntityType = strings.ToLower(strings.TrimSpace(f.EntityType))
	if !slices.Contains(accounts.EntityTypes(), out.EntityType) {
		return Form{}, fmt.Errorf("%w: unknown entity type %q (one of %s)", ErrInvalidForm, f.EntityType, strings.Join(accounts.EntityTypes(), ", "))
	}

	out.YearEnd = strings.TrimSpace(f.YearEnd)
	if _, err := time.Parse("01-02", out.YearEnd); err != nil {
		return Form{}, fmt.Errorf("%w: year end %q is not MM-DD", ErrInvalidForm, f.YearEnd)
	}
	return out, nil
}

func sanitizeName(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func joinIndustries() string {
	names := make([]string, 0, len(features.Industries()))
	for _, ind := range features.Industries() {
		names = append(names, string(ind))
	}
	return strings.Join(names, ", ")
}

// Directories created in every workspace.
var workspaceDirs = []string{
	"accounts",
	"rules",
	"logs",
	"import",
	filepath.Join("import", "processed"),
	review.QueueDir,
}

const gitignore = "queue/\n.env\n*.prom\n"

// CreateWorkspace validates form and writes the workspace layout into dir:
// ledgerline.yaml, the default chart of accounts and the default rule file.
func CreateWorkspace(dir string, form Form) (*config.Config, error) {
	form, err := form.Validate()
	if err != nil {
		return nil, err
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return nil, fmt.Errorf("%s: %w", dir, ErrWorkspaceExists)
	}

	for _, d := range workspaceDirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(form.Name, form.EntityType, form.Industry)
	cfg.Organization.VATRegistered = form.VATRegistered
	cfg.Organization.YearEnd = form.YearEnd
	if err := config.Save(cfgPath, cfg); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	svc := accounts.NewService(accounts.DefaultChart(form.EntityType, form.Industry))
	if err := svc.Save(dir); err != nil {
		return nil, fmt.Errorf("writing chart of accounts: %w", err)
	}

	if err := categorize.SaveRules(filepath.Join(dir, categorize.RulesFile), categorize.DefaultRules()); err != nil {
		return nil, fmt.Errorf("writing rules: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return nil, fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return nil, fmt.Errorf("writing .gitkeep: %w", err)
	}

	return cfg, nil
}
