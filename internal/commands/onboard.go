package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerline-dev/ledgerline/internal/accounts"
	"github.com/ledgerline-dev/ledgerline/internal/backend"
	"github.com/ledgerline-dev/ledgerline/internal/config"
	"github.com/ledgerline-dev/ledgerline/internal/onboarding"
)

func newOnboardCommand(opts *globalOptions) *cobra.Command {
	var form onboarding.Form

	cmd := &cobra.Command{
		Use:   "onboard [directory]",
		Short: "Set up a new ledgerline workspace for a business",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.workspace
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runOnboard(cmd, absDir, form)
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&form.Industry, "industry", "other", "industry")
	cmd.Flags().StringVar(&form.EntityType, "entity-type", accounts.EntitySoleProprietor, "entity type ("+fmt.Sprint(accounts.EntityTypes())+")")
	cmd.Flags().BoolVar(&form.VATRegistered, "vat-registered", false, "business is registered for VAT")
	cmd.Flags().StringVar(&form.YearEnd, "year-end", "02-28", "financial year end (MM-DD)")

	return cmd
}

func runOnboard(cmd *cobra.Command, dir string, form onboarding.Form) error {
	cfg, err := onboarding.CreateWorkspace(dir, form)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created ledgerline workspace for %s at %s\n", cfg.Organization.Name, dir)

	// Pick up backend credentials from <dir>/.env and the environment.
	if err := config.LoadDotEnv(dir); err != nil {
		return err
	}
	config.ApplyEnv(cfg)
	if !cfg.Backend.Enabled() {
		fmt.Fprintln(out, "No backend configured; working offline.")
		return nil
	}
	if cfg.Organization.ID != "" {
		return config.SaveOrganizationID(dir, cfg.Organization.ID)
	}

	ws, err := openWorkspace(&globalOptions{workspace: dir})
	if err != nil {
		return err
	}
	defer ws.close()

	id, err := registerOrganization(cmd.Context(), ws.backendClient(), cfg)
	if err != nil {
		return fmt.Errorf("registering organization (workspace kept, rerun with %s set): %w", config.EnvOrgID, err)
	}
	if err := config.SaveOrganizationID(dir, id); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(out, "Registered organization %s\n", id)
	return nil
}

func registerOrganization(ctx context.Context, client *backend.Client, cfg *config.Config) (string, error) {
	org, err := client.CreateOrganization(ctx, backend.Organization{
		Name:          cfg.Organization.Name,
		Industry:      cfg.Organization.Industry,
		EntityType:    cfg.Organization.EntityType,
		VATRegistered: cfg.Organization.VATRegistered,
		YearEnd:       cfg.Organization.YearEnd,
	})
	if err != nil {
		return "", err
	}
	return org.ID, nil
}
