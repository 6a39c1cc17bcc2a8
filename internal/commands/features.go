package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ledgerline-dev/ledgerline/internal/features"
)

func newFeaturesCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "features [module]",
		Short: "Show the modules available to this business",
		Args:  cobra.MaximumNArgs(1),
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

			industry := features.Industry(ws.cfg.Organization.Industry)
			gate := ws.featureGate()
			if len(args) == 1 {
				return showModule(cmd, gate, industry, features.Module(args[0]))
			}
			statuses, err := gate.Visible(cmd.Context(), industry)
			if err != nil {
				return fmt.Errorf("checking features: %w", err)
			}

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				status := "available"
				if !s.Allowed {
					status = "upgrade required"
				}
				rows = append(rows, []string{string(s.Module), status})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Industry: %s\n", industry)
			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Module", "Status").
				Rows(rows...)
			fmt.Fprintln(out, tbl.String())
			if gate.Offline() {
				fmt.Fprintln(out, "Offline: plan limits not checked.")
			}
			return nil
		},
	}
}

// showModule reports a single module's status. Modules hidden for the
// industry are not checked against the plan.
func showModule(cmd *cobra.Command, gate *features.Gate, industry features.Industry, module features.Module) error {
	out := cmd.OutOrStdout()
	if !features.IsVisible(industry, module) {
		fmt.Fprintf(out, "%s: not offered for %s\n", module, industry)
		return nil
	}
	allowed, err := gate.Allowed(cmd.Context(), module)
	if err != nil {
		return fmt.Errorf("checking features: %w", err)
	}
	status := "available"
	if !allowed {
		status = "upgrade required"
	}
	fmt.Fprintf(out, "%s: %s\n", module, status)
	return nil
}
