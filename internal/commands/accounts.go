package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ledgerline-dev/ledgerline/internal/accounts"
	"github.com/ledgerline-dev/ledgerline/internal/model"
)

func newAccountsCommand(opts *globalOptions) *cobra.Command {
	var accountType string

	cmd := &cobra.Command{
		Use:   "accounts [code-or-name]",
		Short: "List the workspace chart of accounts",
		Long: "Show the chart of accounts. A single argument looks an account up by\n" +
			"code or, failing that, by name.",
		Args: cobra.MaximumNArgs(1),
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

			chart, err := accounts.Load(ws.root)
			if err != nil {
				return err
			}

			var list []model.Account
			switch {
			case len(args) == 1:
				acct, ok := chart.Get(args[0])
				if !ok {
					acct, ok = chart.ByName(args[0])
				}
				if !ok {
					return fmt.Errorf("%w: %s", errMissingAccount, args[0])
				}
				list = []model.Account{acct}
			case accountType != "":
				t := model.AccountType(accountType)
				if !t.Valid() {
					return fmt.Errorf("unknown account type %q", accountType)
				}
				list = chart.ByType(t)
			default:
				list = chart.All()
			}

			rows := make([][]string, 0, len(list))
			for _, a := range list {
				rows = append(rows, []string{a.Code, a.Name, string(a.Type), a.TaxLine})
			}
			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Code", "Name", "Type", "Tax line").
				Rows(rows...)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
			return err
		},
	}

	cmd.Flags().StringVarP(&accountType, "type", "t", "", "only accounts of this type (asset, liability, equity, revenue, expense)")

	return cmd
}
