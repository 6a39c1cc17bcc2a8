package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ledgerline-dev/ledgerline/internal/bankformat"
)

func newBanksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List supported bank statement formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := make([][]string, 0, len(bankformat.Formats()))
			for _, f := range bankformat.Formats() {
				layout := "auto-detected"
				if !f.IsGeneric() {
					layout = strings.Join(f.Columns, ", ")
				}
				rows = append(rows, []string{f.ID, f.Name, layout})
			}

			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "Bank", "Columns").
				Rows(rows...)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
			return err
		},
	}
}
