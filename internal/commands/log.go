package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ledgerline-dev/ledgerline/internal/importlog"
)

func newLogCommand(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent import and submission history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := ws.close(); err == nil {
					err = cerr
				}
			}()

			entries, err := importlog.Read(ws.root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No imports yet.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.Timestamp.Local().Format("2006-01-02 15:04"),
					e.Action,
					e.File,
					strconv.Itoa(e.Transactions),
					e.Details,
				})
			}
			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Time", "Action", "File", "Txns", "Details").
				Rows(rows...)
			_, err = fmt.Fprintln(out, tbl.String())
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "entries to show, newest last (0 for all)")

	return cmd
}
