package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pocket/internal/account"
)

func newRecordsCmd(rt *runtime) *cobra.Command {
	var (
		flags  filterFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List records matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := flags.state(cmd, rt)
			if err != nil {
				return err
			}

			records := rt.app.Stats.Records(cmd.Context(), st)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}

			engine := rt.app.Stats.Engine()

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("DATE", "TITLE", "CATEGORY", "ACCOUNT", "AMOUNT", "LABELS")

			for _, r := range records {
				t.Row(
					r.Date.Format(time.DateOnly),
					engine.Title(r),
					engine.Subtitle(r),
					account.Name(r.AccountID),
					money(r.Amount),
					strings.Join(r.Labels, ", "),
				)
			}

			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			fmt.Fprintf(cmd.OutOrStdout(), "%d records\n", len(records))

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}
