package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

const barWidth = 30

func newStatsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Chart data for the filtered records",
	}

	cmd.AddCommand(
		newSeriesCmd(rt),
		newCategoriesCmd(rt),
		newSummaryCmd(rt),
	)

	return cmd
}

func chartType(s string) (record.Type, error) {
	t := record.Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("--of must be expense or income, got %q", s)
	}

	return t, nil
}

func newSeriesCmd(rt *runtime) *cobra.Command {
	var (
		flags  filterFlags
		of     string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Totals per time bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := chartType(of)
			if err != nil {
				return err
			}

			st, err := flags.state(cmd, rt)
			if err != nil {
				return err
			}

			series := rt.app.Stats.Series(cmd.Context(), st, t)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), series)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s by %s\n", t, series.Granularity)

			peak := 0.0
			if series.PeakIndex >= 0 {
				peak = series.Buckets[series.PeakIndex].Total
			}

			for _, b := range series.Buckets {
				fmt.Fprintf(out, "%-16s %s %10s\n", b.Label, bar(b.Total, peak), money(b.Total))
			}

			fmt.Fprintf(out, "total %s, average %s\n", money(series.Total), money(series.PeriodAverage))

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&of, "of", string(record.TypeExpense), "expense or income")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func newCategoriesCmd(rt *runtime) *cobra.Command {
	var (
		flags  filterFlags
		of     string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := chartType(of)
			if err != nil {
				return err
			}

			st, err := flags.state(cmd, rt)
			if err != nil {
				return err
			}

			segments := rt.app.Stats.Categories(cmd.Context(), st, t)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), segments)
			}

			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("CATEGORY", "AMOUNT", "SHARE")

			for _, s := range segments {
				tbl.Row(s.Label, money(s.Value), fmt.Sprintf("%.1f%%", s.Share*100))
			}

			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&of, "of", string(record.TypeExpense), "expense or income")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func newSummaryCmd(rt *runtime) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Income, expense and net totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := flags.state(cmd, rt)
			if err != nil {
				return err
			}

			s := rt.app.Stats.Summary(cmd.Context(), st)
			fmt.Fprintf(cmd.OutOrStdout(), "income  %12s\nexpense %12s\nnet     %12s\nrecords %12d\n",
				money(s.Income), money(s.Expense), money(s.Net), s.Count)

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func bar(v, peak float64) string {
	if peak <= 0 {
		return strings.Repeat(" ", barWidth)
	}

	n := int(v / peak * barWidth)

	return strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n)
}
