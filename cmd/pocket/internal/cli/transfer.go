package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

func newImportCmd(rt *runtime) *cobra.Command {
	var (
		bank      string
		accountID string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a bank CSV export",
		Long: "Import a bank CSV export. When rows look like records already stored\n" +
			"(same day, amount and payee) nothing is written unless --force keeps the new rows.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := importer.ParseBank(bank)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening export: %w", err)
			}
			defer f.Close()

			res, err := rt.app.Import.Import(cmd.Context(), importer.Params{
				Bank:      b,
				AccountID: accountID,
				Reader:    f,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(res.Conflicts) == 0 {
				fmt.Fprintf(out, "imported %d records\n", len(res.Imported))
				return nil
			}

			for _, c := range res.Conflicts {
				fmt.Fprintf(out, "duplicate: %s %s %s\n",
					c.Incoming.Date.Format(time.DateOnly), c.Incoming.Payee, money(c.Incoming.Amount))
			}

			if !force {
				return fmt.Errorf("%d of %d rows duplicate stored records; rerun with --force to import the other %d",
					len(res.Conflicts), len(res.Conflicts)+len(res.New), len(res.New))
			}

			added, err := rt.app.Records.AppendBatch(cmd.Context(), res.New)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "imported %d records, skipped %d duplicates\n", len(added), len(res.Conflicts))

			return nil
		},
	}

	cmd.Flags().StringVar(&bank, "bank", string(importer.BankCGD), "export format: cgd or pocket")
	cmd.Flags().StringVar(&accountID, "account", "", "account the rows belong to")
	cmd.Flags().BoolVar(&force, "force", false, "import the non-duplicate rows when some rows are duplicates")

	return cmd
}

func newExportCmd(rt *runtime) *cobra.Command {
	var (
		flags     filterFlags
		output    string
		delimiter string
		summary   bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered records as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := flags.state(cmd, rt)
			if err != nil {
				return err
			}

			if summary {
				fmt.Fprint(cmd.OutOrStdout(), rt.app.Export.Summary(rt.app.Stats.Records(cmd.Context(), st)))
				return nil
			}

			delim := []rune(delimiter)
			if len(delim) != 1 {
				return errors.New("--delimiter must be a single character")
			}

			svc := rt.app.Export.WithDelimiter(delim[0])

			if output == "" || output == "-" {
				_, err := svc.WriteCSV(cmd.Context(), cmd.OutOrStdout(), st)
				return err
			}

			n, err := svc.ExportFile(cmd.Context(), st, output)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", n, output)

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "field separator")
	cmd.Flags().BoolVar(&summary, "summary", false, "print a one-line-per-record summary instead of CSV")

	return cmd
}

func newSeedCmd(rt *runtime) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample dataset into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			existing := rt.app.Records.GetAll(cmd.Context())
			if len(existing) > 0 && !force {
				return fmt.Errorf("store already holds %d records; use --force to replace them", len(existing))
			}

			seed := record.Seed()
			if err := rt.app.Records.SaveAll(cmd.Context(), seed); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records\n", len(seed))

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace existing records")

	return cmd
}
