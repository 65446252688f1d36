// Package cli implements the pocket command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pocket/internal/app"
)

// Opener builds the application the commands run against.
type Opener func() (*app.App, error)

// Open loads the environment configuration and opens the configured storage.
// Logs go to stderr so command output stays pipeable.
func Open() (*app.App, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}

	app.SetupLogger(os.Stderr, cfg.Log.Level)

	return app.New(cfg)
}

type runtime struct {
	open Opener
	app  *app.App
	now  func() time.Time
}

func NewRootCmd(open Opener) *cobra.Command {
	rt := &runtime{open: open, now: time.Now}

	cmd := &cobra.Command{
		Use:           "pocket",
		Short:         "Query, chart, import and export personal finance records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rt.open()
			if err != nil {
				return fmt.Errorf("opening pocket: %w", err)
			}

			rt.app = a

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.app == nil {
				return nil
			}

			return rt.app.Close()
		},
	}

	cmd.AddCommand(
		newRecordsCmd(rt),
		newStatsCmd(rt),
		newImportCmd(rt),
		newExportCmd(rt),
		newSeedCmd(rt),
	)

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
