package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/entrypoint"
)

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the REST API server with its task queue and scheduler.

Configuration comes from the environment (PORT, DATABASE_DRIVER, DATABASE_PATH,
DATABASE_DSN, LOAN_DURATION_DAYS, LOAN_FINE_PER_DAY, ...).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(opts.cfg, opts.version)
			return nil
		},
	}
}
