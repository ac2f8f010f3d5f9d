package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/stats"
	"github.com/mrlokans/library/internal/tui"
	"github.com/mrlokans/library/internal/views"
)

func newStatsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := views.NewStatsScreen(stats.NewAggregator(opts.client()))
			screen.Load(cmd.Context())
			if screen.State.Status == views.StatusError {
				return errors.New(screen.State.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSummary(screen.State.Data))
			return nil
		},
	}
}
