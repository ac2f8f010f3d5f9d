package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/client"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/tui"
	"github.com/mrlokans/library/internal/views"
)

// ConfirmFunc asks the user to confirm an intent.
type ConfirmFunc func(intent views.Intent) (bool, error)

type options struct {
	cfg     *config.Config
	version string

	apiURL  string
	timeout time.Duration

	confirm ConfirmFunc
}

func (o *options) client() *client.Client {
	return client.New(o.apiURL, o.timeout)
}

// NewRootCommand builds the command tree. Running it without a subcommand starts the server.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	opts := &options{
		cfg:     cfg,
		version: version,
		confirm: func(intent views.Intent) (bool, error) { return tui.Confirm(intent) },
	}
	return newRootCommand(opts)
}

func newRootCommand(opts *options) *cobra.Command {
	serve := newServeCommand(opts)

	root := &cobra.Command{
		Use:   "library",
		Short: "University library manager",
		Long: `Manage students, books and loans of a university library.

Without a subcommand the REST API server is started. The other commands
talk to a running server through its API.`,
		Version:       opts.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", opts.cfg.API.URL, "Base URL of the library API")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", opts.cfg.API.Timeout, "Request timeout")

	root.AddCommand(
		serve,
		newStudentsCommand(opts),
		newBooksCommand(opts),
		newLoansCommand(opts),
		newStatsCommand(opts),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute(cfg *config.Config, version string) {
	if err := NewRootCommand(cfg, version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printAlerts(w io.Writer, alerts []views.Alert) {
	if len(alerts) == 0 {
		return
	}
	fmt.Fprintln(w, tui.RenderAlerts(alerts))
}
