package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/tui"
	"github.com/mrlokans/library/internal/views"
)

func newLoansCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "loans",
		Aliases: []string{"emprunts"},
		Short:   "List, create, return and delete loans",
	}
	cmd.AddCommand(
		newLoansListCommand(opts),
		newLoansCreateCommand(opts),
		newLoanActionCommand(opts, "return <id>", "Return a borrowed book", views.IntentReturn),
		newLoanActionCommand(opts, "delete <id>", "Delete a loan record without touching copies", views.IntentDelete),
	)
	return cmd
}

func newLoansListCommand(opts *options) *cobra.Command {
	var filter, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List loans",
		Long: `List loans by status, optionally narrowed by a search term.

Filters: all (tous), outstanding (en_cours), overdue (en_retard).
The search matches student surname, first name and book title.

Examples:
  library loans list
  library loans list --filter overdue
  library loans list --filter outstanding --search dupont`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := library.ParseLoanFilter(filter)
			if err != nil {
				return err
			}
			screen := views.NewLoansScreen(opts.client())
			if err := screen.SetFilter(cmd.Context(), f); err != nil {
				return err
			}
			if screen.Loans.Status == views.StatusError {
				return errors.New(screen.Loans.Message)
			}
			if err := screen.SetSearch(search); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderLoans(screen.Visible()))
			return nil
		},
	}
	list.Flags().StringVarP(&filter, "filter", "f", "all", "Status filter: all, outstanding or overdue")
	list.Flags().StringVarP(&search, "search", "s", "", "Match student name or book title")
	return list
}

func newLoansCreateCommand(opts *options) *cobra.Command {
	var (
		studentID uint
		isbn      string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Lend a book to a student",
		Long: `Lend a book to a student. The book must have a copy left.

Examples:
  library loans create --student 1 --isbn 978-2070360024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := views.NewLoansScreen(opts.client())
			if err := screen.OpenForm(cmd.Context()); err != nil {
				return err
			}
			screen.Form.Input = views.LoanForm{EtudiantID: studentID, ISBN: isbn}
			if err := screen.Submit(cmd.Context()); err != nil {
				return errors.New(screen.Form.Error.Message)
			}
			printAlerts(cmd.OutOrStdout(), screen.ActiveAlerts())
			return nil
		},
	}
	create.Flags().UintVar(&studentID, "student", 0, "Student id")
	create.Flags().StringVar(&isbn, "isbn", "", "Book ISBN")
	return create
}

func newLoanActionCommand(opts *options, use, short string, kind views.IntentKind) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api := opts.client()
			loan, err := api.GetLoan(cmd.Context(), id)
			if err != nil {
				return err
			}

			screen := views.NewLoansScreen(api)
			if kind == views.IntentReturn {
				err = screen.RequestReturn(*loan)
			} else {
				err = screen.RequestDelete(*loan)
			}
			if err != nil {
				return err
			}
			return confirmAndRun(cmd, opts, yes, &screen.Gate, func() []views.Alert {
				_ = screen.Confirm(cmd.Context())
				return screen.ActiveAlerts()
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirmAndRun asks about the intent pending on gate, then runs it.
// A declined prompt is not an error.
func confirmAndRun(cmd *cobra.Command, opts *options, yes bool, gate *views.ConfirmGate, run func() []views.Alert) error {
	intent, ok := gate.Pending()
	if !ok {
		return nil
	}

	confirmed := yes
	if !confirmed {
		var err error
		confirmed, err = opts.confirm(intent)
		if err != nil {
			gate.Dismiss()
			return fmt.Errorf("confirmation prompt: %w", err)
		}
	}
	if !confirmed {
		gate.Cancel()
		fmt.Fprintln(cmd.OutOrStdout(), "Opération annulée")
		return nil
	}

	for _, alert := range run() {
		if alert.Kind == views.AlertError {
			return errors.New(alert.Message)
		}
		printAlerts(cmd.OutOrStdout(), []views.Alert{alert})
	}
	return nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}
