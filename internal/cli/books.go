package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/tui"
	"github.com/mrlokans/library/internal/views"
)

func newBooksCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"livres"},
		Short:   "List and manage books",
	}

	var (
		search    string
		available bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List books",
		Long: `List the catalogue.

Examples:
  library books list
  library books list --search zola
  library books list --available`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api := opts.client()
			var (
				books []entities.Book
				err   error
			)
			if available {
				books, err = api.ListAvailableBooks(cmd.Context())
			} else {
				screen := views.NewBooksScreen(api)
				err = screen.Search(cmd.Context(), search)
				books = screen.List.Data
				if err == nil && screen.List.Status == views.StatusError {
					err = errors.New(screen.List.Message)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderBooks(books))
			return nil
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "Match title or publisher")
	list.Flags().BoolVar(&available, "available", false, "Only books with a copy left")

	var yes bool
	del := &cobra.Command{
		Use:   "delete <isbn>",
		Short: "Delete a book with no loan history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := opts.client()
			book, err := api.GetBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			screen := views.NewBooksScreen(api)
			if err := screen.RequestDelete(*book); err != nil {
				return err
			}
			return confirmAndRun(cmd, opts, yes, &screen.Gate, func() []views.Alert {
				_ = screen.Confirm(cmd.Context())
				return screen.ActiveAlerts()
			})
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	cmd.AddCommand(list, del)
	return cmd
}
