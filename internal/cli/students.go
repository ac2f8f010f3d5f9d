package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/tui"
	"github.com/mrlokans/library/internal/views"
)

func newStudentsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"etudiants"},
		Short:   "List and manage students",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List students",
		Long: `List registered students.

Examples:
  library students list
  library students list --search dupont`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := views.NewStudentsScreen(opts.client())
			if err := screen.Search(cmd.Context(), search); err != nil {
				return err
			}
			if screen.List.Status == views.StatusError {
				return errors.New(screen.List.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderStudents(screen.List.Data))
			return nil
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "Match surname, first name or email")

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a student with no loan history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api := opts.client()
			student, err := api.GetStudent(cmd.Context(), id)
			if err != nil {
				return err
			}

			screen := views.NewStudentsScreen(api)
			if err := screen.RequestDelete(*student); err != nil {
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
