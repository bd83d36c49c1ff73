package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/hnthread/internal/app"
	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/usecase"
)

// newLogsCommand creates the logs command.
func newLogsCommand(c *app.Container) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs [id]",
		Short: "Show fetch logs",
		Long: `Show the log of one thread, or the global log without an id.

File logging is enabled by setting [log] dir in the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var threadID domain.ID
			if len(args) == 1 {
				id, err := parseRootID(args[0])
				if err != nil {
					return err
				}
				threadID = id
			}

			out, err := c.ShowLogsUseCase().Execute(cmd.Context(), usecase.ShowLogsInput{
				ThreadID: threadID,
				Lines:    lines,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Content)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of lines to show from the end (0 = all)")

	return cmd
}
