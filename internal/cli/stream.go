package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/hnthread/internal/app"
	"github.com/runoshun/hnthread/internal/usecase"
)

// newStreamCommand creates the stream command.
func newStreamCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream <id>",
		Short: "Print comments as they are fetched",
		Long: `Fetch a thread and print each comment as soon as it arrives.

Comments appear in fetch order, indented by depth. A parent is always
printed before its replies. Items that fail to load are reported on
stderr and do not stop the stream.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootID, err := parseRootID(args[0])
			if err != nil {
				return err
			}

			out, err := c.StreamCommentsUseCase().Execute(cmd.Context(), usecase.StreamCommentsInput{
				RootID: rootID,
			})
			if err != nil {
				return err
			}
			stream := out.Stream
			defer stream.Close()

			w := cmd.OutOrStdout()
			writeRootHeader(w, out.Root)

			failed := 0
			for {
				ev, ok := stream.Next()
				if !ok {
					break
				}
				if ev.Err != nil {
					if ev.ID == 0 {
						return ev.Err
					}
					failed++
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", ev.Err)
					continue
				}
				_, _ = fmt.Fprintln(w)
				writeComment(w, ev.Node)
			}

			_, _ = fmt.Fprintf(w, "\n%d comments", stream.Len())
			if failed > 0 {
				_, _ = fmt.Fprintf(w, ", %d failed", failed)
			}
			_, _ = fmt.Fprintln(w)
			return stream.Err()
		},
	}
	return cmd
}
