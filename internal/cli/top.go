package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/hnthread/internal/app"
	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/usecase"
)

// newTopCommand creates the top command.
func newTopCommand(c *app.Container) *cobra.Command {
	var opts struct {
		feed  string
		limit int
	}

	feeds := make([]string, 0, len(domain.AllFeeds))
	for _, f := range domain.AllFeeds {
		feeds = append(feeds, string(f))
	}

	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the stories of a feed",
		Long: fmt.Sprintf(`List the leading stories of a feed in rank order.

Feeds: %s.`, strings.Join(feeds, ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			feed := c.AppConfig.TUI.Feed
			if opts.feed != "" {
				feed = domain.Feed(opts.feed)
			}
			if !feed.IsValid() {
				return fmt.Errorf("--feed %q: %w", opts.feed, domain.ErrInvalidFeed)
			}

			limit := opts.limit
			if limit <= 0 {
				limit = c.AppConfig.TUI.StoryLimit
			}

			out, err := c.ListStoriesUseCase().Execute(cmd.Context(), usecase.ListStoriesInput{
				Feed:  feed,
				Limit: limit,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, s := range out.Stories {
				h := s.Header()
				l := s.Display()
				_, _ = fmt.Fprintf(w, "%3d. %s\n", i+1, l.Title)
				_, _ = fmt.Fprintf(w, "     %d points by %s | %d comments | id %d\n", l.Score, h.By, l.Descendants, h.ID)
			}
			if len(out.Stories) == 0 {
				_, _ = fmt.Fprintln(w, "No stories.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.feed, "feed", "", "Feed to list (default from config)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Number of stories to show (default from config)")

	return cmd
}
