package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/hnthread/internal/app"
	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/usecase"
)

// newThreadCommand creates the thread command.
func newThreadCommand(c *app.Container) *cobra.Command {
	var opts struct {
		strategy string
		format   string
		strict   bool
	}

	cmd := &cobra.Command{
		Use:   "thread <id>",
		Short: "Fetch a thread and print its comment tree",
		Long: `Fetch a story, poll or job and print its complete comment tree.

Strategies:
  links   Follow each item's kids from the item API (default)
  indent  Rebuild nesting from the indentation of the rendered page

Formats: tree (default), json, yaml.`,
		Example: `  hnthread thread 8863
  hnthread thread 8863 --strategy indent
  hnthread thread 8863 --format json > thread.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootID, err := parseRootID(args[0])
			if err != nil {
				return err
			}

			strategy := c.AppConfig.Tree.Strategy
			if opts.strategy != "" {
				strategy, err = domain.ParseStrategy(opts.strategy)
				if err != nil {
					return fmt.Errorf("--strategy %q: %w", opts.strategy, err)
				}
			}

			switch opts.format {
			case formatTree, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unknown format %q (want tree, json or yaml)", opts.format)
			}

			out, err := c.AssembleThreadUseCase().Execute(cmd.Context(), usecase.AssembleThreadInput{
				RootID:   rootID,
				Strategy: strategy,
				Strict:   opts.strict,
			})
			if err != nil {
				return err
			}

			if len(out.Dropped) > 0 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped %d non-comment items\n", len(out.Dropped))
			}
			return writeThread(cmd.OutOrStdout(), opts.format, out.Thread)
		},
	}

	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "Tree strategy: links or indent (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTree, "Output format: tree, json or yaml")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail when comments cannot be attached to the tree")

	return cmd
}
