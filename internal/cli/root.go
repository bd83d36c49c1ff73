// Package cli provides the command-line interface for hnthread.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/runoshun/hnthread/internal/app"
	"github.com/runoshun/hnthread/internal/domain"
)

// Command group IDs.
const (
	groupThread = "thread"
	groupSetup  = "setup"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for hnthread.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "hnthread",
		Short: "Fetch and browse Hacker News comment threads",
		Long: `hnthread fetches a Hacker News item and reconstructs its full comment tree.

Threads can be assembled from the item API (following each comment's kids)
or from the rendered item page (nesting recovered from indentation).
Running hnthread without arguments opens the interactive viewer.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}

			// Log lines on stderr would corrupt the TUI screen
			if verbose && cmd.Name() != "tui" && cmd != cmd.Root() {
				c.EnableVerbose(cmd.ErrOrStderr(), slog.LevelDebug)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c, 0)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Mirror log output to stderr")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupThread, Title: "Thread Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	// Thread commands
	threadCmd := newThreadCommand(c)
	threadCmd.GroupID = groupThread

	streamCmd := newStreamCommand(c)
	streamCmd.GroupID = groupThread

	topCmd := newTopCommand(c)
	topCmd.GroupID = groupThread

	tuiCmd := newTUICommand(c)
	tuiCmd.GroupID = groupThread

	logsCmd := newLogsCommand(c)
	logsCmd.GroupID = groupThread

	// Setup commands
	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	root.AddCommand(
		threadCmd,
		streamCmd,
		topCmd,
		tuiCmd,
		logsCmd,
		configCmd,
	)

	return root
}

// parseRootID parses the thread root id argument.
func parseRootID(arg string) (domain.ID, error) {
	id, err := domain.ParseID(arg)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid item id %q: %w", arg, domain.ErrInvalidItemID)
	}
	return id, nil
}
