package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/hnthread/internal/app"
	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/tui"
)

// newTUICommand creates the tui command for launching the interactive viewer.
// Running hnthread without arguments does the same.
func newTUICommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [id]",
		Short: "Launch interactive thread viewer",
		Long: `Launch the interactive terminal viewer.

Without an id it opens the configured story feed. With an id it opens
that thread directly. Comments are shown as they arrive.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var rootID domain.ID
			if len(args) == 1 {
				id, err := parseRootID(args[0])
				if err != nil {
					return err
				}
				rootID = id
			}
			return launchTUIFunc(c, rootID)
		},
	}
	return cmd
}

// launchTUI runs the viewer until the user quits.
func launchTUI(c *app.Container, rootID domain.ID) error {
	m := tui.New(tui.Deps{
		Stories:  c.ListStoriesUseCase(),
		Comments: c.StreamCommentsUseCase(),
		Config:   c.AppConfig,
	}, rootID)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	m.Close()
	return err
}
