package tui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color palette for the TUI.
var Colors = struct {
	// Base colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color

	// Title/text colors
	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color
	DescNormal    lipgloss.Color
	DescSelected  lipgloss.Color

	// Comment colors
	Author    lipgloss.Color
	Rail      lipgloss.Color
	Collapsed lipgloss.Color
}{
	Primary:   lipgloss.Color("#FF6600"), // Orange
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Warning:   lipgloss.Color("#FDCB6E"), // Yellow

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow (selected)
	DescNormal:    lipgloss.Color("#636E72"), // Gray
	DescSelected:  lipgloss.Color("#B2BEC3"), // Light gray

	Author:    lipgloss.Color("#74B9FF"), // Light blue
	Rail:      lipgloss.Color("#2D3436"), // Dark gray
	Collapsed: lipgloss.Color("#A29BFE"), // Lavender
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// App
	App lipgloss.Style

	// Header
	Header     lipgloss.Style
	HeaderText lipgloss.Style
	HeaderMeta lipgloss.Style

	// Story list
	StoryRank          lipgloss.Style
	StoryTitle         lipgloss.Style
	StoryTitleSelected lipgloss.Style
	StoryMeta          lipgloss.Style
	StoryMetaSelected  lipgloss.Style

	// Comments
	CommentAuthor         lipgloss.Style
	CommentAuthorSelected lipgloss.Style
	CommentMeta           lipgloss.Style
	CommentText           lipgloss.Style
	CommentDeleted        lipgloss.Style
	CommentCollapsed      lipgloss.Style
	Cursor                lipgloss.Style

	// Help
	Help lipgloss.Style

	// Footer
	Footer lipgloss.Style

	// Error
	ErrorMsg lipgloss.Style
	Warning  lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		HeaderText: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.TitleNormal),

		HeaderMeta: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		StoryRank: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(5).
			Align(lipgloss.Right),

		StoryTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		StoryTitleSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		StoryMeta: lipgloss.NewStyle().
			Foreground(Colors.DescNormal),

		StoryMetaSelected: lipgloss.NewStyle().
			Foreground(Colors.DescSelected),

		CommentAuthor: lipgloss.NewStyle().
			Foreground(Colors.Author),

		CommentAuthorSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		CommentMeta: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		CommentText: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		CommentDeleted: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),

		CommentCollapsed: lipgloss.NewStyle().
			Foreground(Colors.Collapsed),

		Cursor: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		Help: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Muted),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Colors.Warning),
	}
}
