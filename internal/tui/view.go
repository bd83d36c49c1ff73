package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/infra/hnweb"
)

// Fixed lines around the scrolling area.
const (
	headerLines = 3
	footerLines = 2
)

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeThread:
		content = m.viewThread()
	case ModeStories:
		content = m.viewStories()
	}

	return m.styles.App.Render(content)
}

// viewStories renders the feed story list.
func (m *Model) viewStories() string {
	var b strings.Builder

	// Header
	title := m.styles.Header.Render("Hacker News") + " " + m.styles.HeaderMeta.Render(string(m.feed))
	if m.loading {
		title += " " + m.spinner.View()
	}
	b.WriteString(title + "\n")
	b.WriteString(m.statusLine() + "\n\n")

	// Story list, two lines per story
	visible := max((m.height-headerLines-footerLines)/2, 1)
	start := 0
	if m.storyCursor >= visible {
		start = m.storyCursor - visible + 1
	}
	end := min(start+visible, len(m.stories))
	for i := start; i < end; i++ {
		b.WriteString(m.renderStory(i))
	}
	if len(m.stories) == 0 && !m.loading && m.err == nil {
		b.WriteString(m.styles.Footer.Render("No stories.") + "\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// renderStory renders the story at index i.
func (m *Model) renderStory(i int) string {
	s := m.stories[i]
	h := s.Header()
	l := s.Display()

	titleStyle, metaStyle := m.styles.StoryTitle, m.styles.StoryMeta
	cursor := "  "
	if i == m.storyCursor {
		titleStyle, metaStyle = m.styles.StoryTitleSelected, m.styles.StoryMetaSelected
		cursor = m.styles.Cursor.Render("> ")
	}

	rank := m.styles.StoryRank.Render(fmt.Sprintf("%d.", i+1))
	meta := fmt.Sprintf("%d points by %s | %d comments", l.Score, h.By, l.Descendants)
	return fmt.Sprintf("%s%s %s\n%s%s\n",
		cursor, rank, titleStyle.Render(l.Title),
		strings.Repeat(" ", 8), metaStyle.Render(meta))
}

// viewThread renders the open thread.
func (m *Model) viewThread() string {
	var b strings.Builder

	// Header
	if m.root == nil {
		title := m.styles.HeaderMeta.Render(fmt.Sprintf("item %d", m.threadID))
		if m.loading {
			title += " " + m.spinner.View()
		}
		b.WriteString(title + "\n")
	} else {
		l := m.root.Display()
		b.WriteString(m.styles.HeaderText.Render(l.Title) + "\n")
	}
	b.WriteString(m.statusLine() + "\n\n")

	// Comments
	if m.thread != nil {
		b.WriteString(m.viewport.View())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// statusLine renders progress, failures and errors below the title.
func (m *Model) statusLine() string {
	if m.err != nil {
		return m.styles.ErrorMsg.Render("Error: " + m.err.Error())
	}
	if m.mode != ModeThread || m.root == nil {
		return ""
	}

	h := m.root.Header()
	l := m.root.Display()
	parts := []string{fmt.Sprintf("%d points by %s", l.Score, h.By)}
	if m.stream != nil {
		parts = append(parts, fmt.Sprintf("%d comments", m.stream.Len()))
	}
	status := m.styles.HeaderMeta.Render(strings.Join(parts, " | "))
	if m.streaming {
		status += " " + m.spinner.View()
	}
	if len(m.failed) > 0 {
		status += " " + m.styles.Warning.Render(fmt.Sprintf("(%d failed)", len(m.failed)))
	}
	return status
}

// renderComments renders every visible comment row. It returns the content
// and the first line of each row.
func (m *Model) renderComments(width int) (string, []int) {
	if len(m.thread.rows) == 0 {
		if m.streaming {
			return m.styles.Footer.Render("Waiting for comments..."), nil
		}
		return m.styles.Footer.Render("No comments."), nil
	}

	var b strings.Builder
	offsets := make([]int, 0, len(m.thread.rows))
	line := 0
	for i, row := range m.thread.rows {
		offsets = append(offsets, line)
		block := m.renderComment(row, i == m.thread.cursor, width)
		b.WriteString(block)
		b.WriteString("\n\n")
		line += strings.Count(block, "\n") + 2
	}
	return b.String(), offsets
}

// renderComment renders one comment indented by its depth.
func (m *Model) renderComment(row commentRow, selected bool, width int) string {
	c := row.node.Comment
	indent := row.node.Depth * 2
	textWidth := max(width-indent-2, 20)

	authorStyle := m.styles.CommentAuthor
	cursor := "  "
	if selected {
		authorStyle = m.styles.CommentAuthorSelected
		cursor = m.styles.Cursor.Render("▌ ")
	}

	header := authorStyle.Render(authorOf(c))
	if !c.Time.IsZero() {
		header += " " + m.styles.CommentMeta.Render(c.Time.Local().Format("2006-01-02 15:04"))
	}
	if row.hidden > 0 {
		header += " " + m.styles.CommentCollapsed.Render(fmt.Sprintf("[+%d]", row.hidden))
	}

	lines := []string{header}
	switch {
	case row.hidden > 0:
	case c.Removed():
		lines = append(lines, m.styles.CommentDeleted.Render("[deleted]"))
	default:
		lines = append(lines, m.styles.CommentText.Width(textWidth).Render(hnweb.PlainText(c.Text)))
	}

	block := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.NewStyle().PaddingLeft(indent).Render(prefixLines(block, cursor))
}

// authorOf returns the display name of a comment's author.
func authorOf(c *domain.Comment) string {
	if c.By == "" {
		return "[unknown]"
	}
	return c.By
}

// prefixLines puts prefix in front of the first line and matching blank
// space in front of the rest.
func prefixLines(block, prefix string) string {
	pad := strings.Repeat(" ", lipgloss.Width(prefix))
	lines := strings.Split(block, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// viewHelp renders the full help overlay.
func (m *Model) viewHelp() string {
	return m.styles.Help.Render(m.help.FullHelpView(m.keys.FullHelp()))
}
