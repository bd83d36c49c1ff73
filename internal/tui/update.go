package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/hnthread/internal/domain"
)

// pageRows is how far page keys move the cursor.
const pageRows = 10

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayoutSizes()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case MsgStoriesLoaded:
		// Ignore results of a feed the user has already switched away from
		if msg.Feed != m.feed {
			return m, nil
		}
		m.loading = false
		m.stories = msg.Stories
		if m.storyCursor >= len(m.stories) {
			m.storyCursor = max(len(m.stories)-1, 0)
		}
		return m, nil

	case MsgThreadOpened:
		if msg.Seq != m.seq {
			msg.Stream.Close()
			return m, nil
		}
		m.loading = false
		m.root = msg.Root
		m.stream = msg.Stream
		m.streaming = true
		m.thread = newCommentView(msg.Root.Header().Kids, msg.Stream.Lookup, m.deps.Config.TUI.CollapseDepth)
		m.viewport.GotoTop()
		m.refreshThread()
		return m, waitForEvent(msg.Stream, msg.Seq)

	case MsgCommentEvent:
		if msg.Seq != m.seq || m.stream == nil {
			return m, nil
		}
		ev := msg.Event
		switch {
		case ev.Node != nil:
			m.thread.add(ev.Node)
		case ev.ID != 0:
			m.failed = append(m.failed, ev.Err)
		case !errors.Is(ev.Err, domain.ErrCancelled):
			m.err = ev.Err
		}
		m.refreshThread()
		return m, waitForEvent(m.stream, msg.Seq)

	case MsgStreamDone:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.streaming = false
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrCancelled) {
			m.err = msg.Err
		}
		return m, nil

	case MsgError:
		if msg.Seq != 0 && msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.Close()
		return m, tea.Quit
	}

	if m.mode == ModeHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) {
			m.mode = m.prevMode
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Help) {
		m.prevMode = m.mode
		m.mode = ModeHelp
		return m, nil
	}

	switch m.mode {
	case ModeStories:
		return m.handleStoriesKeys(msg)
	case ModeThread:
		return m.handleThreadKeys(msg)
	case ModeHelp:
	}
	return m, nil
}

func (m *Model) handleStoriesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(m.stories) - 1
	switch {
	case key.Matches(msg, m.keys.Up):
		m.storyCursor = max(m.storyCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.storyCursor = max(min(m.storyCursor+1, last), 0)
	case key.Matches(msg, m.keys.PrevPage):
		m.storyCursor = max(m.storyCursor-pageRows, 0)
	case key.Matches(msg, m.keys.NextPage):
		m.storyCursor = max(min(m.storyCursor+pageRows, last), 0)
	case key.Matches(msg, m.keys.Top):
		m.storyCursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.storyCursor = max(last, 0)
	case key.Matches(msg, m.keys.Enter):
		if s := m.SelectedStory(); s != nil {
			return m, m.openThread(s.Header().ID)
		}
	case key.Matches(msg, m.keys.NextFeed):
		m.feed = nextFeed(m.feed)
		m.stories = nil
		m.storyCursor = 0
		return m, m.loadStories()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadStories()
	}
	return m, nil
}

func (m *Model) handleThreadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.closeThread()
		m.mode = ModeStories
		m.err = nil
		if len(m.stories) == 0 && !m.loading {
			return m, m.loadStories()
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Refresh) && m.threadID != 0 {
		return m, m.openThread(m.threadID)
	}

	if m.thread == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.thread.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.thread.move(1)
	case key.Matches(msg, m.keys.PrevPage):
		m.thread.move(-pageRows)
	case key.Matches(msg, m.keys.NextPage):
		m.thread.move(pageRows)
	case key.Matches(msg, m.keys.Top):
		m.thread.moveTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.thread.moveTo(len(m.thread.rows) - 1)
	case key.Matches(msg, m.keys.Collapse):
		m.thread.toggle()
	case key.Matches(msg, m.keys.Expand):
		m.thread.expandAll()
	default:
		return m, nil
	}
	m.refreshThread()
	return m, nil
}

// updateLayoutSizes resizes the comment viewport to the window.
func (m *Model) updateLayoutSizes() {
	m.viewport.Width = max(m.width-2, 0)
	m.viewport.Height = max(m.height-headerLines-footerLines, 1)
	m.refreshThread()
}

// refreshThread re-renders the comment rows and keeps the cursor visible.
func (m *Model) refreshThread() {
	if m.thread == nil || m.viewport.Width == 0 {
		return
	}
	content, offsets := m.renderComments(m.viewport.Width)
	m.viewport.SetContent(content)

	if len(offsets) == 0 {
		return
	}
	top := offsets[m.thread.cursor]
	bottom := m.viewport.TotalLineCount()
	if m.thread.cursor+1 < len(offsets) {
		bottom = offsets[m.thread.cursor+1]
	}
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(min(top, bottom-m.viewport.Height))
	}
}
