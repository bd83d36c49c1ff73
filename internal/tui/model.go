package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/fetch"
	"github.com/runoshun/hnthread/internal/usecase"
)

// Deps holds the use cases the viewer drives.
type Deps struct {
	Stories  *usecase.ListStories
	Comments *usecase.StreamComments
	Config   *domain.Config
}

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
	err    error

	// Open thread
	root    domain.ThreadRoot
	stream  *fetch.Stream
	thread  *commentView
	failed  []error
	stories []domain.ThreadRoot

	// Components (structs with pointers)
	keys     KeyMap
	styles   Styles
	help     help.Model
	viewport viewport.Model
	spinner  spinner.Model

	// Scalar state (smaller types last)
	feed        domain.Feed
	startID     domain.ID
	threadID    domain.ID
	mode        Mode
	prevMode    Mode
	width       int
	height      int
	storyCursor int
	seq         int
	loading     bool
	streaming   bool
}

// New creates a new TUI Model. If rootID is non-zero the thread opens
// directly; otherwise the configured feed is listed.
func New(deps Deps, rootID domain.ID) *Model {
	if deps.Config == nil {
		deps.Config = domain.NewDefaultConfig()
	}
	feed := deps.Config.TUI.Feed
	if !feed.IsValid() {
		feed = domain.FeedTop
	}

	ctx, cancel := context.WithCancel(context.Background())

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
		keys:     DefaultKeyMap(),
		styles:   DefaultStyles(),
		help:     help.New(),
		viewport: viewport.New(0, 0),
		spinner:  sp,
		feed:     feed,
		startID:  rootID,
		mode:     ModeStories,
	}
	if rootID != 0 {
		m.mode = ModeThread
	}
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	if m.startID != 0 {
		return tea.Batch(m.spinner.Tick, m.openThread(m.startID))
	}
	return tea.Batch(m.spinner.Tick, m.loadStories())
}

// Close stops any running stream. It is safe to call more than once.
func (m *Model) Close() {
	m.closeThread()
	m.cancel()
}

// loadStories returns a command that hydrates the current feed.
func (m *Model) loadStories() tea.Cmd {
	m.loading = true
	m.err = nil
	ctx := m.ctx
	feed := m.feed
	uc := m.deps.Stories
	limit := m.deps.Config.TUI.StoryLimit
	return func() tea.Msg {
		out, err := uc.Execute(ctx, usecase.ListStoriesInput{Feed: feed, Limit: limit})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgStoriesLoaded{Feed: feed, Stories: out.Stories}
	}
}

// openThread closes the current thread and returns a command that fetches
// rootID and starts streaming its comments.
func (m *Model) openThread(rootID domain.ID) tea.Cmd {
	m.closeThread()
	m.seq++
	m.threadID = rootID
	m.mode = ModeThread
	m.loading = true
	m.err = nil
	seq := m.seq
	ctx := m.ctx
	uc := m.deps.Comments
	return func() tea.Msg {
		out, err := uc.Execute(ctx, usecase.StreamCommentsInput{RootID: rootID})
		if err != nil {
			return MsgError{Err: err, Seq: seq}
		}
		return MsgThreadOpened{Root: out.Root, Stream: out.Stream, Seq: seq}
	}
}

// closeThread stops the open stream and forgets the thread.
func (m *Model) closeThread() {
	if m.stream != nil {
		m.stream.Close()
	}
	m.stream = nil
	m.root = nil
	m.thread = nil
	m.failed = nil
	m.streaming = false
}

// waitForEvent returns a command that delivers the next stream event.
func waitForEvent(s *fetch.Stream, seq int) tea.Cmd {
	return func() tea.Msg {
		ev, ok := s.Next()
		if !ok {
			return MsgStreamDone{Err: s.Err(), Seq: seq}
		}
		return MsgCommentEvent{Event: ev, Seq: seq}
	}
}

// SelectedStory returns the story under the cursor.
func (m *Model) SelectedStory() domain.ThreadRoot {
	if m.storyCursor < 0 || m.storyCursor >= len(m.stories) {
		return nil
	}
	return m.stories[m.storyCursor]
}

// nextFeed returns the feed after f in display order.
func nextFeed(f domain.Feed) domain.Feed {
	for i, known := range domain.AllFeeds {
		if known == f {
			return domain.AllFeeds[(i+1)%len(domain.AllFeeds)]
		}
	}
	return domain.FeedTop
}
