package tui

import (
	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/fetch"
)

// Msg is the sealed interface for all TUI messages.
// All message types must implement the sealed() method.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgStoriesLoaded is sent when a feed has been hydrated.
type MsgStoriesLoaded struct {
	Feed    domain.Feed
	Stories []domain.ThreadRoot
}

func (MsgStoriesLoaded) sealed() {}

// MsgThreadOpened is sent when a thread root has been fetched and its
// comments have started streaming.
type MsgThreadOpened struct {
	Root   domain.ThreadRoot
	Stream *fetch.Stream
	Seq    int
}

func (MsgThreadOpened) sealed() {}

// MsgCommentEvent carries one event of the open thread's stream.
type MsgCommentEvent struct {
	Event fetch.Event
	Seq   int
}

func (MsgCommentEvent) sealed() {}

// MsgStreamDone is sent once the open thread's stream is exhausted.
type MsgStreamDone struct {
	Err error
	Seq int
}

func (MsgStreamDone) sealed() {}

// MsgError is sent when an operation fails.
type MsgError struct {
	Err error
	Seq int
}

func (MsgError) sealed() {}
