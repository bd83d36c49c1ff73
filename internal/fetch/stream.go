package fetch

import (
	"context"
	"fmt"
	"sync"

	"github.com/runoshun/hnthread/internal/domain"
)

// Event is one step of a lazy traversal.
// Exactly one of Node and Err is set.
type Event struct {
	Node  *domain.CommentNode
	Err   error
	ID    domain.ID
	Depth int
}

// Stream yields comments as they arrive.
// Nodes carry depth but no children; use Lookup to follow a comment's Kids
// to nodes that have already arrived.
type Stream struct {
	err    error
	nodes  map[domain.ID]*domain.CommentNode
	events chan Event
	closed chan struct{}
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
	mu     sync.RWMutex
}

// Unfold starts a lazy traversal below kids. The first fetches are
// launched immediately; results are delivered through Next in arrival order.
//
// Fetches that exhaust the retry policy and items that are not comments are
// delivered as error events and the traversal continues. Cancelling ctx or
// calling Close stops the traversal.
func (o *Orchestrator) Unfold(ctx context.Context, kids []domain.ID) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		nodes:  make(map[domain.ID]*domain.CommentNode),
		events: make(chan Event),
		closed: make(chan struct{}),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	v := visitor{
		item: func(t task, item domain.Item) []domain.ID {
			comment, ok := domain.AsComment(item)
			if !ok {
				o.logger.Warn(o.threadID, "fetch",
					fmt.Sprintf("item %d inside comment tree is a %s, dropping it", t.id, item.Type()))
				s.emit(Event{ID: t.id, Depth: t.depth, Err: &domain.UnexpectedItemTypeError{
					ID:     t.id,
					Actual: item.Type(),
					Want:   string(domain.ItemTypeComment),
				}})
				return nil
			}
			node := &domain.CommentNode{Comment: comment, Depth: t.depth}
			s.mu.Lock()
			s.nodes[t.id] = node
			s.mu.Unlock()
			s.emit(Event{ID: t.id, Depth: t.depth, Node: node})
			return comment.Kids
		},
		exhausted: func(err *domain.FetchError) error {
			o.logger.Error(o.threadID, "fetch", err.Error())
			s.emit(Event{ID: err.ID, Err: err})
			return nil
		},
	}

	go func() {
		defer close(s.done)
		defer close(s.events)
		_, err := o.run(ctx, kids, v)
		if err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			s.emit(Event{Err: err})
		}
	}()

	return s
}

// emit delivers ev unless the consumer has closed the stream.
func (s *Stream) emit(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.closed:
		return false
	}
}

// Next blocks until the next event. It returns false once the traversal
// has finished and every event has been delivered.
func (s *Stream) Next() (Event, bool) {
	ev, ok := <-s.events
	return ev, ok
}

// Lookup returns the node of an already delivered comment.
func (s *Stream) Lookup(id domain.ID) (*domain.CommentNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// Len returns the number of comments delivered so far.
func (s *Stream) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Err returns the error that ended the traversal, if any.
// It is only meaningful after Next has returned false.
func (s *Stream) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Close stops the traversal and waits for outstanding fetches to drain.
// It is safe to call more than once and concurrently with Next.
func (s *Stream) Close() {
	s.once.Do(func() {
		close(s.closed)
		s.cancel()
	})
	<-s.done
}
