package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/hnthread/internal/domain"
)

// task is one queued fetch.
type task struct {
	id       domain.ID
	depth    int
	attempts int
}

// completion is the result of one fetch attempt.
type completion struct {
	item domain.Item
	err  error
	task task
}

// visitor receives loop events. Both callbacks run on the loop goroutine.
type visitor struct {
	// item handles a fetched item and returns the ids to enqueue below it.
	item func(t task, item domain.Item) []domain.ID
	// exhausted handles a fetch that ran out of attempts.
	// A non-nil return stops the traversal.
	exhausted func(err *domain.FetchError) error
}

type stats struct {
	fetches int
	retries int
}

// run traverses the id graph rooted at kids.
//
// Each iteration checks cancellation, launches queued fetches up to the
// in-flight cap, then waits for one completion. Once stopped, nothing new
// is launched and outstanding fetches are drained before returning so no
// goroutine outlives the call.
func (o *Orchestrator) run(ctx context.Context, kids []domain.ID, v visitor) (stats, error) {
	var (
		st       stats
		stopErr  error
		inflight int
		queue    []task
	)
	seen := make(map[domain.ID]struct{}, len(kids))
	enqueue := func(ids []domain.ID, depth int) {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			queue = append(queue, task{id: id, depth: depth})
		}
	}
	stop := func(err error) {
		if stopErr == nil {
			stopErr = err
		}
		queue = nil
	}

	completionCh := make(chan completion)
	launch := func(t task) {
		t.attempts++
		st.fetches++
		inflight++
		go func() {
			item, err := o.source.Fetch(ctx, t.id)
			completionCh <- completion{task: t, item: item, err: err}
		}()
	}

	enqueue(kids, 0)

	for {
		if stopErr == nil && ctx.Err() != nil {
			stop(cancelled(ctx.Err()))
		}

		for len(queue) > 0 && (o.maxInFlight <= 0 || inflight < o.maxInFlight) {
			t := queue[0]
			queue = queue[1:]
			launch(t)
		}

		if inflight == 0 {
			return st, stopErr
		}

		var c completion
		if stopErr != nil {
			c = <-completionCh
		} else {
			select {
			case c = <-completionCh:
			case <-ctx.Done():
				continue
			}
		}
		inflight--

		if c.err != nil {
			if stopErr != nil {
				continue
			}
			if ctx.Err() != nil {
				stop(cancelled(ctx.Err()))
				continue
			}
			if o.retry.Allows(c.task.attempts) {
				st.retries++
				o.logger.Debug(o.threadID, "fetch",
					fmt.Sprintf("retrying item %d after attempt %d: %v", c.task.id, c.task.attempts, c.err))
				queue = append(queue, c.task)
				continue
			}
			fetchErr := &domain.FetchError{
				ID:       c.task.id,
				Attempts: c.task.attempts,
				Err:      errors.Join(domain.ErrRetriesExhausted, c.err),
			}
			if err := v.exhausted(fetchErr); err != nil {
				stop(err)
			}
			continue
		}

		next := v.item(c.task, c.item)
		if stopErr == nil {
			enqueue(next, c.task.depth+1)
		}
	}
}
