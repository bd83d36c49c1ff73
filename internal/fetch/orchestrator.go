// Package fetch retrieves comment trees from an item source with bounded
// concurrency and retry.
//
// The orchestrator walks the kids graph breadth first in submission order but
// processes completions in arrival order. All bookkeeping happens on a single
// loop goroutine; fetches run concurrently and report back over one channel,
// so the accumulated results need no locking.
package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/hnthread/internal/domain"
)

// Orchestrator drives concurrent traversal of an id graph.
// Fields are ordered to minimize memory padding.
type Orchestrator struct {
	source      domain.ItemSource
	logger      domain.Logger
	retry       domain.RetryPolicy
	maxInFlight int
	threadID    domain.ID
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRetryPolicy sets how often a failing fetch is requeued.
func WithRetryPolicy(p domain.RetryPolicy) Option {
	return func(o *Orchestrator) { o.retry = p }
}

// WithMaxInFlight caps concurrent fetches. n <= 0 launches every queued id at once.
func WithMaxInFlight(n int) Option {
	return func(o *Orchestrator) { o.maxInFlight = n }
}

// WithLogger sets the logger used for dropped items and retries.
func WithLogger(l domain.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithThreadID routes log lines to the given thread's log.
func WithThreadID(id domain.ID) Option {
	return func(o *Orchestrator) { o.threadID = id }
}

// New creates an Orchestrator reading from source.
func New(source domain.ItemSource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source: source,
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Report is the outcome of an eager traversal.
// Fields are ordered to minimize memory padding.
type Report struct {
	// Comments holds one entry per id that resolved to a comment.
	Comments map[domain.ID]*domain.Comment
	// Dropped holds ids that resolved to a non-comment item.
	Dropped map[domain.ID]domain.ItemType
	// Fetches counts every fetch call, retries included.
	Fetches int
	// Retries counts requeued failures.
	Retries int
}

// FetchAll fetches the full comment closure below kids and returns it keyed by id.
// Failed fetches are requeued according to the retry policy, including ids
// the store does not serve yet. Items that are not comments are logged and
// left out.
//
// On cancellation the comments fetched so far are returned together with an
// error wrapping domain.ErrCancelled.
func (o *Orchestrator) FetchAll(ctx context.Context, kids []domain.ID) (map[domain.ID]*domain.Comment, error) {
	report, err := o.Collect(ctx, kids)
	return report.Comments, err
}

// Collect is FetchAll with traversal statistics and the set of dropped ids.
// The returned report is never nil.
func (o *Orchestrator) Collect(ctx context.Context, kids []domain.ID) (*Report, error) {
	report := &Report{
		Comments: make(map[domain.ID]*domain.Comment),
		Dropped:  make(map[domain.ID]domain.ItemType),
	}

	v := visitor{
		item: func(t task, item domain.Item) []domain.ID {
			comment, ok := domain.AsComment(item)
			if !ok {
				report.Dropped[t.id] = item.Type()
				o.logger.Warn(o.threadID, "fetch",
					fmt.Sprintf("item %d inside comment tree is a %s, dropping it", t.id, item.Type()))
				return nil
			}
			report.Comments[t.id] = comment
			return comment.Kids
		},
		exhausted: func(err *domain.FetchError) error {
			o.logger.Error(o.threadID, "fetch", err.Error())
			return err
		},
	}

	stats, err := o.run(ctx, kids, v)
	report.Fetches = stats.fetches
	report.Retries = stats.retries
	return report, err
}

// FetchItem fetches a single item, retrying according to the retry policy.
// An unknown id fails immediately with domain.ErrItemNotFound.
func (o *Orchestrator) FetchItem(ctx context.Context, id domain.ID) (domain.Item, error) {
	for attempts := 1; ; attempts++ {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}
		item, err := o.source.Fetch(ctx, id)
		if err == nil {
			return item, nil
		}
		if ctx.Err() != nil {
			return nil, cancelled(ctx.Err())
		}
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, &domain.FetchError{ID: id, Attempts: attempts, Err: err}
		}
		if !o.retry.Allows(attempts) {
			return nil, &domain.FetchError{ID: id, Attempts: attempts, Err: errors.Join(domain.ErrRetriesExhausted, err)}
		}
		o.logger.Debug(o.threadID, "fetch", fmt.Sprintf("retrying item %d after attempt %d: %v", id, attempts, err))
	}
}

func cancelled(cause error) error {
	return fmt.Errorf("%w: %w", domain.ErrCancelled, cause)
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Info(domain.ID, string, string)  {}
func (nopLogger) Debug(domain.ID, string, string) {}
func (nopLogger) Warn(domain.ID, string, string)  {}
func (nopLogger) Error(domain.ID, string, string) {}
