// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/fetch"
)

// ThreadOptions holds the fetch and tree settings shared by thread use cases.
// Fields are ordered to minimize memory padding.
type ThreadOptions struct {
	Retry       domain.RetryPolicy
	MaxInFlight int
	IndentStep  int
	MaxDepth    int
}

// NewThreadOptions derives ThreadOptions from the configuration.
func NewThreadOptions(cfg *domain.Config) ThreadOptions {
	return ThreadOptions{
		Retry:       cfg.RetryPolicy(),
		MaxInFlight: cfg.Fetch.MaxInFlight,
		IndentStep:  cfg.Tree.IndentStep,
		MaxDepth:    cfg.Tree.MaxDepth,
	}
}

// orchestrator returns an Orchestrator logging to the given thread.
func (o ThreadOptions) orchestrator(source domain.ItemSource, logger domain.Logger, threadID domain.ID) *fetch.Orchestrator {
	return fetch.New(source,
		fetch.WithRetryPolicy(o.Retry),
		fetch.WithMaxInFlight(o.MaxInFlight),
		fetch.WithLogger(logger),
		fetch.WithThreadID(threadID),
	)
}

// rootWant describes the variants accepted as thread roots.
const rootWant = "story, job or poll"

// fetchThreadRoot fetches id and requires it to be able to head a thread.
func fetchThreadRoot(ctx context.Context, o *fetch.Orchestrator, id domain.ID) (domain.ThreadRoot, error) {
	item, err := o.FetchItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch root: %w", err)
	}
	root, ok := domain.AsThreadRoot(item)
	if !ok {
		return nil, &domain.UnexpectedItemTypeError{
			Reason: domain.ErrUnsupportedRootType,
			ID:     id,
			Actual: item.Type(),
			Want:   rootWant,
		}
	}
	return root, nil
}

// isCancelled reports whether err stems from caller cancellation.
func isCancelled(err error) bool {
	return errors.Is(err, domain.ErrCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
