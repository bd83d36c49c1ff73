package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/fetch"
)

// ListStoriesInput contains the parameters for listing a feed.
type ListStoriesInput struct {
	Feed  domain.Feed // Feed name; empty means top
	Limit int         // Stories to hydrate; <= 0 means domain.DefaultStoryLimit
}

// ListStoriesOutput contains the hydrated feed entries in rank order.
type ListStoriesOutput struct {
	Stories []domain.ThreadRoot
	Total   int // Ids published by the feed before the limit
}

// ListStories fetches a feed and hydrates its leading entries concurrently.
type ListStories struct {
	feeds  domain.FeedSource
	source domain.ItemSource
	logger domain.Logger
	opts   ThreadOptions
}

// NewListStories creates a new ListStories use case.
func NewListStories(feeds domain.FeedSource, source domain.ItemSource, logger domain.Logger, opts ThreadOptions) *ListStories {
	return &ListStories{
		feeds:  feeds,
		source: source,
		logger: logger,
		opts:   opts,
	}
}

// Execute lists the feed. Entries that cannot head a thread are skipped.
func (uc *ListStories) Execute(ctx context.Context, in ListStoriesInput) (*ListStoriesOutput, error) {
	feed := in.Feed
	if feed == "" {
		feed = domain.FeedTop
	}
	if !feed.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFeed, feed)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = domain.DefaultStoryLimit
	}

	ids, err := uc.feeds.Feed(ctx, feed)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feed, err)
	}
	total := len(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}

	o := fetch.New(uc.source,
		fetch.WithRetryPolicy(uc.opts.Retry),
		fetch.WithLogger(uc.logger),
	)

	items := make([]domain.Item, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	if uc.opts.MaxInFlight > 0 {
		g.SetLimit(uc.opts.MaxInFlight)
	}
	for i, id := range ids {
		g.Go(func() error {
			item, err := o.FetchItem(gctx, id)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("hydrate %s feed: %w", feed, err)
	}

	stories := make([]domain.ThreadRoot, 0, len(items))
	for _, item := range items {
		root, ok := domain.AsThreadRoot(item)
		if !ok {
			uc.logger.Warn(0, "feed", fmt.Sprintf("%s feed lists %s %d, skipping", feed, item.Type(), item.Header().ID))
			continue
		}
		stories = append(stories, root)
	}

	return &ListStoriesOutput{Stories: stories, Total: total}, nil
}
