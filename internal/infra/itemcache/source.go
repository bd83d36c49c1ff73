// Package itemcache caches items between fetches.
package itemcache

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/runoshun/hnthread/internal/domain"
)

// Ensure Source implements domain.ItemSource.
var _ domain.ItemSource = (*Source)(nil)

// Source serves items from a cache and falls back to another source on a
// miss. Concurrent misses for the same id share one fetch.
type Source struct {
	next   domain.ItemSource
	cache  domain.ItemCache
	logger domain.Logger
	group  singleflight.Group
}

// NewSource wraps next with cache.
func NewSource(next domain.ItemSource, cache domain.ItemCache, logger domain.Logger) *Source {
	return &Source{next: next, cache: cache, logger: logger}
}

// Fetch returns the cached item or fetches and caches it.
// The shared fetch is not cancelled with any single caller; a caller whose
// ctx ends stops waiting and gets ctx.Err().
func (s *Source) Fetch(ctx context.Context, id domain.ID) (domain.Item, error) {
	if item, ok := s.cache.Get(ctx, id); ok {
		return item, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(id.String(), func() (any, error) {
		item, err := s.next.Fetch(shared, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(shared, item); err != nil {
			s.logger.Debug(0, "cache", fmt.Sprintf("store item %d: %v", id, err))
		}
		return item, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(domain.Item), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
