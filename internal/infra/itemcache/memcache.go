package itemcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/runoshun/hnthread/internal/domain"
)

// Ensure Memcache implements domain.ItemCache.
var _ domain.ItemCache = (*Memcache)(nil)

// Memcache stores items in memcached in their API JSON form, so several
// processes can share fetched items.
type Memcache struct {
	client *memcache.Client
	logger domain.Logger
	ttl    time.Duration
}

// NewMemcache creates a cache backed by the memcached servers at addrs.
func NewMemcache(ttl time.Duration, logger domain.Logger, addrs ...string) *Memcache {
	return &Memcache{client: memcache.New(addrs...), ttl: ttl, logger: logger}
}

// Get returns the cached item. Errors other than a miss are logged and
// treated as a miss.
func (m *Memcache) Get(_ context.Context, id domain.ID) (domain.Item, bool) {
	key := domain.ItemCacheKey(id)
	entry, err := m.client.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			m.logger.Warn(0, "cache", fmt.Sprintf("get %s: %v", key, err))
		}
		return nil, false
	}
	item, err := domain.DecodeItem(entry.Value)
	if err != nil {
		m.logger.Warn(0, "cache", fmt.Sprintf("decode %s: %v", key, err))
		return nil, false
	}
	return item, true
}

// Set stores the item.
func (m *Memcache) Set(_ context.Context, item domain.Item) error {
	value, err := domain.EncodeItem(item)
	if err != nil {
		return err
	}
	return m.client.Set(&memcache.Item{
		Key:        domain.ItemCacheKey(item.Header().ID),
		Value:      value,
		Expiration: int32(m.ttl / time.Second),
	})
}

// Ping checks that every server is reachable.
func (m *Memcache) Ping() error {
	return m.client.Ping()
}
