package itemcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/runoshun/hnthread/internal/domain"
)

// Ensure Memory implements domain.ItemCache.
var _ domain.ItemCache = (*Memory)(nil)

// Memory is an in-process LRU cache with per-entry expiry.
type Memory struct {
	lru *expirable.LRU[domain.ID, domain.Item]
}

// NewMemory creates a cache holding at most size items for ttl each.
// A ttl of 0 keeps entries until evicted.
func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = domain.DefaultCacheSize
	}
	return &Memory{lru: expirable.NewLRU[domain.ID, domain.Item](size, nil, ttl)}
}

// Get returns the cached item.
func (m *Memory) Get(_ context.Context, id domain.ID) (domain.Item, bool) {
	return m.lru.Get(id)
}

// Set stores the item.
func (m *Memory) Set(_ context.Context, item domain.Item) error {
	m.lru.Add(item.Header().ID, item)
	return nil
}

// Len returns the number of cached items.
func (m *Memory) Len() int {
	return m.lru.Len()
}
