package domain

import (
	"context"
	"time"
)

// ItemSource fetches single items by id.
// Implementations must be safe for concurrent use.
type ItemSource interface {
	// Fetch returns the item with the given id.
	// Unknown ids return ErrItemNotFound.
	Fetch(ctx context.Context, id ID) (Item, error)
}

// ItemSourceFunc adapts a function to ItemSource.
type ItemSourceFunc func(ctx context.Context, id ID) (Item, error)

// Fetch calls f.
func (f ItemSourceFunc) Fetch(ctx context.Context, id ID) (Item, error) {
	return f(ctx, id)
}

// FlatRecordSource yields the comments of a rendered thread page
// in document order.
type FlatRecordSource interface {
	// Records returns every comment record of the thread rooted at rootID.
	Records(ctx context.Context, rootID ID) ([]FlatCommentRecord, error)
}

// FeedSource lists the ids of a story feed.
type FeedSource interface {
	// Feed returns the ranked ids of the named feed.
	Feed(ctx context.Context, feed Feed) ([]ID, error)
}

// ItemCache stores encoded items between fetches.
type ItemCache interface {
	// Get returns the cached item, or false on a miss.
	Get(ctx context.Context, id ID) (Item, bool)

	// Set stores the item.
	Set(ctx context.Context, item Item) error
}

// Logger writes categorized log lines, optionally routed to a thread log.
// A threadID of 0 logs only to the global log.
type Logger interface {
	Info(threadID ID, category, msg string)
	Debug(threadID ID, category, msg string)
	Warn(threadID ID, category, msg string)
	Error(threadID ID, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (local + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager writes configuration files.
type ConfigManager interface {
	// InitGlobalConfig writes the template config to the global config path.
	InitGlobalConfig(cfg *Config) error

	// GlobalConfigPath returns the global config file path.
	GlobalConfigPath() string

	// LocalConfigPath returns the local config file path.
	LocalConfigPath() string
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
