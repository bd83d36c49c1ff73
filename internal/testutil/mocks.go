// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/hnthread/internal/domain"
)

// ErrTransient is the failure injected by MockItemSource.FailFirst.
var ErrTransient = errors.New("transient failure")

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockItemSource is a test double for domain.ItemSource backed by a map.
// It is safe for concurrent use.
// Fields are ordered to minimize memory padding.
type MockItemSource struct {
	Items map[domain.ID]domain.Item
	// FailFirst makes the first N fetches of an id fail with ErrTransient.
	FailFirst map[domain.ID]int
	// MissingFirst makes the first N fetches of an id report domain.ErrItemNotFound.
	MissingFirst map[domain.ID]int
	// Errs makes every fetch of an id fail with the given error.
	Errs  map[domain.ID]error
	calls map[domain.ID]int
	// Block, when set, holds every fetch until it is closed or ctx ends.
	Block chan struct{}
	// Delay sleeps before each fetch returns.
	Delay       time.Duration
	mu          sync.Mutex
	inflight    int
	maxInflight int
	total       int
}

// NewMockItemSource creates a MockItemSource serving the given items.
func NewMockItemSource(items ...domain.Item) *MockItemSource {
	m := &MockItemSource{
		Items:        make(map[domain.ID]domain.Item),
		FailFirst:    make(map[domain.ID]int),
		MissingFirst: make(map[domain.ID]int),
		Errs:         make(map[domain.ID]error),
		calls:        make(map[domain.ID]int),
	}
	for _, it := range items {
		m.Items[it.Header().ID] = it
	}
	return m
}

// Ensure MockItemSource implements domain.ItemSource interface.
var _ domain.ItemSource = (*MockItemSource)(nil)

// Fetch returns the configured item or error.
func (m *MockItemSource) Fetch(ctx context.Context, id domain.ID) (domain.Item, error) {
	m.mu.Lock()
	m.calls[id]++
	m.total++
	call := m.calls[id]
	m.inflight++
	if m.inflight > m.maxInflight {
		m.maxInflight = m.inflight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inflight--
		m.mu.Unlock()
	}()

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.Errs[id]; ok {
		return nil, err
	}
	if call <= m.MissingFirst[id] {
		return nil, domain.ErrItemNotFound
	}
	if call <= m.FailFirst[id] {
		return nil, fmt.Errorf("item %d attempt %d: %w", id, call, ErrTransient)
	}
	item, ok := m.Items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

// Calls returns how many times id was fetched.
func (m *MockItemSource) Calls(id domain.ID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

// TotalCalls returns the number of fetches across all ids.
func (m *MockItemSource) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// MaxInFlight returns the highest number of concurrent fetches observed.
func (m *MockItemSource) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInflight
}

// MockFlatRecordSource is a test double for domain.FlatRecordSource.
type MockFlatRecordSource struct {
	ByRoot map[domain.ID][]domain.FlatCommentRecord
	Err    error
}

// NewMockFlatRecordSource creates a new MockFlatRecordSource.
func NewMockFlatRecordSource() *MockFlatRecordSource {
	return &MockFlatRecordSource{
		ByRoot: make(map[domain.ID][]domain.FlatCommentRecord),
	}
}

// Ensure MockFlatRecordSource implements domain.FlatRecordSource interface.
var _ domain.FlatRecordSource = (*MockFlatRecordSource)(nil)

// Records returns the configured records or error.
func (m *MockFlatRecordSource) Records(_ context.Context, rootID domain.ID) ([]domain.FlatCommentRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ByRoot[rootID], nil
}

// MockFeedSource is a test double for domain.FeedSource.
type MockFeedSource struct {
	Feeds map[domain.Feed][]domain.ID
	Err   error
}

// NewMockFeedSource creates a new MockFeedSource.
func NewMockFeedSource() *MockFeedSource {
	return &MockFeedSource{
		Feeds: make(map[domain.Feed][]domain.ID),
	}
}

// Ensure MockFeedSource implements domain.FeedSource interface.
var _ domain.FeedSource = (*MockFeedSource)(nil)

// Feed returns the configured ids or error.
func (m *MockFeedSource) Feed(_ context.Context, feed domain.Feed) ([]domain.ID, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Feeds[feed], nil
}

// LogEntry is one line recorded by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	ThreadID domain.ID
}

// MockLogger records log lines. It is safe for concurrent use.
type MockLogger struct {
	entries []LogEntry
	mu      sync.Mutex
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) record(level string, threadID domain.ID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, ThreadID: threadID, Category: category, Msg: msg})
}

// Info records an INFO line.
func (m *MockLogger) Info(threadID domain.ID, category, msg string) {
	m.record("INFO", threadID, category, msg)
}

// Debug records a DEBUG line.
func (m *MockLogger) Debug(threadID domain.ID, category, msg string) {
	m.record("DEBUG", threadID, category, msg)
}

// Warn records a WARN line.
func (m *MockLogger) Warn(threadID domain.ID, category, msg string) {
	m.record("WARN", threadID, category, msg)
}

// Error records an ERROR line.
func (m *MockLogger) Error(threadID domain.ID, category, msg string) {
	m.record("ERROR", threadID, category, msg)
}

// Entries returns the recorded lines, optionally filtered by level.
func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitGlobalErr    error
	InitConfig       *domain.Config
	GlobalPath       string
	LocalPath        string
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		GlobalPath: "/home/test/.config/hnthread/config.toml",
		LocalPath:  "/work/.hnthread/config.toml",
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) error {
	m.InitGlobalCalled = true
	m.InitConfig = cfg
	return m.InitGlobalErr
}

// GlobalConfigPath returns the configured path.
func (m *MockConfigManager) GlobalConfigPath() string {
	return m.GlobalPath
}

// LocalConfigPath returns the configured path.
func (m *MockConfigManager) LocalConfigPath() string {
	return m.LocalPath
}
