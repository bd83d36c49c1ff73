package cli

import (
	"testing"

	"github.com/runoshun/hnthread/internal/app"
	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/testutil"
)

// testDeps holds the mocks behind a test container.
type testDeps struct {
	items   *testutil.MockItemSource
	records *testutil.MockFlatRecordSource
	feeds   *testutil.MockFeedSource
	logger  *testutil.MockLogger
}

// newTestContainer creates an app.Container over mocks holding the thread
//
//	100
//	├── 1
//	│   └── 3
//	└── 2
//
// and a top feed of stories 100 and 101.
func newTestContainer(t *testing.T) *app.Container {
	c, _ := newTestContainerWithDeps(t)
	return c
}

func newTestContainerWithDeps(t *testing.T) (*app.Container, *testDeps) {
	t.Helper()

	deps := &testDeps{
		items: testutil.NewMockItemSource(
			testutil.NewStory(100, 1, 2),
			testutil.NewStory(101),
			testutil.NewComment(1, 100, 3),
			testutil.NewComment(2, 100),
			testutil.NewComment(3, 1),
		),
		records: testutil.NewMockFlatRecordSource(),
		feeds:   testutil.NewMockFeedSource(),
		logger:  &testutil.MockLogger{},
	}
	deps.feeds.Feeds[domain.FeedTop] = []domain.ID{100, 101}

	c := app.NewWithDeps(app.Config{WorkDir: t.TempDir()}, nil, deps.items, deps.records, deps.feeds, deps.logger)
	c.ConfigLoader = testutil.NewMockConfigLoader()
	c.ConfigManager = testutil.NewMockConfigManager()
	return c, deps
}
