package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/testutil"
)

// sampleSource serves:
//
//	1
//	├── 3
//	│   └── 5
//	└── 4
//	2
func sampleSource() *testutil.MockItemSource {
	return testutil.NewMockItemSource(
		testutil.NewComment(1, 100, 3, 4),
		testutil.NewComment(2, 100),
		testutil.NewComment(3, 1, 5),
		testutil.NewComment(4, 1),
		testutil.NewComment(5, 3),
	)
}

func keys(m map[domain.ID]*domain.Comment) []domain.ID {
	ids := make([]domain.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

func TestFetchAll_FetchesWholeClosure(t *testing.T) {
	src := sampleSource()
	o := New(src, WithMaxInFlight(2))

	comments, err := o.FetchAll(context.Background(), []domain.ID{1, 2})

	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.ID{1, 2, 3, 4, 5}, keys(comments))
	assert.Equal(t, domain.ID(3), comments[5].Parent)
	for id := domain.ID(1); id <= 5; id++ {
		assert.Equal(t, 1, src.Calls(id), "item %d", id)
	}
}

func TestFetchAll_EmptyKids(t *testing.T) {
	src := sampleSource()
	comments, err := New(src).FetchAll(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Zero(t, src.TotalCalls())
}

func TestFetchAll_DuplicateIDsFetchedOnce(t *testing.T) {
	src := sampleSource()
	comments, err := New(src).FetchAll(context.Background(), []domain.ID{2, 2, 2})

	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Equal(t, 1, src.Calls(2))
}

func TestFetchAll_RetriesUntilSuccess(t *testing.T) {
	src := sampleSource()
	src.FailFirst[3] = 2
	src.FailFirst[2] = 1

	report, err := New(src).Collect(context.Background(), []domain.ID{1, 2})

	require.NoError(t, err)
	assert.Len(t, report.Comments, 5)
	assert.Equal(t, 3, src.Calls(3))
	assert.Equal(t, 2, src.Calls(2))
	assert.Equal(t, 3, report.Retries)
	assert.Equal(t, 8, report.Fetches)
}

func TestFetchAll_RetriesExhausted(t *testing.T) {
	src := sampleSource()
	src.FailFirst[3] = 10

	_, err := New(src, WithRetryPolicy(domain.RetryPolicy{MaxAttempts: 2})).
		FetchAll(context.Background(), []domain.ID{1})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.ErrorIs(t, err, testutil.ErrTransient)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, domain.ID(3), fetchErr.ID)
	assert.Equal(t, 2, fetchErr.Attempts)
	assert.Equal(t, 2, src.Calls(3))
}

func TestFetchAll_MissingItem(t *testing.T) {
	src := sampleSource()

	_, err := New(src, WithRetryPolicy(domain.RetryPolicy{MaxAttempts: 3})).
		FetchAll(context.Background(), []domain.ID{1, 42})

	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Equal(t, 3, src.Calls(42))
}

func TestFetchAll_ItemAppearsLater(t *testing.T) {
	src := sampleSource()
	src.MissingFirst[4] = 2

	comments, err := New(src).FetchAll(context.Background(), []domain.ID{1, 2})

	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.ID{1, 2, 3, 4, 5}, keys(comments))
	assert.Equal(t, 3, src.Calls(4))
}

func TestFetchAll_DropsNonComments(t *testing.T) {
	src := sampleSource()
	src.Items[4] = testutil.NewStory(4)
	logger := &testutil.MockLogger{}

	report, err := New(src, WithLogger(logger), WithThreadID(100)).
		Collect(context.Background(), []domain.ID{1, 2})

	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.ID{1, 2, 3, 5}, keys(report.Comments))
	assert.Equal(t, map[domain.ID]domain.ItemType{4: domain.ItemTypeStory}, report.Dropped)

	warns := logger.Entries("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, domain.ID(100), warns[0].ThreadID)
	assert.Contains(t, warns[0].Msg, "item 4")
}

func TestFetchAll_RespectsMaxInFlight(t *testing.T) {
	kids := make([]domain.ID, 0, 20)
	items := make([]domain.Item, 0, 20)
	for id := domain.ID(1); id <= 20; id++ {
		kids = append(kids, id)
		items = append(items, testutil.NewComment(id, 100))
	}
	src := testutil.NewMockItemSource(items...)
	src.Delay = 2 * time.Millisecond

	comments, err := New(src, WithMaxInFlight(3)).FetchAll(context.Background(), kids)

	require.NoError(t, err)
	assert.Len(t, comments, 20)
	assert.LessOrEqual(t, src.MaxInFlight(), 3)
	assert.Positive(t, src.MaxInFlight())
}

func TestFetchAll_CancelReturnsPartialResult(t *testing.T) {
	started := make(chan struct{})
	src := domain.ItemSourceFunc(func(ctx context.Context, id domain.ID) (domain.Item, error) {
		if id == 1 {
			return testutil.NewComment(1, 100, 2), nil
		}
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-started
		cancel()
	}()

	comments, err := New(src).FetchAll(ctx, []domain.ID{1})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []domain.ID{1}, keys(comments))
}

func TestFetchAll_AlreadyCancelled(t *testing.T) {
	src := sampleSource()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	comments, err := New(src).FetchAll(ctx, []domain.ID{1, 2})

	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.Empty(t, comments)
	assert.Zero(t, src.TotalCalls())
}

func TestFetchItem(t *testing.T) {
	t.Run("retries transient failures", func(t *testing.T) {
		src := sampleSource()
		src.FailFirst[1] = 2

		item, err := New(src).FetchItem(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, domain.ID(1), item.Header().ID)
		assert.Equal(t, 3, src.Calls(1))
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		src := sampleSource()
		src.FailFirst[1] = 5

		_, err := New(src, WithRetryPolicy(domain.RetryPolicy{MaxAttempts: 3})).
			FetchItem(context.Background(), 1)

		assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
		assert.Equal(t, 3, src.Calls(1))
	})

	t.Run("not found is not retried", func(t *testing.T) {
		src := sampleSource()

		_, err := New(src).FetchItem(context.Background(), 99)

		assert.ErrorIs(t, err, domain.ErrItemNotFound)
		assert.Equal(t, 1, src.Calls(99))
	})

	t.Run("permanent error wraps cause", func(t *testing.T) {
		src := sampleSource()
		boom := errors.New("boom")
		src.Errs[1] = boom

		_, err := New(src, WithRetryPolicy(domain.RetryPolicy{MaxAttempts: 1})).
			FetchItem(context.Background(), 1)

		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, err, domain.ErrFetchFailed)
	})
}
