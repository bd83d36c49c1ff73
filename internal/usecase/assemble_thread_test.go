package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/testutil"
	"github.com/runoshun/hnthread/internal/usecase"
)

func topLevelIDs(f domain.Forest) []domain.ID {
	ids := make([]domain.ID, 0, len(f))
	for _, n := range f {
		ids = append(ids, n.Comment.ID)
	}
	return ids
}

func newAssembler(src domain.ItemSource, records domain.FlatRecordSource) *usecase.AssembleThread {
	return usecase.NewAssembleThread(src, records, &testutil.MockLogger{}, usecase.ThreadOptions{MaxInFlight: 4})
}

func TestAssembleThread_PreservesKidsOrder(t *testing.T) {
	// Make the first kid the slowest so completion order differs from kids order.
	base := testutil.NewMockItemSource(
		testutil.NewStory(100, 1, 2, 3),
		testutil.NewComment(1, 100),
		testutil.NewComment(2, 100),
		testutil.NewComment(3, 100),
	)
	src := domain.ItemSourceFunc(func(ctx context.Context, id domain.ID) (domain.Item, error) {
		if id == 1 {
			time.Sleep(10 * time.Millisecond)
		}
		return base.Fetch(ctx, id)
	})

	out, err := newAssembler(src, nil).Execute(context.Background(), usecase.AssembleThreadInput{RootID: 100})

	require.NoError(t, err)
	assert.Equal(t, domain.ID(100), out.Thread.Root.Header().ID)
	assert.Equal(t, []domain.ID{1, 2, 3}, topLevelIDs(out.Thread.Comments))
	assert.Empty(t, out.Thread.Orphans)
}

func TestAssembleThread_NestedReplies(t *testing.T) {
	src := testutil.NewMockItemSource(
		testutil.NewStory(100, 1),
		testutil.NewComment(1, 100, 2),
		testutil.NewComment(2, 1, 3),
		testutil.NewComment(3, 2),
	)
	src.FailFirst[2] = 2

	out, err := newAssembler(src, nil).Execute(context.Background(), usecase.AssembleThreadInput{RootID: 100})

	require.NoError(t, err)
	assert.Equal(t, 3, out.Thread.Comments.Count())
	assert.Equal(t, 2, out.Thread.Comments.MaxDepth())
	assert.Equal(t, 5, out.Fetches)
}

func TestAssembleThread_KidNotYetServed(t *testing.T) {
	src := testutil.NewMockItemSource(
		testutil.NewStory(100, 1, 2),
		testutil.NewComment(1, 100),
		testutil.NewComment(2, 100),
	)
	src.MissingFirst[2] = 1

	out, err := newAssembler(src, nil).Execute(context.Background(), usecase.AssembleThreadInput{RootID: 100})

	require.NoError(t, err)
	assert.Equal(t, []domain.ID{1, 2}, topLevelIDs(out.Thread.Comments))
	assert.Equal(t, 2, src.Calls(2))
}

func TestAssembleThread_DropsNonCommentKids(t *testing.T) {
	src := testutil.NewMockItemSource(
		testutil.NewStory(100, 1, 2, 3),
		testutil.NewComment(1, 100),
		testutil.NewStory(2),
		testutil.NewComment(3, 100),
	)

	out, err := newAssembler(src, nil).Execute(context.Background(), usecase.AssembleThreadInput{RootID: 100})

	require.NoError(t, err)
	assert.Equal(t, []domain.ID{1, 3}, topLevelIDs(out.Thread.Comments))
	assert.Equal(t, []domain.ID{2}, out.Dropped)
}

func TestAssembleThread_UnsupportedRoot(t *testing.T) {
	src := testutil.NewMockItemSource(testutil.NewComment(5, 4))

	out, err := newAssembler(src, nil).Execute(context.Background(), usecase.AssembleThreadInput{RootID: 5})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrUnsupportedRootType)

	var asmErr *domain.AssembleError
	require.ErrorAs(t, err, &asmErr)
	assert.Equal(t, domain.ID(5), asmErr.RootID)

	var typeErr *domain.UnexpectedItemTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, domain.ItemTypeComment, typeErr.Actual)
}

func TestAssembleThread_JobAndPollRoots(t *testing.T) {
	job := &domain.Job{ItemHeader: domain.ItemHeader{ID: 7}, Listing: domain.Listing{Title: "Hiring"}}
	poll := &domain.Poll{ItemHeader: domain.ItemHeader{ID: 8, Kids: []domain.ID{9}}, Parts: []domain.ID{81, 82}}
	src := testutil.NewMockItemSource(job, poll, testutil.NewComment(9, 8))

	out, err := newAssembler(src, nil).Execute(context.Background(), usecase.AssembleThreadInput{RootID: 7})
	require.NoError(t, err)
	assert.Equal(t, "Hiring", out.Thread.Root.Display().Title)
	assert.Empty(t, out.Thread.Comments)

	out, err = newAssembler(src, nil).Execute(context.Background(), usecase.AssembleThreadInput{RootID: 8})
	require.NoError(t, err)
	assert.Equal(t, []domain.ID{9}, topLevelIDs(out.Thread.Comments))
}

func TestAssembleThread_RootFetchFails(t *testing.T) {
	src := testutil.NewMockItemSource()
	boom := errors.New("boom")
	src.Errs[100] = boom

	uc := usecase.NewAssembleThread(src, nil, &testutil.MockLogger{}, usecase.ThreadOptions{
		Retry: domain.RetryPolicy{MaxAttempts: 2},
	})
	_, err := uc.Execute(context.Background(), usecase.AssembleThreadInput{RootID: 100})

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.Equal(t, 2, src.Calls(100))
}

func TestAssembleThread_CommentFetchExhausted(t *testing.T) {
	src := testutil.NewMockItemSource(
		testutil.NewStory(100, 1),
		testutil.NewComment(1, 100),
	)
	src.FailFirst[1] = 3

	uc := usecase.NewAssembleThread(src, nil, &testutil.MockLogger{}, usecase.ThreadOptions{
		Retry: domain.RetryPolicy{MaxAttempts: 3},
	})
	out, err := uc.Execute(context.Background(), usecase.AssembleThreadInput{RootID: 100})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	var asmErr *domain.AssembleError
	assert.ErrorAs(t, err, &asmErr)
}

func TestAssembleThread_InvalidStrategy(t *testing.T) {
	src := testutil.NewMockItemSource(testutil.NewStory(100))

	_, err := newAssembler(src, nil).Execute(context.Background(), usecase.AssembleThreadInput{
		RootID:   100,
		Strategy: "spiral",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidStrategy)
	assert.Zero(t, src.TotalCalls())
}

func TestAssembleThread_IndentStrategy(t *testing.T) {
	src := testutil.NewMockItemSource(testutil.NewStory(100, 1, 4))
	records := testutil.NewMockFlatRecordSource()
	records.ByRoot[100] = []domain.FlatCommentRecord{
		{ID: 1, User: "a", Indent: 0},
		{ID: 2, User: "b", Indent: 40},
		{ID: 3, User: "c", Indent: 80},
		{ID: 4, User: "d", Indent: 40},
	}

	out, err := newAssembler(src, records).Execute(context.Background(), usecase.AssembleThreadInput{
		RootID:   100,
		Strategy: domain.StrategyIndent,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, out.Thread.Comments.Count())
	assert.Equal(t, []domain.ID{1}, topLevelIDs(out.Thread.Comments))
	assert.Equal(t, []domain.ID{2, 4}, topLevelIDs(out.Thread.Comments[0].Children))
	assert.Equal(t, 1, src.TotalCalls(), "indent strategy only fetches the root")
}

func TestAssembleThread_IndentStrategyViolation(t *testing.T) {
	src := testutil.NewMockItemSource(testutil.NewStory(100, 1))
	records := testutil.NewMockFlatRecordSource()
	records.ByRoot[100] = []domain.FlatCommentRecord{
		{ID: 1, Indent: 0},
		{ID: 2, Indent: 80},
	}

	_, err := newAssembler(src, records).Execute(context.Background(), usecase.AssembleThreadInput{
		RootID:   100,
		Strategy: domain.StrategyIndent,
	})

	assert.ErrorIs(t, err, domain.ErrStructuralViolation)
}

func TestAssembleThread_IndentWithoutRecordSource(t *testing.T) {
	src := testutil.NewMockItemSource(testutil.NewStory(100))

	_, err := newAssembler(src, nil).Execute(context.Background(), usecase.AssembleThreadInput{
		RootID:   100,
		Strategy: domain.StrategyIndent,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidStrategy)
}

func TestAssembleThread_Cancelled(t *testing.T) {
	src := testutil.NewMockItemSource(testutil.NewStory(100, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAssembler(src, nil).Execute(ctx, usecase.AssembleThreadInput{RootID: 100})

	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
