package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/testutil"
)

func commentMap(comments ...*domain.Comment) map[domain.ID]*domain.Comment {
	m := make(map[domain.ID]*domain.Comment, len(comments))
	for _, c := range comments {
		m[c.ID] = c
	}
	return m
}

func TestBuildFromLinks_PreservesKidsOrder(t *testing.T) {
	comments := commentMap(
		testutil.NewComment(30, 100),
		testutil.NewComment(10, 100, 12, 11),
		testutil.NewComment(20, 100),
		testutil.NewComment(11, 10),
		testutil.NewComment(12, 10),
	)

	forest, err := BuildFromLinks([]domain.ID{20, 10, 30}, comments, LinkOptions{RootID: 100})

	require.NoError(t, err)
	want := []shape{
		leaf(20, 0),
		{ID: 10, Kids: []shape{leaf(12, 1), leaf(11, 1)}},
		leaf(30, 0),
	}
	if diff := cmp.Diff(want, shapeOf(forest)); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, comments, "builder drains the map")
}

func TestBuildFromLinks_DepthChain(t *testing.T) {
	comments := commentMap(
		testutil.NewComment(1, 100, 2),
		testutil.NewComment(2, 1, 3),
		testutil.NewComment(3, 2, 4),
		testutil.NewComment(4, 3),
	)

	forest, err := BuildFromLinks([]domain.ID{1}, comments, LinkOptions{})

	require.NoError(t, err)
	var depths []int
	forest.Walk(func(n *domain.CommentNode) bool {
		depths = append(depths, n.Depth)
		return true
	})
	assert.Equal(t, []int{0, 1, 2, 3}, depths)
}

func TestBuildFromLinks_Orphans(t *testing.T) {
	comments := commentMap(
		testutil.NewComment(1, 100),
		testutil.NewComment(9, 8),
		testutil.NewComment(7, 6),
	)

	forest, err := BuildFromLinks([]domain.ID{1}, comments, LinkOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOrphanedComments)
	var orphans *domain.OrphanedCommentsError
	require.ErrorAs(t, err, &orphans)
	assert.Equal(t, []domain.ID{7, 9}, orphans.IDs)

	if diff := cmp.Diff([]shape{leaf(1, 0)}, shapeOf(forest)); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFromLinks_MissingComment(t *testing.T) {
	comments := commentMap(
		testutil.NewComment(1, 100, 2, 3),
		testutil.NewComment(2, 1),
	)

	_, err := BuildFromLinks([]domain.ID{1}, comments, LinkOptions{RootID: 100})

	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	var missing *domain.MissingCommentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, domain.ID(3), missing.ID)
	assert.Equal(t, domain.ID(1), missing.Parent)
}

func TestBuildFromLinks_MissingTopLevelNamesRoot(t *testing.T) {
	_, err := BuildFromLinks([]domain.ID{5}, commentMap(), LinkOptions{RootID: 100})

	var missing *domain.MissingCommentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, domain.ID(100), missing.Parent)
}

func TestBuildFromLinks_SkipsDropped(t *testing.T) {
	comments := commentMap(
		testutil.NewComment(1, 100, 2, 3),
		testutil.NewComment(3, 1),
	)

	forest, err := BuildFromLinks([]domain.ID{1, 4}, comments, LinkOptions{
		Dropped: map[domain.ID]bool{2: true, 4: true},
	})

	require.NoError(t, err)
	want := []shape{{ID: 1, Kids: []shape{leaf(3, 1)}}}
	if diff := cmp.Diff(want, shapeOf(forest)); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFromLinks_MaxDepth(t *testing.T) {
	build := func(maxDepth int) error {
		comments := commentMap(
			testutil.NewComment(1, 100, 2),
			testutil.NewComment(2, 1, 3),
			testutil.NewComment(3, 2),
		)
		_, err := BuildFromLinks([]domain.ID{1}, comments, LinkOptions{MaxDepth: maxDepth})
		return err
	}

	assert.ErrorIs(t, build(1), domain.ErrMaxDepthExceeded)
	assert.NoError(t, build(2))
	assert.NoError(t, build(0))
}

func TestBuildFromLinks_Empty(t *testing.T) {
	forest, err := BuildFromLinks(nil, commentMap(), LinkOptions{})

	require.NoError(t, err)
	assert.Empty(t, forest)
}
