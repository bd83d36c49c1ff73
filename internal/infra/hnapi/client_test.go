package hnapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/hnthread/internal/domain"
)

func newServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if body == "500" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch(t *testing.T) {
	srv := newServer(t, map[string]string{
		"/v0/item/8863.json":    `{"by":"dhouston","descendants":71,"id":8863,"kids":[8952,9224],"score":111,"time":1175714200,"title":"My YC app","type":"story","url":"http://www.getdropbox.com/u/2/screencast.html"}`,
		"/v0/item/2921983.json": `{"by":"norvig","id":2921983,"kids":[2922097],"parent":2921506,"text":"Aw shucks","time":1314211127,"type":"comment"}`,
		"/v0/item/1.json":       `null`,
		"/v0/item/2.json":       `500`,
		"/v0/item/3.json":       `{"id":3,`,
	})
	c := New(srv.URL+"/v0", time.Second)
	ctx := context.Background()

	t.Run("story", func(t *testing.T) {
		item, err := c.Fetch(ctx, 8863)
		require.NoError(t, err)
		story, ok := item.(*domain.Story)
		require.True(t, ok)
		assert.Equal(t, "My YC app", story.Title)
		assert.Equal(t, []domain.ID{8952, 9224}, story.Kids)
		assert.Equal(t, 71, story.Descendants)
		assert.Equal(t, time.Unix(1175714200, 0).UTC(), story.Time)
	})

	t.Run("comment", func(t *testing.T) {
		item, err := c.Fetch(ctx, 2921983)
		require.NoError(t, err)
		comment, ok := domain.AsComment(item)
		require.True(t, ok)
		assert.Equal(t, domain.ID(2921506), comment.Parent)
		assert.Equal(t, "norvig", comment.By)
	})

	t.Run("null body", func(t *testing.T) {
		_, err := c.Fetch(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("missing route", func(t *testing.T) {
		_, err := c.Fetch(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := c.Fetch(ctx, 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
		assert.NotErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := c.Fetch(ctx, 3)
		assert.Error(t, err)
	})
}

func TestClient_FetchHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL, 5*time.Second).Fetch(ctx, 1)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Feed(t *testing.T) {
	srv := newServer(t, map[string]string{
		"/v0/topstories.json": `[9129911, 9129199, 9127761]`,
		"/v0/askstories.json": `[]`,
	})
	c := New(srv.URL+"/v0/", time.Second)

	ids, err := c.Feed(context.Background(), domain.FeedTop)
	require.NoError(t, err)
	assert.Equal(t, []domain.ID{9129911, 9129199, 9127761}, ids)

	ids, err = c.Feed(context.Background(), domain.FeedAsk)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = c.Feed(context.Background(), "hot")
	assert.ErrorIs(t, err, domain.ErrInvalidFeed)
}
