// Package hnapi reads items and feeds from the Hacker News item API.
package hnapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/runoshun/hnthread/internal/domain"
)

// maxBodySize bounds a single response body.
const maxBodySize = 4 << 20

// Ensure Client implements the domain sources.
var (
	_ domain.ItemSource = (*Client)(nil)
	_ domain.FeedSource = (*Client)(nil)
)

// Client fetches items over HTTP. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient creates a Client using the given http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{http: hc, baseURL: baseURL}
}

// Fetch returns the item with the given id.
func (c *Client) Fetch(ctx context.Context, id domain.ID) (domain.Item, error) {
	body, err := c.get(ctx, domain.ItemURL(c.baseURL, id))
	if err != nil {
		return nil, err
	}
	item, err := domain.DecodeItem(body)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", id, err)
	}
	return item, nil
}

// Feed returns the ranked ids of a feed.
func (c *Client) Feed(ctx context.Context, feed domain.Feed) ([]domain.ID, error) {
	if !feed.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFeed, feed)
	}
	body, err := c.get(ctx, domain.FeedURL(c.baseURL, feed))
	if err != nil {
		return nil, err
	}
	var ids []domain.ID
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", feed, err)
	}
	return ids, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("GET %s: %w", url, domain.ErrItemNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}
