package hnweb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/runoshun/hnthread/internal/domain"
)

// maxPageSize bounds a single item page.
const maxPageSize = 16 << 20

// Ensure Scraper implements domain.FlatRecordSource.
var _ domain.FlatRecordSource = (*Scraper)(nil)

// Scraper fetches item pages and parses their comment records.
type Scraper struct {
	http       *http.Client
	webURL     string
	indentStep int
}

// New creates a Scraper for the site rooted at webURL.
func New(webURL string, timeout time.Duration, indentStep int) *Scraper {
	return NewWithHTTPClient(webURL, &http.Client{Timeout: timeout}, indentStep)
}

// NewWithHTTPClient creates a Scraper using the given http.Client.
func NewWithHTTPClient(webURL string, hc *http.Client, indentStep int) *Scraper {
	return &Scraper{http: hc, webURL: webURL, indentStep: indentStep}
}

// Records returns the comment records on the item page of rootID.
func (s *Scraper) Records(ctx context.Context, rootID domain.ID) ([]domain.FlatCommentRecord, error) {
	url := domain.ItemPageURL(s.webURL, rootID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.http.Do(req)
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

	return ParseRecords(io.LimitReader(resp.Body, maxPageSize), s.indentStep)
}
