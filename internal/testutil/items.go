package testutil

import (
	"time"

	"github.com/runoshun/hnthread/internal/domain"
)

// FixedTime is the timestamp given to items built by this package.
var FixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// NewComment builds a comment item.
func NewComment(id, parent domain.ID, kids ...domain.ID) *domain.Comment {
	return &domain.Comment{
		ItemHeader: domain.ItemHeader{
			ID:   id,
			By:   "user" + id.String(),
			Text: "comment " + id.String(),
			Time: FixedTime,
			Kids: kids,
		},
		Parent: parent,
	}
}

// NewStory builds a story item.
func NewStory(id domain.ID, kids ...domain.ID) *domain.Story {
	return &domain.Story{
		ItemHeader: domain.ItemHeader{
			ID:   id,
			By:   "author",
			Time: FixedTime,
			Kids: kids,
		},
		Listing: domain.Listing{
			Title:       "Story " + id.String(),
			URL:         "https://example.com/" + id.String(),
			Score:       100,
			Descendants: 0,
		},
	}
}
