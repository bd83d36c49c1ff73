package tree

import (
	"fmt"

	"github.com/runoshun/hnthread/internal/domain"
)

// LinkOptions configures BuildFromLinks.
type LinkOptions struct {
	// Dropped holds ids the fetch phase discarded on purpose; they are skipped.
	Dropped map[domain.ID]bool
	// RootID is reported as the parent of missing top-level comments.
	RootID domain.ID
	// MaxDepth rejects nodes deeper than this. Zero means unbounded.
	MaxDepth int
}

// BuildFromLinks assembles a forest by following rootKids and then each
// comment's Kids, in listed order.
//
// Every attached comment is removed from comments. A listed id that is neither
// present nor dropped is a *domain.MissingCommentError. Entries still left in
// comments afterwards are orphans: the forest is returned together with a
// *domain.OrphanedCommentsError naming them.
func BuildFromLinks(rootKids []domain.ID, comments map[domain.ID]*domain.Comment, opts LinkOptions) (domain.Forest, error) {
	b := &linkBuilder{comments: comments, opts: opts}
	forest, err := b.children(opts.RootID, rootKids, 0)
	if err != nil {
		return nil, err
	}

	if len(comments) > 0 {
		leftover := make([]domain.ID, 0, len(comments))
		for id := range comments {
			leftover = append(leftover, id)
		}
		return forest, domain.NewOrphanedCommentsError(leftover)
	}
	return forest, nil
}

type linkBuilder struct {
	comments map[domain.ID]*domain.Comment
	opts     LinkOptions
}

func (b *linkBuilder) children(parent domain.ID, kids []domain.ID, depth int) (domain.Forest, error) {
	if len(kids) == 0 {
		return nil, nil
	}
	if b.opts.MaxDepth > 0 && depth > b.opts.MaxDepth {
		return nil, fmt.Errorf("replies of %d at depth %d: %w", parent, depth, domain.ErrMaxDepthExceeded)
	}

	var forest domain.Forest
	for _, id := range kids {
		comment, ok := b.comments[id]
		if !ok {
			if b.opts.Dropped[id] {
				continue
			}
			return nil, &domain.MissingCommentError{ID: id, Parent: parent}
		}
		delete(b.comments, id)

		node := &domain.CommentNode{Comment: comment, Depth: depth}
		replies, err := b.children(id, comment.Kids, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = replies
		forest = append(forest, node)
	}
	return forest, nil
}
