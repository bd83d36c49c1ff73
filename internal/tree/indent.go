// Package tree reconstructs comment forests from fetched data.
//
// Two builders are provided: BuildFromRecords nests flat records by their
// rendered indentation, BuildFromLinks follows the kids lists items report
// about themselves. A thread is assembled with one or the other, never both.
package tree

import (
	"fmt"

	"github.com/runoshun/hnthread/internal/domain"
)

// IndentOptions configures BuildFromRecords.
type IndentOptions struct {
	// Step is the indent width of one nesting level. Zero means domain.DefaultIndentStep.
	Step int
	// MaxDepth rejects nodes deeper than this. Zero means unbounded.
	MaxDepth int
}

// BuildFromRecords nests records, given in document order, into a forest.
//
// Only indent deltas matter: a record whose indent exceeds the current parent's
// by at most Step is its child, a larger jump descends into the parent's last
// child, and anything not deeper than the parent closes the parent's scope.
// Records that close every scope become new top-level roots whatever their
// absolute indent.
func BuildFromRecords(records []domain.FlatCommentRecord, opts IndentOptions) (domain.Forest, error) {
	if opts.Step <= 0 {
		opts.Step = domain.DefaultIndentStep
	}
	for i, rec := range records {
		if rec.Indent < 0 {
			return nil, &domain.StructuralViolationError{
				Reason:   "negative indent",
				Position: i,
				ID:       rec.ID,
				Indent:   rec.Indent,
			}
		}
	}

	b := &indentBuilder{records: records, opts: opts}
	var forest domain.Forest
	for b.pos < len(b.records) {
		rec := b.pop()
		root := recordNode(rec, 0, 0)
		if err := b.attach(root, rec.Indent); err != nil {
			return nil, err
		}
		forest = append(forest, root)
	}
	return forest, nil
}

// indentBuilder consumes records front to back; the call stack mirrors tree depth.
type indentBuilder struct {
	records []domain.FlatCommentRecord
	opts    IndentOptions
	pos     int
}

func (b *indentBuilder) pop() domain.FlatCommentRecord {
	rec := b.records[b.pos]
	b.pos++
	return rec
}

// attach consumes every record belonging to parent's subtree.
func (b *indentBuilder) attach(parent *domain.CommentNode, parentIndent int) error {
	var (
		last       *domain.CommentNode
		lastIndent int
	)
	for b.pos < len(b.records) {
		next := b.records[b.pos]
		delta := next.Indent - parentIndent

		switch {
		case delta <= 0:
			return nil

		case delta <= b.opts.Step:
			depth := parent.Depth + 1
			if b.opts.MaxDepth > 0 && depth > b.opts.MaxDepth {
				return fmt.Errorf("comment %d at depth %d: %w", next.ID, depth, domain.ErrMaxDepthExceeded)
			}
			b.pop()
			child := recordNode(next, parent.Comment.ID, depth)
			parent.Children = append(parent.Children, child)
			parent.Comment.Kids = append(parent.Comment.Kids, next.ID)
			last, lastIndent = child, next.Indent

		default:
			if last == nil {
				return &domain.StructuralViolationError{
					Reason:       "indent jumps more than one level with no parent",
					Position:     b.pos,
					ID:           next.ID,
					Indent:       next.Indent,
					ParentIndent: parentIndent,
				}
			}
			if err := b.attach(last, lastIndent); err != nil {
				return err
			}
		}
	}
	return nil
}

func recordNode(rec domain.FlatCommentRecord, parent domain.ID, depth int) *domain.CommentNode {
	return &domain.CommentNode{
		Comment: &domain.Comment{
			ItemHeader: domain.ItemHeader{
				ID:   rec.ID,
				By:   rec.User,
				Text: rec.Text,
			},
			Parent: parent,
		},
		Depth: depth,
	}
}
