package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/fetch"
)

// StreamCommentsInput contains the parameters for streaming a thread.
type StreamCommentsInput struct {
	RootID domain.ID // Root item ID (required)
}

// StreamCommentsOutput contains the root and a live comment stream.
// The caller must Close the stream.
type StreamCommentsOutput struct {
	Root   domain.ThreadRoot
	Stream *fetch.Stream
}

// StreamComments fetches a root item and starts unfolding its comments lazily.
type StreamComments struct {
	source domain.ItemSource
	logger domain.Logger
	opts   ThreadOptions
}

// NewStreamComments creates a new StreamComments use case.
func NewStreamComments(source domain.ItemSource, logger domain.Logger, opts ThreadOptions) *StreamComments {
	return &StreamComments{
		source: source,
		logger: logger,
		opts:   opts,
	}
}

// Execute fetches the root and returns a stream over its descendants.
func (uc *StreamComments) Execute(ctx context.Context, in StreamCommentsInput) (*StreamCommentsOutput, error) {
	o := uc.opts.orchestrator(uc.source, uc.logger, in.RootID)

	root, err := fetchThreadRoot(ctx, o, in.RootID)
	if err != nil {
		if !isCancelled(err) {
			uc.logger.Error(in.RootID, "stream", err.Error())
		}
		return nil, &domain.AssembleError{RootID: in.RootID, Err: err}
	}
	uc.logger.Info(in.RootID, "stream",
		fmt.Sprintf("streaming %d top-level comments of %d", len(root.Header().Kids), in.RootID))

	return &StreamCommentsOutput{
		Root:   root,
		Stream: o.Unfold(ctx, root.Header().Kids),
	}, nil
}
