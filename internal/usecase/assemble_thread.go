package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/tree"
)

// AssembleThreadInput contains the parameters for assembling a thread.
type AssembleThreadInput struct {
	Strategy domain.Strategy // Tree builder; empty means links
	RootID   domain.ID       // Root item ID (required)
	Strict   bool            // Fail when orphaned comments are found
}

// AssembleThreadOutput contains the assembled thread.
type AssembleThreadOutput struct {
	Thread  *domain.Thread
	Dropped []domain.ID // Ids inside the tree that were not comments
	Fetches int         // Item fetches performed for comments, retries included
}

// AssembleThread fetches a root item and materializes its full comment tree.
type AssembleThread struct {
	source  domain.ItemSource
	records domain.FlatRecordSource
	logger  domain.Logger
	opts    ThreadOptions
}

// NewAssembleThread creates a new AssembleThread use case.
// records is only used by the indent strategy and may be nil otherwise.
func NewAssembleThread(source domain.ItemSource, records domain.FlatRecordSource, logger domain.Logger, opts ThreadOptions) *AssembleThread {
	return &AssembleThread{
		source:  source,
		records: records,
		logger:  logger,
		opts:    opts,
	}
}

// Execute assembles the thread. Every failure is returned as a
// *domain.AssembleError; no partial thread is returned with an error.
func (uc *AssembleThread) Execute(ctx context.Context, in AssembleThreadInput) (*AssembleThreadOutput, error) {
	fail := func(err error) (*AssembleThreadOutput, error) {
		uc.logger.Error(in.RootID, "assemble", err.Error())
		return nil, &domain.AssembleError{RootID: in.RootID, Err: err}
	}

	strategy := in.Strategy
	if strategy == "" {
		strategy = domain.StrategyLinks
	}
	if !strategy.IsValid() {
		return fail(fmt.Errorf("%w: %q", domain.ErrInvalidStrategy, strategy))
	}
	if strategy == domain.StrategyIndent && uc.records == nil {
		return fail(fmt.Errorf("%w: indent strategy has no record source", domain.ErrInvalidStrategy))
	}

	o := uc.opts.orchestrator(uc.source, uc.logger, in.RootID)

	root, err := fetchThreadRoot(ctx, o, in.RootID)
	if err != nil {
		return fail(err)
	}
	uc.logger.Info(in.RootID, "assemble",
		fmt.Sprintf("assembling %s %d with %d top-level comments (%s)", root.Type(), in.RootID, len(root.Header().Kids), strategy))

	out := &AssembleThreadOutput{Thread: &domain.Thread{Root: root}}

	switch strategy {
	case domain.StrategyLinks:
		report, err := o.Collect(ctx, root.Header().Kids)
		out.Fetches = report.Fetches
		if err != nil {
			return fail(err)
		}

		dropped := make(map[domain.ID]bool, len(report.Dropped))
		for id := range report.Dropped {
			dropped[id] = true
			out.Dropped = append(out.Dropped, id)
		}
		slices.Sort(out.Dropped)

		forest, err := tree.BuildFromLinks(root.Header().Kids, report.Comments, tree.LinkOptions{
			RootID:   in.RootID,
			MaxDepth: uc.opts.MaxDepth,
			Dropped:  dropped,
		})
		var orphanErr *domain.OrphanedCommentsError
		switch {
		case errors.As(err, &orphanErr):
			if in.Strict {
				return fail(err)
			}
			uc.logger.Warn(in.RootID, "assemble", err.Error())
			out.Thread.Orphans = orphanErr.IDs
		case err != nil:
			return fail(err)
		}
		out.Thread.Comments = forest

	case domain.StrategyIndent:
		records, err := uc.records.Records(ctx, in.RootID)
		if err != nil {
			return fail(fmt.Errorf("read records: %w", err))
		}
		forest, err := tree.BuildFromRecords(records, tree.IndentOptions{
			Step:     uc.opts.IndentStep,
			MaxDepth: uc.opts.MaxDepth,
		})
		if err != nil {
			return fail(err)
		}
		out.Thread.Comments = forest
	}

	uc.logger.Info(in.RootID, "assemble",
		fmt.Sprintf("assembled %d comments, max depth %d", out.Thread.Comments.Count(), out.Thread.Comments.MaxDepth()))
	return out, nil
}
