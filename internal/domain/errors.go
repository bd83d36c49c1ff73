package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Domain errors.
var (
	ErrFetchFailed          = errors.New("fetch failed")
	ErrUnexpectedItemType   = errors.New("unexpected item type")
	ErrUnsupportedRootType  = errors.New("unsupported root type")
	ErrOrphanedComments     = errors.New("orphaned comments")
	ErrStructuralViolation  = errors.New("structural violation")
	ErrCancelled            = errors.New("cancelled")
	ErrRetriesExhausted     = errors.New("retries exhausted")
	ErrItemNotFound         = errors.New("item not found")
	ErrMaxDepthExceeded     = errors.New("maximum thread depth exceeded")
	ErrInvalidItemID        = errors.New("invalid item id")
	ErrInvalidStrategy      = errors.New("invalid tree strategy")
	ErrInvalidFeed          = errors.New("invalid feed")
	ErrConfigExists         = errors.New("config file already exists")
	ErrUnknownConfigSection = errors.New("unknown config section")
	ErrLoggingDisabled      = errors.New("file logging is disabled")
	ErrNoLogFile            = errors.New("no log file")
)

// FetchError reports a failed fetch of a single item.
type FetchError struct {
	Err      error
	ID       ID
	Attempts int
}

func (e *FetchError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("fetch item %d (after %d attempts): %v", e.ID, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch item %d: %v", e.ID, e.Err)
}

// Unwrap exposes both ErrFetchFailed and the underlying cause.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}

// UnexpectedItemTypeError reports an item whose variant does not fit its role.
type UnexpectedItemTypeError struct {
	Reason error // ErrUnexpectedItemType or ErrUnsupportedRootType
	Actual ItemType
	Want   string
	ID     ID
}

func (e *UnexpectedItemTypeError) Error() string {
	return fmt.Sprintf("item %d is a %s, want %s", e.ID, e.Actual, e.Want)
}

func (e *UnexpectedItemTypeError) Unwrap() error {
	if e.Reason == nil {
		return ErrUnexpectedItemType
	}
	return e.Reason
}

// OrphanedCommentsError lists fetched comments no parent chain reached.
type OrphanedCommentsError struct {
	IDs []ID
}

func (e *OrphanedCommentsError) Error() string {
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("%d orphaned comments: %s", len(e.IDs), strings.Join(ids, ", "))
}

func (e *OrphanedCommentsError) Unwrap() error { return ErrOrphanedComments }

// NewOrphanedCommentsError builds the error with ids sorted ascending.
func NewOrphanedCommentsError(ids []ID) *OrphanedCommentsError {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return &OrphanedCommentsError{IDs: sorted}
}

// StructuralViolationError reports flat records that cannot form a tree.
// Position is the record's index in the input sequence.
type StructuralViolationError struct {
	Reason       string
	Position     int
	ID           ID
	Indent       int
	ParentIndent int
}

func (e *StructuralViolationError) Error() string {
	return fmt.Sprintf("record %d (comment %d, indent %d, parent indent %d): %s",
		e.Position, e.ID, e.Indent, e.ParentIndent, e.Reason)
}

func (e *StructuralViolationError) Unwrap() error { return ErrStructuralViolation }

// MissingCommentError reports a kid id absent from the fetched comments.
type MissingCommentError struct {
	ID     ID
	Parent ID
}

func (e *MissingCommentError) Error() string {
	return fmt.Sprintf("comment %d listed by %d was never fetched", e.ID, e.Parent)
}

func (e *MissingCommentError) Unwrap() error { return ErrItemNotFound }

// AssembleError wraps any failure of a thread assembly.
type AssembleError struct {
	Err    error
	RootID ID
}

func (e *AssembleError) Error() string {
	return fmt.Sprintf("assemble thread %d: %v", e.RootID, e.Err)
}

func (e *AssembleError) Unwrap() error { return e.Err }
