package domain

import (
	"strconv"
	"time"
)

// ID identifies an item in the remote store.
// IDs are assigned by the store and are never reused.
type ID int64

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a decimal item ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, ErrInvalidItemID
	}
	return ID(n), nil
}

// ItemType is the discriminator the store uses for each item variant.
type ItemType string

// Item types as reported by the store.
const (
	ItemTypeStory      ItemType = "story"
	ItemTypeComment    ItemType = "comment"
	ItemTypeJob        ItemType = "job"
	ItemTypePoll       ItemType = "poll"
	ItemTypePollOption ItemType = "pollopt"
)

// IsValid reports whether the type is one of the known variants.
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeStory, ItemTypeComment, ItemTypeJob, ItemTypePoll, ItemTypePollOption:
		return true
	}
	return false
}

// Item is the sealed sum type over every variant the store can return.
// Switch on the concrete type; the variant set is closed.
//
// go-sumtype:decl Item
type Item interface {
	Header() *ItemHeader
	Type() ItemType
	sealed()
}

// ItemHeader holds the fields every variant carries.
// Kids lists child ids in the store's ranked display order.
type ItemHeader struct {
	Time    time.Time
	By      string
	Text    string
	Kids    []ID
	ID      ID
	Deleted bool
	Dead    bool
}

// Header returns the shared header.
func (h *ItemHeader) Header() *ItemHeader { return h }

// Listing holds the display fields of items that can head a thread.
type Listing struct {
	Title       string
	URL         string
	Score       int
	Descendants int
}

// Story is a link or text submission.
type Story struct {
	ItemHeader
	Listing
}

// Comment is a reply to a story, poll or another comment.
type Comment struct {
	ItemHeader
	Parent ID
}

// Job is a job listing.
type Job struct {
	ItemHeader
	Listing
}

// Poll is a poll submission; Parts lists its options.
type Poll struct {
	ItemHeader
	Listing
	Parts []ID
}

// PollOption is a single option of a poll.
type PollOption struct {
	ItemHeader
	Poll  ID
	Score int
}

// Type implementations.
func (*Story) Type() ItemType      { return ItemTypeStory }
func (*Comment) Type() ItemType    { return ItemTypeComment }
func (*Job) Type() ItemType        { return ItemTypeJob }
func (*Poll) Type() ItemType       { return ItemTypePoll }
func (*PollOption) Type() ItemType { return ItemTypePollOption }

func (*Story) sealed()      {}
func (*Comment) sealed()    {}
func (*Job) sealed()        {}
func (*Poll) sealed()       {}
func (*PollOption) sealed() {}

// ThreadRoot is an item that can head a discussion thread.
// Stories, polls and jobs qualify; comments and poll options do not.
type ThreadRoot interface {
	Item
	Display() *Listing
}

// Display returns the listing fields.
func (s *Story) Display() *Listing { return &s.Listing }

// Display returns the listing fields.
func (j *Job) Display() *Listing { return &j.Listing }

// Display returns the listing fields.
func (p *Poll) Display() *Listing { return &p.Listing }

// AsThreadRoot returns the item as a ThreadRoot, or false for
// variants that cannot head a thread.
func AsThreadRoot(item Item) (ThreadRoot, bool) {
	switch it := item.(type) {
	case *Story:
		return it, true
	case *Job:
		return it, true
	case *Poll:
		return it, true
	case *Comment, *PollOption:
		return nil, false
	}
	return nil, false
}

// AsComment returns the item as a Comment, or false for any other variant.
func AsComment(item Item) (*Comment, bool) {
	c, ok := item.(*Comment)
	return c, ok
}

// Removed reports whether the comment has no displayable body.
func (c *Comment) Removed() bool {
	return c.Deleted || c.Dead
}
