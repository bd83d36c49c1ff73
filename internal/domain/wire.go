package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// wireItem is the JSON shape served by the item API.
// Fields are ordered to minimize memory padding.
type wireItem struct {
	Type        ItemType `json:"type"`
	By          string   `json:"by,omitempty"`
	Text        string   `json:"text,omitempty"`
	Title       string   `json:"title,omitempty"`
	URL         string   `json:"url,omitempty"`
	Kids        []ID     `json:"kids,omitempty"`
	Parts       []ID     `json:"parts,omitempty"`
	ID          ID       `json:"id"`
	Time        int64    `json:"time,omitempty"`
	Parent      ID       `json:"parent,omitempty"`
	Poll        ID       `json:"poll,omitempty"`
	Score       int      `json:"score,omitempty"`
	Descendants int      `json:"descendants,omitempty"`
	Deleted     bool     `json:"deleted,omitempty"`
	Dead        bool     `json:"dead,omitempty"`
}

var jsonNull = []byte("null")

// DecodeItem decodes one item from its API JSON form.
// The API answers unknown ids with a literal null, reported as ErrItemNotFound.
func DecodeItem(data []byte) (Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil, ErrItemNotFound
	}

	var w wireItem
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}

	header := ItemHeader{
		ID:      w.ID,
		By:      w.By,
		Text:    w.Text,
		Kids:    w.Kids,
		Deleted: w.Deleted,
		Dead:    w.Dead,
	}
	if w.Time > 0 {
		header.Time = time.Unix(w.Time, 0).UTC()
	}
	listing := Listing{
		Title:       w.Title,
		URL:         w.URL,
		Score:       w.Score,
		Descendants: w.Descendants,
	}

	switch w.Type {
	case ItemTypeStory:
		return &Story{ItemHeader: header, Listing: listing}, nil
	case ItemTypeComment:
		return &Comment{ItemHeader: header, Parent: w.Parent}, nil
	case ItemTypeJob:
		return &Job{ItemHeader: header, Listing: listing}, nil
	case ItemTypePoll:
		return &Poll{ItemHeader: header, Listing: listing, Parts: w.Parts}, nil
	case ItemTypePollOption:
		return &PollOption{ItemHeader: header, Poll: w.Poll, Score: w.Score}, nil
	}
	return nil, fmt.Errorf("decode item %d: unknown type %q", w.ID, w.Type)
}

// EncodeItem encodes an item into the API JSON form accepted by DecodeItem.
func EncodeItem(item Item) ([]byte, error) {
	h := item.Header()
	w := wireItem{
		Type:    item.Type(),
		ID:      h.ID,
		By:      h.By,
		Text:    h.Text,
		Kids:    h.Kids,
		Deleted: h.Deleted,
		Dead:    h.Dead,
	}
	if !h.Time.IsZero() {
		w.Time = h.Time.Unix()
	}

	switch it := item.(type) {
	case *Story:
		fillListing(&w, &it.Listing)
	case *Job:
		fillListing(&w, &it.Listing)
	case *Poll:
		fillListing(&w, &it.Listing)
		w.Parts = it.Parts
	case *Comment:
		w.Parent = it.Parent
	case *PollOption:
		w.Poll = it.Poll
		w.Score = it.Score
	}
	return json.Marshal(w)
}

func fillListing(w *wireItem, l *Listing) {
	w.Title = l.Title
	w.URL = l.URL
	w.Score = l.Score
	w.Descendants = l.Descendants
}
