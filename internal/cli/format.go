package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/infra/hnweb"
)

// Output formats of the thread command.
const (
	formatTree = "tree"
	formatJSON = "json"
	formatYAML = "yaml"
)

// threadDoc is the exported form of a thread.
type threadDoc struct {
	Type     domain.ItemType `json:"type" yaml:"type"`
	Title    string          `json:"title" yaml:"title"`
	URL      string          `json:"url,omitempty" yaml:"url,omitempty"`
	By       string          `json:"by" yaml:"by"`
	Time     string          `json:"time" yaml:"time"`
	Comments []commentDoc    `json:"comments" yaml:"comments"`
	Orphans  []domain.ID     `json:"orphans,omitempty" yaml:"orphans,omitempty"`
	ID       domain.ID       `json:"id" yaml:"id"`
	Score    int             `json:"score" yaml:"score"`
}

// commentDoc is the exported form of a comment and its replies.
type commentDoc struct {
	By      string       `json:"by,omitempty" yaml:"by,omitempty"`
	Text    string       `json:"text,omitempty" yaml:"text,omitempty"`
	Time    string       `json:"time,omitempty" yaml:"time,omitempty"`
	Replies []commentDoc `json:"replies,omitempty" yaml:"replies,omitempty"`
	ID      domain.ID    `json:"id" yaml:"id"`
	Depth   int          `json:"depth" yaml:"depth"`
	Deleted bool         `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Dead    bool         `json:"dead,omitempty" yaml:"dead,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func newThreadDoc(t *domain.Thread) threadDoc {
	h := t.Root.Header()
	l := t.Root.Display()
	doc := threadDoc{
		ID:       h.ID,
		Type:     t.Root.Type(),
		Title:    l.Title,
		URL:      l.URL,
		By:       h.By,
		Time:     formatTime(h.Time),
		Score:    l.Score,
		Comments: newCommentDocs(t.Comments),
		Orphans:  t.Orphans,
	}
	if doc.Comments == nil {
		doc.Comments = []commentDoc{}
	}
	return doc
}

func newCommentDocs(nodes []*domain.CommentNode) []commentDoc {
	if len(nodes) == 0 {
		return nil
	}
	docs := make([]commentDoc, 0, len(nodes))
	for _, n := range nodes {
		c := n.Comment
		docs = append(docs, commentDoc{
			ID:      c.ID,
			By:      c.By,
			Text:    hnweb.PlainText(c.Text),
			Time:    formatTime(c.Time),
			Depth:   n.Depth,
			Deleted: c.Deleted,
			Dead:    c.Dead,
			Replies: newCommentDocs(n.Children),
		})
	}
	return docs
}

// writeThread renders the thread in the given format.
func writeThread(w io.Writer, format string, t *domain.Thread) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newThreadDoc(t))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newThreadDoc(t)); err != nil {
			return err
		}
		return enc.Close()
	default:
		writeThreadTree(w, t)
		return nil
	}
}

// writeThreadTree prints the thread as an indented outline.
func writeThreadTree(w io.Writer, t *domain.Thread) {
	writeRootHeader(w, t.Root)
	_, _ = fmt.Fprintf(w, "%d comments\n", t.Comments.Count())

	t.Comments.Walk(func(n *domain.CommentNode) bool {
		_, _ = fmt.Fprintln(w)
		writeComment(w, n)
		return true
	})

	if len(t.Orphans) > 0 {
		ids := make([]string, 0, len(t.Orphans))
		for _, id := range t.Orphans {
			ids = append(ids, id.String())
		}
		_, _ = fmt.Fprintf(w, "\norphaned: %s\n", strings.Join(ids, ", "))
	}
}

// writeRootHeader prints the title lines of a thread root.
func writeRootHeader(w io.Writer, root domain.ThreadRoot) {
	h := root.Header()
	l := root.Display()
	_, _ = fmt.Fprintln(w, l.Title)
	if l.URL != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", l.URL)
	}
	_, _ = fmt.Fprintf(w, "%d points by %s | %s %d\n", l.Score, h.By, root.Type(), h.ID)
}

// writeComment prints one comment indented by its depth.
func writeComment(w io.Writer, n *domain.CommentNode) {
	indent := strings.Repeat("  ", n.Depth)
	c := n.Comment
	if c.Removed() {
		_, _ = fmt.Fprintf(w, "%s[%d] [deleted]\n", indent, c.ID)
		return
	}
	_, _ = fmt.Fprintf(w, "%s[%d] %s\n", indent, c.ID, c.By)
	for _, line := range strings.Split(hnweb.PlainText(c.Text), "\n") {
		_, _ = fmt.Fprintf(w, "%s  %s\n", indent, line)
	}
}
