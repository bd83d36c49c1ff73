// Package hnweb reads comment records from rendered Hacker News item pages.
package hnweb

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/runoshun/hnthread/internal/domain"
)

// ParseRecords extracts comment records from an item page in document order.
//
// A record's indent is the width of its spacer image. Pages that only carry
// an indent level attribute are converted with step pixels per level.
func ParseRecords(r io.Reader, step int) ([]domain.FlatCommentRecord, error) {
	if step <= 0 {
		step = domain.DefaultIndentStep
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var (
		records []domain.FlatCommentRecord
		walkErr error
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if walkErr != nil {
			return
		}
		if n.DataAtom == atom.Tr && hasClass(n, "comtr") {
			rec, err := parseRecord(n, step)
			if err != nil {
				walkErr = err
				return
			}
			records = append(records, rec)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if walkErr != nil {
		return nil, walkErr
	}
	return records, nil
}

func parseRecord(row *html.Node, step int) (domain.FlatCommentRecord, error) {
	var rec domain.FlatCommentRecord

	id, err := domain.ParseID(attr(row, "id"))
	if err != nil {
		return rec, fmt.Errorf("comment row id %q: %w", attr(row, "id"), err)
	}
	rec.ID = id

	if ind := find(row, func(n *html.Node) bool { return n.DataAtom == atom.Td && hasClass(n, "ind") }); ind != nil {
		rec.Indent, err = indentOf(ind, step)
		if err != nil {
			return rec, fmt.Errorf("comment %d: %w", id, err)
		}
	}

	if user := find(row, func(n *html.Node) bool { return n.DataAtom == atom.A && hasClass(n, "hnuser") }); user != nil {
		rec.User = strings.TrimSpace(textOf(user))
	}

	if body := find(row, func(n *html.Node) bool { return hasClass(n, "commtext") }); body != nil {
		rec.Text = strings.TrimSpace(textOf(body))
	}
	return rec, nil
}

// indentOf reads the spacer width of an indent cell, falling back to its
// indent level attribute.
func indentOf(cell *html.Node, step int) (int, error) {
	if img := find(cell, func(n *html.Node) bool { return n.DataAtom == atom.Img }); img != nil {
		if w := attr(img, "width"); w != "" {
			return strconv.Atoi(w)
		}
	}
	if level := attr(cell, "indent"); level != "" {
		n, err := strconv.Atoi(level)
		if err != nil {
			return 0, fmt.Errorf("indent level %q: %w", level, err)
		}
		return n * step, nil
	}
	return 0, nil
}

// textOf returns the visible text below n. Paragraphs are separated by a
// blank line and reply links are skipped.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch {
			case n.DataAtom == atom.P:
				b.WriteString("\n\n")
			case n.DataAtom == atom.Br:
				b.WriteString("\n")
			case hasClass(n, "reply"):
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// find returns the first node below n, in document order, matching pred.
func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if pred(c) {
			return c
		}
		if found := find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// PlainText renders an HTML comment body, as returned by the item API, as
// plain text.
func PlainText(body string) string {
	if !strings.ContainsAny(body, "<&") {
		return body
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(body), ctx)
	if err != nil {
		return body
	}
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(textOf(n))
	}
	return strings.TrimSpace(b.String())
}
