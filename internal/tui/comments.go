package tui

import "github.com/runoshun/hnthread/internal/domain"

// commentRow is one visible comment of the thread view.
type commentRow struct {
	node   *domain.CommentNode
	hidden int // Arrived replies folded under this comment
}

// commentView orders the comments of a streaming thread for display.
// Comments arrive in fetch order; rows follow each parent's kids order and
// include only comments that have arrived.
type commentView struct {
	lookup        func(domain.ID) (*domain.CommentNode, bool)
	collapsed     map[domain.ID]bool
	rootKids      []domain.ID
	rows          []commentRow
	cursor        int
	collapseDepth int
}

func newCommentView(rootKids []domain.ID, lookup func(domain.ID) (*domain.CommentNode, bool), collapseDepth int) *commentView {
	return &commentView{
		lookup:        lookup,
		collapsed:     make(map[domain.ID]bool),
		rootKids:      rootKids,
		collapseDepth: collapseDepth,
	}
}

// add registers an arrived comment and rebuilds the rows.
func (v *commentView) add(n *domain.CommentNode) {
	if v.collapseDepth > 0 && n.Depth >= v.collapseDepth && len(n.Comment.Kids) > 0 {
		v.collapsed[n.Comment.ID] = true
	}
	v.rebuild()
}

// rebuild recomputes the rows, keeping the cursor on the same comment.
func (v *commentView) rebuild() {
	selected := v.selected()

	v.rows = v.rows[:0]
	seen := make(map[domain.ID]bool)
	v.appendRows(v.rootKids, seen)

	if selected != nil {
		for i, r := range v.rows {
			if r.node == selected {
				v.cursor = i
				break
			}
		}
	}
	v.clamp()
}

func (v *commentView) appendRows(ids []domain.ID, seen map[domain.ID]bool) {
	for _, id := range ids {
		if seen[id] {
			continue
		}
		n, ok := v.lookup(id)
		if !ok {
			continue
		}
		seen[id] = true
		if v.collapsed[id] {
			v.rows = append(v.rows, commentRow{node: n, hidden: v.countArrived(n.Comment.Kids, seen)})
			continue
		}
		v.rows = append(v.rows, commentRow{node: n})
		v.appendRows(n.Comment.Kids, seen)
	}
}

// countArrived counts arrived comments below ids and marks them seen.
func (v *commentView) countArrived(ids []domain.ID, seen map[domain.ID]bool) int {
	count := 0
	for _, id := range ids {
		if seen[id] {
			continue
		}
		n, ok := v.lookup(id)
		if !ok {
			continue
		}
		seen[id] = true
		count += 1 + v.countArrived(n.Comment.Kids, seen)
	}
	return count
}

// selected returns the node under the cursor.
func (v *commentView) selected() *domain.CommentNode {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return nil
	}
	return v.rows[v.cursor].node
}

// toggle folds or unfolds the comment under the cursor.
func (v *commentView) toggle() {
	n := v.selected()
	if n == nil || len(n.Comment.Kids) == 0 {
		return
	}
	id := n.Comment.ID
	if v.collapsed[id] {
		delete(v.collapsed, id)
	} else {
		v.collapsed[id] = true
	}
	v.rebuild()
}

// expandAll unfolds every comment. Comments arriving later still honor
// collapseDepth.
func (v *commentView) expandAll() {
	clear(v.collapsed)
	v.rebuild()
}

// move shifts the cursor by delta rows.
func (v *commentView) move(delta int) {
	v.cursor += delta
	v.clamp()
}

// moveTo places the cursor on row i.
func (v *commentView) moveTo(i int) {
	v.cursor = i
	v.clamp()
}

func (v *commentView) clamp() {
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}
