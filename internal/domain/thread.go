package domain

// FlatCommentRecord is one comment as it appears in a rendered page:
// no parent reference, only its visual indentation in document order.
type FlatCommentRecord struct {
	User   string
	Text   string
	ID     ID
	Indent int
}

// CommentNode is a comment with its replies.
// A node owns its children; trees never share nodes.
type CommentNode struct {
	Comment  *Comment
	Children []*CommentNode
	Depth    int
}

// Forest is an ordered list of sibling comment trees.
type Forest []*CommentNode

// Walk visits every node depth-first in display order.
// Returning false from fn skips the node's children.
func (f Forest) Walk(fn func(n *CommentNode) bool) {
	for _, n := range f {
		if n == nil {
			continue
		}
		if fn(n) {
			Forest(n.Children).Walk(fn)
		}
	}
}

// Count returns the number of nodes in the forest.
func (f Forest) Count() int {
	count := 0
	f.Walk(func(*CommentNode) bool {
		count++
		return true
	})
	return count
}

// Flatten returns every node in display order.
func (f Forest) Flatten() []*CommentNode {
	nodes := make([]*CommentNode, 0, len(f))
	f.Walk(func(n *CommentNode) bool {
		nodes = append(nodes, n)
		return true
	})
	return nodes
}

// MaxDepth returns the deepest Depth in the forest, or -1 if it is empty.
func (f Forest) MaxDepth() int {
	deepest := -1
	f.Walk(func(n *CommentNode) bool {
		if n.Depth > deepest {
			deepest = n.Depth
		}
		return true
	})
	return deepest
}

// Thread is a root item with its materialized comment forest.
// Orphans lists comments that were fetched but not reachable from the root.
type Thread struct {
	Root     ThreadRoot
	Comments Forest
	Orphans  []ID
}
