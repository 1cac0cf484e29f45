package thread

import (
	"regexp"
)

var typePrefix = regexp.MustCompile(`^t\d_`)

type Flattener struct{}

func NewFlattener() *Flattener {
	return &Flattener{}
}

// Run walks nodes in pre-order (a comment, then its replies, then the next
// sibling) and returns the flat comment list with its adjacency map.
// Nodes that are not comments are skipped.
func (f *Flattener) Run(nodes []Node, meta PostMeta) *Tree {
	tree := NewTree()

	stack := make([]CommentNode, 0, len(nodes))
	stack = pushReversed(stack, nodes)

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		tree.Add(Comment{
			ID:             node.ID,
			Author:         node.Author,
			Body:           node.Body,
			ParentID:       BareID(node.ParentRef),
			Score:          node.Score,
			CreatedUTC:     node.CreatedUTC,
			PostTitle:      meta.Title,
			PostURL:        meta.URL,
			PostCreatedUTC: meta.CreatedUTC,
		})

		stack = pushReversed(stack, node.Replies)
	}

	return tree
}

// BareID strips the type prefix from a fullname such as "t1_abc".
func BareID(ref string) string {
	return typePrefix.ReplaceAllString(ref, "")
}

func pushReversed(stack []CommentNode, nodes []Node) []CommentNode {
	for i := len(nodes) - 1; i >= 0; i-- {
		if c, ok := nodes[i].(CommentNode); ok {
			stack = append(stack, c)
		}
	}
	return stack
}
