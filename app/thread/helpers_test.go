package thread

func intPtr(v int) *int {
	return &v
}

func commentNode(id, author, parentRef string, score int, createdUTC float64, replies ...Node) CommentNode {
	return CommentNode{
		ID:         id,
		Author:     author,
		Body:       "body of " + id,
		ParentRef:  parentRef,
		Score:      intPtr(score),
		CreatedUTC: createdUTC,
		Replies:    replies,
	}
}

func ids(comments []Comment) []string {
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.ID)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
