package thread

type Excluder struct{}

func NewExcluder() *Excluder {
	return &Excluder{}
}

// Run flags comments written by denylisted authors or scored at or below the
// threshold, then every descendant of a flagged comment.
func (e *Excluder) Run(comments []Comment, children map[string][]string, rules Rules) ExcludedSet {
	excluded := make(ExcludedSet)
	authors := rules.authorSet()

	var stack []string
	for _, c := range comments {
		if !e.isSeed(c, authors, rules.ScoreThreshold) {
			continue
		}
		if excluded.add(c.ID) {
			stack = append(stack, c.ID)
		}
	}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, childID := range children[current] {
			if excluded.add(childID) {
				stack = append(stack, childID)
			}
		}
	}

	return excluded
}

func (e *Excluder) isSeed(c Comment, authors map[string]struct{}, threshold int) bool {
	if _, ok := authors[c.Author]; ok {
		return true
	}
	return c.Score != nil && *c.Score <= threshold
}
