package thread

type WindowSelector struct{}

func NewWindowSelector() *WindowSelector {
	return &WindowSelector{}
}

// Run keeps comments created at or after thresholdUTC together with their
// ancestor chain. comments must already be free of excluded entries: a chain
// that reaches an id outside comments stops there.
func (w *WindowSelector) Run(comments []Comment, thresholdUTC float64) []Comment {
	byID := make(map[string]Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	keep := make(map[string]struct{})
	for _, recent := range comments {
		if recent.CreatedUTC < thresholdUTC {
			continue
		}

		for c, ok := recent, true; ok; c, ok = byID[c.ParentID] {
			if _, kept := keep[c.ID]; kept {
				break
			}
			keep[c.ID] = struct{}{}
		}
	}

	included := make([]Comment, 0, len(keep))
	for _, c := range comments {
		if _, ok := keep[c.ID]; ok {
			included = append(included, c)
		}
	}

	return included
}
