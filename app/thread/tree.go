package thread

// Tree stores comments in traversal order with an id index and a
// parent -> children adjacency map. Children lists keep first-seen order.
type Tree struct {
	Comments []Comment
	Children map[string][]string
	index    map[string]int
}

func NewTree() *Tree {
	return &Tree{
		Children: make(map[string][]string),
		index:    make(map[string]int),
	}
}

func (t *Tree) Add(c Comment) {
	t.index[c.ID] = len(t.Comments)
	t.Comments = append(t.Comments, c)
	t.Children[c.ParentID] = append(t.Children[c.ParentID], c.ID)
}

func (t *Tree) Get(id string) (Comment, bool) {
	i, ok := t.index[id]
	if !ok {
		return Comment{}, false
	}
	return t.Comments[i], true
}

func (t *Tree) Len() int {
	return len(t.Comments)
}

// Merge appends every comment of other, concatenating children lists of
// shared parents.
func (t *Tree) Merge(other *Tree) {
	for _, c := range other.Comments {
		t.index[c.ID] = len(t.Comments)
		t.Comments = append(t.Comments, c)
	}
	for _, parentID := range other.parentOrder() {
		t.Children[parentID] = append(t.Children[parentID], other.Children[parentID]...)
	}
}

// parentOrder lists parent ids in the order they were first registered so that
// merging never depends on map iteration order.
func (t *Tree) parentOrder() []string {
	seen := make(map[string]struct{}, len(t.Children))
	order := make([]string, 0, len(t.Children))
	for _, c := range t.Comments {
		if _, ok := seen[c.ParentID]; ok {
			continue
		}
		seen[c.ParentID] = struct{}{}
		order = append(order, c.ParentID)
	}
	return order
}
