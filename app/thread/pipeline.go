package thread

import (
	"fmt"
	"time"
)

const (
	DefaultIntervalHours  = 24
	DefaultScoreThreshold = -10
	DefaultPostsToFetch   = 2
)

// Thread is one discussion post with the root nodes of its comment tree.
type Thread struct {
	Post  Post
	Nodes []Node
}

type Options struct {
	Forum         string
	IntervalHours float64
	Rules         Rules
	Now           time.Time
}

type Result struct {
	Content  string
	FileName string
	Included int
	Excluded int
	Total    int
}

// Build runs flatten, exclusion, window selection and rendering over the
// threads of a single forum.
func Build(threads []Thread, opts Options) *Result {
	flattener := NewFlattener()
	merged := NewTree()
	posts := make([]Post, 0, len(threads))
	for _, t := range threads {
		posts = append(posts, t.Post)
		merged.Merge(flattener.Run(t.Nodes, t.Post.Meta()))
	}

	excluded := NewExcluder().Run(merged.Comments, merged.Children, opts.Rules)

	notExcluded := make([]Comment, 0, merged.Len())
	for _, c := range merged.Comments {
		if !excluded.Has(c.ID) {
			notExcluded = append(notExcluded, c)
		}
	}

	threshold := float64(opts.Now.UnixMilli())/1000 - opts.IntervalHours*3600
	included := NewWindowSelector().Run(notExcluded, threshold)

	fileName := FileName(opts.Forum, opts.Now, opts.IntervalHours)
	content := NewGenerator().Run(Report{
		Forum:         opts.Forum,
		IntervalHours: opts.IntervalHours,
		ExportedAt:    opts.Now,
		FileName:      fileName,
		Posts:         posts,
		Comments:      included,
	})

	return &Result{
		Content:  content,
		FileName: fileName,
		Included: len(included),
		Excluded: len(excluded),
		Total:    merged.Len(),
	}
}

func FileName(forum string, now time.Time, intervalHours float64) string {
	return fmt.Sprintf("reddit_%s_%d_daily_%sh.md", forum, now.UnixMilli(), FormatHours(intervalHours))
}
