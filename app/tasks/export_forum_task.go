package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/reddit-comb/app/forum"
	"github.com/lysyi3m/reddit-comb/app/reddit"
	"github.com/lysyi3m/reddit-comb/app/thread"
)

type ExportForumTask struct {
	ForumTask
	ForumConfig   *forum.Config
	IntervalHours float64
	Rules         thread.Rules
	Now           time.Time
	lister        PostLister
	fetcher       ThreadFetcher

	Result *thread.Result
}

func NewExportForumTask(forumConfig *forum.Config, intervalHours float64, rules thread.Rules, now time.Time, lister PostLister, fetcher ThreadFetcher) *ExportForumTask {
	return &ExportForumTask{
		ForumTask:     NewForumTask(TaskTypeExportForum, forumConfig.Name),
		ForumConfig:   forumConfig,
		IntervalHours: intervalHours,
		Rules:         rules,
		Now:           now,
		lister:        lister,
		fetcher:       fetcher,
	}
}

// SetSources replaces the post lister and thread fetcher, for callers that
// authenticate after the task is built.
func (t *ExportForumTask) SetSources(lister PostLister, fetcher ThreadFetcher) {
	t.lister = lister
	t.fetcher = fetcher
}

func (t *ExportForumTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	posts, err := t.discoverPosts(ctx)
	if err != nil {
		return err
	}

	threads := make([]thread.Thread, 0, len(posts))
	for _, post := range posts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fetchCtx, cancel := context.WithTimeout(ctx, t.ForumConfig.GetTimeout())
		nodes, err := t.fetcher.Thread(fetchCtx, t.ForumName, post.ID)
		cancel()
		if err != nil {
			return err
		}

		threads = append(threads, thread.Thread{Post: post, Nodes: nodes})
	}

	t.Result = thread.Build(threads, thread.Options{
		Forum:         t.ForumName,
		IntervalHours: t.IntervalHours,
		Rules:         t.Rules,
		Now:           t.Now,
	})

	slog.Info("Task completed",
		"task", t,
		"duration", t.GetDuration(),
		"posts", len(posts),
		"total", t.Result.Total,
		"excluded", t.Result.Excluded,
		"included", t.Result.Included)

	return nil
}

func (t *ExportForumTask) discoverPosts(ctx context.Context) ([]thread.Post, error) {
	listCtx, cancel := context.WithTimeout(ctx, t.ForumConfig.GetTimeout())
	defer cancel()

	candidates, err := t.lister.NewPosts(listCtx, t.ForumName, t.ForumConfig.Settings.ListingLimit)
	if err != nil {
		return nil, err
	}

	matcher := reddit.NewTitleMatcher(t.ForumConfig.Settings.TitlePrefixes)
	posts := matcher.Select(candidates, t.ForumConfig.Settings.PostsToFetch)
	if len(posts) == 0 {
		return nil, fmt.Errorf("%w in %s", reddit.ErrNoDailyThreads, t.Subreddit())
	}

	slog.Debug("Daily threads selected", "forum", t.ForumName, "candidates", len(candidates), "selected", len(posts))

	return posts, nil
}
