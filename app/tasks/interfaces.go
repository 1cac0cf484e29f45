package tasks

import (
	"context"

	"github.com/lysyi3m/reddit-comb/app/thread"
)

// RunnerInterface executes a batch of tasks on a bounded worker pool.
// Errors are returned in task order, nil for tasks that succeeded.
// Example usage:
//
//	runner := NewRunner(workerCount, taskTimeout)
//	errs := runner.Run(ctx, []TaskInterface{NewExportForumTask(...)})
type RunnerInterface interface {
	Run(ctx context.Context, tasks []TaskInterface) []error
}

type PostLister interface {
	NewPosts(ctx context.Context, forum string, limit int) ([]thread.Post, error)
}

type ThreadFetcher interface {
	Thread(ctx context.Context, forum, postID string) ([]thread.Node, error)
}
