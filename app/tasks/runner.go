package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/reddit-comb/app/reddit"
)

var _ RunnerInterface = (*Runner)(nil)

type Runner struct {
	workerCount   int
	taskTimeout   time.Duration
	baseDelay     time.Duration
	maxRetryDelay time.Duration
}

func NewRunner(workerCount int, taskTimeout time.Duration) *Runner {
	if workerCount <= 0 {
		workerCount = 1
	}
	if taskTimeout <= 0 {
		taskTimeout = 5 * time.Minute
	}

	return &Runner{
		workerCount:   workerCount,
		taskTimeout:   taskTimeout,
		baseDelay:     time.Second,
		maxRetryDelay: 30 * time.Second,
	}
}

func (r *Runner) Run(ctx context.Context, tasks []TaskInterface) []error {
	errs := make([]error, len(tasks))
	queue := make(chan int, len(tasks))
	for i := range tasks {
		queue <- i
	}
	close(queue)

	workers := min(r.workerCount, len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range queue {
				errs[i] = r.executeTask(ctx, workerID, tasks[i])
			}
		}(w)
	}
	wg.Wait()

	return errs
}

func (r *Runner) executeTask(ctx context.Context, workerID int, task TaskInterface) error {
	task.Start()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		taskCtx, cancel := context.WithTimeout(ctx, r.taskTimeout)
		err := task.Execute(taskCtx)
		cancel()

		if err == nil {
			return nil
		}

		slog.Error("Worker task execution failed", "worker_id", workerID, "task", task, "error", err)

		if !retryable(err) {
			return err
		}
		if !task.CanRetry() {
			slog.Error("Task failed after maximum retries", "task", task, "max_retries", task.GetMaxRetries(), "last_error", err)
			return err
		}

		task.IncrementRetryCount()
		retryDelay := r.retryDelay(task.GetRetryCount())

		slog.Warn("Task retry scheduled", "task", task, "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

		select {
		case <-ctx.Done():
			slog.Debug("Runner stopped, skipping task retry", "task", task)
			return err
		case <-time.After(retryDelay):
		}
	}
}

func (r *Runner) retryDelay(retryCount int) time.Duration {
	retryDelay := r.baseDelay * time.Duration(1<<uint(retryCount-1))
	if retryDelay > r.maxRetryDelay {
		retryDelay = r.maxRetryDelay
	}
	return retryDelay
}

// retryable reports whether another attempt could change the outcome.
func retryable(err error) bool {
	switch {
	case errors.Is(err, reddit.ErrNoDailyThreads),
		errors.Is(err, reddit.ErrAuth),
		errors.Is(err, context.Canceled):
		return false
	}

	var statusErr *reddit.StatusError
	if errors.As(err, &statusErr) && statusErr.Permanent() {
		return false
	}
	return true
}
