package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeExportForum TaskType = "export_forum"
)

// DefaultMaxRetries bounds the extra attempts a subreddit gets after its
// first fetch fails.
const DefaultMaxRetries = 3

type TaskInterface interface {
	slog.LogValuer
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetForumName() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

// ForumTask is the per-subreddit bookkeeping the runner relies on. Each
// requested subreddit gets its own ID so retries of one forum can be told
// apart from the others in the logs.
type ForumTask struct {
	ID         string
	Type       TaskType
	ForumName  string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func (t *ForumTask) GetID() string {
	return t.ID
}

func (t *ForumTask) GetType() TaskType {
	return t.Type
}

func (t *ForumTask) GetForumName() string {
	return t.ForumName
}

// Subreddit returns the forum in r/<name> form, as it appears in reports
// and error messages.
func (t *ForumTask) Subreddit() string {
	return "r/" + t.ForumName
}

func (t *ForumTask) GetRetryCount() int {
	return t.RetryCount
}

func (t *ForumTask) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *ForumTask) IncrementRetryCount() {
	t.RetryCount++
}

func (t *ForumTask) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

// Start stamps the first attempt only. Retries keep the original start so
// the duration covers every attempt on the subreddit.
func (t *ForumTask) Start() {
	if t.StartedAt != nil {
		return
	}
	now := time.Now()
	t.StartedAt = &now
}

func (t *ForumTask) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func (t *ForumTask) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", t.ID),
		slog.String("type", string(t.Type)),
		slog.String("forum", t.Subreddit()),
		slog.Int("attempt", t.RetryCount+1),
	)
}

func NewForumTask(taskType TaskType, forumName string) ForumTask {
	return ForumTask{
		ID:         uuid.NewString(),
		Type:       taskType,
		ForumName:  forumName,
		MaxRetries: DefaultMaxRetries,
	}
}
