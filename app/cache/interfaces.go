package cache

import (
	"context"
	"time"

	"github.com/lysyi3m/reddit-comb/app/thread"
)

// ReportCache stores rendered per-forum reports. A miss is reported with
// ok=false and a nil error.
type ReportCache interface {
	GetReport(ctx context.Context, key string) (*thread.Result, bool, error)
	SetReport(ctx context.Context, key string, result *thread.Result, ttl time.Duration) error
}
