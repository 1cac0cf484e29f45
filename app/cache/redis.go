package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lysyi3m/reddit-comb/app/thread"
)

// Cache keeps rendered reports in Redis for a short time so that repeated tool
// calls with the same arguments do not hit the Reddit API again.
type Cache struct {
	client *redis.Client
}

var _ ReportCache = (*Cache)(nil)

func NewCache(ctx context.Context, addr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr)

	return &Cache{client: client}, nil
}

func (c *Cache) GetReport(ctx context.Context, key string) (*thread.Result, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	result, ok := decodeEntry(data)
	if !ok {
		// Invalid data format, delete and report a miss
		c.client.Del(ctx, key)
		return nil, false, nil
	}

	return result, true, nil
}

func (c *Cache) SetReport(ctx context.Context, key string, result *thread.Result, ttl time.Duration) error {
	data, err := encodeEntry(result, time.Now())
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Health(ctx context.Context) map[string]any {
	health := map[string]any{
		"status": "healthy",
		"type":   "redis",
	}

	if err := c.client.Ping(ctx).Err(); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
		return health
	}

	if dbSize, err := c.client.DBSize(ctx).Result(); err == nil {
		health["key_count"] = dbSize
	}

	return health
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// ReportKey identifies a report by everything that shapes its content.
func ReportKey(forum string, intervalHours float64, rules thread.Rules) string {
	authors := slices.Clone(rules.Authors)
	slices.Sort(authors)

	raw := fmt.Sprintf("%s|%s|%d|%s",
		strings.ToLower(forum),
		thread.FormatHours(intervalHours),
		rules.ScoreThreshold,
		strings.Join(authors, ","))
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("report:%s:%x", forum, hash[:8])
}

type entry struct {
	Content  string `json:"content"`
	FileName string `json:"file_name"`
	Included int    `json:"included"`
	Excluded int    `json:"excluded"`
	Total    int    `json:"total"`
	CachedAt int64  `json:"cached_at"`
}

func encodeEntry(result *thread.Result, now time.Time) ([]byte, error) {
	return json.Marshal(entry{
		Content:  result.Content,
		FileName: result.FileName,
		Included: result.Included,
		Excluded: result.Excluded,
		Total:    result.Total,
		CachedAt: now.Unix(),
	})
}

func decodeEntry(data []byte) (*thread.Result, bool) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Content == "" {
		return nil, false
	}

	return &thread.Result{
		Content:  e.Content,
		FileName: e.FileName,
		Included: e.Included,
		Excluded: e.Excluded,
		Total:    e.Total,
	}, true
}
