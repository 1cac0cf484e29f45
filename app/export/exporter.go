package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lysyi3m/reddit-comb/app/cache"
	"github.com/lysyi3m/reddit-comb/app/cfg"
	"github.com/lysyi3m/reddit-comb/app/forum"
	"github.com/lysyi3m/reddit-comb/app/reddit"
	"github.com/lysyi3m/reddit-comb/app/tasks"
	"github.com/lysyi3m/reddit-comb/app/thread"
)

const reportSeparator = "\n\n"

type Exporter struct {
	cfg         *cfg.Cfg
	configCache *forum.ConfigCache
	auth        *reddit.Authenticator
	feed        tasks.PostLister
	runner      tasks.RunnerInterface
	cache       cache.ReportCache
	now         func() time.Time
}

func NewExporter(appCfg *cfg.Cfg, configCache *forum.ConfigCache, auth *reddit.Authenticator,
	feed tasks.PostLister, runner tasks.RunnerInterface) *Exporter {
	return &Exporter{
		cfg:         appCfg,
		configCache: configCache,
		auth:        auth,
		feed:        feed,
		runner:      runner,
		now:         time.Now,
	}
}

// WithCache enables reuse of rendered reports for identical requests.
func (e *Exporter) WithCache(reportCache cache.ReportCache) *Exporter {
	e.cache = reportCache
	return e
}

type pending struct {
	index int
	key   string
	task  *tasks.ExportForumTask
}

func (e *Exporter) Export(ctx context.Context, params Params) (*Report, error) {
	names := e.forumNames(params)
	if len(names) == 0 {
		return nil, fmt.Errorf("no subreddits requested")
	}

	hours := params.IntervalHours
	if hours <= 0 {
		hours = e.cfg.IntervalHours
	}
	if hours <= 0 {
		hours = thread.DefaultIntervalHours
	}

	now := e.now()
	report := &Report{Forums: make([]ForumReport, len(names))}

	var work []pending
	for i, name := range names {
		forumConfig, err := e.configCache.Resolve(name)
		if err != nil {
			return nil, err
		}

		rules := forumConfig.Rules()
		if params.ScoreThreshold != nil {
			rules.ScoreThreshold = *params.ScoreThreshold
		}

		report.Forums[i] = ForumReport{Forum: name}
		key := cache.ReportKey(name, hours, rules)

		if result, ok := e.cached(ctx, key); ok {
			report.Forums[i].Result = result
			report.Forums[i].Cached = true
			continue
		}

		task := tasks.NewExportForumTask(forumConfig, hours, rules, now, nil, nil)
		work = append(work, pending{index: i, key: key, task: task})
	}

	if len(work) > 0 {
		if err := e.fetch(ctx, work); err != nil {
			return nil, err
		}
		for _, p := range work {
			report.Forums[p.index].Result = p.task.Result
			e.store(ctx, p.key, p.task.Result)
		}
	}

	contents := make([]string, 0, len(report.Forums))
	for _, f := range report.Forums {
		contents = append(contents, f.Result.Content)
	}
	report.Content = strings.Join(contents, reportSeparator)

	if params.WriteToFile {
		if err := e.write(report, params.OutputDir); err != nil {
			return nil, err
		}
	}

	slog.Info("Export completed", "forums", strings.Join(names, ","), "interval_hours", hours, "fetched", len(work), "cached", len(names)-len(work))

	return report, nil
}

func (e *Exporter) fetch(ctx context.Context, work []pending) error {
	creds, err := e.cfg.Credentials()
	if err != nil {
		return err
	}

	client, err := e.auth.Authenticate(ctx, creds)
	if err != nil {
		return err
	}

	batch := make([]tasks.TaskInterface, 0, len(work))
	for _, p := range work {
		var lister tasks.PostLister = client
		if p.task.ForumConfig.Settings.Discovery == forum.DiscoveryRSS && e.feed != nil {
			lister = e.feed
		}
		p.task.SetSources(lister, client)
		batch = append(batch, p.task)
	}

	var failures []error
	for _, err := range e.runner.Run(ctx, batch) {
		if err != nil {
			failures = append(failures, err)
		}
	}

	return errors.Join(failures...)
}

func (e *Exporter) cached(ctx context.Context, key string) (*thread.Result, bool) {
	if e.cache == nil {
		return nil, false
	}

	result, ok, err := e.cache.GetReport(ctx, key)
	if err != nil {
		slog.Warn("Report cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	return result, ok
}

func (e *Exporter) store(ctx context.Context, key string, result *thread.Result) {
	if e.cache == nil || result == nil {
		return
	}

	if err := e.cache.SetReport(ctx, key, result, e.cfg.GetCacheTTL()); err != nil {
		slog.Warn("Report cache store failed", "key", key, "error", err)
	}
}

func (e *Exporter) write(report *Report, outputDir string) error {
	if outputDir == "" {
		outputDir = e.cfg.OutputDir
	}
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for i := range report.Forums {
		f := &report.Forums[i]
		path := filepath.Join(outputDir, f.Result.FileName)
		if err := os.WriteFile(path, []byte(f.Result.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		f.File = path
		slog.Info("Report written", "forum", f.Forum, "file", path)
	}

	return nil
}

func (e *Exporter) forumNames(params Params) []string {
	if params.Subreddit != "" {
		return []string{params.Subreddit}
	}
	if len(params.Subreddits) > 0 {
		return params.Subreddits
	}
	return e.cfg.DefaultForums
}
