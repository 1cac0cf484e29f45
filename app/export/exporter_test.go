package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/reddit-comb/app/cfg"
	"github.com/lysyi3m/reddit-comb/app/forum"
	"github.com/lysyi3m/reddit-comb/app/reddit"
	"github.com/lysyi3m/reddit-comb/app/tasks"
	"github.com/lysyi3m/reddit-comb/app/thread"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func listingPayload(forumName string) string {
	created := testNow.Unix() - 3600
	return fmt.Sprintf(`{"kind": "Listing", "data": {"children": [
		{"kind": "t3", "data": {"id": "meme", "title": "Funny chart", "permalink": "/r/%[1]s/comments/meme/", "created_utc": %[2]d}},
		{"kind": "t3", "data": {"id": "%[1]s_daily", "title": "Daily Discussion - %[1]s", "permalink": "/r/%[1]s/comments/%[1]s_daily/", "created_utc": %[2]d}}
	]}}`, forumName, created)
}

func threadPayload(forumName string) string {
	return fmt.Sprintf(`[
		{"kind": "Listing", "data": {"children": []}},
		{"kind": "Listing", "data": {"children": [
			{"kind": "t1", "data": {"id": "%[1]s_c1", "author": "alice", "body": "hello from %[1]s", "parent_id": "t3_%[1]s_daily", "score": 4, "created_utc": %[2]d, "replies": ""}},
			{"kind": "t1", "data": {"id": "%[1]s_c2", "author": "Bitty_Bot", "body": "automated", "parent_id": "t3_%[1]s_daily", "score": 1, "created_utc": %[2]d, "replies": ""}}
		]}}
	]`, forumName, testNow.Unix()-600)
}

type testEnv struct {
	exporter *Exporter
	apiCalls *atomic.Int32
	appCfg   *cfg.Cfg
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "token", "token_type": "bearer", "expires_in": 3600}`))
	}))
	t.Cleanup(tokenServer.Close)

	var apiCalls atomic.Int32
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) < 3 {
			http.NotFound(w, r)
			return
		}
		forumName := parts[1]

		switch {
		case parts[2] == "new.json":
			if forumName == "empty" {
				w.Write([]byte(`{"kind": "Listing", "data": {"children": []}}`))
				return
			}
			w.Write([]byte(listingPayload(forumName)))
		case parts[2] == "comments":
			w.Write([]byte(threadPayload(forumName)))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(apiServer.Close)

	auth := reddit.NewAuthenticator("TestAgent/1.0", tokenServer.Client())
	auth.TokenURL = tokenServer.URL
	auth.APIURL = apiServer.URL

	appCfg := &cfg.Cfg{
		RedditClientID:     "id",
		RedditClientSecret: "secret",
		RedditUsername:     "user",
		RedditPassword:     "password",
		DefaultForums:      []string{"BitcoinMarkets", "ethereum"},
		ExcludedAuthors:    []string{"Bitty_Bot", "Tricky_Troll"},
		ScoreThreshold:     -10,
		PostsToFetch:       2,
		ListingLimit:       20,
		RequestTimeout:     5,
		IntervalHours:      24,
		CacheTTL:           60,
	}

	configCache := forum.NewConfigCache("", appCfg.ForumDefaults())
	exporter := NewExporter(appCfg, configCache, auth, nil, tasks.NewRunner(2, time.Minute))
	exporter.now = func() time.Time { return testNow }

	return &testEnv{exporter: exporter, apiCalls: &apiCalls, appCfg: appCfg}
}

func TestExporter_DefaultForumsInRequestOrder(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.exporter.Export(context.Background(), Params{})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if len(report.Forums) != 2 {
		t.Fatalf("Expected 2 forum reports, got %d", len(report.Forums))
	}
	if report.Forums[0].Forum != "BitcoinMarkets" || report.Forums[1].Forum != "ethereum" {
		t.Errorf("Expected forums in request order, got %s, %s", report.Forums[0].Forum, report.Forums[1].Forum)
	}

	first := strings.Index(report.Content, "- Subreddit: r/BitcoinMarkets")
	second := strings.Index(report.Content, "- Subreddit: r/ethereum")
	if first < 0 || second < 0 || first > second {
		t.Errorf("Expected BitcoinMarkets report before ethereum report, got positions %d and %d", first, second)
	}

	if !strings.Contains(report.Content, "hello from ethereum") {
		t.Error("Expected report to contain ethereum comment")
	}
	if strings.Contains(report.Content, "automated") {
		t.Error("Expected bot comment to be excluded")
	}
	if report.Forums[0].Result.Included != 1 {
		t.Errorf("Expected 1 included comment, got %d", report.Forums[0].Result.Included)
	}
	if len(report.Files()) != 0 {
		t.Errorf("Expected no files without WriteToFile, got %v", report.Files())
	}
}

func TestExporter_SingleSubredditWins(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.exporter.Export(context.Background(), Params{
		Subreddit:  "ethereum",
		Subreddits: []string{"BitcoinMarkets", "ethereum"},
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if len(report.Forums) != 1 || report.Forums[0].Forum != "ethereum" {
		t.Errorf("Expected only ethereum, got %+v", report.Forums)
	}
	if strings.Contains(report.Content, "BitcoinMarkets") {
		t.Error("Expected no BitcoinMarkets content")
	}
}

func TestExporter_WriteToFile(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()

	report, err := env.exporter.Export(context.Background(), Params{
		Subreddit:     "BitcoinMarkets",
		IntervalHours: 6,
		WriteToFile:   true,
		OutputDir:     dir,
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	expected := filepath.Join(dir, "reddit_BitcoinMarkets_1710072000000_daily_6h.md")
	files := report.Files()
	if len(files) != 1 || files[0] != expected {
		t.Fatalf("Expected file %s, got %v", expected, files)
	}

	data, err := os.ReadFile(expected)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if string(data) != report.Content {
		t.Error("Expected file content to equal the report content")
	}
}

func TestExporter_ScoreThresholdOverride(t *testing.T) {
	env := newTestEnv(t)
	threshold := 10

	report, err := env.exporter.Export(context.Background(), Params{Subreddit: "ethereum", ScoreThreshold: &threshold})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if report.Forums[0].Result.Included != 0 {
		t.Errorf("Expected every comment to fall under the threshold, got %d included", report.Forums[0].Result.Included)
	}
	if !strings.Contains(report.Content, "_No comments in time interval._") {
		t.Error("Expected placeholder when every comment is excluded")
	}
}

func TestExporter_MissingCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.appCfg.RedditPassword = ""

	_, err := env.exporter.Export(context.Background(), Params{})
	if !errors.Is(err, cfg.ErrMissingCredentials) {
		t.Errorf("Expected ErrMissingCredentials, got %v", err)
	}
	if env.apiCalls.Load() != 0 {
		t.Errorf("Expected no API calls, got %d", env.apiCalls.Load())
	}
}

func TestExporter_NoDailyThreads(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.exporter.Export(context.Background(), Params{Subreddits: []string{"ethereum", "empty"}})
	if !errors.Is(err, reddit.ErrNoDailyThreads) {
		t.Fatalf("Expected ErrNoDailyThreads, got %v", err)
	}
	if err.Error() != "No Daily Discussion posts found in r/empty" {
		t.Errorf("Expected error to name the forum, got %q", err.Error())
	}
}

func TestExporter_InvalidSubreddit(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.exporter.Export(context.Background(), Params{Subreddit: "../etc"}); err == nil {
		t.Error("Expected error for invalid subreddit name")
	}
	if env.apiCalls.Load() != 0 {
		t.Errorf("Expected no API calls, got %d", env.apiCalls.Load())
	}
}

type memoryCache struct {
	entries map[string]*thread.Result
	ttls    map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]*thread.Result{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) GetReport(ctx context.Context, key string) (*thread.Result, bool, error) {
	result, ok := m.entries[key]
	return result, ok, nil
}

func (m *memoryCache) SetReport(ctx context.Context, key string, result *thread.Result, ttl time.Duration) error {
	m.entries[key] = result
	m.ttls[key] = ttl
	return nil
}

func TestExporter_ReportCache(t *testing.T) {
	env := newTestEnv(t)
	reportCache := newMemoryCache()
	env.exporter.WithCache(reportCache)

	first, err := env.exporter.Export(context.Background(), Params{Subreddit: "ethereum"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if first.Forums[0].Cached {
		t.Error("Expected first export not to be cached")
	}
	if len(reportCache.entries) != 1 {
		t.Fatalf("Expected 1 cached report, got %d", len(reportCache.entries))
	}
	for _, ttl := range reportCache.ttls {
		if ttl != time.Minute {
			t.Errorf("Expected TTL 1m, got %v", ttl)
		}
	}

	calls := env.apiCalls.Load()
	second, err := env.exporter.Export(context.Background(), Params{Subreddit: "ethereum"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !second.Forums[0].Cached {
		t.Error("Expected second export to be served from cache")
	}
	if env.apiCalls.Load() != calls {
		t.Errorf("Expected no further API calls, got %d", env.apiCalls.Load()-calls)
	}
	if second.Content != first.Content {
		t.Error("Expected cached content to match")
	}
}
