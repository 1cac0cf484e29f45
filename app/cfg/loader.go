package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Reddit credentials
	RedditClientID     string `long:"reddit-client-id" env:"REDDIT_CLIENT_ID" description:"Reddit script app client ID"`
	RedditClientSecret string `long:"reddit-client-secret" env:"REDDIT_CLIENT_SECRET" description:"Reddit script app client secret"`
	RedditUsername     string `long:"reddit-username" env:"REDDIT_USERNAME" description:"Reddit account username"`
	RedditPassword     string `long:"reddit-password" env:"REDDIT_PASSWORD" description:"Reddit account password"`

	// Export defaults
	ForumsDir       string   `long:"forums-dir" env:"FORUMS_DIR" default:"./forums" description:"Directory containing subreddit configuration files"`
	DefaultForums   []string `long:"forum" env:"DEFAULT_FORUMS" env-delim:"," default:"BitcoinMarkets" default:"ethereum" description:"Subreddits exported when a request names none"`
	ExcludedAuthors []string `long:"excluded-author" env:"EXCLUDED_AUTHORS" env-delim:"," default:"Bitty_Bot" default:"Tricky_Troll" description:"Authors whose comments and replies are dropped"`
	ScoreThreshold  int      `long:"score-threshold" env:"SCORE_THRESHOLD" default:"-10" description:"Comments at or below this score are dropped with their replies"`
	PostsToFetch    int      `long:"posts-to-fetch" env:"POSTS_TO_FETCH" default:"2" description:"Daily threads included per subreddit"`
	ListingLimit    int      `long:"listing-limit" env:"LISTING_LIMIT" default:"20" description:"Newest posts scanned for daily threads"`
	RequestTimeout  int      `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30" description:"Reddit request timeout in seconds"`
	IntervalHours   float64  `long:"interval-hours" env:"INTERVAL_HOURS" default:"24" description:"Trailing window of the report in hours"`
	OutputDir       string   `long:"output-dir" env:"OUTPUT_DIR" default:"." description:"Directory for exported report files"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	Stdio        bool   `long:"stdio" env:"MCP_STDIO" description:"Serve MCP over stdin/stdout instead of HTTP"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of workers exporting subreddits concurrently"`
	TaskTimeout  int    `long:"task-timeout" env:"TASK_TIMEOUT" default:"300" description:"Timeout of a single subreddit export in seconds"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the /mcp endpoint (optional)"`
	RedisAddr    string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for caching rendered reports (optional)"`
	CacheTTL     int    `long:"cache-ttl" env:"CACHE_TTL" default:"60" description:"Lifetime of cached reports in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"RedditMCPServer/1.0" description:"User agent prefix for Reddit requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for log timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs reads a .env file when present, then parses flags and environment.
// It returns nil without error when help was requested.
func LoadArgs(args []string) (*Cfg, error) {
	_ = godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		RedditClientID:     raw.RedditClientID,
		RedditClientSecret: raw.RedditClientSecret,
		RedditUsername:     raw.RedditUsername,
		RedditPassword:     raw.RedditPassword,
		ForumsDir:          raw.ForumsDir,
		DefaultForums:      raw.DefaultForums,
		ExcludedAuthors:    raw.ExcludedAuthors,
		ScoreThreshold:     raw.ScoreThreshold,
		PostsToFetch:       raw.PostsToFetch,
		ListingLimit:       raw.ListingLimit,
		RequestTimeout:     raw.RequestTimeout,
		IntervalHours:      raw.IntervalHours,
		OutputDir:          raw.OutputDir,
		Port:               raw.Port,
		Stdio:              raw.Stdio,
		WorkerCount:        raw.WorkerCount,
		TaskTimeout:        raw.TaskTimeout,
		APIAccessKey:       raw.APIAccessKey,
		RedisAddr:          raw.RedisAddr,
		CacheTTL:           raw.CacheTTL,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
		Args:               rest,
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
