package cfg

import (
	"errors"
	"time"

	"github.com/lysyi3m/reddit-comb/app/forum"
	"github.com/lysyi3m/reddit-comb/app/reddit"
)

var ErrMissingCredentials = errors.New("missing Reddit API credentials")

type Cfg struct {
	// Reddit credentials
	RedditClientID     string
	RedditClientSecret string
	RedditUsername     string
	RedditPassword     string

	// Export defaults
	ForumsDir       string
	DefaultForums   []string
	ExcludedAuthors []string
	ScoreThreshold  int
	PostsToFetch    int
	ListingLimit    int
	RequestTimeout  int
	IntervalHours   float64
	OutputDir       string

	// Application configuration
	Port         string
	Stdio        bool
	WorkerCount  int
	TaskTimeout  int
	APIAccessKey string
	RedisAddr    string
	CacheTTL     int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string

	// Positional arguments left after flag parsing
	Args []string
}

func (c *Cfg) Credentials() (reddit.Credentials, error) {
	creds := reddit.Credentials{
		ClientID:     c.RedditClientID,
		ClientSecret: c.RedditClientSecret,
		Username:     c.RedditUsername,
		Password:     c.RedditPassword,
	}
	if !creds.Complete() {
		return creds, ErrMissingCredentials
	}
	return creds, nil
}

func (c *Cfg) ForumDefaults() forum.Defaults {
	return forum.Defaults{
		ExcludedAuthors: c.ExcludedAuthors,
		ScoreThreshold:  c.ScoreThreshold,
		PostsToFetch:    c.PostsToFetch,
		ListingLimit:    c.ListingLimit,
		Timeout:         c.RequestTimeout,
	}
}

func (c *Cfg) GetTaskTimeout() time.Duration {
	return time.Duration(c.TaskTimeout) * time.Second
}

func (c *Cfg) GetCacheTTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}
