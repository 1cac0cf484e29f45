package forum

import (
	"time"

	"github.com/lysyi3m/reddit-comb/app/thread"
)

const (
	DiscoveryAPI = "api"
	DiscoveryRSS = "rss"
)

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	Settings ConfigSettings `yaml:"settings"`
	Filters  ConfigFilters  `yaml:"filters"`
}

type ConfigSettings struct {
	Discovery     string   `yaml:"discovery"`      // api or rss
	PostsToFetch  int      `yaml:"posts_to_fetch"` // daily threads per report
	ListingLimit  int      `yaml:"listing_limit"`  // newest posts scanned for daily threads
	Timeout       int      `yaml:"timeout"`        // seconds
	TitlePrefixes []string `yaml:"title_prefixes"`
}

type ConfigFilters struct {
	ExcludedAuthors []string `yaml:"excluded_authors"`
	ScoreThreshold  *int     `yaml:"score_threshold"`
}

// Defaults fill in whatever a forum file leaves out, and describe forums that
// have no file at all.
type Defaults struct {
	ExcludedAuthors []string
	ScoreThreshold  int
	PostsToFetch    int
	ListingLimit    int
	Timeout         int
}

func (c *Config) Rules() thread.Rules {
	rules := thread.Rules{Authors: c.Filters.ExcludedAuthors}
	if c.Filters.ScoreThreshold != nil {
		rules.ScoreThreshold = *c.Filters.ScoreThreshold
	}
	return rules
}

func (c *Config) GetTimeout() time.Duration {
	if c.Settings.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Settings.Timeout) * time.Second
}
