package forum

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_]{1,20}$`)

func ValidName(name string) bool {
	return validName.MatchString(name)
}

type ConfigCache struct {
	forumsDir string
	defaults  Defaults
	cache     map[string]*Config
	mu        sync.RWMutex
}

func NewConfigCache(forumsDir string, defaults Defaults) *ConfigCache {
	return &ConfigCache{
		forumsDir: forumsDir,
		defaults:  defaults,
		cache:     make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if cc.forumsDir == "" {
		return nil
	}
	if _, err := os.Stat(cc.forumsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.forumsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		forumName := fileName[:len(fileName)-4]

		config, err := cc.LoadConfig(forumName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Forum configuration loaded", "forum", forumName, "discovery", config.Settings.Discovery, "posts_to_fetch", config.Settings.PostsToFetch)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(forumName string) (*Config, error) {
	configFile := cc.getConfigFilePath(forumName)
	forumConfig, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	forumConfig.Name = forumName

	if err := cc.validateConfig(forumConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[forumConfig.Name] = forumConfig

	return forumConfig, nil
}

func (cc *ConfigCache) GetConfig(forumName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	forumConfig, ok := cc.cache[forumName]
	if !ok {
		return nil, fmt.Errorf("forum config with name '%s' not found", forumName)
	}
	return forumConfig, nil
}

// Resolve returns the loaded configuration of a forum, or one built from the
// defaults when the forum has no file.
func (cc *ConfigCache) Resolve(forumName string) (*Config, error) {
	if !ValidName(forumName) {
		return nil, fmt.Errorf("invalid subreddit name '%s'", forumName)
	}

	if forumConfig, err := cc.GetConfig(forumName); err == nil {
		return forumConfig, nil
	}

	forumConfig := &Config{Name: forumName}
	cc.applyDefaults(forumConfig)
	return forumConfig, nil
}

// GetNames lists configured forums in alphabetical order.
func (cc *ConfigCache) GetNames() []string {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	names := make([]string, 0, len(cc.cache))
	for name := range cc.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var forumConfig Config
	if err := yaml.Unmarshal(data, &forumConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cc.applyDefaults(&forumConfig)

	return &forumConfig, nil
}

func (cc *ConfigCache) applyDefaults(forumConfig *Config) {
	settings := &forumConfig.Settings
	if settings.Discovery == "" {
		settings.Discovery = DiscoveryAPI
	}
	if settings.PostsToFetch == 0 {
		settings.PostsToFetch = cc.defaults.PostsToFetch
	}
	if settings.ListingLimit == 0 {
		settings.ListingLimit = cc.defaults.ListingLimit
	}
	if settings.Timeout == 0 {
		settings.Timeout = cc.defaults.Timeout
	}

	filters := &forumConfig.Filters
	if filters.ExcludedAuthors == nil {
		filters.ExcludedAuthors = slices.Clone(cc.defaults.ExcludedAuthors)
	}
	if filters.ScoreThreshold == nil {
		threshold := cc.defaults.ScoreThreshold
		filters.ScoreThreshold = &threshold
	}
}

func (cc *ConfigCache) validateConfig(forumConfig *Config) error {
	if forumConfig == nil {
		return fmt.Errorf("forumConfig is nil")
	}

	if !ValidName(forumConfig.Name) {
		return fmt.Errorf("invalid subreddit name '%s'", forumConfig.Name)
	}

	switch forumConfig.Settings.Discovery {
	case DiscoveryAPI, DiscoveryRSS:
	default:
		return fmt.Errorf("invalid discovery mode: %s", forumConfig.Settings.Discovery)
	}

	nonNegativeFields := map[string]int{
		"posts to fetch": forumConfig.Settings.PostsToFetch,
		"listing limit":  forumConfig.Settings.ListingLimit,
		"timeout":        forumConfig.Settings.Timeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if forumConfig.Settings.ListingLimit > 100 {
		return fmt.Errorf("listing limit must not exceed 100")
	}

	for i, prefix := range forumConfig.Settings.TitlePrefixes {
		if prefix == "" {
			return fmt.Errorf("empty title prefix at index %d", i)
		}
	}

	for i, author := range forumConfig.Filters.ExcludedAuthors {
		if author == "" {
			return fmt.Errorf("empty excluded author at index %d", i)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(forumName string) string {
	return filepath.Join(cc.forumsDir, forumName+".yml")
}
