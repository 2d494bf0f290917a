package config

import (
	"fmt"
	"strings"
	"time"

	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/config"
)

// Reddit holds the OAuth application credentials and search parameters.
type Reddit struct {
	ClientID            string `mapstructure:"client_id"`
	ClientSecret        string `mapstructure:"client_secret"`
	UserAgent           string `mapstructure:"user_agent"`
	AuthURL             string `mapstructure:"auth_url"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	SearchLimit         int    `mapstructure:"search_limit"`
	Sort                string `mapstructure:"sort"`
	TimeWindow          string `mapstructure:"time_window"`
}

// Analyzer holds pipeline tuning. Policy thresholds are not configurable.
type Analyzer struct {
	SourceTimeout        time.Duration `mapstructure:"source_timeout"`
	MaxConcurrentSources int           `mapstructure:"max_concurrent_sources"`
}

// Report holds the HTML report settings.
type Report struct {
	Dir      string `mapstructure:"dir"`
	TopPosts int    `mapstructure:"top_posts"`
}

// Telegram holds configuration for the Telegram notifier. An empty token disables it.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Stream holds the analysis request stream settings.
type Stream struct {
	ProcessTimeout  time.Duration `mapstructure:"process_timeout"`
	RetryInterval   time.Duration `mapstructure:"retry_interval"`
	MaxIdleDuration time.Duration `mapstructure:"max_idle_duration"`
	MaxRetry        int           `mapstructure:"max_retry"`
}

// Watchlist holds the scheduled analysis settings.
type Watchlist struct {
	Enabled bool     `mapstructure:"enabled"`
	Cron    string   `mapstructure:"cron"`
	Symbols []string `mapstructure:"symbols"`
	Notify  bool     `mapstructure:"notify"`
}

// Config holds the full configuration for the analyzer.
type Config struct {
	App       config.App         `mapstructure:"app"`
	Logger    config.Logger      `mapstructure:"logger"`
	Database  config.Database    `mapstructure:"database"`
	Redis     config.Redis       `mapstructure:"redis"`
	API       config.API         `mapstructure:"api"`
	Reddit    Reddit             `mapstructure:"reddit"`
	Analyzer  Analyzer           `mapstructure:"analyzer"`
	Sources   []entity.Source    `mapstructure:"sources"`
	Lexicon   map[string]float64 `mapstructure:"lexicon"`
	Report    Report             `mapstructure:"report"`
	Telegram  Telegram           `mapstructure:"telegram"`
	Stream    Stream             `mapstructure:"stream"`
	Watchlist Watchlist          `mapstructure:"watchlist"`
}

// ConfigError reports malformed or missing configuration. It is fatal at startup.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

var defaults = map[string]interface{}{
	"app.name":                        "stock-sentiment-analyzer",
	"logger.level":                    "info",
	"logger.encoding":                 "console",
	"api.port":                        8080,
	"reddit.user_agent":               "StockAnalyzerBot/1.0",
	"reddit.auth_url":                 "https://www.reddit.com/api/v1/access_token",
	"reddit.base_url":                 "https://oauth.reddit.com",
	"reddit.max_request_per_minute":   60,
	"reddit.search_limit":             100,
	"reddit.sort":                     "hot",
	"reddit.time_window":              "week",
	"analyzer.source_timeout":         "15s",
	"analyzer.max_concurrent_sources": 3,
	"report.dir":                      "reports",
	"report.top_posts":                10,
	"redis.stream_max_len":            1000,
	"stream.process_timeout":          "2m",
	"stream.retry_interval":           "30s",
	"stream.max_idle_duration":        "5m",
	"stream.max_retry":                3,
	"watchlist.cron":                  "0 */4 * * *",
}

// Load loads and validates the analyzer configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults); err != nil {
		return nil, &ConfigError{Field: "file", Message: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the pipeline relies on.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return &ConfigError{Field: "sources", Message: "at least one source is required"}
	}

	seen := make(map[string]struct{}, len(c.Sources))
	needsReddit := false
	for i, src := range c.Sources {
		field := fmt.Sprintf("sources[%d]", i)
		if strings.TrimSpace(src.Name) == "" {
			return &ConfigError{Field: field + ".name", Message: "must not be empty"}
		}
		if _, dup := seen[src.Name]; dup {
			return &ConfigError{Field: field + ".name", Message: fmt.Sprintf("duplicate source %q", src.Name)}
		}
		seen[src.Name] = struct{}{}

		if src.Weight <= 0 {
			return &ConfigError{Field: field + ".weight", Message: fmt.Sprintf("must be positive, got %v", src.Weight)}
		}

		switch src.Kind {
		case "", entity.SourceKindReddit:
			c.Sources[i].Kind = entity.SourceKindReddit
			needsReddit = true
		case entity.SourceKindRSS:
			if !strings.Contains(src.FeedURL, "{ticker}") {
				return &ConfigError{Field: field + ".feed_url", Message: "rss sources need a feed_url containing {ticker}"}
			}
		default:
			return &ConfigError{Field: field + ".kind", Message: fmt.Sprintf("unknown source kind %q", src.Kind)}
		}
	}

	if needsReddit && (c.Reddit.ClientID == "" || c.Reddit.ClientSecret == "") {
		return &ConfigError{Field: "reddit", Message: "client_id and client_secret are required for reddit sources"}
	}
	if c.Reddit.MaxRequestPerMinute <= 0 {
		return &ConfigError{Field: "reddit.max_request_per_minute", Message: "must be positive"}
	}
	if c.Analyzer.SourceTimeout <= 0 {
		return &ConfigError{Field: "analyzer.source_timeout", Message: "must be positive"}
	}
	if c.Analyzer.MaxConcurrentSources <= 0 {
		c.Analyzer.MaxConcurrentSources = 1
	}
	for term, weight := range c.Lexicon {
		if strings.TrimSpace(term) == "" {
			return &ConfigError{Field: "lexicon", Message: fmt.Sprintf("empty term with weight %v", weight)}
		}
	}
	return nil
}
