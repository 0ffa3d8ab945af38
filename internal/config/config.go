package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Sources  SourcesConfig  `yaml:"sources"`
	Feed     FeedConfig     `yaml:"feed"`
	Enrich   EnrichConfig   `yaml:"enrich"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Server   ServerConfig   `yaml:"server"`
	Filter   FilterConfig   `yaml:"filter"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
	// RetentionDays controls how long stories are kept before pruning.
	RetentionDays int `yaml:"retention_days"`
}

// ScheduleConfig configures collection and enrichment intervals.
type ScheduleConfig struct {
	CollectInterval string `yaml:"collect_interval"`
	EnrichInterval  string `yaml:"enrich_interval"`
}

// ParseCollectInterval returns the collect interval as time.Duration.
func (s ScheduleConfig) ParseCollectInterval() time.Duration {
	d, err := time.ParseDuration(s.CollectInterval)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// ParseEnrichInterval returns the enrichment interval as time.Duration.
func (s ScheduleConfig) ParseEnrichInterval() time.Duration {
	d, err := time.ParseDuration(s.EnrichInterval)
	if err != nil {
		return time.Hour
	}
	return d
}

// SourcesConfig holds configuration for all story collectors.
type SourcesConfig struct {
	YouTube YouTubeConfig `yaml:"youtube"`
	RSS     RSSConfig     `yaml:"rss"`
}

// YouTubeConfig for the YouTube most-popular collector.
type YouTubeConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key"`
	RegionCode string `yaml:"region_code"`
	MaxResults int    `yaml:"max_results"`
}

// RSSConfig for the RSS/Atom news collector.
type RSSConfig struct {
	Enabled bool       `yaml:"enabled"`
	Feeds   []FeedItem `yaml:"feeds"`
}

// FeedItem is a single RSS feed entry.
type FeedItem struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FeedConfig configures the home feed ranking and projection engine.
type FeedConfig struct {
	TopN                 int               `yaml:"top_n"`
	MinPrimaryWindowSize int               `yaml:"min_primary_window_size"`
	FallbackWindowDays   int               `yaml:"fallback_window_days"`
	ReferenceTimezone    string            `yaml:"reference_timezone"`
	SiteBaseURL          string            `yaml:"site_base_url"`
	GrowthThresholds     []GrowthThreshold `yaml:"growth_thresholds"`
}

// GrowthThreshold is one (floor, label) growth classification tier.
type GrowthThreshold struct {
	Floor float64 `yaml:"floor"`
	Label string  `yaml:"label"`
}

// ParseTimezone loads the reference IANA zone, falling back to Asia/Bangkok.
func (f FeedConfig) ParseTimezone() *time.Location {
	name := f.ReferenceTimezone
	if name == "" {
		name = "Asia/Bangkok"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EnrichConfig configures the optional LLM summary translator.
type EnrichConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"` // "openai" or "anthropic"
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"` // custom endpoint (optional)
}

// AlertsConfig configures alert destinations.
type AlertsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook alerts.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// FilterConfig configures content filtering at collection time.
type FilterConfig struct {
	IncludeKeywords []string `yaml:"include_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./trendsiam.db", RetentionDays: 90},
		Schedule: ScheduleConfig{
			CollectInterval: "30m",
			EnrichInterval:  "1h",
		},
		Sources: SourcesConfig{
			YouTube: YouTubeConfig{
				Enabled:    true,
				RegionCode: "TH",
				MaxResults: 50,
			},
			RSS: RSSConfig{
				Enabled: true,
				Feeds: []FeedItem{
					{Name: "Bangkok Post", URL: "https://www.bangkokpost.com/rss/data/most-recent.xml"},
					{Name: "Thai PBS World", URL: "https://www.thaipbsworld.com/feed/"},
					{Name: "The Nation Thailand", URL: "https://www.nationthailand.com/rss"},
				},
			},
		},
		Feed: FeedConfig{
			TopN:                 3,
			MinPrimaryWindowSize: 20,
			FallbackWindowDays:   60,
			ReferenceTimezone:    "Asia/Bangkok",
			SiteBaseURL:          "https://trendsiam.app",
		},
		Enrich: EnrichConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Alerts: AlertsConfig{},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRENDSIAM_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TRENDSIAM_SITE_BASE_URL"); v != "" {
		cfg.Feed.SiteBaseURL = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		cfg.Sources.YouTube.APIKey = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Enrich.APIKey = v
		cfg.Enrich.Enabled = true
		cfg.Enrich.Provider = "openai"
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Enrich.APIKey = v
		cfg.Enrich.Enabled = true
		cfg.Enrich.Provider = "anthropic"
	}
}
