// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	DB       DBConfig       `mapstructure:"db"`
	PubSub   PubSubConfig   `mapstructure:"pubsub"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// BrowserConfig configures the remote browser session used for extraction.
type BrowserConfig struct {
	Endpoint           string `mapstructure:"endpoint"`
	Token              string `mapstructure:"token"`
	UserAgent          string `mapstructure:"user_agent"`
	WaitTimeoutSeconds int    `mapstructure:"wait_timeout_seconds"`
}

// ScraperConfig governs the extraction pipeline.
type ScraperConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Engine      string `mapstructure:"engine"`
	MaxProfiles int    `mapstructure:"max_profiles"`
}

// DBConfig controls access to the relational database. An empty DSN selects
// the in-memory store.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// PubSubConfig holds metadata for publish-subscribe notifications. An empty
// project disables publishing.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// SnapshotConfig controls listing snapshot archiving.
type SnapshotConfig struct {
	Provider string `mapstructure:"provider"`
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Scraper engine values.
const (
	EngineHeadless = "headless"
	EngineStatic   = "static"
)

// Snapshot provider values.
const (
	SnapshotNone   = "none"
	SnapshotMemory = "memory"
	SnapshotGCS    = "gcs"
)

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JUDGESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.api_key", "")
	v.SetDefault("browser.endpoint", "wss://chrome.browserless.io")
	v.SetDefault("browser.token", "")
	v.SetDefault("browser.user_agent", "judge-scout/0.1")
	v.SetDefault("browser.wait_timeout_seconds", 20)
	v.SetDefault("scraper.base_url", "https://clarity.fm")
	v.SetDefault("scraper.engine", EngineHeadless)
	v.SetDefault("scraper.max_profiles", 5)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.table", "judges")
	v.SetDefault("db.max_conns", 0)
	v.SetDefault("db.min_conns", 0)
	v.SetDefault("pubsub.project_id", "")
	v.SetDefault("pubsub.topic_name", "judge-scout-events")
	v.SetDefault("snapshot.provider", SnapshotNone)
	v.SetDefault("snapshot.bucket", "")
	v.SetDefault("snapshot.prefix", "listings")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Scraper.BaseURL == "" {
		return fmt.Errorf("scraper.base_url is required")
	}
	if c.Scraper.Engine != EngineHeadless && c.Scraper.Engine != EngineStatic {
		return fmt.Errorf("scraper.engine must be %q or %q", EngineHeadless, EngineStatic)
	}
	if c.Scraper.MaxProfiles <= 0 {
		return fmt.Errorf("scraper.max_profiles must be > 0")
	}
	if c.Browser.WaitTimeoutSeconds <= 0 {
		return fmt.Errorf("browser.wait_timeout_seconds must be > 0")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	if c.Snapshot.Provider == SnapshotGCS && c.Snapshot.Bucket == "" {
		return fmt.Errorf("snapshot.bucket must be set when snapshot.provider is gcs")
	}
	return nil
}

// WaitTimeout returns the structure wait window as a duration.
func (c Config) WaitTimeout() time.Duration {
	return time.Duration(c.Browser.WaitTimeoutSeconds) * time.Second
}
