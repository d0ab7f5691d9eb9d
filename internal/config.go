package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/robfig/cron/v3"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Feed sources.
const (
	FeedSourceNone   = ""
	FeedSourceRSS    = "rss"
	FeedSourceAPI    = "api"
	FeedSourceSample = "sample"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Feed   FeedConfig        `yaml:"feed"`
	Site   SiteConfig        `yaml:"site"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Data   DataConfig        `yaml:"data"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Feed.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// FeedConfig holds the upstream AWS updates feed configuration.
//
// Source controls where updates come from:
//   - "" (default): no upstream feed; only admin imports populate the store.
//   - "rss": poll the AWS What's New RSS feed at RSSURL.
//   - "api": poll an updates JSON endpoint at APIURL.
//   - "sample": load records from the sample document in the data directory.
type FeedConfig struct {
	Source         string `yaml:"source"`
	RSSURL         string `yaml:"rss_url"`
	APIURL         string `yaml:"api_url"`
	Schedule       string `yaml:"schedule"`
	ClampFuture    bool   `yaml:"clamp_future"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-fetch HTTP timeout.
func (c *FeedConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the feed configuration.
func (c *FeedConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.In(FeedSourceNone, FeedSourceRSS, FeedSourceAPI, FeedSourceSample)),
		validation.Field(&c.RSSURL, is.URL),
		validation.Field(&c.APIURL, is.URL),
	); err != nil {
		return err
	}
	if c.Source == FeedSourceRSS && c.RSSURL == "" {
		return fmt.Errorf("feed: source is %q but rss_url is empty", FeedSourceRSS)
	}
	if c.Source == FeedSourceAPI && c.APIURL == "" {
		return fmt.Errorf("feed: source is %q but api_url is empty", FeedSourceAPI)
	}
	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("feed: invalid schedule %q: %w", c.Schedule, err)
		}
	}
	return nil
}

// SiteConfig holds site-level settings used by the read side.
type SiteConfig struct {
	BaseURL              string `yaml:"base_url"`
	PageSize             int    `yaml:"page_size"`
	DigestMaxPerCategory int    `yaml:"digest_max_per_category"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.PageSize, validation.Min(1), validation.Max(100)),
		validation.Field(&c.DigestMaxPerCategory, validation.Min(0), validation.Max(50)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// DataConfig holds the path to the content data directory (JSON documents
// for posts, reviews, tutorials, and the sample feed, plus uploaded assets).
type DataConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration for the admin endpoints.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Feed: FeedConfig{
			Source:      FeedSourceNone,
			Schedule:    "@hourly",
			ClampFuture: true,
		},
		Site: SiteConfig{
			BaseURL:  "https://acloudresume.com",
			PageSize: 12,
		},
		SQLite: SQLiteConfig{
			Path: "./acloudresume.db",
		},
		Data: DataConfig{
			Path: "./data",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
