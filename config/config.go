// Package config manages application configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for missing required settings.
var (
	// ErrMissingAPIKey indicates the YouTube Data API key is not set.
	ErrMissingAPIKey = errors.New("config: missing YouTube API key")
	// ErrMissingBotToken indicates the Telegram bot token is not set.
	ErrMissingBotToken = errors.New("config: missing Telegram bot token")
	// ErrMissingChatID indicates the Telegram chat ID is not set.
	ErrMissingChatID = errors.New("config: missing Telegram chat ID")
)

// Config holds all application configuration for the relay pipeline.
type Config struct {
	// APIKey is the YouTube Data API v3 key (required)
	APIKey string `json:"api_key"`
	// BotToken is the Telegram bot token (required)
	BotToken string `json:"bot_token"`
	// ChatID is the Telegram destination chat (required)
	ChatID string `json:"chat_id"`

	// SearchTerms are the keyword queries issued each run
	SearchTerms []string `json:"search_terms"`
	// LikeThreshold is the minimum like count for a video to qualify
	LikeThreshold int64 `json:"like_threshold"`
	// MaxResultsPerTerm caps search results per keyword query
	MaxResultsPerTerm int64 `json:"max_results_per_term"`
	// RecencyWindow bounds discovery to videos published within this window
	RecencyWindow time.Duration `json:"recency_window"`

	// LedgerPath is the sent-video ledger file location
	LedgerPath string `json:"ledger_path"`
	// DownloadDir is the scratch directory for fetched media
	DownloadDir string `json:"download_dir"`

	// YtdlpPath is the path to the yt-dlp executable (default: "yt-dlp")
	YtdlpPath string `json:"ytdlp_path"`
	// YtdlpTimeout is the maximum time to wait for one download
	YtdlpTimeout time.Duration `json:"ytdlp_timeout"`

	// SearchTimeout bounds each discovery and stats API call
	SearchTimeout time.Duration `json:"search_timeout"`
	// SendTimeout bounds each Telegram upload
	SendTimeout time.Duration `json:"send_timeout"`
	// SendPause is the courtesy delay between successful relays
	SendPause time.Duration `json:"send_pause"`

	// CronSpec schedules runs in daemon mode (unused in one-shot mode)
	CronSpec string `json:"cron_spec"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		SearchTerms:       []string{"cat", "meow", "گربه", "میو"},
		LikeThreshold:     200000,
		MaxResultsPerTerm: 25,
		RecencyWindow:     24 * time.Hour,
		LedgerPath:        "sent_videos.json",
		DownloadDir:       "downloads",
		YtdlpPath:         "yt-dlp",
		YtdlpTimeout:      5 * time.Minute,
		SearchTimeout:     30 * time.Second,
		SendTimeout:       120 * time.Second,
		SendPause:         3 * time.Second,
		CronSpec:          "0 * * * *",
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.loadFromEnv()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytrelay.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytrelay.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytrelay", "ytrelay.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
// The credential variables keep the names the bot has always used;
// everything else is namespaced under YTRELAY_.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YT_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.ChatID = v
	}
	if v := os.Getenv("LIKE_THRESHOLD"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.LikeThreshold = n
		}
	}
	if v := os.Getenv("YTRELAY_SEARCH_TERMS"); v != "" {
		terms := strings.Split(v, ",")
		for i, t := range terms {
			terms[i] = strings.TrimSpace(t)
		}
		c.SearchTerms = terms
	}
	if v := os.Getenv("YTRELAY_MAX_RESULTS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxResultsPerTerm = n
		}
	}
	if v := os.Getenv("YTRELAY_RECENCY_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RecencyWindow = d
		}
	}
	if v := os.Getenv("YTRELAY_LEDGER_PATH"); v != "" {
		c.LedgerPath = v
	}
	if v := os.Getenv("YTRELAY_DOWNLOAD_DIR"); v != "" {
		c.DownloadDir = v
	}
	if v := os.Getenv("YTRELAY_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("YTRELAY_YTDLP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.YtdlpTimeout = d
		}
	}
	if v := os.Getenv("YTRELAY_SEARCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SearchTimeout = d
		}
	}
	if v := os.Getenv("YTRELAY_SEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SendTimeout = d
		}
	}
	if v := os.Getenv("YTRELAY_SEND_PAUSE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SendPause = d
		}
	}
	if v := os.Getenv("YTRELAY_CRON_SPEC"); v != "" {
		c.CronSpec = v
	}
}

// Validate checks that configuration values are valid and consistent.
// Missing credentials are reported before any network call is attempted.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.BotToken == "" {
		return ErrMissingBotToken
	}
	if c.ChatID == "" {
		return ErrMissingChatID
	}
	if len(c.SearchTerms) == 0 {
		return fmt.Errorf("search_terms must not be empty")
	}
	if c.LikeThreshold < 0 {
		return fmt.Errorf("like_threshold must be non-negative")
	}
	if c.MaxResultsPerTerm <= 0 {
		return fmt.Errorf("max_results_per_term must be positive")
	}
	if c.RecencyWindow <= 0 {
		return fmt.Errorf("recency_window must be positive")
	}
	if c.LedgerPath == "" {
		return fmt.Errorf("ledger_path must not be empty")
	}
	if c.DownloadDir == "" {
		return fmt.Errorf("download_dir must not be empty")
	}
	if c.YtdlpTimeout <= 0 {
		return fmt.Errorf("ytdlp_timeout must be positive")
	}
	if c.SearchTimeout <= 0 {
		return fmt.Errorf("search_timeout must be positive")
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("send_timeout must be positive")
	}
	if c.SendPause < 0 {
		return fmt.Errorf("send_pause must be non-negative")
	}
	return nil
}

// IsCredentialError reports whether err is a missing-credential configuration error.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrMissingAPIKey) ||
		errors.Is(err, ErrMissingBotToken) ||
		errors.Is(err, ErrMissingChatID)
}
