package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"discord-share/internal/webhook"
)

// Config holds all application configuration.
type Config struct {
	DBPath          string `yaml:"db_path"`
	WebhookURL      string `yaml:"webhook_url"`
	ListenAddr      string `yaml:"listen_addr"`
	FetchTimeoutSec int    `yaml:"fetch_timeout_secs"`
	DialTimeoutSec  int    `yaml:"dial_timeout_secs"`
	SendTimeoutSec  int    `yaml:"send_timeout_secs"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
	LogLevel        string `yaml:"log_level"`
	UseKeyring      bool   `yaml:"use_keyring"`
	KeyringService  string `yaml:"keyring_service"`
	FooterText      string `yaml:"footer_text"`
}

// Defaults returns a Config with all default values set.
func Defaults() Config {
	return Config{
		DBPath:          "./discord-share.db",
		ListenAddr:      ":8080",
		FetchTimeoutSec: 15,
		DialTimeoutSec:  5,
		SendTimeoutSec:  15,
		MaxBodyBytes:    5 * 1024 * 1024,
		LogLevel:        "info",
		KeyringService:  "discord-share",
		FooterText:      webhook.DefaultFooter,
	}
}

// Load reads an optional YAML file over the defaults. A missing file is not
// an error. DISCORD_SHARE_CONFIG, DISCORD_SHARE_DB and
// DISCORD_SHARE_WEBHOOK_URL override the path, the database and the webhook.
func Load(path string) (Config, error) {
	if envPath := os.Getenv("DISCORD_SHARE_CONFIG"); envPath != "" {
		path = envPath
	}

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if envDB := os.Getenv("DISCORD_SHARE_DB"); envDB != "" {
		cfg.DBPath = envDB
	}
	if envHook := os.Getenv("DISCORD_SHARE_WEBHOOK_URL"); envHook != "" {
		cfg.WebhookURL = envHook
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.WebhookURL != "" {
		if err := webhook.Validate(c.WebhookURL); err != nil {
			return fmt.Errorf("webhook_url: %w", err)
		}
	}
	if c.FetchTimeoutSec <= 0 || c.SendTimeoutSec <= 0 || c.DialTimeoutSec <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.UseKeyring && c.KeyringService == "" {
		return fmt.Errorf("keyring_service is required when use_keyring is set")
	}
	return nil
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

func (c Config) DialTimeout() time.Duration {
	return time.Duration(c.DialTimeoutSec) * time.Second
}

func (c Config) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutSec) * time.Second
}
