package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seo-insight/backend/logging"
)

// Config holds all runtime settings for the service.
type Config struct {
	Port                string  `yaml:"port"`
	GinMode             string  `yaml:"gin_mode"`
	DevMode             bool    `yaml:"dev_mode"`
	DataDir             string  `yaml:"data_dir"`
	UserAgent           string  `yaml:"user_agent"`
	FetchTimeoutSeconds int     `yaml:"fetch_timeout_seconds"`
	MaxBodyBytes        int64   `yaml:"max_body_bytes"`
	CacheTTLMinutes     int     `yaml:"cache_ttl_minutes"`
	MaxCacheEntries     int     `yaml:"max_cache_entries"`
	MaxStoredReports    int     `yaml:"max_stored_reports"`
	RecentDefault       int     `yaml:"recent_default"`
	RateLimitPerSecond  float64 `yaml:"rate_limit_per_second"`
	RateLimitBurst      int     `yaml:"rate_limit_burst"`

	Log logging.Config `yaml:"log"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port:                "8082",
		GinMode:             "release",
		DataDir:             "data",
		UserAgent:           "SEOInsightBot/1.0 (+https://seo-insight.dev/bot)",
		FetchTimeoutSeconds: 15,
		MaxBodyBytes:        10 << 20,
		CacheTTLMinutes:     30,
		MaxCacheEntries:     1000,
		MaxStoredReports:    200,
		RecentDefault:       10,
		RateLimitPerSecond:  2,
		RateLimitBurst:      5,
		Log: logging.Config{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variable overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	return cfg, nil
}

// applyEnv overrides settings from environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.GinMode = v
	}
	if v := os.Getenv("DEV_MODE"); v != "" {
		cfg.DevMode = v == "true"
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("FETCH_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FetchTimeoutSeconds = n
		}
	}
	if v := os.Getenv("CACHE_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheTTLMinutes = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// FetchTimeout returns the fetch timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// CacheTTL returns the analysis cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}
