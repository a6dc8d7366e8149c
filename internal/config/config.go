// Package config loads the server configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "NAMECARD_"

// Account backends.
const (
	BackendMemory  = "memory"
	BackendRedis   = "redis"
	BackendWebhook = "webhook"
)

// RateLimit bounds requests per client IP.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Accounts selects where sign-ups and waitlist entries go.
type Accounts struct {
	Backend       string        `yaml:"backend"`
	Latency       time.Duration `yaml:"latency"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	WebhookURL    string        `yaml:"webhook_url"`
}

// Config is the complete runtime configuration.
type Config struct {
	Addr             string        `yaml:"addr"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
	AdvanceDelay     time.Duration `yaml:"advance_delay"`
	AutoplayInterval time.Duration `yaml:"autoplay_interval"`
	SubmitTimeout    time.Duration `yaml:"submit_timeout"`
	RateLimit        RateLimit     `yaml:"rate_limit"`
	Accounts         Accounts      `yaml:"accounts"`
	ContentDir       string        `yaml:"content_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:             ":8080",
		LogLevel:         "info",
		LogFormat:        "text",
		SessionTTL:       30 * time.Minute,
		AdvanceDelay:     time.Second,
		AutoplayInterval: 8 * time.Second,
		SubmitTimeout:    10 * time.Second,
		RateLimit:        RateLimit{RPS: 20, Burst: 40},
		Accounts: Accounts{
			Backend: BackendMemory,
			Latency: 2 * time.Second,
		},
	}
}

// Load reads path (if non-empty) over the defaults and then applies
// NAMECARD_* environment overrides. A missing file is an error only when a
// path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session_ttl must be positive"))
	}
	if c.AdvanceDelay < 0 || c.AutoplayInterval <= 0 {
		errs = append(errs, errors.New("advance_delay must be >= 0 and autoplay_interval > 0"))
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("rate_limit values must not be negative"))
	}
	switch c.Accounts.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Accounts.RedisAddr == "" {
			errs = append(errs, errors.New("accounts.redis_addr is required for the redis backend"))
		}
	case BackendWebhook:
		if c.Accounts.WebhookURL == "" {
			errs = append(errs, errors.New("accounts.webhook_url is required for the webhook backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown accounts.backend %q", c.Accounts.Backend))
	}
	return errors.Join(errs...)
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}

	str("ADDR", &c.Addr)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	dur("SESSION_TTL", &c.SessionTTL)
	dur("ADVANCE_DELAY", &c.AdvanceDelay)
	dur("AUTOPLAY_INTERVAL", &c.AutoplayInterval)
	dur("SUBMIT_TIMEOUT", &c.SubmitTimeout)
	if v, ok := lookup(EnvPrefix + "RATE_LIMIT_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRATE_LIMIT_RPS: %w", EnvPrefix, err))
		} else {
			c.RateLimit.RPS = f
		}
	}
	num("RATE_LIMIT_BURST", &c.RateLimit.Burst)
	str("ACCOUNTS_BACKEND", &c.Accounts.Backend)
	dur("ACCOUNTS_LATENCY", &c.Accounts.Latency)
	str("ACCOUNTS_REDIS_ADDR", &c.Accounts.RedisAddr)
	str("ACCOUNTS_REDIS_PASSWORD", &c.Accounts.RedisPassword)
	num("ACCOUNTS_REDIS_DB", &c.Accounts.RedisDB)
	str("ACCOUNTS_WEBHOOK_URL", &c.Accounts.WebhookURL)
	str("CONTENT_DIR", &c.ContentDir)

	c.Accounts.Backend = strings.ToLower(c.Accounts.Backend)
	return errors.Join(errs...)
}
