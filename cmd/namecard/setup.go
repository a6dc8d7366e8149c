package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/namecardai/namecard/internal/config"
	"github.com/namecardai/namecard/internal/logging"
	loamAdapter "github.com/namecardai/namecard/pkg/adapters/loam"
	"github.com/namecardai/namecard/pkg/adapters/memory"
	redisAdapter "github.com/namecardai/namecard/pkg/adapters/redis"
	"github.com/namecardai/namecard/pkg/adapters/webhook"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/ports"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// loadConfig reads --config and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if dir, _ := cmd.Flags().GetString("content"); dir != "" {
		cfg.ContentDir = dir
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(w, level, cfg.LogFormat), nil
}

// contentSource serves the embedded catalog unless a content directory is set.
func contentSource(cfg config.Config) (ports.ContentSource, error) {
	if cfg.ContentDir == "" {
		return content.Embedded{}, nil
	}
	return loamAdapter.Open(cfg.ContentDir)
}

// backends holds where registrations and waitlist entries are written.
type backends struct {
	accounts ports.AccountCreator
	waitlist ports.Waitlist
	close    func() error
}

func openBackends(ctx context.Context, cfg config.Config, logger *slog.Logger) (*backends, error) {
	nop := func() error { return nil }
	switch cfg.Accounts.Backend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Accounts.RedisAddr,
			Password: cfg.Accounts.RedisPassword,
			DB:       cfg.Accounts.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Accounts.RedisAddr, err)
		}
		logger.Info("Using redis backend", "address", cfg.Accounts.RedisAddr, "db", cfg.Accounts.RedisDB)
		locker := redisAdapter.NewLocker(rdb, redisAdapter.DefaultPrefix)
		return &backends{
			accounts: redisAdapter.NewFromClient(rdb, redisAdapter.WithLocker(locker)),
			waitlist: redisAdapter.NewWaitlist(rdb, redisAdapter.DefaultPrefix),
			close:    rdb.Close,
		}, nil
	case config.BackendWebhook:
		logger.Info("Using webhook backend", "url", cfg.Accounts.WebhookURL)
		return &backends{
			accounts: webhook.New(cfg.Accounts.WebhookURL),
			waitlist: memory.NewWaitlist(),
			close:    nop,
		}, nil
	default:
		logger.Info("Using in-memory backend", "latency", cfg.Accounts.Latency)
		return &backends{
			accounts: memory.NewAccounts(memory.WithLatency(cfg.Accounts.Latency)),
			waitlist: memory.NewWaitlist(),
			close:    nop,
		}, nil
	}
}
