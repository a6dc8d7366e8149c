package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/namecardai/namecard/internal/config"
	"github.com/namecardai/namecard/internal/logging"
	"github.com/namecardai/namecard/pkg/adapters/memory"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().String("content", "", "")
	cmd.Flags().String("log-level", "", "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "namecard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\nlog_level: warn\n"), 0o600))

	cfg, err := loadConfig(testCommand(t, "--config", path, "--log-level", "debug", "--content", "site"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "site", cfg.ContentDir)
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "loud"
	_, err := newLogger(&bytes.Buffer{}, cfg)
	assert.Error(t, err)
}

func TestContentSource_DefaultsToEmbedded(t *testing.T) {
	src, err := contentSource(config.Default())
	require.NoError(t, err)
	assert.IsType(t, content.Embedded{}, src)
}

func TestOpenBackends_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Accounts.Latency = 0

	b, err := openBackends(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, b.close()) }()

	assert.IsType(t, &memory.Accounts{}, b.accounts)
	assert.IsType(t, &memory.Waitlist{}, b.waitlist)
}

func TestOpenBackends_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Accounts.Backend = config.BackendRedis
	cfg.Accounts.RedisAddr = mr.Addr()

	ctx := context.Background()
	b, err := openBackends(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, b.close()) }()

	require.NoError(t, b.accounts.CreateAccount(ctx, domain.Registration{
		FirstName: "Alex", LastName: "Lee", Email: "alex@example.com", Plan: domain.DefaultPlan,
	}))
	err = b.accounts.CreateAccount(ctx, domain.Registration{Email: "alex@example.com", Plan: domain.DefaultPlan})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestOpenBackends_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.Accounts.Backend = config.BackendRedis
	cfg.Accounts.RedisAddr = addr

	_, err := openBackends(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
}
