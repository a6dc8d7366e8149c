package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/namecardai/namecard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFormat_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithFormat(&buf, slog.LevelInfo, "json")

	logger.Info("boom", "error", errors.New("bad"))
	assert.Contains(t, buf.String(), `"err":"bad"`)
	assert.NotContains(t, buf.String(), `"error"`)
}

func TestNewWithFormat_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithFormat(&buf, slog.LevelWarn, "yaml")

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=v")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	l, err = ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := DebugHooks(NewWithFormat(&buf, slog.LevelDebug, "text"))
	ctx := context.Background()

	hooks.EmitLevel(ctx, &domain.LevelEvent{EventBase: domain.EventBase{Type: domain.EventLevelAdvanced}, LevelID: 2, Auto: true})
	hooks.EmitSubmit(ctx, &domain.SubmitEvent{EventBase: domain.EventBase{Type: domain.EventSubmitFailed}, Err: errors.New("upstream down")})

	out := buf.String()
	assert.Contains(t, out, "level=2")
	assert.Contains(t, out, "auto=true")
	assert.Contains(t, out, `err="upstream down"`)
}
