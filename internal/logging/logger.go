package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/namecardai/namecard/pkg/domain"
)

// New creates a configured application logger.
// It writes to Stderr (to separate from Stdout CLI output and MCP stdio).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return NewWithFormat(os.Stderr, level, "text")
}

// NewWithFormat builds a logger writing text or JSON records to w.
// Unknown formats fall back to text.
func NewWithFormat(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config string (debug, info, warn, error) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// DebugHooks logs every controller lifecycle event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLevel: func(ctx context.Context, e *domain.LevelEvent) {
			logger.DebugContext(ctx, "Tutorial Level", "session_id", e.SessionID, "event", e.Type, "level", e.LevelID, "auto", e.Auto)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "Wizard Step", "session_id", e.SessionID, "event", e.Type, "from", e.From, "to", e.To, "errors", e.Errors)
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			if e.Err != nil {
				logger.DebugContext(ctx, "Wizard Submit (Error)", "session_id", e.SessionID, "event", e.Type, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "Wizard Submit", "session_id", e.SessionID, "event", e.Type, "plan", e.Plan, "duration", e.Duration)
		},
	}
}
