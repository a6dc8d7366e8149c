package tutorial

import (
	"log/slog"
	"time"

	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/ports"
)

// DefaultAdvanceDelay is the pause between completing a level and moving on.
const DefaultAdvanceDelay = time.Second

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source for the auto-advance timer.
func WithClock(c ports.Clock) Option {
	return func(t *Controller) {
		t.clock = c
	}
}

// WithAdvanceDelay overrides DefaultAdvanceDelay.
func WithAdvanceDelay(d time.Duration) Option {
	return func(t *Controller) {
		t.delay = d
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(t *Controller) {
		t.hooks = h
	}
}

// WithLogger sets the logger for timer and hook diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Controller) {
		t.logger = l
	}
}

// WithSessionID tags emitted events with the owning session.
func WithSessionID(id string) Option {
	return func(t *Controller) {
		t.sessionID = id
	}
}

// WithProfile sets the identity printed on the demo card.
func WithProfile(p domain.Profile) Option {
	return func(t *Controller) {
		t.profile = p
	}
}
