package wizard

import (
	"log/slog"
	"time"

	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/ports"
)

// Option configures a Controller.
type Option func(*Controller)

// WithCatalog supplies the step descriptors, plans and industries.
// Defaults to the embedded catalog.
func WithCatalog(c *content.Catalog) Option {
	return func(w *Controller) {
		w.catalog = c
	}
}

// WithClock sets the clock used to time submissions.
func WithClock(c ports.Clock) Option {
	return func(w *Controller) {
		w.clock = c
	}
}

// WithSubmitTimeout bounds the account-creation call. Zero means the
// caller's context alone decides.
func WithSubmitTimeout(d time.Duration) Option {
	return func(w *Controller) {
		w.submitTimeout = d
	}
}

// WithHooks registers lifecycle hooks for step and submit events.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(w *Controller) {
		w.hooks = h
	}
}

// WithLogger sets the logger for submission diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(w *Controller) {
		w.logger = l
	}
}

// WithSessionID tags emitted events with the owning session.
func WithSessionID(id string) Option {
	return func(w *Controller) {
		w.sessionID = id
	}
}
