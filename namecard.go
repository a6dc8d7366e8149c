package namecard

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/namecardai/namecard/internal/logging"
	"github.com/namecardai/namecard/internal/metrics"
	httpAdapter "github.com/namecardai/namecard/pkg/adapters/http"
	"github.com/namecardai/namecard/pkg/adapters/memory"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/ports"
	"github.com/namecardai/namecard/pkg/session"
)

//go:embed VERSION
var rawVersion string

// Version of the site, from the VERSION file.
var Version = strings.TrimSpace(rawVersion)

// App wires the content, the session manager and the web server.
type App struct {
	Sessions *session.Manager
	Server   *httpAdapter.Server
	Metrics  *metrics.Metrics

	source   ports.ContentSource
	accounts ports.AccountCreator
	waitlist ports.Waitlist
	logger   *slog.Logger
	ttl      time.Duration
	advance  time.Duration
	autoplay time.Duration
	submit   time.Duration
	rps      float64
	burst    int
	metrics  bool
}

// Option configures the App.
type Option func(*App)

func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithAccounts sets where registrations go. Defaults to memory.
func WithAccounts(c ports.AccountCreator) Option {
	return func(a *App) {
		a.accounts = c
	}
}

// WithWaitlist sets the landing page email store. Defaults to memory.
func WithWaitlist(w ports.Waitlist) Option {
	return func(a *App) {
		a.waitlist = w
	}
}

// WithContentSource replaces the embedded catalog. Sources implementing
// ports.Watchable are followed by Run.
func WithContentSource(src ports.ContentSource) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithSessionTTL sets how long an idle session is kept.
func WithSessionTTL(d time.Duration) Option {
	return func(a *App) {
		a.ttl = d
	}
}

// WithTimings sets the tutorial auto-advance delay, the pitch autoplay
// interval and the account creation timeout. Zero keeps the default delay and
// interval, and leaves account creation bounded only by the request.
func WithTimings(advance, autoplay, submit time.Duration) Option {
	return func(a *App) {
		a.advance = advance
		a.autoplay = autoplay
		a.submit = submit
	}
}

// WithRateLimit limits pages and API calls per client IP.
func WithRateLimit(rps float64, burst int) Option {
	return func(a *App) {
		a.rps = rps
		a.burst = burst
	}
}

// WithMetrics enables the Prometheus collectors and /metrics.
func WithMetrics(enabled bool) Option {
	return func(a *App) {
		a.metrics = enabled
	}
}

// New loads the content and assembles the site.
func New(ctx context.Context, opts ...Option) (*App, error) {
	a := &App{
		source: content.Embedded{},
		logger: logging.NewNop(),
		ttl:    session.DefaultTTL,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.accounts == nil {
		a.accounts = memory.NewAccounts()
	}

	cat, err := a.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	hooks := logging.DebugHooks(a.logger)
	managerOpts := []session.Option{session.WithTTL(a.ttl), session.WithLogger(a.logger)}
	serverOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(a.logger),
		httpAdapter.WithVersion(Version),
		httpAdapter.WithRateLimit(a.rps, a.burst),
	}
	if a.metrics {
		a.Metrics = metrics.New()
		hooks = hooks.Merge(a.Metrics.Hooks())
		managerOpts = append(managerOpts, session.WithCountObserver(func(n int) {
			a.Metrics.Sessions.Set(float64(n))
		}))
		serverOpts = append(serverOpts, httpAdapter.WithMetrics(a.Metrics))
	}
	if a.waitlist != nil {
		serverOpts = append(serverOpts, httpAdapter.WithWaitlist(a.waitlist))
	}

	a.Sessions = session.NewManager(cat, session.Deps{
		Creator:          a.accounts,
		Hooks:            hooks,
		Logger:           a.logger,
		AdvanceDelay:     a.advance,
		AutoplayInterval: a.autoplay,
		SubmitTimeout:    a.submit,
	}, managerOpts...)

	a.Server, err = httpAdapter.New(a.Sessions, serverOpts...)
	if err != nil {
		a.Sessions.Close()
		return nil, err
	}
	return a, nil
}

// Handler returns the site router. ctx bounds background middleware work.
func (a *App) Handler(ctx context.Context) http.Handler {
	return a.Server.Handler(ctx)
}

// Reload re-reads the content source. New sessions see the new catalog; open
// pages are told to refresh. A broken catalog keeps the previous one.
func (a *App) Reload(ctx context.Context, changed string) error {
	cat, err := a.source.Load(ctx)
	if err != nil {
		a.logger.Error("Content reload failed, keeping previous catalog", "changed", changed, "error", err)
		return err
	}
	a.Sessions.SetCatalog(cat)
	a.Server.ContentReloaded(changed)
	a.logger.Info("Content reloaded", "changed", changed, "slides", len(cat.Slides), "quarters", len(cat.Roadmap))
	return nil
}

// follow reloads the catalog on every change reported by a watchable source.
func (a *App) follow(ctx context.Context) error {
	w, ok := a.source.(ports.Watchable)
	if !ok {
		return nil
	}
	ch, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch content: %w", err)
	}
	go func() {
		for id := range ch {
			_ = a.Reload(ctx, id)
		}
	}()
	return nil
}

// Run serves the site on addr until ctx is cancelled, then shuts down
// gracefully and closes every session.
func (a *App) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.follow(ctx); err != nil {
		return err
	}
	go a.Sessions.Run(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		// Request contexts end with ctx so open event streams let Shutdown finish.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("NameCardAI site listening", "address", addr, "version", Version)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		a.Sessions.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		err := srv.Shutdown(shutdownCtx)
		a.Sessions.Close()
		if err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		a.logger.Info("NameCardAI site stopped")
		return nil
	}
}

// Close releases the sessions. Use it when the App was not started with Run.
func (a *App) Close() {
	a.Sessions.Close()
}
