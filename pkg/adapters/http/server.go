// Package http serves the NameCardAI site: server-rendered pages whose forms
// drive the per-session controllers, a JSON API over the same operations and
// an SSE stream of controller snapshots.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/namecardai/namecard/internal/logging"
	"github.com/namecardai/namecard/internal/metrics"
	"github.com/namecardai/namecard/pkg/adapters/memory"
	"github.com/namecardai/namecard/pkg/ports"
	"github.com/namecardai/namecard/pkg/session"
)

// Server holds the collaborators of the HTTP surface.
type Server struct {
	Sessions *session.Manager
	Waitlist ports.Waitlist
	Streams  *StreamManager

	metrics *metrics.Metrics
	logger  *slog.Logger
	version string
	rps     float64
	burst   int
	pages   *renderer

	keepAlive time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithWaitlist sets the landing page email store. Defaults to memory.
func WithWaitlist(w ports.Waitlist) Option {
	return func(s *Server) {
		s.Waitlist = w
	}
}

// WithMetrics counts page views and waitlist joins and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the request and stream logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion is reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithRateLimit enables per-client rate limiting of pages and API calls.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.rps = rps
		s.burst = burst
	}
}

// WithKeepAlive sets how often an open event stream is pinged.
// Defaults to DefaultKeepAlive.
func WithKeepAlive(d time.Duration) Option {
	return func(s *Server) {
		s.keepAlive = d
	}
}

// New builds a Server over sessions.
func New(sessions *session.Manager, opts ...Option) (*Server, error) {
	s := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
		version:  "dev",

		keepAlive: DefaultKeepAlive,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Waitlist == nil {
		s.Waitlist = memory.NewWaitlist()
	}
	if s.keepAlive <= 0 {
		s.keepAlive = DefaultKeepAlive
	}
	s.Streams = NewStreamManager(s.logger)

	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}
	s.pages = pages
	return s, nil
}

// Handler assembles the router. ctx bounds background work of the
// middleware (rate limiter cleanup).
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(RequestLogger(s.logger))

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if s.rps > 0 {
			r.Use(RateLimit(ctx, s.rps, s.burst, 0))
		}
		s.mountPages(r)
		s.mountAPI(r)
	})
	r.NotFound(s.notFound)
	return r
}

// ContentReloaded tells every open stream that the catalog changed.
func (s *Server) ContentReloaded(id string) {
	data, _ := json.Marshal(map[string]string{"id": id})
	s.Streams.BroadcastAll(Event{Name: EventContent, Data: data})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>NameCardAI API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "namecard-http",
		"version":     strings.TrimSpace(s.version),
		"api_version": apiVersion,
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusNotFound, ErrorBody{Error: "not found"})
		return
	}
	s.renderPage(w, r, http.StatusNotFound, "notfound", nil, nil)
}
