// Package mcp exposes the guided demo, the sign-up wizard and the pitch deck
// as Model Context Protocol tools, so agents can walk a visitor's flows.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/namecardai/namecard/internal/logging"
	"github.com/namecardai/namecard/internal/pitch"
	"github.com/namecardai/namecard/internal/sanitize"
	"github.com/namecardai/namecard/internal/tutorial"
	"github.com/namecardai/namecard/internal/wizard"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/session"
)

// Resource URIs.
const (
	ContentURI = "namecard://content"
	RoadmapURI = "namecard://roadmap"
)

// SessionArgs addresses an existing session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

type LevelArgs struct {
	SessionID string `json:"session_id"`
	Level     int    `json:"level"`
}

type InteractArgs struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Value     string `json:"value"`
}

type FieldArgs struct {
	SessionID string `json:"session_id"`
	Field     string `json:"field"`
	Value     string `json:"value"`
}

type PitchArgs struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	Slide     int    `json:"slide"`
}

// SessionResponse is returned by create_session.
type SessionResponse struct {
	SessionID string `json:"session_id" jsonschema_description:"Identifier to pass to the other tools"`
}

// Server wraps the session manager and exposes it as an MCP Server.
type Server struct {
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the tool call logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, version string, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("namecard-mcp", version, server.WithResourceCapabilities(false, false)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionParam() mcp.ToolOption {
	return mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by create_session"))
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Start a visitor session with a fresh demo, sign-up wizard and pitch deck."),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleCreateSession))

	// Tutorial
	s.mcpServer.AddTool(mcp.NewTool("tutorial_state",
		mcp.WithDescription("Show the guided demo: levels, current level, completed levels and the demo card."),
		sessionParam(),
		mcp.WithOutputSchema[tutorial.Snapshot](),
	), mcp.NewStructuredToolHandler(tutorialTool(s, func(*tutorial.Controller, SessionArgs) error { return nil })))

	s.mcpServer.AddTool(mcp.NewTool("tutorial_select_level",
		mcp.WithDescription("Jump to a demo level. Cancels a pending auto-advance."),
		sessionParam(),
		mcp.WithNumber("level", mcp.Required(), mcp.Description("Level id, 1 to 5")),
		mcp.WithOutputSchema[tutorial.Snapshot](),
	), mcp.NewStructuredToolHandler(tutorialTool(s, func(c *tutorial.Controller, a LevelArgs) error {
		return c.SelectLevel(a.Level)
	})))

	s.mcpServer.AddTool(mcp.NewTool("tutorial_complete_level",
		mcp.WithDescription("Mark a demo level as completed. Completing the current level advances after a short delay."),
		sessionParam(),
		mcp.WithNumber("level", mcp.Required(), mcp.Description("Level id, 1 to 5")),
		mcp.WithOutputSchema[tutorial.Snapshot](),
	), mcp.NewStructuredToolHandler(tutorialTool(s, func(c *tutorial.Controller, a LevelArgs) error {
		return c.CompleteLevel(a.Level)
	})))

	s.mcpServer.AddTool(mcp.NewTool("tutorial_interact",
		mcp.WithDescription("Perform a demo interaction. It completes the level it belongs to."),
		sessionParam(),
		mcp.WithString("kind", mcp.Required(), mcp.Enum(interactionKinds()...), mcp.Description("Interaction kind")),
		mcp.WithString("value", mcp.Description("Theme, style or effect name for the customisation kinds")),
		mcp.WithOutputSchema[tutorial.Snapshot](),
	), mcp.NewStructuredToolHandler(tutorialTool(s, func(c *tutorial.Controller, a InteractArgs) error {
		kind, err := domain.ParseInteraction(a.Kind)
		if err != nil {
			return err
		}
		return c.Interact(kind, a.Value)
	})))

	// Sign-up
	s.mcpServer.AddTool(mcp.NewTool("signup_state",
		mcp.WithDescription("Show the sign-up wizard: current step, entered values (passwords omitted) and field errors."),
		sessionParam(),
		mcp.WithOutputSchema[wizard.Snapshot](),
	), mcp.NewStructuredToolHandler(signupTool(s, func(context.Context, *wizard.Controller, SessionArgs) error { return nil })))

	s.mcpServer.AddTool(mcp.NewTool("signup_update_field",
		mcp.WithDescription("Set a wizard field. Checkboxes accept true/false or on/off."),
		sessionParam(),
		mcp.WithString("field", mcp.Required(), mcp.Description("Field name, e.g. firstName, email, plan, agreeToTerms")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
		mcp.WithOutputSchema[wizard.Snapshot](),
	), mcp.NewStructuredToolHandler(signupTool(s, func(_ context.Context, c *wizard.Controller, a FieldArgs) error {
		value, err := sanitize.Line(a.Value)
		if err != nil {
			return err
		}
		return c.UpdateField(a.Field, value)
	})))

	s.mcpServer.AddTool(mcp.NewTool("signup_advance",
		mcp.WithDescription("Validate the current step and move to the next one. Field errors are reported in the state."),
		sessionParam(),
		mcp.WithOutputSchema[wizard.Snapshot](),
	), mcp.NewStructuredToolHandler(signupTool(s, func(_ context.Context, c *wizard.Controller, _ SessionArgs) error {
		_, err := c.Advance()
		return err
	})))

	s.mcpServer.AddTool(mcp.NewTool("signup_retreat",
		mcp.WithDescription("Go back one step without validating."),
		sessionParam(),
		mcp.WithOutputSchema[wizard.Snapshot](),
	), mcp.NewStructuredToolHandler(signupTool(s, func(_ context.Context, c *wizard.Controller, _ SessionArgs) error {
		return c.Retreat()
	})))

	s.mcpServer.AddTool(mcp.NewTool("signup_submit",
		mcp.WithDescription("Create the account from the final step."),
		sessionParam(),
		mcp.WithOutputSchema[wizard.Snapshot](),
	), mcp.NewStructuredToolHandler(signupTool(s, func(ctx context.Context, c *wizard.Controller, _ SessionArgs) error {
		err := c.Submit(ctx)
		// Validation and creator failures are part of the returned state.
		if err != nil && (len(c.Snapshot().Errors) > 0 || c.Snapshot().SubmitError != "") {
			return nil
		}
		return err
	})))

	s.mcpServer.AddTool(mcp.NewTool("signup_reset",
		mcp.WithDescription("Start the wizard over."),
		sessionParam(),
		mcp.WithOutputSchema[wizard.Snapshot](),
	), mcp.NewStructuredToolHandler(signupTool(s, func(_ context.Context, c *wizard.Controller, _ SessionArgs) error {
		return c.Reset()
	})))

	// Pitch
	s.mcpServer.AddTool(mcp.NewTool("pitch_navigate",
		mcp.WithDescription("Move through the investor pitch deck."),
		sessionParam(),
		mcp.WithString("action", mcp.Required(), mcp.Enum("show", "next", "prev", "goto", "play", "pause")),
		mcp.WithNumber("slide", mcp.Description("Slide id for goto")),
		mcp.WithOutputSchema[pitch.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handlePitch))
}

func interactionKinds() []string {
	return []string{
		string(domain.InteractTapCard), string(domain.InteractScan), string(domain.InteractTheme),
		string(domain.InteractStyle), string(domain.InteractEffect), string(domain.InteractShare),
		string(domain.InteractViewAnalytics),
	}
}

func (s *Server) handleCreateSession(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (SessionResponse, error) {
	sess, err := s.sessions.Create(ctx)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("create session failed: %w", err)
	}
	s.logger.Debug("MCP: session created", "session_id", sess.ID)
	return SessionResponse{SessionID: sess.ID}, nil
}

// sessionIDOf lets the generic handlers read the id of any args struct.
type sessionIDOf interface {
	id() string
}

func (a SessionArgs) id() string  { return a.SessionID }
func (a LevelArgs) id() string    { return a.SessionID }
func (a InteractArgs) id() string { return a.SessionID }
func (a FieldArgs) id() string    { return a.SessionID }
func (a PitchArgs) id() string    { return a.SessionID }

func (s *Server) lookup(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", id, err)
	}
	return sess, nil
}

func tutorialTool[A sessionIDOf](s *Server, op func(*tutorial.Controller, A) error) mcp.StructuredToolHandlerFunc[A, tutorial.Snapshot] {
	return func(ctx context.Context, _ mcp.CallToolRequest, args A) (tutorial.Snapshot, error) {
		sess, err := s.lookup(ctx, args.id())
		if err != nil {
			return tutorial.Snapshot{}, err
		}
		if err := op(sess.Tutorial, args); err != nil {
			return tutorial.Snapshot{}, err
		}
		return sess.Tutorial.Snapshot(), nil
	}
}

func signupTool[A sessionIDOf](s *Server, op func(context.Context, *wizard.Controller, A) error) mcp.StructuredToolHandlerFunc[A, wizard.Snapshot] {
	return func(ctx context.Context, _ mcp.CallToolRequest, args A) (wizard.Snapshot, error) {
		sess, err := s.lookup(ctx, args.id())
		if err != nil {
			return wizard.Snapshot{}, err
		}
		if err := op(ctx, sess.Wizard, args); err != nil {
			return wizard.Snapshot{}, err
		}
		return sess.Wizard.Snapshot(), nil
	}
}

func (s *Server) handlePitch(ctx context.Context, _ mcp.CallToolRequest, args PitchArgs) (pitch.Snapshot, error) {
	sess, err := s.lookup(ctx, args.SessionID)
	if err != nil {
		return pitch.Snapshot{}, err
	}
	d := sess.Pitch
	switch args.Action {
	case "show":
	case "next":
		err = d.Next()
	case "prev":
		err = d.Prev()
	case "goto":
		err = d.GoTo(args.Slide)
	case "play":
		err = d.SetAutoplay(true)
	case "pause":
		err = d.SetAutoplay(false)
	default:
		err = fmt.Errorf("unknown pitch action %q", args.Action)
	}
	if err != nil {
		return pitch.Snapshot{}, err
	}
	return d.Snapshot(), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ContentURI, "Site Content Catalog",
		mcp.WithResourceDescription("Levels, wizard steps, plans, slides and roadmap of the site"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(ContentURI, s.sessions.Catalog())
	})

	s.mcpServer.AddResource(mcp.NewResource(RoadmapURI, "Product Roadmap",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(RoadmapURI, s.sessions.Catalog().Roadmap)
	})
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
