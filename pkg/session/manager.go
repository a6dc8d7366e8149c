package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/namecardai/namecard/internal/logging"
	"github.com/namecardai/namecard/internal/pitch"
	"github.com/namecardai/namecard/internal/tutorial"
	"github.com/namecardai/namecard/pkg/clock"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 30 * time.Minute

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session lifecycle, ensuring a session id is created,
// looked up and torn down by one caller at a time.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	deps    Deps
	catalog atomic.Pointer[content.Catalog]
	ttl     time.Duration
	logger  *slog.Logger
	onCount func(int)

	mu       sync.Mutex            // Global lock for the maps
	locks    map[string]*lockEntry // Map of active locks
	sessions map[string]*Session
	closed   bool
}

// Option configures the Manager.
type Option func(*Manager)

// WithTTL sets the idle time after which a session is swept.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithCountObserver is called with the number of live sessions after every
// creation and removal.
func WithCountObserver(fn func(int)) Option {
	return func(m *Manager) {
		m.onCount = fn
	}
}

// NewManager creates a Manager that builds sessions from cat and deps.
func NewManager(cat *content.Catalog, deps Deps, opts ...Option) *Manager {
	m := &Manager{
		ttl:      DefaultTTL,
		logger:   logging.NewNop(),
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.Logger == nil {
		deps.Logger = m.logger
	}
	if deps.AdvanceDelay <= 0 {
		deps.AdvanceDelay = tutorial.DefaultAdvanceDelay
	}
	if deps.AutoplayInterval <= 0 {
		deps.AutoplayInterval = pitch.DefaultInterval
	}
	m.deps = deps
	m.catalog.Store(cat)
	return m
}

// SetCatalog replaces the content used for sessions created from now on.
// Existing sessions keep the catalog they started with.
func (m *Manager) SetCatalog(cat *content.Catalog) {
	m.catalog.Store(cat)
}

// Catalog returns the content new sessions are built with.
func (m *Manager) Catalog() *content.Catalog {
	return m.catalog.Load()
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes fn while holding the lifecycle lock for sessionID.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// Create starts a session under a fresh random id.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	return m.GetOrCreate(ctx, "")
}

// Get returns a live session and refreshes its idle timer.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	var s *Session
	err := m.WithLock(ctx, sessionID, func(context.Context) error {
		s = m.lookup(sessionID)
		if s == nil {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		s.touch(m.deps.Clock.Now())
		return nil
	})
	return s, err
}

// GetOrCreate returns the session for sessionID, creating one when the id is
// empty or unknown. Unknown ids are not adopted: the new session gets a
// fresh id so clients cannot choose their own.
func (m *Manager) GetOrCreate(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID != "" {
		s, err := m.Get(ctx, sessionID)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
	}

	id := uuid.NewString()
	var s *Session
	err := m.WithLock(ctx, id, func(context.Context) error {
		var err error
		s, err = New(id, m.catalog.Load(), m.deps)
		if err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}

		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			s.Close()
			return domain.ErrClosed
		}
		m.sessions[id] = s
		n := len(m.sessions)
		m.mu.Unlock()

		m.logger.Debug("Session Created", "session_id", id)
		m.notifyCount(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Delete tears the session down. Deleting an unknown id is not an error.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(context.Context) error {
		m.remove(sessionID, "deleted")
		return nil
	})
}

// List returns the ids of the live sessions.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes every session idle for longer than the TTL and reports how
// many were removed.
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.deps.Clock.Now().Add(-m.ttl)
	removed := 0
	for _, id := range m.List() {
		_ = m.WithLock(ctx, id, func(context.Context) error {
			s := m.lookup(id)
			if s != nil && s.LastSeen().Before(cutoff) {
				m.remove(id, "expired")
				removed++
			}
			return nil
		})
	}
	return removed
}

// Run sweeps expired sessions every half TTL until ctx is done, then closes
// the manager.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.ttl / 2)
	defer ticker.Stop()
	defer m.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(ctx); n > 0 {
				m.logger.Info("Sessions Expired", "count", n)
			}
		}
	}
}

// Close tears down every session and rejects new ones. Idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.notifyCount(0)
}

func (m *Manager) lookup(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *Manager) remove(id, reason string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	if !ok {
		return
	}
	s.Close()
	m.logger.Debug("Session Removed", "session_id", id, "reason", reason)
	m.notifyCount(n)
}

func (m *Manager) notifyCount(n int) {
	if m.onCount != nil {
		m.onCount(n)
	}
}

// Deps returns the collaborators sessions are built with.
func (m *Manager) Deps() Deps {
	return m.deps
}
