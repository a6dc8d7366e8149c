package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/namecardai/namecard/internal/pitch"
	"github.com/namecardai/namecard/internal/tutorial"
	"github.com/namecardai/namecard/internal/wizard"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/observable"
	"github.com/namecardai/namecard/pkg/ports"
)

// ScrolledThreshold is the scroll offset past which the header switches to
// its compact style.
const ScrolledThreshold = 50

// Deps are the collaborators every new session is wired with.
type Deps struct {
	Creator          ports.AccountCreator
	Clock            ports.Clock
	Hooks            domain.LifecycleHooks
	Logger           *slog.Logger
	AdvanceDelay     time.Duration
	AutoplayInterval time.Duration
	SubmitTimeout    time.Duration
}

// Session is the state of one visitor.
type Session struct {
	ID      string
	Created time.Time

	Tutorial *tutorial.Controller
	Wizard   *wizard.Controller
	Pitch    *pitch.Deck

	// Scroll is the last reported vertical offset; Scrolled derives the header style.
	Scroll   *observable.Value[int]
	Scrolled *observable.Value[bool]
	// Quarter is the roadmap milestone being inspected.
	Quarter *observable.Value[string]

	catalog *content.Catalog
	stop    func()

	mu       sync.Mutex
	lastSeen time.Time
	closed   bool
}

// New builds a session with all controllers positioned at their start.
func New(id string, cat *content.Catalog, deps Deps) (*Session, error) {
	if deps.Creator == nil {
		return nil, errors.New("session: account creator is required")
	}
	now := deps.Clock.Now()
	hooks := deps.Hooks

	tut, err := tutorial.New(cat.Levels,
		tutorial.WithClock(deps.Clock),
		tutorial.WithAdvanceDelay(deps.AdvanceDelay),
		tutorial.WithHooks(hooks),
		tutorial.WithLogger(deps.Logger),
		tutorial.WithSessionID(id),
		tutorial.WithProfile(cat.Profile),
	)
	if err != nil {
		return nil, fmt.Errorf("tutorial: %w", err)
	}
	wiz, err := wizard.New(deps.Creator,
		wizard.WithCatalog(cat),
		wizard.WithClock(deps.Clock),
		wizard.WithSubmitTimeout(deps.SubmitTimeout),
		wizard.WithHooks(hooks),
		wizard.WithLogger(deps.Logger),
		wizard.WithSessionID(id),
	)
	if err != nil {
		tut.Close()
		return nil, fmt.Errorf("wizard: %w", err)
	}
	deck, err := pitch.New(cat.Slides,
		pitch.WithClock(deps.Clock),
		pitch.WithInterval(deps.AutoplayInterval),
	)
	if err != nil {
		tut.Close()
		wiz.Close()
		return nil, fmt.Errorf("pitch: %w", err)
	}

	scroll := observable.New(0)
	scrolled, stop := observable.Map(scroll, func(y int) bool { return y > ScrolledThreshold })

	return &Session{
		ID:       id,
		Created:  now,
		Tutorial: tut,
		Wizard:   wiz,
		Pitch:    deck,
		Scroll:   scroll,
		Scrolled: scrolled,
		Quarter:  observable.New(cat.DefaultQuarter),
		catalog:  cat,
		stop:     stop,
		lastSeen: now,
	}, nil
}

// Catalog is the content the session was created with.
func (s *Session) Catalog() *content.Catalog {
	return s.catalog
}

// SelectQuarter changes the inspected roadmap milestone.
func (s *Session) SelectQuarter(id string) error {
	if _, ok := s.catalog.Quarter(id); !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownQuarter, id)
	}
	s.Quarter.Set(id)
	return nil
}

// ReportScroll records the viewport offset. Negative offsets clamp to zero.
func (s *Session) ReportScroll(y int) {
	s.Scroll.Set(max(y, 0))
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen is the time of the most recent access through the Manager.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close tears down every controller and cancels their timers. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.Tutorial.Close()
	s.Wizard.Close()
	s.Pitch.Close()
	s.stop()
}
