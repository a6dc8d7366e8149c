// Package tutorial implements the guided demo: an ordered list of levels, the
// set of levels the visitor has completed, and a timer that moves on to the
// next level shortly after the current one is completed.
package tutorial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/namecardai/namecard/internal/logging"
	"github.com/namecardai/namecard/pkg/clock"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/ports"
)

// Controller owns the demo state of one session. It is safe for concurrent
// use; observers and hooks run after the internal lock is released.
type Controller struct {
	levels    []domain.Level
	clock     ports.Clock
	delay     time.Duration
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	sessionID string
	profile   domain.Profile

	mu               sync.Mutex
	version          uint64
	current          int
	completed        map[int]struct{}
	showInstructions bool
	card             Card
	pending          ports.Timer
	gen              uint64
	closed           bool
	subs             map[int]func(Snapshot)
	nextSub          int
}

// New creates a controller positioned on the first level.
// The level ids must be dense and ordered starting at 1.
func New(levels []domain.Level, opts ...Option) (*Controller, error) {
	if err := domain.ValidateLevels(levels); err != nil {
		return nil, err
	}
	c := &Controller{
		levels: slices.Clone(levels),
		clock:  clock.Real{},
		delay:  DefaultAdvanceDelay,
		logger: logging.NewNop(),
		subs:   make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked()
	return c, nil
}

// SelectLevel jumps to level id and cancels any pending auto-advance.
func (c *Controller) SelectLevel(id int) error {
	return c.mutate(func() ([]*domain.LevelEvent, error) {
		if err := c.checkLevel(id); err != nil {
			return nil, err
		}
		c.cancelPendingLocked()
		c.current = id
		return []*domain.LevelEvent{c.event(domain.EventLevelSelected, id, false)}, nil
	})
}

// CompleteLevel marks id as completed. When id is the current level and not
// the last one, the controller advances to id+1 after the advance delay.
// Completing again restarts the delay.
func (c *Controller) CompleteLevel(id int) error {
	return c.mutate(func() ([]*domain.LevelEvent, error) {
		if err := c.checkLevel(id); err != nil {
			return nil, err
		}
		return c.completeLocked(id), nil
	})
}

// Interact performs the qualifying interaction of a level. value carries the
// chosen option for theme, style and effect and is ignored otherwise.
func (c *Controller) Interact(kind domain.Interaction, value string) error {
	return c.mutate(func() ([]*domain.LevelEvent, error) {
		level := kind.Level()
		if level == 0 {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownInteraction, kind)
		}
		if err := c.checkLevel(level); err != nil {
			return nil, err
		}

		switch kind {
		case domain.InteractScan:
			c.card.ScanCount++
		case domain.InteractShare:
			c.card.ShareCount++
		case domain.InteractTheme:
			t, ok := domain.ParseTheme(value)
			if !ok {
				return nil, fmt.Errorf("%w: theme %q", domain.ErrInvalidOption, value)
			}
			c.card.Theme = t
		case domain.InteractStyle:
			s, ok := domain.ParseCardStyle(value)
			if !ok {
				return nil, fmt.Errorf("%w: style %q", domain.ErrInvalidOption, value)
			}
			c.card.Style = s
		case domain.InteractEffect:
			e, ok := domain.ParseAREffect(value)
			if !ok {
				return nil, fmt.Errorf("%w: effect %q", domain.ErrInvalidOption, value)
			}
			c.card.Effect = e
		}
		return c.completeLocked(level), nil
	})
}

// UpdateProfile edits the text printed on the demo card.
// It does not complete any level.
func (c *Controller) UpdateProfile(field, value string) error {
	return c.mutate(func() ([]*domain.LevelEvent, error) {
		p := &c.card.Profile
		switch strings.ToLower(field) {
		case "name":
			p.Name = value
		case "title":
			p.Title = value
		case "company":
			p.Company = value
		case "email":
			p.Email = value
		case "phone":
			p.Phone = value
		case "website":
			p.Website = value
		case "location":
			p.Location = value
		default:
			return nil, fmt.Errorf("%w: profile field %q", domain.ErrUnknownField, field)
		}
		return nil, nil
	})
}

// DismissInstructions hides the introductory guidance.
func (c *Controller) DismissInstructions() error {
	return c.mutate(func() ([]*domain.LevelEvent, error) {
		c.showInstructions = false
		return nil, nil
	})
}

// Reset returns to the first level, clears completions and counters, shows
// the instructions again and cancels any pending auto-advance.
// Card customisation is kept.
func (c *Controller) Reset() error {
	return c.mutate(func() ([]*domain.LevelEvent, error) {
		c.cancelPendingLocked()
		c.current = c.levels[0].ID
		c.completed = make(map[int]struct{})
		c.showInstructions = true
		c.card.ScanCount = 0
		c.card.ShareCount = 0
		return []*domain.LevelEvent{c.event(domain.EventTutorialReset, c.current, false)}, nil
	})
}

// Snapshot returns a copy of the current state. Levels is shared and read-only.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change,
// including timer-driven advances.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Close cancels the pending timer and drops all subscribers. A timer that
// already fired but has not yet run becomes a no-op. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancelPendingLocked()
	clear(c.subs)
}

func (c *Controller) resetLocked() {
	c.current = c.levels[0].ID
	c.completed = make(map[int]struct{})
	c.showInstructions = true
	c.card = Card{
		Theme:   domain.DefaultTheme,
		Style:   domain.StyleHolographic,
		Effect:  domain.EffectHologram,
		Profile: c.profile,
	}
}

func (c *Controller) checkLevel(id int) error {
	if id < 1 || id > len(c.levels) {
		return fmt.Errorf("%w: %d", domain.ErrUnknownLevel, id)
	}
	return nil
}

func (c *Controller) completeLocked(id int) []*domain.LevelEvent {
	var events []*domain.LevelEvent
	if _, ok := c.completed[id]; !ok {
		c.completed[id] = struct{}{}
		events = append(events, c.event(domain.EventLevelCompleted, id, false))
	}
	if id == c.current && id < len(c.levels) {
		c.cancelPendingLocked()
		gen, next := c.gen, id+1
		c.pending = c.clock.AfterFunc(c.delay, func() { c.autoAdvance(gen, next) })
	}
	return events
}

// cancelPendingLocked stops the armed timer and invalidates any firing that
// is already waiting for the lock.
func (c *Controller) cancelPendingLocked() {
	c.gen++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller) autoAdvance(gen uint64, next int) {
	_ = c.mutate(func() ([]*domain.LevelEvent, error) {
		if gen != c.gen {
			return nil, errStale
		}
		c.pending = nil
		c.current = next
		c.logger.Debug("auto advance", "session_id", c.sessionID, "level", next)
		return []*domain.LevelEvent{c.event(domain.EventLevelAdvanced, next, true)}, nil
	})
}

var errStale = errors.New("stale timer")

// mutate runs fn under the lock and, if it changed state, publishes the new
// snapshot and events outside of it.
func (c *Controller) mutate(fn func() ([]*domain.LevelEvent, error)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClosed
	}
	events, err := fn()
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.version++
	snap := c.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, id := range slices.Sorted(maps.Keys(c.subs)) {
		subs = append(subs, c.subs[id])
	}
	c.mu.Unlock()

	ctx := context.Background()
	for _, e := range events {
		c.hooks.EmitLevel(ctx, e)
	}
	for _, fn := range subs {
		fn(snap)
	}
	return nil
}

func (c *Controller) event(t domain.EventType, level int, auto bool) *domain.LevelEvent {
	return &domain.LevelEvent{
		EventBase: domain.EventBase{Timestamp: c.clock.Now(), Type: t, SessionID: c.sessionID},
		LevelID:   level,
		Auto:      auto,
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	completed := slices.AppendSeq(make([]int, 0, len(c.completed)), maps.Keys(c.completed))
	slices.Sort(completed)
	return Snapshot{
		Version:          c.version,
		Levels:           c.levels,
		Current:          c.current,
		Completed:        completed,
		ShowInstructions: c.showInstructions,
		AdvancePending:   c.pending != nil,
		Card:             c.card,
		Done:             len(completed) == len(c.levels),
		Progress:         len(completed) * 100 / len(c.levels),
	}
}
