// Package wizard implements the multi-step sign-up form: per-step validation
// gating forward navigation and a single terminal submission.
package wizard

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

	"github.com/felixgeelhaar/statekit"
	"github.com/mitchellh/mapstructure"
	"github.com/namecardai/namecard/internal/logging"
	"github.com/namecardai/namecard/internal/sanitize"
	"github.com/namecardai/namecard/pkg/clock"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/ports"
)

// User-visible submission failures.
const (
	MsgEmailTaken    = "An account with this email already exists."
	MsgSubmitTimeout = "The request timed out. Please try again."
	MsgSubmitFailed  = "Something went wrong while creating your account. Please try again."
)

// Controller owns the sign-up state of one session. It is safe for
// concurrent use; observers and hooks run after the internal lock is released.
type Controller struct {
	creator       ports.AccountCreator
	catalog       *content.Catalog
	clock         ports.Clock
	submitTimeout time.Duration
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	sessionID     string

	steps     []domain.Step
	checkbox  map[string]bool
	fieldStep map[string]int

	mu          sync.Mutex
	interp      *statekit.Interpreter[machineContext]
	version     uint64
	values      values
	errors      domain.ValidationErrors
	submission  domain.SubmissionState
	submitError string
	registered  *Registered
	closed      bool
	subs        map[int]func(Snapshot)
	nextSub     int
}

// New creates a wizard positioned on the first step with default values.
func New(creator ports.AccountCreator, opts ...Option) (*Controller, error) {
	if creator == nil {
		return nil, errors.New("account creator is required")
	}
	c := &Controller{
		creator: creator,
		clock:   clock.Real{},
		logger:  logging.NewNop(),
		subs:    make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.catalog == nil {
		cat, err := content.Default()
		if err != nil {
			return nil, err
		}
		c.catalog = cat
	}

	c.steps = c.catalog.Steps
	if err := domain.ValidateSteps(c.steps); err != nil {
		return nil, err
	}
	if len(c.steps) != len(stepStates) {
		return nil, fmt.Errorf("%w: wizard needs %d steps, catalog has %d", domain.ErrInvalidSequence, len(stepStates), len(c.steps))
	}
	c.checkbox = make(map[string]bool)
	c.fieldStep = make(map[string]int)
	for _, s := range c.steps {
		for _, f := range s.Fields {
			c.fieldStep[f.Name] = s.ID
			if f.Kind == domain.FieldKindCheckbox {
				c.checkbox[f.Name] = true
			}
		}
	}

	interp, err := buildMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to build wizard machine: %w", err)
	}
	c.interp = interp
	c.interp.Start()
	c.resetLocked()
	return c, nil
}

// UpdateField stores value for field and clears that field's error.
// Text values are sanitized; checkbox values accept bools and the usual
// form encodings ("on", "true", "1", "false", "").
func (c *Controller) UpdateField(field string, value any) error {
	return c.mutate(func() (func(), error) {
		if err := c.editableLocked(); err != nil {
			return nil, err
		}
		if _, ok := c.fieldStep[field]; !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
		}
		v, err := c.coerce(field, value)
		if err != nil {
			return nil, err
		}
		c.values[field] = v
		delete(c.errors, field)
		return nil, nil
	})
}

// ValidateStep evaluates the rules of step against the current values and
// stores the result as the current errors. An unknown step is an error, never
// an empty (valid) result.
func (c *Controller) ValidateStep(step int) (domain.ValidationErrors, error) {
	var errs domain.ValidationErrors
	err := c.mutate(func() (func(), error) {
		if step < 1 || step > len(c.steps) {
			return nil, fmt.Errorf("%w: step %d", domain.ErrUnknownStep, step)
		}
		errs = Validate(c.steps[step-1], c.values)
		c.errors = errs.Clone()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return errs, nil
}

// Advance validates the current step and, if it has no errors, moves to the
// next one. On the last step a valid form stays put. It reports whether the
// step was valid.
func (c *Controller) Advance() (bool, error) {
	var ok bool
	err := c.mutate(func() (func(), error) {
		if err := c.editableLocked(); err != nil {
			return nil, err
		}
		from := c.currentLocked()
		c.errors = Validate(c.steps[from-1], c.values)
		if len(c.errors) > 0 {
			e := c.stepEvent(domain.EventStepRejected, from, from, len(c.errors))
			return func() { c.hooks.EmitStep(context.Background(), e) }, nil
		}
		ok = true
		if from == len(c.steps) {
			return nil, nil
		}
		c.interp.Send(statekit.Event{Type: EventNext})
		e := c.stepEvent(domain.EventStepChanged, from, c.currentLocked(), 0)
		return func() { c.hooks.EmitStep(context.Background(), e) }, nil
	})
	return ok, err
}

// Retreat moves back one step without validating and clears all errors.
func (c *Controller) Retreat() error {
	return c.mutate(func() (func(), error) {
		if err := c.editableLocked(); err != nil {
			return nil, err
		}
		from := c.currentLocked()
		clear(c.errors)
		if from == 1 {
			return nil, nil
		}
		c.interp.Send(statekit.Event{Type: EventBack})
		e := c.stepEvent(domain.EventStepChanged, from, c.currentLocked(), 0)
		return func() { c.hooks.EmitStep(context.Background(), e) }, nil
	})
}

// Submit validates every step and creates the account. The call to the
// account creator runs without the lock held, so the session stays
// responsive; at most one submission is in flight.
//
// On validation failure the returned error is a domain.ValidationErrors
// holding the errors of the first invalid step, which becomes current.
// On creator failure the form values are kept, the wizard returns to the
// final step and the creator's error is returned.
func (c *Controller) Submit(ctx context.Context) error {
	var (
		reg     domain.Registration
		invalid domain.ValidationErrors
	)
	err := c.mutate(func() (func(), error) {
		if err := c.editableLocked(); err != nil {
			return nil, err
		}
		last := len(c.steps)
		if c.currentLocked() != last {
			return nil, domain.ErrNotFinalStep
		}
		// Fields of earlier steps stay editable, so every step is checked
		// again and the wizard returns to the first one that fails.
		for _, step := range c.steps {
			errs := Validate(step, c.values)
			if len(errs) == 0 {
				continue
			}
			for c.currentLocked() > step.ID {
				c.interp.Send(statekit.Event{Type: EventBack})
			}
			c.errors = errs
			invalid = errs.Clone()
			e := c.stepEvent(domain.EventStepRejected, last, step.ID, len(errs))
			return func() { c.hooks.EmitStep(context.Background(), e) }, nil
		}
		clear(c.errors)
		r, err := c.registrationLocked()
		if err != nil {
			return nil, err
		}
		reg = r
		c.submission = domain.SubmissionSubmitting
		c.submitError = ""
		c.interp.Send(statekit.Event{Type: EventSubmit})
		e := c.submitEvent(domain.EventSubmitStarted, reg.Plan, 0, nil)
		return func() { c.hooks.EmitSubmit(ctx, e) }, nil
	})
	if err != nil {
		return err
	}
	if invalid != nil {
		return invalid
	}

	if c.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.submitTimeout)
		defer cancel()
	}
	start := c.clock.Now()
	createErr := c.creator.CreateAccount(ctx, reg)
	elapsed := c.clock.Now().Sub(start)

	_ = c.mutate(func() (func(), error) {
		if createErr != nil {
			c.submission = domain.SubmissionIdle
			c.submitError = userMessage(createErr)
			c.interp.Send(statekit.Event{Type: EventSubmitFailed})
			c.logger.Warn("account creation failed", "session_id", c.sessionID, "registration", reg, "err", createErr)
			e := c.submitEvent(domain.EventSubmitFailed, reg.Plan, elapsed, createErr)
			return func() { c.hooks.EmitSubmit(ctx, e) }, nil
		}
		c.submission = domain.SubmissionSucceeded
		c.registered = &Registered{Email: reg.Email, Plan: reg.Plan}
		c.values = values{}
		clear(c.errors)
		c.interp.Send(statekit.Event{Type: EventSubmitOK})
		c.logger.Info("account created", "session_id", c.sessionID, "registration", reg)
		e := c.submitEvent(domain.EventSubmitSucceeded, reg.Plan, elapsed, nil)
		return func() { c.hooks.EmitSubmit(ctx, e) }, nil
	})
	if createErr != nil {
		return fmt.Errorf("account creation failed: %w", createErr)
	}
	return nil
}

// Reset returns to the first step with default values. It is refused while
// a submission is in flight.
func (c *Controller) Reset() error {
	return c.mutate(func() (func(), error) {
		if c.submission == domain.SubmissionSubmitting {
			return nil, domain.ErrSubmissionInFlight
		}
		from := c.currentLocked()
		c.interp.Send(statekit.Event{Type: EventReset})
		c.resetLocked()
		e := c.stepEvent(domain.EventStepChanged, from, 1, 0)
		return func() { c.hooks.EmitStep(context.Background(), e) }, nil
	})
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change.
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

// Close stops the machine and drops subscribers. A submission that is in
// flight completes but its result is discarded. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.interp.Stop()
	clear(c.subs)
}

func (c *Controller) resetLocked() {
	c.values = values{
		domain.FieldPlan:                domain.DefaultPlan,
		domain.FieldSubscribeNewsletter: true,
		domain.FieldAgreeToTerms:        false,
	}
	c.errors = domain.ValidationErrors{}
	c.submission = domain.SubmissionIdle
	c.submitError = ""
	c.registered = nil
}

func (c *Controller) editableLocked() error {
	switch c.submission {
	case domain.SubmissionSubmitting:
		return domain.ErrSubmissionInFlight
	case domain.SubmissionSucceeded:
		return domain.ErrAlreadySubmitted
	}
	return nil
}

func (c *Controller) currentLocked() int {
	return stepOf(string(c.interp.State().Value))
}

func (c *Controller) coerce(field string, value any) (any, error) {
	if c.checkbox[field] {
		if s, ok := value.(string); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "on", "yes":
				return true, nil
			case "", "off", "no":
				return false, nil
			}
		}
		var b bool
		if err := mapstructure.WeakDecode(value, &b); err != nil {
			return nil, fmt.Errorf("%w: %s expects a boolean", domain.ErrInvalidOption, field)
		}
		return b, nil
	}

	var s string
	if err := mapstructure.WeakDecode(value, &s); err != nil {
		return nil, fmt.Errorf("%w: %s expects text", domain.ErrInvalidOption, field)
	}
	s, err := sanitize.Line(s)
	if err != nil {
		return nil, err
	}
	switch field {
	case domain.FieldPlan:
		if _, ok := c.catalog.Plan(s); !ok {
			return nil, fmt.Errorf("%w: plan %q", domain.ErrInvalidOption, s)
		}
	case domain.FieldIndustry:
		if s != "" && !c.catalog.HasIndustry(s) {
			return nil, fmt.Errorf("%w: industry %q", domain.ErrInvalidOption, s)
		}
	}
	return s, nil
}

func (c *Controller) registrationLocked() (domain.Registration, error) {
	var reg domain.Registration
	if err := mapstructure.Decode(map[string]any(c.values), &reg); err != nil {
		return reg, fmt.Errorf("failed to build registration: %w", err)
	}
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Plan == "" {
		reg.Plan = domain.DefaultPlan
	}
	return reg, nil
}

// mutate runs fn under the lock; when fn succeeds the new snapshot is
// published and the returned notify func (if any) runs, both without the lock.
func (c *Controller) mutate(fn func() (func(), error)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClosed
	}
	notify, err := fn()
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

	if notify != nil {
		notify()
	}
	for _, fn := range subs {
		fn(snap)
	}
	return nil
}

func (c *Controller) snapshotLocked() Snapshot {
	vals := make(map[string]any, len(c.values))
	for k, v := range c.values {
		if k == domain.FieldPassword || k == domain.FieldConfirmPassword {
			continue
		}
		vals[k] = v
	}
	var reg *Registered
	if c.registered != nil {
		r := *c.registered
		reg = &r
	}
	return Snapshot{
		Version:     c.version,
		Steps:       c.steps,
		Current:     c.currentLocked(),
		State:       string(c.interp.State().Value),
		Values:      vals,
		PasswordSet: c.values.str(domain.FieldPassword) != "",
		Errors:      c.errors.Clone(),
		Submission:  c.submission,
		SubmitError: c.submitError,
		Registered:  reg,
	}
}

func (c *Controller) stepEvent(t domain.EventType, from, to, errs int) *domain.StepEvent {
	return &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: c.clock.Now(), Type: t, SessionID: c.sessionID},
		From:      from,
		To:        to,
		Errors:    errs,
	}
}

func (c *Controller) submitEvent(t domain.EventType, plan string, d time.Duration, err error) *domain.SubmitEvent {
	return &domain.SubmitEvent{
		EventBase: domain.EventBase{Timestamp: c.clock.Now(), Type: t, SessionID: c.sessionID},
		Plan:      plan,
		Duration:  d,
		Err:       err,
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return MsgEmailTaken
	case errors.Is(err, context.DeadlineExceeded):
		return MsgSubmitTimeout
	}
	return MsgSubmitFailed
}
