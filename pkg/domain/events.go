package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLevelSelected   EventType = "level_selected"
	EventLevelCompleted  EventType = "level_completed"
	EventLevelAdvanced   EventType = "level_advanced"
	EventTutorialReset   EventType = "tutorial_reset"
	EventStepChanged     EventType = "step_changed"
	EventStepRejected    EventType = "step_rejected"
	EventSubmitStarted   EventType = "submit_started"
	EventSubmitSucceeded EventType = "submit_succeeded"
	EventSubmitFailed    EventType = "submit_failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// LevelEvent is emitted by the tutorial controller.
type LevelEvent struct {
	EventBase
	LevelID int  `json:"level_id"`
	Auto    bool `json:"auto,omitempty"` // fired by the auto-advance timer
}

// StepEvent is emitted by the wizard on navigation attempts.
type StepEvent struct {
	EventBase
	From   int `json:"from"`
	To     int `json:"to"`
	Errors int `json:"errors,omitempty"`
}

// SubmitEvent is emitted around the account-creation call.
type SubmitEvent struct {
	EventBase
	Plan     string        `json:"plan,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for controller observability.
// Hooks run outside controller locks and must not block.
type LifecycleHooks struct {
	OnLevel  func(context.Context, *LevelEvent)
	OnStep   func(context.Context, *StepEvent)
	OnSubmit func(context.Context, *SubmitEvent)
}

// Merge returns hooks that call h first, then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnLevel:  chain(h.OnLevel, other.OnLevel),
		OnStep:   chain(h.OnStep, other.OnStep),
		OnSubmit: chain(h.OnSubmit, other.OnSubmit),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// EmitLevel invokes OnLevel when set.
func (h LifecycleHooks) EmitLevel(ctx context.Context, e *LevelEvent) {
	if h.OnLevel != nil {
		h.OnLevel(ctx, e)
	}
}

// EmitStep invokes OnStep when set.
func (h LifecycleHooks) EmitStep(ctx context.Context, e *StepEvent) {
	if h.OnStep != nil {
		h.OnStep(ctx, e)
	}
}

// EmitSubmit invokes OnSubmit when set.
func (h LifecycleHooks) EmitSubmit(ctx context.Context, e *SubmitEvent) {
	if h.OnSubmit != nil {
		h.OnSubmit(ctx, e)
	}
}
