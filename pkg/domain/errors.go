package domain

import "errors"

// ErrSessionNotFound is returned when a session ID is not known to the manager.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSequence is returned when descriptor ids are not dense and ordered.
var ErrInvalidSequence = errors.New("invalid descriptor sequence")

// ErrUnknownLevel is returned when a level id is outside the descriptor set.
var ErrUnknownLevel = errors.New("unknown level")

// ErrUnknownStep is returned when a wizard step id is outside the descriptor set.
var ErrUnknownStep = errors.New("unknown step")

// ErrUnknownField is returned when a wizard field name is not recognised.
var ErrUnknownField = errors.New("unknown field")

// ErrInvalidOption is returned when a value falls outside a closed option set.
var ErrInvalidOption = errors.New("invalid option")

// ErrUnknownInteraction is returned for an interaction kind the demo does not offer.
var ErrUnknownInteraction = errors.New("unknown interaction")

// ErrSubmissionInFlight is returned when the wizard is already submitting.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// ErrAlreadySubmitted is returned when the wizard has reached its terminal state.
var ErrAlreadySubmitted = errors.New("registration already submitted")

// ErrNotFinalStep is returned when Submit is called before the last step.
var ErrNotFinalStep = errors.New("submit is only allowed from the final step")

// ErrEmailTaken is returned by account creators when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrClosed is returned when an operation reaches a controller after teardown.
var ErrClosed = errors.New("controller closed")

// ErrUnknownSlide is returned for slide ids outside the pitch deck.
var ErrUnknownSlide = errors.New("unknown slide")

// ErrUnknownQuarter is returned for roadmap ids that are not in the catalog.
var ErrUnknownQuarter = errors.New("unknown roadmap quarter")
