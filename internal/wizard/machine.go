package wizard

import (
	"github.com/felixgeelhaar/statekit"
)

// Machine states. The four step states map one-to-one onto the step
// descriptors; the last two only exist around the final submission.
const (
	StatePersonal     = "personal"
	StateSecurity     = "security"
	StateProfessional = "professional"
	StateConfirm      = "confirm"
	StateSubmitting   = "submitting"
	StateSucceeded    = "succeeded"
)

// Machine events.
const (
	EventNext         = "NEXT"
	EventBack         = "BACK"
	EventSubmit       = "SUBMIT"
	EventSubmitOK     = "SUBMIT_OK"
	EventSubmitFailed = "SUBMIT_FAILED"
	EventReset        = "RESET"
)

// stepStates lists the step states in order; index+1 is the step id.
var stepStates = []string{StatePersonal, StateSecurity, StateProfessional, StateConfirm}

type machineContext struct{}

// buildMachine assembles the transition table. Validation gates are applied
// by the controller before NEXT and SUBMIT are sent; the machine only knows
// which moves exist.
func buildMachine() (*statekit.Interpreter[machineContext], error) {
	machine, err := statekit.NewMachine[machineContext]("signup-wizard").
		WithInitial(StatePersonal).
		WithContext(machineContext{}).
		State(StatePersonal).
		On(EventNext).Target(StateSecurity).
		On(EventReset).Target(StatePersonal).Done().
		State(StateSecurity).
		On(EventNext).Target(StateProfessional).
		On(EventBack).Target(StatePersonal).
		On(EventReset).Target(StatePersonal).Done().
		State(StateProfessional).
		On(EventNext).Target(StateConfirm).
		On(EventBack).Target(StateSecurity).
		On(EventReset).Target(StatePersonal).Done().
		State(StateConfirm).
		On(EventSubmit).Target(StateSubmitting).
		On(EventBack).Target(StateProfessional).
		On(EventReset).Target(StatePersonal).Done().
		State(StateSubmitting).
		On(EventSubmitOK).Target(StateSucceeded).
		On(EventSubmitFailed).Target(StateConfirm).Done().
		State(StateSucceeded).
		On(EventReset).Target(StatePersonal).Done().
		Build()
	if err != nil {
		return nil, err
	}
	return statekit.NewInterpreter(machine), nil
}

// stepOf maps a machine state to the step shown to the user.
func stepOf(state string) int {
	for i, s := range stepStates {
		if s == state {
			return i + 1
		}
	}
	// submitting and succeeded keep the final step on screen
	return len(stepStates)
}
