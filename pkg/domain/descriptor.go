package domain

import "fmt"

// Level describes one stage of the guided demo.
type Level struct {
	ID          int    `json:"id" yaml:"id" mapstructure:"id"`
	Title       string `json:"title" yaml:"title" mapstructure:"title"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`
	Instruction string `json:"instruction" yaml:"instruction" mapstructure:"instruction"`
}

// FieldKind tells the presentation layer which input control to render.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindEmail    FieldKind = "email"
	FieldKindPassword FieldKind = "password"
	FieldKindSelect   FieldKind = "select"
	FieldKindPlan     FieldKind = "plan"
	FieldKindCheckbox FieldKind = "checkbox"
)

// Field describes a single input collected by a wizard step.
type Field struct {
	Name        string    `json:"name" yaml:"name" mapstructure:"name"`
	Label       string    `json:"label" yaml:"label" mapstructure:"label"`
	Kind        FieldKind `json:"kind" yaml:"kind" mapstructure:"kind"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder" mapstructure:"placeholder"`
	Options     []string  `json:"options,omitempty" yaml:"options" mapstructure:"options"`
	Required    bool      `json:"required,omitempty" yaml:"required" mapstructure:"required"`
}

// Step describes one page of the sign-up wizard.
type Step struct {
	ID          int     `json:"id" yaml:"id" mapstructure:"id"`
	Title       string  `json:"title" yaml:"title" mapstructure:"title"`
	Description string  `json:"description" yaml:"description" mapstructure:"description"`
	Fields      []Field `json:"fields" yaml:"fields" mapstructure:"fields"`
}

// ValidateLevels checks that level ids are dense and ordered (1..N).
func ValidateLevels(levels []Level) error {
	ids := make([]int, len(levels))
	for i, l := range levels {
		ids[i] = l.ID
	}
	return checkSequence("level", ids)
}

// ValidateSteps checks that step ids are dense and ordered (1..N).
func ValidateSteps(steps []Step) error {
	ids := make([]int, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}
	return checkSequence("step", ids)
}

func checkSequence(kind string, ids []int) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no %s descriptors", ErrInvalidSequence, kind)
	}
	for i, id := range ids {
		if id != i+1 {
			return fmt.Errorf("%w: %s at position %d has id %d, want %d", ErrInvalidSequence, kind, i, id, i+1)
		}
	}
	return nil
}
