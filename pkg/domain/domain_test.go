package domain_test

import (
	"context"
	"testing"

	"github.com/namecardai/namecard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTheme_FallsBackToCyan(t *testing.T) {
	th, ok := domain.ParseTheme("purple")
	assert.True(t, ok)
	assert.Equal(t, domain.ThemePurple, th)

	th, ok = domain.ParseTheme("magenta")
	assert.False(t, ok)
	assert.Equal(t, domain.ThemeCyan, th)

	// Unknown values resolve to the default palette instead of a zero value.
	assert.Equal(t, domain.ThemeCyan.Palette(), domain.Theme("magenta").Palette())
	assert.Equal(t, "#8b5cf6", domain.ThemePurple.Palette().Primary)
}

func TestButton_Classes(t *testing.T) {
	tests := []struct {
		name   string
		button domain.Button
		want   string
	}{
		{"Defaults", domain.Button{}, "btn btn-primary btn-md"},
		{"Outline Large", domain.Button{Variant: domain.ButtonOutline, Size: domain.ButtonLarge}, "btn btn-outline btn-lg"},
		{"Unknown Variant", domain.Button{Variant: "neon", Size: domain.ButtonSmall}, "btn btn-primary btn-sm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.button.Classes())
		})
	}
}

func TestValidateLevels(t *testing.T) {
	require.NoError(t, domain.ValidateLevels([]domain.Level{{ID: 1}, {ID: 2}, {ID: 3}}))

	err := domain.ValidateLevels([]domain.Level{{ID: 1}, {ID: 3}})
	assert.ErrorIs(t, err, domain.ErrInvalidSequence)

	err = domain.ValidateSteps(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSequence)
}

func TestParseInteraction(t *testing.T) {
	i, err := domain.ParseInteraction("scan")
	require.NoError(t, err)
	assert.Equal(t, 2, i.Level())

	_, err = domain.ParseInteraction("wave")
	assert.ErrorIs(t, err, domain.ErrUnknownInteraction)
}

func TestValidationErrors_Error(t *testing.T) {
	v := domain.ValidationErrors{"email": "Email is invalid", "lastName": "Last name is required"}
	assert.Equal(t, "validation failed: email: Email is invalid; lastName: Last name is required", v.Error())
	assert.True(t, v.Has("email"))

	c := v.Clone()
	delete(c, "email")
	assert.True(t, v.Has("email"), "clone must not alias the original")
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnLevel: func(context.Context, *domain.LevelEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{OnLevel: func(context.Context, *domain.LevelEvent) { calls = append(calls, "b") }}

	merged := a.Merge(b)
	merged.EmitLevel(context.Background(), &domain.LevelEvent{LevelID: 1})
	merged.EmitStep(context.Background(), &domain.StepEvent{}) // nil hook is a no-op

	assert.Equal(t, []string{"a", "b"}, calls)
}
