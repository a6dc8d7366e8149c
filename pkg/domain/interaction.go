package domain

import "fmt"

// Interaction is a qualifying user action in the demo. Each one completes
// exactly one level.
type Interaction string

const (
	InteractTapCard       Interaction = "tap-card"
	InteractScan          Interaction = "scan"
	InteractTheme         Interaction = "theme"
	InteractStyle         Interaction = "style"
	InteractEffect        Interaction = "effect"
	InteractShare         Interaction = "share"
	InteractViewAnalytics Interaction = "view-analytics"
)

var interactionLevels = map[Interaction]int{
	InteractTapCard:       1,
	InteractScan:          2,
	InteractTheme:         3,
	InteractStyle:         3,
	InteractEffect:        3,
	InteractShare:         4,
	InteractViewAnalytics: 5,
}

// ParseInteraction validates an interaction name.
func ParseInteraction(s string) (Interaction, error) {
	i := Interaction(s)
	if _, ok := interactionLevels[i]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownInteraction, s)
	}
	return i, nil
}

// Level returns the level id the interaction completes.
func (i Interaction) Level() int {
	return interactionLevels[i]
}
