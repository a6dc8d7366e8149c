package tutorial

import "github.com/namecardai/namecard/pkg/domain"

// Card is the customisable demo business card.
type Card struct {
	Theme      domain.Theme     `json:"theme"`
	Style      domain.CardStyle `json:"style"`
	Effect     domain.AREffect  `json:"effect"`
	Profile    domain.Profile   `json:"profile"`
	ScanCount  int              `json:"scan_count"`
	ShareCount int              `json:"share_count"`
}

// Palette resolves the card theme to colours.
func (c Card) Palette() domain.Palette {
	return c.Theme.Palette()
}

// Snapshot is an immutable copy of the controller state.
type Snapshot struct {
	// Version increases with every change; observers use it to drop stale copies.
	Version          uint64         `json:"version"`
	Levels           []domain.Level `json:"levels"`
	Current          int            `json:"current"`
	Completed        []int          `json:"completed"`
	ShowInstructions bool           `json:"show_instructions"`
	AdvancePending   bool           `json:"advance_pending"`
	Card             Card           `json:"card"`
	Done             bool           `json:"done"`
	Progress         int            `json:"progress"`
}

// Level returns the descriptor of the current level.
func (s Snapshot) Level() domain.Level {
	return s.Levels[s.Current-1]
}

// IsCompleted reports whether id has been completed.
func (s Snapshot) IsCompleted(id int) bool {
	for _, c := range s.Completed {
		if c == id {
			return true
		}
	}
	return false
}
