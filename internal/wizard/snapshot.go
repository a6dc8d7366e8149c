package wizard

import "github.com/namecardai/namecard/pkg/domain"

// Registered identifies the account created by a successful submission.
type Registered struct {
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

// Snapshot is an immutable copy of the wizard state. Password values are
// never included; PasswordSet tells the view whether one was typed.
type Snapshot struct {
	Version     uint64                  `json:"version"`
	Steps       []domain.Step           `json:"steps"`
	Current     int                     `json:"current"`
	State       string                  `json:"state"`
	Values      map[string]any          `json:"values"`
	PasswordSet bool                    `json:"password_set"`
	Errors      domain.ValidationErrors `json:"errors"`
	Submission  domain.SubmissionState  `json:"submission"`
	SubmitError string                  `json:"submit_error,omitempty"`
	Registered  *Registered             `json:"registered,omitempty"`
}

// Step returns the descriptor of the current step.
func (s Snapshot) Step() domain.Step {
	return s.Steps[s.Current-1]
}

// IsLast reports whether the current step is the final one.
func (s Snapshot) IsLast() bool {
	return s.Current == len(s.Steps)
}

// Progress is the share of steps reached, in percent.
func (s Snapshot) Progress() int {
	return s.Current * 100 / len(s.Steps)
}

// Text returns a text field value.
func (s Snapshot) Text(field string) string {
	v, _ := s.Values[field].(string)
	return v
}

// Checked returns a checkbox value.
func (s Snapshot) Checked(field string) bool {
	v, _ := s.Values[field].(bool)
	return v
}
