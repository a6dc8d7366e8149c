package domain

import (
	"log/slog"
	"regexp"
	"strings"
)

// Wizard field names. They double as form input names and JSON keys.
const (
	FieldFirstName           = "firstName"
	FieldLastName            = "lastName"
	FieldEmail               = "email"
	FieldPassword            = "password"
	FieldConfirmPassword     = "confirmPassword"
	FieldCompany             = "company"
	FieldTitle               = "title"
	FieldIndustry            = "industry"
	FieldPlan                = "plan"
	FieldAgreeToTerms        = "agreeToTerms"
	FieldSubscribeNewsletter = "subscribeNewsletter"
)

// DefaultPlan is preselected when the wizard mounts.
const DefaultPlan = "pro"

// Registration is the typed snapshot of the wizard form handed to the
// account-creation port.
type Registration struct {
	FirstName           string `json:"firstName" mapstructure:"firstName"`
	LastName            string `json:"lastName" mapstructure:"lastName"`
	Email               string `json:"email" mapstructure:"email"`
	Password            string `json:"password" mapstructure:"password"`
	ConfirmPassword     string `json:"-" mapstructure:"confirmPassword"`
	Company             string `json:"company,omitempty" mapstructure:"company"`
	Title               string `json:"title,omitempty" mapstructure:"title"`
	Industry            string `json:"industry,omitempty" mapstructure:"industry"`
	Plan                string `json:"plan" mapstructure:"plan"`
	AgreeToTerms        bool   `json:"agreeToTerms" mapstructure:"agreeToTerms"`
	SubscribeNewsletter bool   `json:"subscribeNewsletter" mapstructure:"subscribeNewsletter"`
}

// LogValue keeps credentials out of structured logs.
func (r Registration) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", r.Email),
		slog.String("plan", r.Plan),
		slog.Bool("newsletter", r.SubscribeNewsletter),
	)
}

var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidEmail reports whether s has the basic local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailShape.MatchString(s)
}

// NormalizeEmail is the key account stores compare addresses by.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
