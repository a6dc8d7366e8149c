package wizard

import (
	"strings"
	"unicode/utf8"

	"github.com/namecardai/namecard/pkg/domain"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 8

// Validation messages shown next to the offending field.
const (
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgEmailRequired     = "Email is required"
	MsgEmailInvalid      = "Email is invalid"
	MsgPasswordRequired  = "Password is required"
	MsgPasswordTooShort  = "Password must be at least 8 characters"
	MsgPasswordMismatch  = "Passwords do not match"
	MsgTermsRequired     = "You must agree to the terms and conditions"
)

// rule returns a message when the field is invalid, or "".
type rule func(v values) string

var rules = map[string]rule{
	domain.FieldFirstName: required(domain.FieldFirstName, MsgFirstNameRequired),
	domain.FieldLastName:  required(domain.FieldLastName, MsgLastNameRequired),
	domain.FieldEmail: func(v values) string {
		email := strings.TrimSpace(v.str(domain.FieldEmail))
		switch {
		case email == "":
			return MsgEmailRequired
		case !domain.ValidEmail(email):
			return MsgEmailInvalid
		}
		return ""
	},
	domain.FieldPassword: func(v values) string {
		pw := v.str(domain.FieldPassword)
		switch {
		case pw == "":
			return MsgPasswordRequired
		case utf8.RuneCountInString(pw) < MinPasswordLength:
			return MsgPasswordTooShort
		}
		return ""
	},
	domain.FieldConfirmPassword: func(v values) string {
		if v.str(domain.FieldConfirmPassword) != v.str(domain.FieldPassword) {
			return MsgPasswordMismatch
		}
		return ""
	},
	domain.FieldAgreeToTerms: func(v values) string {
		if !v.flag(domain.FieldAgreeToTerms) {
			return MsgTermsRequired
		}
		return ""
	},
}

func required(field, msg string) rule {
	return func(v values) string {
		if strings.TrimSpace(v.str(field)) == "" {
			return msg
		}
		return ""
	}
}

// Validate evaluates the rules of every field of step against vals.
// Fields without a rule are optional and never fail.
func Validate(step domain.Step, vals map[string]any) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	v := values(vals)
	for _, f := range step.Fields {
		r, ok := rules[f.Name]
		if !ok {
			continue
		}
		if msg := r(v); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// values is the raw form state: strings for text inputs, bools for checkboxes.
type values map[string]any

func (v values) str(field string) string {
	s, _ := v[field].(string)
	return s
}

func (v values) flag(field string) bool {
	b, _ := v[field].(bool)
	return b
}
