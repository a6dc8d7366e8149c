package ports

import (
	"context"

	"github.com/namecardai/namecard/pkg/domain"
)

// AccountCreator performs the account-creation side effect of the sign-up wizard.
// Implementations must honour ctx cancellation and return domain.ErrEmailTaken
// when the email is already registered.
type AccountCreator interface {
	CreateAccount(ctx context.Context, reg domain.Registration) error
}

// AccountCreatorFunc adapts a function to AccountCreator.
type AccountCreatorFunc func(ctx context.Context, reg domain.Registration) error

// CreateAccount calls f.
func (f AccountCreatorFunc) CreateAccount(ctx context.Context, reg domain.Registration) error {
	return f(ctx, reg)
}

// Waitlist records email addresses captured on the landing page.
type Waitlist interface {
	// Join adds email to the list. It reports false when the address was already present.
	Join(ctx context.Context, email string) (bool, error)

	// Count returns the number of distinct addresses.
	Count(ctx context.Context) (int, error)
}
