package memory

import (
	"context"
	"sync"
	"time"

	"github.com/namecardai/namecard/pkg/domain"
)

// Accounts implements ports.AccountCreator in memory.
// Safe for concurrent use.
type Accounts struct {
	latency time.Duration
	fail    func(domain.Registration) error

	mu   sync.RWMutex
	data map[string]domain.Registration
}

type AccountsOption func(*Accounts)

// WithLatency delays every creation, the way the site's demo backend did.
func WithLatency(d time.Duration) AccountsOption {
	return func(a *Accounts) {
		a.latency = d
	}
}

// WithFailure makes CreateAccount return fn's error when it is non-nil.
func WithFailure(fn func(domain.Registration) error) AccountsOption {
	return func(a *Accounts) {
		a.fail = fn
	}
}

// NewAccounts creates an empty account registry.
func NewAccounts(opts ...AccountsOption) *Accounts {
	a := &Accounts{
		data: make(map[string]domain.Registration),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateAccount stores reg keyed by its normalized email.
func (a *Accounts) CreateAccount(ctx context.Context, reg domain.Registration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.latency > 0 {
		t := time.NewTimer(a.latency)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	if a.fail != nil {
		if err := a.fail(reg); err != nil {
			return err
		}
	}

	key := domain.NormalizeEmail(reg.Email)
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.data[key]; ok {
		return domain.ErrEmailTaken
	}
	// Credentials are never kept.
	reg.Password, reg.ConfirmPassword = "", ""
	a.data[key] = reg
	return nil
}

// Lookup returns the stored registration for email.
func (a *Accounts) Lookup(email string) (domain.Registration, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	reg, ok := a.data[domain.NormalizeEmail(email)]
	return reg, ok
}

// Len returns the number of accounts.
func (a *Accounts) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.data)
}
