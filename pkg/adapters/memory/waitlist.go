package memory

import (
	"context"
	"sync"

	"github.com/namecardai/namecard/pkg/domain"
)

// Waitlist implements ports.Waitlist in memory.
type Waitlist struct {
	mu     sync.Mutex
	emails map[string]struct{}
}

func NewWaitlist() *Waitlist {
	return &Waitlist{emails: make(map[string]struct{})}
}

func (w *Waitlist) Join(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key := domain.NormalizeEmail(email)
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.emails[key]; ok {
		return false, nil
	}
	w.emails[key] = struct{}{}
	return true, nil
}

func (w *Waitlist) Count(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.emails), nil
}
