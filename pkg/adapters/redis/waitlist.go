package redis

import (
	"context"
	"fmt"

	"github.com/namecardai/namecard/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Waitlist implements ports.Waitlist with a Redis set.
type Waitlist struct {
	client *backend.Client
	key    string
}

// NewWaitlist stores addresses under prefix + "waitlist".
func NewWaitlist(client *backend.Client, prefix string) *Waitlist {
	return &Waitlist{client: client, key: prefix + "waitlist"}
}

func (w *Waitlist) Join(ctx context.Context, email string) (bool, error) {
	n, err := w.client.SAdd(ctx, w.key, domain.NormalizeEmail(email)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to join waitlist: %w", err)
	}
	return n == 1, nil
}

func (w *Waitlist) Count(ctx context.Context) (int, error) {
	n, err := w.client.SCard(ctx, w.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count waitlist: %w", err)
	}
	return int(n), nil
}
