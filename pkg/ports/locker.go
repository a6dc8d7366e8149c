package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serialises work on one key across replicas, such as two
// sign-ups racing for the same email.
type DistributedLocker interface {
	// Lock waits until key is free or ctx is done. The lock expires after ttl
	// if the holder never unlocks; the returned func must still be called.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
