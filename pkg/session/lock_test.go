package session

import (
	"context"
	"testing"

	"github.com/namecardai/namecard/internal/testutils"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/ports"
	"github.com/stretchr/testify/require"
)

func TestManager_LockLifecycle(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)
	creator := ports.AccountCreatorFunc(func(context.Context, domain.Registration) error { return nil })
	mgr := NewManager(cat, Deps{Creator: creator, Clock: testutils.NewManualClock()})
	defer mgr.Close()
	ctx := context.Background()
	count := 500

	// 1. Create and Delete many sessions
	for i := 0; i < count; i++ {
		s, err := mgr.Create(ctx)
		require.NoError(t, err)
		_, _ = mgr.Get(ctx, s.ID)
		require.NoError(t, mgr.Delete(ctx, s.ID))
	}

	// 2. Count locks remaining in map
	mgr.mu.Lock()
	lockCount := len(mgr.locks)
	mgr.mu.Unlock()

	t.Logf("Sessions Created: %d, Locks Leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
