package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/namecardai/namecard/pkg/adapters/memory"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAccounts_Contract(t *testing.T) {
	ports.RunAccountCreatorContract(t, memory.NewAccounts())
}

func TestMemoryWaitlist_Contract(t *testing.T) {
	ports.RunWaitlistContract(t, memory.NewWaitlist())
}

func TestMemoryAccounts_DropsCredentials(t *testing.T) {
	accounts := memory.NewAccounts()
	err := accounts.CreateAccount(context.Background(), domain.Registration{
		Email:           "Jane@Example.com",
		Password:        "abcdefgh",
		ConfirmPassword: "abcdefgh",
		Plan:            "free",
	})
	require.NoError(t, err)

	reg, ok := accounts.Lookup("jane@example.com")
	require.True(t, ok)
	assert.Empty(t, reg.Password)
	assert.Empty(t, reg.ConfirmPassword)
	assert.Equal(t, "free", reg.Plan)
	assert.Equal(t, 1, accounts.Len())
}

func TestMemoryAccounts_Latency(t *testing.T) {
	accounts := memory.NewAccounts(memory.WithLatency(50 * time.Millisecond))

	start := time.Now()
	require.NoError(t, accounts.CreateAccount(context.Background(), domain.Registration{Email: "a@b.co"}))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := accounts.CreateAccount(ctx, domain.Registration{Email: "c@d.co"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, accounts.Len())
}

func TestMemoryAccounts_Failure(t *testing.T) {
	boom := errors.New("upstream unavailable")
	accounts := memory.NewAccounts(memory.WithFailure(func(r domain.Registration) error {
		if r.Plan == "enterprise" {
			return boom
		}
		return nil
	}))

	err := accounts.CreateAccount(context.Background(), domain.Registration{Email: "a@b.co", Plan: "enterprise"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, accounts.CreateAccount(context.Background(), domain.Registration{Email: "a@b.co", Plan: "pro"}))
}

func TestSource_ReplaceNotifiesWatchers(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)
	src := memory.NewSource(cat)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := src.Watch(ctx)
	require.NoError(t, err)

	smaller := cat.WithSlides(cat.Slides[:2])
	require.NoError(t, src.Replace("slides", smaller))

	select {
	case id := <-ch:
		assert.Equal(t, "slides", id)
	case <-time.After(time.Second):
		t.Fatal("watcher was not notified")
	}

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.Slides, 2)

	broken := cat.WithSlides(nil)
	assert.Error(t, src.Replace("slides", broken))

	cancel()
	_, open := <-ch
	assert.False(t, open, "channel closes with the context")
}
