package ports

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/namecardai/namecard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAccountCreatorContract runs a suite of tests to verify that an AccountCreator
// implementation adheres to the defined interface contract.
func RunAccountCreatorContract(t *testing.T, creator AccountCreator) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405.000000")

	newReg := func(local string) domain.Registration {
		return domain.Registration{
			FirstName:    "Alex",
			LastName:     "Lee",
			Email:        fmt.Sprintf("%s+%s@namecard.test", local, suffix),
			Password:     "abcdefgh",
			Plan:         domain.DefaultPlan,
			AgreeToTerms: true,
		}
	}

	t.Run("Create", func(t *testing.T) {
		err := creator.CreateAccount(ctx, newReg("create"))
		require.NoError(t, err, "CreateAccount should not return error")
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		reg := newReg("dup")
		require.NoError(t, creator.CreateAccount(ctx, reg))

		err := creator.CreateAccount(ctx, reg)
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("Email Is Case Insensitive", func(t *testing.T) {
		reg := newReg("case")
		require.NoError(t, creator.CreateAccount(ctx, reg))

		reg.Email = "CASE+" + suffix + "@NameCard.test"
		err := creator.CreateAccount(ctx, reg)
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("Canceled Context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := creator.CreateAccount(cctx, newReg("canceled"))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Concurrent Same Email", func(t *testing.T) {
		reg := newReg("race")
		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = creator.CreateAccount(ctx, reg)
			}(i)
		}
		wg.Wait()

		created := 0
		for _, err := range errs {
			if err == nil {
				created++
			} else {
				assert.ErrorIs(t, err, domain.ErrEmailTaken)
			}
		}
		assert.Equal(t, 1, created, "exactly one concurrent registration should win")
	})
}

// RunWaitlistContract runs a suite of tests to verify that a Waitlist
// implementation adheres to the defined interface contract.
func RunWaitlistContract(t *testing.T, list Waitlist) {
	ctx := context.Background()

	before, err := list.Count(ctx)
	require.NoError(t, err)

	added, err := list.Join(ctx, "first@namecard.test")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = list.Join(ctx, "FIRST@namecard.test")
	require.NoError(t, err)
	assert.False(t, added, "addresses are compared case-insensitively")

	added, err = list.Join(ctx, "second@namecard.test")
	require.NoError(t, err)
	assert.True(t, added)

	after, err := list.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+2, after)
}
