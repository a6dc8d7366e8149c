package pitch

import (
	"testing"
	"time"

	"github.com/namecardai/namecard/internal/testutils"
	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeck(t *testing.T) (*Deck, *testutils.ManualClock) {
	t.Helper()
	cat, err := content.Default()
	require.NoError(t, err)
	clk := testutils.NewManualClock()
	d, err := New(cat.Slides, WithClock(clk))
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d, clk
}

func TestNavigation_Wraps(t *testing.T) {
	d, _ := newDeck(t)

	require.NoError(t, d.Prev())
	assert.Equal(t, 10, d.Snapshot().Current)
	assert.Equal(t, "Join the Revolution", d.Snapshot().Slide().Title)

	require.NoError(t, d.Next())
	assert.Equal(t, 1, d.Snapshot().Current)

	require.NoError(t, d.GoTo(9))
	assert.Equal(t, "Funding Ask", d.Snapshot().Slide().Title)
	assert.ErrorIs(t, d.GoTo(11), domain.ErrUnknownSlide)
	assert.ErrorIs(t, d.GoTo(0), domain.ErrUnknownSlide)
}

func TestAutoplay(t *testing.T) {
	d, clk := newDeck(t)

	require.NoError(t, d.SetAutoplay(true))
	clk.Advance(DefaultInterval)
	assert.Equal(t, 2, d.Snapshot().Current)
	clk.Advance(DefaultInterval)
	assert.Equal(t, 3, d.Snapshot().Current)

	clk.Advance(DefaultInterval / 2)
	require.NoError(t, d.Next())
	clk.Advance(DefaultInterval / 2)
	assert.Equal(t, 4, d.Snapshot().Current, "manual move restarts the interval")

	require.NoError(t, d.SetAutoplay(false))
	assert.Equal(t, 0, clk.Pending())
	clk.Advance(time.Minute)
	assert.Equal(t, 4, d.Snapshot().Current)
}

func TestAutoplay_WrapsAround(t *testing.T) {
	d, clk := newDeck(t)
	require.NoError(t, d.GoTo(10))
	require.NoError(t, d.SetAutoplay(true))

	clk.Advance(DefaultInterval)
	assert.Equal(t, 1, d.Snapshot().Current)
}

func TestClose_StopsAutoplay(t *testing.T) {
	d, clk := newDeck(t)
	calls := 0
	d.Subscribe(func(Snapshot) { calls++ })

	require.NoError(t, d.SetAutoplay(true))
	d.Close()
	assert.Equal(t, 0, clk.Pending())

	clk.Advance(time.Minute)
	assert.Equal(t, 1, d.Snapshot().Current)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, d.Next(), domain.ErrClosed)
}

func TestNew_EmptyDeck(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSequence)
}
