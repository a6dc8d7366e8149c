package testutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock(t *testing.T) {
	c := NewManualClock()
	start := c.Now()

	var order []string
	c.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	c.AfterFunc(time.Second, func() { order = append(order, "a") })
	stopped := c.AfterFunc(time.Second, func() { order = append(order, "x") })
	assert.True(t, stopped.Stop())
	assert.Equal(t, 2, c.Pending())

	c.Advance(999 * time.Millisecond)
	assert.Empty(t, order)

	c.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, start.Add(2999*time.Millisecond), c.Now())
}
