package observable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_SetNotifiesOnChange(t *testing.T) {
	v := New(0)
	var got []int
	unsub := v.Subscribe(func(x int) { got = append(got, x) })

	assert.True(t, v.Set(10))
	assert.False(t, v.Set(10), "same value is not a change")
	assert.True(t, v.Set(60))
	assert.Equal(t, []int{10, 60}, got)

	unsub()
	unsub()
	v.Set(5)
	assert.Equal(t, []int{10, 60}, got)
	assert.Equal(t, 0, v.Subscribers())
}

func TestValue_IndependentInstances(t *testing.T) {
	a, b := New("x"), New("x")
	calls := 0
	a.Subscribe(func(string) { calls++ })

	b.Set("y")
	assert.Equal(t, 0, calls)
	assert.Equal(t, "x", a.Get())
}

func TestMap_HeaderScrolled(t *testing.T) {
	scroll := New(0)
	scrolled, stop := Map(scroll, func(y int) bool { return y > 50 })
	defer stop()

	var flips []bool
	scrolled.Subscribe(func(b bool) { flips = append(flips, b) })

	for _, y := range []int{10, 40, 51, 80, 120, 50, 0} {
		scroll.Set(y)
	}
	assert.Equal(t, []bool{true, false}, flips)
	assert.False(t, scrolled.Get())
}

func TestValue_ConcurrentSubscribe(t *testing.T) {
	v := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unsub := v.Subscribe(func(int) {})
			v.Set(i)
			unsub()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, v.Subscribers())
}
