// Package observable implements a value with explicit subscribe/unsubscribe
// lifecycle. Each session owns its own values; there is no global instance.
package observable

import "sync"

// Value holds a T and notifies subscribers when it changes.
// The zero value is not usable; call New.
type Value[T comparable] struct {
	mu     sync.Mutex
	val    T
	nextID int
	subs   map[int]func(T)
}

// New returns a Value initialised to v.
func New[T comparable](v T) *Value[T] {
	return &Value[T]{val: v, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.val
}

// Set stores x and notifies subscribers if it differs from the current value.
// Subscribers run on the caller's goroutine, outside the lock.
func (v *Value[T]) Set(x T) bool {
	v.mu.Lock()
	if v.val == x {
		v.mu.Unlock()
		return false
	}
	v.val = x
	fns := v.snapshotLocked()
	v.mu.Unlock()

	for _, fn := range fns {
		fn(x)
	}
	return true
}

// Subscribe registers fn and returns the function that removes it.
// Unsubscribe is idempotent.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

// Subscribers reports the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

func (v *Value[T]) snapshotLocked() []func(T) {
	fns := make([]func(T), 0, len(v.subs))
	for i := 0; i < v.nextID; i++ {
		if fn, ok := v.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// Map derives a read-only view of a Value. The derived value only notifies
// when the projection changes.
func Map[T, U comparable](src *Value[T], f func(T) U) (*Value[U], func()) {
	dst := New(f(src.Get()))
	unsub := src.Subscribe(func(t T) { dst.Set(f(t)) })
	return dst, unsub
}
