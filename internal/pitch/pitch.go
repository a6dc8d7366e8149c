// Package pitch drives the investor deck: wrap-around navigation and an
// optional autoplay that advances one slide per interval.
package pitch

import (
	"fmt"
	"sync"
	"time"

	"github.com/namecardai/namecard/pkg/clock"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/ports"
)

// DefaultInterval is the autoplay pace.
const DefaultInterval = 8 * time.Second

// Snapshot is a copy of the deck state.
type Snapshot struct {
	Version  uint64         `json:"version"`
	Slides   []domain.Slide `json:"slides"`
	Current  int            `json:"current"`
	Autoplay bool           `json:"autoplay"`
}

// Slide returns the slide on screen.
func (s Snapshot) Slide() domain.Slide {
	return s.Slides[s.Current-1]
}

// Option configures a Deck.
type Option func(*Deck)

// WithClock sets the time source for autoplay.
func WithClock(c ports.Clock) Option {
	return func(d *Deck) { d.clock = c }
}

// WithInterval overrides DefaultInterval.
func WithInterval(i time.Duration) Option {
	return func(d *Deck) { d.interval = i }
}

// Deck is safe for concurrent use.
type Deck struct {
	slides   []domain.Slide
	clock    ports.Clock
	interval time.Duration

	mu       sync.Mutex
	version  uint64
	current  int
	autoplay bool
	timer    ports.Timer
	gen      uint64
	closed   bool
	subs     map[int]func(Snapshot)
	nextSub  int
}

func New(slides []domain.Slide, opts ...Option) (*Deck, error) {
	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: empty deck", domain.ErrInvalidSequence)
	}
	d := &Deck{
		slides:   slides,
		clock:    clock.Real{},
		interval: DefaultInterval,
		current:  1,
		subs:     make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Next moves forward, wrapping from the last slide to the first.
func (d *Deck) Next() error {
	return d.mutate(func() error {
		d.current = d.current%len(d.slides) + 1
		d.rearmLocked()
		return nil
	})
}

// Prev moves back, wrapping from the first slide to the last.
func (d *Deck) Prev() error {
	return d.mutate(func() error {
		d.current = (d.current+len(d.slides)-2)%len(d.slides) + 1
		d.rearmLocked()
		return nil
	})
}

// GoTo jumps to slide id.
func (d *Deck) GoTo(id int) error {
	return d.mutate(func() error {
		if id < 1 || id > len(d.slides) {
			return fmt.Errorf("%w: %d", domain.ErrUnknownSlide, id)
		}
		d.current = id
		d.rearmLocked()
		return nil
	})
}

// SetAutoplay starts or stops automatic advancing.
func (d *Deck) SetAutoplay(on bool) error {
	return d.mutate(func() error {
		d.autoplay = on
		d.rearmLocked()
		return nil
	})
}

func (d *Deck) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Deck) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, id)
			d.mu.Unlock()
		})
	}
}

// Close stops autoplay for good. It is idempotent.
func (d *Deck) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.stopLocked()
	clear(d.subs)
}

// rearmLocked restarts the interval so a manual move gets a full slot.
func (d *Deck) rearmLocked() {
	d.stopLocked()
	if !d.autoplay {
		return
	}
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.interval, func() { d.tick(gen) })
}

func (d *Deck) stopLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Deck) tick(gen uint64) {
	_ = d.mutate(func() error {
		if gen != d.gen {
			return errStale
		}
		d.current = d.current%len(d.slides) + 1
		d.rearmLocked()
		return nil
	})
}

var errStale = fmt.Errorf("stale autoplay tick")

func (d *Deck) mutate(fn func() error) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return domain.ErrClosed
	}
	if err := fn(); err != nil {
		d.mu.Unlock()
		return err
	}
	d.version++
	snap := d.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(d.subs))
	for i := 0; i < d.nextSub; i++ {
		if fn, ok := d.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	d.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return nil
}

func (d *Deck) snapshotLocked() Snapshot {
	return Snapshot{
		Version:  d.version,
		Slides:   d.slides,
		Current:  d.current,
		Autoplay: d.autoplay,
	}
}
