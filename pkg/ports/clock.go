package ports

import "time"

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from firing. It reports false if the callback
	// already fired or was already stopped.
	Stop() bool
}

// Clock abstracts time so that the controllers' timers are deterministic in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}
