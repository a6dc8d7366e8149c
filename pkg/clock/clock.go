// Package clock provides the production ports.Clock backed by package time.
package clock

import (
	"time"

	"github.com/namecardai/namecard/pkg/ports"
)

// Real is the wall clock.
type Real struct{}

var _ ports.Clock = Real{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}
