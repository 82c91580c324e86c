package schedule

import (
	"time"

	"github.com/facebookgo/clock"
)

// Timer is a pending delayed call
type Timer interface {
	Stop()
}

// Scheduler runs functions after a delay
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// Clock schedules calls on a clock.Clock
type Clock struct {
	c clock.Clock
}

// NewClock returns wall clock scheduler
func NewClock() *Clock {
	return NewClockWith(clock.New())
}

// NewClockWith wraps provided clock
func NewClockWith(c clock.Clock) *Clock {
	return &Clock{c: c}
}

// AfterFunc calls f in its own goroutine after d
func (s *Clock) AfterFunc(d time.Duration, f func()) Timer {
	return &clockTimer{t: s.c.AfterFunc(d, f)}
}

// Now returns current time of the clock
func (s *Clock) Now() time.Time {
	return s.c.Now()
}

type clockTimer struct {
	t *clock.Timer
}

func (ct *clockTimer) Stop() {
	ct.t.Stop()
}
