package test

import (
	"sync"
	"time"

	"github.com/airenas/audiobook/internal/pkg/schedule"
)

// Scheduler is a virtual time scheduler. Calls run on the goroutine invoking Advance,
// in due time order, so tests step through timers deterministically.
type Scheduler struct {
	lock   sync.Mutex
	now    time.Time
	seq    int
	timers []*timer
}

type timer struct {
	at      time.Time
	seq     int
	f       func()
	stopped bool
	s       *Scheduler
}

// NewScheduler creates scheduler at a fixed start time
func NewScheduler() *Scheduler {
	return &Scheduler{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

// AfterFunc registers f to be run when virtual time reaches now + d
func (s *Scheduler) AfterFunc(d time.Duration, f func()) schedule.Timer {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.seq++
	t := &timer{at: s.now.Add(d), seq: s.seq, f: f, s: s}
	s.timers = append(s.timers, t)
	return t
}

// Now returns virtual time
func (s *Scheduler) Now() time.Time {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.now
}

// Advance moves virtual time forward by d running every call that becomes due,
// including calls scheduled by other calls within the window
func (s *Scheduler) Advance(d time.Duration) {
	s.lock.Lock()
	end := s.now.Add(d)
	s.lock.Unlock()
	for {
		t := s.next(end)
		if t == nil {
			break
		}
		t.f()
	}
	s.lock.Lock()
	s.now = end
	s.lock.Unlock()
}

// Pending returns count of not yet fired and not stopped calls
func (s *Scheduler) Pending() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	res := 0
	for _, t := range s.timers {
		if !t.stopped {
			res++
		}
	}
	return res
}

func (s *Scheduler) next(end time.Time) *timer {
	s.lock.Lock()
	defer s.lock.Unlock()
	bi := -1
	for i, t := range s.timers {
		if t.stopped || t.at.After(end) {
			continue
		}
		if bi == -1 || t.at.Before(s.timers[bi].at) ||
			(t.at.Equal(s.timers[bi].at) && t.seq < s.timers[bi].seq) {
			bi = i
		}
	}
	if bi == -1 {
		s.compact()
		return nil
	}
	res := s.timers[bi]
	res.stopped = true
	s.now = res.at
	return res
}

func (s *Scheduler) compact() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.timers = live
}

func (t *timer) Stop() {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	t.stopped = true
}
