package osc

import (
	"sync"
	"time"
)

// Scheduler decides when the contents of a bundle are dispatched.
type Scheduler interface {
	Schedule(tt Timetag, fn func())
}

// ImmediateScheduler runs every bundle as soon as it is dispatched, ignoring
// its time tag.
type ImmediateScheduler struct{}

// Schedule calls fn.
func (ImmediateScheduler) Schedule(_ Timetag, fn func()) {
	fn()
}

// TimerScheduler delays bundles until their time tag. Bundles that are due
// run synchronously, which keeps nested bundles in wire order with their
// siblings.
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	stopped bool
}

// NewTimerScheduler returns a running TimerScheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: map[*time.Timer]struct{}{}}
}

// Schedule runs fn when tt is reached.
func (s *TimerScheduler) Schedule(tt Timetag, fn func()) {
	d := tt.ExpiresIn()
	if d <= 0 {
		s.mu.Lock()
		stopped := s.stopped
		s.mu.Unlock()
		if !stopped {
			fn()
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timers == nil {
		s.timers = map[*time.Timer]struct{}{}
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		_, pending := s.timers[t]
		delete(s.timers, t)
		s.mu.Unlock()
		if pending {
			fn()
		}
	})
	s.timers[t] = struct{}{}
}

// Pending returns the number of bundles waiting for their time tag.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending bundle. Later calls to Schedule are ignored.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for t := range s.timers {
		t.Stop()
	}
	s.timers = map[*time.Timer]struct{}{}
}
