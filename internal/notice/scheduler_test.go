package notice

import (
	"sort"
	"time"
)

// fakeScheduler is a manual clock. Advance runs due callbacks in
// deadline order on the calling goroutine.
type fakeScheduler struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	t := &fakeTimer{at: s.now.Add(d), f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Now() time.Time {
	return s.now
}

// Advance moves the clock forward by d, firing timers as they come due.
func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		due := s.due(target)
		if due == nil {
			break
		}
		s.now = due.at
		due.fired = true
		due.f()
	}
	s.now = target
}

func (s *fakeScheduler) due(target time.Time) *fakeTimer {
	var pending []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && !t.at.After(target) {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].at.Before(pending[j].at) })
	return pending[0]
}

// pending returns the number of live scheduled callbacks.
func (s *fakeScheduler) pending() int {
	count := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			count++
		}
	}
	return count
}

// fireStopped runs every stopped callback, mimicking runtime timers whose
// callback was already in flight when Stop was called.
func (s *fakeScheduler) fireStopped() {
	for _, t := range s.timers {
		if t.stopped {
			t.f()
		}
	}
}
