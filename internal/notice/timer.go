package notice

import "time"

// Stopper cancels a scheduled action. Stop reports whether the call
// prevented the action from running.
type Stopper interface {
	Stop() bool
}

// Scheduler is the host timer facility.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
	Now() time.Time
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

func (systemScheduler) Now() time.Time {
	return time.Now()
}

// SystemScheduler returns a Scheduler backed by runtime timers.
func SystemScheduler() Scheduler {
	return systemScheduler{}
}

// TimerState is the observable state of a Timer.
type TimerState uint8

const (
	TimerIdle TimerState = iota
	TimerArmed
)

// String returns the state name.
func (s TimerState) String() string {
	switch s {
	case TimerIdle:
		return "idle"
	case TimerArmed:
		return "armed"
	default:
		return "unknown"
	}
}

// Timer holds at most one pending delayed action.
//
// Timer is not safe for concurrent use; the owning Notice serializes
// access. Because a runtime timer may already be running its callback
// when Stop is called, each arm is tagged with a generation and the
// callback must be confirmed through Expire before acting.
type Timer struct {
	sched    Scheduler
	state    TimerState
	handle   Stopper
	gen      uint64
	deadline time.Time
}

// NewTimer creates an idle timer on the given scheduler.
// A nil scheduler uses SystemScheduler.
func NewTimer(sched Scheduler) *Timer {
	if sched == nil {
		sched = SystemScheduler()
	}
	return &Timer{sched: sched}
}

// Arm schedules fire to run once after d and reports whether anything was
// armed. A non-positive d arms nothing. Any pending action is cancelled
// first. fire receives the generation to hand back to Expire.
func (t *Timer) Arm(d time.Duration, fire func(gen uint64)) bool {
	if d <= 0 {
		return false
	}
	t.Cancel()

	t.gen++
	gen := t.gen
	t.state = TimerArmed
	t.deadline = t.sched.Now().Add(d)
	t.handle = t.sched.AfterFunc(d, func() { fire(gen) })
	return true
}

// Cancel invalidates the pending action, if any. It reports whether an
// action was pending. Calling Cancel on an idle timer is a no-op.
func (t *Timer) Cancel() bool {
	if t.state != TimerArmed {
		return false
	}
	t.handle.Stop()
	t.reset()
	return true
}

// Expire confirms that the action tagged gen is the live one and moves
// the timer to idle. Stale or cancelled generations return false.
func (t *Timer) Expire(gen uint64) bool {
	if t.state != TimerArmed || gen != t.gen {
		return false
	}
	t.reset()
	return true
}

func (t *Timer) reset() {
	t.handle = nil
	t.state = TimerIdle
	t.deadline = time.Time{}
}

// State returns TimerArmed while an action is pending.
func (t *Timer) State() TimerState {
	return t.state
}

// Deadline returns the time the pending action is due.
func (t *Timer) Deadline() (time.Time, bool) {
	if t.state != TimerArmed {
		return time.Time{}, false
	}
	return t.deadline, true
}
