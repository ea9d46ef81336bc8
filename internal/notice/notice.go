package notice

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/net/html"
)

// State is the lifecycle state of a notice.
type State uint8

const (
	// StateIdle means no timer is armed: hovered, no duration, or not mounted.
	StateIdle State = iota
	// StatePending means the close timer is armed.
	StatePending
	// StateClosed means the notice has dispatched a close.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Observer receives lifecycle notifications, e.g. for metrics.
// Calls are made with the notice lock held and must not call back
// into the notice.
type Observer interface {
	Mounted(key string)
	TimerArmed(key string, d time.Duration)
	TimerCancelled(key string)
	Dispatched(key string, closeType CloseType)
	Destroyed(key string)
}

type nopObserver struct{}

func (nopObserver) Mounted(string)                   {}
func (nopObserver) TimerArmed(string, time.Duration) {}
func (nopObserver) TimerCancelled(string)            {}
func (nopObserver) Dispatched(string, CloseType)     {}
func (nopObserver) Destroyed(string)                 {}

// Option configures a Notice.
type Option func(*Notice)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notice) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithScheduler sets the timer facility. Tests use a fake clock here.
func WithScheduler(sched Scheduler) Option {
	return func(n *Notice) {
		if sched != nil {
			n.timer = NewTimer(sched)
		}
	}
}

// WithObserver attaches a lifecycle observer.
func WithObserver(obs Observer) Option {
	return func(n *Notice) {
		if obs != nil {
			n.observer = obs
		}
	}
}

// Notice is the lifecycle controller for one notice instance.
// It is safe for concurrent use; OnClose and OnClick run without the
// lock held so they may call back into the notice.
type Notice struct {
	mu       sync.Mutex
	cfg      Config
	timer    *Timer
	logger   *slog.Logger
	observer Observer

	mounted   bool
	destroyed bool
	closed    bool

	// portal is the subtree last attached to cfg.MountTarget.
	portal *html.Node
}

// New creates an unmounted notice. An empty Config.Key is replaced by a
// generated one.
func New(cfg Config, opts ...Option) *Notice {
	n := &Notice{
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.timer == nil {
		n.timer = NewTimer(nil)
	}

	if cfg.Key == "" {
		key, err := NewKey()
		if err != nil {
			n.logger.Warn("failed to generate notice key", "error", err)
		}
		cfg.Key = key
	}
	n.cfg = cfg
	return n
}

// Key returns the notice key.
func (n *Notice) Key() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cfg.Key
}

// Config returns the current configuration.
func (n *Notice) Config() Config {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cfg
}

// State returns the current lifecycle state.
func (n *Notice) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stateLocked()
}

func (n *Notice) stateLocked() State {
	switch {
	case n.closed:
		return StateClosed
	case n.timer.State() == TimerArmed:
		return StatePending
	default:
		return StateIdle
	}
}

// Deadline returns when the pending timer will fire.
func (n *Notice) Deadline() (time.Time, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.timer.Deadline()
}

// Mount is the creation entry point: it arms the timer when the
// configured duration is positive. Repeated calls are ignored.
func (n *Notice) Mount() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.mounted || n.destroyed {
		return
	}
	n.mounted = true
	n.observer.Mounted(n.cfg.Key)
	n.startLocked()
}

// Reconfigure replaces the configuration. A change of Duration or
// UpdateMark cancels the current timer and re-arms it from scratch with
// the new duration, even if it was pending.
func (n *Notice) Reconfigure(cfg Config) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.destroyed {
		return
	}
	if cfg.Key == "" {
		cfg.Key = n.cfg.Key
	}
	prev := n.cfg
	n.cfg = cfg

	if !n.mounted || !cfg.timerChanged(prev) {
		return
	}
	n.logger.Debug("notice reconfigured, restarting timer",
		"key", cfg.Key,
		"duration", cfg.Duration,
		"update_mark", cfg.UpdateMark,
	)
	n.cancelLocked()
	n.startLocked()
}

// Destroy removes the notice from composition. The timer is cancelled
// and nothing is dispatched.
func (n *Notice) Destroy() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.destroyed {
		return
	}
	n.cancelLocked()
	n.destroyed = true
	n.detachPortalLocked()
	n.observer.Destroyed(n.cfg.Key)
	n.logger.Debug("notice destroyed", "key", n.cfg.Key)
}

// PointerEnter pauses auto-close by cancelling the timer.
func (n *Notice) PointerEnter() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.destroyed {
		return
	}
	n.cancelLocked()
}

// PointerLeave arms a fresh timer with the full configured duration.
// Time elapsed before the pointer entered is discarded.
func (n *Notice) PointerLeave() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.destroyed || !n.mounted {
		return
	}
	n.cancelLocked()
	n.startLocked()
}

// Close is the manual close action. A non-nil ev has its propagation
// stopped so the container click handler does not also run.
func (n *Notice) Close(ev *Event) {
	if ev != nil {
		ev.StopPropagation()
	}

	n.mu.Lock()
	if n.destroyed {
		n.mu.Unlock()
		return
	}
	call := n.dispatchLocked(CloseManual)
	n.mu.Unlock()

	call()
}

// fire is the timer callback. Only the live generation dispatches.
func (n *Notice) fire(gen uint64) {
	n.mu.Lock()
	if n.destroyed || !n.timer.Expire(gen) {
		n.mu.Unlock()
		return
	}
	call := n.dispatchLocked(CloseAuto)
	n.mu.Unlock()

	call()
}

// startLocked arms the timer for the configured duration.
// Caller must hold the lock.
func (n *Notice) startLocked() {
	if n.closed {
		return
	}
	if n.timer.Arm(n.cfg.Duration, n.fire) {
		n.observer.TimerArmed(n.cfg.Key, n.cfg.Duration)
		n.logger.Debug("notice timer armed", "key", n.cfg.Key, "duration", n.cfg.Duration)
	}
}

// cancelLocked cancels a pending timer. Caller must hold the lock.
func (n *Notice) cancelLocked() {
	if n.timer.Cancel() {
		n.observer.TimerCancelled(n.cfg.Key)
		n.logger.Debug("notice timer cancelled", "key", n.cfg.Key)
	}
}
