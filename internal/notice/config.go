package notice

import (
	"time"

	"golang.org/x/net/html"
)

// DefaultPrefix is the class prefix used when Config.Prefix is empty.
const DefaultPrefix = "rc-notification"

// DefaultDuration is the conventional auto-close delay offered by the
// configuration layer. A zero Config.Duration does not fall back to it.
const DefaultDuration = 1500 * time.Millisecond

// CloseFunc receives the notice key and the reason it was dismissed.
type CloseFunc func(key string, closeType CloseType)

// ClickFunc handles a click that bubbled up to the notice container.
type ClickFunc func(ev *Event)

// Config is the per-render configuration of a notice. It is replaced
// wholesale on reconfiguration and never mutated by this package.
type Config struct {
	// Key identifies the notice to its owner. It is only used when
	// reporting a dismissal.
	Key string

	// Prefix is the class prefix; the root element gets "<Prefix>-notice".
	Prefix string

	// Duration before auto-close. Zero or negative disables the timer.
	Duration time.Duration

	// UpdateMark forces a timer restart when it changes, even if
	// Duration did not.
	UpdateMark string

	// Closable renders the manual close affordance.
	Closable bool

	OnClose CloseFunc
	OnClick ClickFunc

	// MountTarget redirects the visual output into an externally owned
	// node instead of rendering inline.
	MountTarget *html.Node

	Class     string
	Style     map[string]string
	Children  []*html.Node
	CloseIcon *html.Node

	// Props carries arbitrary passthrough properties. Only data-*, aria-*
	// and role survive into the rendered output.
	Props map[string]any
}

func (c Config) prefix() string {
	if c.Prefix == "" {
		return DefaultPrefix
	}
	return c.Prefix
}

func (c Config) closeFunc() CloseFunc {
	if c.OnClose == nil {
		return func(string, CloseType) {}
	}
	return c.OnClose
}

// timerChanged reports whether moving from prev to c restarts the timer.
func (c Config) timerChanged(prev Config) bool {
	return c.Duration != prev.Duration || c.UpdateMark != prev.UpdateMark
}
