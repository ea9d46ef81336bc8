package notice

// EventType is a host event delivered to a notice.
type EventType string

const (
	EventClick      EventType = "click"
	EventMouseEnter EventType = "mouseenter"
	EventMouseLeave EventType = "mouseleave"
)

// Part identifies the element of the notice an event originated on.
type Part uint8

const (
	PartRoot Part = iota
	PartContent
	PartClose
)

// String returns the part name.
func (p Part) String() string {
	switch p {
	case PartRoot:
		return "root"
	case PartContent:
		return "content"
	case PartClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event is a host event travelling from its originating part up to the
// notice root.
type Event struct {
	Type EventType
	Part Part

	stopped bool
}

// NewEvent creates an event on the given part.
func NewEvent(typ EventType, part Part) *Event {
	return &Event{Type: typ, Part: part}
}

// StopPropagation prevents the event from reaching the root handlers.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.stopped
}

// HandleEvent routes a host event. Hover events map to PointerEnter and
// PointerLeave. A click on the close affordance (only present when the
// notice is closable) closes manually and stops propagation; any other
// click bubbles to Config.OnClick.
//
// Routing is the same whether the notice renders inline or into a mount
// target.
func (n *Notice) HandleEvent(ev *Event) {
	if ev == nil {
		return
	}

	switch ev.Type {
	case EventMouseEnter:
		n.PointerEnter()
	case EventMouseLeave:
		n.PointerLeave()
	case EventClick:
		cfg := n.Config()
		if ev.Part == PartClose && cfg.Closable {
			n.Close(ev)
		}
		if ev.PropagationStopped() || cfg.OnClick == nil {
			return
		}
		cfg.OnClick(ev)
	}
}
