package dom

import "time"

// EventPhase represents the phase of event dispatch.
type EventPhase int

const (
	EventPhaseNone      EventPhase = 0
	EventPhaseCapturing EventPhase = 1
	EventPhaseAtTarget  EventPhase = 2
	EventPhaseBubbling  EventPhase = 3
)

// Event represents a DOM event.
type Event struct {
	Type             string
	Target           *Node
	CurrentTarget    *Node
	EventPhase       EventPhase
	Bubbles          bool
	Cancelable       bool
	DefaultPrevented bool
	TimeStamp        time.Time

	// Detail carries event specific data, like CustomEvent.detail.
	Detail any

	stopPropagation bool
	stopImmediate   bool
}

// EventInit holds the optional fields of a new event.
type EventInit struct {
	Bubbles    bool
	Cancelable bool
	Detail     any
}

// NewEvent creates an event of the given type.
func NewEvent(eventType string, init EventInit) *Event {
	return &Event{
		Type:       eventType,
		Bubbles:    init.Bubbles,
		Cancelable: init.Cancelable,
		Detail:     init.Detail,
		TimeStamp:  time.Now(),
	}
}

// PreventDefault marks a cancelable event as canceled.
func (ev *Event) PreventDefault() {
	if ev.Cancelable {
		ev.DefaultPrevented = true
	}
}

// StopPropagation stops dispatch to further nodes on the event path.
func (ev *Event) StopPropagation() {
	ev.stopPropagation = true
}

// StopImmediatePropagation also skips the remaining listeners of the
// current node.
func (ev *Event) StopImmediatePropagation() {
	ev.stopPropagation = true
	ev.stopImmediate = true
}

// EventHandler is called with the dispatched event.
type EventHandler func(*Event)

// ListenerID identifies a registered listener for removal.
type ListenerID int

// ListenerOptions mirrors the addEventListener options dictionary.
type ListenerOptions struct {
	Capture bool
	Once    bool
}

type eventListener struct {
	id      ListenerID
	handler EventHandler
	options ListenerOptions
	removed bool
}

// listenerRegistry manages event listeners for one node.
type listenerRegistry struct {
	listeners map[string][]*eventListener
	nextID    ListenerID
}

// AddEventListener registers handler for eventType and returns an id that
// RemoveEventListener accepts.
func (n *Node) AddEventListener(eventType string, handler EventHandler, opts ListenerOptions) ListenerID {
	if n.listeners == nil {
		n.listeners = &listenerRegistry{listeners: make(map[string][]*eventListener)}
	}
	reg := n.listeners
	reg.nextID++
	reg.listeners[eventType] = append(reg.listeners[eventType], &eventListener{
		id:      reg.nextID,
		handler: handler,
		options: opts,
	})
	return reg.nextID
}

// RemoveEventListener unregisters a listener. Removing a listener during
// dispatch prevents it from being called later in the same dispatch.
func (n *Node) RemoveEventListener(eventType string, id ListenerID) {
	if n.listeners == nil {
		return
	}
	listeners := n.listeners.listeners[eventType]
	for i, l := range listeners {
		if l.id == id {
			l.removed = true
			n.listeners.listeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for eventType.
func (n *Node) ListenerCount(eventType string) int {
	if n.listeners == nil {
		return 0
	}
	return len(n.listeners.listeners[eventType])
}

// DispatchEvent dispatches ev with n as target: capture listeners from the
// root down, then the target, then bubbling listeners back up if the event
// bubbles. It returns false if the event was canceled.
func (n *Node) DispatchEvent(ev *Event) bool {
	ev.Target = n
	ev.stopPropagation = false
	ev.stopImmediate = false

	var path []*Node
	for p := n.parentNode; p != nil; p = p.parentNode {
		path = append(path, p)
	}

	ev.EventPhase = EventPhaseCapturing
	for i := len(path) - 1; i >= 0 && !ev.stopPropagation; i-- {
		path[i].invokeListeners(ev, true)
	}

	if !ev.stopPropagation {
		ev.EventPhase = EventPhaseAtTarget
		n.invokeListeners(ev, true)
		if !ev.stopPropagation {
			n.invokeListeners(ev, false)
		}
	}

	if ev.Bubbles {
		ev.EventPhase = EventPhaseBubbling
		for _, p := range path {
			if ev.stopPropagation {
				break
			}
			p.invokeListeners(ev, false)
		}
	}

	ev.EventPhase = EventPhaseNone
	ev.CurrentTarget = nil
	return !ev.DefaultPrevented
}

// invokeListeners calls the listeners registered with the given capture flag.
func (n *Node) invokeListeners(ev *Event, capture bool) {
	if n.listeners == nil {
		return
	}
	listeners := append([]*eventListener(nil), n.listeners.listeners[ev.Type]...)
	ev.CurrentTarget = n
	for _, l := range listeners {
		if l.removed || l.options.Capture != capture {
			continue
		}
		if l.options.Once {
			n.RemoveEventListener(ev.Type, l.id)
		}
		l.handler(ev)
		if ev.stopImmediate {
			return
		}
	}
}

// AddEventListener registers handler on the element.
func (e *Element) AddEventListener(eventType string, handler EventHandler, opts ListenerOptions) ListenerID {
	return e.AsNode().AddEventListener(eventType, handler, opts)
}

// RemoveEventListener unregisters a listener from the element.
func (e *Element) RemoveEventListener(eventType string, id ListenerID) {
	e.AsNode().RemoveEventListener(eventType, id)
}

// DispatchEvent dispatches ev with the element as target.
func (e *Element) DispatchEvent(ev *Event) bool {
	return e.AsNode().DispatchEvent(ev)
}

// Click dispatches a bubbling, cancelable click event at the element.
func (e *Element) Click() bool {
	return e.DispatchEvent(NewEvent("click", EventInit{Bubbles: true, Cancelable: true}))
}
