package domutil

import "github.com/chrisuehlinger/videostory/dom"

// AddOneShotCapabilities marks el as able to take one-shot subscriptions
// and returns its wrapper. Calling it again changes nothing.
func AddOneShotCapabilities(el *dom.Element) *Elm {
	if el == nil {
		return nil
	}
	e := stateOf(el)
	e.oneShot = true
	return e
}

// OneShot subscribes to the next event named eventType. When it fires, the
// listener removes itself, calls handler (if non-nil) and then delivers the
// event on the returned channel, which is closed afterwards. The
// subscription stays armed until the event fires; it cannot be canceled.
func (e *Elm) OneShot(eventType string, handler dom.EventHandler, useCapture bool) <-chan *dom.Event {
	ch := make(chan *dom.Event, 1)
	var (
		id    dom.ListenerID
		fired bool
	)
	id = e.el.AddEventListener(eventType, func(ev *dom.Event) {
		if fired {
			return
		}
		fired = true
		e.el.RemoveEventListener(eventType, id)
		if handler != nil {
			handler(ev)
		}
		ch <- ev
		close(ch)
	}, dom.ListenerOptions{Capture: useCapture})
	return ch
}

// IsOneShotCapable reports whether AddOneShotCapabilities (or Extend) has
// been called on el.
func IsOneShotCapable(el *dom.Element) bool {
	e := lookup(el)
	return e != nil && e.oneShot
}
