package js

import (
	"sync"
	"time"

	"github.com/chrisuehlinger/videostory/eventloop"
	"github.com/dop251/goja"
)

// timerManager tracks the cancel channels of pending setTimeout calls.
type timerManager struct {
	timers map[int]chan struct{}
	nextID int
	mu     sync.Mutex
}

func newTimerManager() *timerManager {
	return &timerManager{
		timers: make(map[int]chan struct{}),
		nextID: 1,
	}
}

func (tm *timerManager) add() (int, chan struct{}) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	id := tm.nextID
	tm.nextID++
	cancel := make(chan struct{})
	tm.timers[id] = cancel
	return id, cancel
}

// take removes the timer and reports whether it was still pending.
func (tm *timerManager) take(id int) (chan struct{}, bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	cancel, ok := tm.timers[id]
	delete(tm.timers, id)
	return cancel, ok
}

func (tm *timerManager) clearTimer(id int) {
	if cancel, ok := tm.take(id); ok {
		close(cancel)
	}
}

// setTimeout waits on its own goroutine and posts the callback to the loop.
// A cleared timer posts nothing.
func (r *Runtime) setTimeout(callback goja.Callable, delay time.Duration, args []goja.Value) int {
	id, cancel := r.timers.add()
	r.loop.Go(func() eventloop.Task {
		select {
		case <-time.After(delay):
		case <-cancel:
			return nil
		}
		return func() {
			if _, pending := r.timers.take(id); pending {
				r.call(callback, args...)
			}
		}
	})
	return id
}

// setupTimers creates setTimeout, clearTimeout and queueMicrotask.
func (r *Runtime) setupTimers() {
	r.vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		callback, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			return goja.Undefined()
		}
		delay := int64(0)
		if len(call.Arguments) > 1 {
			delay = call.Arguments[1].ToInteger()
		}
		if delay < 0 {
			delay = 0
		}
		var args []goja.Value
		if len(call.Arguments) > 2 {
			args = call.Arguments[2:]
		}
		id := r.setTimeout(callback, time.Duration(delay)*time.Millisecond, args)
		return r.vm.ToValue(id)
	})

	r.vm.Set("clearTimeout", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			r.timers.clearTimer(int(call.Arguments[0].ToInteger()))
		}
		return goja.Undefined()
	})

	r.vm.Set("queueMicrotask", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		if callback, ok := goja.AssertFunction(call.Arguments[0]); ok {
			r.loop.QueueMicrotask(func() { r.call(callback) })
		}
		return goja.Undefined()
	})
}
