// Package eventloop provides the single-threaded task loop that owns a
// page's DOM.
//
// All DOM mutation happens in tasks run by Loop. Blocking work (network
// fetches) runs on its own goroutine via Go and hands its result back by
// returning a continuation, which the loop runs as a task.
package eventloop

import (
	"context"
	"fmt"
	"sync"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to key 'videostory.eventloop'.
func tracer() tracing.Trace {
	return tracing.Select("videostory.eventloop")
}

// Task is a unit of work run on the loop goroutine.
type Task func()

// Loop manages microtasks and macrotasks. Post, QueueMicrotask and Go may
// be called from any goroutine; tasks only ever run on the goroutine
// calling Run or RunOnce.
type Loop struct {
	mu         sync.Mutex
	microtasks []Task
	macrotasks []Task
	inflight   int // Go calls whose continuation has not been posted yet
	wake       chan struct{}
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Post adds a macrotask to the queue.
func (l *Loop) Post(t Task) {
	if t == nil {
		return
	}
	l.mu.Lock()
	l.macrotasks = append(l.macrotasks, t)
	l.mu.Unlock()
	l.signal()
}

// QueueMicrotask adds a microtask to the queue.
// Microtasks are executed before the next macrotask.
func (l *Loop) QueueMicrotask(t Task) {
	if t == nil {
		return
	}
	l.mu.Lock()
	l.microtasks = append(l.microtasks, t)
	l.mu.Unlock()
	l.signal()
}

// Go runs work on a new goroutine. If work returns a non-nil task, it is
// posted to the loop. Run does not return as idle while work is running.
// A panic in work is reported by a task on the loop goroutine; work that
// must always complete recovers its own panics.
func (l *Loop) Go(work func() Task) {
	l.mu.Lock()
	l.inflight++
	l.mu.Unlock()

	go func() {
		var cont Task
		defer func() {
			if r := recover(); r != nil {
				cont = func() { tracer().Errorf("async work panicked: %v", r) }
			}
			l.mu.Lock()
			l.inflight--
			if cont != nil {
				l.macrotasks = append(l.macrotasks, cont)
			}
			l.mu.Unlock()
			l.signal()
		}()
		cont = work()
	}()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RunOnce processes one iteration of the event loop.
// It drains all microtasks, then executes one macrotask.
// Returns true if there are more tasks queued.
func (l *Loop) RunOnce() bool {
	for {
		l.mu.Lock()
		if len(l.microtasks) == 0 {
			l.mu.Unlock()
			break
		}
		t := l.microtasks[0]
		l.microtasks = l.microtasks[1:]
		l.mu.Unlock()

		l.run(t)
	}

	l.mu.Lock()
	if len(l.macrotasks) > 0 {
		t := l.macrotasks[0]
		l.macrotasks = l.macrotasks[1:]
		l.mu.Unlock()

		l.run(t)
		return l.HasPending()
	}
	l.mu.Unlock()
	return l.HasPending()
}

// run executes t, turning a panic into a traced error.
func (l *Loop) run(t Task) {
	defer func() {
		if r := recover(); r != nil {
			tracer().Errorf("task panicked: %v", r)
		}
	}()
	t()
}

// Run processes tasks until no task is queued and no async work started
// with Go is outstanding. If ctx is done first, the returned error wraps
// ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("event loop: %w", err)
		}
		if l.RunOnce() {
			continue
		}
		if !l.Busy() {
			return nil
		}
		select {
		case <-l.wake:
		case <-ctx.Done():
			return fmt.Errorf("event loop: %w", ctx.Err())
		}
	}
}

// HasPending returns true if there are any queued tasks.
func (l *Loop) HasPending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.microtasks) > 0 || len(l.macrotasks) > 0
}

// Busy returns true if tasks are queued or async work is outstanding.
func (l *Loop) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.microtasks) > 0 || len(l.macrotasks) > 0 || l.inflight > 0
}

// Clear removes all queued tasks. Outstanding async work still posts its
// continuation when done.
func (l *Loop) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.microtasks = l.microtasks[:0]
	l.macrotasks = l.macrotasks[:0]
}
