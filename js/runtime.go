// Package js runs page scripts with the goja JavaScript engine.
//
// A Runtime shares the page's eventloop.Loop: timers and promise
// continuations run as loop tasks, on the goroutine that owns the DOM.
// The Bridge exposes the story mounter to scripts as insertVideoStory.
package js

import (
	"fmt"
	"strings"
	"sync"

	"github.com/chrisuehlinger/videostory/eventloop"
	"github.com/dop251/goja"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to key 'videostory.js'.
func tracer() tracing.Trace {
	return tracing.Select("videostory.js")
}

// Runtime wraps a goja runtime with the globals page scripts expect.
type Runtime struct {
	vm      *goja.Runtime
	loop    *eventloop.Loop
	timers  *timerManager
	mu      sync.Mutex
	errors  []error
	onError func(error)
}

// NewRuntime creates a runtime whose asynchronous callbacks run on loop.
func NewRuntime(loop *eventloop.Loop) *Runtime {
	r := &Runtime{
		vm:     goja.New(),
		loop:   loop,
		timers: newTimerManager(),
	}
	r.setupConsole()
	r.setupTimers()
	r.setupWindow()
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Loop returns the event loop the runtime schedules on.
func (r *Runtime) Loop() *eventloop.Loop {
	return r.loop
}

// SetOnError sets a callback for JavaScript errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.recordError(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.recordError(err)
	}
	return result, err
}

// ExecuteScript compiles and runs code in sloppy mode. src names the script
// in error messages.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
			r.recordError(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.recordError(err)
		return err
	}
	if _, err = r.vm.RunProgram(program); err != nil {
		r.recordError(err)
	}
	return err
}

// call invokes fn on the loop goroutine, recording a thrown exception.
func (r *Runtime) call(fn goja.Callable, args ...goja.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := fn(goja.Undefined(), args...); err != nil {
		r.recordError(err)
	}
}

// recordError must be called with r.mu held.
func (r *Runtime) recordError(err error) {
	tracer().Errorf("script error: %v", err)
	r.errors = append(r.errors, err)
	if r.onError != nil {
		r.onError(err)
	}
}

// Errors returns all errors that occurred during execution.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = r.errors[:0]
}

// setupConsole routes console output to the tracer.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	logTo := func(logf func(string, ...interface{}), prefix string) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			logf("%s%s", prefix, formatArgs(call.Arguments))
			return goja.Undefined()
		}
	}
	console.Set("log", logTo(tracer().Infof, ""))
	console.Set("info", logTo(tracer().Infof, ""))
	console.Set("warn", logTo(tracer().Infof, "[WARN] "))
	console.Set("error", logTo(tracer().Errorf, ""))
	console.Set("debug", logTo(tracer().Debugf, ""))
	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg += ": " + formatArgs(call.Arguments[1:])
			}
			tracer().Errorf("%s", msg)
		}
		return goja.Undefined()
	})
	r.vm.Set("console", console)
}

// setupWindow makes window, self and globalThis the global object.
func (r *Runtime) setupWindow() {
	window := r.vm.GlobalObject()
	r.vm.Set("window", window)
	r.vm.Set("self", window)
	r.vm.Set("globalThis", window)
}

// formatArgs formats console arguments for output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value for output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
