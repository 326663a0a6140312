package js

import (
	"context"
	"testing"
	"time"

	"github.com/chrisuehlinger/videostory/eventloop"
)

func runLoop(t *testing.T, loop *eventloop.Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Run(ctx); err != nil {
		t.Fatalf("loop.Run failed: %v", err)
	}
}

func TestRuntimeBasic(t *testing.T) {
	r := NewRuntime(eventloop.New())

	result, err := r.Execute("1 + 2")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ToInteger() != 3 {
		t.Errorf("Expected 3, got %v", result.ToInteger())
	}
}

func TestRuntimeVariables(t *testing.T) {
	r := NewRuntime(eventloop.New())

	if _, err := r.Execute("var x = 42;"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	result, err := r.Execute("window.x")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ToInteger() != 42 {
		t.Errorf("Expected 42, got %v", result.ToInteger())
	}
}

func TestRuntimeConsole(t *testing.T) {
	r := NewRuntime(eventloop.New())

	_, err := r.Execute(`
		console.log("test message", 1, null, undefined);
		console.warn("warning");
		console.error("error");
		console.info("info");
		console.debug("debug");
		console.assert(false, "message");
	`)
	if err != nil {
		t.Fatalf("console methods failed: %v", err)
	}
}

func TestRuntimeErrors(t *testing.T) {
	r := NewRuntime(eventloop.New())
	var reported []error
	r.SetOnError(func(err error) { reported = append(reported, err) })

	if err := r.ExecuteScript("throw new Error('boom')", "bad.js"); err == nil {
		t.Fatal("expected error from throwing script")
	}
	if err := r.ExecuteScript("var = ;", "syntax.js"); err == nil {
		t.Fatal("expected syntax error")
	}
	if len(r.Errors()) != 2 || len(reported) != 2 {
		t.Errorf("expected 2 recorded errors, got %d / %d", len(r.Errors()), len(reported))
	}
	r.ClearErrors()
	if len(r.Errors()) != 0 {
		t.Errorf("expected no errors after ClearErrors")
	}
}

func TestSetTimeout(t *testing.T) {
	loop := eventloop.New()
	r := NewRuntime(loop)

	_, err := r.Execute(`
		var order = [];
		setTimeout(function (tag) { order.push(tag); }, 20, "late");
		setTimeout(function () { order.push("early"); }, 0);
		var cancelled = setTimeout(function () { order.push("cancelled"); }, 0);
		clearTimeout(cancelled);
		queueMicrotask(function () { order.push("micro"); });
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	runLoop(t, loop)

	result, _ := r.Execute("order.join(',')")
	if result.String() != "micro,early,late" {
		t.Errorf("order = %q, want %q", result.String(), "micro,early,late")
	}
}

func TestTimerErrorsAreRecorded(t *testing.T) {
	loop := eventloop.New()
	r := NewRuntime(loop)

	if _, err := r.Execute(`setTimeout(function () { throw new Error("late failure"); }, 0);`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	runLoop(t, loop)
	if len(r.Errors()) != 1 {
		t.Errorf("expected the timer error to be recorded, got %v", r.Errors())
	}
}
