package domutil

import (
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chrisuehlinger/videostory/dom"
)

var (
	idEpoch = time.Now()
	idSeed  atomic.Uint64
)

// UniqueID returns an id made of the microseconds since process start and
// a process-wide counter, e.g. "id1532_7". Values never repeat within a
// process, even for calls in the same microsecond.
func UniqueID() string {
	micros := time.Since(idEpoch).Microseconds()
	seq := idSeed.Add(1) - 1
	return "id" + strconv.FormatInt(micros, 10) + "_" + strconv.FormatUint(seq, 10)
}

// Transition animates property of el from one value to another. It sets
// from and a "transition: <property> <duration>" inline style at once and
// applies to on the next animation frame. On the first transitionend the
// previous transition value is restored and callback is called.
func Transition(el *dom.Element, property, from, to, duration string, callback func()) {
	if el == nil {
		return
	}
	jsProperty := CSSPropNameToJSPropName(property)
	style := el.Style()
	before := style.Get("transition")

	style.Set(jsProperty, from)
	style.Set("transition", property+" "+duration)

	var id dom.ListenerID
	id = el.AddEventListener("transitionend", func(*dom.Event) {
		el.RemoveEventListener("transitionend", id)
		style.Set("transition", before)
		if callback != nil {
			callback()
		}
	}, dom.ListenerOptions{})

	doc := el.OwnerDocument()
	if doc == nil {
		style.Set(jsProperty, to)
		return
	}
	doc.RequestAnimationFrame(func(time.Duration) {
		el.Style().Set(jsProperty, to)
	})
}

// ViewportOffset returns the position of el relative to the viewport: the
// sum of offsets up the offset-parent chain to <body>, minus the scroll
// position of <body>.
func ViewportOffset(el *dom.Element) (left, top float64) {
	if el == nil {
		return 0, 0
	}
	var body *dom.Element
	if doc := el.OwnerDocument(); doc != nil {
		body = doc.Body()
	}
	cur := el
	for {
		top += cur.OffsetTop()
		left += cur.OffsetLeft()
		parent := cur.OffsetParent()
		if parent == nil || parent == body {
			break
		}
		cur = parent
	}
	for p := cur; p != nil; p = p.OffsetParent() {
		if p.LocalName() == "body" {
			top -= p.ScrollTop()
			left -= p.ScrollLeft()
		}
	}
	return left, top
}

// ReplaceAll replaces every literal occurrence of old in value with repl,
// optionally ignoring case.
func ReplaceAll(value, old, repl string, ignoreCase bool) string {
	if !ignoreCase {
		return strings.ReplaceAll(value, old, repl)
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(old))
	return re.ReplaceAllLiteralString(value, repl)
}
