/*
Package domutil adds a fluent builder layer on top of package dom.

An Elm wraps a *dom.Element and exposes chainable setters, one-shot event
subscription and element scoped CSS. The wrapper is stored on the element
itself (see dom.Node.SetUserData), so extending the same element twice
yields the same Elm, and the extension state lives exactly as long as the
element does.

	story := domutil.NewElm(doc, "div", nil).
		WithID(domutil.UniqueID()).
		WithClassName("story").
		WithCss("#x { color: red }")

Like package dom, nothing here is safe for concurrent use.
*/
package domutil

import "github.com/npillmayer/schuko/tracing"

// tracer traces to key 'videostory.domutil'.
func tracer() tracing.Trace {
	return tracing.Select("videostory.domutil")
}
