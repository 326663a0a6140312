// Package dom provides a small HTML document model: nodes, elements,
// attributes, inline styles, events and animation frames.
//
// The model follows the shape of the DOM Living Standard
// (https://dom.spec.whatwg.org/) closely enough for page scripts and the
// widget loader to work against it, without layout or rendering.
//
// Types in this package are not safe for concurrent use. All mutation is
// expected to happen on the goroutine that runs the page's event loop.
package dom

import "github.com/npillmayer/schuko/tracing"

// tracer traces to key 'videostory.dom'.
func tracer() tracing.Trace {
	return tracing.Select("videostory.dom")
}
