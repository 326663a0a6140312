/*
Package story mounts video story widgets into a page.

A widget is configured by a placeholder element and a map of named data
resources. Mounting swaps the placeholder for a container with a fresh id
right away, then loads the resources in the background. Once they arrive the
mounter's init step runs on the event loop with the loaded data.

	m := story.NewMounter(loader, loop)
	s, err := m.Mount(ctx, story.Config{
		Elm:              doc.GetElementById("story"),
		SpreadSheetPaths: map[string]string{"properties": "/props.json"},
	})
	...
	loop.Run(ctx)
	data, err := s.Wait(ctx)

Mount and Init must be called on the goroutine running the event loop, the
same goroutine that owns the document.
*/
package story

import "github.com/npillmayer/schuko/tracing"

// tracer traces to key 'videostory.story'.
func tracer() tracing.Trace {
	return tracing.Select("videostory.story")
}
