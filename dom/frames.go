package dom

import "time"

// FrameCallback receives the document time at which the frame runs.
type FrameCallback func(now time.Duration)

type frameRequest struct {
	id       int
	callback FrameCallback
}

// RequestAnimationFrame queues callback for the next animation frame and
// returns a handle for CancelAnimationFrame.
func (d *Document) RequestAnimationFrame(callback FrameCallback) int {
	dd := d.documentData
	dd.nextFrame++
	dd.frames = append(dd.frames, frameRequest{id: dd.nextFrame, callback: callback})
	return dd.nextFrame
}

// CancelAnimationFrame removes a queued frame callback.
func (d *Document) CancelAnimationFrame(id int) {
	dd := d.documentData
	for i, f := range dd.frames {
		if f.id == id {
			dd.frames = append(dd.frames[:i], dd.frames[i+1:]...)
			return
		}
	}
}

// HasPendingFrames returns true if frame callbacks are queued.
func (d *Document) HasPendingFrames() bool {
	return len(d.documentData.frames) > 0
}

// RunAnimationFrame runs the callbacks queued so far and returns how many
// ran. Callbacks queued while the frame runs wait for the next frame.
func (d *Document) RunAnimationFrame() int {
	dd := d.documentData
	frames := dd.frames
	dd.frames = nil
	now := d.Now()
	for _, f := range frames {
		f.callback(now)
	}
	return len(frames)
}
