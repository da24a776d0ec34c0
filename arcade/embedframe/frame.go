// Package embedframe models embedded game content: a sandboxed frame, the
// rendering canvases inside it, and the synthetic input events forwarded to
// them. Discovery of the game's canvas is retried on a throttled cadence
// because games create, resize and replace their canvases at their own pace.
package embedframe

import (
	"image"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/audiobridge"
)

// Canvas is a rendering surface inside an embedded frame.
type Canvas interface {
	// ID returns the canvas element id, or "".
	ID() string
	// Size returns the canvas pixel dimensions.
	Size() (w, h int)
	// Connected reports whether the canvas is still part of its document.
	Connected() bool
	// Focusable reports whether the canvas accepts keyboard focus.
	Focusable() bool
	// Focus moves keyboard focus to the canvas.
	Focus()
	// Frame returns the current pixel contents for blitting, or nil when
	// the canvas cannot be read (tainted or not yet painted).
	Frame() *image.RGBA
	// DispatchEvent delivers a synthetic input event to the canvas.
	DispatchEvent(ev Event)
}

// Frame is an embedded content frame.
type Frame interface {
	// URL returns the frame's content address, used as the cache key for
	// last-known-good canvases.
	URL() string
	// SameOrigin reports whether the frame's internals are reachable. A
	// cross-origin frame exposes nothing: no canvases, no audio.
	SameOrigin() bool
	// Canvases lists the frame's canvases in document order. Empty for
	// cross-origin frames.
	Canvases() []Canvas
	// AudioInterface returns the game's exported audio hooks, or nil.
	AudioInterface() audiobridge.AudioInterface
	// Focus moves keyboard focus into the frame.
	Focus()
	// DispatchEvent delivers a synthetic input event at the frame's
	// document level, for games listening above their canvas.
	DispatchEvent(ev Event)
}
