// Package media abstracts playable media elements: things with a clock, a
// playback rate, volume, and optionally decodable frames. The arcade's sync
// engine, controls UI and scene controller all speak this interface rather
// than any concrete decoder, which keeps them testable against a fake clock.
package media

import "image"

// Ready states, lowest to highest. An element below ReadyCurrentData has no
// decodable data at the playhead and must not be hard-seeked.
const (
	ReadyNothing     = 0
	ReadyMetadata    = 1
	ReadyCurrentData = 2
	ReadyFutureData  = 3
	ReadyEnoughData  = 4
)

// EventKind identifies a playback state change reported to subscribers.
type EventKind int

const (
	EventPlay EventKind = iota
	EventPause
	EventSeeked
	EventEnded
	EventRateChange
)

// Element is a playable media element. Implementations guard their own
// boundaries: setters clamp or ignore invalid values instead of failing, so
// callers never need to wrap calls defensively.
type Element interface {
	// Play starts or resumes playback. No-op when already playing or ended.
	Play()
	// Pause halts playback, keeping the current position.
	Pause()

	// CurrentTime returns the playhead position in seconds.
	CurrentTime() float64
	// SetCurrentTime seeks to t seconds, clamped to [0, Duration].
	SetCurrentTime(t float64)
	// Duration returns the total length in seconds. May be +Inf or NaN for
	// streams whose length is unknown.
	Duration() float64

	// PlaybackRate returns the current rate multiplier (1 = nominal).
	PlaybackRate() float64
	// SetPlaybackRate sets the rate multiplier. Non-positive values are
	// ignored.
	SetPlaybackRate(rate float64)
	// SetPreservesPitch toggles pitch correction while rate-shifted.
	SetPreservesPitch(preserve bool)

	// Volume returns the volume in [0, 1].
	Volume() float64
	// SetVolume sets the volume, clamped to [0, 1].
	SetVolume(v float64)
	// Muted reports whether output is muted independent of volume.
	Muted() bool
	// SetMuted toggles the mute flag.
	SetMuted(m bool)

	// Paused reports whether playback is halted.
	Paused() bool
	// Ended reports whether the playhead reached the end.
	Ended() bool
	// Seeking reports whether a seek is still settling.
	Seeking() bool
	// ReadyState returns the Ready* level of decodable data.
	ReadyState() int
	// BufferedAhead returns the seconds of buffered data past the playhead.
	BufferedAhead() float64

	// NativeSize returns the intrinsic frame dimensions, or (0, 0) when the
	// element carries no picture (audio-only).
	NativeSize() (w, h int)
	// Frame returns the current decoded frame, or nil when none is
	// available. The image must not be mutated by the caller.
	Frame() *image.RGBA

	// Subscribe registers a callback invoked on playback state changes.
	// Callbacks run on the goroutine driving the element.
	Subscribe(fn func(EventKind))
}
