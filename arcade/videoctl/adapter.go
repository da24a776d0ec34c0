// Package videoctl provides the generic playback facade and the on-surface
// controls UI shared by every content mode. The adapter flattens the active
// video/audio pair into a plain state snapshot and routes actions back to
// the owning controller; the UI draws back/play/mute/progress chrome onto
// the screen surface and hit-tests pointer events against the exact layout
// it last drew.
package videoctl

import (
	"math"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/media"
)

// State is a snapshot of the active playback session.
type State struct {
	Playing      bool
	Muted        bool
	Volume       float64
	CurrentTime  float64
	Duration     float64
	PlaybackRate float64
	CanPlay      bool
	CanSeek      bool
}

// ActionType enumerates the playback actions the controls can emit.
type ActionType string

const (
	ActionPlay        ActionType = "play"
	ActionPause       ActionType = "pause"
	ActionTogglePlay  ActionType = "togglePlay"
	ActionSeekToRatio ActionType = "seekToRatio"
	ActionSetRate     ActionType = "setRate"
	ActionSetVolume   ActionType = "setVolume"
	ActionToggleMute  ActionType = "toggleMute"
	ActionExit        ActionType = "exit"
)

// Action is a playback command. Only the field matching the type is read.
type Action struct {
	Type   ActionType
	Ratio  float64
	Rate   float64
	Volume float64
}

// Adapter exposes playback state and action dispatch for the active session.
type Adapter interface {
	// State returns the current playback snapshot. With no active video it
	// returns an inert state (nothing playable, nothing seekable).
	State() State
	// Active reports whether a video session is live and in video mode.
	Active() bool
	// Dispatch executes one action against the active session. Unknown
	// types and actions with no target are ignored.
	Dispatch(action Action)
}

var _ Adapter = &adapter{}

type adapter struct {
	video      func() media.Element
	audio      func() media.Element
	videoMode  func() bool
	setVolume  func(vol float64)
	toggleMute func()
	setRate    func(rate float64)
	exit       func()
}

// AdapterOption configures an Adapter at construction.
type AdapterOption func(*adapter)

// WithVideoProvider supplies the active video element lookup.
func WithVideoProvider(fn func() media.Element) AdapterOption {
	return func(a *adapter) {
		a.video = fn
	}
}

// WithAudioProvider supplies the companion audio element lookup.
func WithAudioProvider(fn func() media.Element) AdapterOption {
	return func(a *adapter) {
		a.audio = fn
	}
}

// WithVideoModeCheck supplies the predicate reporting whether the owning
// controller is currently in video mode.
func WithVideoModeCheck(fn func() bool) AdapterOption {
	return func(a *adapter) {
		a.videoMode = fn
	}
}

// WithVolumeHook routes setVolume actions to the controller instead of the
// raw audio element.
func WithVolumeHook(fn func(vol float64)) AdapterOption {
	return func(a *adapter) {
		a.setVolume = fn
	}
}

// WithMuteHook routes toggleMute actions to the controller.
func WithMuteHook(fn func()) AdapterOption {
	return func(a *adapter) {
		a.toggleMute = fn
	}
}

// WithRateHook routes setRate actions to the controller.
func WithRateHook(fn func(rate float64)) AdapterOption {
	return func(a *adapter) {
		a.setRate = fn
	}
}

// WithExitHook supplies the exit action handler.
func WithExitHook(fn func()) AdapterOption {
	return func(a *adapter) {
		a.exit = fn
	}
}

// NewAdapter creates a playback adapter. All hooks are optional; missing
// providers yield the inert state and ignored actions.
func NewAdapter(opts ...AdapterOption) Adapter {
	a := &adapter{
		video:     func() media.Element { return nil },
		audio:     func() media.Element { return nil },
		videoMode: func() bool { return false },
		exit:      func() {},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *adapter) State() State {
	video := a.video()
	audio := a.audio()
	if video == nil {
		out := State{Muted: true, PlaybackRate: 1}
		if audio != nil {
			out.Muted = audio.Muted()
			out.Volume = audio.Volume()
		}
		return out
	}

	duration := video.Duration()
	canSeek := !math.IsNaN(duration) && !math.IsInf(duration, 0) && duration > 0
	if !canSeek {
		duration = 0
	}

	out := State{
		Playing:      !video.Paused() && !video.Ended(),
		Muted:        video.Muted(),
		Volume:       video.Volume(),
		CurrentTime:  video.CurrentTime(),
		Duration:     duration,
		PlaybackRate: video.PlaybackRate(),
		CanPlay:      a.videoMode(),
		CanSeek:      canSeek,
	}
	if audio != nil {
		out.Muted = audio.Muted()
		out.Volume = audio.Volume()
	}
	if out.PlaybackRate == 0 {
		out.PlaybackRate = 1
	}
	return out
}

func (a *adapter) Active() bool {
	return a.video() != nil && a.videoMode()
}

func (a *adapter) Dispatch(action Action) {
	video := a.video()
	audio := a.audio()
	switch action.Type {
	case ActionPlay:
		if video != nil {
			video.Play()
		}
	case ActionPause:
		if video != nil {
			video.Pause()
		}
	case ActionTogglePlay:
		if video == nil {
			return
		}
		if video.Paused() {
			video.Play()
		} else {
			video.Pause()
		}
	case ActionSeekToRatio:
		if video == nil {
			return
		}
		duration := video.Duration()
		if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
			return
		}
		ratio := math.Max(0, math.Min(1, action.Ratio))
		video.SetCurrentTime(ratio * duration)
	case ActionSetRate:
		if a.setRate != nil {
			a.setRate(action.Rate)
		} else if video != nil && !math.IsNaN(action.Rate) {
			video.SetPlaybackRate(action.Rate)
		}
	case ActionSetVolume:
		if a.setVolume != nil {
			a.setVolume(action.Volume)
		} else if audio != nil && !math.IsNaN(action.Volume) {
			vol := math.Max(0, math.Min(1, action.Volume))
			audio.SetVolume(vol)
			if vol > 0.001 {
				audio.SetMuted(false)
			}
		}
	case ActionToggleMute:
		if a.toggleMute != nil {
			a.toggleMute()
		} else if audio != nil {
			audio.SetMuted(!audio.Muted())
		}
	case ActionExit:
		a.exit()
	}
}
