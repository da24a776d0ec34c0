// Package avsync keeps a companion audio element locked to a silent video
// element. Drift is measured as audio time against video time minus a stored
// offset, smoothed with an exponential moving average, and corrected two
// ways: a hard seek for gross drift and a small proportional playback-rate
// nudge for residual drift. State is per (video, audio) pair and must be
// reset when either element changes.
package avsync

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/media"
)

const (
	// emaAlpha is the smoothing factor for the drift moving average.
	emaAlpha = 0.15
	// hardThreshold is the absolute drift in seconds beyond which the audio
	// clock is snapped rather than nudged.
	hardThreshold = 0.9
	// hardCooldown is the minimum spacing between hard seeks.
	hardCooldown = 1500 * time.Millisecond
	// minAudioAhead and minVideoAhead gate any action at all: with less
	// buffered than this, apparent drift is likely a stall, not clock skew.
	minAudioAhead = 0.15
	minVideoAhead = 0.10
	// hardAudioAhead and hardVideoAhead additionally gate hard seeks, which
	// land mid-buffer only when there is real runway.
	hardAudioAhead = 1.0
	hardVideoAhead = 0.5
	// softThreshold is the smoothed drift in seconds that triggers a rate
	// nudge.
	softThreshold = 0.08
	// maxAdjust bounds the rate nudge to ±1.2% of the nominal rate.
	maxAdjust = 0.012
	// adjustInterval is the minimum spacing between rate nudges.
	adjustInterval = 120 * time.Millisecond
	// kP is the proportional gain converting smoothed drift to a nudge.
	kP = 0.35
	// decayInterval is how long after the last nudge the rate is restored
	// to nominal once drift has settled.
	decayInterval = 400 * time.Millisecond
)

// State carries the drift tracking for one (video, audio) pair. The exported
// fields are diagnostics; the zero value is ready to use.
type State struct {
	DriftEMA float64

	LastDrift       float64
	LastDriftSmooth float64
	LastAheadAudio  float64
	LastAheadVideo  float64

	// DidHardSeek and DidSoftAdjust report what the most recent Step did.
	DidHardSeek   bool
	DidSoftAdjust bool

	RateAdjusted bool

	lastAdjust time.Time
	lastHard   time.Time
}

// Sync drives the drift correction for one (video, audio) pair.
type Sync interface {
	// Step measures drift at the given instant and applies at most one
	// correction. Call it on every video time update and once per frame
	// while both elements are playing.
	Step(now time.Time)
	// StepForced is Step with the hard-seek drift threshold dropped to
	// zero, used right after seeks where the pair is known to be apart.
	StepForced(now time.Time)
	// Reset clears the drift state. Required when either element of the
	// pair is replaced.
	Reset()
	// State returns a copy of the current drift diagnostics.
	State() State
}

var _ Sync = &syncImpl{}

type syncImpl struct {
	video    media.Element
	audio    media.Element
	settings media.Settings
	state    State
	logger   *zap.Logger
}

// SyncOption configures a Sync at construction.
type SyncOption func(*syncImpl)

// WithLogger attaches a logger for correction events.
func WithLogger(logger *zap.Logger) SyncOption {
	return func(s *syncImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSync creates the drift corrector for one (video, audio) pair.
//
// Parameters:
//   - video: the picture element, the reference clock
//   - audio: the companion audio element, the corrected clock
//   - settings: playback preferences (sync offset, stored rate, audio
//     opt-in)
//   - opts: optional configuration
//
// Returns:
//   - Sync: the corrector, with zeroed drift state
func NewSync(video, audio media.Element, settings media.Settings, opts ...SyncOption) Sync {
	s := &syncImpl{
		video:    video,
		audio:    audio,
		settings: settings,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *syncImpl) Step(now time.Time)       { s.step(now, false) }
func (s *syncImpl) StepForced(now time.Time) { s.step(now, true) }

func (s *syncImpl) Reset() {
	s.state = State{}
}

func (s *syncImpl) State() State {
	return s.state
}

func (s *syncImpl) step(now time.Time, force bool) {
	if s.video == nil || s.audio == nil {
		return
	}
	if s.settings != nil && !s.settings.AudioAllowed() {
		return
	}
	if s.video.Paused() || s.audio.Paused() {
		return
	}
	if s.video.Seeking() || s.audio.Seeking() {
		return
	}
	videoTime := s.video.CurrentTime()
	if math.IsNaN(videoTime) || math.IsInf(videoTime, 0) {
		return
	}
	if s.audio.ReadyState() < media.ReadyCurrentData {
		return
	}

	var syncSec float64
	if s.settings != nil {
		syncSec = float64(s.settings.SyncOffsetMS()) / 1000
	}
	target := videoTime - syncSec
	if target < 0 {
		target = 0
	}

	drift := s.audio.CurrentTime() - target
	absDrift := math.Abs(drift)

	s.state.DidHardSeek = false
	s.state.DidSoftAdjust = false

	audioAhead := s.audio.BufferedAhead()
	videoAhead := s.video.BufferedAhead()
	s.state.LastAheadAudio = audioAhead
	s.state.LastAheadVideo = videoAhead
	if audioAhead < minAudioAhead || videoAhead < minVideoAhead {
		return
	}

	prev := s.state.DriftEMA
	if math.IsNaN(prev) || math.IsInf(prev, 0) {
		prev = 0
	}
	s.state.DriftEMA = prev*(1-emaAlpha) + drift*emaAlpha
	driftSmooth := s.state.DriftEMA
	s.state.LastDrift = drift
	s.state.LastDriftSmooth = driftSmooth

	threshold := hardThreshold
	if force {
		threshold = 0
	}
	canHardSeek := absDrift > threshold &&
		audioAhead >= hardAudioAhead && videoAhead >= hardVideoAhead &&
		now.Sub(s.state.lastHard) > hardCooldown

	if canHardSeek {
		s.audio.SetCurrentTime(target)
		s.state.DriftEMA = 0
		media.ApplyAudioPlaybackSettings(s.audio, s.settings)
		s.state.lastHard = now
		s.state.RateAdjusted = false
		s.state.DidHardSeek = true
		s.logger.Debug("audio hard seek",
			zap.Float64("drift", drift),
			zap.Float64("target", target))
		return
	}

	if math.Abs(driftSmooth) > softThreshold && now.Sub(s.state.lastAdjust) > adjustInterval {
		baseRate := s.video.PlaybackRate()
		if baseRate == 0 || math.IsNaN(baseRate) {
			baseRate = 1
		}
		adjust := math.Max(-maxAdjust, math.Min(maxAdjust, -driftSmooth*kP))
		s.audio.SetPlaybackRate(baseRate * (1 + adjust))
		if s.settings != nil {
			s.audio.SetPreservesPitch(s.settings.PreservePitch())
		}
		s.state.lastAdjust = now
		s.state.RateAdjusted = true
		s.state.DidSoftAdjust = true
		return
	}

	if s.state.RateAdjusted && now.Sub(s.state.lastAdjust) > decayInterval {
		media.ApplyAudioPlaybackSettings(s.audio, s.settings)
		s.state.RateAdjusted = false
	}
}
