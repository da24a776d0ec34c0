package media

import "sync"

// DefaultRates are the selectable playback rate steps.
var DefaultRates = []float64{0.5, 0.75, 1, 1.25, 1.5, 2}

// NominalRateIndex is the index of 1x in DefaultRates.
const NominalRateIndex = 2

// Settings is the site-wide playback preference store shared by every
// session: whether audio is allowed at all, the stored A/V sync offset, and
// the UI state (volume, mute, rate index, pitch preservation) that gets
// re-applied to elements after hard seeks.
type Settings interface {
	// AudioAllowed reports whether the user has enabled sound for the site.
	AudioAllowed() bool
	// SetAudioAllowed records the user's sound opt-in.
	SetAudioAllowed(allowed bool)

	// SyncOffsetMS returns the stored audio lead in milliseconds, applied as
	// a constant bias when comparing audio and video clocks.
	SyncOffsetMS() int
	// SetSyncOffsetMS stores the audio lead.
	SetSyncOffsetMS(ms int)

	// Volume returns the preferred volume in [0, 1].
	Volume() float64
	// SetVolume stores the preferred volume, clamped to [0, 1].
	SetVolume(v float64)

	// Muted reports the preferred mute state.
	Muted() bool
	// SetMuted stores the preferred mute state.
	SetMuted(m bool)

	// PreservePitch reports whether rate-shifted audio keeps its pitch.
	PreservePitch() bool
	// SetPreservePitch stores the pitch preference.
	SetPreservePitch(p bool)

	// RateIndex returns the selected index into DefaultRates.
	RateIndex() int
	// SetRateIndex stores the selected rate index, clamped to the valid
	// range.
	SetRateIndex(i int)
}

var _ Settings = &settings{}

type settings struct {
	mu *sync.Mutex

	audioAllowed  bool
	syncOffsetMS  int
	volume        float64
	muted         bool
	preservePitch bool
	rateIndex     int
}

// SettingsOption configures the settings store at construction.
type SettingsOption func(*settings)

// WithAudioAllowed sets the initial sound opt-in.
func WithAudioAllowed(allowed bool) SettingsOption {
	return func(s *settings) {
		s.audioAllowed = allowed
	}
}

// WithSyncOffsetMS sets the initial stored audio lead.
func WithSyncOffsetMS(ms int) SettingsOption {
	return func(s *settings) {
		s.syncOffsetMS = ms
	}
}

// WithVolume sets the initial preferred volume.
func WithVolume(v float64) SettingsOption {
	return func(s *settings) {
		s.volume = clamp01(v)
	}
}

// NewSettings creates a settings store. Defaults: audio allowed, no sync
// offset, full volume, unmuted, pitch preserved, nominal rate.
func NewSettings(opts ...SettingsOption) Settings {
	s := &settings{
		mu:            &sync.Mutex{},
		audioAllowed:  true,
		volume:        1,
		preservePitch: true,
		rateIndex:     NominalRateIndex,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *settings) AudioAllowed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audioAllowed
}

func (s *settings) SetAudioAllowed(allowed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioAllowed = allowed
}

func (s *settings) SyncOffsetMS() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncOffsetMS
}

func (s *settings) SetSyncOffsetMS(ms int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncOffsetMS = ms
}

func (s *settings) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *settings) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = clamp01(v)
}

func (s *settings) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

func (s *settings) SetMuted(m bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = m
}

func (s *settings) PreservePitch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preservePitch
}

func (s *settings) SetPreservePitch(p bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preservePitch = p
}

func (s *settings) RateIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rateIndex
}

func (s *settings) SetRateIndex(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 {
		i = 0
	}
	if i >= len(DefaultRates) {
		i = len(DefaultRates) - 1
	}
	s.rateIndex = i
}

func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ApplyPlaybackSettings pushes the stored rate onto a media element.
func ApplyPlaybackSettings(el Element, s Settings) {
	if el == nil || s == nil {
		return
	}
	el.SetPlaybackRate(DefaultRates[s.RateIndex()])
	el.SetPreservesPitch(s.PreservePitch())
}

// ApplyAudioPlaybackSettings pushes the stored rate, volume and mute state
// onto a companion audio element.
func ApplyAudioPlaybackSettings(el Element, s Settings) {
	if el == nil || s == nil {
		return
	}
	ApplyPlaybackSettings(el, s)
	el.SetVolume(s.Volume())
	el.SetMuted(s.Muted() || !s.AudioAllowed())
}
