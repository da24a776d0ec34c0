package media

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestClipAdvancesWhilePlaying(t *testing.T) {
	clock := newFakeClock()
	c := NewClip(WithClock(clock.Now), WithDuration(60))

	assert.True(t, c.Paused())
	assert.Zero(t, c.CurrentTime())

	c.Play()
	clock.Advance(2 * time.Second)
	assert.InDelta(t, 2.0, c.CurrentTime(), 1e-9)

	c.Pause()
	clock.Advance(5 * time.Second)
	assert.InDelta(t, 2.0, c.CurrentTime(), 1e-9)
}

func TestClipRateScalesClock(t *testing.T) {
	clock := newFakeClock()
	c := NewClip(WithClock(clock.Now), WithDuration(60))
	c.Play()
	c.SetPlaybackRate(2)
	clock.Advance(3 * time.Second)
	assert.InDelta(t, 6.0, c.CurrentTime(), 1e-9)

	// Rate change mid-flight rebases instead of rewriting history.
	c.SetPlaybackRate(0.5)
	clock.Advance(2 * time.Second)
	assert.InDelta(t, 7.0, c.CurrentTime(), 1e-9)
}

func TestClipRejectsInvalidRates(t *testing.T) {
	c := NewClip()
	c.SetPlaybackRate(0)
	assert.Equal(t, 1.0, c.PlaybackRate())
	c.SetPlaybackRate(-1)
	assert.Equal(t, 1.0, c.PlaybackRate())
	c.SetPlaybackRate(math.NaN())
	assert.Equal(t, 1.0, c.PlaybackRate())
}

func TestClipSeekClamps(t *testing.T) {
	c := NewClip(WithDuration(10))
	c.SetCurrentTime(-5)
	assert.Zero(t, c.CurrentTime())
	c.SetCurrentTime(99)
	assert.Equal(t, 10.0, c.CurrentTime())
	c.SetCurrentTime(4.5)
	assert.Equal(t, 4.5, c.CurrentTime())
}

func TestClipEndsAtDuration(t *testing.T) {
	clock := newFakeClock()
	c := NewClip(WithClock(clock.Now), WithDuration(5))
	c.Play()
	clock.Advance(10 * time.Second)

	assert.True(t, c.Ended())
	assert.True(t, c.Paused())
	assert.Equal(t, 5.0, c.CurrentTime())

	// Replay restarts from the top.
	c.Play()
	assert.False(t, c.Ended())
	clock.Advance(1 * time.Second)
	assert.InDelta(t, 1.0, c.CurrentTime(), 1e-9)
}

func TestClipVolumeClamps(t *testing.T) {
	c := NewClip()
	c.SetVolume(1.5)
	assert.Equal(t, 1.0, c.Volume())
	c.SetVolume(-0.5)
	assert.Equal(t, 0.0, c.Volume())
}

func TestClipBufferedAhead(t *testing.T) {
	clock := newFakeClock()
	c := NewClip(WithClock(clock.Now), WithDuration(30))
	c.Play()
	clock.Advance(10 * time.Second)
	assert.InDelta(t, 20.0, c.BufferedAhead(), 1e-9)

	limited := NewClip(WithBufferFunc(func(t float64) float64 { return 0.05 }))
	assert.Equal(t, 0.05, limited.BufferedAhead())
}

func TestClipEvents(t *testing.T) {
	clock := newFakeClock()
	c := NewClip(WithClock(clock.Now), WithDuration(60))

	var events []EventKind
	c.Subscribe(func(k EventKind) { events = append(events, k) })

	c.Play()
	c.Pause()
	c.SetCurrentTime(3)
	c.SetPlaybackRate(1.5)
	require.Len(t, events, 4)
	assert.Equal(t, []EventKind{EventPlay, EventPause, EventSeeked, EventRateChange}, events)
}

func TestSettingsDefaultsAndClamping(t *testing.T) {
	s := NewSettings()
	assert.True(t, s.AudioAllowed())
	assert.Equal(t, 1.0, DefaultRates[s.RateIndex()])

	s.SetRateIndex(99)
	assert.Equal(t, len(DefaultRates)-1, s.RateIndex())
	s.SetRateIndex(-2)
	assert.Equal(t, 0, s.RateIndex())

	s.SetVolume(2)
	assert.Equal(t, 1.0, s.Volume())
}

func TestApplyAudioPlaybackSettingsMutesWhenDisallowed(t *testing.T) {
	s := NewSettings(WithAudioAllowed(false), WithVolume(0.7))
	s.SetRateIndex(4)

	audio := NewClip()
	ApplyAudioPlaybackSettings(audio, s)
	assert.Equal(t, DefaultRates[4], audio.PlaybackRate())
	assert.Equal(t, 0.7, audio.Volume())
	assert.True(t, audio.Muted())
}
