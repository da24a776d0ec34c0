package avsync

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/media"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(5000, 0)}
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

// pair builds a playing video/audio pair with the video at videoT and the
// audio at audioT, both fully buffered.
func pair(clock *fakeClock, videoT, audioT float64) (media.Element, media.Element) {
	video := media.NewClip(media.WithClock(clock.Now), media.WithDuration(600))
	audio := media.NewClip(media.WithClock(clock.Now), media.WithDuration(600))
	video.SetCurrentTime(videoT)
	audio.SetCurrentTime(audioT)
	video.Play()
	audio.Play()
	return video, audio
}

func TestHardCorrectionOnGrossDrift(t *testing.T) {
	clock := newFakeClock()
	video, audio := pair(clock, 10.0, 9.0)
	s := NewSync(video, audio, media.NewSettings())

	s.Step(clock.Now())

	st := s.State()
	assert.True(t, st.DidHardSeek)
	assert.False(t, st.DidSoftAdjust)
	assert.Zero(t, st.DriftEMA)
	assert.InDelta(t, 10.0, audio.CurrentTime(), 0.001)
}

func TestHardCorrectionRespectsCooldown(t *testing.T) {
	clock := newFakeClock()
	video, audio := pair(clock, 10.0, 9.0)
	s := NewSync(video, audio, media.NewSettings())

	s.Step(clock.Now())
	require.True(t, s.State().DidHardSeek)

	// Knock the audio out again within the cooldown window.
	audio.SetCurrentTime(audio.CurrentTime() - 2)
	clock.Advance(500 * time.Millisecond)
	s.Step(clock.Now())
	assert.False(t, s.State().DidHardSeek)

	// Past the cooldown the correction fires.
	clock.Advance(1200 * time.Millisecond)
	s.Step(clock.Now())
	assert.True(t, s.State().DidHardSeek)
}

func TestHardCorrectionHonorsSyncOffset(t *testing.T) {
	clock := newFakeClock()
	video, audio := pair(clock, 10.0, 9.0)
	settings := media.NewSettings(media.WithSyncOffsetMS(500))
	s := NewSync(video, audio, settings)

	s.Step(clock.Now())
	require.True(t, s.State().DidHardSeek)
	// Target is video time minus the stored offset.
	assert.InDelta(t, 9.5, audio.CurrentTime(), 0.001)
}

func TestSoftNudgeBounded(t *testing.T) {
	clock := newFakeClock()
	video, audio := pair(clock, 10.0, 10.3)
	s := NewSync(video, audio, media.NewSettings())

	// Drift 0.3s is below the hard threshold; repeated steps build the EMA
	// past the soft threshold and trigger a bounded rate nudge.
	nudged := false
	for i := 0; i < 60; i++ {
		clock.Advance(20 * time.Millisecond)
		s.Step(clock.Now())
		st := s.State()
		require.False(t, st.DidHardSeek)
		if st.DidSoftAdjust {
			nudged = true
		}
		// The audio rate never strays more than 1.2% from nominal.
		assert.GreaterOrEqual(t, audio.PlaybackRate(), 1-maxAdjust-1e-9)
		assert.LessOrEqual(t, audio.PlaybackRate(), 1+maxAdjust+1e-9)
	}
	require.True(t, nudged)
	// Audio leads, so the nudge slows it down.
	assert.Less(t, audio.PlaybackRate(), 1.0)
}

func TestSoftNudgeDecaysToNominal(t *testing.T) {
	clock := newFakeClock()
	video, audio := pair(clock, 10.0, 10.3)
	s := NewSync(video, audio, media.NewSettings())

	for i := 0; i < 40 && !s.State().RateAdjusted; i++ {
		clock.Advance(20 * time.Millisecond)
		s.Step(clock.Now())
	}
	require.True(t, s.State().RateAdjusted)

	// Snap the pair together so drift settles, then let the decay window
	// elapse: the rate is restored to the stored nominal rate.
	audio.SetCurrentTime(video.CurrentTime())
	for i := 0; i < 80; i++ {
		clock.Advance(50 * time.Millisecond)
		s.Step(clock.Now())
	}
	assert.False(t, s.State().RateAdjusted)
	assert.Equal(t, 1.0, audio.PlaybackRate())
}

func TestNoActionWhenUnderBuffered(t *testing.T) {
	clock := newFakeClock()
	video := media.NewClip(media.WithClock(clock.Now), media.WithDuration(600))
	audio := media.NewClip(media.WithClock(clock.Now), media.WithDuration(600),
		media.WithBufferFunc(func(float64) float64 { return 0.05 }))
	video.SetCurrentTime(10)
	audio.SetCurrentTime(9)
	video.Play()
	audio.Play()

	s := NewSync(video, audio, media.NewSettings())
	s.Step(clock.Now())
	st := s.State()
	assert.False(t, st.DidHardSeek)
	assert.False(t, st.DidSoftAdjust)
	assert.InDelta(t, 9.0, audio.CurrentTime(), 0.001)
}

func TestNoActionWhenAudioNotReady(t *testing.T) {
	clock := newFakeClock()
	video := media.NewClip(media.WithClock(clock.Now), media.WithDuration(600))
	audio := media.NewClip(media.WithClock(clock.Now), media.WithDuration(600),
		media.WithReadyState(media.ReadyMetadata))
	video.SetCurrentTime(10)
	video.Play()
	audio.Play()

	s := NewSync(video, audio, media.NewSettings())
	s.Step(clock.Now())
	assert.False(t, s.State().DidHardSeek)
}

func TestNoActionWhenPaused(t *testing.T) {
	clock := newFakeClock()
	video, audio := pair(clock, 10.0, 9.0)
	audio.Pause()

	s := NewSync(video, audio, media.NewSettings())
	s.Step(clock.Now())
	assert.False(t, s.State().DidHardSeek)
}

func TestNoActionWhenAudioDisallowed(t *testing.T) {
	clock := newFakeClock()
	video, audio := pair(clock, 10.0, 9.0)
	s := NewSync(video, audio, media.NewSettings(media.WithAudioAllowed(false)))
	s.Step(clock.Now())
	assert.False(t, s.State().DidHardSeek)
	assert.InDelta(t, 9.0, audio.CurrentTime(), 0.001)
}

func TestStepForcedSeeksSmallDrift(t *testing.T) {
	clock := newFakeClock()
	video, audio := pair(clock, 10.0, 10.2)
	s := NewSync(video, audio, media.NewSettings())

	s.StepForced(clock.Now())
	assert.True(t, s.State().DidHardSeek)
	assert.InDelta(t, 10.0, audio.CurrentTime(), 0.001)
}

func TestResetClearsState(t *testing.T) {
	clock := newFakeClock()
	video, audio := pair(clock, 10.0, 10.3)
	s := NewSync(video, audio, media.NewSettings())
	for i := 0; i < 20; i++ {
		clock.Advance(20 * time.Millisecond)
		s.Step(clock.Now())
	}
	require.NotZero(t, s.State().DriftEMA)
	s.Reset()
	assert.Zero(t, s.State().DriftEMA)
}
