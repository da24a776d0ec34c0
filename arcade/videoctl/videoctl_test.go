package videoctl

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/media"
	"github.com/Carmen-Shannon/oxy-arcade/screen"
)

func newAdapterWithClip(duration float64) (Adapter, media.Element, media.Element) {
	video := media.NewClip(media.WithDuration(duration))
	audio := media.NewClip()
	a := NewAdapter(
		WithVideoProvider(func() media.Element { return video }),
		WithAudioProvider(func() media.Element { return audio }),
		WithVideoModeCheck(func() bool { return true }),
	)
	return a, video, audio
}

func TestAdapterInertStateWithoutVideo(t *testing.T) {
	a := NewAdapter()
	st := a.State()
	assert.False(t, st.CanPlay)
	assert.False(t, st.CanSeek)
	assert.True(t, st.Muted)
	assert.False(t, a.Active())
}

func TestAdapterStateReflectsElements(t *testing.T) {
	a, video, audio := newAdapterWithClip(120)
	video.SetCurrentTime(30)
	video.Play()
	audio.SetVolume(0.6)

	st := a.State()
	assert.True(t, st.Playing)
	assert.True(t, st.CanPlay)
	assert.True(t, st.CanSeek)
	assert.Equal(t, 120.0, st.Duration)
	assert.InDelta(t, 30.0, st.CurrentTime, 0.5)
	assert.Equal(t, 0.6, st.Volume)
	assert.True(t, a.Active())
}

func TestAdapterInfiniteDurationNotSeekable(t *testing.T) {
	a, _, _ := newAdapterWithClip(math.Inf(1))
	st := a.State()
	assert.False(t, st.CanSeek)
	assert.Zero(t, st.Duration)
}

func TestDispatchTogglePlay(t *testing.T) {
	a, video, _ := newAdapterWithClip(120)
	require.True(t, video.Paused())

	a.Dispatch(Action{Type: ActionTogglePlay})
	assert.False(t, video.Paused())
	a.Dispatch(Action{Type: ActionTogglePlay})
	assert.True(t, video.Paused())
}

func TestDispatchSeekToRatio(t *testing.T) {
	a, video, _ := newAdapterWithClip(200)

	a.Dispatch(Action{Type: ActionSeekToRatio, Ratio: 0.25})
	assert.InDelta(t, 50.0, video.CurrentTime(), 0.001)

	// Ratio clamps to [0, 1].
	a.Dispatch(Action{Type: ActionSeekToRatio, Ratio: 4})
	assert.InDelta(t, 200.0, video.CurrentTime(), 0.001)
	a.Dispatch(Action{Type: ActionSeekToRatio, Ratio: -1})
	assert.Zero(t, video.CurrentTime())
}

func TestDispatchSeekIgnoredWithoutFiniteDuration(t *testing.T) {
	a, video, _ := newAdapterWithClip(math.Inf(1))
	video.SetCurrentTime(42)
	a.Dispatch(Action{Type: ActionSeekToRatio, Ratio: 0.5})
	assert.InDelta(t, 42.0, video.CurrentTime(), 0.001)
}

func TestDispatchVolumeFallbackUnmutes(t *testing.T) {
	a, _, audio := newAdapterWithClip(120)
	audio.SetMuted(true)

	a.Dispatch(Action{Type: ActionSetVolume, Volume: 0.5})
	assert.Equal(t, 0.5, audio.Volume())
	assert.False(t, audio.Muted())

	// Zero volume does not unmute.
	audio.SetMuted(true)
	a.Dispatch(Action{Type: ActionSetVolume, Volume: 0})
	assert.True(t, audio.Muted())
}

func TestDispatchHooksPreferred(t *testing.T) {
	var gotRate, gotVolume float64
	var exited, mutedToggled bool
	video := media.NewClip(media.WithDuration(10))
	a := NewAdapter(
		WithVideoProvider(func() media.Element { return video }),
		WithVideoModeCheck(func() bool { return true }),
		WithRateHook(func(r float64) { gotRate = r }),
		WithVolumeHook(func(v float64) { gotVolume = v }),
		WithMuteHook(func() { mutedToggled = true }),
		WithExitHook(func() { exited = true }),
	)

	a.Dispatch(Action{Type: ActionSetRate, Rate: 1.5})
	a.Dispatch(Action{Type: ActionSetVolume, Volume: 0.3})
	a.Dispatch(Action{Type: ActionToggleMute})
	a.Dispatch(Action{Type: ActionExit})

	assert.Equal(t, 1.5, gotRate)
	assert.Equal(t, 0.3, gotVolume)
	assert.True(t, mutedToggled)
	assert.True(t, exited)
	assert.Equal(t, 1.0, video.PlaybackRate(), "hook bypasses the element")
}

func TestControlsLayoutMath(t *testing.T) {
	ui := GetControlsLayout(2048, 1152)
	barH := math.Round(1152 * 0.08)
	assert.Equal(t, barH, ui.Top.H)
	assert.Equal(t, 1152-barH, ui.Bottom.Y)
	assert.Equal(t, 2048.0, ui.Top.W)

	// Tiny surface: the bar height floors at 24.
	small := GetControlsLayout(320, 200)
	assert.Equal(t, 24.0, small.Top.H)

	// Progress track spans the rest of the bottom bar.
	icon := math.Round(barH * 0.5)
	pad := math.Round(barH * 0.25)
	assert.Equal(t, pad*3+icon*2, ui.Progress.X)
	assert.Equal(t, 2048-(pad*4+icon*2), ui.Progress.W)
	assert.Equal(t, 4.0, ui.Progress.H)
}

func TestControlsLayoutDeterministic(t *testing.T) {
	assert.Equal(t, GetControlsLayout(1024, 768), GetControlsLayout(1024, 768))
}

func collectActions(ui ControlsUI) *[]Action {
	var out []Action
	ui.SetOnAction(func(a Action) { out = append(out, a) })
	return &out
}

func TestHandlePointerButtons(t *testing.T) {
	ui := NewControlsUI()
	got := collectActions(ui)
	ui.SetState(State{CanPlay: true, Duration: 100})

	layout := GetControlsLayout(2048, 1152)

	bx, by := layout.Back.Center()
	assert.True(t, ui.HandlePointer(bx, by, 2048, 1152, nil))
	px, py := layout.Play.Center()
	assert.True(t, ui.HandlePointer(px, py, 2048, 1152, nil))
	mx, my := layout.Mute.Center()
	assert.True(t, ui.HandlePointer(mx, my, 2048, 1152, nil))

	require.Len(t, *got, 3)
	assert.Equal(t, ActionExit, (*got)[0].Type)
	assert.Equal(t, ActionTogglePlay, (*got)[1].Type)
	assert.Equal(t, ActionToggleMute, (*got)[2].Type)
}

func TestHandlePointerProgressWithSlop(t *testing.T) {
	ui := NewControlsUI()
	got := collectActions(ui)
	ui.SetState(State{CanPlay: true, Duration: 100})

	layout := GetControlsLayout(2048, 1152)
	x := layout.Progress.X + layout.Progress.W/2

	// A click slightly above the 4px track still counts.
	assert.True(t, ui.HandlePointer(x, layout.Progress.Y-progressHitSlop, 2048, 1152, nil))
	require.Len(t, *got, 1)
	assert.Equal(t, ActionSeekToRatio, (*got)[0].Type)
	assert.InDelta(t, 0.5, (*got)[0].Ratio, 0.01)

	// Beyond the slop it misses.
	assert.False(t, ui.HandlePointer(x, layout.Progress.Y-progressHitSlop-1, 2048, 1152, nil))
	assert.Len(t, *got, 1)
}

func TestHandlePointerDelegate(t *testing.T) {
	ui := NewControlsUI()
	got := collectActions(ui)
	ui.SetState(State{CanPlay: true})

	var dx, dy float64
	consumed := ui.HandlePointer(100, 200, 2048, 1152, func(x, y float64) bool {
		dx, dy = x, y
		return true
	})
	assert.True(t, consumed)
	assert.Equal(t, 100.0, dx)
	assert.Equal(t, 200.0, dy)
	assert.Empty(t, *got, "delegate replaces default routing")
}

func TestDrawLegacyDelegate(t *testing.T) {
	ui := NewControlsUI()
	surface := screen.NewSurface(64, 64)
	surface.MarkClean()

	called := false
	ui.Draw(surface, 1, func() { called = true })
	assert.True(t, called)
	assert.False(t, surface.Dirty(), "legacy delegate replaces default drawing")
}

func TestDrawSkipsWhenNotPlayable(t *testing.T) {
	ui := NewControlsUI()
	surface := screen.NewSurface(64, 64)
	surface.MarkClean()

	ui.SetState(State{CanPlay: false})
	ui.Draw(surface, 1, nil)
	assert.False(t, surface.Dirty())

	ui.SetState(State{CanPlay: true, Playing: true, Duration: 10, CurrentTime: 5})
	ui.Draw(surface, 1, nil)
	assert.True(t, surface.Dirty())
}

func TestAdapterStateCurrentTimeAdvances(t *testing.T) {
	a, video, _ := newAdapterWithClip(600)
	video.Play()
	before := a.State().CurrentTime
	time.Sleep(10 * time.Millisecond)
	assert.GreaterOrEqual(t, a.State().CurrentTime, before)
}
