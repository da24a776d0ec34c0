package cabinet

import (
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/content"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/embedframe"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/layout"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/media"
	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/Carmen-Shannon/oxy-arcade/engine/camera"
	"github.com/Carmen-Shannon/oxy-arcade/engine/raycast"
	"github.com/Carmen-Shannon/oxy-arcade/screen"
)

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

type fakeScene struct {
	cam    camera.Camera
	meshes []*raycast.Mesh
	screen *raycast.Mesh
}

func (f *fakeScene) Camera() camera.Camera     { return f.cam }
func (f *fakeScene) Meshes() []*raycast.Mesh   { return f.meshes }
func (f *fakeScene) ScreenMesh() *raycast.Mesh { return f.screen }

// newScreenQuadScene builds a 2x2 quad at the origin facing a camera 5 units
// up the +Z axis with a 90 degree square frustum, so the visible half-extent
// at the quad's plane is exactly 5 world units. The UVs mirror the display
// path: the render pipeline flips U only, so the drawn surface's left edge
// sits at u=1 and V runs downward from the top.
func newScreenQuadScene() *fakeScene {
	mesh := &raycast.Mesh{
		Name: "screen",
		Positions: []common.Vec3{
			{X: -1, Y: -1, Z: 0},
			{X: 1, Y: -1, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: -1, Y: 1, Z: 0},
		},
		UVs:     [][2]float32{{1, 1}, {0, 1}, {0, 0}, {1, 0}},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
	cam := camera.NewCamera()
	cam.SetPose(common.Vec3{Z: 5}, common.QuatIdentity())
	cam.SetFov(common.DegToRad(90))
	cam.SetAspect(1)
	return &fakeScene{cam: cam, meshes: []*raycast.Mesh{mesh}, screen: mesh}
}

// quadWindowPoint is the inverse of the quad scene's pointer mapping: the
// window pixel (in a 400x400 window) whose ray lands on the given 320x240
// surface point.
func quadWindowPoint(sx, sy float64) (wx, wy float64) {
	worldX := 1 - 2*(1-sx/320)
	worldY := 1 - 2*sy/240
	ndcX := worldX / 5
	ndcY := worldY / 5
	return (ndcX + 1) / 2 * 400, (1 - ndcY) / 2 * 400
}

type testRig struct {
	ctrl     Controller
	clock    *fakeClock
	surface  *screen.Surface
	scene    *fakeScene
	settings media.Settings
	video    media.Element
	audio    media.Element
}

func newTestRig(t *testing.T) *testRig {
	return newTestRigWithScene(t, &fakeScene{cam: camera.NewCamera()})
}

func newTestRigWithScene(t *testing.T, scn *fakeScene) *testRig {
	t.Helper()
	rig := &testRig{
		clock:    newFakeClock(),
		surface:  screen.NewSurface(320, 240),
		scene:    scn,
		settings: media.NewSettings(),
	}
	rig.ctrl = NewController(
		rig.surface,
		scn,
		rig.settings,
		WithClock(rig.clock.Now),
		WithMediaFactory(func(content.VideoEntry) (media.Element, media.Element) {
			rig.video = media.NewClip(media.WithClock(rig.clock.Now), media.WithDuration(60), media.WithNativeSize(1280, 720))
			rig.audio = media.NewClip(media.WithClock(rig.clock.Now), media.WithDuration(60))
			return rig.video, rig.audio
		}),
		WithFrameFactory(func(entry content.GameEntry) embedframe.Frame {
			return embedframe.NewLocalFrame(entry.URL)
		}),
	)
	return rig
}

func firstGame(t *testing.T) content.GameEntry {
	t.Helper()
	games := content.Games()
	require.NotEmpty(t, games)
	return games[0]
}

func firstVideo(t *testing.T) content.VideoEntry {
	t.Helper()
	videos := content.Videos()
	require.NotEmpty(t, videos)
	return videos[0]
}

func TestControllerStartsInMenu(t *testing.T) {
	rig := newTestRig(t)
	assert.Equal(t, ModeMenu, rig.ctrl.Mode())
	assert.True(t, rig.ctrl.GameInputEnabled())
}

func TestScreenFrameOnlyWhenDirty(t *testing.T) {
	rig := newTestRig(t)

	rig.ctrl.Tick(rig.clock.Now())
	frame, ok := rig.ctrl.ScreenFrame()
	require.True(t, ok)
	assert.Equal(t, uint32(320), frame.Width)
	assert.Equal(t, uint32(240), frame.Height)
	assert.Len(t, frame.Pixels, 320*240*4)

	// Nothing changed since the last upload.
	_, ok = rig.ctrl.ScreenFrame()
	assert.False(t, ok)
}

func TestEnterGameStartsSplash(t *testing.T) {
	rig := newTestRig(t)
	entry := firstGame(t)

	rig.ctrl.EnterGame(entry)
	assert.Equal(t, ModeGame, rig.ctrl.Mode())

	ctrl := rig.ctrl.(*controller)
	ctrl.mu.Lock()
	require.NotNil(t, ctrl.splash)
	assert.Equal(t, entry.Label, ctrl.splash.Label())
	ctrl.mu.Unlock()
}

func TestSplashPersistsUntilPlayControlClick(t *testing.T) {
	rig := newTestRig(t)
	ctrl := rig.ctrl.(*controller)

	rig.ctrl.EnterGame(firstGame(t))

	// Ticking long past the timer leaves the splash up; the bar filling only
	// enables the play control.
	rig.clock.Advance(DefaultSplashDuration + time.Second)
	rig.ctrl.Tick(rig.clock.Now())
	ctrl.mu.Lock()
	require.NotNil(t, ctrl.splash)
	assert.True(t, ctrl.splash.Ready(rig.clock.Now()))
	ctrl.mu.Unlock()

	// A click outside the play control is ignored.
	ctrl.mu.Lock()
	ctrl.gamePointerUpLocked(5, 5, 0, true)
	require.NotNil(t, ctrl.splash)

	// A click inside it reveals the game.
	circ := splashPlayCircle(rig.surface.Bounds())
	ctrl.gamePointerUpLocked(circ.CX, circ.CY, 0, true)
	assert.Nil(t, ctrl.splash)
	ctrl.mu.Unlock()
}

func TestScreenFrameDetachedFromSurface(t *testing.T) {
	rig := newTestRig(t)

	rig.ctrl.Tick(rig.clock.Now())
	frame, ok := rig.ctrl.ScreenFrame()
	require.True(t, ok)
	require.NotEmpty(t, frame.Pixels)

	// The staging pixels never alias the surface's live buffer, and later
	// draws leave an already-returned frame untouched.
	assert.NotSame(t, &rig.surface.Pixels()[0], &frame.Pixels[0])

	before := make([]byte, 16)
	copy(before, frame.Pixels[:16])
	rig.surface.FillRect(rig.surface.Bounds(), color.RGBA{R: 255, G: 255, B: 255, A: 255})
	assert.Equal(t, before, frame.Pixels[:16])
}

func TestPointerMapsScreenHitToDrawnPixel(t *testing.T) {
	rig := newTestRigWithScene(t, newScreenQuadScene())
	ctrl := rig.ctrl.(*controller)

	// The window point aimed at surface pixel (80, 60) must map back to it:
	// in particular a click in the window's upper half lands in the upper
	// half of the surface, matching where the texture row is displayed.
	wx, wy := quadWindowPoint(80, 60)
	ctrl.mu.Lock()
	dx, dy, ok := ctrl.surfacePointLocked(wx, wy, 400, 400)
	ctrl.mu.Unlock()
	require.True(t, ok)
	assert.InDelta(t, 80.0, dx, 0.5)
	assert.InDelta(t, 60.0, dy, 0.5)
}

func TestMenuClickSelectsAimedGameSlot(t *testing.T) {
	rig := newTestRigWithScene(t, newScreenQuadScene())
	ctrl := rig.ctrl.(*controller)

	games := content.Games()
	require.True(t, len(games) > 1)
	l := layout.Compute(rig.surface.Bounds(), games, content.Videos())
	cx, cy := l.Games[0].Rect.Center()

	wx, wy := quadWindowPoint(cx, cy)
	rig.ctrl.PointerUp(wx, wy, 0, 400, 400)

	assert.Equal(t, ModeGame, rig.ctrl.Mode())
	ctrl.mu.Lock()
	assert.Equal(t, games[0].ID, ctrl.gameEntry.ID)
	ctrl.mu.Unlock()
}

func TestEnterVideoStartsPlayback(t *testing.T) {
	rig := newTestRig(t)

	rig.ctrl.EnterVideo(firstVideo(t))
	assert.Equal(t, ModeVideo, rig.ctrl.Mode())
	require.NotNil(t, rig.video)
	assert.False(t, rig.video.Paused())
	assert.False(t, rig.audio.Paused())
	// The visible element is always silent; the companion carries audio.
	assert.True(t, rig.video.Muted())
}

func TestEnterGameTearsDownVideo(t *testing.T) {
	rig := newTestRig(t)

	rig.ctrl.EnterVideo(firstVideo(t))
	video := rig.video
	require.False(t, video.Paused())

	rig.ctrl.EnterGame(firstGame(t))
	assert.Equal(t, ModeGame, rig.ctrl.Mode())
	assert.True(t, video.Paused())
}

func TestEscapeReturnsToMenu(t *testing.T) {
	rig := newTestRig(t)

	rig.ctrl.HandleEscape()
	assert.Equal(t, ModeMenu, rig.ctrl.Mode())

	rig.ctrl.EnterVideo(firstVideo(t))
	rig.ctrl.HandleEscape()
	assert.Equal(t, ModeMenu, rig.ctrl.Mode())
	assert.True(t, rig.video.Paused())
	assert.True(t, rig.audio.Paused())
}

func TestExitRestoresCapturedCameraPose(t *testing.T) {
	rig := newTestRig(t)
	ctrl := rig.ctrl.(*controller)

	rig.ctrl.EnterGame(firstGame(t))
	ctrl.mu.Lock()
	require.NotNil(t, ctrl.returnSnapshot)
	captured := *ctrl.returnSnapshot
	ctrl.mu.Unlock()

	// Switching content keeps the original menu pose.
	rig.ctrl.EnterVideo(firstVideo(t))
	ctrl.mu.Lock()
	require.NotNil(t, ctrl.returnSnapshot)
	assert.Equal(t, captured, *ctrl.returnSnapshot)
	ctrl.mu.Unlock()

	rig.ctrl.ExitToMenu()
	ctrl.mu.Lock()
	assert.Nil(t, ctrl.returnSnapshot)
	ctrl.mu.Unlock()
}

func TestPauseEventPausesCompanionAudio(t *testing.T) {
	rig := newTestRig(t)

	rig.ctrl.EnterVideo(firstVideo(t))
	require.False(t, rig.audio.Paused())

	rig.video.Pause()
	assert.True(t, rig.audio.Paused())

	rig.video.Play()
	assert.False(t, rig.audio.Paused())
}

func TestToggleMuteRestoresVolume(t *testing.T) {
	rig := newTestRig(t)
	ctrl := rig.ctrl.(*controller)

	ctrl.mu.Lock()
	ctrl.toggleMuteLocked()
	ctrl.mu.Unlock()
	assert.True(t, rig.settings.Muted())

	// Unmuting with a zeroed volume falls back to the default level.
	rig.settings.SetVolume(0)
	ctrl.mu.Lock()
	ctrl.toggleMuteLocked()
	ctrl.mu.Unlock()
	assert.False(t, rig.settings.Muted())
	assert.InDelta(t, unmuteDefaultVolume, rig.settings.Volume(), 1e-9)
}

func TestCycleRateWraps(t *testing.T) {
	rig := newTestRig(t)
	ctrl := rig.ctrl.(*controller)

	require.Equal(t, media.NominalRateIndex, rig.settings.RateIndex())
	for i := 0; i < len(media.DefaultRates); i++ {
		ctrl.mu.Lock()
		ctrl.cycleRateLocked()
		ctrl.mu.Unlock()
	}
	assert.Equal(t, media.NominalRateIndex, rig.settings.RateIndex())
}

func TestForwardUVRoundTripsThroughCanvasMapping(t *testing.T) {
	r := common.Rect{X: 10, Y: 20, W: 100, H: 50}
	const cw, ch = 200, 100

	// A point 25% across and 50% down the letterbox must land 25% across
	// and 50% down the canvas after the forwarder's own mapping.
	u, v := forwardUV(35, 45, r)
	x, y := embedframe.MapUVToCanvas(u, v, cw, ch)
	assert.InDelta(t, 50.0, x, 1e-9)
	assert.InDelta(t, 50.0, y, 1e-9)

	// Corners stay corners.
	u, v = forwardUV(r.X, r.Y, r)
	x, y = embedframe.MapUVToCanvas(u, v, cw, ch)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, 0.0, y, 1e-9)

	u, v = forwardUV(r.X+r.W, r.Y+r.H, r)
	x, y = embedframe.MapUVToCanvas(u, v, cw, ch)
	assert.InDelta(t, float64(cw), x, 1e-9)
	assert.InDelta(t, float64(ch), y, 1e-9)
}

func TestGameChromeLayout(t *testing.T) {
	chrome := gameChromeLayout(1000, 500)

	barH := 40.0 // round(500 * 0.08)
	assert.Equal(t, common.Rect{X: 0, Y: 0, W: 1000, H: barH}, chrome.Top)
	assert.Equal(t, common.Rect{X: 0, Y: 500 - barH, W: 1000, H: barH}, chrome.Bottom)
	assert.Equal(t, common.Rect{X: 0, Y: barH, W: 1000, H: 500 - 2*barH}, chrome.Content)

	// Tiny surfaces still get clickable bars.
	small := gameChromeLayout(100, 100)
	assert.Equal(t, 24.0, small.Top.H)
}

func TestSpeedBadgeAnchorsBottomRight(t *testing.T) {
	vr := common.Rect{X: 0, Y: 0, W: 1000, H: 500}
	badge := speedBadgeRect(vr)

	assert.InDelta(t, 140.0, badge.W, 1e-9)
	assert.InDelta(t, 60.0, badge.H, 1e-9)
	assert.InDelta(t, 1000-140-18, badge.X, 1e-9)
	assert.InDelta(t, 500-60-20, badge.Y, 1e-9)
}

func TestMenuDragOrbitsCameraWithoutSelecting(t *testing.T) {
	rig := newTestRigWithScene(t, newScreenQuadScene())
	ctrl := rig.ctrl.(*controller)

	games := content.Games()
	l := layout.Compute(rig.surface.Bounds(), games, content.Videos())
	cx, cy := l.Games[0].Rect.Center()
	wx, wy := quadWindowPoint(cx, cy)

	before := rig.scene.cam.Position()
	rig.ctrl.PointerDown(wx, wy, 0, 400, 400)
	rig.ctrl.PointerMove(wx+40, wy+10, 400, 400)
	assert.NotEqual(t, before, rig.scene.cam.Position())

	// Releasing over a slot after a drag is navigation, not selection.
	rig.ctrl.PointerUp(wx+40, wy+10, 0, 400, 400)
	assert.Equal(t, ModeMenu, rig.ctrl.Mode())

	// A plain click afterwards still selects. The camera moves back to the
	// straight-on pose first, since the window point was computed for it.
	rig.scene.cam.SetPose(common.Vec3{Z: 5}, common.QuatIdentity())
	rig.ctrl.PointerDown(wx, wy, 0, 400, 400)
	rig.ctrl.PointerUp(wx, wy, 0, 400, 400)
	assert.Equal(t, ModeGame, rig.ctrl.Mode())
	ctrl.mu.Lock()
	assert.Equal(t, games[0].ID, ctrl.gameEntry.ID)
	ctrl.mu.Unlock()
}

func TestContentModesSuspendOrbitNavigation(t *testing.T) {
	rig := newTestRig(t)
	ctrl := rig.ctrl.(*controller)

	require.True(t, ctrl.orbit.Enabled())

	rig.ctrl.EnterVideo(firstVideo(t))
	assert.False(t, ctrl.orbit.Enabled())

	rig.ctrl.ExitToMenu()
	assert.True(t, ctrl.orbit.Enabled())

	rig.ctrl.EnterGame(firstGame(t))
	assert.False(t, ctrl.orbit.Enabled())
}

func TestPointerIgnoredOffScreen(t *testing.T) {
	// With no screen mesh every pointer event misses; none may panic or
	// change mode.
	rig := newTestRig(t)
	rig.ctrl.PointerMove(10, 10, 800, 600)
	rig.ctrl.PointerDown(10, 10, 0, 800, 600)
	rig.ctrl.PointerUp(10, 10, 0, 800, 600)
	rig.ctrl.Wheel(10, 10, 0, 1, 800, 600)
	assert.Equal(t, ModeMenu, rig.ctrl.Mode())
}
