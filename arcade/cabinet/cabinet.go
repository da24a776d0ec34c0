// Package cabinet is the arcade scene controller: one struct owning the
// content-mode state machine (menu, video, game), the screen surface and
// what gets drawn on it, camera framing, and the pointer pipeline that maps
// 3D hits on the screen mesh into menu, controls, or embedded-game input.
// Everything session-scoped lives here; collaborators are handed the surface
// or the media elements only for the duration of a call.
package cabinet

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/audiobridge"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/avsync"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/content"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/embedframe"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/layout"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/media"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/videoctl"
	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/Carmen-Shannon/oxy-arcade/engine/camera"
	"github.com/Carmen-Shannon/oxy-arcade/engine/raycast"
	"github.com/Carmen-Shannon/oxy-arcade/screen"
	"go.uber.org/zap"
)

// Mode is the active content mode. Exactly one is active at a time.
type Mode string

const (
	ModeMenu  Mode = "menu"
	ModeVideo Mode = "video"
	ModeGame  Mode = "game"
)

// unmuteDefaultVolume is restored on unmute when no previous volume was
// recorded.
const unmuteDefaultVolume = 0.5

// FrameFactory creates the embedded frame hosting a game's content.
type FrameFactory func(entry content.GameEntry) embedframe.Frame

// MediaFactory creates the silent video element and its companion audio
// element for a video entry.
type MediaFactory func(entry content.VideoEntry) (video, audio media.Element)

// SceneGeometry is the slice of the 3D scene the controller needs: the
// camera and the pickable world-space meshes.
type SceneGeometry interface {
	Camera() camera.Camera
	Meshes() []*raycast.Mesh
	ScreenMesh() *raycast.Mesh
}

// Controller owns all arcade session state and drives mode transitions,
// drawing, and input routing. Safe for concurrent use; media element
// callbacks may arrive from other goroutines.
type Controller interface {
	// Mode returns the active content mode.
	Mode() Mode

	// EnterGame transitions to game mode for the given entry: tears down any
	// video or previous game session, captures the return camera snapshot,
	// flies the camera to the content view, creates the embedded frame, and
	// starts the splash.
	EnterGame(entry content.GameEntry)

	// EnterVideo transitions to video mode: tears down any game session,
	// creates the video/audio pair, binds the controls, flies the camera,
	// and starts synchronized playback.
	EnterVideo(entry content.VideoEntry)

	// ExitToMenu tears down the active session, restores the camera snapshot
	// captured at entry (or the default view), and re-enables the menu.
	ExitToMenu()

	// HandleEscape returns to the menu from either content mode. In menu
	// mode it is a no-op.
	HandleEscape()

	// PlayIntro flies the camera in from the distant start pose to the
	// default menu view.
	PlayIntro()

	// ToggleCameraZoom switches between the default and alternate framing.
	ToggleCameraZoom()

	// ToggleMute flips the persisted mute preference and applies it to the
	// active session. Unmuting restores the stored volume.
	ToggleMute()

	// SetGameInputEnabled toggles whether pointer events are forwarded into
	// the embedded game.
	SetGameInputEnabled(enabled bool)

	// GameInputEnabled reports whether game input forwarding is on.
	GameInputEnabled() bool

	// PointerMove, PointerDown, PointerUp and Wheel feed pointer events in
	// window client coordinates; width and height are the window's current
	// client size. Buttons follow the web convention (0 primary, 1 middle,
	// 2 secondary).
	PointerMove(x, y float64, width, height int)
	PointerDown(x, y float64, button int, width, height int)
	PointerUp(x, y float64, button int, width, height int)
	Wheel(x, y, dx, dy float64, width, height int)

	// Tick advances the per-frame state machines: canvas discovery, splash
	// progress, A/V sync, and the draw-when-needed routine.
	Tick(now time.Time)

	// ScreenFrame returns the surface pixels for texture upload when the
	// surface changed since the last call. Implements scene.ScreenSource.
	ScreenFrame() (common.TextureStagingData, bool)

	// RequestRedraw forces a redraw on the next Tick. Safe from any
	// goroutine.
	RequestRedraw()
}

var _ Controller = &controller{}

type controller struct {
	mu *sync.Mutex

	logger   *zap.Logger
	surface  *screen.Surface
	theme    screen.Theme
	scn      SceneGeometry
	settings media.Settings
	bridge   audiobridge.Bridge
	disc     embedframe.Discoverer
	controls videoctl.ControlsUI
	adapter  videoctl.Adapter

	games  []content.GameEntry
	videos []content.VideoEntry

	frameFactory FrameFactory
	mediaFactory MediaFactory
	clock        func() time.Time

	mode Mode

	// Game session.
	gameEntry content.GameEntry
	frame     embedframe.Frame
	forwarder embedframe.Forwarder
	splash    *Splash

	// Video session.
	videoEntry content.VideoEntry
	video      media.Element
	audio      media.Element
	sync       avsync.Sync

	// Camera framing.
	returnSnapshot *camera.Snapshot
	cameraZoomAlt  bool

	gameInputEnabled bool
	pointerHeld      bool

	hover *layout.Hit

	// Menu orbit navigation.
	orbit        camera.OrbitController
	menuDragX    float64
	menuDragY    float64
	menuDragging bool
	menuDragHeld bool

	// Frame-change tracking for draw-when-needed.
	lastVideoFrame  *image.RGBA
	lastCanvasFrame *image.RGBA

	// staging receives the surface pixels for texture upload, so the render
	// goroutine never reads the surface's live buffer.
	staging []byte

	loggedDrawFailure bool

	// needsRedraw is atomic so media subscription callbacks, which fire on
	// the element's goroutine (sometimes while this controller holds mu),
	// can request redraws without locking.
	needsRedraw atomic.Bool
}

// Option configures a Controller at construction.
type Option func(*controller)

// WithLogger attaches the controller's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *controller) {
		if logger != nil {
			c.logger = logger.Named("cabinet")
		}
	}
}

// WithTheme sets the drawing theme.
func WithTheme(theme screen.Theme) Option {
	return func(c *controller) {
		c.theme = theme
	}
}

// WithCatalogs overrides the game and video lists.
func WithCatalogs(games []content.GameEntry, videos []content.VideoEntry) Option {
	return func(c *controller) {
		c.games = games
		c.videos = videos
	}
}

// WithFrameFactory sets how embedded game frames are created.
func WithFrameFactory(fn FrameFactory) Option {
	return func(c *controller) {
		if fn != nil {
			c.frameFactory = fn
		}
	}
}

// WithMediaFactory sets how video/audio element pairs are created.
func WithMediaFactory(fn MediaFactory) Option {
	return func(c *controller) {
		if fn != nil {
			c.mediaFactory = fn
		}
	}
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *controller) {
		if now != nil {
			c.clock = now
		}
	}
}

// WithAudioBridge replaces the default game audio bridge.
func WithAudioBridge(b audiobridge.Bridge) Option {
	return func(c *controller) {
		if b != nil {
			c.bridge = b
		}
	}
}

// WithDiscoverer replaces the default canvas discoverer.
func WithDiscoverer(d embedframe.Discoverer) Option {
	return func(c *controller) {
		if d != nil {
			c.disc = d
		}
	}
}

// WithOrbitController replaces the menu navigation controller.
func WithOrbitController(o camera.OrbitController) Option {
	return func(c *controller) {
		if o != nil {
			c.orbit = o
		}
	}
}

// NewController creates the scene controller in menu mode.
//
// Parameters:
//   - surface: the screen surface, exclusively owned by the controller
//   - scn: the camera and pick geometry of the cabinet scene
//   - settings: the persisted playback preference store
//   - options: functional options
//
// Returns:
//   - Controller: the controller, in menu mode
func NewController(surface *screen.Surface, scn SceneGeometry, settings media.Settings, options ...Option) Controller {
	c := &controller{
		mu:       &sync.Mutex{},
		logger:   zap.NewNop(),
		surface:  surface,
		scn:      scn,
		settings: settings,
		games:    content.Games(),
		videos:   content.Videos(),
		clock:    time.Now,
		mode:     ModeMenu,
		frameFactory: func(entry content.GameEntry) embedframe.Frame {
			return embedframe.NewLocalFrame(entry.URL)
		},
		mediaFactory: func(content.VideoEntry) (media.Element, media.Element) {
			return media.NewClip(), media.NewClip()
		},
		gameInputEnabled: true,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.bridge == nil {
		c.bridge = audiobridge.NewBridge(audiobridge.WithLogger(c.logger))
	}
	if c.disc == nil {
		c.disc = embedframe.NewDiscoverer(embedframe.WithDiscoveryLogger(c.logger))
	}
	if c.orbit == nil {
		c.orbit = camera.NewOrbitController()
	}

	// The adapter's providers and hooks run only while mu is held (actions
	// are dispatched from the pointer path, state is read during draws), so
	// they touch fields directly.
	c.adapter = videoctl.NewAdapter(
		videoctl.WithVideoProvider(func() media.Element { return c.video }),
		videoctl.WithAudioProvider(func() media.Element { return c.audio }),
		videoctl.WithVideoModeCheck(func() bool { return c.mode == ModeVideo }),
		videoctl.WithVolumeHook(c.setVolumeLocked),
		videoctl.WithMuteHook(c.toggleMuteLocked),
		videoctl.WithRateHook(c.setRateLocked),
		videoctl.WithExitHook(func() { c.exitToMenuLocked(c.clock()) }),
	)
	c.controls = videoctl.NewControlsUI(videoctl.WithTheme(c.theme))
	c.controls.SetOnAction(func(a videoctl.Action) { c.adapter.Dispatch(a) })

	c.needsRedraw.Store(true)
	return c
}

func (c *controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *controller) EnterGame(entry content.GameEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enterGameLocked(entry, c.clock())
}

func (c *controller) EnterVideo(entry content.VideoEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enterVideoLocked(entry, c.clock())
}

func (c *controller) ExitToMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exitToMenuLocked(c.clock())
}

func (c *controller) HandleEscape() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeMenu {
		return
	}
	c.exitToMenuLocked(c.clock())
}

func (c *controller) PlayIntro() {
	c.mu.Lock()
	defer c.mu.Unlock()
	cam := c.scn.Camera()
	cam.ApplySnapshot(camera.StartSnapshot())
	cam.FlyTo(camera.DefaultSnapshot(), camera.IntroFlightDuration, c.clock())
}

func (c *controller) ToggleCameraZoom() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cameraZoomAlt = !c.cameraZoomAlt
	dest := camera.DefaultSnapshot()
	if c.cameraZoomAlt {
		dest = camera.AlternateSnapshot()
	}
	c.scn.Camera().FlyTo(dest, camera.DefaultFlightDuration, c.clock())
}

func (c *controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toggleMuteLocked()
}

func (c *controller) SetGameInputEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameInputEnabled = enabled
	if !enabled && c.forwarder != nil {
		c.forwarder.Reset()
	}
}

func (c *controller) GameInputEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gameInputEnabled
}

func (c *controller) RequestRedraw() {
	c.needsRedraw.Store(true)
}

func (c *controller) Tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.mode {
	case ModeGame:
		if c.frame != nil {
			c.disc.Scan(now)
		}
	case ModeVideo:
		if c.sync != nil {
			c.sync.Step(now)
		}
	}

	if c.shouldDrawLocked(now) {
		c.drawLocked(now)
		c.needsRedraw.Store(false)
	}
}

func (c *controller) ScreenFrame() (common.TextureStagingData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.surface.Dirty() {
		return common.TextureStagingData{}, false
	}
	c.surface.MarkClean()
	// The tick goroutine keeps drawing into the surface after this returns,
	// so the upload gets a stable copy taken under the lock.
	pix := c.surface.Pixels()
	if len(c.staging) != len(pix) {
		c.staging = make([]byte, len(pix))
	}
	copy(c.staging, pix)
	return common.TextureStagingData{
		Pixels: c.staging,
		Width:  uint32(c.surface.Width()),
		Height: uint32(c.surface.Height()),
	}, true
}

// shouldDrawLocked gates the redraw: the menu animates hover state and is
// cheap, content modes redraw when a new frame arrived or a redraw was
// requested, and a running splash animates its progress bar.
func (c *controller) shouldDrawLocked(now time.Time) bool {
	if c.needsRedraw.Load() || c.mode == ModeMenu {
		return true
	}
	switch c.mode {
	case ModeVideo:
		if c.video == nil {
			return false
		}
		return c.video.Frame() != c.lastVideoFrame
	case ModeGame:
		if c.splash != nil {
			return true
		}
		canvas := c.disc.Canvas()
		if canvas == nil {
			return false
		}
		return canvas.Frame() != c.lastCanvasFrame
	}
	return false
}

// enterGameLocked implements the menu/video -> game transition.
func (c *controller) enterGameLocked(entry content.GameEntry, now time.Time) {
	c.stopVideoLocked()
	c.teardownGameLocked()
	c.captureReturnSnapshotLocked()

	c.mode = ModeGame
	c.gameEntry = entry
	c.flyToContentLocked(now)

	c.frame = c.frameFactory(entry)
	c.disc.SetFrame(c.frame)
	c.forwarder = embedframe.NewForwarder(
		func() embedframe.Frame { return c.frame },
		c.disc.Canvas,
		embedframe.WithFocusOnFirstPress(),
	)
	c.bridge.Attach(c.frame)
	c.bridge.SetMuted(c.settings.Muted() || !c.settings.AudioAllowed())
	c.bridge.SetVolume(c.settings.Volume())

	duration := DefaultSplashDuration
	if entry.SplashDurationMS > 0 {
		duration = time.Duration(entry.SplashDurationMS) * time.Millisecond
	}
	c.splash = NewSplash(entry.Label, duration, now)

	c.gameInputEnabled = true
	c.lastCanvasFrame = nil
	c.loggedDrawFailure = false
	c.needsRedraw.Store(true)

	c.logger.Info("entered game", zap.String("id", entry.ID), zap.String("url", entry.URL))
}

// enterVideoLocked implements the menu/game -> video transition.
func (c *controller) enterVideoLocked(entry content.VideoEntry, now time.Time) {
	c.teardownGameLocked()
	c.stopVideoLocked()
	c.captureReturnSnapshotLocked()

	c.mode = ModeVideo
	c.videoEntry = entry
	c.flyToContentLocked(now)

	video, audio := c.mediaFactory(entry)
	c.video = video
	c.audio = audio

	// The video element is always silent; the companion audio element
	// carries the sound and the persisted preferences.
	media.ApplyPlaybackSettings(video, c.settings)
	video.SetMuted(true)
	media.ApplyAudioPlaybackSettings(audio, c.settings)

	c.sync = avsync.NewSync(video, audio, c.settings, avsync.WithLogger(c.logger))

	// The closure captures the pair directly rather than reading controller
	// fields: element callbacks fire synchronously, sometimes while mu is
	// held by the caller that triggered the transition.
	video.Subscribe(func(kind media.EventKind) {
		c.needsRedraw.Store(true)
		if audio == nil {
			return
		}
		switch kind {
		case media.EventPlay:
			audio.Play()
		case media.EventPause, media.EventEnded:
			audio.Pause()
		}
	})

	video.Play()
	if audio != nil {
		audio.Play()
	}

	c.lastVideoFrame = nil
	c.needsRedraw.Store(true)

	c.logger.Info("entered video", zap.String("id", entry.ID), zap.String("src", entry.Src))
}

// exitToMenuLocked tears down whichever session is active and restores the
// camera. Idempotent from menu mode apart from the camera flight.
func (c *controller) exitToMenuLocked(now time.Time) {
	c.stopVideoLocked()
	c.teardownGameLocked()

	snap := camera.DefaultSnapshot()
	if c.returnSnapshot != nil {
		snap = *c.returnSnapshot
		c.returnSnapshot = nil
	}
	c.scn.Camera().FlyTo(snap, camera.DefaultFlightDuration, now)
	c.cameraZoomAlt = false

	c.mode = ModeMenu
	c.pointerHeld = false
	c.hover = nil
	c.orbit.SetEnabled(true)
	c.menuDragHeld = false
	c.menuDragging = false
	c.needsRedraw.Store(true)
}

// captureReturnSnapshotLocked saves the camera pose entered from, so exit
// returns to where the user was. Only the first content entry captures; a
// game -> video switch keeps the original menu pose.
func (c *controller) captureReturnSnapshotLocked() {
	if c.mode != ModeMenu || c.returnSnapshot != nil {
		return
	}
	cam := c.scn.Camera()
	snap := camera.Snapshot{
		Position:   cam.Position(),
		Rotation:   cam.Rotation(),
		FovDegrees: common.RadToDeg(cam.Fov()),
	}
	c.returnSnapshot = &snap
}

// flyToContentLocked animates the camera into the fixed content view and
// suspends orbit navigation until the session exits.
func (c *controller) flyToContentLocked(now time.Time) {
	c.cameraZoomAlt = true
	c.orbit.SetEnabled(false)
	c.menuDragHeld = false
	c.menuDragging = false
	c.scn.Camera().FlyTo(camera.AlternateSnapshot(), camera.DefaultFlightDuration, now)
}

// stopVideoLocked pauses and releases the video session.
func (c *controller) stopVideoLocked() {
	if c.video != nil {
		c.video.Pause()
	}
	if c.audio != nil {
		c.audio.Pause()
	}
	c.video = nil
	c.audio = nil
	c.sync = nil
	c.lastVideoFrame = nil
}

// teardownGameLocked releases the embedded game session: frame, forwarder,
// discovery target, audio binding, splash, and pointer capture.
func (c *controller) teardownGameLocked() {
	if c.forwarder != nil {
		c.forwarder.Reset()
	}
	c.forwarder = nil
	c.frame = nil
	c.disc.SetFrame(nil)
	c.bridge.Detach()
	c.splash = nil
	c.pointerHeld = false
	c.lastCanvasFrame = nil
}

// setVolumeLocked applies a volume change to the active session and records
// it in the persisted settings. A non-trivial volume also unmutes.
func (c *controller) setVolumeLocked(vol float64) {
	vol = common.Clamp01(vol)
	c.settings.SetVolume(vol)
	if vol > 0.001 && c.settings.Muted() {
		c.settings.SetMuted(false)
	}
	c.applyAudioPrefsLocked()
	c.needsRedraw.Store(true)
}

// toggleMuteLocked flips mute. Unmuting restores the stored volume, or a
// sensible default when nothing was stored.
func (c *controller) toggleMuteLocked() {
	if c.settings.Muted() {
		c.settings.SetMuted(false)
		if c.settings.Volume() <= 0.001 {
			c.settings.SetVolume(unmuteDefaultVolume)
		}
	} else {
		c.settings.SetMuted(true)
	}
	c.applyAudioPrefsLocked()
	c.needsRedraw.Store(true)
}

// setRateLocked snaps an arbitrary rate to the nearest catalog step and
// applies it to the playing pair.
func (c *controller) setRateLocked(rate float64) {
	best := media.NominalRateIndex
	bestDiff := -1.0
	for i, r := range media.DefaultRates {
		diff := r - rate
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	c.settings.SetRateIndex(best)
	c.applyRateLocked()
}

// cycleRateLocked advances to the next playback rate step, wrapping.
func (c *controller) cycleRateLocked() {
	c.settings.SetRateIndex((c.settings.RateIndex() + 1) % len(media.DefaultRates))
	c.applyRateLocked()
}

func (c *controller) applyRateLocked() {
	if c.video != nil {
		media.ApplyPlaybackSettings(c.video, c.settings)
	}
	if c.audio != nil {
		media.ApplyPlaybackSettings(c.audio, c.settings)
	}
	if c.sync != nil {
		c.sync.Reset()
	}
	c.needsRedraw.Store(true)
}

// applyAudioPrefsLocked pushes the persisted volume and mute state onto the
// active session: the audio element in video mode, the bridge in game mode.
func (c *controller) applyAudioPrefsLocked() {
	if c.audio != nil {
		media.ApplyAudioPlaybackSettings(c.audio, c.settings)
	}
	if c.mode == ModeGame {
		c.bridge.SetMuted(c.settings.Muted() || !c.settings.AudioAllowed())
		c.bridge.SetVolume(c.settings.Volume())
	}
}
