package videoctl

import (
	"image/color"
	"math"

	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/Carmen-Shannon/oxy-arcade/screen"
)

const (
	// progressHitSlop widens the progress bar's vertical hit region so the
	// 4px track is actually clickable.
	progressHitSlop = 6.0
	// controlsBGAlpha is the default opacity of the chrome bars.
	controlsBGAlpha = 0.85
	// progressDotRadius is the playhead dot on the progress track.
	progressDotRadius = 6.0
)

// ControlsLayout positions the playback chrome for one surface size. The
// same layout is computed for drawing and for hit-testing, so clicks always
// land on what was last drawn.
type ControlsLayout struct {
	Top      common.Rect
	Bottom   common.Rect
	Back     common.Rect
	Play     common.Rect
	Mute     common.Rect
	Progress common.Rect
}

// GetControlsLayout computes the chrome layout for a surface of the given
// pixel dimensions. Pure function; identical inputs give identical output.
func GetControlsLayout(cw, ch float64) ControlsLayout {
	barH := math.Max(24, math.Round(ch*0.08))
	icon := math.Round(barH * 0.5)
	pad := math.Round(barH * 0.25)
	return ControlsLayout{
		Top:  common.Rect{X: 0, Y: 0, W: cw, H: barH},
		Back: common.Rect{X: pad, Y: (barH - icon) / 2, W: icon, H: icon},
		Bottom: common.Rect{
			X: 0,
			Y: ch - barH,
			W: cw,
			H: barH,
		},
		Play: common.Rect{X: pad, Y: ch - barH + (barH-icon)/2, W: icon, H: icon},
		Mute: common.Rect{X: pad*2 + icon, Y: ch - barH + (barH-icon)/2, W: icon, H: icon},
		Progress: common.Rect{
			X: pad*3 + icon*2,
			Y: ch - barH + barH/2 - 2,
			W: cw - (pad*4 + icon*2),
			H: 4,
		},
	}
}

// ControlsUI draws the playback chrome and routes pointer hits to actions.
type ControlsUI interface {
	// SetState installs the snapshot the next Draw and HandlePointer use.
	SetState(s State)
	// SetOnAction registers the action sink.
	SetOnAction(fn func(Action))
	// Draw renders the chrome onto the surface. When drawLegacy is non-nil
	// it fully replaces the default rendering. alpha scales the whole
	// chrome for fade effects.
	Draw(surface *screen.Surface, alpha float64, drawLegacy func())
	// HandlePointer maps a pointer-up at surface coordinates (x, y) to an
	// action. When delegate is non-nil it replaces the default routing.
	// Returns whether the event was consumed.
	HandlePointer(x, y, cw, ch float64, delegate func(x, y float64) bool) bool
}

var _ ControlsUI = &controlsUI{}

type controlsUI struct {
	state         State
	hasState      bool
	onAction      func(Action)
	theme         screen.Theme
	enablePointer bool
}

// ControlsOption configures a ControlsUI at construction.
type ControlsOption func(*controlsUI)

// WithTheme sets the color theme for the chrome.
func WithTheme(theme screen.Theme) ControlsOption {
	return func(c *controlsUI) {
		c.theme = theme
	}
}

// WithPointerDisabled turns off pointer handling; draw-only chrome.
func WithPointerDisabled() ControlsOption {
	return func(c *controlsUI) {
		c.enablePointer = false
	}
}

// NewControlsUI creates the playback controls renderer.
func NewControlsUI(opts ...ControlsOption) ControlsUI {
	c := &controlsUI{enablePointer: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *controlsUI) SetState(s State) {
	c.state = s
	c.hasState = true
}

func (c *controlsUI) SetOnAction(fn func(Action)) {
	c.onAction = fn
}

func (c *controlsUI) Draw(surface *screen.Surface, alpha float64, drawLegacy func()) {
	if drawLegacy != nil {
		drawLegacy()
		return
	}
	if surface == nil || !c.hasState || !c.state.CanPlay {
		return
	}
	alpha = common.Clamp01(alpha)
	cw := float64(surface.Width())
	ch := float64(surface.Height())
	ui := GetControlsLayout(cw, ch)

	bg := c.theme.Color(screen.StyleControlsBG)
	fg := c.theme.Color(screen.StyleControlsFG)

	surface.FillRect(ui.Top, screen.WithAlpha(bg, alpha*controlsBGAlpha))
	surface.FillRect(ui.Bottom, screen.WithAlpha(bg, alpha*controlsBGAlpha))

	tint := screen.WithAlpha(fg, alpha)
	drawBackChevron(surface, ui.Back, tint)
	drawPlayGlyph(surface, ui.Play, !c.state.Playing, tint)
	drawMuteGlyph(surface, ui.Mute, c.state.Muted, tint)
	c.drawProgress(surface, ui.Progress, fg, alpha)
}

func (c *controlsUI) drawProgress(surface *screen.Surface, r common.Rect, fg color.RGBA, alpha float64) {
	surface.FillRect(r, screen.WithAlpha(fg, alpha*0.35))
	progress := 0.0
	if c.state.Duration > 0 {
		progress = common.Clamp01(c.state.CurrentTime / c.state.Duration)
	}
	surface.FillRect(common.Rect{X: r.X, Y: r.Y, W: r.W * progress, H: r.H}, screen.WithAlpha(fg, alpha))
	surface.FillCircle(common.Circle{CX: r.X + r.W*progress, CY: r.Y + r.H/2, R: progressDotRadius}, screen.WithAlpha(fg, alpha))
}

func (c *controlsUI) HandlePointer(x, y, cw, ch float64, delegate func(x, y float64) bool) bool {
	if !c.enablePointer {
		return false
	}
	if delegate != nil {
		return delegate(x, y)
	}
	if !c.hasState {
		return false
	}
	ui := GetControlsLayout(cw, ch)

	switch {
	case ui.Back.Contains(x, y):
		c.emit(Action{Type: ActionExit})
		return true
	case ui.Play.Contains(x, y):
		c.emit(Action{Type: ActionTogglePlay})
		return true
	case ui.Mute.Contains(x, y):
		c.emit(Action{Type: ActionToggleMute})
		return true
	case y >= ui.Progress.Y-progressHitSlop && y <= ui.Progress.Y+ui.Progress.H+progressHitSlop:
		ratio := common.Clamp01((x - ui.Progress.X) / ui.Progress.W)
		c.emit(Action{Type: ActionSeekToRatio, Ratio: ratio})
		return true
	}
	return false
}

func (c *controlsUI) emit(a Action) {
	if c.onAction != nil {
		c.onAction(a)
	}
}
