package cabinet

import (
	"image/color"
	"math"
	"strconv"
	"time"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/layout"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/videoctl"
	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/Carmen-Shannon/oxy-arcade/screen"
	"go.uber.org/zap"
)

const (
	chromeBGAlpha = 0.85

	// Speed badge proportions, relative to the letterboxed video rect.
	speedBadgeWidthFrac  = 0.14
	speedBadgeHeightFrac = 0.12
	speedBadgeMarginX    = 18.0
	speedBadgeMarginY    = 20.0

	// Paused-video play affordance, relative to the video rect's min dimension.
	playOverlayRadiusFrac = 0.11

	// volumeHitSlop widens the 4px volume track's hit region.
	volumeHitSlop = 6.0

	defaultVideoAspect = 16.0 / 9.0
)

// gameChrome positions the in-game overlay for one surface size: a top bar
// with back button and title, a bottom bar with the audio controls, and the
// content rect between them. Computed identically for drawing and
// hit-testing.
type gameChrome struct {
	Top     common.Rect
	Back    common.Rect
	Bottom  common.Rect
	Mute    common.Rect
	Volume  common.Rect
	Content common.Rect
}

func gameChromeLayout(cw, ch float64) gameChrome {
	barH := math.Max(24, math.Round(ch*0.08))
	icon := math.Round(barH * 0.5)
	pad := math.Round(barH * 0.25)
	return gameChrome{
		Top:     common.Rect{X: 0, Y: 0, W: cw, H: barH},
		Back:    common.Rect{X: pad, Y: (barH - icon) / 2, W: icon, H: icon},
		Bottom:  common.Rect{X: 0, Y: ch - barH, W: cw, H: barH},
		Mute:    common.Rect{X: pad, Y: ch - barH + (barH-icon)/2, W: icon, H: icon},
		Volume:  common.Rect{X: pad*2 + icon, Y: ch - barH/2 - 2, W: cw * 0.22, H: 4},
		Content: common.Rect{X: 0, Y: barH, W: cw, H: ch - 2*barH},
	}
}

func (g gameChrome) volumeHit(x, y float64) bool {
	return x >= g.Volume.X-volumeHitSlop && x <= g.Volume.X+g.Volume.W+volumeHitSlop &&
		y >= g.Volume.Y-volumeHitSlop && y <= g.Volume.Y+g.Volume.H+volumeHitSlop
}

func (g gameChrome) volumeRatio(x float64) float64 {
	return common.Clamp01((x - g.Volume.X) / g.Volume.W)
}

// speedBadgeRect anchors the playback-rate badge to the bottom-right corner
// of the letterboxed video.
func speedBadgeRect(vr common.Rect) common.Rect {
	w := vr.W * speedBadgeWidthFrac
	h := vr.H * speedBadgeHeightFrac
	return common.Rect{
		X: vr.X + vr.W - w - speedBadgeMarginX,
		Y: vr.Y + vr.H - h - speedBadgeMarginY,
		W: w,
		H: h,
	}
}

// videoRectLocked is the letterboxed rect the video fills, using the clip's
// intrinsic aspect when known.
func (c *controller) videoRectLocked() common.Rect {
	aspect := defaultVideoAspect
	if c.video != nil {
		if w, h := c.video.NativeSize(); w > 0 && h > 0 {
			aspect = float64(w) / float64(h)
		}
	}
	return c.surface.Bounds().FitToAspect(aspect)
}

// gameContentRectLocked is the letterboxed rect the game canvas fills within
// the area between the chrome bars. Before a canvas is discovered the full
// content area is used.
func (c *controller) gameContentRectLocked() common.Rect {
	chrome := gameChromeLayout(float64(c.surface.Width()), float64(c.surface.Height()))
	canvas := c.disc.Canvas()
	if canvas == nil {
		return chrome.Content
	}
	w, h := canvas.Size()
	if w <= 0 || h <= 0 {
		return chrome.Content
	}
	return chrome.Content.FitToAspect(float64(w) / float64(h))
}

func (c *controller) drawLocked(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			if !c.loggedDrawFailure {
				c.loggedDrawFailure = true
				c.logger.Error("screen draw failed", zap.Any("panic", r))
			}
		}
	}()

	switch c.mode {
	case ModeMenu:
		c.drawMenuLocked()
	case ModeVideo:
		c.drawVideoLocked()
	case ModeGame:
		c.drawGameLocked(now)
	}
}

func (c *controller) drawMenuLocked() {
	bounds := c.surface.Bounds()
	bg := c.theme.Color(screen.StyleControlsBG)
	fg := c.theme.Color(screen.StyleControlsFG)
	accent := c.theme.Color(screen.StyleLetterbox)

	c.surface.Clear(bg)

	l := layout.Compute(bounds, c.games, c.videos)

	// Divider between the game column and the video column.
	if len(l.Games) > 0 && len(l.Videos) > 0 {
		gx := l.Games[0].Rect.X + l.Games[0].Rect.W
		vx := l.Videos[0].Circle.CX - l.Videos[0].Circle.R
		dx := gx + (vx-gx)/2
		c.surface.Line(dx, bounds.Y+bounds.H*0.1, dx, bounds.Y+bounds.H*0.9, 2,
			screen.WithAlpha(fg, 0.25))
	}

	for i, slot := range l.Games {
		hovered := c.hover != nil && c.hover.Kind == layout.KindGame && c.hover.Index == i
		r := slot.Rect
		fill := screen.WithAlpha(accent, 0.8)
		if hovered {
			// Grow around the center for the hover pop.
			grow := r.H * 0.06
			r = common.Rect{X: r.X - grow, Y: r.Y - grow, W: r.W + 2*grow, H: r.H + 2*grow}
			fill = accent
		}
		c.surface.FillRoundRect(r, r.H*0.25, fill)
		if hovered {
			c.surface.StrokeRect(r, 2, fg)
		}
		size := math.Min(l.ItemHeight*0.4, 56)
		cx, cy := r.Center()
		c.surface.DrawTextTruncated(slot.Label, cx, cy, size, r.W*0.9, screen.AlignCenter, fg)
	}

	for i, slot := range l.Videos {
		hovered := c.hover != nil && c.hover.Kind == layout.KindVideo && c.hover.Index == i
		circ := slot.Circle
		fill := screen.WithAlpha(accent, 0.8)
		if hovered {
			circ.R *= 1.08
			fill = accent
		}
		c.surface.FillCircle(circ, fill)
		if hovered {
			c.surface.StrokeCircle(circ, 2, fg)
		}
		drawPlayTriangle(c.surface, circ.CX, circ.CY, circ.R*0.5, fg)
		c.surface.DrawTextTruncated(slot.Label,
			circ.CX, circ.CY+circ.R+18,
			math.Min(circ.R*0.35, 32), circ.R*3,
			screen.AlignCenter, fg)
	}
}

func (c *controller) drawVideoLocked() {
	c.surface.Clear(c.theme.Color(screen.StyleLetterbox))

	vr := c.videoRectLocked()
	if c.video != nil {
		if frame := c.video.Frame(); frame != nil {
			c.surface.DrawImage(frame, vr)
			c.lastVideoFrame = frame
		}
	}

	state := c.adapter.State()
	c.controls.SetState(state)
	c.controls.Draw(c.surface, 1, nil)

	if state.CanPlay {
		sw := float64(c.surface.Width())
		sh := float64(c.surface.Height())
		top := videoctl.GetControlsLayout(sw, sh).Top
		c.surface.DrawTextTruncated(c.videoEntry.Label, sw/2, top.Y+top.H/2,
			top.H*0.45, sw*0.5, screen.AlignCenter, c.theme.Color(screen.StyleControlsFG))
	}

	c.drawSpeedBadge(vr, state.PlaybackRate)
	if !state.Playing {
		c.drawPlayOverlay(vr)
	}
}

func (c *controller) drawSpeedBadge(vr common.Rect, rate float64) {
	if rate <= 0 {
		rate = 1
	}
	r := speedBadgeRect(vr)
	bg := c.theme.Color(screen.StyleControlsBG)
	fg := c.theme.Color(screen.StyleControlsFG)
	c.surface.FillRoundRect(r, math.Min(r.H*0.3, 12), screen.WithAlpha(bg, chromeBGAlpha))
	label := strconv.FormatFloat(rate, 'f', -1, 64) + "x"
	cx, cy := r.Center()
	c.surface.DrawTextTruncated(label, cx, cy, r.H*0.45, r.W*0.9, screen.AlignCenter, fg)
}

func (c *controller) drawPlayOverlay(vr common.Rect) {
	radius := math.Min(vr.W, vr.H) * playOverlayRadiusFrac
	cx, cy := vr.Center()
	bg := c.theme.Color(screen.StyleControlsBG)
	fg := c.theme.Color(screen.StyleControlsFG)
	c.surface.FillCircle(common.Circle{CX: cx, CY: cy, R: radius}, screen.WithAlpha(bg, 0.7))
	c.surface.StrokeCircle(common.Circle{CX: cx, CY: cy, R: radius}, math.Max(2, radius*0.08), fg)
	drawPlayTriangle(c.surface, cx, cy, radius*0.55, fg)
}

func (c *controller) drawGameLocked(now time.Time) {
	if c.splash != nil {
		c.drawSplashLocked(now)
		return
	}

	c.surface.Clear(c.theme.Color(screen.StyleLetterbox))

	r := c.gameContentRectLocked()
	drew := false
	if canvas := c.disc.Canvas(); canvas != nil {
		if frame := canvas.Frame(); frame != nil {
			c.surface.DrawImage(frame, r)
			c.lastCanvasFrame = frame
			drew = true
		}
	}
	if !drew {
		cx, cy := r.Center()
		c.surface.DrawText("Loading...", cx, cy, math.Min(r.H*0.08, 48),
			screen.AlignCenter, c.theme.Color(screen.StyleControlsFG))
	}

	c.drawGameChromeLocked()
}

func (c *controller) drawGameChromeLocked() {
	sw := float64(c.surface.Width())
	sh := float64(c.surface.Height())
	chrome := gameChromeLayout(sw, sh)
	bg := c.theme.Color(screen.StyleControlsBG)
	fg := c.theme.Color(screen.StyleControlsFG)

	c.surface.FillRect(chrome.Top, screen.WithAlpha(bg, chromeBGAlpha))
	c.surface.FillRect(chrome.Bottom, screen.WithAlpha(bg, chromeBGAlpha))

	drawBackChevron(c.surface, chrome.Back, fg)
	c.surface.DrawTextTruncated(c.gameEntry.Label, sw/2, chrome.Top.Y+chrome.Top.H/2,
		chrome.Top.H*0.45, sw*0.5, screen.AlignCenter, fg)

	if c.bridge.State().Available {
		drawSpeakerGlyph(c.surface, chrome.Mute, c.settings.Muted(), fg)
		vol := common.Clamp01(c.settings.Volume())
		c.surface.FillRect(chrome.Volume, screen.WithAlpha(fg, 0.35))
		c.surface.FillRect(common.Rect{
			X: chrome.Volume.X, Y: chrome.Volume.Y,
			W: chrome.Volume.W * vol, H: chrome.Volume.H,
		}, fg)
		c.surface.FillCircle(common.Circle{
			CX: chrome.Volume.X + chrome.Volume.W*vol,
			CY: chrome.Volume.Y + chrome.Volume.H/2,
			R:  6,
		}, fg)
	} else {
		c.surface.DrawTextTruncated("Audio is controlled in-game",
			chrome.Mute.X, chrome.Bottom.Y+chrome.Bottom.H/2,
			chrome.Bottom.H*0.35, sw*0.6, screen.AlignLeft, screen.WithAlpha(fg, 0.7))
	}
}

func (c *controller) drawSplashLocked(now time.Time) {
	bounds := c.surface.Bounds()
	bg := c.theme.Color(screen.StyleControlsBG)
	fg := c.theme.Color(screen.StyleControlsFG)

	c.surface.Clear(bg)

	cx := bounds.X + bounds.W/2
	cy := bounds.Y + bounds.H/2
	c.surface.DrawText(c.splash.Label(), cx, cy-bounds.H*0.1,
		math.Min(bounds.H*0.08, 72), screen.AlignCenter, fg)

	track := common.Rect{
		X: cx - bounds.W*0.2,
		Y: cy + bounds.H*0.05,
		W: bounds.W * 0.4,
		H: 8,
	}
	c.surface.FillRect(track, screen.WithAlpha(fg, 0.25))
	p := c.splash.Progress(now)
	c.surface.FillRect(common.Rect{X: track.X, Y: track.Y, W: track.W * p, H: track.H}, fg)

	if c.splash.Ready(now) {
		c.surface.DrawText("Click to start", cx, track.Y+track.H+bounds.H*0.05,
			math.Min(bounds.H*0.035, 32), screen.AlignCenter, screen.WithAlpha(fg, 0.85))
		circ := splashPlayCircle(bounds)
		c.surface.FillCircle(circ, screen.WithAlpha(fg, 0.2))
		c.surface.StrokeCircle(circ, 2, fg)
		drawPlayTriangle(c.surface, circ.CX, circ.CY, circ.R*0.5, fg)
	}
}

// splashPlayCircle is the play control that dismisses a ready splash. Drawing
// and hit-testing compute the same circle.
func splashPlayCircle(bounds common.Rect) common.Circle {
	return common.Circle{
		CX: bounds.X + bounds.W/2,
		CY: bounds.Y + bounds.H*0.72,
		R:  bounds.H * 0.07,
	}
}

// drawPlayTriangle draws a rightward play glyph centered near (cx, cy); the
// horizontal offset keeps the triangle's visual center on the anchor.
func drawPlayTriangle(surface *screen.Surface, cx, cy, size float64, col color.RGBA) {
	surface.FillTriangle(cx-size*0.5, cy-size*0.9, cx-size*0.5, cy+size*0.9, cx+size, cy, col)
}

func drawBackChevron(surface *screen.Surface, r common.Rect, col color.RGBA) {
	lw := math.Max(2, r.W*0.12)
	surface.Line(r.X+r.W*0.7, r.Y+r.H*0.1, r.X+r.W*0.25, r.Y+r.H*0.5, lw, col)
	surface.Line(r.X+r.W*0.25, r.Y+r.H*0.5, r.X+r.W*0.7, r.Y+r.H*0.9, lw, col)
}

// drawSpeakerGlyph draws a speaker with sound arcs, or with a strike line
// when muted.
func drawSpeakerGlyph(surface *screen.Surface, r common.Rect, muted bool, col color.RGBA) {
	bodyW := r.W * 0.3
	surface.FillRect(common.Rect{X: r.X, Y: r.Y + r.H*0.3, W: bodyW, H: r.H * 0.4}, col)
	surface.FillTriangle(
		r.X+bodyW, r.Y+r.H*0.5,
		r.X+r.W*0.6, r.Y+r.H*0.1,
		r.X+r.W*0.6, r.Y+r.H*0.9,
		col)
	lw := math.Max(2, r.W*0.1)
	if muted {
		surface.Line(r.X+r.W*0.65, r.Y+r.H*0.25, r.X+r.W, r.Y+r.H*0.75, lw, col)
		surface.Line(r.X+r.W*0.65, r.Y+r.H*0.75, r.X+r.W, r.Y+r.H*0.25, lw, col)
		return
	}
	surface.Line(r.X+r.W*0.72, r.Y+r.H*0.35, r.X+r.W*0.82, r.Y+r.H*0.5, lw, col)
	surface.Line(r.X+r.W*0.82, r.Y+r.H*0.5, r.X+r.W*0.72, r.Y+r.H*0.65, lw, col)
}
