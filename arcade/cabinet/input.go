package cabinet

import (
	"github.com/Carmen-Shannon/oxy-arcade/arcade/layout"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/videoctl"
	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/Carmen-Shannon/oxy-arcade/engine/raycast"
)

// surfacePointLocked projects a window-space pointer position through the
// camera onto the display mesh and maps the hit's texture coordinates to
// screen-surface pixels. The nearest mesh along the ray must be the display
// itself, so the cabinet body occludes the screen exactly as drawn.
//
// The mapping mirrors the display path exactly: the render pipeline flips U
// only, and the surface uploads top row first with V running downward, so a
// hit at (u, v) lands on the pixel drawn there: x = (1-u)*W, y = v*H.
func (c *controller) surfacePointLocked(x, y float64, width, height int) (dx, dy float64, ok bool) {
	screenMesh := c.scn.ScreenMesh()
	if screenMesh == nil {
		return 0, 0, false
	}
	ndcX, ndcY := raycast.NDCFromWindow(x, y, width, height)
	ray := raycast.FromCamera(c.scn.Camera(), ndcX, ndcY)
	hit, found := raycast.Nearest(ray, c.scn.Meshes())
	if !found || hit.Mesh != screenMesh {
		return 0, 0, false
	}
	dx = (1 - float64(hit.U)) * float64(c.surface.Width())
	dy = float64(hit.V) * float64(c.surface.Height())
	return dx, dy, true
}

// forwardUV converts a surface point inside the letterboxed game rect into
// the UV space the forwarder expects. The forwarder's canvas mapping mirrors
// horizontally, so the mirror is pre-applied here and the two cancel out.
func forwardUV(dx, dy float64, r common.Rect) (u, v float64) {
	u = 1 - common.Clamp01((dx-r.X)/r.W)
	v = common.Clamp01((dy - r.Y) / r.H)
	return u, v
}

// menuDragThreshold separates an orbit drag from a sloppy click, in window
// pixels.
const menuDragThreshold = 4.0

func (c *controller) PointerMove(x, y float64, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dx, dy, ok := c.surfacePointLocked(x, y, width, height)
	switch c.mode {
	case ModeMenu:
		if c.menuDragHeld {
			mx := x - c.menuDragX
			my := y - c.menuDragY
			if !c.menuDragging {
				if mx*mx+my*my < menuDragThreshold*menuDragThreshold {
					return
				}
				c.menuDragging = true
			}
			c.menuDragX, c.menuDragY = x, y
			if c.orbit.Enabled() {
				c.orbit.Rotate(mx, my)
				c.orbit.Apply(c.scn.Camera())
			}
			return
		}
		var hit *layout.Hit
		if ok {
			bounds := c.surface.Bounds()
			hit = layout.HitTest(dx, dy, &bounds, c.games, c.videos)
		}
		if !hitsEqual(hit, c.hover) {
			c.hover = hit
			c.needsRedraw.Store(true)
		}
	case ModeGame:
		if !ok || c.forwarder == nil || !c.gameInputEnabled || c.splash != nil {
			return
		}
		r := c.gameContentRectLocked()
		// Hover outside the letterbox is ignored; a drag that started
		// inside keeps reporting so the game sees the release coming.
		if !c.pointerHeld && !r.Contains(dx, dy) {
			return
		}
		u, v := forwardUV(dx, dy, r)
		c.forwarder.Move(u, v)
	}
}

func (c *controller) PointerDown(x, y float64, button int, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeMenu {
		// Any press may become an orbit drag, on or off the cabinet. The
		// spherical state re-syncs here so a drag picks up from wherever the
		// last flight left the camera.
		if button == common.MouseButtonLeft && c.orbit.Enabled() {
			c.menuDragHeld = true
			c.menuDragging = false
			c.menuDragX, c.menuDragY = x, y
			c.orbit.SyncFrom(c.scn.Camera())
		}
		return
	}

	if c.mode != ModeGame || c.forwarder == nil || !c.gameInputEnabled || c.splash != nil {
		return
	}
	dx, dy, ok := c.surfacePointLocked(x, y, width, height)
	if !ok {
		return
	}
	r := c.gameContentRectLocked()
	if !r.Contains(dx, dy) {
		return
	}
	u, v := forwardUV(dx, dy, r)
	c.pointerHeld = true
	c.forwarder.Down(u, v, button)
}

func (c *controller) PointerUp(x, y float64, button int, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dx, dy, ok := c.surfacePointLocked(x, y, width, height)
	switch c.mode {
	case ModeMenu:
		if c.menuDragHeld {
			c.menuDragHeld = false
			if c.menuDragging {
				// The press was spent navigating; don't also select.
				c.menuDragging = false
				return
			}
		}
		if !ok {
			return
		}
		bounds := c.surface.Bounds()
		hit := layout.HitTest(dx, dy, &bounds, c.games, c.videos)
		if hit == nil {
			return
		}
		switch hit.Kind {
		case layout.KindGame:
			c.enterGameLocked(c.games[hit.Index], c.clock())
		case layout.KindVideo:
			c.enterVideoLocked(c.videos[hit.Index], c.clock())
		}
	case ModeVideo:
		if !ok {
			return
		}
		c.videoPointerLocked(dx, dy)
	case ModeGame:
		c.gamePointerUpLocked(dx, dy, button, ok)
	}
}

func (c *controller) Wheel(x, y, deltaX, deltaY float64, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeMenu {
		if c.orbit.Enabled() {
			c.orbit.SyncFrom(c.scn.Camera())
			c.orbit.Zoom(deltaY)
			c.orbit.Apply(c.scn.Camera())
		}
		return
	}

	if c.mode != ModeGame || c.forwarder == nil || !c.gameInputEnabled || c.splash != nil {
		return
	}
	dx, dy, ok := c.surfacePointLocked(x, y, width, height)
	if !ok {
		return
	}
	r := c.gameContentRectLocked()
	if !r.Contains(dx, dy) {
		return
	}
	u, v := forwardUV(dx, dy, r)
	c.forwarder.Wheel(u, v, deltaX, deltaY)
}

// videoPointerLocked routes a click on the video screen: the speed badge
// first, then the playback chrome, and finally the video area itself, which
// toggles play/pause.
func (c *controller) videoPointerLocked(dx, dy float64) {
	vr := c.videoRectLocked()
	if speedBadgeRect(vr).Contains(dx, dy) {
		c.cycleRateLocked()
		return
	}

	c.controls.SetState(c.adapter.State())
	sw := float64(c.surface.Width())
	sh := float64(c.surface.Height())
	if c.controls.HandlePointer(dx, dy, sw, sh, nil) {
		c.needsRedraw.Store(true)
		return
	}

	if vr.Contains(dx, dy) {
		c.adapter.Dispatch(videoctl.Action{Type: videoctl.ActionTogglePlay})
		c.needsRedraw.Store(true)
	}
}

// gamePointerUpLocked completes a drag into the game, clicks the splash play
// control once the timer has enabled it, or hits the game chrome (back, mute,
// volume).
func (c *controller) gamePointerUpLocked(dx, dy float64, button int, onScreen bool) {
	if c.pointerHeld {
		c.pointerHeld = false
		if c.forwarder == nil {
			return
		}
		if !onScreen {
			// Release off-screen: clear held state without a phantom
			// click at a fabricated position.
			c.forwarder.Reset()
			return
		}
		u, v := forwardUV(dx, dy, c.gameContentRectLocked())
		c.forwarder.Up(u, v, button)
		return
	}

	if !onScreen {
		return
	}

	if c.splash != nil {
		circ := splashPlayCircle(c.surface.Bounds())
		if circ.Contains(dx, dy) && c.splash.Dismiss(c.clock()) {
			c.splash = nil
			c.needsRedraw.Store(true)
		}
		return
	}

	chrome := gameChromeLayout(float64(c.surface.Width()), float64(c.surface.Height()))
	audioAvailable := c.bridge.State().Available
	switch {
	case chrome.Back.Contains(dx, dy):
		c.exitToMenuLocked(c.clock())
	case audioAvailable && chrome.Mute.Contains(dx, dy):
		c.toggleMuteLocked()
	case audioAvailable && chrome.volumeHit(dx, dy):
		c.setVolumeLocked(chrome.volumeRatio(dx))
	}
}

func hitsEqual(a, b *layout.Hit) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind == b.Kind && a.Index == b.Index
}
