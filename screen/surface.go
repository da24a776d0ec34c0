// Package screen implements the offscreen 2D surface whose pixels are
// uploaded each frame as the texture on the 3D arcade screen mesh. It is a
// small software rasterizer over an RGBA buffer: fills, strokes, circles,
// letterboxed image blits, and text. The surface is exclusively owned by the
// scene controller; collaborators draw only when handed the surface by it.
package screen

import (
	"image"
	"image/color"
	"math"

	"github.com/Carmen-Shannon/oxy-arcade/common"
)

// BaseResolution is the long-edge pixel size used when deriving a surface
// from a screen mesh aspect ratio.
const BaseResolution = 2048

// Surface is a fixed-size RGBA drawing surface with a dirty flag used to
// gate GPU texture re-uploads. Not safe for concurrent use; the owning
// controller serializes access.
type Surface struct {
	img   *image.RGBA
	w, h  int
	dirty bool
}

// NewSurface creates a surface with the given pixel dimensions.
//
// Parameters:
//   - w, h: pixel dimensions (clamped to at least 1x1)
//
// Returns:
//   - *Surface: the new surface, fully transparent and marked dirty
func NewSurface(w, h int) *Surface {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Surface{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		w:     w,
		h:     h,
		dirty: true,
	}
}

// NewSurfaceForAspect creates a surface sized from an aspect ratio, with the
// longer edge at BaseResolution. Mirrors how the screen canvas is sized from
// the screen mesh's bounding box.
func NewSurfaceForAspect(aspect float64) *Surface {
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		aspect = 16.0 / 9.0
	}
	if aspect >= 1 {
		return NewSurface(BaseResolution, int(math.Round(BaseResolution/aspect)))
	}
	return NewSurface(int(math.Round(BaseResolution*aspect)), BaseResolution)
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.w }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.h }

// Bounds returns the full surface as a Rect.
func (s *Surface) Bounds() common.Rect {
	return common.Rect{X: 0, Y: 0, W: float64(s.w), H: float64(s.h)}
}

// Pixels returns the raw RGBA pixel data for texture upload. The slice is a
// live view; callers must not retain it across draws.
func (s *Surface) Pixels() []byte { return s.img.Pix }

// Image returns the backing image. Used by blits between surfaces.
func (s *Surface) Image() *image.RGBA { return s.img }

// Dirty reports whether the surface changed since the last MarkClean.
func (s *Surface) Dirty() bool { return s.dirty }

// MarkDirty flags the surface for texture re-upload.
func (s *Surface) MarkDirty() { s.dirty = true }

// MarkClean clears the dirty flag after the texture has been uploaded.
func (s *Surface) MarkClean() { s.dirty = false }

// Clear fills the entire surface with the given color (no blending).
func (s *Surface) Clear(c color.RGBA) {
	pix := s.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
	s.dirty = true
}

// FillRect fills a rectangle with src-over blending when the color is
// translucent, or a direct store when opaque.
func (s *Surface) FillRect(r common.Rect, c color.RGBA) {
	x0, y0, x1, y1 := s.clipRect(r)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			s.blend(x, y, c)
		}
	}
	s.dirty = true
}

// StrokeRect strokes a rectangle outline with the given line width.
func (s *Surface) StrokeRect(r common.Rect, width float64, c color.RGBA) {
	w := math.Max(1, width)
	s.FillRect(common.Rect{X: r.X, Y: r.Y, W: r.W, H: w}, c)
	s.FillRect(common.Rect{X: r.X, Y: r.Y + r.H - w, W: r.W, H: w}, c)
	s.FillRect(common.Rect{X: r.X, Y: r.Y, W: w, H: r.H}, c)
	s.FillRect(common.Rect{X: r.X + r.W - w, Y: r.Y, W: w, H: r.H}, c)
}

// FillRoundRect fills a rectangle with quarter-circle corners of the given
// radius, matching the canvas roundRect path used by the menu pills.
func (s *Surface) FillRoundRect(r common.Rect, radius float64, c color.RGBA) {
	radius = math.Min(radius, math.Min(r.W, r.H)/2)
	if radius <= 0 {
		s.FillRect(r, c)
		return
	}
	// Center body plus side strips.
	s.FillRect(common.Rect{X: r.X + radius, Y: r.Y, W: r.W - 2*radius, H: r.H}, c)
	s.FillRect(common.Rect{X: r.X, Y: r.Y + radius, W: radius, H: r.H - 2*radius}, c)
	s.FillRect(common.Rect{X: r.X + r.W - radius, Y: r.Y + radius, W: radius, H: r.H - 2*radius}, c)
	// Corner quadrants.
	s.fillCircleQuadrant(r.X+radius, r.Y+radius, radius, -1, -1, c)
	s.fillCircleQuadrant(r.X+r.W-radius, r.Y+radius, radius, 1, -1, c)
	s.fillCircleQuadrant(r.X+radius, r.Y+r.H-radius, radius, -1, 1, c)
	s.fillCircleQuadrant(r.X+r.W-radius, r.Y+r.H-radius, radius, 1, 1, c)
	s.dirty = true
}

// FillCircle fills a circle.
func (s *Surface) FillCircle(circ common.Circle, c color.RGBA) {
	x0 := int(math.Floor(circ.CX - circ.R))
	x1 := int(math.Ceil(circ.CX + circ.R))
	y0 := int(math.Floor(circ.CY - circ.R))
	y1 := int(math.Ceil(circ.CY + circ.R))
	r2 := circ.R * circ.R
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - circ.CX
			dy := float64(y) + 0.5 - circ.CY
			if dx*dx+dy*dy <= r2 {
				s.blend(x, y, c)
			}
		}
	}
	s.dirty = true
}

// StrokeCircle strokes a circle outline with the given line width.
func (s *Surface) StrokeCircle(circ common.Circle, width float64, c color.RGBA) {
	outer := circ.R + width/2
	inner := circ.R - width/2
	if inner < 0 {
		inner = 0
	}
	x0 := int(math.Floor(circ.CX - outer))
	x1 := int(math.Ceil(circ.CX + outer))
	y0 := int(math.Floor(circ.CY - outer))
	y1 := int(math.Ceil(circ.CY + outer))
	o2 := outer * outer
	i2 := inner * inner
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - circ.CX
			dy := float64(y) + 0.5 - circ.CY
			d := dx*dx + dy*dy
			if d <= o2 && d >= i2 {
				s.blend(x, y, c)
			}
		}
	}
	s.dirty = true
}

// Line draws a straight line segment of the given width.
func (s *Surface) Line(x0, y0, x1, y1, width float64, c color.RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		s.FillCircle(common.Circle{CX: x0, CY: y0, R: math.Max(0.5, width/2)}, c)
		return
	}
	steps := int(math.Ceil(length))
	r := math.Max(0.5, width/2)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.FillCircle(common.Circle{CX: x0 + dx*t, CY: y0 + dy*t, R: r}, c)
	}
}

// FillTriangle fills the triangle (x0,y0)-(x1,y1)-(x2,y2) using edge tests.
// Used for play icons and the back chevron fill.
func (s *Surface) FillTriangle(x0, y0, x1, y1, x2, y2 float64, c color.RGBA) {
	minX := int(math.Floor(math.Min(x0, math.Min(x1, x2))))
	maxX := int(math.Ceil(math.Max(x0, math.Max(x1, x2))))
	minY := int(math.Floor(math.Min(y0, math.Min(y1, y2))))
	maxY := int(math.Ceil(math.Max(y0, math.Max(y1, y2))))

	edge := func(ax, ay, bx, by, px, py float64) float64 {
		return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
	}
	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			py := float64(y) + 0.5
			w0 := edge(x1, y1, x2, y2, px, py)
			w1 := edge(x2, y2, x0, y0, px, py)
			w2 := edge(x0, y0, x1, y1, px, py)
			if (w0 >= 0 && w1 >= 0 && w2 >= 0 && area > 0) ||
				(w0 <= 0 && w1 <= 0 && w2 <= 0 && area < 0) {
				s.blend(x, y, c)
			}
		}
	}
	s.dirty = true
}

// DrawImage blits src scaled into dst using nearest-neighbor sampling.
// Out-of-bounds destination pixels are clipped; a nil or empty source is a
// no-op so a missing frame never blanks the surface.
func (s *Surface) DrawImage(src *image.RGBA, dst common.Rect) {
	if src == nil {
		return
	}
	sb := src.Bounds()
	sw := sb.Dx()
	sh := sb.Dy()
	if sw <= 0 || sh <= 0 || dst.W <= 0 || dst.H <= 0 {
		return
	}
	x0, y0, x1, y1 := s.clipRect(dst)
	for y := y0; y < y1; y++ {
		sy := sb.Min.Y + int((float64(y)-dst.Y)/dst.H*float64(sh))
		if sy < sb.Min.Y {
			sy = sb.Min.Y
		}
		if sy >= sb.Max.Y {
			sy = sb.Max.Y - 1
		}
		for x := x0; x < x1; x++ {
			sx := sb.Min.X + int((float64(x)-dst.X)/dst.W*float64(sw))
			if sx < sb.Min.X {
				sx = sb.Min.X
			}
			if sx >= sb.Max.X {
				sx = sb.Max.X - 1
			}
			i := src.PixOffset(sx, sy)
			s.blend(x, y, color.RGBA{src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]})
		}
	}
	s.dirty = true
}

// WithAlpha returns c with its alpha scaled by a (0..1), premultiplying the
// translucency into the color the way canvas globalAlpha composes fills.
func WithAlpha(c color.RGBA, a float64) color.RGBA {
	a = common.Clamp01(a)
	c.A = uint8(math.Round(float64(c.A) * a))
	return c
}

// fillCircleQuadrant fills one quadrant of a circle centered at (cx, cy).
// qx/qy select the quadrant sign (+1 or -1 on each axis).
func (s *Surface) fillCircleQuadrant(cx, cy, r float64, qx, qy int, c color.RGBA) {
	r2 := r * r
	for dy := 0.5; dy <= r; dy++ {
		for dx := 0.5; dx <= r; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			x := int(cx + dx*float64(qx))
			y := int(cy + dy*float64(qy))
			s.blend(x, y, c)
		}
	}
}

// clipRect converts a float rect into clipped integer pixel bounds.
func (s *Surface) clipRect(r common.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(r.X))
	y0 = int(math.Floor(r.Y))
	x1 = int(math.Ceil(r.X + r.W))
	y1 = int(math.Ceil(r.Y + r.H))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > s.w {
		x1 = s.w
	}
	if y1 > s.h {
		y1 = s.h
	}
	return
}

// blend writes a pixel with src-over alpha blending. Opaque colors store
// directly. Out-of-bounds writes are discarded.
func (s *Surface) blend(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	i := s.img.PixOffset(x, y)
	pix := s.img.Pix
	if c.A == 0xff {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = 0xff
		return
	}
	if c.A == 0 {
		return
	}
	a := uint32(c.A)
	ia := 255 - a
	pix[i] = uint8((uint32(c.R)*a + uint32(pix[i])*ia) / 255)
	pix[i+1] = uint8((uint32(c.G)*a + uint32(pix[i+1])*ia) / 255)
	pix[i+2] = uint8((uint32(c.B)*a + uint32(pix[i+2])*ia) / 255)
	outA := a + uint32(pix[i+3])*ia/255
	if outA > 255 {
		outA = 255
	}
	pix[i+3] = uint8(outA)
}
