package videoctl

import (
	"image/color"
	"math"

	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/Carmen-Shannon/oxy-arcade/screen"
)

// The glyphs are drawn with simple strokes and fills at positions relative
// to their icon rect, so they scale with the chrome bar height.

func drawBackChevron(s *screen.Surface, r common.Rect, c color.RGBA) {
	s.Line(r.X+r.W*0.68, r.Y+r.H*0.22, r.X+r.W*0.32, r.Y+r.H*0.50, 2, c)
	s.Line(r.X+r.W*0.32, r.Y+r.H*0.50, r.X+r.W*0.68, r.Y+r.H*0.78, 2, c)
}

func drawPlayGlyph(s *screen.Surface, r common.Rect, paused bool, c color.RGBA) {
	if paused {
		s.FillTriangle(
			r.X+r.W*0.30, r.Y+r.H*0.20,
			r.X+r.W*0.30, r.Y+r.H*0.80,
			r.X+r.W*0.80, r.Y+r.H*0.50,
			c)
		return
	}
	s.FillRect(common.Rect{X: r.X + r.W*0.25, Y: r.Y + r.H*0.20, W: r.W * 0.20, H: r.H * 0.60}, c)
	s.FillRect(common.Rect{X: r.X + r.W*0.55, Y: r.Y + r.H*0.20, W: r.W * 0.20, H: r.H * 0.60}, c)
}

func drawMuteGlyph(s *screen.Surface, r common.Rect, muted bool, c color.RGBA) {
	// Speaker body: box plus cone.
	s.FillRect(common.Rect{X: r.X + r.W*0.20, Y: r.Y + r.H*0.35, W: r.W * 0.20, H: r.H * 0.30}, c)
	s.FillTriangle(
		r.X+r.W*0.40, r.Y+r.H*0.35,
		r.X+r.W*0.60, r.Y+r.H*0.15,
		r.X+r.W*0.60, r.Y+r.H*0.85,
		c)
	s.FillTriangle(
		r.X+r.W*0.40, r.Y+r.H*0.35,
		r.X+r.W*0.60, r.Y+r.H*0.85,
		r.X+r.W*0.40, r.Y+r.H*0.65,
		c)

	if muted {
		s.Line(r.X+r.W*0.70, r.Y+r.H*0.30, r.X+r.W*0.94, r.Y+r.H*0.70, 2, c)
		s.Line(r.X+r.W*0.94, r.Y+r.H*0.30, r.X+r.W*0.70, r.Y+r.H*0.70, 2, c)
		return
	}

	// Sound arc from -45 to +45 degrees around the cone mouth.
	cx := r.X + r.W*0.70
	cy := r.Y + r.H*0.50
	radius := r.W * 0.15
	steps := 8
	prevX := cx + radius*math.Cos(-math.Pi/4)
	prevY := cy + radius*math.Sin(-math.Pi/4)
	for i := 1; i <= steps; i++ {
		a := -math.Pi/4 + math.Pi/2*float64(i)/float64(steps)
		x := cx + radius*math.Cos(a)
		y := cy + radius*math.Sin(a)
		s.Line(prevX, prevY, x, y, 2, c)
		prevX, prevY = x, y
	}
}
