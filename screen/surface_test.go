package screen

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-arcade/common"
)

func pixelAt(s *Surface, x, y int) color.RGBA {
	i := s.Image().PixOffset(x, y)
	p := s.Image().Pix
	return color.RGBA{p[i], p[i+1], p[i+2], p[i+3]}
}

func TestNewSurfaceForAspect(t *testing.T) {
	wide := NewSurfaceForAspect(16.0 / 9.0)
	assert.Equal(t, BaseResolution, wide.Width())
	assert.Equal(t, 1152, wide.Height())

	tall := NewSurfaceForAspect(0.5)
	assert.Equal(t, BaseResolution, tall.Height())
	assert.Equal(t, 1024, tall.Width())

	bad := NewSurfaceForAspect(0)
	assert.Equal(t, BaseResolution, bad.Width())
}

func TestDirtyTracking(t *testing.T) {
	s := NewSurface(16, 16)
	assert.True(t, s.Dirty())
	s.MarkClean()
	assert.False(t, s.Dirty())
	s.FillRect(common.Rect{X: 0, Y: 0, W: 4, H: 4}, color.RGBA{A: 0xff})
	assert.True(t, s.Dirty())
}

func TestFillRectClipsAndStores(t *testing.T) {
	s := NewSurface(8, 8)
	red := color.RGBA{R: 0xff, A: 0xff}
	s.FillRect(common.Rect{X: -4, Y: -4, W: 8, H: 8}, red)
	assert.Equal(t, red, pixelAt(s, 0, 0))
	assert.Equal(t, red, pixelAt(s, 3, 3))
	assert.Equal(t, color.RGBA{}, pixelAt(s, 4, 4))
}

func TestBlendTranslucentOverOpaque(t *testing.T) {
	s := NewSurface(2, 2)
	s.Clear(color.RGBA{A: 0xff})
	s.FillRect(s.Bounds(), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80})
	got := pixelAt(s, 0, 0)
	assert.Equal(t, uint8(0xff), got.A)
	assert.InDelta(t, 128, int(got.R), 1)
}

func TestFillCircleContainsCenterNotCorner(t *testing.T) {
	s := NewSurface(20, 20)
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	s.FillCircle(common.Circle{CX: 10, CY: 10, R: 5}, white)
	assert.Equal(t, white, pixelAt(s, 10, 10))
	assert.Equal(t, color.RGBA{}, pixelAt(s, 0, 0))
}

func TestDrawImageNilIsNoOp(t *testing.T) {
	s := NewSurface(4, 4)
	s.MarkClean()
	s.DrawImage(nil, s.Bounds())
	assert.False(t, s.Dirty())
}

func TestDrawImageScales(t *testing.T) {
	src := NewSurface(2, 2)
	src.FillRect(common.Rect{X: 0, Y: 0, W: 1, H: 2}, color.RGBA{R: 0xff, A: 0xff})
	src.FillRect(common.Rect{X: 1, Y: 0, W: 1, H: 2}, color.RGBA{B: 0xff, A: 0xff})

	dst := NewSurface(8, 8)
	dst.DrawImage(src.Image(), dst.Bounds())
	assert.Equal(t, uint8(0xff), pixelAt(dst, 1, 4).R)
	assert.Equal(t, uint8(0xff), pixelAt(dst, 6, 4).B)
}

func TestMeasureTextScalesWithSize(t *testing.T) {
	w1, h1 := MeasureText("play", 13)
	w2, h2 := MeasureText("play", 26)
	require.Greater(t, w1, 0.0)
	assert.Equal(t, w1*2, w2)
	assert.Equal(t, h1*2, h2)
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("#4b1b74")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{0x4b, 0x1b, 0x74, 0xff}, c)

	c, ok = ParseColor("rgba(12, 12, 12, 0.82)")
	require.True(t, ok)
	assert.Equal(t, uint8(12), c.R)
	assert.InDelta(t, 209, int(c.A), 1)

	c, ok = ParseColor("#fff")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, c)

	_, ok = ParseColor("papayawhip")
	assert.False(t, ok)
}

func TestThemeFallbacks(t *testing.T) {
	var th Theme
	assert.Equal(t, color.RGBA{0x4b, 0x1b, 0x74, 0xff}, th.Color(StyleLetterbox))

	th.Lookup = func(name string) (string, bool) {
		if name == StyleLetterbox {
			return "#102030", true
		}
		return "", false
	}
	assert.Equal(t, color.RGBA{0x10, 0x20, 0x30, 0xff}, th.Color(StyleLetterbox))
	assert.Equal(t, color.RGBA{0x0b, 0x0f, 0x1a, 0xff}, th.Color(StyleControlsBG))
}
