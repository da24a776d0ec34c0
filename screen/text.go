package screen

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Carmen-Shannon/oxy-arcade/common"
)

// Align selects horizontal text alignment relative to the anchor x.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// face is the single bitmap face used for all surface text. Larger sizes are
// produced by integer-scaling the rendered glyphs, which keeps the pixelated
// look consistent with the rest of the software-rendered screen.
var face = basicfont.Face7x13

// MeasureText returns the rendered width and height in pixels of s at the
// given pixel size.
func MeasureText(s string, size float64) (w, h float64) {
	scale := textScale(size)
	adv := font.MeasureString(face, s)
	return float64(adv.Ceil()) * scale, float64(face.Height) * scale
}

// DrawText renders s onto the surface with the anchor at (x, y), where y is
// the vertical center of the text line.
//
// Parameters:
//   - s: the text to draw (empty is a no-op)
//   - x, y: anchor position in surface pixels
//   - size: target glyph height in pixels (snapped to an integer scale)
//   - align: horizontal alignment relative to x
//   - c: text color
func (sf *Surface) DrawText(s string, x, y, size float64, align Align, c color.RGBA) {
	if s == "" {
		return
	}
	scale := textScale(size)
	adv := font.MeasureString(face, s)
	w1x := adv.Ceil()
	h1x := face.Height

	tmp := image.NewRGBA(image.Rect(0, 0, w1x, h1x))
	d := font.Drawer{
		Dst:  tmp,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	w := float64(w1x) * scale
	h := float64(h1x) * scale
	switch align {
	case AlignCenter:
		x -= w / 2
	case AlignRight:
		x -= w
	}
	sf.DrawImage(tmp, common.Rect{X: math.Round(x), Y: math.Round(y - h/2), W: w, H: h})
}

// DrawTextTruncated renders s like DrawText but trims it with an ellipsis to
// fit within maxW pixels. Used for menu labels in narrow pills.
func (sf *Surface) DrawTextTruncated(s string, x, y, size, maxW float64, align Align, c color.RGBA) {
	if s == "" || maxW <= 0 {
		return
	}
	if w, _ := MeasureText(s, size); w <= maxW {
		sf.DrawText(s, x, y, size, align, c)
		return
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := MeasureText(candidate, size); w <= maxW {
			sf.DrawText(candidate, x, y, size, align, c)
			return
		}
	}
}

// textScale converts a target pixel size to the integer glyph scale factor.
func textScale(size float64) float64 {
	scale := math.Round(size / float64(face.Height))
	if scale < 1 {
		scale = 1
	}
	return scale
}
