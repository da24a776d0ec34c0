package screen

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Theme resolves named style values for the drawn surfaces. Values come from
// an optional lookup (site settings, config file) with hard-coded fallbacks,
// so the cabinet renders sensibly with no theme source at all.
type Theme struct {
	// Lookup returns the raw value for a style name, or false when the name
	// is not customized. Nil means every name falls back.
	Lookup func(name string) (string, bool)
}

// Style names recognized by the arcade surfaces.
const (
	StyleLetterbox  = "secondary-color"
	StyleControlsBG = "controls-bg"
	StyleControlsFG = "controls-fg"
)

var themeFallbacks = map[string]string{
	StyleLetterbox:  "#4b1b74",
	StyleControlsBG: "#0b0f1a",
	StyleControlsFG: "#f4b34a",
}

// Color resolves a style name to a color, falling back first to the built-in
// default for the name and then to white.
func (t Theme) Color(name string) color.RGBA {
	if t.Lookup != nil {
		if raw, ok := t.Lookup(name); ok {
			if c, ok := ParseColor(raw); ok {
				return c
			}
		}
	}
	if raw, ok := themeFallbacks[name]; ok {
		if c, ok := ParseColor(raw); ok {
			return c
		}
	}
	return color.RGBA{0xff, 0xff, 0xff, 0xff}
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" and "rgba(r,g,b,a)"
// strings into an RGBA color.
//
// Parameters:
//   - s: the color string (surrounding whitespace is ignored)
//
// Returns:
//   - color.RGBA: the parsed color
//   - bool: false when s is not a recognized format
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")") {
		return parseRGBA(s[5 : len(s)-1])
	}
	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		return parseRGBA(s[4 : len(s)-1])
	}
	return color.RGBA{}, false
}

func parseHex(h string) (color.RGBA, bool) {
	switch len(h) {
	case 3:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string(h[i]), 16, 8)
			if err != nil {
				return color.RGBA{}, false
			}
			out[i] = uint8(v*16 + v)
		}
		return color.RGBA{out[0], out[1], out[2], 0xff}, true
	case 6, 8:
		var out [4]uint8
		out[3] = 0xff
		for i := 0; i*2 < len(h); i++ {
			v, err := strconv.ParseUint(h[i*2:i*2+2], 16, 8)
			if err != nil {
				return color.RGBA{}, false
			}
			out[i] = uint8(v)
		}
		return color.RGBA{out[0], out[1], out[2], out[3]}, true
	default:
		return color.RGBA{}, false
	}
}

func parseRGBA(body string) (color.RGBA, bool) {
	parts := strings.Split(body, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.RGBA{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.RGBA{}, false
		}
		ch[i] = uint8(v)
	}
	a := uint8(0xff)
	if len(parts) == 4 {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || f < 0 || f > 1 {
			return color.RGBA{}, false
		}
		a = uint8(math.Round(f * 255))
	}
	return color.RGBA{ch[0], ch[1], ch[2], a}, true
}
