// Package layout computes the menu geometry for the arcade screen. It is a
// pure function of the container rectangle and the content catalogs: no
// state, no side effects, and bit-identical output for identical input, so
// hit-testing always agrees with whatever was last drawn.
package layout

import (
	"math"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/content"
	"github.com/Carmen-Shannon/oxy-arcade/common"
)

// Layout proportions, all relative to the container rect.
const (
	marginRatio      = 0.04 // outer margin as a fraction of min(w, h)
	maxItemRatio     = 0.12 // game slot height cap as a fraction of container height
	minItemHeight    = 32.0 // absolute floor in pixels
	gapRatio         = 0.22 // gap between game slots as a fraction of slot height
	gameWidthRatio   = 0.52 // game slot width as a fraction of container width
	videoRadiusRatio = 0.07 // video circle radius as a fraction of min(w, h)
	videoGapRatio    = 0.5  // gap between circles as a fraction of radius
)

// Kind identifies which catalog a slot or hit belongs to.
type Kind string

const (
	KindGame  Kind = "game"
	KindVideo Kind = "video"
)

// GameSlot is a positioned menu entry for a game.
type GameSlot struct {
	Index int
	Label string
	Rect  common.Rect
}

// VideoSlot is a positioned menu entry for a video.
type VideoSlot struct {
	Index  int
	Label  string
	Circle common.Circle
}

// Layout holds the computed menu geometry.
type Layout struct {
	Games  []GameSlot
	Videos []VideoSlot
	// ItemHeight is the game slot height, used by callers to size labels.
	ItemHeight float64
}

// Hit is the result of a successful hit test.
type Hit struct {
	Kind  Kind
	Index int
}

// Compute lays out the menu inside rect.
//
// Game slots stack vertically on the left, evenly gapped and vertically
// centered as a block; slot height is capped relative to the container and
// floored at an absolute minimum. Video slots are fixed-radius circles,
// right-aligned with a margin and vertically centered as a block.
//
// Parameters:
//   - rect: container rectangle in screen-surface pixels
//   - games, videos: ordered catalogs (slot Index matches list position)
//
// Returns:
//   - Layout: the computed geometry (empty slots for empty catalogs)
func Compute(rect common.Rect, games []content.GameEntry, videos []content.VideoEntry) Layout {
	minDim := math.Min(rect.W, rect.H)
	margin := minDim * marginRatio

	out := Layout{}

	if n := len(games); n > 0 {
		availH := rect.H - 2*margin
		itemH := math.Min(rect.H*maxItemRatio, math.Max(minItemHeight, availH/float64(n)))
		gap := itemH * gapRatio
		total := float64(n)*itemH + float64(n-1)*gap
		if total > availH && n > 1 {
			gap = math.Max(0, (availH-float64(n)*itemH)/float64(n-1))
			total = float64(n)*itemH + float64(n-1)*gap
		}
		top := rect.Y + (rect.H-total)/2
		w := rect.W * gameWidthRatio
		x := rect.X + margin
		out.Games = make([]GameSlot, n)
		out.ItemHeight = itemH
		for i, g := range games {
			out.Games[i] = GameSlot{
				Index: i,
				Label: g.Label,
				Rect: common.Rect{
					X: x,
					Y: top + float64(i)*(itemH+gap),
					W: w,
					H: itemH,
				},
			}
		}
	}

	if m := len(videos); m > 0 {
		r := minDim * videoRadiusRatio
		gap := r * videoGapRatio
		total := float64(m)*2*r + float64(m-1)*gap
		top := rect.Y + (rect.H-total)/2
		cx := rect.X + rect.W - margin - r
		out.Videos = make([]VideoSlot, m)
		for i, v := range videos {
			out.Videos[i] = VideoSlot{
				Index: i,
				Label: v.Label,
				Circle: common.Circle{
					CX: cx,
					CY: top + r + float64(i)*(2*r+gap),
					R:  r,
				},
			}
		}
	}

	return out
}

// HitTest maps a point in screen-surface pixels to the menu slot under it.
// Game slots are tested first (axis-aligned rect containment), then video
// circles (squared-distance); the first match wins.
//
// Parameters:
//   - x, y: point in screen-surface pixels
//   - rect: container rectangle; nil means the menu is not laid out and
//     nothing can be hit
//   - games, videos: the same catalogs the layout was drawn with
//
// Returns:
//   - *Hit: the matched slot, or nil when nothing is under the point
func HitTest(x, y float64, rect *common.Rect, games []content.GameEntry, videos []content.VideoEntry) *Hit {
	if rect == nil {
		return nil
	}
	l := Compute(*rect, games, videos)
	for _, g := range l.Games {
		if g.Rect.Contains(x, y) {
			return &Hit{Kind: KindGame, Index: g.Index}
		}
	}
	for _, v := range l.Videos {
		if v.Circle.Contains(x, y) {
			return &Hit{Kind: KindVideo, Index: v.Index}
		}
	}
	return nil
}
