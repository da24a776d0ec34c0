package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/content"
	"github.com/Carmen-Shannon/oxy-arcade/common"
)

var testRect = common.Rect{X: 0, Y: 0, W: 2048, H: 1152}

func TestComputeDeterministic(t *testing.T) {
	games := content.Games()
	videos := content.Videos()
	a := Compute(testRect, games, videos)
	b := Compute(testRect, games, videos)
	assert.Equal(t, a, b)
}

func TestComputeSlotCounts(t *testing.T) {
	l := Compute(testRect, content.Games(), content.Videos())
	assert.Len(t, l.Games, len(content.Games()))
	assert.Len(t, l.Videos, len(content.Videos()))
	assert.Greater(t, l.ItemHeight, 0.0)
}

func TestGameSlotsStackedAndCentered(t *testing.T) {
	l := Compute(testRect, content.Games(), content.Videos())
	require.NotEmpty(t, l.Games)

	for i := 1; i < len(l.Games); i++ {
		prev := l.Games[i-1].Rect
		cur := l.Games[i].Rect
		assert.Greater(t, cur.Y, prev.Y+prev.H, "slots must not overlap")
		assert.Equal(t, prev.X, cur.X)
		assert.Equal(t, prev.W, cur.W)
		assert.Equal(t, prev.H, cur.H)
	}

	first := l.Games[0].Rect
	last := l.Games[len(l.Games)-1].Rect
	topGap := first.Y - testRect.Y
	bottomGap := (testRect.Y + testRect.H) - (last.Y + last.H)
	assert.InDelta(t, topGap, bottomGap, 0.001, "block must be vertically centered")
}

func TestGameSlotHeightBounds(t *testing.T) {
	// Tall container: slot height hits the relative cap.
	l := Compute(testRect, content.Games(), nil)
	assert.LessOrEqual(t, l.ItemHeight, testRect.H*maxItemRatio+0.001)

	// Tiny container: the relative cap undercuts the 32px floor and wins.
	small := common.Rect{X: 0, Y: 0, W: 320, H: 120}
	l = Compute(small, content.Games(), nil)
	assert.InDelta(t, small.H*maxItemRatio, l.ItemHeight, 0.001)

	// Many items in a tall container: the per-item share drops below the
	// floor and the floor holds.
	many := make([]content.GameEntry, 12)
	tall := common.Rect{X: 0, Y: 0, W: 600, H: 400}
	l = Compute(tall, many, nil)
	assert.Equal(t, minItemHeight, l.ItemHeight)
}

func TestVideoCirclesRightAlignedFixedRadius(t *testing.T) {
	l := Compute(testRect, content.Games(), content.Videos())
	require.NotEmpty(t, l.Videos)

	r := l.Videos[0].Circle.R
	for _, v := range l.Videos {
		assert.Equal(t, r, v.Circle.R)
		assert.Equal(t, l.Videos[0].Circle.CX, v.Circle.CX)
		assert.LessOrEqual(t, v.Circle.CX+v.Circle.R, testRect.X+testRect.W)
	}
	assert.Greater(t, l.Videos[0].Circle.CX, testRect.X+testRect.W/2, "circles live on the right side")
}

func TestHitTestInsideGameRect(t *testing.T) {
	games := content.Games()
	videos := content.Videos()
	l := Compute(testRect, games, videos)
	for i, g := range l.Games {
		cx, cy := g.Rect.Center()
		hit := HitTest(cx, cy, &testRect, games, videos)
		require.NotNil(t, hit)
		assert.Equal(t, KindGame, hit.Kind)
		assert.Equal(t, i, hit.Index)
	}
}

func TestHitTestInsideVideoCircle(t *testing.T) {
	games := content.Games()
	videos := content.Videos()
	l := Compute(testRect, games, videos)
	for i, v := range l.Videos {
		hit := HitTest(v.Circle.CX, v.Circle.CY, &testRect, games, videos)
		require.NotNil(t, hit)
		assert.Equal(t, KindVideo, hit.Kind)
		assert.Equal(t, i, hit.Index)
	}
}

func TestHitTestOutsideEverySlot(t *testing.T) {
	games := content.Games()
	videos := content.Videos()
	// Top-left corner sits inside the margin, outside every slot.
	assert.Nil(t, HitTest(testRect.X+1, testRect.Y+1, &testRect, games, videos))
	// Point beyond the container entirely.
	assert.Nil(t, HitTest(-50, -50, &testRect, games, videos))
}

func TestHitTestNilRect(t *testing.T) {
	assert.Nil(t, HitTest(100, 100, nil, content.Games(), content.Videos()))
}

func TestComputeEmptyCatalogs(t *testing.T) {
	l := Compute(testRect, nil, nil)
	assert.Empty(t, l.Games)
	assert.Empty(t, l.Videos)
	assert.Zero(t, l.ItemHeight)
}
