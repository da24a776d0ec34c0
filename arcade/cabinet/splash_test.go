package cabinet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplashProgressEasing(t *testing.T) {
	start := time.Unix(1000, 0)
	s := NewSplash("Battleship", 1000*time.Millisecond, start)

	assert.InDelta(t, 0.0, s.Progress(start), 1e-9)
	// The first 78% of the time covers 92% of the bar.
	assert.InDelta(t, 0.46, s.Progress(start.Add(390*time.Millisecond)), 1e-9)
	assert.InDelta(t, 0.92, s.Progress(start.Add(780*time.Millisecond)), 1e-9)
	assert.InDelta(t, 1.0, s.Progress(start.Add(1000*time.Millisecond)), 1e-9)
	// Clamped past the end.
	assert.InDelta(t, 1.0, s.Progress(start.Add(5*time.Second)), 1e-9)
}

func TestSplashDismissOnlyWhenReady(t *testing.T) {
	start := time.Unix(1000, 0)
	s := NewSplash("Plinko", 500*time.Millisecond, start)

	early := start.Add(100 * time.Millisecond)
	assert.False(t, s.Ready(early))
	assert.False(t, s.Dismiss(early))
	assert.False(t, s.dismissed)

	done := start.Add(500 * time.Millisecond)
	assert.True(t, s.Ready(done))
	assert.True(t, s.Dismiss(done))
	assert.True(t, s.Done())
}

func TestSplashDefaultDuration(t *testing.T) {
	start := time.Unix(1000, 0)
	s := NewSplash("Train Mania", 0, start)

	assert.False(t, s.Ready(start.Add(DefaultSplashDuration-time.Millisecond)))
	assert.True(t, s.Ready(start.Add(DefaultSplashDuration)))
}

func TestSplashTimerAloneNeverCompletes(t *testing.T) {
	start := time.Unix(1000, 0)
	s := NewSplash("Pick a Square", 300*time.Millisecond, start)

	// Long after the bar fills, the timer has only enabled the play control;
	// the splash itself stays until that control is clicked.
	late := start.Add(time.Hour)
	assert.True(t, s.Ready(late))
	assert.False(t, s.Done())

	assert.True(t, s.Dismiss(late))
	assert.True(t, s.Done())
}
