package cabinet

import (
	"time"

	"github.com/Carmen-Shannon/oxy-arcade/common"
)

// DefaultSplashDuration is the splash length for games without an override.
const DefaultSplashDuration = 3000 * time.Millisecond

// Splash progress easing split: the first 78% of elapsed time maps onto 92%
// of the bar, the remaining 22% onto the final 8%. The bar visibly stalls
// near completion, masking the embedded game's load latency.
const (
	splashTimeSplit     = 0.78
	splashProgressSplit = 0.92
)

// Splash is the per-game loading screen state: a timed progress bar plus a
// dismiss affordance that enables once the bar completes.
type Splash struct {
	label     string
	start     time.Time
	duration  time.Duration
	dismissed bool
}

// NewSplash starts a splash at the given instant. Non-positive durations fall
// back to the default.
//
// Parameters:
//   - label: the game title shown on the splash
//   - duration: total splash length
//   - now: the start instant
//
// Returns:
//   - *Splash: the running splash
func NewSplash(label string, duration time.Duration, now time.Time) *Splash {
	if duration <= 0 {
		duration = DefaultSplashDuration
	}
	return &Splash{label: label, start: now, duration: duration}
}

// Label returns the game title shown on the splash.
func (s *Splash) Label() string {
	return s.label
}

// Progress returns the eased bar position in [0, 1] at the given instant.
func (s *Splash) Progress(now time.Time) float64 {
	elapsed := now.Sub(s.start).Seconds() / s.duration.Seconds()
	elapsed = common.Clamp01(elapsed)
	if elapsed <= splashTimeSplit {
		return elapsed / splashTimeSplit * splashProgressSplit
	}
	return splashProgressSplit + (elapsed-splashTimeSplit)/(1-splashTimeSplit)*(1-splashProgressSplit)
}

// Ready reports whether the timer has run its course, enabling the play
// affordance.
func (s *Splash) Ready(now time.Time) bool {
	return now.Sub(s.start) >= s.duration
}

// Dismiss marks the splash as dismissed by the user. Only honored once the
// splash is ready.
//
// Returns:
//   - bool: whether the dismissal was accepted
func (s *Splash) Dismiss(now time.Time) bool {
	if !s.Ready(now) {
		return false
	}
	s.dismissed = true
	return true
}

// Done reports whether the user dismissed the splash. The timer alone never
// completes it; a finished bar only enables the play control, and the splash
// stays up until that control is clicked or the session tears down.
func (s *Splash) Done() bool {
	return s.dismissed
}
