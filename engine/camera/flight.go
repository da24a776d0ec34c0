package camera

import (
	"time"

	"github.com/Carmen-Shannon/oxy-arcade/common"
)

// DefaultFlightDuration is how long a framing change takes unless the caller
// asks for something else. The intro flight uses IntroFlightDuration instead.
const (
	DefaultFlightDuration = 420 * time.Millisecond
	IntroFlightDuration   = 3 * time.Second
)

// flight is a single in-progress camera animation. Position lerps, rotation
// slerps, fov lerps, all on the same eased clock. Only one flight exists at a
// time; starting a new one replaces it.
type flight struct {
	fromPos common.Vec3
	fromRot common.Quat
	fromFov float32

	toPos common.Vec3
	toRot common.Quat
	toFov float32

	start    time.Time
	duration time.Duration
}

func newFlight(pos common.Vec3, rot common.Quat, fov float32, dest Snapshot, now time.Time, duration time.Duration) *flight {
	return &flight{
		fromPos:  pos,
		fromRot:  rot.Normalized(),
		fromFov:  fov,
		toPos:    dest.Position,
		toRot:    dest.Rotation.Normalized(),
		toFov:    common.DegToRad(dest.FovDegrees),
		start:    now,
		duration: duration,
	}
}

// at evaluates the flight at the given time. done is true once the flight
// has reached its destination, at which point the exact destination values
// are returned.
func (f *flight) at(now time.Time) (pos common.Vec3, rot common.Quat, fov float32, done bool) {
	elapsed := now.Sub(f.start)
	if elapsed >= f.duration {
		return f.toPos, f.toRot, f.toFov, true
	}
	if elapsed < 0 {
		elapsed = 0
	}

	t := float32(common.EaseInOutQuad(float64(elapsed) / float64(f.duration)))
	pos = f.fromPos.Lerp(f.toPos, t)
	rot = f.fromRot.Slerp(f.toRot, t)
	fov = f.fromFov + (f.toFov-f.fromFov)*t
	return pos, rot, fov, false
}
