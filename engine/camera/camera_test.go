package camera

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraStartsAtDefaultFraming(t *testing.T) {
	cam := NewCamera()

	def := DefaultSnapshot()
	assert.Equal(t, def.Position, cam.Position())
	assert.InDelta(t, float64(common.DegToRad(22.9)), float64(cam.Fov()), 1e-6)
	assert.False(t, cam.InFlight())
}

func TestApplySnapshotJumpsImmediately(t *testing.T) {
	cam := NewCamera()
	start := StartSnapshot()

	cam.ApplySnapshot(start)
	assert.Equal(t, start.Position, cam.Position())
	assert.False(t, cam.InFlight())
}

func TestFlyToReachesDestinationExactly(t *testing.T) {
	cam := NewCamera(WithSnapshot(DefaultSnapshot()))
	dest := AlternateSnapshot()
	base := time.Unix(100, 0)

	cam.FlyTo(dest, DefaultFlightDuration, base)
	require.True(t, cam.InFlight())

	cam.Update(base.Add(DefaultFlightDuration))
	assert.Equal(t, dest.Position, cam.Position())
	assert.False(t, cam.InFlight())
}

func TestFlyToMidpointIsHalfwayInPosition(t *testing.T) {
	from := Snapshot{Position: common.Vec3{X: 0, Y: 0, Z: 0}, Rotation: common.QuatIdentity(), FovDegrees: 22.9}
	to := Snapshot{Position: common.Vec3{X: 10, Y: 0, Z: 0}, Rotation: common.QuatIdentity(), FovDegrees: 22.9}
	cam := NewCamera(WithSnapshot(from))
	base := time.Unix(100, 0)

	// The quadratic ease passes through 0.5 at the halfway point.
	cam.FlyTo(to, 400*time.Millisecond, base)
	cam.Update(base.Add(200 * time.Millisecond))
	assert.InDelta(t, 5.0, float64(cam.Position().X), 1e-3)
	assert.True(t, cam.InFlight())
}

func TestFlyToReplacesFlightFromCurrentPose(t *testing.T) {
	from := Snapshot{Position: common.Vec3{}, Rotation: common.QuatIdentity(), FovDegrees: 22.9}
	first := Snapshot{Position: common.Vec3{X: 10}, Rotation: common.QuatIdentity(), FovDegrees: 22.9}
	second := Snapshot{Position: common.Vec3{Y: 10}, Rotation: common.QuatIdentity(), FovDegrees: 22.9}
	cam := NewCamera(WithSnapshot(from))
	base := time.Unix(100, 0)

	cam.FlyTo(first, 400*time.Millisecond, base)
	cam.Update(base.Add(200 * time.Millisecond))
	midX := cam.Position().X
	require.InDelta(t, 5.0, float64(midX), 1e-3)

	// Restarting mid-flight departs from the interpolated pose, not the
	// original origin.
	cam.FlyTo(second, 400*time.Millisecond, base.Add(200*time.Millisecond))
	cam.Update(base.Add(400 * time.Millisecond))
	assert.InDelta(t, float64(midX)/2, float64(cam.Position().X), 1e-3)
	assert.InDelta(t, 5.0, float64(cam.Position().Y), 1e-3)

	cam.Update(base.Add(700 * time.Millisecond))
	assert.Equal(t, second.Position, cam.Position())
	assert.False(t, cam.InFlight())
}

func TestFlyToZeroDurationIsInstant(t *testing.T) {
	cam := NewCamera()
	dest := AlternateSnapshot()

	cam.FlyTo(dest, 0, time.Unix(100, 0))
	assert.Equal(t, dest.Position, cam.Position())
	assert.False(t, cam.InFlight())
}

func TestSetPoseCancelsFlight(t *testing.T) {
	cam := NewCamera()
	base := time.Unix(100, 0)

	cam.FlyTo(AlternateSnapshot(), DefaultFlightDuration, base)
	require.True(t, cam.InFlight())

	pinned := common.Vec3{X: 1, Y: 2, Z: 3}
	cam.SetPose(pinned, common.QuatIdentity())
	assert.False(t, cam.InFlight())

	// A later update must not resurrect the canceled flight.
	cam.Update(base.Add(time.Second))
	assert.Equal(t, pinned, cam.Position())
}

func TestInverseViewProjectionRoundTrips(t *testing.T) {
	cam := NewCamera(WithAspect(16.0 / 9.0))

	// A point in front of the camera should survive a clip-space round trip.
	forward := cam.Rotation().Rotate(common.Vec3{Z: -1})
	world := cam.Position().Add(forward.Scale(5))

	vp := cam.ViewProjectionMatrix()
	inv := cam.InverseViewProjectionMatrix()
	clip := common.TransformPoint(vp[:], world)
	back := common.TransformPoint(inv[:], clip)

	assert.InDelta(t, float64(world.X), float64(back.X), 1e-2)
	assert.InDelta(t, float64(world.Y), float64(back.Y), 1e-2)
	assert.InDelta(t, float64(world.Z), float64(back.Z), 1e-2)
}

func TestSetAspectChangesProjection(t *testing.T) {
	cam := NewCamera(WithAspect(1.0))
	before := cam.ProjectionMatrix()

	cam.SetAspect(2.0)
	after := cam.ProjectionMatrix()
	assert.NotEqual(t, before[0], after[0])
	assert.Equal(t, before[5], after[5], "vertical scale depends only on fov")
}
