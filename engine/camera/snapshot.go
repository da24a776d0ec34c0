package camera

import "github.com/Carmen-Shannon/oxy-arcade/common"

// Snapshot is a saved camera framing: pose plus vertical field of view.
// Snapshots are the targets of flights and the cabinet's named viewpoints.
type Snapshot struct {
	// Position is the world-space camera position.
	Position common.Vec3

	// Rotation is the camera orientation quaternion.
	Rotation common.Quat

	// FovDegrees is the vertical field of view in degrees.
	FovDegrees float32
}

// DefaultSnapshot returns the resting framing of the cabinet, looking at the
// screen from slightly above and to the side.
//
// Returns:
//   - Snapshot: the default framing
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Position:   common.Vec3{X: 2.522, Y: 3.349, Z: -1.264},
		Rotation:   common.Quat{X: -0.167, Y: 0.808, Z: 0.272, W: 0.496}.Normalized(),
		FovDegrees: 22.9,
	}
}

// AlternateSnapshot returns the close framing used while content is active,
// square to the screen at eye level.
//
// Returns:
//   - Snapshot: the close framing
func AlternateSnapshot() Snapshot {
	return Snapshot{
		Position: common.Vec3{X: 1.092, Y: 0.821, Z: 0.001},
		Rotation: common.QuatFromEulerXYZ(
			common.DegToRad(-89.7),
			common.DegToRad(79.2),
			common.DegToRad(89.7),
		),
		FovDegrees: 22.9,
	}
}

// StartSnapshot returns the distant framing the intro flight departs from.
//
// Returns:
//   - Snapshot: the intro start framing
func StartSnapshot() Snapshot {
	return Snapshot{
		Position:   common.Vec3{X: 1207.545, Y: 819.927, Z: -1166.235},
		Rotation:   common.Quat{X: -0.088, Y: 0.897, Z: 0.207, W: 0.381}.Normalized(),
		FovDegrees: 22.9,
	}
}
