package camera

import (
	"github.com/Carmen-Shannon/oxy-arcade/common"
)

type CameraBuilderOption func(*cameraImpl)

// WithSnapshot sets the camera's starting pose and fov from a snapshot.
//
// Parameters:
//   - snap: the snapshot to start at
//
// Returns:
//   - CameraBuilderOption: a function that applies the snapshot
func WithSnapshot(snap Snapshot) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = snap.Position
		c.rotation = snap.Rotation.Normalized()
		c.fov = common.DegToRad(snap.FovDegrees)
	}
}

// WithPose sets the camera's starting position and orientation.
//
// Parameters:
//   - pos: world-space position
//   - rot: orientation quaternion
//
// Returns:
//   - CameraBuilderOption: a function that sets the pose
func WithPose(pos common.Vec3, rot common.Quat) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = pos
		c.rotation = rot.Normalized()
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}
