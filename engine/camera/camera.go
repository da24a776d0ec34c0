package camera

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-arcade/common"
)

// Camera models a free-pose perspective camera. The pose is a world-space
// position plus an orientation quaternion; view and projection matrices are
// recomputed whenever the pose or lens parameters change.
//
// All matrices are column-major [16]float32, matching the GPU upload layout.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: world-space camera position
	Position() common.Vec3

	// Rotation returns the camera's orientation quaternion.
	//
	// Returns:
	//   - common.Quat: world-space orientation
	Rotation() common.Quat

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the world-to-camera transform.
	//
	// Returns:
	//   - [16]float32: column-major view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the perspective projection transform.
	//
	// Returns:
	//   - [16]float32: column-major projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - [16]float32: column-major view-projection matrix
	ViewProjectionMatrix() [16]float32

	// InverseViewProjectionMatrix returns the inverse of projection * view,
	// used to unproject normalized device coordinates into world space.
	//
	// Returns:
	//   - [16]float32: column-major inverse view-projection matrix
	InverseViewProjectionMatrix() [16]float32

	// SetPose sets position and orientation together. Cancels any flight in
	// progress.
	//
	// Parameters:
	//   - pos: world-space position
	//   - rot: orientation quaternion (normalized internally)
	SetPose(pos common.Vec3, rot common.Quat)

	// SetFov sets the vertical field of view in radians.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio to set
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// ApplySnapshot jumps to the snapshot's pose and fov immediately,
	// canceling any flight in progress.
	//
	// Parameters:
	//   - snap: the snapshot to apply
	ApplySnapshot(snap Snapshot)

	// FlyTo starts an eased flight from the current pose to the snapshot
	// over the given duration. A flight already in progress is replaced;
	// the new flight departs from wherever the camera currently is. A
	// non-positive duration applies the snapshot immediately.
	//
	// Parameters:
	//   - snap: the destination snapshot
	//   - duration: flight duration
	//   - now: current time, used as the flight start
	FlyTo(snap Snapshot, duration time.Duration, now time.Time)

	// InFlight reports whether a flight is in progress.
	//
	// Returns:
	//   - bool: true while a flight is animating
	InFlight() bool

	// Update advances any flight in progress and recomputes matrices.
	// Call once per tick.
	//
	// Parameters:
	//   - now: current time
	Update(now time.Time)
}

// cameraImpl is the implementation of the Camera interface.
type cameraImpl struct {
	mu *sync.Mutex

	position common.Vec3
	rotation common.Quat

	fov    float32
	aspect float32
	near   float32
	far    float32

	flight *flight

	viewMatrix        [16]float32
	projectionMatrix  [16]float32
	viewProjMatrix    [16]float32
	invViewProjMatrix [16]float32
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the specified options.
// Defaults to the cabinet's resting pose with a 16:9 aspect.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	def := DefaultSnapshot()
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: def.Position,
		rotation: def.Rotation,
		fov:      common.DegToRad(def.FovDegrees),
		aspect:   16.0 / 9.0,
		near:     0.1,
		far:      2000.0,
	}

	for _, opt := range options {
		opt(c)
	}

	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Rotation() common.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjMatrix
}

func (c *cameraImpl) InverseViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invViewProjMatrix
}

func (c *cameraImpl) SetPose(pos common.Vec3, rot common.Quat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flight = nil
	c.position = pos
	c.rotation = rot.Normalized()
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) ApplySnapshot(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flight = nil
	c.applySnapshotLocked(snap)
}

func (c *cameraImpl) FlyTo(snap Snapshot, duration time.Duration, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if duration <= 0 {
		c.flight = nil
		c.applySnapshotLocked(snap)
		return
	}
	c.flight = newFlight(c.position, c.rotation, c.fov, snap, now, duration)
}

func (c *cameraImpl) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flight != nil
}

func (c *cameraImpl) Update(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flight == nil {
		return
	}
	pos, rot, fov, done := c.flight.at(now)
	c.position = pos
	c.rotation = rot
	c.fov = fov
	if done {
		c.flight = nil
	}
	c.updateMatrices()
}

// applySnapshotLocked sets pose and fov from the snapshot. Caller must hold
// the mutex.
func (c *cameraImpl) applySnapshotLocked(snap Snapshot) {
	c.position = snap.Position
	c.rotation = snap.Rotation.Normalized()
	c.fov = common.DegToRad(snap.FovDegrees)
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection, view-projection, and
// inverse view-projection matrices from the current pose and lens.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.ViewFromPose(c.viewMatrix[:], c.position, c.rotation)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	common.Invert4(c.invViewProjMatrix[:], c.viewProjMatrix[:])
}
