package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-arcade/common"
)

// OrbitController drives menu-mode camera navigation: the camera rides
// spherical coordinates (radius, azimuth, elevation) around a fixed pivot,
// rotated by pointer drags and zoomed by the wheel. Content modes disable it
// while a fixed framing is active; the named-snapshot flights are unaffected
// and simply leave the controller out of sync until the next SyncFrom.
type OrbitController interface {
	// Enabled reports whether orbit input is being accepted.
	//
	// Returns:
	//   - bool: true while orbit navigation is active
	Enabled() bool

	// SetEnabled turns orbit input on or off.
	//
	// Parameters:
	//   - enabled: whether to accept orbit input
	SetEnabled(enabled bool)

	// Rotate applies a pointer drag. Dragging right swings the camera around
	// the pivot; dragging up tilts it over the top, clamped to the elevation
	// bounds.
	//
	// Parameters:
	//   - dx, dy: pointer movement in window pixels
	Rotate(dx, dy float64)

	// Zoom adjusts the orbit radius, clamped to the radius bounds. Positive
	// delta moves away from the pivot, matching wheel-down.
	//
	// Parameters:
	//   - delta: wheel delta in DOM line-pixel units
	Zoom(delta float64)

	// SyncFrom re-derives the spherical coordinates from the camera's current
	// pose, so a drag continues from wherever the last flight left off.
	//
	// Parameters:
	//   - cam: the camera to read the pose from
	SyncFrom(cam Camera)

	// Apply writes the orbit pose onto the camera, positioned on the sphere
	// and looking at the pivot. Cancels any flight in progress.
	//
	// Parameters:
	//   - cam: the camera to pose
	Apply(cam Camera)

	// Target returns the orbit pivot.
	//
	// Returns:
	//   - common.Vec3: the world-space pivot point
	Target() common.Vec3

	// Radius returns the current distance from the pivot.
	//
	// Returns:
	//   - float32: the orbit radius
	Radius() float32

	// Azimuth returns the horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians (0 = +Z)
	Azimuth() float32

	// Elevation returns the vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32
}

type orbitControllerImpl struct {
	mu *sync.Mutex

	enabled bool
	target  common.Vec3

	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	rotateSensitivity float32
	zoomSpeed         float32
}

var _ OrbitController = &orbitControllerImpl{}

// NewOrbitController creates an orbit controller pivoting on the cabinet,
// enabled and parked at the resting view's spherical coordinates.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - OrbitController: the newly created controller
func NewOrbitController(options ...OrbitControllerOption) OrbitController {
	o := &orbitControllerImpl{
		mu:      &sync.Mutex{},
		enabled: true,
		target:  common.Vec3{X: 0, Y: 1.1, Z: 0},

		radius:    3.6,
		azimuth:   2.0,
		elevation: 0.65,

		minRadius:    1.2,
		maxRadius:    30.0,
		minElevation: -0.3,
		maxElevation: float32(math.Pi/2 - 0.1),

		rotateSensitivity: 0.005,
		zoomSpeed:         0.0025,
	}

	for _, option := range options {
		option(o)
	}

	return o
}

func (o *orbitControllerImpl) Enabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.enabled
}

func (o *orbitControllerImpl) SetEnabled(enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.enabled = enabled
}

func (o *orbitControllerImpl) Rotate(dx, dy float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.azimuth -= float32(dx) * o.rotateSensitivity
	o.elevation = clampf(o.elevation-float32(dy)*o.rotateSensitivity, o.minElevation, o.maxElevation)
}

func (o *orbitControllerImpl) Zoom(delta float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.radius = clampf(o.radius+float32(delta)*o.zoomSpeed, o.minRadius, o.maxRadius)
}

func (o *orbitControllerImpl) SyncFrom(cam Camera) {
	pos := cam.Position()
	o.mu.Lock()
	defer o.mu.Unlock()
	offset := pos.Sub(o.target)
	r := offset.Length()
	if r < 1e-4 {
		return
	}
	o.radius = r
	o.elevation = float32(math.Asin(float64(clampf(offset.Y/r, -1, 1))))
	o.azimuth = float32(math.Atan2(float64(offset.X), float64(offset.Z)))
}

func (o *orbitControllerImpl) Apply(cam Camera) {
	o.mu.Lock()
	pos := o.positionLocked()
	target := o.target
	o.mu.Unlock()
	cam.SetPose(pos, common.QuatLookAt(pos, target, common.Vec3{Y: 1}))
}

func (o *orbitControllerImpl) Target() common.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.target
}

func (o *orbitControllerImpl) Radius() float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.radius
}

func (o *orbitControllerImpl) Azimuth() float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.azimuth
}

func (o *orbitControllerImpl) Elevation() float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.elevation
}

// positionLocked computes the camera position on the orbit sphere. Caller
// must hold the mutex.
func (o *orbitControllerImpl) positionLocked() common.Vec3 {
	cosElev := float32(math.Cos(float64(o.elevation)))
	sinElev := float32(math.Sin(float64(o.elevation)))
	cosAzim := float32(math.Cos(float64(o.azimuth)))
	sinAzim := float32(math.Sin(float64(o.azimuth)))
	return common.Vec3{
		X: o.target.X + o.radius*cosElev*sinAzim,
		Y: o.target.Y + o.radius*sinElev,
		Z: o.target.Z + o.radius*cosElev*cosAzim,
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
