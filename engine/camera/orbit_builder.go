package camera

import "github.com/Carmen-Shannon/oxy-arcade/common"

// OrbitControllerOption is a functional option for configuring an
// OrbitController. Use the With* functions to create options.
type OrbitControllerOption func(*orbitControllerImpl)

// WithOrbitTarget sets the orbit pivot point.
//
// Parameters:
//   - target: world-space pivot the camera orbits and looks at
//
// Returns:
//   - OrbitControllerOption: option function to apply
func WithOrbitTarget(target common.Vec3) OrbitControllerOption {
	return func(o *orbitControllerImpl) {
		o.target = target
	}
}

// WithOrbitRadius sets the initial distance from the pivot.
//
// Parameters:
//   - radius: distance from the pivot
//
// Returns:
//   - OrbitControllerOption: option function to apply
func WithOrbitRadius(radius float32) OrbitControllerOption {
	return func(o *orbitControllerImpl) {
		o.radius = radius
	}
}

// WithOrbitRadiusBounds sets the zoom limits.
//
// Parameters:
//   - min: closest allowed distance from the pivot
//   - max: farthest allowed distance from the pivot
//
// Returns:
//   - OrbitControllerOption: option function to apply
func WithOrbitRadiusBounds(min, max float32) OrbitControllerOption {
	return func(o *orbitControllerImpl) {
		o.minRadius = min
		o.maxRadius = max
	}
}

// WithOrbitElevationBounds sets the tilt limits, keeping the camera off the
// poles where the look-at roll hint degenerates.
//
// Parameters:
//   - min: lowest allowed elevation in radians
//   - max: highest allowed elevation in radians
//
// Returns:
//   - OrbitControllerOption: option function to apply
func WithOrbitElevationBounds(min, max float32) OrbitControllerOption {
	return func(o *orbitControllerImpl) {
		o.minElevation = min
		o.maxElevation = max
	}
}

// WithOrbitRotateSensitivity sets the drag sensitivity.
//
// Parameters:
//   - sensitivity: radians per window pixel of drag
//
// Returns:
//   - OrbitControllerOption: option function to apply
func WithOrbitRotateSensitivity(sensitivity float32) OrbitControllerOption {
	return func(o *orbitControllerImpl) {
		o.rotateSensitivity = sensitivity
	}
}

// WithOrbitZoomSpeed sets the wheel zoom speed.
//
// Parameters:
//   - speed: world units per wheel delta unit
//
// Returns:
//   - OrbitControllerOption: option function to apply
func WithOrbitZoomSpeed(speed float32) OrbitControllerOption {
	return func(o *orbitControllerImpl) {
		o.zoomSpeed = speed
	}
}
