// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "math"

// Vec3 is a 3-component float32 vector in world or local space.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalized returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Lerp returns the linear interpolation between v and o at parameter t.
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return Vec3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// Quat is a rotation quaternion (x, y, z, w).
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// Normalized returns q scaled to unit length. The zero quaternion degrades to identity.
func (q Quat) Normalized() Quat {
	l := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Slerp returns the spherical linear interpolation between q and o at parameter t.
// The shorter arc is always taken.
//
// Parameters:
//   - o: target rotation
//   - t: interpolation parameter in [0, 1]
//
// Returns:
//   - Quat: the interpolated rotation (unit length)
func (q Quat) Slerp(o Quat, t float32) Quat {
	cosHalf := float64(q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W)
	if cosHalf < 0 {
		o = Quat{-o.X, -o.Y, -o.Z, -o.W}
		cosHalf = -cosHalf
	}
	if cosHalf > 0.9995 {
		// Nearly parallel; fall back to normalized lerp to avoid division by ~0.
		return Quat{
			q.X + (o.X-q.X)*t,
			q.Y + (o.Y-q.Y)*t,
			q.Z + (o.Z-q.Z)*t,
			q.W + (o.W-q.W)*t,
		}.Normalized()
	}
	halfTheta := math.Acos(cosHalf)
	sinHalf := math.Sin(halfTheta)
	ra := float32(math.Sin((1-float64(t))*halfTheta) / sinHalf)
	rb := float32(math.Sin(float64(t)*halfTheta) / sinHalf)
	return Quat{
		q.X*ra + o.X*rb,
		q.Y*ra + o.Y*rb,
		q.Z*ra + o.Z*rb,
		q.W*ra + o.W*rb,
	}
}

// Rotate applies the rotation q to vector v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2 * cross(q.xyz, cross(q.xyz, v) + q.w * v)
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Add(v.Scale(q.W))
	return v.Add(u.Cross(t).Scale(2))
}

// QuatLookAt builds the orientation of a camera at eye looking toward target,
// with up as the roll hint. The camera convention looks down its local -Z.
func QuatLookAt(eye, target, up Vec3) Quat {
	forward := target.Sub(eye).Normalized()
	z := forward.Scale(-1)
	x := up.Cross(z).Normalized()
	y := z.Cross(x)
	return quatFromBasis(x, y, z)
}

// quatFromBasis converts an orthonormal basis (the columns of a rotation
// matrix) to a quaternion, branching on the dominant diagonal element for
// numerical stability.
func quatFromBasis(x, y, z Vec3) Quat {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z
	trace := m00 + m11 + m22
	var q Quat
	switch {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1))) * 2
		q = Quat{X: (m21 - m12) / s, Y: (m02 - m20) / s, Z: (m10 - m01) / s, W: s / 4}
	case m00 > m11 && m00 > m22:
		s := float32(math.Sqrt(float64(1+m00-m11-m22))) * 2
		q = Quat{X: s / 4, Y: (m01 + m10) / s, Z: (m02 + m20) / s, W: (m21 - m12) / s}
	case m11 > m22:
		s := float32(math.Sqrt(float64(1+m11-m00-m22))) * 2
		q = Quat{X: (m01 + m10) / s, Y: s / 4, Z: (m12 + m21) / s, W: (m02 - m20) / s}
	default:
		s := float32(math.Sqrt(float64(1+m22-m00-m11))) * 2
		q = Quat{X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: s / 4, W: (m10 - m01) / s}
	}
	return q.Normalized()
}

// QuatFromEulerXYZ builds a quaternion from intrinsic XYZ Euler angles in radians.
func QuatFromEulerXYZ(x, y, z float32) Quat {
	cx := float32(math.Cos(float64(x) / 2))
	sx := float32(math.Sin(float64(x) / 2))
	cy := float32(math.Cos(float64(y) / 2))
	sy := float32(math.Sin(float64(y) / 2))
	cz := float32(math.Cos(float64(z) / 2))
	sz := float32(math.Sin(float64(z) / 2))
	return Quat{
		sx*cy*cz + cx*sy*sz,
		cx*sy*cz - sx*cy*sz,
		cx*cy*sz + sx*sy*cz,
		cx*cy*cz - sx*sy*sz,
	}
}

// Rect is an axis-aligned rectangle in 2D pixel space.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Edges are inclusive, matching canvas hit-test conventions.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Center returns the rectangle's center point.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// FitToAspect returns the largest sub-rectangle of r with the given aspect
// ratio (width/height), centered within r. Rounding matches the letterbox
// behavior expected by hit-testing: new extents are rounded, offsets floored.
//
// Parameters:
//   - aspect: target width/height ratio (non-positive defaults to 16:9)
//
// Returns:
//   - Rect: the centered, aspect-fitted sub-rectangle
func (r Rect) FitToAspect(aspect float64) Rect {
	if aspect <= 0 {
		aspect = 16.0 / 9.0
	}
	out := r
	if r.H <= 0 || r.W <= 0 {
		return out
	}
	ar := r.W / r.H
	if ar > aspect {
		newW := math.Round(r.H * aspect)
		out.X += math.Floor((r.W - newW) / 2)
		out.W = newW
	} else {
		newH := math.Round(r.W / aspect)
		out.Y += math.Floor((r.H - newH) / 2)
		out.H = newH
	}
	return out
}

// Circle is a circle in 2D pixel space, used for round hit regions.
type Circle struct {
	CX, CY, R float64
}

// Contains reports whether the point (x, y) lies inside the circle,
// using a squared-distance comparison (no sqrt).
func (c Circle) Contains(x, y float64) bool {
	dx := x - c.CX
	dy := y - c.CY
	return dx*dx+dy*dy <= c.R*c.R
}

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the raw pixel data in RGBA format, 4 bytes per pixel.
	Pixels []byte
	// Width is the texture width in pixels.
	Width uint32
	// Height is the texture height in pixels.
	Height uint32
}
