package raycast

import (
	"math"

	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/Carmen-Shannon/oxy-arcade/engine/camera"
)

const epsilon = 1e-7

// Ray is a world-space ray with a normalized direction.
type Ray struct {
	Origin common.Vec3
	Dir    common.Vec3
}

// Mesh is a triangle soup prepared for intersection tests. Positions are in
// world space; UVs are per-vertex texture coordinates aligned with Positions.
type Mesh struct {
	Name      string
	Positions []common.Vec3
	UVs       [][2]float32
	Indices   []uint32
}

// Hit describes the nearest intersection found along a ray.
type Hit struct {
	// Mesh is the mesh that was hit.
	Mesh *Mesh

	// T is the distance from the ray origin to the intersection point.
	T float32

	// Point is the world-space intersection point.
	Point common.Vec3

	// U and V are the texture coordinates at the intersection,
	// barycentrically interpolated from the triangle's vertex UVs.
	U, V float32
}

// NDCFromWindow converts window pixel coordinates (top-left origin, y down)
// into normalized device coordinates (center origin, y up).
//
// Parameters:
//   - x, y: cursor position in pixels
//   - width, height: window client size in pixels
//
// Returns:
//   - ndcX, ndcY: normalized device coordinates in [-1, 1]
func NDCFromWindow(x, y float64, width, height int) (ndcX, ndcY float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	ndcX = float32(2*x/float64(width) - 1)
	ndcY = float32(1 - 2*y/float64(height))
	return ndcX, ndcY
}

// FromCamera builds a world-space ray through the given normalized device
// coordinates by unprojecting the near and far clip planes.
//
// Parameters:
//   - cam: the camera to cast from
//   - ndcX, ndcY: normalized device coordinates in [-1, 1]
//
// Returns:
//   - Ray: ray from the camera position through the NDC point
func FromCamera(cam camera.Camera, ndcX, ndcY float32) Ray {
	inv := cam.InverseViewProjectionMatrix()

	// Depth runs [0, 1] near to far in WebGPU clip space.
	nearPt := common.TransformPoint(inv[:], common.Vec3{X: ndcX, Y: ndcY, Z: 0})
	farPt := common.TransformPoint(inv[:], common.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{
		Origin: cam.Position(),
		Dir:    farPt.Sub(nearPt).Normalized(),
	}
}

// IntersectMesh finds the nearest front-facing triangle intersection between
// the ray and the mesh. Back-facing and degenerate triangles are skipped.
//
// Parameters:
//   - ray: the ray to test
//   - m: the mesh to test against
//
// Returns:
//   - Hit: the nearest intersection, valid only when found
//   - bool: true when the ray hits the mesh
func IntersectMesh(ray Ray, m *Mesh) (Hit, bool) {
	best := Hit{T: float32(math.Inf(1))}
	found := false

	for i := 0; i+2 < len(m.Indices); i += 3 {
		ia, ib, ic := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		t, bu, bv, ok := intersectTriangle(ray, m.Positions[ia], m.Positions[ib], m.Positions[ic])
		if !ok || t >= best.T {
			continue
		}
		hit := Hit{Mesh: m, T: t, Point: ray.Origin.Add(ray.Dir.Scale(t))}
		if len(m.UVs) > int(ic) {
			w := 1 - bu - bv
			hit.U = m.UVs[ia][0]*w + m.UVs[ib][0]*bu + m.UVs[ic][0]*bv
			hit.V = m.UVs[ia][1]*w + m.UVs[ib][1]*bu + m.UVs[ic][1]*bv
		}
		best = hit
		found = true
	}
	return best, found
}

// Nearest returns the closest intersection across all meshes. The hit's Mesh
// field identifies the winner, which is how callers reject hits occluded by
// geometry in front of the surface they care about.
//
// Parameters:
//   - ray: the ray to test
//   - meshes: the meshes to test against
//
// Returns:
//   - Hit: the nearest intersection across all meshes
//   - bool: true when any mesh was hit
func Nearest(ray Ray, meshes []*Mesh) (Hit, bool) {
	best := Hit{T: float32(math.Inf(1))}
	found := false
	for _, m := range meshes {
		if hit, ok := IntersectMesh(ray, m); ok && hit.T < best.T {
			best = hit
			found = true
		}
	}
	return best, found
}

// intersectTriangle runs the Moller-Trumbore test against a single CCW
// triangle. Rejects back faces (negative determinant) along with parallel
// rays and out-of-range barycentrics.
func intersectTriangle(ray Ray, a, b, c common.Vec3) (t, u, v float32, ok bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	p := ray.Dir.Cross(e2)
	det := e1.Dot(p)
	if det < epsilon {
		return 0, 0, 0, false
	}
	invDet := 1 / det

	tv := ray.Origin.Sub(a)
	u = tv.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := tv.Cross(e1)
	v = ray.Dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = e2.Dot(q) * invDet
	if t <= epsilon {
		return 0, 0, 0, false
	}
	return t, u, v, true
}
