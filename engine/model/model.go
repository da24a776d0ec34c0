package model

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-arcade/common"
)

// Mesh is one drawable primitive extracted from a model file. Positions and
// UVs are in the node's local space; World is the node's world transform at
// import time (the cabinet scene is static, so it never changes after load).
type Mesh struct {
	// Name is the mesh name from the source file, used to find the screen
	// surface among the cabinet geometry.
	Name string

	// Positions are local-space vertex positions.
	Positions [][3]float32

	// UVs are per-vertex texture coordinates aligned with Positions. May be
	// empty for meshes without a TEXCOORD_0 attribute.
	UVs [][2]float32

	// Indices index into Positions as a triangle list.
	Indices []uint32

	// World is the column-major node world transform.
	World [16]float32
}

// WorldPositions returns the vertex positions transformed into world space.
//
// Returns:
//   - []common.Vec3: world-space vertex positions
func (m *Mesh) WorldPositions() []common.Vec3 {
	out := make([]common.Vec3, len(m.Positions))
	for i, p := range m.Positions {
		out[i] = common.TransformPoint(m.World[:], common.Vec3{X: p[0], Y: p[1], Z: p[2]})
	}
	return out
}

// InterleavedVertexData returns vertex data laid out as position (3 floats)
// followed by UV (2 floats) per vertex, ready for GPU upload. Missing UVs
// are written as zeros.
//
// Returns:
//   - []float32: interleaved vertex buffer contents
func (m *Mesh) InterleavedVertexData() []float32 {
	out := make([]float32, 0, len(m.Positions)*5)
	for i, p := range m.Positions {
		out = append(out, p[0], p[1], p[2])
		if i < len(m.UVs) {
			out = append(out, m.UVs[i][0], m.UVs[i][1])
		} else {
			out = append(out, 0, 0)
		}
	}
	return out
}

// Model is a loaded model file: a named collection of meshes with baked
// world transforms.
type Model struct {
	// Name is the cache key the model was loaded under.
	Name string

	// Meshes are the model's primitives in file order.
	Meshes []*Mesh
}

// FindMesh returns the first mesh whose name matches any of the candidates,
// checked in candidate order. Matching is case-insensitive. Returns nil when
// nothing matches.
//
// Parameters:
//   - candidates: mesh names to try, most specific first
//
// Returns:
//   - *Mesh: the matching mesh or nil
func (m *Model) FindMesh(candidates ...string) *Mesh {
	for _, want := range candidates {
		for _, mesh := range m.Meshes {
			if strings.EqualFold(mesh.Name, want) {
				return mesh
			}
		}
	}
	return nil
}
