package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/Carmen-Shannon/oxy-arcade/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter turns a parsed glTF document into a model: it walks the scene
// graph, bakes node world transforms, and extracts triangle primitives.
type gltfImporter interface {
	// Import loads a model from a glTF/GLB file.
	//
	// Parameters:
	//   - path: path to the glTF or GLB file
	//
	// Returns:
	//   - *model.Model: the imported model
	//   - error: error if parsing or extraction fails
	Import(path string) (*model.Model, error)

	// ImportReader loads a model from a reader stream.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//   - isGLB: true if the data is in GLB format
	//
	// Returns:
	//   - *model.Model: the imported model
	//   - error: error if parsing or extraction fails
	ImportReader(r io.Reader, isGLB bool) (*model.Model, error)
}

var _ gltfImporter = &gltfImporterImpl{}

func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (*model.Model, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, err
	}
	m, err := imp.importFromParser(parser)
	if err != nil {
		return nil, err
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader, isGLB bool) (*model.Model, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, err
	}
	return imp.importFromParser(parser)
}

// importFromParser walks the document's default scene (or every root node
// when no scene is declared) and extracts each node's mesh primitives with
// the node's baked world transform.
func (imp *gltfImporterImpl) importFromParser(parser gltfParser) (*model.Model, error) {
	doc := parser.Document()

	roots := imp.rootNodes(doc)
	out := &model.Model{}
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		out.Name = doc.Scenes[*doc.Scene].Name
	}

	var identity [16]float32
	common.Identity(identity[:])

	for _, root := range roots {
		if err := imp.walkNode(parser, doc, root, identity, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// rootNodes returns the default scene's roots, falling back to every node
// that is nobody's child.
func (imp *gltfImporterImpl) rootNodes(doc *gltfDocument) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}

	isChild := make(map[int]bool)
	for _, node := range doc.Nodes {
		for _, child := range node.Children {
			isChild[child] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (imp *gltfImporterImpl) walkNode(parser gltfParser, doc *gltfDocument, nodeIndex int, parentWorld [16]float32, out *model.Model) error {
	if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", nodeIndex)
	}
	node := &doc.Nodes[nodeIndex]

	var local [16]float32
	gltfNodeLocalMatrix(node, local[:])

	var world [16]float32
	common.Mul4(world[:], parentWorld[:], local[:])

	if node.Mesh != nil {
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return fmt.Errorf("mesh index %d out of range", *node.Mesh)
		}
		mesh := &doc.Meshes[*node.Mesh]
		name := mesh.Name
		if name == "" {
			name = node.Name
		}
		for primIndex := range mesh.Primitives {
			extracted, err := imp.extractPrimitive(parser, &mesh.Primitives[primIndex], name, primIndex, world)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", name, primIndex, err)
			}
			if extracted != nil {
				out.Meshes = append(out.Meshes, extracted)
			}
		}
	}

	for _, child := range node.Children {
		if err := imp.walkNode(parser, doc, child, world, out); err != nil {
			return err
		}
	}
	return nil
}

// extractPrimitive reads POSITION, TEXCOORD_0, and indices for one triangle
// primitive. Non-triangle primitives are skipped; missing indices fall back
// to sequential order.
func (imp *gltfImporterImpl) extractPrimitive(parser gltfParser, prim *gltfPrimitive, name string, primIndex int, world [16]float32) (*model.Mesh, error) {
	// Mode 4 (TRIANGLES) is the default when omitted.
	if prim.Mode != nil && *prim.Mode != 4 {
		return nil, nil
	}

	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	var uvs [][2]float32
	if uvAccessor, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err = parser.ReadVec2Accessor(uvAccessor)
		if err != nil {
			return nil, fmt.Errorf("failed to read texture coordinates: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = parser.ReadIndexAccessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	meshName := name
	if primIndex > 0 {
		meshName = fmt.Sprintf("%s_%d", name, primIndex)
	}

	return &model.Mesh{
		Name:      meshName,
		Positions: positions,
		UVs:       uvs,
		Indices:   indices,
		World:     world,
	}, nil
}

// gltfNodeLocalMatrix writes the node's local transform: the explicit matrix
// when present, otherwise composed from TRS with glTF defaults.
func gltfNodeLocalMatrix(node *gltfNode, out []float32) {
	if len(node.Matrix) == 16 {
		copy(out, node.Matrix)
		return
	}

	t := common.Vec3{}
	if node.Translation != nil {
		t = common.Vec3{X: node.Translation[0], Y: node.Translation[1], Z: node.Translation[2]}
	}
	r := common.QuatIdentity()
	if node.Rotation != nil {
		r = common.Quat{X: node.Rotation[0], Y: node.Rotation[1], Z: node.Rotation[2], W: node.Rotation[3]}
	}
	s := common.Vec3{X: 1, Y: 1, Z: 1}
	if node.Scale != nil {
		s = common.Vec3{X: node.Scale[0], Y: node.Scale[1], Z: node.Scale[2]}
	}
	common.ComposeTRS(out, t, r, s)
}
