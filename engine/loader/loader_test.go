package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-arcade/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadGLTFJSON is a two-node scene: a root with a translation and a child
// carrying a single quad mesh with positions, UVs, and u16 indices.
func quadGLTFJSON(bufferURI string, bufferLen int) string {
	uri := ""
	if bufferURI != "" {
		uri = fmt.Sprintf(`"uri":%q,`, bufferURI)
	}
	return fmt.Sprintf(`{
		"asset":{"version":"2.0"},
		"scene":0,
		"scenes":[{"name":"cabinet","nodes":[0]}],
		"nodes":[
			{"name":"root","children":[1],"translation":[1,2,3]},
			{"name":"screen_node","mesh":0}
		],
		"meshes":[{"name":"arcade_screen_surface","primitives":[
			{"attributes":{"POSITION":0,"TEXCOORD_0":1},"indices":2}
		]}],
		"accessors":[
			{"bufferView":0,"componentType":5126,"count":4,"type":"VEC3"},
			{"bufferView":1,"componentType":5126,"count":4,"type":"VEC2"},
			{"bufferView":2,"componentType":5123,"count":6,"type":"SCALAR"}
		],
		"bufferViews":[
			{"buffer":0,"byteOffset":0,"byteLength":48},
			{"buffer":0,"byteOffset":48,"byteLength":32},
			{"buffer":0,"byteOffset":80,"byteLength":12}
		],
		"buffers":[{%s"byteLength":%d}]
	}`, uri, bufferLen)
}

// quadBinary packs the quad's vertex data: 4 positions, 4 UVs, 6 indices.
func quadBinary() []byte {
	var buf bytes.Buffer
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	uvs := [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	indices := []uint16{0, 1, 2, 0, 2, 3}
	for _, p := range positions {
		binary.Write(&buf, binary.LittleEndian, p)
	}
	for _, uv := range uvs {
		binary.Write(&buf, binary.LittleEndian, uv)
	}
	for _, idx := range indices {
		binary.Write(&buf, binary.LittleEndian, idx)
	}
	return buf.Bytes()
}

// buildGLB assembles a well-formed GLB container from JSON and binary chunks.
func buildGLB(jsonData, binData []byte) []byte {
	pad := func(data []byte, filler byte) []byte {
		for len(data)%4 != 0 {
			data = append(data, filler)
		}
		return data
	}
	jsonData = pad(jsonData, ' ')
	binData = pad(binData, 0)

	total := 12 + 8 + len(jsonData) + 8 + len(binData)
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)})
	binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(jsonData)), ChunkType: gltfGLBChunkJSON})
	buf.Write(jsonData)
	binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(binData)), ChunkType: gltfGLBChunkBIN})
	buf.Write(binData)
	return buf.Bytes()
}

func TestLoadReaderGLB(t *testing.T) {
	bin := quadBinary()
	glb := buildGLB([]byte(quadGLTFJSON("", len(bin))), bin)

	l := NewLoader()
	m, err := l.LoadReader("cabinet", bytes.NewReader(glb), true)
	require.NoError(t, err)
	require.Len(t, m.Meshes, 1)

	mesh := m.Meshes[0]
	assert.Equal(t, "arcade_screen_surface", mesh.Name)
	assert.Len(t, mesh.Positions, 4)
	assert.Len(t, mesh.UVs, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)

	// The root node's translation must be baked into the world transform.
	world := mesh.WorldPositions()
	assert.InDelta(t, 1.0, float64(world[0].X), 1e-6)
	assert.InDelta(t, 2.0, float64(world[0].Y), 1e-6)
	assert.InDelta(t, 3.0, float64(world[0].Z), 1e-6)
}

func TestLoadReaderGLTFWithDataURI(t *testing.T) {
	bin := quadBinary()
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin)
	doc := quadGLTFJSON(uri, len(bin))

	l := NewLoader()
	m, err := l.LoadReader("cabinet", bytes.NewReader([]byte(doc)), false)
	require.NoError(t, err)
	require.Len(t, m.Meshes, 1)
	assert.Len(t, m.Meshes[0].Positions, 4)
}

func TestFindMeshCandidates(t *testing.T) {
	bin := quadBinary()
	glb := buildGLB([]byte(quadGLTFJSON("", len(bin))), bin)

	l := NewLoader()
	m, err := l.LoadReader("cabinet", bytes.NewReader(glb), true)
	require.NoError(t, err)

	assert.NotNil(t, m.FindMesh("arcade_screen_surface", "arcade_screen"))
	assert.NotNil(t, m.FindMesh("missing", "ARCADE_SCREEN_SURFACE"), "matching is case-insensitive")
	assert.Nil(t, m.FindMesh("missing"))
}

func TestLoadReaderCachesByName(t *testing.T) {
	bin := quadBinary()
	glb := buildGLB([]byte(quadGLTFJSON("", len(bin))), bin)

	l := NewLoader()
	first, err := l.LoadReader("cabinet", bytes.NewReader(glb), true)
	require.NoError(t, err)

	// A second load under the same name never re-reads the stream.
	second, err := l.LoadReader("cabinet", bytes.NewReader(nil), true)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, first, l.Get("cabinet"))
	assert.Len(t, l.Models(), 1)
}

func TestLoadReaderRejectsBadMagic(t *testing.T) {
	l := NewLoader()
	_, err := l.LoadReader("junk", bytes.NewReader(make([]byte, 64)), true)
	assert.Error(t, err)
}

func TestLoadAsyncReportsErrorForMissingFile(t *testing.T) {
	l := NewLoader()

	errCh := make(chan error, 1)
	l.LoadAsync("does-not-exist.glb",
		nil,
		func(*model.Model) { errCh <- nil },
		func(err error) { errCh <- err },
	)

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("load callback never fired")
	}
}

func TestInterleavedVertexData(t *testing.T) {
	mesh := &model.Mesh{
		Positions: [][3]float32{{1, 2, 3}, {4, 5, 6}},
		UVs:       [][2]float32{{0.5, 0.25}},
	}
	data := mesh.InterleavedVertexData()
	require.Len(t, data, 10)
	assert.Equal(t, float32(1), data[0])
	assert.Equal(t, float32(0.5), data[3])
	assert.Equal(t, float32(0.25), data[4])
	// Second vertex has no UV; padded with zeros.
	assert.Equal(t, float32(0), data[8])
	assert.Equal(t, float32(0), data[9])
}

func TestReadIndexAccessorWidensComponentTypes(t *testing.T) {
	for _, tc := range []struct {
		componentType int
		pack          func(*bytes.Buffer, uint32)
	}{
		{gltfComponentTypeUnsignedByte, func(b *bytes.Buffer, v uint32) { b.WriteByte(byte(v)) }},
		{gltfComponentTypeUnsignedShort, func(b *bytes.Buffer, v uint32) { binary.Write(b, binary.LittleEndian, uint16(v)) }},
		{gltfComponentTypeUnsignedInt, func(b *bytes.Buffer, v uint32) { binary.Write(b, binary.LittleEndian, v) }},
	} {
		var bin bytes.Buffer
		values := []uint32{0, 1, 250}
		for _, v := range values {
			tc.pack(&bin, v)
		}

		size := gltfComponentTypeSize(tc.componentType)
		doc := fmt.Sprintf(`{
			"asset":{"version":"2.0"},
			"accessors":[{"bufferView":0,"componentType":%d,"count":3,"type":"SCALAR"}],
			"bufferViews":[{"buffer":0,"byteOffset":0,"byteLength":%d}],
			"buffers":[{"uri":"data:application/octet-stream;base64,%s","byteLength":%d}]
		}`, tc.componentType, 3*size, base64.StdEncoding.EncodeToString(bin.Bytes()), 3*size)

		p := newGLTFParser()
		require.NoError(t, p.ParseReader(bytes.NewReader([]byte(doc)), false))
		got, err := p.ReadIndexAccessor(0)
		require.NoError(t, err)
		assert.Equal(t, values, got)
	}
}

func TestParserRejectsWrongVersion(t *testing.T) {
	p := newGLTFParser()
	err := p.ParseReader(bytes.NewReader([]byte(`{"asset":{"version":"1.0"}}`)), false)
	assert.ErrorIs(t, err, errInvalidGLTFVersion)
}

func TestAccessorBoundsChecked(t *testing.T) {
	// Accessor claims more elements than the buffer holds.
	doc := fmt.Sprintf(`{
		"asset":{"version":"2.0"},
		"accessors":[{"bufferView":0,"componentType":5126,"count":100,"type":"VEC3"}],
		"bufferViews":[{"buffer":0,"byteOffset":0,"byteLength":1200}],
		"buffers":[{"uri":"data:application/octet-stream;base64,%s","byteLength":16}]
	}`, base64.StdEncoding.EncodeToString(make([]byte, 16)))

	p := newGLTFParser()
	err := p.ParseReader(bytes.NewReader([]byte(doc)), false)
	if err == nil {
		_, err = p.ReadVec3Accessor(0)
	}
	assert.Error(t, err)
}
