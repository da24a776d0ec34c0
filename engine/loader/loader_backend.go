package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-arcade/engine/model"
)

// loaderBackend abstracts the model file format behind the loader's cache.
// This is internal to the loader package.
type loaderBackend interface {
	// Load imports a model from a file path.
	//
	// Parameters:
	//   - path: path to the model file
	//
	// Returns:
	//   - *model.Model: the imported model
	//   - error: error if loading fails
	Load(path string) (*model.Model, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides binary container data
	//
	// Returns:
	//   - *model.Model: the imported model
	//   - error: error if loading fails
	LoadReader(r io.Reader, isGLB bool) (*model.Model, error)
}

// gltfLoaderBackendImpl adapts the glTF importer to the loaderBackend interface.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

var _ loaderBackend = &gltfLoaderBackendImpl{}

func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackendImpl{
		importer: newGLTFImporter(),
	}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.Model, error) {
	return b.importer.Import(path)
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader, isGLB bool) (*model.Model, error) {
	return b.importer.ImportReader(r, isGLB)
}
