package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-arcade/engine/model"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]*model.Model

	backend loaderBackend

	pool   worker.DynamicWorkerPool
	taskID int
}

// Loader defines the public-facing interface for loading and caching 3D models.
// It abstracts the file format (glTF, GLB, etc.) behind a generic backend and
// manages a cache of previously loaded models.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (*model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (*model.Model, error)

	// LoadAsync imports a model file on a background worker. Exactly one of
	// onLoaded or onError fires when the work completes; onProgress fires
	// zero or more times before that with values in [0, 1]. All callbacks
	// run on the worker goroutine.
	//
	// Parameters:
	//   - path: the file path to the model file
	//   - onProgress: progress callback (may be nil)
	//   - onLoaded: completion callback receiving the cached model
	//   - onError: failure callback
	LoadAsync(path string, onProgress func(float64), onLoaded func(*model.Model), onError func(error))

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *model.Model: the cached model or nil
	Get(name string) *model.Model

	// Models returns a copy of the full model cache.
	//
	// Returns:
	//   - map[string]*model.Model: all cached models keyed by name
	Models() map[string]*model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified options applied.
// Defaults to the glTF backend with a single async worker.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]*model.Model),
		backend:    newGLTFLoaderBackend(),
		pool:       worker.NewDynamicWorkerPool(1, 16, 1*time.Second),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *loader) Load(path string) (*model.Model, error) {
	key := cacheKey(path)

	l.mu.RLock()
	if cached, ok := l.modelCache[key]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	m, err := l.backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %q: %w", path, err)
	}
	if m.Name == "" {
		m.Name = key
	}

	l.mu.Lock()
	l.modelCache[key] = m
	l.mu.Unlock()
	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (*model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	m, err := l.backend.LoadReader(r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %q: %w", name, err)
	}
	m.Name = name

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()
	return m, nil
}

func (l *loader) LoadAsync(path string, onProgress func(float64), onLoaded func(*model.Model), onError func(error)) {
	l.mu.Lock()
	id := l.taskID
	l.taskID++
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			if onProgress != nil {
				onProgress(0)
			}
			m, err := l.Load(path)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				return nil, err
			}
			if onProgress != nil {
				onProgress(1)
			}
			if onLoaded != nil {
				onLoaded(m)
			}
			return m, nil
		},
	})
}

func (l *loader) Get(name string) *model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]*model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]*model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		out[k] = v
	}
	return out
}

// cacheKey derives the cache name for a model path: the base file name
// without its extension.
func cacheKey(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
