package loader

import (
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

type LoaderBuilderOption func(*loader)

// WithBackendType selects the file format backend.
//
// Parameters:
//   - backendType: the backend type to use
//
// Returns:
//   - LoaderBuilderOption: a function that sets the backend
func WithBackendType(backendType LoaderBackendType) LoaderBuilderOption {
	return func(l *loader) {
		switch backendType {
		case BackendTypeGLTF:
			l.backend = newGLTFLoaderBackend()
		}
	}
}

// WithAsyncWorkers sets the worker count for LoadAsync.
//
// Parameters:
//   - workers: number of concurrent load workers
//
// Returns:
//   - LoaderBuilderOption: a function that resizes the async pool
func WithAsyncWorkers(workers int) LoaderBuilderOption {
	return func(l *loader) {
		if workers < 1 {
			workers = 1
		}
		l.pool = worker.NewDynamicWorkerPool(workers, 16, 1*time.Second)
	}
}
