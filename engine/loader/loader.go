package loader

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-sprite/common"
)

// LoaderBackendType identifies the image decoding backend to use.
type LoaderBackendType int

const (
	// BackendTypeImage selects the image package decoders.
	BackendTypeImage LoaderBackendType = iota
)

const (
	defaultQueueSize   = 256
	defaultIdleTimeout = 1 * time.Second
)

// Result is the outcome of decoding a single path in a batch.
type Result struct {
	// Path is the file path that was decoded.
	Path string
	// Data holds the decoded pixels, zero when Err is set.
	Data common.TextureStagingData
	// Err is the decode failure for this path, if any.
	Err error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	cache        map[string]common.TextureStagingData
	cacheEnabled bool

	workers     int
	queueSize   int
	idleTimeout time.Duration
	pool        worker.DynamicWorkerPool
	poolOnce    sync.Once

	backend loaderBackend
}

// Loader defines the public-facing interface for decoding images into RGBA8 staging data.
// Batches are decoded concurrently on a worker pool, and results can optionally be cached by path.
type Loader interface {
	// Decode decodes a single image file, consulting the cache first when caching is enabled.
	//
	// Parameters:
	//   - path: the file path of the image
	//
	// Returns:
	//   - common.TextureStagingData: the decoded pixels
	//   - error: error if decoding fails
	Decode(path string) (common.TextureStagingData, error)

	// DecodeReader decodes an image from a reader stream. Reader results are never cached.
	//
	// Parameters:
	//   - r: the reader providing the encoded image
	//
	// Returns:
	//   - common.TextureStagingData: the decoded pixels
	//   - error: error if decoding fails
	DecodeReader(r io.Reader) (common.TextureStagingData, error)

	// DecodeAll decodes every path concurrently and blocks until all of them are done.
	// The returned slice has one Result per input path, in input order.
	//
	// Parameters:
	//   - paths: the file paths to decode
	//
	// Returns:
	//   - []Result: the per-path outcomes in input order
	DecodeAll(paths ...string) []Result

	// Get retrieves cached staging data for a path.
	//
	// Parameters:
	//   - path: the cache key to look up
	//
	// Returns:
	//   - common.TextureStagingData: the cached data
	//   - bool: true if the path was cached
	Get(path string) (common.TextureStagingData, bool)

	// Evict drops a path from the cache.
	//
	// Parameters:
	//   - path: the cache key to remove
	Evict(path string)

	// Workers returns the maximum number of concurrent decode workers.
	//
	// Returns:
	//   - int: the worker count
	Workers() int
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
// The worker pool is created lazily on the first DecodeAll call.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeImage)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		cache:       make(map[string]common.TextureStagingData),
		workers:     4,
		queueSize:   defaultQueueSize,
		idleTimeout: defaultIdleTimeout,
	}

	switch backendType {
	case BackendTypeImage:
		l.backend = newImageLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	if l.workers < 1 {
		l.workers = 1
	}
	return l
}

var (
	sharedOnce   sync.Once
	sharedLoader Loader
)

// Shared returns the process-wide image Loader used by batch sprite loading.
//
// Returns:
//   - Loader: the shared loader, without caching
func Shared() Loader {
	sharedOnce.Do(func() {
		sharedLoader = NewLoader(BackendTypeImage)
	})
	return sharedLoader
}

func (l *loader) Decode(path string) (common.TextureStagingData, error) {
	if data, ok := l.Get(path); ok {
		return data, nil
	}

	data, err := l.backend.Decode(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if l.cacheEnabled {
		l.mu.Lock()
		l.cache[path] = data
		l.mu.Unlock()
	}
	return data, nil
}

func (l *loader) DecodeReader(r io.Reader) (common.TextureStagingData, error) {
	return l.backend.DecodeReader(r)
}

func (l *loader) DecodeAll(paths ...string) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}

	l.poolOnce.Do(func() {
		l.pool = worker.NewDynamicWorkerPool(l.workers, l.queueSize, l.idleTimeout)
	})

	// Each task writes only its own slot, so the results slice needs no lock.
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		idx, p := i, path
		l.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				data, err := l.Decode(p)
				results[idx] = Result{Path: p, Data: data, Err: err}
				return nil, nil
			},
		})
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	common.Logger().Debug("decoded image batch", "images", len(paths), "failed", failed)
	return results
}

func (l *loader) Get(path string) (common.TextureStagingData, bool) {
	if !l.cacheEnabled {
		return common.TextureStagingData{}, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	data, ok := l.cache[path]
	return data, ok
}

func (l *loader) Evict(path string) {
	l.mu.Lock()
	delete(l.cache, path)
	l.mu.Unlock()
}

func (l *loader) Workers() int {
	return l.workers
}
