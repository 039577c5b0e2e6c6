package loader

import "time"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the maximum number of concurrent decode workers. Values below 1 are raised to 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = n
	}
}

// WithQueueSize sets the task queue capacity of the worker pool.
//
// Parameters:
//   - n: the queue capacity
//
// Returns:
//   - LoaderBuilderOption: a function that applies the queue size to a loader
func WithQueueSize(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// WithIdleTimeout sets how long an idle worker lingers before exiting.
//
// Parameters:
//   - d: the idle timeout
//
// Returns:
//   - LoaderBuilderOption: a function that applies the idle timeout to a loader
func WithIdleTimeout(d time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		if d > 0 {
			l.idleTimeout = d
		}
	}
}

// WithCache enables caching decoded staging data by path.
//
// Returns:
//   - LoaderBuilderOption: a function that enables the cache on a loader
func WithCache() LoaderBuilderOption {
	return func(l *loader) {
		l.cacheEnabled = true
	}
}
