package flock

import (
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"
)

// Config holds the tunable parameters for a Pool. Build one with functional
// options passed to NewPool rather than constructing it directly.
type Config struct {
	// NumWorkers is the number of worker goroutines spawned at construction.
	// Zero is legal: every submission then executes inline on the caller.
	// If unset (the zero Config), it defaults to a CPU-quota-aware
	// runtime.GOMAXPROCS(0).
	NumWorkers int

	// QueueCapacity is the fixed capacity of each worker's RunQueue. Must be
	// a power of two greater than two. Defaults to 1024.
	QueueCapacity int

	// PanicHandler, if set, receives the worker id and recovered value when
	// a SilentAsync task panics. Async tasks instead carry the panic to
	// Future.Get; see future.go. If nil, panics are logged via Logger and
	// otherwise swallowed.
	PanicHandler func(workerID int, recovered any)

	// OnWorkerStart and OnWorkerStop, if set, are called on a worker's own
	// goroutine as it begins and ends its scheduling loop.
	OnWorkerStart func(workerID int)
	OnWorkerStop  func(workerID int)

	// Logger receives structured events for worker lifecycle, panics,
	// spawn, and shutdown. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// Option configures a Pool at construction time.
type Option func(*Config)

// WithNumWorkers sets the number of worker goroutines.
func WithNumWorkers(n int) Option {
	return func(c *Config) { c.NumWorkers = n }
}

// WithQueueCapacity sets the per-worker RunQueue capacity. Must be a power
// of two greater than two.
func WithQueueCapacity(n int) Option {
	return func(c *Config) { c.QueueCapacity = n }
}

// WithPanicHandler installs a callback invoked when a SilentAsync task
// panics.
func WithPanicHandler(h func(workerID int, recovered any)) Option {
	return func(c *Config) { c.PanicHandler = h }
}

// WithWorkerLifecycleHooks installs callbacks fired as each worker starts
// and stops its scheduling loop.
func WithWorkerLifecycleHooks(onStart, onStop func(workerID int)) Option {
	return func(c *Config) {
		c.OnWorkerStart = onStart
		c.OnWorkerStop = onStop
	}
}

// WithLogger installs a structured logger for pool lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

var setMaxProcsOnce sync.Once

// defaultConfig returns the baseline Config applied before user options.
// NumWorkers resolves through go.uber.org/automaxprocs so a default pool
// sized off runtime.GOMAXPROCS(0) honors container CPU quotas rather than
// the host's full core count, the same reasoning that library's own
// README gives for calling it once at process start.
func defaultConfig() Config {
	setMaxProcsOnce.Do(func() {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	})
	return Config{
		NumWorkers:    runtime.GOMAXPROCS(0),
		QueueCapacity: 1024,
		Logger:        zerolog.Nop(),
	}
}

func (c *Config) validate() error {
	if c.NumWorkers < 0 {
		return errInvalidConfig("NumWorkers must be >= 0")
	}
	if c.QueueCapacity <= 2 || c.QueueCapacity&(c.QueueCapacity-1) != 0 {
		return errInvalidConfig("QueueCapacity must be a power of two greater than two")
	}
	return nil
}
