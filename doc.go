// Package flock provides a speculative work-stealing worker pool for Go.
//
// Each worker owns a private, fixed-capacity run-queue it pushes and pops
// from the hot (front) end without taking any lock. When a worker's own
// queue runs dry it steals from the cold (back) end of a peer's queue,
// chosen by a per-worker coprime-stride permutation so a full scan touches
// every worker exactly once before repeating. Work that cannot land on a
// worker's queue — submission races, a full queue — spills into a shared
// overflow FIFO. A worker that finds nothing anywhere parks on its own
// condition variable until woken by a new submission or a shutdown.
//
// # Quick Start
//
//	pool, err := flock.NewPool()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Shutdown()
//
//	for i := 0; i < 100; i++ {
//	    i := i
//	    pool.SilentAsync(func() {
//	        fmt.Printf("task %d executed\n", i)
//	    })
//	}
//
//	pool.WaitForAll()
//
// # Configuration
//
// Customize the pool with functional options:
//
//	pool, err := flock.NewPool(
//	    flock.WithNumWorkers(8),
//	    flock.WithQueueCapacity(512),
//	    flock.WithPanicHandler(func(workerID int, r any) {
//	        log.Printf("worker %d task panicked: %v", workerID, r)
//	    }),
//	)
//
// NumWorkers defaults to a CPU-quota-aware runtime.GOMAXPROCS(0), so a
// pool built with no options sizes itself sensibly under a container CPU
// limit. QueueCapacity must be a power of two greater than two; the
// default is 1024.
//
// # Submission
//
// SilentAsync fires a task without a return value. Called from inside a
// running task, the new task is pushed onto the calling worker's own
// queue — the speculative optimization the package is named for, since
// that worker is about to look for its next task anyway. Called from the
// pool's owner or any other external goroutine, the task is routed to a
// worker's queue round-robin.
//
// Async submits a task that produces a result, returning a *Future that
// blocks until the task completes:
//
//	fut := flock.Async(pool, func() int {
//	    return 42
//	})
//	result := fut.Get()
//
// A task's panic does not crash the pool. A SilentAsync task's panic is
// handed to the configured PanicHandler, or logged and swallowed if none
// is set. An Async task's panic is instead carried by its Future and
// re-raised from Get.
//
// # Waiting and Shutdown
//
// WaitForAll blocks the pool's owner until every worker is idle, every
// run-queue is empty, and the overflow queue is empty. Shutdown does the
// same and then terminates every worker goroutine; it is safe to call on
// a pool that was never spawned, or twice in a row. Both return
// ErrNotOwner if called from any goroutine other than the one that
// constructed the pool — including from inside a task running on the
// pool itself, since a task that could shut down its own pool could
// deadlock it.
//
// Spawn grows a pool after construction, first waiting for quiescence so
// that the existing workers' steal permutations can be safely recomputed
// for the new worker count.
//
// # Observability
//
// Stats returns a snapshot of pool-wide and per-worker counters:
//
//	s := pool.Stats()
//	fmt.Printf("completed=%d stolen=%d panicked=%d overflow=%d\n",
//	    s.Completed, s.Stolen, s.Panicked, s.OverflowLength)
//
// WithLogger installs a zerolog.Logger that receives structured events
// for worker start/stop, spawn, shutdown, and unhandled panics.
// WithWorkerLifecycleHooks installs plain callbacks for the same
// start/stop transitions, run on the worker's own goroutine.
//
// # Thread Safety
//
// All exported methods are safe for concurrent use except WaitForAll,
// Shutdown, and Spawn, which are restricted to the pool's owner goroutine
// by design, not by an internal lock.
package flock
