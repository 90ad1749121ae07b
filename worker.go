package flock

import (
	"sync"
	"sync/atomic"
)

// worker pairs one private RunQueue with the condition variable a worker
// parks on when it finds no work anywhere. Every worker's cond shares the
// pool's single mutex as its Locker (see Pool.mu), mirroring the original
// design's single process-wide mutex guarding every worker's cv — Go's
// sync.Cond requires exactly this, since Wait unlocks its Locker before
// blocking and relocks it before returning.
type worker struct {
	id   int
	pool *Pool

	queue *RunQueue[Task]
	cond  *sync.Cond

	// seed is this worker's private xorshift32 state for steal victim
	// selection. Touched only by this worker's own goroutine.
	seed uint32

	tasksExecuted atomic.Uint64
	tasksStolen   atomic.Uint64
	tasksPanicked atomic.Uint64

	parked atomic.Bool
}

func newWorker(id int, pool *Pool) *worker {
	return &worker{
		id:    id,
		pool:  pool,
		queue: NewRunQueue[Task](pool.config.QueueCapacity),
		cond:  sync.NewCond(&pool.mu),
		seed:  uint32(id) + 1, // xorshift32 state must never be zero
	}
}

// loop is the worker's scheduling loop: local pop, then steal, then
// overflow drain, then idle/park, until the pool's exiting flag is
// observed. It registers the worker's own goroutine into the pool's thread
// map before doing anything else, satisfying the invariant that a worker is
// known to threadMap before it executes any task.
func (w *worker) loop() {
	w.pool.registerSelf(w.id)

	if hook := w.pool.config.OnWorkerStart; hook != nil {
		hook(w.id)
	}
	w.pool.logger.Debug().Int("worker", w.id).Msg("worker started")

	for {
		if w.pool.exiting.Load() {
			break
		}

		if t, ok := w.queue.PopFront(); ok {
			w.run(t)
			continue
		}

		if t, ok := w.pool.steal(w.id); ok {
			w.tasksStolen.Add(1)
			w.pool.stolen.Add(1)
			w.run(t)
			continue
		}

		w.pool.mu.Lock()
		if t, ok := w.pool.overflow.pop(); ok {
			w.pool.mu.Unlock()
			w.run(t)
			continue
		}

		// No work anywhere: idle/park, still holding pool.mu.
		w.pool.idleCount++
		if w.pool.idleCount == len(w.pool.workers) && w.pool.waitForAll {
			switch j := w.pool.nonemptyQueueIndexLocked(); {
			case j == len(w.pool.workers):
				// Every run-queue and the overflow are empty: quiescent.
				w.pool.syncFlag = true
				w.pool.quiesceCond.Signal()
			case j == w.id:
				// We spuriously concluded we had no work; resume without
				// parking.
				w.pool.idleCount--
				w.pool.mu.Unlock()
				continue
			default:
				// A peer still has residual work; re-arm it in case our
				// probe raced with a push onto its queue.
				w.pool.workers[j].cond.Signal()
			}
		}

		w.parked.Store(true)
		w.cond.Wait()
		w.parked.Store(false)
		w.pool.idleCount--
		w.pool.mu.Unlock()
	}

	w.drain()

	if hook := w.pool.config.OnWorkerStop; hook != nil {
		hook(w.id)
	}
	w.pool.logger.Debug().Int("worker", w.id).Msg("worker stopped")
}

// run executes a single task with panic recovery, recording it in Stats.
// Always called with no pool lock held.
func (w *worker) run(t Task) {
	defer func() {
		if r := recover(); r != nil {
			w.tasksPanicked.Add(1)
			w.pool.panicked.Add(1)
			if h := w.pool.config.PanicHandler; h != nil {
				h(w.id, r)
			} else {
				w.pool.logger.Warn().Int("worker", w.id).Interface("panic", r).Msg("task panicked")
			}
		}
		w.tasksExecuted.Add(1)
		w.pool.completed.Add(1)
	}()

	t()
}

// drain runs out any tasks left in this worker's own queue once the pool is
// exiting. On every shutdown this runs the no-op task Shutdown pushed onto
// the queue. Shutdown has already waited for quiescence before setting the
// exiting flag, so any other task found here was submitted concurrently
// with shutdown (spec section 5).
func (w *worker) drain() {
	for {
		t, ok := w.queue.PopFront()
		if !ok {
			break
		}
		w.run(t)
	}
}

// signal wakes this worker if it is parked in cond.Wait. Deliberately called
// without holding pool.mu, matching the original design's unlocked
// notify_one after an external submission: a signal that arrives before the
// worker parks is simply lost, a liveness gap (not a correctness one) that
// WaitForAll's own broadcast-on-entry closes for every task submitted
// before it is called (see the Round-trip law in the package tests).
func (w *worker) signal() {
	w.cond.Signal()
}
