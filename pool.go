package flock

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Pool is a speculative work-stealing pool. Each worker owns a private
// RunQueue it alone pushes onto the hot (front) end; submissions from the
// owner or an external goroutine land on some worker's cold (back) end, or
// spill to a shared overflow FIFO when that fails.
//
// A Pool with zero workers is legal: every submission then executes inline
// on the caller, and WaitForAll/Shutdown/Spawn are no-ops or simple growth
// operations.
type Pool struct {
	config Config
	logger zerolog.Logger

	mu sync.Mutex // guards overflow, idleCount, the flags below, threadMap

	workers   []*worker
	overflow  *overflowQueue
	threadMap map[uint64]int // goroutine id -> worker index, write-once per worker
	ownerID   uint64

	idleCount  int
	waitForAll bool
	syncFlag   bool
	exiting    atomic.Bool

	quiesceCond *sync.Cond

	nextQueue atomic.Uint64
	coprimes  []int

	wg sync.WaitGroup

	// Pool-wide counters backing Stats; per-worker breakdowns live on
	// *worker itself.
	completed atomic.Uint64
	stolen    atomic.Uint64
	panicked  atomic.Uint64
}

// NewPool constructs a Pool and starts its worker goroutines. The
// constructing goroutine becomes the pool's owner: only it may call
// WaitForAll, Shutdown, or Spawn.
func NewPool(opts ...Option) (*Pool, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := &Pool{
		config:    cfg,
		overflow:  newOverflowQueue(),
		threadMap: make(map[uint64]int),
		ownerID:   goroutineID(),
	}
	p.logger = cfg.Logger
	p.quiesceCond = sync.NewCond(&p.mu)

	if cfg.NumWorkers > 0 {
		p.mu.Lock()
		p.spawnLocked(cfg.NumWorkers)
		p.mu.Unlock()
	}

	return p, nil
}

// IsOwner reports whether the calling goroutine constructed this pool.
func (p *Pool) IsOwner() bool {
	return goroutineID() == p.ownerID
}

// NumWorkers returns the number of workers currently in the pool.
func (p *Pool) NumWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// NumTasks returns the number of tasks currently sitting in the overflow
// queue. Per spec this counts only overflow, not the per-worker run-queues,
// since those are meant to be probed only by their own owners and by
// stealers, not enumerated for a global count.
func (p *Pool) NumTasks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overflow.len()
}

// registerSelf records the calling goroutine (a worker) into threadMap
// under its own id before that worker executes any task, satisfying
// invariant 5. Called once, from the top of worker.loop.
func (p *Pool) registerSelf(idx int) {
	p.mu.Lock()
	p.threadMap[goroutineID()] = idx
	p.mu.Unlock()
}

// callerWorkerIndex reports whether the calling goroutine is a registered
// worker, and if so, which one.
func (p *Pool) callerWorkerIndex() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx, ok := p.threadMap[goroutineID()]
	return idx, ok
}

// SilentAsync submits task for fire-and-forget execution. A nil task is
// silently ignored.
//
// Routing (spec section 4.4): with zero workers, task runs inline. From
// inside a worker, task is pushed onto that worker's own front — the
// speculative optimization the package is named for: the pushing worker
// will itself pop it back off shortly, so no CV notification is needed.
// From the owner or any other goroutine, task is round-robined onto some
// worker's back and that worker's CV is always notified.
func (p *Pool) SilentAsync(task Task) {
	if task == nil {
		return
	}

	if p.NumWorkers() == 0 {
		task()
		return
	}

	if idx, ok := p.callerWorkerIndex(); ok {
		w := p.workers[idx]
		if !w.queue.PushFront(task) {
			p.pushOverflow(task)
		}
		return
	}

	p.mu.Lock()
	n := len(p.workers)
	p.mu.Unlock()
	if n == 0 {
		task()
		return
	}

	id := int(p.nextQueue.Add(1) % uint64(n))
	w := p.workers[id]
	if !w.queue.PushBack(task) {
		p.pushOverflow(task)
	}
	w.signal()
}

func (p *Pool) pushOverflow(task Task) {
	p.mu.Lock()
	p.overflow.push(task)
	p.mu.Unlock()
}

// nonemptyQueueIndexLocked scans every worker's run-queue in index order for
// the first non-empty one, returning len(workers) if all are empty. Must be
// called with p.mu held; overflow is assumed already checked by the caller
// (the worker loop checks it in the step before reaching idle/park).
func (p *Pool) nonemptyQueueIndexLocked() int {
	for i, w := range p.workers {
		if !w.queue.Empty() {
			return i
		}
	}
	return len(p.workers)
}

// WaitForAll blocks until the pool is quiescent: every worker parked, every
// run-queue empty, and the overflow queue empty. A no-op if the pool has no
// workers. Owner-only.
func (p *Pool) WaitForAll() error {
	if !p.IsOwner() {
		return ErrNotOwner
	}

	p.mu.Lock()
	if len(p.workers) == 0 {
		p.mu.Unlock()
		return nil
	}

	p.waitForAll = true
	for _, w := range p.workers {
		w.cond.Signal()
	}
	for !p.syncFlag {
		p.quiesceCond.Wait()
	}
	p.syncFlag = false
	p.waitForAll = false
	p.mu.Unlock()

	return nil
}

// Shutdown quiesces the pool and terminates every worker goroutine. It is
// idempotent: a pool with no workers treats Shutdown as a no-op, which is
// what makes a second call (after the first has run) harmless. Owner-only.
func (p *Pool) Shutdown() error {
	if !p.IsOwner() {
		return ErrNotOwner
	}

	p.mu.Lock()
	hasWorkers := len(p.workers) > 0
	p.mu.Unlock()
	if !hasWorkers {
		return nil
	}

	if err := p.WaitForAll(); err != nil {
		return err
	}

	p.mu.Lock()
	p.exiting.Store(true)
	for _, w := range p.workers {
		w.queue.PushBack(func() {}) // best-effort wakeup nudge; see spec 4.6
		w.cond.Signal()
	}
	workers := p.workers
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	p.workers = nil
	p.threadMap = make(map[uint64]int)
	p.exiting.Store(false)
	p.mu.Unlock()

	p.logger.Info().Int("workers_joined", len(workers)).Msg("pool shutdown")
	return nil
}

// Spawn grows the pool by k workers. If workers already exist it first
// waits for quiescence, since growth is permitted only while the pool is
// quiescent — spawnLocked only mutates p.workers and starts new goroutines
// while every existing worker is already parked inside that wait, which is
// what makes the unsynchronized len(p.workers) reads in steal() safe.
// Owner-only.
func (p *Pool) Spawn(k int) error {
	if !p.IsOwner() {
		return ErrNotOwner
	}
	if k <= 0 {
		return errInvalidSpawnCount("k must be > 0")
	}

	p.mu.Lock()
	hasWorkers := len(p.workers) > 0
	p.mu.Unlock()

	if hasWorkers {
		if err := p.WaitForAll(); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.spawnLocked(k)
	p.mu.Unlock()

	p.logger.Info().Int("added", k).Int("total", p.NumWorkers()).Msg("pool spawn")
	return nil
}

// spawnLocked appends k new workers and starts their goroutines. Callers
// must hold p.mu and must only call this at quiescence (guaranteed by
// NewPool, where no workers yet exist, and by Spawn, which waits first).
func (p *Pool) spawnLocked(k int) {
	start := len(p.workers)
	p.coprimes = computeCoprimes(start + k)

	for i := 0; i < k; i++ {
		w := newWorker(start+i, p)
		p.workers = append(p.workers, w)
	}

	for i := 0; i < k; i++ {
		w := p.workers[start+i]
		p.wg.Add(1)
		go func(w *worker) {
			defer p.wg.Done()
			w.loop()
		}(w)
	}
}
