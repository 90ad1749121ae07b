package flock

// Stats is a snapshot of pool-wide and per-worker counters. Snapshots are
// assembled from independently-loaded atomics and the overflow length under
// pool.mu, so a Stats value may be momentarily inconsistent under
// concurrent submission — acceptable for an observability surface that was
// never part of the pool's own synchronization.
type Stats struct {
	NumWorkers int

	Completed uint64 // tasks that finished running (success or panic)
	Stolen    uint64 // tasks picked up via a steal rather than local pop
	Panicked  uint64 // SilentAsync tasks that panicked; an Async task's panic is caught by its Future and not counted

	OverflowLength int // spec's num_tasks(): overflow only, not per-worker queues

	Workers []WorkerStats
}

// WorkerStats is the per-worker slice of Stats.
type WorkerStats struct {
	WorkerID      int
	TasksExecuted uint64
	TasksStolen   uint64
	TasksPanicked uint64
	HasWork       bool // RunQueue exposes no exact depth; Empty() is deliberately racy
	Parked        bool
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	overflowLen := p.overflow.len()
	p.mu.Unlock()

	workers := make([]WorkerStats, len(p.workers))
	for i, w := range p.workers {
		workers[i] = WorkerStats{
			WorkerID:      w.id,
			TasksExecuted: w.tasksExecuted.Load(),
			TasksStolen:   w.tasksStolen.Load(),
			TasksPanicked: w.tasksPanicked.Load(),
			HasWork:       !w.queue.Empty(),
			Parked:        w.parked.Load(),
		}
	}

	return Stats{
		NumWorkers:     len(p.workers),
		Completed:      p.completed.Load(),
		Stolen:         p.stolen.Load(),
		Panicked:       p.panicked.Load(),
		OverflowLength: overflowLen,
		Workers:        workers,
	}
}
