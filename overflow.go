package flock

import "github.com/gammazero/deque"

// overflowQueue is the unbounded FIFO a task spills into when the target
// worker's RunQueue rejects a push (full, or racing another producer for
// the same slot). It is always accessed with the pool's mutex already held
// by the caller — it does no locking of its own, unlike RunQueue's back
// side, because the pool's single mutex already serializes every access
// path (submission fallback, overflow drain, NumTasks, Stats).
//
// Backed by gammazero/deque's ring buffer rather than a hand-rolled slice
// queue: it grows and shrinks by doubling/halving rather than by repeated
// slice reallocation, which matters here because overflow is meant to be
// the rare, cold path — when it is hit at all it is often hit in bursts.
type overflowQueue struct {
	d deque.Deque
}

func newOverflowQueue() *overflowQueue {
	return &overflowQueue{}
}

// push appends a task to the tail of the overflow FIFO.
func (o *overflowQueue) push(t Task) {
	o.d.PushBack(t)
}

// pop removes and returns the task at the head of the overflow FIFO.
func (o *overflowQueue) pop() (Task, bool) {
	if o.d.Len() == 0 {
		return nil, false
	}
	v := o.d.PopFront()
	t, _ := v.(Task)
	return t, true
}

// len reports the current overflow depth. Backs Pool.NumTasks, which per
// spec counts only overflow, not the per-worker run-queues.
func (o *overflowQueue) len() int {
	return o.d.Len()
}
