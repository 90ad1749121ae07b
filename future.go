package flock

import "sync"

// Future is the fulfillment slot Async hands back to the caller: an
// external collaborator per spec, but one this package implements directly
// since Go has no std::promise/std::future pair to delegate to.
type Future[R any] struct {
	mu   sync.Mutex
	cond *sync.Cond
	done bool
	val  R
	err  any // the recovered panic value, if the task trapped; nil otherwise
}

func newFuture[R any]() *Future[R] {
	f := &Future[R]{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

func (f *Future[R]) fulfill(v R, recovered any) {
	f.mu.Lock()
	f.val = v
	f.err = recovered
	f.done = true
	f.mu.Unlock()
	f.cond.Broadcast()
}

// Get blocks until the task has run, then returns its result. If the task
// panicked, Get re-panics with the original recovered value in the
// caller's goroutine, the closest Go analogue of std::future::get()
// rethrowing a stored exception.
func (f *Future[R]) Get() R {
	f.mu.Lock()
	for !f.done {
		f.cond.Wait()
	}
	v, recovered := f.val, f.err
	f.mu.Unlock()

	if recovered != nil {
		panic(recovered)
	}
	return v
}

// TryGet reports whether the task has completed without blocking, and if
// so, its result.
func (f *Future[R]) TryGet() (R, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.val, f.done
}

// Async submits fn for execution and returns a Future for its result. If
// the pool has zero workers, fn runs inline on the caller and the Future is
// already fulfilled when Async returns.
//
// Async cannot be a method on Pool: Go methods may not introduce new type
// parameters, so the adaptor for an arbitrary result type R is necessarily
// a package-level generic function (mirrored by the pack's own generic
// Job[T]/Result[T] pool wrappers).
func Async[R any](p *Pool, fn func() R) *Future[R] {
	fut := newFuture[R]()

	runProtected := func() {
		defer func() {
			if r := recover(); r != nil {
				var zero R
				fut.fulfill(zero, r)
			}
		}()
		fut.fulfill(fn(), nil)
	}

	if p.NumWorkers() == 0 {
		runProtected()
		return fut
	}

	p.SilentAsync(runProtected)
	return fut
}
