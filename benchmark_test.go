package flock

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

// ============================================================================
// Submission throughput
// ============================================================================

func BenchmarkSilentAsync_Instant(b *testing.B) {
	pool, _ := NewPool(
		WithNumWorkers(runtime.GOMAXPROCS(0)),
		WithQueueCapacity(1024),
	)
	defer pool.Shutdown()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.SilentAsync(func() {})
	}
	pool.WaitForAll()

	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "tasks/sec")
}

func BenchmarkGoroutines_Instant(b *testing.B) {
	var wg sync.WaitGroup

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
		}()
	}
	wg.Wait()

	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "tasks/sec")
}

// ============================================================================
// Recursive fork/join: measures self-push (front) submission, the
// speculative fast path the package is named for
// ============================================================================

func BenchmarkSilentAsync_SelfSubmission(b *testing.B) {
	pool, _ := NewPool(
		WithNumWorkers(runtime.GOMAXPROCS(0)),
		WithQueueCapacity(1024),
	)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	wg.Add(b.N)

	var remaining atomic.Int64
	remaining.Store(int64(b.N))

	var submit func()
	submit = func() {
		wg.Done()
		if remaining.Add(-1) > 0 {
			pool.SilentAsync(submit)
		}
	}

	b.ResetTimer()
	pool.SilentAsync(submit)
	wg.Wait()
}

// ============================================================================
// Steal pressure: one producer feeding a single worker, forcing every other
// worker to steal
// ============================================================================

func BenchmarkSteal_SingleProducer(b *testing.B) {
	pool, _ := NewPool(
		WithNumWorkers(runtime.GOMAXPROCS(0)),
		WithQueueCapacity(1024),
	)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	wg.Add(b.N)

	b.ResetTimer()
	target := pool.workers[0]
	for i := 0; i < b.N; i++ {
		for !target.queue.PushBack(func() { wg.Done() }) {
			// queue momentarily full; retry
		}
		for _, w := range pool.workers {
			w.signal()
		}
	}
	wg.Wait()
}
