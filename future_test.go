package flock

import "testing"

// ============================================================================
// Async / Future
// ============================================================================

func TestAsync_InlineWhenNoWorkers(t *testing.T) {
	pool, err := NewPool(WithNumWorkers(0))
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	defer pool.Shutdown()

	fut := Async(pool, func() int { return 42 })

	v, ok := fut.TryGet()
	if !ok {
		t.Fatal("Future should already be fulfilled when NumWorkers() == 0")
	}
	if v != 42 {
		t.Errorf("TryGet() = %d, want 42", v)
	}
	if got := fut.Get(); got != 42 {
		t.Errorf("Get() = %d, want 42", got)
	}
}

func TestAsync_RunsOnWorkerAndReturnsResult(t *testing.T) {
	pool, err := NewPool(WithNumWorkers(2))
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	defer pool.Shutdown()

	fut := Async(pool, func() string { return "hello" })

	if got := fut.Get(); got != "hello" {
		t.Errorf("Get() = %q, want %q", got, "hello")
	}
}

func TestAsync_PanicPropagatesThroughGet(t *testing.T) {
	pool, err := NewPool(WithNumWorkers(2))
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	defer pool.Shutdown()

	fut := Async(pool, func() int { panic("boom") })

	defer func() {
		r := recover()
		if r != "boom" {
			t.Errorf("recovered value = %v, want %q", r, "boom")
		}
	}()
	fut.Get()
	t.Fatal("Get() did not panic")
}

func TestFuture_TryGetBeforeFulfillment(t *testing.T) {
	pool, err := NewPool(WithNumWorkers(1))
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	defer pool.Shutdown()

	block := make(chan struct{})
	fut := Async(pool, func() int {
		<-block
		return 1
	})

	if _, ok := fut.TryGet(); ok {
		t.Error("TryGet() reported done before the task was unblocked")
	}
	close(block)

	if got := fut.Get(); got != 1 {
		t.Errorf("Get() = %d, want 1", got)
	}
}
