package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_Create(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 4, 4},
		{"zero uses GOMAXPROCS", 0, runtime.GOMAXPROCS(0)},
		{"negative uses GOMAXPROCS", -5, runtime.GOMAXPROCS(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewWorkerPool(tt.workers)
			defer pool.Close()

			if pool.Workers() != tt.want {
				t.Errorf("Workers() = %d, want %d", pool.Workers(), tt.want)
			}
			if !pool.IsRunning() {
				t.Error("pool should be running after creation")
			}
		})
	}
}

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	const numTasks = 100
	work := make([]func(), numTasks)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}

	if err := pool.ExecuteAll(work); err != nil {
		t.Fatalf("ExecuteAll() error = %v", err)
	}
	if counter.Load() != numTasks {
		t.Errorf("counter = %d, want %d", counter.Load(), numTasks)
	}
}

func TestWorkerPool_ExecuteAll_Empty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	if err := pool.ExecuteAll(nil); err != nil {
		t.Errorf("ExecuteAll(nil) error = %v", err)
	}
}

func TestWorkerPool_ExecuteAll_Panic(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	var ran atomic.Int64
	work := []func(){
		func() { ran.Add(1) },
		func() { panic("boom") },
		func() { ran.Add(1) },
		func() { ran.Add(1) },
	}

	err := pool.ExecuteAll(work)
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("ExecuteAll() error = %v, want *PanicError", err)
	}
	if pe.Value != "boom" {
		t.Errorf("PanicError.Value = %v, want boom", pe.Value)
	}
	if ran.Load() != 3 {
		t.Errorf("other items ran %d times, want 3", ran.Load())
	}

	// The pool stays usable.
	if err := pool.ExecuteAll([]func(){func() {}}); err != nil {
		t.Errorf("ExecuteAll after panic error = %v", err)
	}
}

func TestWorkerPool_ExecuteAllAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("IsRunning() = true after Close")
	}
	var counter atomic.Int64
	err := pool.ExecuteAll([]func(){
		func() { counter.Add(1) },
		func() { counter.Add(1) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if counter.Load() != 2 {
		t.Errorf("counter = %d, want 2", counter.Load())
	}
}

func TestWorkerPool_Rows(t *testing.T) {
	tests := []struct {
		workers, height int
	}{
		{1, 1},
		{4, 3},
		{4, 100},
		{3, 17},
	}
	for _, tt := range tests {
		pool := NewWorkerPool(tt.workers)

		var mu sync.Mutex
		covered := make([]int, tt.height)
		err := pool.Rows(tt.height, func(y0, y1 int) {
			mu.Lock()
			defer mu.Unlock()
			for y := y0; y < y1; y++ {
				covered[y]++
			}
		})
		pool.Close()

		if err != nil {
			t.Fatalf("Rows(%d) error = %v", tt.height, err)
		}
		for y, n := range covered {
			if n != 1 {
				t.Errorf("workers=%d height=%d: row %d covered %d times", tt.workers, tt.height, y, n)
			}
		}
	}
}

func TestWorkerPool_RowsEmpty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	called := false
	if err := pool.Rows(0, func(int, int) { called = true }); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("Rows(0) called fn")
	}
}
