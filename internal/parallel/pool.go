// Package parallel runs shading work on a fixed set of goroutines.
package parallel

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a pool of goroutines for parallel shading.
//
// Each worker has its own queue and steals from the others when it runs
// dry, which keeps bands of uneven cost balanced.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool
}

// PanicError is returned by ExecuteAll when a work item panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("parallel: work item panicked: %v", e.Value)
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.workQueues[id]

	for {
		select {
		case <-p.done:
			drain(own)
			return
		case work := <-own:
			work()
			continue
		default:
		}

		if stolen := p.steal(id); stolen != nil {
			stolen()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case work := <-own:
			work()
		}
	}
}

func drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(self int) func() {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll runs every work item and waits for all of them. If any item
// panics, the panic is recovered and the first one is returned as a
// *PanicError once the remaining items finish. On a closed pool the items
// run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) error {
	if len(work) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		panicked atomic.Pointer[PanicError]
	)
	run := func(fn func()) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				panicked.CompareAndSwap(nil, &PanicError{Value: r})
			}
		}()
		fn()
	}

	wg.Add(len(work))
	for i, fn := range work {
		if !p.running.Load() {
			run(fn)
			continue
		}
		select {
		case p.workQueues[i%p.workers] <- func() { run(fn) }:
		case <-p.done:
			run(fn)
		}
	}
	wg.Wait()

	if pe := panicked.Load(); pe != nil {
		return pe
	}
	return nil
}

// Rows splits [0, height) into about one band per worker and calls fn for
// each band in parallel.
func (p *WorkerPool) Rows(height int, fn func(y0, y1 int)) error {
	if height <= 0 {
		return nil
	}
	bands := min(p.workers*2, height)
	work := make([]func(), 0, bands)
	for i := range bands {
		y0 := i * height / bands
		y1 := (i + 1) * height / bands
		work = append(work, func() { fn(y0, y1) })
	}
	return p.ExecuteAll(work)
}

// Close stops the workers after the queued work completes. Close is safe
// to call multiple times but must not run concurrently with ExecuteAll.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
