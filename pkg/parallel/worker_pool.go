// Package parallel runs independent tasks on a fixed set of goroutines.
package parallel

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/dd0wney/cluso-capgraph/pkg/logging"
)

var (
	// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers.
	ErrTooManyWorkers = errors.New("worker count exceeds maximum")
	// ErrPoolClosed is returned when work is offered to a closed pool.
	ErrPoolClosed = errors.New("worker pool closed")
	// ErrTaskPanicked wraps the value recovered from a panicking task.
	ErrTaskPanicked = errors.New("task panicked")
)

// MaxWorkers bounds the pool size.
const MaxWorkers = math.MaxInt / 2

// WorkerPool runs submitted tasks on a fixed number of goroutines. A task
// that panics is recovered and reported by Close; the remaining tasks still
// run.
type WorkerPool struct {
	size  int
	tasks chan func()
	done  sync.WaitGroup
	stop  sync.Once

	// gate is held for reading while sending on tasks so Close cannot
	// close the channel under a sender.
	gate   sync.RWMutex
	closed bool

	panicMu sync.Mutex
	panics  []error
}

// NewWorkerPool starts a pool. A non-positive count selects GOMAXPROCS
// workers.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	wp := &WorkerPool{
		size:  workers,
		tasks: make(chan func(), workers*2),
	}
	wp.done.Add(workers)
	for range workers {
		go wp.loop()
	}
	return wp, nil
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.size
}

func (wp *WorkerPool) loop() {
	defer wp.done.Done()
	for task := range wp.tasks {
		wp.runTask(task)
	}
}

func (wp *WorkerPool) runTask(task func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		logging.Warn("worker task panicked", logging.Component("parallel"), logging.Any("panic", r))
		wp.panicMu.Lock()
		wp.panics = append(wp.panics, fmt.Errorf("%w: %v", ErrTaskPanicked, r))
		wp.panicMu.Unlock()
	}()
	task()
}

// Submit queues task, blocking while the queue is full. It returns false
// once the pool is closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.gate.RLock()
	defer wp.gate.RUnlock()

	if wp.closed {
		return false
	}
	wp.tasks <- task
	return true
}

// Close stops accepting tasks, waits for the queued ones and returns the
// recovered panics joined, or nil. It is safe to call more than once.
func (wp *WorkerPool) Close() error {
	wp.stop.Do(func() {
		wp.gate.Lock()
		wp.closed = true
		close(wp.tasks)
		wp.gate.Unlock()
	})
	wp.done.Wait()

	wp.panicMu.Lock()
	defer wp.panicMu.Unlock()
	return errors.Join(wp.panics...)
}
