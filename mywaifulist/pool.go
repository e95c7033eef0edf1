package mywaifulist

import (
	"container/list"
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultPoolSize is the number of workers a Client starts when no pool is supplied
const DefaultPoolSize = 10

// WorkerPool runs request tasks off the caller's goroutine.
//
// Submit must not block: the client waits on each request's result channel and
// nowhere else. Implementations supplied through WithWorkerPool are owned by the
// caller and are never stopped by Client.Close.
type WorkerPool interface {
	// Submit queues a task for execution
	Submit(task func()) error

	// Stop gracefully stops the worker pool
	Stop(ctx context.Context) error
}

// workerPool is a fixed set of workers draining an unbounded FIFO queue.
// Tasks queued before Stop are still run.
type workerPool struct {
	workers int
	logger  zerolog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   *list.List
	stopped bool

	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workers int, logger zerolog.Logger) WorkerPool {
	return newWorkerPool(workers, logger)
}

func newWorkerPool(workers int, logger zerolog.Logger) *workerPool {
	if workers <= 0 {
		workers = 1
	}

	pool := &workerPool{
		workers: workers,
		logger:  logger,
		queue:   list.New(),
	}
	pool.cond = sync.NewCond(&pool.mu)

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

// worker processes tasks until the pool is stopped and the queue is empty
func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for p.queue.Len() == 0 && !p.stopped {
			p.cond.Wait()
		}
		if p.queue.Len() == 0 {
			p.mu.Unlock()
			return
		}
		task := p.queue.Remove(p.queue.Front()).(func())
		p.mu.Unlock()

		p.run(task)
	}
}

func (p *workerPool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("Worker task panicked")
		}
	}()
	task()
}

// Submit submits work to the pool
func (p *workerPool) Submit(task func()) error {
	if task == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}
	p.queue.PushBack(task)
	p.cond.Signal()
	return nil
}

// Pending returns the number of queued tasks not yet picked up by a worker
func (p *workerPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

// Stop gracefully stops the worker pool
func (p *workerPool) Stop(ctx context.Context) error {
	var err error

	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.cond.Broadcast()
		p.mu.Unlock()

		// Wait for workers with context
		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
	})

	return err
}
