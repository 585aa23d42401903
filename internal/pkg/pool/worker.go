// Package pool runs a fixed-size goroutine pool over Job values, used by
// the plan package to paint pages in parallel while preserving page order
// in the result slice.
package pool

import (
	"context"
	"errors"
	"sync"
	"time"

	"fullbleed/internal/obs"
)

// Job is one unit of work submitted to a WorkerPool. Index identifies the
// job's position in the caller's result slice so out-of-order completion
// never scrambles page order.
type Job interface {
	Index() int
	Run(ctx context.Context) error
}

// WorkerPool manages a fixed number of worker goroutines draining a shared
// job queue.
type WorkerPool struct {
	size    int
	jobs    chan Job
	results chan Result
	workers []*worker
	wg      sync.WaitGroup
	logger  obs.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

type worker struct {
	id     int
	pool   *WorkerPool
	logger obs.Logger
}

// Result pairs a submitted Job with the error it returned, if any.
type Result struct {
	Job Job
	Err error
}

// ErrQueueFull is returned by Submit when the job queue has no free slot.
var ErrQueueFull = errors.New("job queue is full")

// NewWorkerPool creates a pool of size workers, buffering up to size*2 jobs
// and results.
func NewWorkerPool(size int, logger obs.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size*2),
		results: make(chan Result, size*2),
		workers: make([]*worker, 0, size),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	wp.logger.Info("starting worker pool", "size", wp.size)
	for i := 0; i < wp.size; i++ {
		w := &worker{id: i + 1, pool: wp, logger: wp.logger.With("worker_id", i+1)}
		wp.workers = append(wp.workers, w)
		wp.wg.Add(1)
		go w.run(ctx)
	}
}

// Submit enqueues job, returning ErrQueueFull if the buffer is saturated
// or the pool's context error if it was already cancelled.
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobs <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	default:
		wp.logger.Warn("job queue is full, job rejected")
		return ErrQueueFull
	}
}

// Stop closes the job queue, waits for all workers to drain it (up to
// ctx's deadline, past which it cancels outstanding work), and returns
// every collected Result.
func (wp *WorkerPool) Stop(ctx context.Context) []Result {
	wp.logger.Info("stopping worker pool")
	close(wp.jobs)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		wp.logger.Warn("worker pool stop timeout, forcing shutdown")
		wp.cancel()
		wp.wg.Wait()
	}

	close(wp.results)
	results := make([]Result, 0, wp.size)
	for r := range wp.results {
		results = append(results, r)
	}
	return results
}

// Stats describes current pool occupancy.
type Stats struct {
	Size        int
	QueuedJobs  int
	WorkerCount int
}

// Stats returns a snapshot of current pool occupancy.
func (wp *WorkerPool) Stats() Stats {
	return Stats{Size: wp.size, QueuedJobs: len(wp.jobs), WorkerCount: len(wp.workers)}
}

func (w *worker) run(ctx context.Context) {
	defer w.pool.wg.Done()
	w.logger.Debug("worker started")
	defer w.logger.Debug("worker stopped")

	for {
		select {
		case job, ok := <-w.pool.jobs:
			if !ok {
				return
			}
			start := time.Now()
			err := job.Run(ctx)
			duration := time.Since(start)
			if err != nil {
				w.logger.Error("job failed", "index", job.Index(), "error", err, "duration", duration)
			} else {
				w.logger.Debug("job completed", "index", job.Index(), "duration", duration)
			}
			select {
			case w.pool.results <- Result{Job: job, Err: err}:
			case <-ctx.Done():
				return
			case <-w.pool.ctx.Done():
				return
			}
		case <-w.pool.ctx.Done():
			w.logger.Debug("worker pool cancelled")
			return
		case <-ctx.Done():
			w.logger.Debug("worker context cancelled")
			return
		}
	}
}

// RunAll is a convenience wrapper for the common case: submit every job,
// run size workers concurrently, and block until all results are
// collected. The returned slice is in completion order, not submission
// order — callers that need page order should index by Job.Index().
func RunAll(ctx context.Context, size int, logger obs.Logger, jobs []Job) []Result {
	wp := NewWorkerPool(size, logger)
	// Size both queues to the whole batch: Submit never blocks, so a
	// smaller job queue would reject jobs, and a smaller results queue
	// would stall workers until Stop begins draining it.
	if n := len(jobs); n > cap(wp.jobs) {
		wp.jobs = make(chan Job, n)
		wp.results = make(chan Result, n)
	}
	wp.Start(ctx)
	for _, j := range jobs {
		_ = wp.Submit(j)
	}
	return wp.Stop(ctx)
}
