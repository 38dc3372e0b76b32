package indexer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/reacttypes/pkg/extract"
	"github.com/gnana997/reacttypes/pkg/util"
)

// Errors returned by Submit.
var (
	ErrPoolStopped   = errors.New("worker pool is stopped")
	ErrPoolCancelled = errors.New("worker pool cancelled")
)

// FileJob is one file to extract.
type FileJob struct {
	FilePath string
	JobID    int
}

// FileOutcome is the result of one job. Exactly one of Result and Err is set.
type FileOutcome struct {
	FilePath string
	JobID    int
	Result   *extract.Result
	Err      error
}

// Failed reports whether extraction returned an error.
func (o FileOutcome) Failed() bool { return o.Err != nil }

// WorkerPool extracts files on a fixed set of goroutines. Every submitted job
// produces exactly one FileOutcome, so a caller that submitted n jobs reads n
// outcomes. Each file gets its own loader session; one failing file never
// affects another.
//
// Submit blocks when the queue is full, so outcomes must be read while
// submitting:
//
//	pool := NewWorkerPool(n, engine, opts, logger)
//	pool.Start()
//	defer pool.Stop()
//	go func() {
//		for i, f := range files {
//			pool.Submit(FileJob{FilePath: f, JobID: i})
//		}
//		pool.FinishSubmitting()
//	}()
//	for range files {
//		o := <-pool.Outcomes()
//	}
type WorkerPool struct {
	size     int
	engine   *extract.Engine
	options  extract.Options
	logger   *slog.Logger
	queue    chan FileJob
	outcomes chan FileOutcome
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	started     atomic.Bool
	stopped     atomic.Bool
	queueClosed atomic.Bool

	submitted atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

// NewWorkerPool creates a pool of numWorkers goroutines; 0 uses
// util.DefaultPoolSize(), the parser pool size, since extra workers would
// only wait for a parser. opts applies to every job with Filename replaced.
func NewWorkerPool(numWorkers int, engine *extract.Engine, opts extract.Options, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = util.NopLogger()
	}
	size := util.PoolSize(numWorkers)
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		size:     size,
		engine:   engine,
		options:  opts,
		logger:   logger,
		queue:    make(chan FileJob, size*2),
		outcomes: make(chan FileOutcome, size),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Size is the number of worker goroutines.
func (wp *WorkerPool) Size() int { return wp.size }

// Start launches the workers. Later calls do nothing.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		return
	}
	wp.logger.Debug("starting worker pool", "workers", wp.size)
	wp.wg.Add(wp.size)
	for i := 0; i < wp.size; i++ {
		go wp.run(i)
	}
}

func (wp *WorkerPool) run(id int) {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.queue:
			if !ok {
				return
			}
			wp.outcomes <- wp.extract(id, job)
		}
	}
}

func (wp *WorkerPool) extract(worker int, job FileJob) FileOutcome {
	wp.logger.Debug("extracting file", "worker", worker, "file", job.FilePath, "job_id", job.JobID)
	out := FileOutcome{FilePath: job.FilePath, JobID: job.JobID}
	out.Result, out.Err = wp.engine.ExtractFile(job.FilePath, wp.options)
	if out.Err != nil {
		out.Result = nil
		wp.failed.Add(1)
	} else {
		wp.succeeded.Add(1)
	}
	return out
}

// Submit queues job, blocking while the queue is full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() || wp.queueClosed.Load() {
		return ErrPoolStopped
	}
	select {
	case <-wp.ctx.Done():
		return ErrPoolCancelled
	case wp.queue <- job:
		wp.submitted.Add(1)
		return nil
	}
}

// Outcomes delivers one FileOutcome per submitted job. It is closed by Stop.
func (wp *WorkerPool) Outcomes() <-chan FileOutcome { return wp.outcomes }

// FinishSubmitting closes the queue; workers exit once it drains. It may be
// called more than once.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.queueClosed.CompareAndSwap(false, true) {
		close(wp.queue)
	}
}

// Wait blocks until every worker has exited. Call FinishSubmitting first, and
// keep reading Outcomes, or Wait never returns.
func (wp *WorkerPool) Wait() { wp.wg.Wait() }

// Stop finishes queued jobs, then closes Outcomes. Outcomes nobody reads are
// discarded. It is idempotent.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}
	wp.FinishSubmitting()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()
	for drained := false; !drained; {
		select {
		case <-done:
			drained = true
		case <-wp.outcomes:
		}
	}
	close(wp.outcomes)
	wp.cancel()

	s := wp.Stats()
	wp.logger.Debug("worker pool stopped",
		"submitted", s.JobsSubmitted,
		"succeeded", s.JobsSucceeded,
		"failed", s.JobsFailed)
}

// WorkerPoolStats counts jobs so far.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsSucceeded int64
	JobsFailed    int64
	QueueLength   int
}

// Stats returns the current counters.
func (wp *WorkerPool) Stats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.size,
		JobsSubmitted: wp.submitted.Load(),
		JobsSucceeded: wp.succeeded.Load(),
		JobsFailed:    wp.failed.Load(),
		QueueLength:   len(wp.queue),
	}
}
