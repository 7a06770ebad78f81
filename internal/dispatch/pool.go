// Package dispatch runs fire-and-forget jobs in the background. Job errors
// are logged and never reported back to the caller.
package dispatch

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Job is a unit of background work.
type Job func(ctx context.Context) error

// ErrPoolClosed is returned if a Submit is attempted after Close.
var ErrPoolClosed = errors.New("worker pool closed")

type task struct {
	name string
	job  Job
}

// Pool runs jobs using a fixed number of goroutines.
type Pool struct {
	tasks   chan task
	wg      sync.WaitGroup
	workers int
	logger  *zap.Logger

	closeMu sync.Mutex
	closed  bool
	ctx     context.Context
}

// NewPool creates a pool with the given number of workers and queue capacity.
func NewPool(workers, queue int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &Pool{
		tasks:   make(chan task, queue),
		workers: workers,
		logger:  logger,
		ctx:     context.Background(),
	}
}

// Start launches the workers. Jobs receive ctx without its cancellation, so
// jobs still queued at shutdown can finish during Close.
func (p *Pool) Start(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	p.closeMu.Lock()
	p.ctx = ctx
	p.closeMu.Unlock()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for t := range p.tasks {
				p.run(ctx, t)
			}
		}()
	}
}

// Dispatch queues a job without blocking the caller. When the queue is full
// the job runs on its own goroutine.
func (p *Pool) Dispatch(name string, job Job) {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()

	if p.closed {
		p.logger.Warn("background job rejected", zap.String("job", name), zap.Error(ErrPoolClosed))
		return
	}

	t := task{name: name, job: job}
	select {
	case p.tasks <- t:
	default:
		p.logger.Debug("background queue full, running detached", zap.String("job", name))
		p.wg.Add(1)
		go func(ctx context.Context) {
			defer p.wg.Done()
			p.run(ctx, t)
		}(p.ctx)
	}
}

func (p *Pool) run(ctx context.Context, t task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("background job panicked", zap.String("job", t.name), zap.Any("panic", r))
		}
	}()

	if err := t.job(ctx); err != nil {
		p.logger.Warn("background job failed", zap.String("job", t.name), zap.Error(err))
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Pool) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.closeMu.Unlock()
	p.wg.Wait()
}
