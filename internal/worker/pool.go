package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PoolConfig configures a Pool.
type PoolConfig struct {
	// Workers is the number of concurrent workers. Values below 1 mean 1.
	Workers int
	// TaskTimeout bounds a single task execution. Zero disables the limit.
	TaskTimeout time.Duration
}

// Pool executes tasks from a queue on a fixed number of goroutines.
type Pool struct {
	queue       QueueReader
	workers     int
	taskTimeout time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	log          *zap.Logger
	errorHandler func(task Task, err error)
}

// NewPool creates a pool reading from queue.
func NewPool(queue QueueReader, cfg PoolConfig, log *zap.Logger) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		log.Warn("invalid worker count, using 1", zap.Int("workers", cfg.Workers))
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		queue:       queue,
		workers:     workers,
		taskTimeout: cfg.TaskTimeout,
		ctx:         ctx,
		cancel:      cancel,
		log:         log,
	}
}

// SetErrorHandler registers a callback for failed tasks. Must be called before Start.
func (p *Pool) SetErrorHandler(handler func(task Task, err error)) {
	p.errorHandler = handler
}

// Start launches the workers.
func (p *Pool) Start() {
	p.log.Info("starting worker pool", zap.Int("workers", p.workers))

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
}

// Stop waits for the workers to drain the queue and exit. The queue must be
// closed first, otherwise Stop waits until ctx is done and then cancels the
// running tasks.
func (p *Pool) Stop(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.log.Warn("worker pool stop timed out, cancelling tasks")
		p.cancel()
		<-done
	}

	p.cancel()
	p.log.Info("worker pool stopped")
}

func (p *Pool) run(id int) {
	defer p.wg.Done()

	log := p.log.With(zap.Int("worker_id", id))
	for task := range p.queue.Channel() {
		p.execute(log, task)
	}
	log.Debug("worker exiting")
}

func (p *Pool) execute(log *zap.Logger, task Task) {
	ctx := p.ctx
	if p.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.taskTimeout)
		defer cancel()
	}

	start := time.Now()
	err := safeExecute(ctx, task)

	fields := []zap.Field{
		zap.String("task_id", task.ID().String()),
		zap.String("task_type", task.Type()),
		zap.Duration("duration", time.Since(start)),
	}

	if err != nil {
		log.Error("task failed", append(fields, zap.Error(err))...)
		if p.errorHandler != nil {
			p.errorHandler(task, err)
		}
		return
	}

	log.Debug("task completed", fields...)
}
