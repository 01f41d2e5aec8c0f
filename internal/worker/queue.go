package worker

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// Queue is a bounded task queue. It implements QueueReader and QueueWriter.
type Queue struct {
	mu     sync.RWMutex
	tasks  chan Task
	closed bool
	log    *zap.Logger
}

// NewQueue creates a queue holding at most size pending tasks.
func NewQueue(size int, log *zap.Logger) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		tasks: make(chan Task, size),
		log:   log,
	}
}

// Enqueue adds a task to the queue.
func (q *Queue) Enqueue(task Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		q.log.Debug("task enqueued",
			zap.String("task_id", task.ID().String()),
			zap.String("task_type", task.Type()),
			zap.Int("queue_len", len(q.tasks)),
			zap.Int("queue_cap", cap(q.tasks)),
		)
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.tasks))
	}
}

// Close stops accepting tasks. Tasks already queued are still delivered.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
	q.log.Info("task queue closed")
}

// Channel returns the channel workers consume from.
func (q *Queue) Channel() <-chan Task {
	return q.tasks
}
