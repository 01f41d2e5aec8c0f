// Package worker runs background tasks on a fixed pool of goroutines fed by a
// bounded queue.
package worker

import (
	"context"

	"github.com/google/uuid"
)

// Task types.
const (
	TaskTypeSaveProgress = "save_progress"
	TaskTypeReminder     = "send_reminder"
)

// Task is a unit of background work.
type Task interface {
	ID() uuid.UUID
	Type() string
	Execute(ctx context.Context) error
}

// QueueReader gives workers read access to the queued tasks.
type QueueReader interface {
	Channel() <-chan Task
}

// QueueWriter lets services submit tasks.
type QueueWriter interface {
	// Enqueue adds a task without blocking.
	// Returns ErrQueueFull or ErrQueueClosed when the task was not accepted.
	Enqueue(task Task) error
}

// FuncTask adapts a function to the Task interface.
type FuncTask struct {
	id       uuid.UUID
	taskType string
	fn       func(ctx context.Context) error
}

// NewFuncTask creates a task of taskType that runs fn.
func NewFuncTask(taskType string, fn func(ctx context.Context) error) *FuncTask {
	return &FuncTask{
		id:       uuid.New(),
		taskType: taskType,
		fn:       fn,
	}
}

func (t *FuncTask) ID() uuid.UUID { return t.id }

func (t *FuncTask) Type() string { return t.taskType }

func (t *FuncTask) Execute(ctx context.Context) error { return t.fn(ctx) }
