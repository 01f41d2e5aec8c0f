package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/srs"
	"github.com/aliskhannn/korean-tutor-bot/internal/repository"
	"github.com/aliskhannn/korean-tutor-bot/internal/worker"
)

// ProgressTracker is the working copy of one learner's progress. Answers
// update the copy synchronously; persistence runs on the worker queue.
// Saves always write a snapshot taken after every earlier mutation, so the
// store never goes back to an older state.
type ProgressTracker struct {
	userID int64
	store  *repository.ProgressStore
	queue  worker.QueueWriter
	log    *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	progress  entities.ProgressMap
	loaded    bool
	scheduled bool          // a save task is queued and has not taken its snapshot yet
	pending   int           // saves queued or running
	idle      chan struct{} // closed when pending drops to zero

	saveMu sync.Mutex // orders snapshot+write pairs
}

// NewProgressTracker creates a tracker over store. A nil queue saves inline.
func NewProgressTracker(
	userID int64,
	store *repository.ProgressStore,
	queue worker.QueueWriter,
	log *zap.Logger,
	now func() time.Time,
) *ProgressTracker {
	if now == nil {
		now = time.Now
	}
	return &ProgressTracker{
		userID: userID,
		store:  store,
		queue:  queue,
		log:    log.With(zap.Int64("user_id", userID)),
		now:    now,
	}
}

// Progress returns a copy of the current progress.
func (t *ProgressTracker) Progress(ctx context.Context) entities.ProgressMap {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureLoaded(ctx)
	return t.progress.Clone()
}

// Record applies an answer for itemID and schedules a save. lessonID is set
// on records of grammar exercises.
func (t *ProgressTracker) Record(ctx context.Context, itemID, lessonID string, correct bool) entities.ProgressRecord {
	t.mu.Lock()
	t.ensureLoaded(ctx)

	var prev *entities.ProgressRecord
	if p, ok := t.progress[itemID]; ok {
		prev = &p
	}

	rec := srs.Review(prev, itemID, correct, t.now())
	if rec.LessonID == "" {
		rec.LessonID = lessonID
	}
	t.progress[itemID] = rec
	t.mu.Unlock()

	t.scheduleSave()
	return rec
}

// CompleteLesson stores the lesson-level record and schedules a save.
func (t *ProgressTracker) CompleteLesson(ctx context.Context, lessonID string, accuracy float64) entities.ProgressRecord {
	t.mu.Lock()
	t.ensureLoaded(ctx)

	key := entities.LessonKey(lessonID)
	var prev *entities.ProgressRecord
	if p, ok := t.progress[key]; ok {
		prev = &p
	}

	rec := srs.CompleteLesson(prev, lessonID, accuracy, t.now())
	t.progress[key] = rec
	t.mu.Unlock()

	t.scheduleSave()
	return rec
}

// DueItems returns the items due for review now.
func (t *ProgressTracker) DueItems(ctx context.Context) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureLoaded(ctx)
	return srs.DueItems(t.progress, t.now())
}

// Summary returns the progress statistics now.
func (t *ProgressTracker) Summary(ctx context.Context) srs.Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureLoaded(ctx)
	return srs.Summarize(t.progress, t.now())
}

// Reset forgets all progress, in memory and in the store.
func (t *ProgressTracker) Reset(ctx context.Context) {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	t.mu.Lock()
	t.progress = entities.ProgressMap{}
	t.loaded = true
	t.mu.Unlock()

	t.store.Clear(ctx)
	t.log.Info("progress reset")
}

// Flush waits until every scheduled save has been written.
func (t *ProgressTracker) Flush(ctx context.Context) error {
	for {
		t.mu.Lock()
		if t.pending == 0 {
			t.mu.Unlock()
			return nil
		}
		idle := t.idle
		t.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ensureLoaded reads the store on first use. Callers hold t.mu.
func (t *ProgressTracker) ensureLoaded(ctx context.Context) {
	if t.loaded {
		return
	}
	t.progress = t.store.LoadAll(ctx)
	t.loaded = true
}

func (t *ProgressTracker) scheduleSave() {
	t.mu.Lock()
	if t.scheduled {
		t.mu.Unlock()
		return
	}
	t.scheduled = true
	if t.pending == 0 {
		t.idle = make(chan struct{})
	}
	t.pending++
	t.mu.Unlock()

	if t.queue != nil {
		err := t.queue.Enqueue(worker.NewFuncTask(worker.TaskTypeSaveProgress, t.save))
		if err == nil {
			return
		}
		if !errors.Is(err, worker.ErrQueueFull) && !errors.Is(err, worker.ErrQueueClosed) {
			t.log.Warn("enqueue progress save failed", zap.Error(err))
		}
	}

	// No queue or the queue refused the task: save on the caller's goroutine.
	_ = t.save(context.Background())
}

func (t *ProgressTracker) save(ctx context.Context) error {
	defer t.done()

	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	t.mu.Lock()
	t.scheduled = false
	snapshot := t.progress.Clone()
	t.mu.Unlock()

	t.store.SaveAll(ctx, snapshot)
	return nil
}

func (t *ProgressTracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending--
	if t.pending == 0 {
		close(t.idle)
	}
}
