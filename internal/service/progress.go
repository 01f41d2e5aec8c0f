package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/srs"
	"github.com/aliskhannn/korean-tutor-bot/internal/repository"
	"github.com/aliskhannn/korean-tutor-bot/internal/worker"
)

// BackendFactory returns the progress backend of a user. It may return nil
// when no persistence is configured.
type BackendFactory func(userID int64) repository.ProgressBackend

// ProgressService owns one ProgressTracker per user.
type ProgressService struct {
	backends BackendFactory
	queue    worker.QueueWriter
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	trackers map[int64]*ProgressTracker
}

// NewProgressService creates a ProgressService. A nil factory keeps progress
// in memory only.
func NewProgressService(backends BackendFactory, queue worker.QueueWriter, log *zap.Logger) *ProgressService {
	return &ProgressService{
		backends: backends,
		queue:    queue,
		log:      log,
		now:      time.Now,
		trackers: make(map[int64]*ProgressTracker),
	}
}

// Tracker returns the tracker of userID, creating it on first use.
func (s *ProgressService) Tracker(userID int64) *ProgressTracker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.trackers[userID]; ok {
		return t
	}

	var backend repository.ProgressBackend
	if s.backends != nil {
		backend = s.backends(userID)
	}

	t := NewProgressTracker(userID, repository.NewProgressStore(backend, s.log), s.queue, s.log, s.now)
	s.trackers[userID] = t
	return t
}

// Summary returns the statistics of userID.
func (s *ProgressService) Summary(ctx context.Context, userID int64) srs.Summary {
	return s.Tracker(userID).Summary(ctx)
}

// CountDue returns how many items userID has due now.
func (s *ProgressService) CountDue(ctx context.Context, userID int64) int {
	return len(s.Tracker(userID).DueItems(ctx))
}

// Stars returns the lesson star statistics of userID.
func (s *ProgressService) Stars(ctx context.Context, userID int64, totalLessons int) srs.StarStats {
	return srs.CountStars(s.Tracker(userID).Progress(ctx), totalLessons)
}

// LessonStars returns the stars userID earned in lessonID.
func (s *ProgressService) LessonStars(ctx context.Context, userID int64, lessonID string) int {
	return srs.LessonStars(lessonID, s.Tracker(userID).Progress(ctx))
}

// Reset forgets all progress of userID.
func (s *ProgressService) Reset(ctx context.Context, userID int64) {
	s.Tracker(userID).Reset(ctx)
}

// Flush waits for the pending saves of every tracker.
func (s *ProgressService) Flush(ctx context.Context) error {
	s.mu.Lock()
	trackers := make([]*ProgressTracker, 0, len(s.trackers))
	for _, t := range s.trackers {
		trackers = append(trackers, t)
	}
	s.mu.Unlock()

	for _, t := range trackers {
		if err := t.Flush(ctx); err != nil {
			return fmt.Errorf("flush progress of user %d: %w", t.userID, err)
		}
	}
	return nil
}

// MigrateProgress copies every record from one backend into another,
// upserting by item ID. Unlike the tracker, it reports backend errors.
func MigrateProgress(ctx context.Context, from, to repository.ProgressBackend) (int, error) {
	progress, err := from.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load source progress: %w", err)
	}
	if len(progress) == 0 {
		return 0, nil
	}

	if err := to.Save(ctx, progress); err != nil {
		return 0, fmt.Errorf("save target progress: %w", err)
	}

	return len(progress), nil
}

// RecordCount splits progress into item-level and lesson-level records.
func RecordCount(progress entities.ProgressMap) (items, lessons int) {
	for _, rec := range progress {
		if rec.IsLessonRecord() {
			lessons++
		} else {
			items++
		}
	}
	return items, lessons
}
