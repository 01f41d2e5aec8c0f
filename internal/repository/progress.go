package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

var ErrCorruptProgress = errors.New("corrupt progress data")

// ProgressBackend persists the progress of one learner.
type ProgressBackend interface {
	// Load returns every stored record keyed by item ID. An empty store
	// yields an empty map and no error.
	Load(ctx context.Context) (entities.ProgressMap, error)
	// Save upserts every record of progress.
	Save(ctx context.Context, progress entities.ProgressMap) error
	// Clear removes every record of the learner.
	Clear(ctx context.Context) error
}

// ProgressStore is the progress interface used by the services. It never
// fails: a missing backend behaves as an empty store that drops writes, and
// backend errors are logged and then treated the same way.
type ProgressStore struct {
	backend ProgressBackend
	log     *zap.Logger
}

// NewProgressStore wraps backend. A nil backend gives a local-only store
// that remembers nothing.
func NewProgressStore(backend ProgressBackend, log *zap.Logger) *ProgressStore {
	return &ProgressStore{
		backend: backend,
		log:     log,
	}
}

// Available reports whether writes reach a backend.
func (s *ProgressStore) Available() bool {
	return s.backend != nil
}

// LoadAll returns the stored progress, or an empty map when the backend is
// absent, unreachable or holds unreadable data.
func (s *ProgressStore) LoadAll(ctx context.Context) entities.ProgressMap {
	if s.backend == nil {
		return entities.ProgressMap{}
	}

	progress, err := s.backend.Load(ctx)
	if err != nil {
		s.log.Warn("load progress failed, starting empty", zap.Error(err))
		return entities.ProgressMap{}
	}
	if progress == nil {
		progress = entities.ProgressMap{}
	}

	return progress
}

// SaveAll persists progress. Failures are logged and dropped.
func (s *ProgressStore) SaveAll(ctx context.Context, progress entities.ProgressMap) {
	if s.backend == nil {
		return
	}

	if err := s.backend.Save(ctx, progress); err != nil {
		s.log.Warn("save progress failed", zap.Int("records", len(progress)), zap.Error(err))
	}
}

// Clear removes all stored progress. Failures are logged and dropped.
func (s *ProgressStore) Clear(ctx context.Context) {
	if s.backend == nil {
		return
	}

	if err := s.backend.Clear(ctx); err != nil {
		s.log.Warn("clear progress failed", zap.Error(err))
	}
}
