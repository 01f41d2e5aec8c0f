package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/infra/postgres"
)

// ProgressRepository provides access to user progress data in the database.
type ProgressRepository struct {
	db postgres.DBTX
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(db postgres.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetByUserID retrieves all progress records of a user keyed by item ID.
func (r *ProgressRepository) GetByUserID(ctx context.Context, userID int64) (entities.ProgressMap, error) {
	query := `
		SELECT item_id, level, next_review, times_correct, times_incorrect,
		       lesson_id, completed, last_attempt_date, lesson_accuracy
		FROM user_progress
		WHERE user_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get progress by user id: %w", err)
	}
	defer rows.Close()

	progress := make(entities.ProgressMap)
	for rows.Next() {
		var p entities.ProgressRecord
		err = rows.Scan(
			&p.ItemID,
			&p.Level,
			&p.NextReview,
			&p.TimesCorrect,
			&p.TimesIncorrect,
			&p.LessonID,
			&p.Completed,
			&p.LastAttemptDate,
			&p.LessonAccuracy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan progress row: %w", err)
		}
		progress[p.ItemID] = p
	}

	return progress, rows.Err()
}

// UpsertAll creates or updates every record of progress for the user.
// Conflicts on (user_id, item_id) overwrite the stored record.
func (r *ProgressRepository) UpsertAll(ctx context.Context, userID int64, progress entities.ProgressMap) error {
	if len(progress) == 0 {
		return nil
	}

	query := `
		INSERT INTO user_progress (
			user_id, item_id, level, next_review, times_correct, times_incorrect,
			lesson_id, completed, last_attempt_date, lesson_accuracy, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			level = EXCLUDED.level,
			next_review = EXCLUDED.next_review,
			times_correct = EXCLUDED.times_correct,
			times_incorrect = EXCLUDED.times_incorrect,
			lesson_id = EXCLUDED.lesson_id,
			completed = EXCLUDED.completed,
			last_attempt_date = EXCLUDED.last_attempt_date,
			lesson_accuracy = EXCLUDED.lesson_accuracy,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for id, p := range progress {
		batch.Queue(query,
			userID,
			id,
			p.Level,
			p.NextReview.UTC(),
			p.TimesCorrect,
			p.TimesIncorrect,
			p.LessonID,
			p.Completed,
			p.LastAttemptDate,
			p.LessonAccuracy,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upsert progress: %w", err)
		}
	}

	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	return nil
}

// DeleteByUserID removes every progress record of a user.
func (r *ProgressRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_progress WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user_progress: %w", err)
	}
	return nil
}

// CountDue returns how many item records of a user are due at now.
func (r *ProgressRepository) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM user_progress
		WHERE user_id = $1
		  AND item_id NOT LIKE 'lesson:%'
		  AND next_review <= $2
	`

	var n int
	if err := r.db.QueryRow(ctx, query, userID, now.UTC()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count due: %w", err)
	}
	return n, nil
}

// ProgressBackend adapts the repository to one user's progress store.
// Saves run in a single transaction.
type ProgressBackend struct {
	db     postgres.DBTX
	tx     *postgres.Transactor
	userID int64
	now    func() time.Time
}

// NewProgressBackend returns the backend for userID.
func NewProgressBackend(db postgres.DBTX, tx *postgres.Transactor, userID int64) *ProgressBackend {
	return &ProgressBackend{db: db, tx: tx, userID: userID, now: time.Now}
}

func (b *ProgressBackend) Load(ctx context.Context) (entities.ProgressMap, error) {
	progress, err := NewProgressRepository(b.db).GetByUserID(ctx, b.userID)
	if err != nil {
		return nil, err
	}

	now := b.now().UTC()
	for id, rec := range progress {
		rec.Normalize(now)
		progress[id] = rec
	}
	return progress, nil
}

func (b *ProgressBackend) Save(ctx context.Context, progress entities.ProgressMap) error {
	if b.tx == nil {
		return NewProgressRepository(b.db).UpsertAll(ctx, b.userID, progress)
	}

	return b.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return NewProgressRepository(tx).UpsertAll(ctx, b.userID, progress)
	})
}

func (b *ProgressBackend) Clear(ctx context.Context) error {
	return NewProgressRepository(b.db).DeleteByUserID(ctx, b.userID)
}
