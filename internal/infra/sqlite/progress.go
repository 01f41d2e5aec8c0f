package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

// progressRow mirrors the progress table. Timestamps are stored as RFC 3339 text.
type progressRow struct {
	ItemID          string         `db:"item_id"`
	Level           int            `db:"level"`
	NextReview      string         `db:"next_review"`
	TimesCorrect    int            `db:"times_correct"`
	TimesIncorrect  int            `db:"times_incorrect"`
	LessonID        string         `db:"lesson_id"`
	Completed       bool           `db:"completed"`
	LastAttemptDate sql.NullString `db:"last_attempt_date"`
	LessonAccuracy  int            `db:"lesson_accuracy"`
}

// ProgressBackend keeps the progress of one user in the progress table.
type ProgressBackend struct {
	db     *sqlx.DB
	userID int64
	now    func() time.Time
}

// NewProgressBackend returns the backend for userID.
func NewProgressBackend(db *sqlx.DB, userID int64) *ProgressBackend {
	return &ProgressBackend{db: db, userID: userID, now: time.Now}
}

func (b *ProgressBackend) Load(ctx context.Context) (entities.ProgressMap, error) {
	query := `
		SELECT item_id, level, next_review, times_correct, times_incorrect,
		       lesson_id, completed, last_attempt_date, lesson_accuracy
		FROM progress
		WHERE user_id = ?
	`

	var rows []progressRow
	if err := b.db.SelectContext(ctx, &rows, query, b.userID); err != nil {
		return nil, fmt.Errorf("select progress: %w", err)
	}

	now := b.now().UTC()
	progress := make(entities.ProgressMap, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, fmt.Errorf("decode progress %q: %w", row.ItemID, err)
		}
		rec.Normalize(now)
		progress[rec.ItemID] = rec
	}

	return progress, nil
}

func (b *ProgressBackend) Save(ctx context.Context, progress entities.ProgressMap) error {
	query := `
		INSERT INTO progress (
			user_id, item_id, level, next_review, times_correct, times_incorrect,
			lesson_id, completed, last_attempt_date, lesson_accuracy
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			level = excluded.level,
			next_review = excluded.next_review,
			times_correct = excluded.times_correct,
			times_incorrect = excluded.times_incorrect,
			lesson_id = excluded.lesson_id,
			completed = excluded.completed,
			last_attempt_date = excluded.last_attempt_date,
			lesson_accuracy = excluded.lesson_accuracy
	`

	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for id, rec := range progress {
		row := newProgressRow(id, rec)
		if _, err := stmt.ExecContext(ctx,
			b.userID, row.ItemID, row.Level, row.NextReview, row.TimesCorrect, row.TimesIncorrect,
			row.LessonID, row.Completed, row.LastAttemptDate, row.LessonAccuracy,
		); err != nil {
			return fmt.Errorf("upsert progress %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit progress: %w", err)
	}

	return nil
}

func (b *ProgressBackend) Clear(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, "DELETE FROM progress WHERE user_id = ?", b.userID); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

func newProgressRow(id string, rec entities.ProgressRecord) progressRow {
	row := progressRow{
		ItemID:         id,
		Level:          rec.Level,
		NextReview:     rec.NextReview.UTC().Format(time.RFC3339Nano),
		TimesCorrect:   rec.TimesCorrect,
		TimesIncorrect: rec.TimesIncorrect,
		LessonID:       rec.LessonID,
		Completed:      rec.Completed,
		LessonAccuracy: rec.LessonAccuracy,
	}
	if rec.LastAttemptDate != nil {
		row.LastAttemptDate = sql.NullString{
			String: rec.LastAttemptDate.UTC().Format(time.RFC3339Nano),
			Valid:  true,
		}
	}
	return row
}

func (r progressRow) record() (entities.ProgressRecord, error) {
	rec := entities.ProgressRecord{
		ItemID:         r.ItemID,
		Level:          r.Level,
		TimesCorrect:   r.TimesCorrect,
		TimesIncorrect: r.TimesIncorrect,
		LessonID:       r.LessonID,
		Completed:      r.Completed,
		LessonAccuracy: r.LessonAccuracy,
	}

	if r.NextReview != "" {
		t, err := time.Parse(time.RFC3339Nano, r.NextReview)
		if err != nil {
			return rec, fmt.Errorf("parse next_review: %w", err)
		}
		rec.NextReview = t
	}

	if r.LastAttemptDate.Valid && r.LastAttemptDate.String != "" {
		t, err := time.Parse(time.RFC3339Nano, r.LastAttemptDate.String)
		if err != nil {
			return rec, fmt.Errorf("parse last_attempt_date: %w", err)
		}
		rec.LastAttemptDate = &t
	}

	return rec, nil
}
