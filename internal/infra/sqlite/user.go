package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

var ErrUserNotFound = errors.New("user not found")

type userRow struct {
	ID           int64  `db:"id"`
	ChatID       int64  `db:"chat_id"`
	Username     string `db:"username"`
	LanguageCode string `db:"language_code"`
	IsActive     bool   `db:"is_active"`
	CreatedAt    string `db:"created_at"`
}

// UserRepository provides access to users stored in SQLite.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Save inserts a new user or updates an existing one. It reports whether the
// user was created.
func (r *UserRepository) Save(ctx context.Context, user *entities.User) (bool, error) {
	exists, err := r.exists(ctx, user.ID)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO users (id, chat_id, username, language_code, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			chat_id = excluded.chat_id,
			username = excluded.username,
			language_code = excluded.language_code,
			is_active = excluded.is_active
	`

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.ChatID, user.Username, user.LanguageCode, user.IsActive,
		user.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("save user: %w", err)
	}

	return !exists, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, chat_id, username, language_code, is_active, created_at
		FROM users WHERE id = ?
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return row.user()
}

// ListActive returns every active user.
func (r *UserRepository) ListActive(ctx context.Context) ([]*entities.User, error) {
	var rows []userRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, chat_id, username, language_code, is_active, created_at
		FROM users WHERE is_active = 1 ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*entities.User, 0, len(rows))
	for _, row := range rows {
		u, err := row.user()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID); err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}
	return exists, nil
}

func (r userRow) user() (*entities.User, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at of user %d: %w", r.ID, err)
	}
	return &entities.User{
		ID:           r.ID,
		ChatID:       r.ChatID,
		Username:     r.Username,
		LanguageCode: r.LanguageCode,
		IsActive:     r.IsActive,
		CreatedAt:    createdAt,
	}, nil
}
