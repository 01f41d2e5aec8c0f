// Package sqlite stores learner progress in a local SQLite database.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS progress (
	user_id           INTEGER NOT NULL,
	item_id           TEXT    NOT NULL,
	level             INTEGER NOT NULL DEFAULT 0,
	next_review       TEXT    NOT NULL,
	times_correct     INTEGER NOT NULL DEFAULT 0,
	times_incorrect   INTEGER NOT NULL DEFAULT 0,
	lesson_id         TEXT    NOT NULL DEFAULT '',
	completed         INTEGER NOT NULL DEFAULT 0,
	last_attempt_date TEXT,
	lesson_accuracy   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, item_id)
);

CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY,
	chat_id       INTEGER NOT NULL,
	username      TEXT    NOT NULL DEFAULT '',
	language_code TEXT    NOT NULL DEFAULT '',
	is_active     INTEGER NOT NULL DEFAULT 1,
	created_at    TEXT    NOT NULL
);
`

// Open connects to the database at path and creates the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases from splitting per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}
