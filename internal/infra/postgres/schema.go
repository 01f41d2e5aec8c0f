package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGINT PRIMARY KEY,
	chat_id       BIGINT      NOT NULL,
	username      TEXT        NOT NULL DEFAULT '',
	language_code TEXT        NOT NULL DEFAULT '',
	is_active     BOOLEAN     NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_progress (
	user_id           BIGINT      NOT NULL,
	item_id           TEXT        NOT NULL,
	level             SMALLINT    NOT NULL DEFAULT 0 CHECK (level BETWEEN 0 AND 5),
	next_review       TIMESTAMPTZ NOT NULL,
	times_correct     INTEGER     NOT NULL DEFAULT 0 CHECK (times_correct >= 0),
	times_incorrect   INTEGER     NOT NULL DEFAULT 0 CHECK (times_incorrect >= 0),
	lesson_id         TEXT        NOT NULL DEFAULT '',
	completed         BOOLEAN     NOT NULL DEFAULT FALSE,
	last_attempt_date TIMESTAMPTZ,
	lesson_accuracy   SMALLINT    NOT NULL DEFAULT 0,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, item_id)
);

CREATE INDEX IF NOT EXISTS idx_user_progress_next_review ON user_progress (user_id, next_review);
`

// EnsureSchema creates the tables used by the repositories if they are missing.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
