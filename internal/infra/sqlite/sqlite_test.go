package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

var testNow = time.Date(2024, time.March, 10, 9, 30, 15, 0, time.UTC)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestProgressBackendRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	backend := NewProgressBackend(db, 1)

	got, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	attempt := testNow.Add(-time.Minute)
	want := entities.ProgressMap{
		"w1": {ItemID: "w1", Level: 3, NextReview: testNow.AddDate(0, 0, 7), TimesCorrect: 5, TimesIncorrect: 1},
		"lesson:l1": {
			ItemID:          "lesson:l1",
			LessonID:        "l1",
			NextReview:      testNow,
			Completed:       true,
			LastAttemptDate: &attempt,
			LessonAccuracy:  100,
		},
	}
	require.NoError(t, backend.Save(ctx, want))

	got, err = backend.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Upsert replaces the stored record.
	updated := want.Clone()
	rec := updated["w1"]
	rec.Level = 4
	rec.TimesCorrect++
	updated["w1"] = rec
	require.NoError(t, backend.Save(ctx, updated))

	got, err = backend.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, got["w1"].Level)
	assert.Equal(t, 6, got["w1"].TimesCorrect)
	assert.Len(t, got, 2)
}

func TestProgressBackendScopedByUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	alice := NewProgressBackend(db, 1)
	bob := NewProgressBackend(db, 2)

	require.NoError(t, alice.Save(ctx, entities.ProgressMap{
		"w1": {ItemID: "w1", Level: 1, NextReview: testNow},
	}))
	require.NoError(t, bob.Save(ctx, entities.ProgressMap{
		"w2": {ItemID: "w2", Level: 2, NextReview: testNow},
	}))

	require.NoError(t, alice.Clear(ctx))

	got, err := alice.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = bob.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "w2")
}

func TestUserRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.GetByID(ctx, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)

	user := &entities.User{ID: 10, ChatID: 100, Username: "minji", IsActive: true, CreatedAt: testNow}
	created, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.True(t, created)

	user.ChatID = 101
	created, err = repo.Save(ctx, user)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = repo.Save(ctx, &entities.User{ID: 11, ChatID: 110, CreatedAt: testNow})
	require.NoError(t, err)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(10), active[0].ID)
}
