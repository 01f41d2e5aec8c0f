package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/srs"
)

func TestProgressService_TrackerPerUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b1 := newMemBackend(entities.ProgressMap{"w1": dueRecord("w1", 1), "w2": laterRecord("w2", 4)})
	b2 := newMemBackend(nil)
	s := newTestProgressService(map[int64]*memBackend{1: b1, 2: b2}, startPool(t))

	assert.Same(t, s.Tracker(1), s.Tracker(1))
	assert.NotSame(t, s.Tracker(1), s.Tracker(2))

	assert.Equal(t, 1, s.CountDue(ctx, 1))
	assert.Zero(t, s.CountDue(ctx, 2))

	sum := s.Summary(ctx, 1)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Mastered)

	s.Tracker(2).Record(ctx, "w3", "", true)
	s.Tracker(1).Record(ctx, "w1", "", true)
	require.NoError(t, s.Flush(ctx))

	assert.Equal(t, 2, b1.snapshot()["w1"].Level)
	assert.Equal(t, 1, b2.snapshot()["w3"].Level)

	s.Tracker(1).CompleteLesson(ctx, "l1", 100)
	s.Tracker(1).CompleteLesson(ctx, "l2", 50)
	assert.Equal(t, 3, s.LessonStars(ctx, 1, "l1"))
	assert.Equal(t, 1, s.LessonStars(ctx, 1, "l2"))
	assert.Equal(t, srs.StarStats{TotalStars: 4, MaxStars: 9, ThreeStars: 1, MaxThreeStars: 3}, s.Stars(ctx, 1, 3))
	require.NoError(t, s.Flush(ctx))

	s.Reset(ctx, 1)
	assert.Empty(t, b1.snapshot())
	assert.Len(t, b2.snapshot(), 1)
}

func TestProgressService_NoBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestProgressService(nil, nil)

	s.Tracker(5).Record(ctx, "w1", "", false)
	assert.Equal(t, 1, s.Summary(ctx, 5).New)
	require.NoError(t, s.Flush(ctx))
}

func TestMigrateProgress(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	from := newMemBackend(entities.ProgressMap{
		"w1":        laterRecord("w1", 2),
		"lesson:l1": {ItemID: "lesson:l1", Completed: true, LessonAccuracy: 80},
	})
	to := newMemBackend(entities.ProgressMap{
		"w1": dueRecord("w1", 0),
		"w9": dueRecord("w9", 3),
	})

	n, err := MigrateProgress(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got := to.snapshot()
	assert.Len(t, got, 3)
	assert.Equal(t, 2, got["w1"].Level)
	assert.Equal(t, 3, got["w9"].Level)
	assert.True(t, got["lesson:l1"].Completed)

	t.Run("empty source writes nothing", func(t *testing.T) {
		t.Parallel()

		target := newMemBackend(nil)
		n, err := MigrateProgress(ctx, newMemBackend(nil), target)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Zero(t, target.saves)
	})

	t.Run("source errors are reported", func(t *testing.T) {
		t.Parallel()

		source := newMemBackend(nil)
		source.loadErr = errBackendDown
		_, err := MigrateProgress(ctx, source, newMemBackend(nil))
		assert.ErrorIs(t, err, errBackendDown)
	})

	t.Run("target errors are reported", func(t *testing.T) {
		t.Parallel()

		target := newMemBackend(nil)
		target.saveErr = errBackendDown
		_, err := MigrateProgress(ctx, from, target)
		assert.ErrorIs(t, err, errBackendDown)
	})
}

func TestRecordCount(t *testing.T) {
	t.Parallel()

	items, lessons := RecordCount(entities.ProgressMap{
		"w1":        dueRecord("w1", 1),
		"g1":        dueRecord("g1", 1),
		"lesson:l1": {ItemID: "lesson:l1", Completed: true},
	})
	assert.Equal(t, 2, items)
	assert.Equal(t, 1, lessons)
}
