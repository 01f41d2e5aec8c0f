package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

var now = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func TestNextReviewAt(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level    int
		expected time.Time
	}{
		{level: 0, expected: now},
		{level: 1, expected: now.AddDate(0, 0, 1)},
		{level: 2, expected: now.AddDate(0, 0, 3)},
		{level: 3, expected: now.AddDate(0, 0, 7)},
		{level: 4, expected: now.AddDate(0, 0, 14)},
		{level: 5, expected: now.AddDate(0, 0, 30)},
		{level: -3, expected: now},
		{level: 9, expected: now.AddDate(0, 0, 30)},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, NextReviewAt(tc.level, now), "level %d", tc.level)
	}
}

func TestReviewFirstAttempt(t *testing.T) {
	t.Parallel()

	t.Run("correct", func(t *testing.T) {
		t.Parallel()

		rec := Review(nil, "w1", true, now)
		assert.Equal(t, "w1", rec.ItemID)
		assert.Equal(t, 1, rec.Level)
		assert.Equal(t, now.AddDate(0, 0, 1), rec.NextReview)
		assert.Equal(t, 1, rec.TimesCorrect)
		assert.Zero(t, rec.TimesIncorrect)
		require.NotNil(t, rec.LastAttemptDate)
		assert.Equal(t, now, *rec.LastAttemptDate)
	})

	t.Run("incorrect", func(t *testing.T) {
		t.Parallel()

		rec := Review(nil, "w1", false, now)
		assert.Zero(t, rec.Level)
		assert.Equal(t, now, rec.NextReview)
		assert.Zero(t, rec.TimesCorrect)
		assert.Equal(t, 1, rec.TimesIncorrect)
	})
}

func TestReviewLevelTransitions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		level     int
		correct   bool
		wantLevel int
		wantDays  int
	}{
		{name: "up from new", level: 0, correct: true, wantLevel: 1, wantDays: 1},
		{name: "up from learning", level: 2, correct: true, wantLevel: 3, wantDays: 7},
		{name: "capped at max", level: 5, correct: true, wantLevel: 5, wantDays: 30},
		{name: "down from mastered", level: 4, correct: false, wantLevel: 3, wantDays: 7},
		{name: "floored at zero", level: 0, correct: false, wantLevel: 0, wantDays: 0},
		{name: "out of range level clamped before moving", level: 8, correct: false, wantLevel: 4, wantDays: 14},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			prev := entities.ProgressRecord{
				ItemID:         "w1",
				Level:          tc.level,
				NextReview:     now.AddDate(0, 0, -2),
				TimesCorrect:   4,
				TimesIncorrect: 2,
			}

			rec := Review(&prev, "w1", tc.correct, now)
			assert.Equal(t, tc.wantLevel, rec.Level)
			assert.Equal(t, now.AddDate(0, 0, tc.wantDays), rec.NextReview)

			if tc.correct {
				assert.Equal(t, 5, rec.TimesCorrect)
				assert.Equal(t, 2, rec.TimesIncorrect)
			} else {
				assert.Equal(t, 4, rec.TimesCorrect)
				assert.Equal(t, 3, rec.TimesIncorrect)
			}

			assert.Equal(t, tc.level, prev.Level, "previous record must not change")
		})
	}
}

func TestReviewKeepsLevelInRange(t *testing.T) {
	t.Parallel()

	var rec *entities.ProgressRecord
	answers := []bool{true, true, true, true, true, true, true, false, true, false, false, false, false, false, false, false}

	for i, correct := range answers {
		next := Review(rec, "w1", correct, now.AddDate(0, 0, i))
		assert.GreaterOrEqual(t, next.Level, entities.MinLevel)
		assert.LessOrEqual(t, next.Level, entities.MaxLevel)
		rec = &next
	}

	assert.Equal(t, 8, rec.TimesCorrect)
	assert.Equal(t, 8, rec.TimesIncorrect)
	assert.Zero(t, rec.Level)
}

func TestReviewConvertsToUTC(t *testing.T) {
	t.Parallel()

	seoul := time.FixedZone("KST", 9*60*60)
	rec := Review(nil, "w1", true, now.In(seoul))
	assert.Equal(t, time.UTC, rec.NextReview.Location())
	assert.True(t, rec.NextReview.Equal(now.AddDate(0, 0, 1)))
}

func TestCompleteLesson(t *testing.T) {
	t.Parallel()

	rec := CompleteLesson(nil, "l1", 87.5, now)
	assert.Equal(t, "lesson:l1", rec.ItemID)
	assert.Equal(t, "l1", rec.LessonID)
	assert.True(t, rec.Completed)
	assert.Equal(t, 88, rec.LessonAccuracy)
	assert.True(t, rec.IsLessonRecord())

	again := CompleteLesson(&rec, "l1", 100, now.Add(time.Hour))
	assert.Equal(t, 100, again.LessonAccuracy)
	assert.Equal(t, rec.NextReview, again.NextReview)
	require.NotNil(t, again.LastAttemptDate)
	assert.Equal(t, now.Add(time.Hour), *again.LastAttemptDate)

	assert.Equal(t, 0, CompleteLesson(nil, "l1", -5, now).LessonAccuracy)
	assert.Equal(t, 100, CompleteLesson(nil, "l1", 140, now).LessonAccuracy)
}
