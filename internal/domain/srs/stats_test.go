package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	records := entities.ProgressMap{
		"w1": {ItemID: "w1", Level: 0, NextReview: now, TimesIncorrect: 2},
		"w2": {ItemID: "w2", Level: 2, NextReview: now.AddDate(0, 0, 3), TimesCorrect: 2, TimesIncorrect: 1},
		"w3": {ItemID: "w3", Level: 4, NextReview: now.AddDate(0, 0, -1), TimesCorrect: 4},
		"w4": {ItemID: "w4", Level: 5, NextReview: now.AddDate(0, 0, 30), TimesCorrect: 5},
		"lesson:a": {ItemID: "lesson:a", LessonID: "a", Completed: true, LessonAccuracy: 100},
		"lesson:b": {ItemID: "lesson:b", LessonID: "b", LessonAccuracy: 40},
	}

	assert.Equal(t, Summary{
		Total:            4,
		Mastered:         2,
		Learning:         1,
		New:              1,
		DueForReview:     2,
		LessonsCompleted: 1,
		TimesCorrect:     11,
		TimesIncorrect:   3,
		Accuracy:         79,
	}, Summarize(records, now))
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Summary{}, Summarize(nil, now))
}

func TestLessonStars(t *testing.T) {
	t.Parallel()

	records := entities.ProgressMap{
		"lesson:perfect": {ItemID: "lesson:perfect", Completed: true, LessonAccuracy: 100},
		"lesson:partial": {ItemID: "lesson:partial", Completed: true, LessonAccuracy: 70},
		"lesson:open":    {ItemID: "lesson:open", LessonAccuracy: 100},
	}

	assert.Equal(t, 3, LessonStars("perfect", records))
	assert.Equal(t, 1, LessonStars("partial", records))
	assert.Equal(t, 0, LessonStars("open", records))
	assert.Equal(t, 0, LessonStars("missing", records))

	assert.Equal(t, StarStats{
		TotalStars:    4,
		MaxStars:      15,
		ThreeStars:    1,
		MaxThreeStars: 5,
	}, CountStars(records, 5))
}
