// Package srs implements level-based spaced repetition: review intervals,
// mastery updates, due-item selection and progress statistics.
package srs

import (
	"math"
	"time"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

// Intervals maps a mastery level to the review delay in days.
// Level 0 means the item is due again immediately.
var Intervals = [entities.MaxLevel + 1]int{0, 1, 3, 7, 14, 30}

// IntervalDays returns the review delay for level, clamped into range.
func IntervalDays(level int) int {
	return Intervals[entities.ClampLevel(level)]
}

// NextReviewAt returns when an item at level should be reviewed again.
func NextReviewAt(level int, now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, IntervalDays(level))
}

// NextLevel moves level one step up on a correct answer and one step down
// otherwise, never leaving [MinLevel, MaxLevel].
func NextLevel(level int, correct bool) int {
	level = entities.ClampLevel(level)
	if correct {
		return min(level+1, entities.MaxLevel)
	}
	return max(level-1, entities.MinLevel)
}

// Review returns the record after answering itemID at now. A nil prev means
// the item is seen for the first time: it starts at level 1 when answered
// correctly and at level 0 otherwise. prev is never modified.
func Review(prev *entities.ProgressRecord, itemID string, correct bool, now time.Time) entities.ProgressRecord {
	now = now.UTC()

	var rec entities.ProgressRecord
	if prev == nil {
		rec = entities.ProgressRecord{ItemID: itemID}
		if correct {
			rec.Level = 1
		}
	} else {
		rec = *prev
		rec.ItemID = itemID
		rec.Level = NextLevel(prev.Level, correct)
	}

	rec.NextReview = NextReviewAt(rec.Level, now)
	if correct {
		rec.TimesCorrect++
	} else {
		rec.TimesIncorrect++
	}
	rec.LastAttemptDate = &now

	return rec
}

// CompleteLesson returns the lesson-level record for lessonID after the lesson
// was finished with the given accuracy (percent). Level, next review time and
// counters of an earlier lesson record are kept.
func CompleteLesson(prev *entities.ProgressRecord, lessonID string, accuracy float64, now time.Time) entities.ProgressRecord {
	now = now.UTC()

	rec := entities.ProgressRecord{
		ItemID:     entities.LessonKey(lessonID),
		NextReview: now,
	}
	if prev != nil {
		rec.Level = prev.Level
		rec.TimesCorrect = prev.TimesCorrect
		rec.TimesIncorrect = prev.TimesIncorrect
		if !prev.NextReview.IsZero() {
			rec.NextReview = prev.NextReview
		}
	}

	rec.LessonID = lessonID
	rec.Completed = true
	rec.LastAttemptDate = &now
	rec.LessonAccuracy = int(math.Round(min(max(accuracy, 0), 100)))

	return rec
}
