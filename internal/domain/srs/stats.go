package srs

import (
	"math"
	"time"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

// Summary aggregates a learner's progress.
type Summary struct {
	Total            int // item-level records
	Mastered         int // level >= 4
	Learning         int // level 1-3
	New              int // level 0
	DueForReview     int
	LessonsCompleted int
	TimesCorrect     int
	TimesIncorrect   int
	Accuracy         int // percent of correct answers, 0 without answers
}

// Summarize computes the progress summary at now.
func Summarize(records entities.ProgressMap, now time.Time) Summary {
	var s Summary

	for _, rec := range records {
		if rec.IsLessonRecord() {
			if rec.Completed {
				s.LessonsCompleted++
			}
			continue
		}

		s.Total++
		switch rec.Phase() {
		case entities.PhaseMastered:
			s.Mastered++
		case entities.PhaseLearning:
			s.Learning++
		default:
			s.New++
		}

		if rec.IsDue(now) {
			s.DueForReview++
		}
		s.TimesCorrect += rec.TimesCorrect
		s.TimesIncorrect += rec.TimesIncorrect
	}

	s.Accuracy = percent(s.TimesCorrect, s.TimesCorrect+s.TimesIncorrect)
	return s
}

// LessonStars rates a lesson: 0 when not completed, 3 for a perfect run, 1 otherwise.
func LessonStars(lessonID string, records entities.ProgressMap) int {
	rec, ok := records[entities.LessonKey(lessonID)]
	if !ok || !rec.Completed {
		return 0
	}
	if rec.LessonAccuracy == 100 {
		return 3
	}
	return 1
}

// StarStats sums lesson stars over all completed lessons.
type StarStats struct {
	TotalStars    int
	MaxStars      int
	ThreeStars    int
	MaxThreeStars int
}

// CountStars computes star statistics for totalLessons lessons.
func CountStars(records entities.ProgressMap, totalLessons int) StarStats {
	stats := StarStats{
		MaxStars:      totalLessons * 3,
		MaxThreeStars: totalLessons,
	}

	for _, rec := range records {
		if !rec.IsLessonRecord() || !rec.Completed {
			continue
		}
		if rec.LessonAccuracy == 100 {
			stats.TotalStars += 3
			stats.ThreeStars++
			continue
		}
		stats.TotalStars++
	}

	return stats
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
