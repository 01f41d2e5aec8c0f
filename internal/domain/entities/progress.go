package entities

import (
	"strings"
	"time"
)

// Mastery level bounds.
const (
	MinLevel = 0
	MaxLevel = 5
)

// LessonKeyPrefix prefixes the keys of lesson-level records.
const LessonKeyPrefix = "lesson:"

// MasteryPhase is a coarse bucket of the mastery level, used for statistics.
type MasteryPhase string

const (
	PhaseNew      MasteryPhase = "new"      // level 0
	PhaseLearning MasteryPhase = "learning" // levels 1-3
	PhaseMastered MasteryPhase = "mastered" // levels 4-5
)

// ProgressRecord stores the learning progress for a single learnable item
// (a vocabulary word or a grammar exercise) or, for lesson-level records,
// the completion state of a whole lesson.
//
// Timestamps are kept in UTC and travel over the wire as RFC 3339 strings.
// Optional fields absent from older data decode to their zero values.
type ProgressRecord struct {
	ItemID         string    `json:"itemId" db:"item_id"`
	Level          int       `json:"level" db:"level"`
	NextReview     time.Time `json:"nextReview" db:"next_review"`
	TimesCorrect   int       `json:"timesCorrect" db:"times_correct"`
	TimesIncorrect int       `json:"timesIncorrect" db:"times_incorrect"`

	// Lesson-level fields.
	LessonID        string     `json:"lessonId,omitempty" db:"lesson_id"`
	Completed       bool       `json:"completed,omitempty" db:"completed"`
	LastAttemptDate *time.Time `json:"lastAttemptDate,omitempty" db:"last_attempt_date"`
	LessonAccuracy  int        `json:"lessonAccuracy,omitempty" db:"lesson_accuracy"`
}

// LessonKey returns the progress key of the lesson-level record for lessonID.
func LessonKey(lessonID string) string {
	return LessonKeyPrefix + lessonID
}

// IsLessonRecord reports whether the record tracks a lesson rather than an item.
func (p ProgressRecord) IsLessonRecord() bool {
	return strings.HasPrefix(p.ItemID, LessonKeyPrefix)
}

// IsDue reports whether the item should be reviewed at now.
func (p ProgressRecord) IsDue(now time.Time) bool {
	return !now.Before(p.NextReview)
}

// Phase returns the mastery bucket of the record's level.
func (p ProgressRecord) Phase() MasteryPhase {
	switch {
	case p.Level >= 4:
		return PhaseMastered
	case p.Level > 0:
		return PhaseLearning
	default:
		return PhaseNew
	}
}

// Normalize clamps the level into range, moves timestamps to UTC and fills
// a missing next review time with now, so that records written by older
// versions stay readable.
func (p *ProgressRecord) Normalize(now time.Time) {
	p.Level = ClampLevel(p.Level)
	if p.TimesCorrect < 0 {
		p.TimesCorrect = 0
	}
	if p.TimesIncorrect < 0 {
		p.TimesIncorrect = 0
	}

	if p.NextReview.IsZero() {
		p.NextReview = now
	}
	p.NextReview = p.NextReview.UTC()

	if p.LastAttemptDate != nil {
		t := p.LastAttemptDate.UTC()
		p.LastAttemptDate = &t
	}
}

// ClampLevel keeps a level inside [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	return min(max(level, MinLevel), MaxLevel)
}

// ProgressMap is the full progress collection of one learner, keyed by item ID.
type ProgressMap map[string]ProgressRecord

// Clone returns a copy that shares no mutable state with m.
func (m ProgressMap) Clone() ProgressMap {
	out := make(ProgressMap, len(m))
	for k, v := range m {
		if v.LastAttemptDate != nil {
			t := *v.LastAttemptDate
			v.LastAttemptDate = &t
		}
		out[k] = v
	}
	return out
}
