package entities

import "time"

// SessionMode selects how a practice session is assembled.
type SessionMode string

const (
	ModeVocabulary SessionMode = "vocabulary" // due words padded with new ones
	ModeReview     SessionMode = "review"     // due grammar exercises only
	ModeLesson     SessionMode = "lesson"     // every exercise of one lesson, in order
)

// Session statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

// PracticeSession tracks one run through a list of items for a user.
type PracticeSession struct {
	ID             string      // unique session ID
	UserID         int64       // user who started the session
	Mode           SessionMode // how the items were selected
	LessonID       string      // set for lesson sessions
	ItemIDs        []string    // items in presentation order
	Position       int         // index of the current item
	CorrectAnswers int         // number of correct answers so far
	Status         string      // active, completed or abandoned
	StartedAt      time.Time
	CompletedAt    *time.Time // nullable
}

// NewPracticeSession creates an active session over itemIDs.
func NewPracticeSession(id string, userID int64, mode SessionMode, itemIDs []string, now time.Time) *PracticeSession {
	return &PracticeSession{
		ID:        id,
		UserID:    userID,
		Mode:      mode,
		ItemIDs:   itemIDs,
		Status:    StatusActive,
		StartedAt: now,
	}
}

// Current returns the item being asked, or false when the session is over.
func (s *PracticeSession) Current() (string, bool) {
	if s.Position < 0 || s.Position >= len(s.ItemIDs) {
		return "", false
	}
	return s.ItemIDs[s.Position], true
}

// Answered counts the items already answered or skipped.
func (s *PracticeSession) Answered() int {
	return min(s.Position, len(s.ItemIDs))
}

// Advance moves to the next item and completes the session after the last one.
func (s *PracticeSession) Advance(now time.Time) {
	s.Position++
	if s.Position >= len(s.ItemIDs) {
		s.Complete(now)
	}
}

// Complete marks the session as completed and sets the completion timestamp.
func (s *PracticeSession) Complete(now time.Time) {
	s.Status = StatusCompleted
	s.CompletedAt = &now
}

// Accuracy returns the share of correct answers in percent.
func (s *PracticeSession) Accuracy() float64 {
	answered := s.Answered()
	if answered == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(answered) * 100
}

// QuestionKind tells the delivery layer how to render and collect an answer.
type QuestionKind string

const (
	QuestionVocabulary       QuestionKind = "vocabulary"
	QuestionMultipleChoice   QuestionKind = QuestionKind(KindMultipleChoice)
	QuestionFillInBlank      QuestionKind = QuestionKind(KindFillInBlank)
	QuestionSentenceBuilding QuestionKind = QuestionKind(KindSentenceBuilding)
)

// Question is the presentable form of the current session item.
type Question struct {
	ItemID      string
	Kind        QuestionKind
	Instruction string
	Prompt      string
	Options     []string // multiple choice options or words to arrange
	Hint        string
	Number      int // 1-based position in the session
	Total       int
}
