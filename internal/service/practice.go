package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/answer"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/srs"
)

var (
	ErrNoItemsAvailable = errors.New("no items available")
	ErrNoActiveSession  = errors.New("no active practice session")
	ErrStaleQuestion    = errors.New("question is no longer active")
	ErrWrongAnswerKind  = errors.New("answer does not fit the question")
	ErrInvalidOrder     = errors.New("invalid word order")
)

const blankPlaceholder = "___"

// AnswerOutcome is the result of answering the current question.
type AnswerOutcome struct {
	Result   entities.ValidationResult
	Recorded bool                    // false when the answer was empty and nothing changed
	Record   entities.ProgressRecord // progress after the answer
	Diff     []answer.CharDiff       // set for wrong fill-in-the-blank answers
	Session  *entities.PracticeSession
	Finished bool
	Stars    int // set when a lesson session finishes
}

// PracticeService runs practice sessions: it picks the items, asks them,
// validates answers and records the verdicts.
type PracticeService struct {
	content   ContentRepository
	progress  *ProgressService
	sessions  SessionStorage
	builder   *SessionBuilder
	validator *answer.Validator
	log       *zap.Logger
	now       func() time.Time
}

func NewPracticeService(
	content ContentRepository,
	progress *ProgressService,
	sessions SessionStorage,
	builder *SessionBuilder,
	validator *answer.Validator,
	log *zap.Logger,
) *PracticeService {
	return &PracticeService{
		content:   content,
		progress:  progress,
		sessions:  sessions,
		builder:   builder,
		validator: validator,
		log:       log,
		now:       time.Now,
	}
}

// Start assembles a new session for the user, replacing any active one.
// lessonID is only used in lesson mode.
func (s *PracticeService) Start(ctx context.Context, userID int64, mode entities.SessionMode, lessonID string) (*entities.PracticeSession, error) {
	tracker := s.progress.Tracker(userID)
	now := s.now()

	var (
		items []string
		err   error
	)
	switch mode {
	case entities.ModeVocabulary:
		items = s.builder.Vocabulary(tracker.Progress(ctx), now)
	case entities.ModeReview:
		items = s.builder.Review(tracker.Progress(ctx), now)
	case entities.ModeLesson:
		items, err = s.builder.Lesson(lessonID)
		if err != nil {
			return nil, fmt.Errorf("select lesson exercises: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown session mode: %s", mode)
	}

	if len(items) == 0 {
		return nil, ErrNoItemsAvailable
	}

	session := entities.NewPracticeSession(uuid.NewString(), userID, mode, items, now)
	session.LessonID = lessonID
	s.sessions.Store(session)

	s.log.Info("practice session started",
		zap.Int64("user_id", userID),
		zap.String("session_id", session.ID),
		zap.String("mode", string(mode)),
		zap.Int("items", len(items)),
	)

	return session, nil
}

// Session returns the user's active session.
func (s *PracticeService) Session(userID int64) (*entities.PracticeSession, error) {
	session, ok := s.sessions.Get(userID)
	if !ok || session.Status != entities.StatusActive {
		return nil, ErrNoActiveSession
	}
	return session, nil
}

// CurrentQuestion returns the question the user should answer next.
func (s *PracticeService) CurrentQuestion(userID int64) (*entities.Question, error) {
	session, err := s.Session(userID)
	if err != nil {
		return nil, err
	}

	itemID, ok := session.Current()
	if !ok {
		return nil, ErrNoActiveSession
	}

	q, err := s.buildQuestion(itemID)
	if err != nil {
		return nil, err
	}
	q.Number = session.Position + 1
	q.Total = len(session.ItemIDs)
	return q, nil
}

// SubmitText answers the current question with typed text. Vocabulary and
// fill-in-the-blank answers are matched with typo tolerance; sentence
// building expects 1-based word numbers such as "3 1 2".
func (s *PracticeService) SubmitText(ctx context.Context, userID int64, text string) (*AnswerOutcome, error) {
	session, itemID, err := s.current(userID)
	if err != nil {
		return nil, err
	}

	// An empty answer asks to try again and leaves the session untouched.
	if answer.Normalize(text) == "" {
		expected, _, err := s.expectedAnswer(itemID)
		if err != nil {
			return nil, err
		}
		return &AnswerOutcome{Result: s.validator.Validate(text, expected), Session: session}, nil
	}

	if s.content.IsWord(itemID) {
		word, err := s.content.Word(itemID)
		if err != nil {
			return nil, err
		}
		res := s.validator.Validate(text, word.Korean)
		return s.apply(ctx, session, itemID, "", res, nil)
	}

	ex, err := s.content.Exercise(itemID)
	if err != nil {
		return nil, err
	}

	switch p := payloadOf(ex).(type) {
	case *entities.FillInBlank:
		res := s.validator.ValidateAny(text, p.Answers())
		var diff []answer.CharDiff
		if !res.Correct {
			diff = answer.HighlightDifferences(answer.Normalize(text), answer.Normalize(p.CorrectAnswer))
		}
		return s.apply(ctx, session, itemID, ex.LessonID, res, diff)

	case *entities.SentenceBuilding:
		order, err := ParseOrder(text, len(p.Words))
		if err != nil {
			return nil, err
		}
		res := answer.ExactResult(answer.OrderMatches(order, p.CorrectOrder), strings.Join(p.CorrectSentence(), " "))
		return s.apply(ctx, session, itemID, ex.LessonID, res, nil)

	default:
		return nil, ErrWrongAnswerKind
	}
}

// SubmitChoice answers the current multiple choice question. itemID guards
// against buttons of an earlier question.
func (s *PracticeService) SubmitChoice(ctx context.Context, userID int64, itemID string, index int) (*AnswerOutcome, error) {
	session, current, err := s.current(userID)
	if err != nil {
		return nil, err
	}
	if current != itemID {
		return nil, ErrStaleQuestion
	}

	ex, err := s.content.Exercise(itemID)
	if err != nil {
		return nil, err
	}

	mc, ok := payloadOf(ex).(*entities.MultipleChoice)
	if !ok {
		return nil, ErrWrongAnswerKind
	}
	if index < 0 || index >= len(mc.Options) {
		return nil, fmt.Errorf("%w: option %d", ErrWrongAnswerKind, index)
	}

	res := answer.ExactResult(index == mc.CorrectIndex, mc.Options[mc.CorrectIndex])
	return s.apply(ctx, session, itemID, ex.LessonID, res, nil)
}

// Skip reveals the answer of the current question and counts it as wrong.
func (s *PracticeService) Skip(ctx context.Context, userID int64) (*AnswerOutcome, error) {
	session, itemID, err := s.current(userID)
	if err != nil {
		return nil, err
	}

	expected, lessonID, err := s.expectedAnswer(itemID)
	if err != nil {
		return nil, err
	}

	res := answer.ExactResult(false, expected)
	return s.apply(ctx, session, itemID, lessonID, res, nil)
}

// Stop abandons the user's active session.
func (s *PracticeService) Stop(userID int64) (*entities.PracticeSession, error) {
	session, err := s.Session(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session.Status = entities.StatusAbandoned
	session.CompletedAt = &now
	s.sessions.Delete(userID)

	return session, nil
}

func (s *PracticeService) current(userID int64) (*entities.PracticeSession, string, error) {
	session, err := s.Session(userID)
	if err != nil {
		return nil, "", err
	}
	itemID, ok := session.Current()
	if !ok {
		return nil, "", ErrNoActiveSession
	}
	return session, itemID, nil
}

func (s *PracticeService) apply(
	ctx context.Context,
	session *entities.PracticeSession,
	itemID, lessonID string,
	res entities.ValidationResult,
	diff []answer.CharDiff,
) (*AnswerOutcome, error) {
	out := &AnswerOutcome{Result: res, Diff: diff, Session: session}

	tracker := s.progress.Tracker(session.UserID)
	out.Record = tracker.Record(ctx, itemID, lessonID, res.Correct)
	out.Recorded = true

	if res.Correct {
		session.CorrectAnswers++
	}
	session.Advance(s.now())

	if session.Status == entities.StatusCompleted {
		out.Finished = true
		s.sessions.Delete(session.UserID)

		if session.Mode == entities.ModeLesson {
			tracker.CompleteLesson(ctx, session.LessonID, session.Accuracy())
			out.Stars = srs.LessonStars(session.LessonID, tracker.Progress(ctx))
		}

		s.log.Info("practice session completed",
			zap.Int64("user_id", session.UserID),
			zap.String("session_id", session.ID),
			zap.Int("correct", session.CorrectAnswers),
			zap.Int("total", len(session.ItemIDs)),
		)
		return out, nil
	}

	s.sessions.Store(session)
	return out, nil
}

func (s *PracticeService) expectedAnswer(itemID string) (expected, lessonID string, err error) {
	if s.content.IsWord(itemID) {
		word, err := s.content.Word(itemID)
		if err != nil {
			return "", "", err
		}
		return word.Korean, "", nil
	}

	ex, err := s.content.Exercise(itemID)
	if err != nil {
		return "", "", err
	}

	switch p := payloadOf(ex).(type) {
	case *entities.MultipleChoice:
		return p.Options[p.CorrectIndex], ex.LessonID, nil
	case *entities.FillInBlank:
		return p.CorrectAnswer, ex.LessonID, nil
	case *entities.SentenceBuilding:
		return strings.Join(p.CorrectSentence(), " "), ex.LessonID, nil
	default:
		return "", "", fmt.Errorf("%w: %s", entities.ErrUnknownExerciseKind, itemID)
	}
}

func (s *PracticeService) buildQuestion(itemID string) (*entities.Question, error) {
	if s.content.IsWord(itemID) {
		word, err := s.content.Word(itemID)
		if err != nil {
			return nil, err
		}
		return &entities.Question{
			ItemID:      itemID,
			Kind:        entities.QuestionVocabulary,
			Instruction: "Type the Korean word",
			Prompt:      word.English,
			Hint:        word.Category,
		}, nil
	}

	ex, err := s.content.Exercise(itemID)
	if err != nil {
		return nil, err
	}

	q := &entities.Question{
		ItemID:      itemID,
		Kind:        entities.QuestionKind(ex.Kind()),
		Instruction: ex.Instruction,
	}

	switch p := payloadOf(ex).(type) {
	case *entities.MultipleChoice:
		q.Prompt = p.Question
		q.Options = p.Options
	case *entities.FillInBlank:
		q.Prompt = strings.ReplaceAll(p.Sentence, entities.BlankMarker, blankPlaceholder)
	case *entities.SentenceBuilding:
		q.Prompt = p.EnglishPrompt
		q.Options = p.Words
	default:
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownExerciseKind, itemID)
	}

	return q, nil
}

// payloadOf returns the payload in pointer form.
func payloadOf(ex entities.Exercise) entities.ExercisePayload {
	switch p := ex.Payload.(type) {
	case entities.MultipleChoice:
		return &p
	case entities.FillInBlank:
		return &p
	case entities.SentenceBuilding:
		return &p
	default:
		return ex.Payload
	}
}

// ParseOrder reads 1-based word numbers separated by spaces or commas and
// returns them as 0-based indexes. Every one of n words must be used once.
func ParseOrder(text string, n int) ([]int, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) != n {
		return nil, fmt.Errorf("%w: expected %d numbers, got %d", ErrInvalidOrder, n, len(fields))
	}

	seen := make([]bool, n)
	order := make([]int, n)
	for i, f := range fields {
		num, err := strconv.Atoi(f)
		if err != nil || num < 1 || num > n {
			return nil, fmt.Errorf("%w: %q is not a word number", ErrInvalidOrder, f)
		}
		if seen[num-1] {
			return nil, fmt.Errorf("%w: word %d used twice", ErrInvalidOrder, num)
		}
		seen[num-1] = true
		order[i] = num - 1
	}

	return order, nil
}
