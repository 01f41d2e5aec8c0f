package telegram

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/repository"
	"github.com/aliskhannn/korean-tutor-bot/internal/service"
)

func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, welcomeMarkdownV2())
		msg.ReplyMarkup = buildMainKeyboard()
		return h.send(msg)
	}
}

// handleStartSession starts a new practice session and asks the first question.
func (h *Handler) handleStartSession(userID int64, mode entities.SessionMode, lessonID string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, err := h.practiceService.Start(ctx, userID, mode, lessonID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNoItemsAvailable):
				return h.send(newPlainMessage(chatID, msgNothingToPractice(mode)))
			case errors.Is(err, repository.ErrLessonNotFound):
				return h.send(newPlainMessage(chatID, msgLessonNotFound))
			default:
				return err
			}
		}

		h.logger.Debug("practice session created",
			zap.String("session_id", session.ID),
			zap.Int("items", len(session.ItemIDs)),
		)

		if err := h.send(newMessage(chatID, formatSessionStart(session))); err != nil {
			return err
		}

		return h.sendCurrentQuestion(chatID, userID)
	}
}

func (h *Handler) handleLesson(userID int64, args string) HandlerFunc {
	lessonID := strings.TrimSpace(args)
	if lessonID == "" {
		return h.handleLessons(userID)
	}
	return h.handleStartSession(userID, entities.ModeLesson, lessonID)
}

// handleLessons lists the lessons with the stars earned in each.
func (h *Handler) handleLessons(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		lessons := h.content.Lessons()
		if len(lessons) == 0 {
			return h.send(newPlainMessage(chatID, msgNoLessons))
		}

		stars := make(map[string]int, len(lessons))
		for _, l := range lessons {
			stars[l.ID] = h.progressService.LessonStars(ctx, userID, l.ID)
		}

		msg := newMessage(chatID, formatLessons(lessons, stars))
		msg.ReplyMarkup = buildLessonsKeyboard(lessons)
		return h.send(msg)
	}
}

// handleProgress displays user progress.
func (h *Handler) handleProgress(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.logger.Debug("rendering progress", zap.Int64("user_id", userID))

		summary := h.progressService.Summary(ctx, userID)
		stars := h.progressService.Stars(ctx, userID, len(h.content.Lessons()))

		msg := newMessage(chatID, formatProgress(summary, stars, len(h.content.WordIDs())))
		msg.ReplyMarkup = buildProgressKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleReset() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleSkip(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		out, err := h.practiceService.Skip(ctx, userID)
		if err != nil {
			if errors.Is(err, service.ErrNoActiveSession) {
				return h.send(newPlainMessage(chatID, msgNoActiveSession))
			}
			return err
		}
		return h.sendOutcome(ctx, chatID, userID, out)
	}
}

func (h *Handler) handleStop(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, err := h.practiceService.Stop(userID)
		if err != nil {
			if errors.Is(err, service.ErrNoActiveSession) {
				return h.send(newPlainMessage(chatID, msgNoActiveSession))
			}
			return err
		}
		return h.send(newMessage(chatID, formatSessionStopped(session)))
	}
}

// handleAnswer treats free text as the answer to the current question.
func (h *Handler) handleAnswer(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		out, err := h.practiceService.SubmitText(ctx, userID, text)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNoActiveSession):
				return h.send(newPlainMessage(chatID, msgNoActiveSession))
			case errors.Is(err, service.ErrWrongAnswerKind):
				return h.send(newPlainMessage(chatID, msgUseButtons))
			case errors.Is(err, service.ErrInvalidOrder):
				return h.send(newPlainMessage(chatID, msgInvalidOrder))
			default:
				return err
			}
		}
		return h.sendOutcome(ctx, chatID, userID, out)
	}
}

// sendOutcome reports the verdict and moves on to the next question or the
// session summary.
func (h *Handler) sendOutcome(ctx context.Context, chatID, userID int64, out *service.AnswerOutcome) error {
	if err := h.send(newMessage(chatID, formatOutcome(out))); err != nil {
		return err
	}

	if !out.Recorded {
		return nil
	}

	if out.Finished {
		msg := newMessage(chatID, formatSessionFinished(out.Session, out.Stars))
		msg.ReplyMarkup = buildFinishedKeyboard(out.Session)
		return h.send(msg)
	}

	return h.sendCurrentQuestion(chatID, userID)
}

func (h *Handler) sendCurrentQuestion(chatID, userID int64) error {
	q, err := h.practiceService.CurrentQuestion(userID)
	if err != nil {
		return err
	}

	msg := newMessage(chatID, formatQuestion(q))
	switch q.Kind {
	case entities.QuestionMultipleChoice:
		msg.ReplyMarkup = buildChoiceKeyboard(q)
	default:
		msg.ReplyMarkup = buildSkipKeyboard()
	}

	return h.send(msg)
}
