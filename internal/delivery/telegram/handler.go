package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/srs"
	"github.com/aliskhannn/korean-tutor-bot/internal/service"
)

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64, username, languageCode string) error
}

type PracticeService interface {
	Start(ctx context.Context, userID int64, mode entities.SessionMode, lessonID string) (*entities.PracticeSession, error)
	CurrentQuestion(userID int64) (*entities.Question, error)
	SubmitText(ctx context.Context, userID int64, text string) (*service.AnswerOutcome, error)
	SubmitChoice(ctx context.Context, userID int64, itemID string, index int) (*service.AnswerOutcome, error)
	Skip(ctx context.Context, userID int64) (*service.AnswerOutcome, error)
	Stop(userID int64) (*entities.PracticeSession, error)
}

type ProgressService interface {
	Summary(ctx context.Context, userID int64) srs.Summary
	Stars(ctx context.Context, userID int64, totalLessons int) srs.StarStats
	LessonStars(ctx context.Context, userID int64, lessonID string) int
	Reset(ctx context.Context, userID int64)
}

type ContentService interface {
	Lessons() []entities.Lesson
	WordIDs() []string
}

type Handler struct {
	bot             *tgbotapi.BotAPI
	logger          *zap.Logger
	userService     UserService
	practiceService PracticeService
	progressService ProgressService
	content         ContentService
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	userService UserService,
	practiceService PracticeService,
	progressService ProgressService,
	content ContentService,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		userService:     userService,
		practiceService: practiceService,
		progressService: progressService,
		content:         content,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.Int64("user_id", from.ID),
	)

	if err := h.userService.EnsureUser(ctx, from.ID, chatID, from.UserName, from.LanguageCode); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	}

	if !update.Message.IsCommand() {
		_ = h.withErrorHandling(h.handleAnswer(from.ID, update.Message.Text))(ctx, chatID)
		return
	}

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start", "help":
		fn = h.handleStart()
	case "practice":
		fn = h.handleStartSession(from.ID, entities.ModeVocabulary, "")
	case "review":
		fn = h.handleStartSession(from.ID, entities.ModeReview, "")
	case "lesson":
		fn = h.handleLesson(from.ID, update.Message.CommandArguments())
	case "lessons":
		fn = h.handleLessons(from.ID)
	case "progress":
		fn = h.handleProgress(from.ID)
	case "reset":
		fn = h.handleReset()
	case "skip":
		fn = h.handleSkip(from.ID)
	case "stop":
		fn = h.handleStop(from.ID)
	default:
		fn = func(ctx context.Context, chatID int64) error {
			return h.send(newMessage(chatID, msgUnknownCommand()))
		}
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}
