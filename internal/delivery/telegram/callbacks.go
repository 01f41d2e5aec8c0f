package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	userID := cb.From.ID
	cd := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch cd.Action {
	case actionChoice:
		fn = h.handleChoiceCallback(userID, cb.Message.MessageID, cd)
	case actionSkip:
		fn = h.handleSkip(userID)
	case actionPractice:
		fn = h.handlePracticeCallback(userID, cd)
	case actionProgress:
		fn = h.handleProgress(userID)
	case actionReset:
		fn = h.handleResetCallback(userID, cb.Message.MessageID, cd)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
	}

	if fn != nil {
		_ = h.withErrorHandling(fn)(ctx, chatID)
	}

	// Remove the user's "clock".
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

func (h *Handler) handleChoiceCallback(userID int64, messageID int, cd callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		itemID, index, ok := parseChoiceCallback(cd)
		if !ok {
			h.logger.Warn("invalid choice callback", zap.String("data", cd.Raw))
			return nil
		}

		out, err := h.practiceService.SubmitChoice(ctx, userID, itemID, index)
		if err != nil {
			if errors.Is(err, service.ErrStaleQuestion) || errors.Is(err, service.ErrNoActiveSession) {
				return h.send(newPlainMessage(chatID, msgStaleButton))
			}
			return err
		}

		// Drop the option buttons so the question cannot be answered twice.
		_ = h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.NewInlineKeyboardMarkup()))

		return h.sendOutcome(ctx, chatID, userID, out)
	}
}

func (h *Handler) handlePracticeCallback(userID int64, cd callbackData) HandlerFunc {
	if len(cd.Params) == 0 {
		return nil
	}

	switch mode := entities.SessionMode(cd.Params[0]); mode {
	case entities.ModeVocabulary, entities.ModeReview:
		return h.handleStartSession(userID, mode, "")
	case entities.ModeLesson:
		if len(cd.Params) < 2 {
			return nil
		}
		return h.handleStartSession(userID, mode, cd.Params[1])
	default:
		return nil
	}
}

func (h *Handler) handleResetCallback(userID int64, messageID int, cd callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text := msgResetCancelled
		if len(cd.Params) > 0 && cd.Params[0] == resetConfirm {
			_, _ = h.practiceService.Stop(userID)
			h.progressService.Reset(ctx, userID)
			text = msgResetDone

			h.logger.Info("progress reset by user", zap.Int64("user_id", userID))
		}

		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		return h.send(edit)
	}
}
