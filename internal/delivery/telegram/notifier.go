package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

// SendReminder sends a review reminder and returns its message ID.
func (h *Handler) SendReminder(chatID int64, payload entities.ReminderPayload) (int, error) {
	msg := newMessage(chatID, buildReminderNotification(payload))
	msg.ReplyMarkup = buildReminderKeyboard()

	sent, err := h.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send reminder: %w", err)
	}
	return sent.MessageID, nil
}

// DeleteMessage removes a message sent earlier.
func (h *Handler) DeleteMessage(chatID int64, messageID int) error {
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
