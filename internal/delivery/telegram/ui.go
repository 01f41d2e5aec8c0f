package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

const lessonsPerRow = 3

// buildMainKeyboard builds the keyboard shown with the welcome message.
func buildMainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Practice words", buildPracticeCallback(entities.ModeVocabulary)),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Review grammar", buildPracticeCallback(entities.ModeReview)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildProgressCallback()),
		),
	)
}

// buildChoiceKeyboard builds one button per option of a multiple choice question.
func buildChoiceKeyboard(q *entities.Question) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options)+1)
	for i, opt := range q.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt, buildChoiceCallback(q.ItemID, i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", buildSkipCallback()),
	))

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func buildSkipKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", buildSkipCallback()),
		),
	)
}

// buildLessonsKeyboard builds a button per lesson, a few per row.
func buildLessonsKeyboard(lessons []entities.Lesson) tgbotapi.InlineKeyboardMarkup {
	var (
		rows [][]tgbotapi.InlineKeyboardButton
		row  []tgbotapi.InlineKeyboardButton
	)
	for _, l := range lessons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(l.ID, buildLessonCallback(l.ID)))
		if len(row) == lessonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildProgressCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Practice words", buildPracticeCallback(entities.ModeVocabulary)),
		),
	)
}

// buildFinishedKeyboard offers another round of the same kind.
func buildFinishedKeyboard(s *entities.PracticeSession) tgbotapi.InlineKeyboardMarkup {
	again := buildPracticeCallback(s.Mode)
	if s.Mode == entities.ModeLesson {
		again = buildLessonCallback(s.LessonID)
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Again", again),
			tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildProgressCallback()),
		),
	)
}

func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, reset", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}

// buildReminderKeyboard builds keyboard attached to reminder notifications.
func buildReminderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Practice words", buildPracticeCallback(entities.ModeVocabulary)),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Review grammar", buildPracticeCallback(entities.ModeReview)),
		),
	)
}
