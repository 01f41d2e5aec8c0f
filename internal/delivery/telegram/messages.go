// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/answer"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/srs"
	"github.com/aliskhannn/korean-tutor-bot/internal/service"
)

// Plain text messages.
const (
	msgInternalError   = "Something went wrong. Please try again later."
	msgNoActiveSession = "There is no practice session running. Start one with /practice, /review or /lesson."
	msgUseButtons      = "Please pick one of the options with the buttons."
	msgInvalidOrder    = "Send the word numbers in the right order, separated by spaces. Example: 3 1 2"
	msgStaleButton     = "This question is no longer active."
	msgLessonNotFound  = "No such lesson. See /lessons for the list."
	msgNoLessons       = "There are no grammar lessons yet."
	msgResetConfirm    = "This deletes all of your progress. Are you sure?"
	msgResetDone       = "Your progress has been reset."
	msgResetCancelled  = "Reset cancelled."
)

const progressBarLength = 20

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

func welcomeMarkdownV2() string {
	var sb strings.Builder

	sb.WriteString(bold("안녕하세요! 👋"))
	sb.WriteString("\n\n")
	sb.WriteString(md("I help you learn Korean with spaced repetition. Words you know come back rarely, words you miss come back soon."))
	sb.WriteString("\n\n")
	sb.WriteString(commandList())

	return sb.String()
}

func commandList() string {
	lines := []string{
		"/practice - vocabulary practice",
		"/review - review grammar exercises that are due",
		"/lessons - list grammar lessons",
		"/lesson <id> - practice one lesson",
		"/progress - your statistics",
		"/skip - show the answer and move on",
		"/stop - end the current session",
		"/reset - delete all progress",
	}
	return md(strings.Join(lines, "\n"))
}

func msgUnknownCommand() string {
	return md("Unknown command. Available commands:") + "\n\n" + commandList()
}

func msgNothingToPractice(mode entities.SessionMode) string {
	switch mode {
	case entities.ModeReview:
		return "No grammar exercises are due right now. Try a /lesson or come back later."
	case entities.ModeLesson:
		return "This lesson has no exercises yet."
	default:
		return "There are no words to practice yet."
	}
}

func modeTitle(mode entities.SessionMode) string {
	switch mode {
	case entities.ModeReview:
		return "Grammar review"
	case entities.ModeLesson:
		return "Lesson"
	default:
		return "Vocabulary practice"
	}
}

func formatSessionStart(s *entities.PracticeSession) string {
	title := modeTitle(s.Mode)
	if s.LessonID != "" {
		title += " " + s.LessonID
	}
	return fmt.Sprintf("%s\n%s",
		bold("📝 "+title),
		md(fmt.Sprintf("%d questions. Type your answers, /skip to see the answer.", len(s.ItemIDs))),
	)
}

// formatQuestion renders a question. Sentence building lists the words
// numbered so the answer can be typed as numbers.
func formatQuestion(q *entities.Question) string {
	var sb strings.Builder

	sb.WriteString(md(fmt.Sprintf("Question %d/%d", q.Number, q.Total)))
	sb.WriteString("\n")
	if q.Instruction != "" {
		sb.WriteString(italic(q.Instruction))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(bold(q.Prompt))

	switch q.Kind {
	case entities.QuestionVocabulary:
		if q.Hint != "" {
			sb.WriteString("\n")
			sb.WriteString(md("(" + q.Hint + ")"))
		}
		sb.WriteString("\n\n")
		sb.WriteString(md("Type the word in Korean."))
	case entities.QuestionSentenceBuilding:
		sb.WriteString("\n\n")
		for i, w := range q.Options {
			sb.WriteString(md(fmt.Sprintf("%d. %s\n", i+1, w)))
		}
		sb.WriteString("\n")
		sb.WriteString(md("Send the word numbers in order, e.g. 2 1 3."))
	case entities.QuestionFillInBlank:
		sb.WriteString("\n\n")
		sb.WriteString(md("Type the missing part."))
	}

	return sb.String()
}

func formatOutcome(out *service.AnswerOutcome) string {
	res := out.Result
	icon := "❌ "
	if res.Correct {
		icon = "✅ "
	}
	if !out.Recorded {
		icon = ""
	}

	var sb strings.Builder
	sb.WriteString(md(icon + res.Feedback))

	if len(out.Diff) > 0 {
		sb.WriteString("\n")
		sb.WriteString(formatDiff(out.Diff))
	}

	if out.Recorded {
		sb.WriteString("\n")
		sb.WriteString(italic(fmt.Sprintf("Level %d, next review in %s", out.Record.Level, formatDays(srs.IntervalDays(out.Record.Level)))))
	}

	return sb.String()
}

// formatDiff shows the expected answer with wrong characters in bold and
// missing ones underlined.
func formatDiff(diff []answer.CharDiff) string {
	var sb strings.Builder
	for _, d := range diff {
		switch d.Status {
		case answer.CharWrong:
			sb.WriteString(bold(d.Char))
		case answer.CharMissing:
			sb.WriteString("__" + md(d.Char) + "__")
		default:
			sb.WriteString(md(d.Char))
		}
	}
	return sb.String()
}

func formatDays(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

func formatSessionFinished(s *entities.PracticeSession, stars int) string {
	var sb strings.Builder

	sb.WriteString(bold("🏁 Session complete"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Correct: %d/%d (%.0f%%)", s.CorrectAnswers, len(s.ItemIDs), s.Accuracy())))

	if s.Mode == entities.ModeLesson {
		sb.WriteString("\n")
		sb.WriteString(md("Lesson stars: " + formatStars(stars)))
	}

	return sb.String()
}

func formatSessionStopped(s *entities.PracticeSession) string {
	return md(fmt.Sprintf("Session stopped after %d of %d questions.", s.Answered(), len(s.ItemIDs)))
}

func formatStars(n int) string {
	return strings.Repeat("⭐", n) + strings.Repeat("☆", max(0, 3-n))
}

func formatLessons(lessons []entities.Lesson, stars map[string]int) string {
	var sb strings.Builder

	sb.WriteString(bold("📚 Grammar lessons"))
	sb.WriteString("\n\n")

	for _, l := range lessons {
		sb.WriteString(md(fmt.Sprintf("%s %s - %s", formatStars(stars[l.ID]), l.ID, l.Title)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(md("Start one with /lesson <id> or the buttons below."))

	return sb.String()
}

func formatProgress(s srs.Summary, stars srs.StarStats, totalWords int) string {
	var sb strings.Builder

	sb.WriteString(bold("📊 Your progress"))
	sb.WriteString("\n\n")
	sb.WriteString(md(buildProgressBar(s.Mastered, totalWords, progressBarLength)))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("✅ Mastered: %d\n", s.Mastered)))
	sb.WriteString(md(fmt.Sprintf("📖 Learning: %d\n", s.Learning)))
	sb.WriteString(md(fmt.Sprintf("🆕 New: %d\n", s.New)))
	sb.WriteString(md(fmt.Sprintf("🔄 Due for review: %d\n", s.DueForReview)))
	sb.WriteString(md(fmt.Sprintf("🎯 Accuracy: %d%%\n", s.Accuracy)))

	if stars.MaxStars > 0 {
		sb.WriteString(md(fmt.Sprintf("⭐ Stars: %d/%d (perfect lessons: %d/%d)",
			stars.TotalStars, stars.MaxStars, stars.ThreeStars, stars.MaxThreeStars)))
	}

	return sb.String()
}

func buildProgressBar(current, total, length int) string {
	if total <= 0 || length <= 0 {
		return ""
	}

	filled := min(length, current*length/total)
	return strings.Repeat("▓", filled) + strings.Repeat("░", length-filled) +
		fmt.Sprintf(" %d/%d", current, total)
}

// buildReminderNotification builds reminder notification message.
func buildReminderNotification(payload entities.ReminderPayload) string {
	var sb strings.Builder

	sb.WriteString(bold("⏰ Time to review!"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("🔄 Items due: %d\n", payload.Due)))

	if payload.Total > 0 {
		sb.WriteString(md(fmt.Sprintf("✅ Mastered: %d/%d", payload.Mastered, payload.Total)))
	}

	return sb.String()
}
