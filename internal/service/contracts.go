package service

import (
	"context"
	"time"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/storage"
)

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
	ListActive(ctx context.Context) ([]*entities.User, error)
}

type ContentRepository interface {
	Word(id string) (entities.Word, error)
	WordIDs() []string
	IsWord(id string) bool
	Lesson(id string) (entities.Lesson, error)
	Lessons() []entities.Lesson
	Exercise(id string) (entities.Exercise, error)
	ExerciseIDs() []string
	IsExercise(id string) bool
	LessonExerciseIDs(lessonID string) ([]string, error)
}

type SessionStorage interface {
	Store(session *entities.PracticeSession)
	Get(userID int64) (*entities.PracticeSession, bool)
	Delete(userID int64)
}

type ReminderStorage interface {
	SentOn(userID int64, t time.Time) bool
	UpsertAndGetPrev(userID, chatID int64, messageID int, sentAt time.Time) (storage.ReminderMessage, bool)
}

// ReminderNotifier sends reminder notifications to users.
type ReminderNotifier interface {
	SendReminder(chatID int64, payload entities.ReminderPayload) (messageID int, err error)
	DeleteMessage(chatID int64, messageID int) error
}
