package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
	logger     *zap.Logger
}

func NewUserService(repository UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repository: repository, logger: logger}
}

// EnsureUser registers the user on first contact and refreshes the chat
// details afterwards.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64, username, languageCode string) error {
	user := entities.NewUser(userID, chatID)
	user.Username = username
	user.LanguageCode = languageCode

	created, err := s.repository.Save(ctx, user)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if created {
		s.logger.Info("user registered", zap.Int64("user_id", userID))
	}

	return nil
}
