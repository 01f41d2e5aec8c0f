package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

var ErrUserNotFound = errors.New("user not found")

// UserStorage keeps users in memory. It serves the storage backends that
// have no user table.
type UserStorage struct {
	mu    sync.RWMutex
	users map[int64]entities.User
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		users: make(map[int64]entities.User),
	}
}

// Save inserts or updates the user and reports whether it was created.
func (s *UserStorage) Save(_ context.Context, user *entities.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.users[user.ID]
	u := *user
	if exists {
		u.CreatedAt = prev.CreatedAt
	}
	s.users[user.ID] = u

	return !exists, nil
}

func (s *UserStorage) GetByID(_ context.Context, userID int64) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// ListActive returns the active users ordered by ID.
func (s *UserStorage) ListActive(_ context.Context) ([]*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.User, 0, len(s.users))
	for _, u := range s.users {
		if !u.IsActive {
			continue
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}
