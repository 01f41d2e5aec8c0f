package storage

import (
	"sync"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

// SessionStorage keeps the active practice session of each user in memory.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.PracticeSession
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*entities.PracticeSession),
	}
}

// Store saves the session for its user, replacing any previous one.
func (s *SessionStorage) Store(session *entities.PracticeSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = session
}

// Get returns a copy of the user's session.
func (s *SessionStorage) Get(userID int64) (*entities.PracticeSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	cp := *session
	cp.ItemIDs = append([]string(nil), session.ItemIDs...)
	return &cp, true
}

// Delete removes the user's session.
func (s *SessionStorage) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
