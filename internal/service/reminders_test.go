package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/storage"
)

type fakeUsers struct {
	users []*entities.User
	err   error
}

func (f *fakeUsers) Save(context.Context, *entities.User) (bool, error) { return false, nil }

func (f *fakeUsers) GetByID(_ context.Context, userID int64) (*entities.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeUsers) ListActive(context.Context) ([]*entities.User, error) {
	return f.users, f.err
}

type sentReminder struct {
	chatID  int64
	payload entities.ReminderPayload
}

type fakeNotifier struct {
	mu      sync.Mutex
	nextID  int
	sent    []sentReminder
	deleted []int
	sendErr error
}

func (n *fakeNotifier) SendReminder(chatID int64, payload entities.ReminderPayload) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.sendErr != nil {
		return 0, n.sendErr
	}
	n.nextID++
	n.sent = append(n.sent, sentReminder{chatID: chatID, payload: payload})
	return n.nextID, nil
}

func (n *fakeNotifier) DeleteMessage(_ int64, messageID int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.deleted = append(n.deleted, messageID)
	return nil
}

func newTestReminderService(users *fakeUsers, backends map[int64]*memBackend) (*ReminderService, *fakeNotifier) {
	progress := newTestProgressService(backends, nil)
	s := NewReminderService(users, progress, storage.NewReminderStorage(), "", zap.NewNop())
	s.now = fixedClock

	notifier := &fakeNotifier{}
	s.SetNotifier(notifier)
	return s, notifier
}

func TestReminderService_SendDueReminders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := &fakeUsers{users: []*entities.User{
		{ID: 1, ChatID: 101, IsActive: true},
		{ID: 2, ChatID: 102, IsActive: true},
		{ID: 3, ChatID: 103, IsActive: true},
	}}
	backends := map[int64]*memBackend{
		1: newMemBackend(entities.ProgressMap{
			"w1": dueRecord("w1", 1),
			"w2": dueRecord("w2", 4),
			"w3": laterRecord("w3", 5),
		}),
		2: newMemBackend(entities.ProgressMap{"w1": laterRecord("w1", 2)}),
	}

	s, notifier := newTestReminderService(users, backends)

	require.NoError(t, s.SendDueReminders(ctx))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(101), notifier.sent[0].chatID)
	assert.Equal(t, entities.ReminderPayload{Due: 2, Mastered: 2, Total: 3}, notifier.sent[0].payload)

	// At most one reminder per UTC day.
	require.NoError(t, s.SendDueReminders(ctx))
	assert.Len(t, notifier.sent, 1)

	// The next day the previous reminder is replaced.
	s.now = func() time.Time { return testNow.AddDate(0, 0, 1) }
	require.NoError(t, s.SendDueReminders(ctx))
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, int64(101), notifier.sent[1].chatID)
	assert.Equal(t, []int{1}, notifier.deleted)
}

func TestReminderService_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("listing users fails", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestReminderService(&fakeUsers{err: errBackendDown}, nil)
		assert.ErrorIs(t, s.SendDueReminders(ctx), errBackendDown)
	})

	t.Run("failed send is retried on the next run", func(t *testing.T) {
		t.Parallel()

		users := &fakeUsers{users: []*entities.User{{ID: 1, ChatID: 101, IsActive: true}}}
		s, notifier := newTestReminderService(users, map[int64]*memBackend{
			1: newMemBackend(entities.ProgressMap{"w1": dueRecord("w1", 1)}),
		})

		notifier.sendErr = errBackendDown
		require.NoError(t, s.SendDueReminders(ctx))
		assert.Empty(t, notifier.sent)

		notifier.sendErr = nil
		require.NoError(t, s.SendDueReminders(ctx))
		assert.Len(t, notifier.sent, 1)
	})
}

func TestReminderService_StartRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	s := NewReminderService(&fakeUsers{}, newTestProgressService(nil, nil), storage.NewReminderStorage(), "not a schedule", zap.NewNop())
	assert.Error(t, s.Start(context.Background()))
}
