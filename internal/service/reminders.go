package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/srs"
)

// DefaultReminderSchedule runs the reminder check at the top of every hour.
const DefaultReminderSchedule = "0 * * * *"

var errNotifierNotSet = errors.New("notifier not initialized")

// ReminderService notifies learners who have items due for review, at most
// once per UTC day each.
type ReminderService struct {
	users     UserRepository
	progress  *ProgressService
	reminders ReminderStorage
	notifier  ReminderNotifier
	schedule  string
	logger    *zap.Logger
	now       func() time.Time
}

// NewReminderService creates a new reminder service. An empty schedule
// falls back to DefaultReminderSchedule.
func NewReminderService(
	users UserRepository,
	progress *ProgressService,
	reminders ReminderStorage,
	schedule string,
	logger *zap.Logger,
) *ReminderService {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	return &ReminderService{
		users:     users,
		progress:  progress,
		reminders: reminders,
		schedule:  schedule,
		logger:    logger,
		now:       time.Now,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the cron scheduler until ctx is done.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		s.logger.Info("cron triggered: processing review reminders")
		if err := s.SendDueReminders(ctx); err != nil {
			s.logger.Error("failed to send reminders", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job %q: %w", s.schedule, err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
	return nil
}

// SendDueReminders checks every active user once and returns after all
// notifications of this round were attempted.
func (s *ReminderService) SendDueReminders(ctx context.Context) error {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active users: %w", err)
	}

	sent := s.processBatch(ctx, users)

	s.logger.Info("reminders processed",
		zap.Int("users", len(users)),
		zap.Int("total_sent", sent),
	)
	return nil
}

// processBatch processes users concurrently.
func (s *ReminderService) processBatch(ctx context.Context, users []*entities.User) int {
	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0
	now := s.now().UTC()

	for _, u := range users {
		wg.Add(1)
		sem <- struct{}{} // acquire

		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release

			ok, err := s.processUser(ctx, u, now)
			if err != nil {
				s.logger.Error("failed to process reminder",
					zap.Int64("user_id", u.ID),
					zap.Error(err))
				return
			}
			if ok {
				mu.Lock()
				sent++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return sent
}

// processUser sends one reminder when the user has due items and has not
// been reminded today. It reports whether a reminder went out.
func (s *ReminderService) processUser(ctx context.Context, u *entities.User, now time.Time) (bool, error) {
	if s.reminders.SentOn(u.ID, now) {
		return false, nil
	}

	progress := s.progress.Tracker(u.ID).Progress(ctx)
	sum := srs.Summarize(progress, now)
	if sum.DueForReview == 0 {
		return false, nil
	}

	if s.notifier == nil {
		return false, errNotifierNotSet
	}

	payload := entities.ReminderPayload{
		Due:      sum.DueForReview,
		Mastered: sum.Mastered,
		Total:    sum.Total,
	}

	messageID, err := s.notifier.SendReminder(u.ChatID, payload)
	if err != nil {
		return false, fmt.Errorf("send notification: %w", err)
	}

	prev, hadPrev := s.reminders.UpsertAndGetPrev(u.ID, u.ChatID, messageID, now)
	if hadPrev && prev.MessageID != 0 {
		if err := s.notifier.DeleteMessage(prev.ChatID, prev.MessageID); err != nil {
			s.logger.Debug("failed to delete previous reminder",
				zap.Int64("user_id", u.ID),
				zap.Int("message_id", prev.MessageID),
				zap.Error(err))
		}
	}

	s.logger.Info("reminder sent",
		zap.Int64("user_id", u.ID),
		zap.Int("due", payload.Due),
	)
	return true, nil
}
