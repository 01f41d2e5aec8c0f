package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/srs"
)

const (
	defaultMinSessionSize    = 10
	defaultRandomSessionSize = 20
)

// SessionConfig sizes assembled sessions.
type SessionConfig struct {
	MinSize    int // due words are padded with unseen words up to this size
	RandomSize int // size of a random session when nothing is due
}

// SessionBuilder selects the items of a practice session.
type SessionBuilder struct {
	content ContentRepository
	cfg     SessionConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSessionBuilder creates a SessionBuilder. A nil rng is seeded from the clock.
func NewSessionBuilder(content ContentRepository, cfg SessionConfig, rng *rand.Rand) *SessionBuilder {
	if cfg.MinSize <= 0 {
		cfg.MinSize = defaultMinSessionSize
	}
	if cfg.RandomSize <= 0 {
		cfg.RandomSize = defaultRandomSessionSize
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &SessionBuilder{
		content: content,
		cfg:     cfg,
		rng:     rng,
	}
}

// Vocabulary returns the words due now in random order, padded with unseen
// words when fewer than MinSize are due. When nothing is due it returns a
// random selection of RandomSize words.
func (b *SessionBuilder) Vocabulary(progress entities.ProgressMap, now time.Time) []string {
	due := b.filter(srs.DueItems(progress, now), b.content.IsWord)
	b.shuffle(due)

	if len(due) == 0 {
		all := b.content.WordIDs()
		b.shuffle(all)
		return all[:min(len(all), b.cfg.RandomSize)]
	}

	if len(due) < b.cfg.MinSize {
		candidates := b.content.WordIDs()
		b.shuffle(candidates)
		due = append(due, srs.Unseen(candidates, progress, b.cfg.MinSize-len(due))...)
	}

	return due
}

// Review returns the grammar exercises due now in random order.
func (b *SessionBuilder) Review(progress entities.ProgressMap, now time.Time) []string {
	due := b.filter(srs.DueItems(progress, now), b.content.IsExercise)
	b.shuffle(due)
	return due
}

// Lesson returns every exercise of a lesson in order.
func (b *SessionBuilder) Lesson(lessonID string) ([]string, error) {
	return b.content.LessonExerciseIDs(lessonID)
}

func (b *SessionBuilder) filter(ids []string, keep func(string) bool) []string {
	out := ids[:0]
	for _, id := range ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}

func (b *SessionBuilder) shuffle(ids []string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}
