package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/repository"
	"github.com/aliskhannn/korean-tutor-bot/internal/worker"
)

var testNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

var errBackendDown = errors.New("backend down")

// memBackend is an in-memory ProgressBackend.
type memBackend struct {
	mu      sync.Mutex
	data    entities.ProgressMap
	saves   int
	loadErr error
	saveErr error
}

func newMemBackend(data entities.ProgressMap) *memBackend {
	if data == nil {
		data = entities.ProgressMap{}
	}
	return &memBackend{data: data}
}

func (b *memBackend) Load(context.Context) (entities.ProgressMap, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.data.Clone(), nil
}

func (b *memBackend) Save(_ context.Context, progress entities.ProgressMap) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.saveErr != nil {
		return b.saveErr
	}
	for k, v := range progress {
		b.data[k] = v
	}
	b.saves++
	return nil
}

func (b *memBackend) Clear(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = entities.ProgressMap{}
	return nil
}

func (b *memBackend) snapshot() entities.ProgressMap {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data.Clone()
}

// startPool runs a worker pool for the duration of the test.
func startPool(t *testing.T) *worker.Queue {
	t.Helper()

	log := zap.NewNop()
	queue := worker.NewQueue(16, log)
	pool := worker.NewPool(queue, worker.PoolConfig{Workers: 2, TaskTimeout: time.Second}, log)
	pool.Start()

	t.Cleanup(func() {
		queue.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool.Stop(ctx)
	})

	return queue
}

func newTestProgressService(backends map[int64]*memBackend, queue worker.QueueWriter) *ProgressService {
	s := NewProgressService(func(userID int64) repository.ProgressBackend {
		if b, ok := backends[userID]; ok {
			return b
		}
		return nil
	}, queue, zap.NewNop())
	s.now = fixedClock
	return s
}

func testContent(t *testing.T) *repository.ContentRepository {
	t.Helper()

	words := []entities.Word{
		{ID: "w1", Korean: "안녕하세요", English: "hello", Chapter: 1, Category: "greetings"},
		{ID: "w2", Korean: "학생", English: "student", Chapter: 1, Category: "people"},
		{ID: "w3", Korean: "선생님", English: "teacher", Chapter: 1, Category: "people"},
		{ID: "w4", Korean: "감사합니다", English: "thank you", Chapter: 1, Category: "greetings"},
	}
	lessons := []entities.Lesson{
		{ID: "l1", Title: "Topic particles", Chapter: 1},
	}
	exercises := []entities.Exercise{
		{
			ID: "g1", LessonID: "l1", Instruction: "Choose the particle",
			Payload: &entities.MultipleChoice{Question: "저___ 학생입니다", Options: []string{"는", "은", "이"}, CorrectIndex: 0},
		},
		{
			ID: "g2", LessonID: "l1", Instruction: "Fill in the blank",
			Payload: &entities.FillInBlank{Sentence: "저{blank} 학생입니다", CorrectAnswer: "는", AcceptableAnswers: []string{"은"}},
		},
		{
			ID: "g3", LessonID: "l1", Instruction: "Build the sentence",
			Payload: &entities.SentenceBuilding{Words: []string{"학생입니다", "저는"}, CorrectOrder: []int{1, 0}, EnglishPrompt: "I am a student"},
		},
	}

	repo, err := repository.NewContentRepository(words, lessons, exercises)
	require.NoError(t, err)
	return repo
}

func dueRecord(itemID string, level int) entities.ProgressRecord {
	return entities.ProgressRecord{
		ItemID:     itemID,
		Level:      level,
		NextReview: testNow.Add(-time.Hour),
	}
}

func laterRecord(itemID string, level int) entities.ProgressRecord {
	return entities.ProgressRecord{
		ItemID:     itemID,
		Level:      level,
		NextReview: testNow.AddDate(0, 0, 3),
	}
}
