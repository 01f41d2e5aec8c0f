package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/answer"
	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/storage"
)

const testUserID int64 = 7

type practiceFixture struct {
	svc      *PracticeService
	progress *ProgressService
	backend  *memBackend
}

func newPracticeFixture(t *testing.T, initial entities.ProgressMap) practiceFixture {
	t.Helper()

	content := testContent(t)
	backend := newMemBackend(initial)
	progress := newTestProgressService(map[int64]*memBackend{testUserID: backend}, startPool(t))
	builder := NewSessionBuilder(content, SessionConfig{MinSize: 2, RandomSize: 2}, rand.New(rand.NewSource(1)))

	svc := NewPracticeService(content, progress, storage.NewSessionStorage(), builder, answer.NewValidator(), zap.NewNop())
	svc.now = fixedClock

	return practiceFixture{svc: svc, progress: progress, backend: backend}
}

func TestPracticeService_VocabularySession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPracticeFixture(t, entities.ProgressMap{"w2": dueRecord("w2", 2)})

	session, err := f.svc.Start(ctx, testUserID, entities.ModeVocabulary, "")
	require.NoError(t, err)
	require.Len(t, session.ItemIDs, 2)
	assert.Equal(t, "w2", session.ItemIDs[0])
	assert.NotEmpty(t, session.ID)

	q, err := f.svc.CurrentQuestion(testUserID)
	require.NoError(t, err)
	assert.Equal(t, entities.QuestionVocabulary, q.Kind)
	assert.Equal(t, "student", q.Prompt)
	assert.Equal(t, 1, q.Number)
	assert.Equal(t, 2, q.Total)

	// An empty answer is neither recorded nor advances the session.
	out, err := f.svc.SubmitText(ctx, testUserID, "   ")
	require.NoError(t, err)
	assert.False(t, out.Recorded)
	assert.Equal(t, "Please type your answer", out.Result.Feedback)
	assert.Equal(t, 0, out.Session.Position)

	// One typo is forgiven.
	out, err = f.svc.SubmitText(ctx, testUserID, "학셍")
	require.NoError(t, err)
	assert.True(t, out.Recorded)
	assert.True(t, out.Result.Correct)
	assert.Equal(t, entities.ConfidenceClose, out.Result.Confidence)
	assert.Equal(t, 3, out.Record.Level)
	assert.False(t, out.Finished)

	out, err = f.svc.Skip(ctx, testUserID)
	require.NoError(t, err)
	assert.False(t, out.Result.Correct)
	assert.True(t, out.Finished)
	assert.Equal(t, 0, out.Record.Level)
	assert.Equal(t, 1, out.Session.CorrectAnswers)
	assert.Equal(t, entities.StatusCompleted, out.Session.Status)

	_, err = f.svc.CurrentQuestion(testUserID)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	require.NoError(t, f.progress.Flush(ctx))
	stored := f.backend.snapshot()
	assert.Equal(t, 3, stored["w2"].Level)
	assert.Len(t, stored, 2)
}

func TestPracticeService_LessonSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPracticeFixture(t, nil)

	session, err := f.svc.Start(ctx, testUserID, entities.ModeLesson, "l1")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2", "g3"}, session.ItemIDs)

	q, err := f.svc.CurrentQuestion(testUserID)
	require.NoError(t, err)
	assert.Equal(t, entities.QuestionMultipleChoice, q.Kind)
	assert.Equal(t, []string{"는", "은", "이"}, q.Options)

	// Typed text does not answer a multiple choice question.
	_, err = f.svc.SubmitText(ctx, testUserID, "는")
	assert.ErrorIs(t, err, ErrWrongAnswerKind)

	_, err = f.svc.SubmitChoice(ctx, testUserID, "g2", 0)
	assert.ErrorIs(t, err, ErrStaleQuestion)

	out, err := f.svc.SubmitChoice(ctx, testUserID, "g1", 0)
	require.NoError(t, err)
	assert.True(t, out.Result.Correct)
	assert.Equal(t, "l1", out.Record.LessonID)

	q, err = f.svc.CurrentQuestion(testUserID)
	require.NoError(t, err)
	assert.Equal(t, "저___ 학생입니다", q.Prompt)

	out, err = f.svc.SubmitText(ctx, testUserID, "은")
	require.NoError(t, err)
	assert.True(t, out.Result.Correct)
	assert.Equal(t, entities.ConfidenceExact, out.Result.Confidence)

	_, err = f.svc.SubmitText(ctx, testUserID, "1 1")
	assert.ErrorIs(t, err, ErrInvalidOrder)

	out, err = f.svc.SubmitText(ctx, testUserID, "2 1")
	require.NoError(t, err)
	assert.True(t, out.Result.Correct)
	assert.True(t, out.Finished)
	assert.Equal(t, 3, out.Stars)

	lesson := f.progress.Tracker(testUserID).Progress(ctx)["lesson:l1"]
	assert.True(t, lesson.Completed)
	assert.Equal(t, 100, lesson.LessonAccuracy)
}

func TestPracticeService_WrongFillInBlankHasDiff(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPracticeFixture(t, entities.ProgressMap{"g2": dueRecord("g2", 1)})

	_, err := f.svc.Start(ctx, testUserID, entities.ModeReview, "")
	require.NoError(t, err)

	out, err := f.svc.SubmitText(ctx, testUserID, "이가")
	require.NoError(t, err)
	assert.False(t, out.Result.Correct)
	assert.Equal(t, []answer.CharDiff{
		{Char: "는", Status: answer.CharWrong},
		{Char: "가", Status: answer.CharWrong},
	}, out.Diff)
	assert.True(t, out.Finished)
	assert.Zero(t, out.Stars)
}

func TestPracticeService_NoItems(t *testing.T) {
	t.Parallel()

	f := newPracticeFixture(t, nil)

	_, err := f.svc.Start(context.Background(), testUserID, entities.ModeReview, "")
	assert.ErrorIs(t, err, ErrNoItemsAvailable)

	_, err = f.svc.Start(context.Background(), testUserID, entities.ModeLesson, "missing")
	assert.Error(t, err)
}

func TestPracticeService_Stop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPracticeFixture(t, nil)

	_, err := f.svc.Stop(testUserID)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = f.svc.Start(ctx, testUserID, entities.ModeVocabulary, "")
	require.NoError(t, err)

	session, err := f.svc.Stop(testUserID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusAbandoned, session.Status)

	_, err = f.svc.Skip(ctx, testUserID)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestParseOrder(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		text    string
		n       int
		want    []int
		wantErr bool
	}{
		{name: "spaces", text: "3 1 2", n: 3, want: []int{2, 0, 1}},
		{name: "commas", text: "2,1", n: 2, want: []int{1, 0}},
		{name: "mixed separators", text: " 1, 2  3 ", n: 3, want: []int{0, 1, 2}},
		{name: "too few", text: "1 2", n: 3, wantErr: true},
		{name: "out of range", text: "1 4 2", n: 3, wantErr: true},
		{name: "repeated", text: "1 1", n: 2, wantErr: true},
		{name: "not a number", text: "a b", n: 2, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseOrder(tc.text, tc.n)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOrder)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
