package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

func TestChoiceCallbackRoundTrip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		itemID string
		index  int
	}{
		{name: "plain id", itemID: "g1", index: 2},
		{name: "id with colon", itemID: "l1:ex:3", index: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			data := buildChoiceCallback(tc.itemID, tc.index)
			itemID, index, ok := parseChoiceCallback(decodeCallback(data))

			assert.True(t, ok)
			assert.Equal(t, tc.itemID, itemID)
			assert.Equal(t, tc.index, index)
		})
	}
}

func TestParseChoiceCallbackRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, data := range []string{"choice", "choice:g1", "choice:g1:x", "choice:g1:-1", "skip:g1:1"} {
		_, _, ok := parseChoiceCallback(decodeCallback(data))
		assert.False(t, ok, data)
	}
}

func TestDecodeCallback(t *testing.T) {
	t.Parallel()

	cd := decodeCallback(buildLessonCallback("l2"))
	assert.Equal(t, actionPractice, cd.Action)
	assert.Equal(t, []string{string(entities.ModeLesson), "l2"}, cd.Params)

	cd = decodeCallback(buildProgressCallback())
	assert.Equal(t, actionProgress, cd.Action)
	assert.Empty(t, cd.Params)

	assert.Equal(t, "reset:confirm", buildResetConfirmCallback())
	assert.Equal(t, "practice:review", buildPracticeCallback(entities.ModeReview))
}
