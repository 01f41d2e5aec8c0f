package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		user       string
		correct    string
		opts       []Option
		wantOK     bool
		wantConf   entities.Confidence
		wantReason string
	}{
		{
			name:       "exact match",
			user:       "학생",
			correct:    "학생",
			wantOK:     true,
			wantConf:   entities.ConfidenceExact,
			wantReason: msgExact,
		},
		{
			name:       "exact after normalization",
			user:       "  Thank   YOU ",
			correct:    "thank you",
			wantOK:     true,
			wantConf:   entities.ConfidenceExact,
			wantReason: msgExact,
		},
		{
			name:       "one typo in a two character word is forgiven",
			user:       "학셍",
			correct:    "학생",
			wantOK:     true,
			wantConf:   entities.ConfidenceClose,
			wantReason: msgMinorTypo,
		},
		{
			name:       "typo rejected when tolerance is off",
			user:       "학셍",
			correct:    "학생",
			opts:       []Option{WithTypos(false)},
			wantOK:     false,
			wantConf:   entities.ConfidenceWrong,
			wantReason: "Not quite. The answer is: 학생",
		},
		{
			name:       "empty answer",
			user:       "",
			correct:    "학생",
			wantOK:     false,
			wantConf:   entities.ConfidenceWrong,
			wantReason: msgEmpty,
		},
		{
			name:       "whitespace only answer",
			user:       "   ",
			correct:    "학생",
			wantOK:     false,
			wantConf:   entities.ConfidenceWrong,
			wantReason: msgEmpty,
		},
		{
			name:       "two typos in a fifteen character sentence",
			user:       "안녕하세오 만나서 반갑숩니다",
			correct:    "안녕하세요 만나서 반갑습니다",
			wantOK:     true,
			wantConf:   entities.ConfidenceClose,
			wantReason: msgMinorTypo,
		},
		{
			name:       "three typos are too many but still close",
			user:       "안녕하세오 만나서 반갑숩니댜",
			correct:    "안녕하세요 만나서 반갑습니다",
			wantOK:     false,
			wantConf:   entities.ConfidenceWrong,
			wantReason: "Close! Check your spelling. Expected: 안녕하세요 만나서 반갑습니다",
		},
		{
			name:       "unrelated answer",
			user:       "사과",
			correct:    "학생",
			wantOK:     false,
			wantConf:   entities.ConfidenceWrong,
			wantReason: "Not quite. The answer is: 학생",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res := NewValidator(tc.opts...).Validate(tc.user, tc.correct)
			assert.Equal(t, tc.wantOK, res.Correct)
			assert.Equal(t, tc.wantConf, res.Confidence)
			assert.Equal(t, tc.wantReason, res.Feedback)
		})
	}
}

func TestValidateSimilarity(t *testing.T) {
	t.Parallel()

	res := Validate("안녕하세오 만나서 반갑숩니댜", "안녕하세요 만나서 반갑습니다")
	assert.Equal(t, 3, res.Distance)
	assert.Equal(t, 80, res.Similarity)
}

func TestThreshold(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	assert.Equal(t, 1, v.Threshold(0))
	assert.Equal(t, 1, v.Threshold(2))
	assert.Equal(t, 1, v.Threshold(13))
	assert.Equal(t, 2, v.Threshold(14))
	assert.Equal(t, 3, v.Threshold(20))
	assert.Equal(t, 6, v.Threshold(40))
}

func TestValidateAny(t *testing.T) {
	t.Parallel()

	t.Run("exact match on an alternate", func(t *testing.T) {
		t.Parallel()

		res := ValidateAny("는", []string{"은", "는"})
		assert.True(t, res.Correct)
		assert.Equal(t, entities.ConfidenceExact, res.Confidence)
		assert.Equal(t, "는", res.Expected)
	})

	t.Run("typo accepted against the closest answer", func(t *testing.T) {
		t.Parallel()

		res := ValidateAny("학셍", []string{"선생님", "학생"})
		assert.True(t, res.Correct)
		assert.Equal(t, entities.ConfidenceClose, res.Confidence)
		assert.Equal(t, "학생", res.Expected)
	})

	t.Run("exact beats close", func(t *testing.T) {
		t.Parallel()

		res := ValidateAny("학생", []string{"학샘", "학생"})
		assert.Equal(t, entities.ConfidenceExact, res.Confidence)
	})

	t.Run("least wrong answer reported", func(t *testing.T) {
		t.Parallel()

		res := ValidateAny("안녕하", []string{"감사합니다", "안녕하세요"})
		assert.False(t, res.Correct)
		assert.Equal(t, "안녕하세요", res.Expected)
		assert.Equal(t, "Close! Check your spelling. Expected: 안녕하세요", res.Feedback)
	})

	t.Run("no answers", func(t *testing.T) {
		t.Parallel()

		res := ValidateAny("학생", nil)
		assert.False(t, res.Correct)
		assert.Equal(t, entities.ConfidenceWrong, res.Confidence)
	})
}

func TestHighlightDifferences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []CharDiff{
		{Char: "a", Status: CharCorrect},
		{Char: "b", Status: CharCorrect},
		{Char: "c", Status: CharWrong},
	}, HighlightDifferences("abd", "abc"))

	assert.Equal(t, []CharDiff{
		{Char: "학", Status: CharCorrect},
		{Char: "생", Status: CharMissing},
	}, HighlightDifferences("학", "학생"))

	assert.Equal(t, []CharDiff{
		{Char: "학", Status: CharCorrect},
		{Char: "생", Status: CharCorrect},
		{Char: "님", Status: CharWrong},
	}, HighlightDifferences("학생님", "학생"))

	assert.Empty(t, HighlightDifferences("", ""))
}

func TestOrderMatches(t *testing.T) {
	t.Parallel()

	assert.True(t, OrderMatches([]int{0, 1, 2, 3}, []int{0, 1, 2, 3}))
	assert.False(t, OrderMatches([]int{1, 0, 2, 3}, []int{0, 1, 2, 3}))
	assert.False(t, OrderMatches([]int{0, 1, 2}, []int{0, 1, 2, 3}))
	assert.False(t, OrderMatches(nil, nil))
}

func TestExactResult(t *testing.T) {
	t.Parallel()

	ok := ExactResult(true, "는")
	assert.True(t, ok.Correct)
	assert.Equal(t, entities.ConfidenceExact, ok.Confidence)
	assert.Equal(t, "Correct!", ok.Feedback)

	bad := ExactResult(false, "저는 학생입니다")
	assert.False(t, bad.Correct)
	assert.Equal(t, entities.ConfidenceWrong, bad.Confidence)
	assert.Equal(t, "Incorrect. Correct answer: 저는 학생입니다", bad.Feedback)
}
