package answer

import (
	"fmt"
	"math"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

// Feedback messages.
const (
	msgExact      = "Perfect! ✨"
	msgEmpty      = "Please type your answer"
	msgMinorTypo  = "Correct! (minor typo) ✓"
	msgNoAnswers  = "There is no accepted answer for this question"
	fmtCloseWrong = "Close! Check your spelling. Expected: %s"
	fmtWrong      = "Not quite. The answer is: %s"
	msgCorrect    = "Correct!"
	fmtIncorrect  = "Incorrect. Correct answer: %s"
)

const (
	defaultTypoRatio       = 0.15
	defaultCloseSimilarity = 50
)

// Validator validates user answers with fuzzy matching support.
type Validator struct {
	allowTypos      bool    // accept answers within the typo threshold
	typoRatio       float64 // share of the correct answer's length forgiven as typos
	closeSimilarity int     // similarity (percent) above which a wrong answer is "close"
}

// Option configures a Validator.
type Option func(*Validator)

// WithTypos enables or disables typo tolerance.
func WithTypos(allow bool) Option {
	return func(v *Validator) {
		v.allowTypos = allow
	}
}

// NewValidator creates a Validator. Typo tolerance is enabled by default.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		allowTypos:      true,
		typoRatio:       defaultTypoRatio,
		closeSimilarity: defaultCloseSimilarity,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// Validate checks userAnswer against correctAnswer with the default validator.
func Validate(userAnswer, correctAnswer string) entities.ValidationResult {
	return defaultValidator.Validate(userAnswer, correctAnswer)
}

// ValidateAny checks userAnswer against several accepted answers with the default validator.
func ValidateAny(userAnswer string, answers []string) entities.ValidationResult {
	return defaultValidator.ValidateAny(userAnswer, answers)
}

// Threshold returns how many edits are forgiven for a correct answer of n characters.
func (v *Validator) Threshold(n int) int {
	return max(1, int(math.Floor(float64(n)*v.typoRatio)))
}

// Validate classifies userAnswer as exact, close or wrong relative to correctAnswer.
func (v *Validator) Validate(userAnswer, correctAnswer string) entities.ValidationResult {
	user := Normalize(userAnswer)
	correct := Normalize(correctAnswer)

	if user == correct {
		return entities.ValidationResult{
			Correct:    true,
			Confidence: entities.ConfidenceExact,
			Feedback:   msgExact,
			Similarity: 100,
			Expected:   correctAnswer,
		}
	}

	if user == "" {
		return entities.ValidationResult{
			Correct:    false,
			Confidence: entities.ConfidenceWrong,
			Feedback:   msgEmpty,
			Distance:   runeLen(correct),
			Expected:   correctAnswer,
		}
	}

	distance := Distance(user, correct)
	similarity := similarityPercent(distance, runeLen(user), runeLen(correct))

	if v.allowTypos && distance <= v.Threshold(runeLen(correct)) {
		return entities.ValidationResult{
			Correct:    true,
			Confidence: entities.ConfidenceClose,
			Feedback:   msgMinorTypo,
			Distance:   distance,
			Similarity: similarity,
			Expected:   correctAnswer,
		}
	}

	feedback := fmt.Sprintf(fmtWrong, correctAnswer)
	if similarity > v.closeSimilarity {
		feedback = fmt.Sprintf(fmtCloseWrong, correctAnswer)
	}

	return entities.ValidationResult{
		Correct:    false,
		Confidence: entities.ConfidenceWrong,
		Feedback:   feedback,
		Distance:   distance,
		Similarity: similarity,
		Expected:   correctAnswer,
	}
}

// ValidateAny validates userAnswer against every accepted answer and returns
// the best verdict: an exact match first, then the closest accepted typo,
// then the least wrong answer. Ties keep the earlier answer, so the canonical
// answer should come first.
func (v *Validator) ValidateAny(userAnswer string, answers []string) entities.ValidationResult {
	if len(answers) == 0 {
		return entities.ValidationResult{
			Correct:    false,
			Confidence: entities.ConfidenceWrong,
			Feedback:   msgNoAnswers,
		}
	}

	best := v.Validate(userAnswer, answers[0])
	for _, candidate := range answers[1:] {
		res := v.Validate(userAnswer, candidate)
		if better(res, best) {
			best = res
		}
	}

	return best
}

func better(a, b entities.ValidationResult) bool {
	if ra, rb := rank(a.Confidence), rank(b.Confidence); ra != rb {
		return ra > rb
	}
	if a.Similarity != b.Similarity {
		return a.Similarity > b.Similarity
	}
	return a.Distance < b.Distance
}

func rank(c entities.Confidence) int {
	switch c {
	case entities.ConfidenceExact:
		return 2
	case entities.ConfidenceClose:
		return 1
	default:
		return 0
	}
}

// similarityPercent returns round((1 - distance/max(lenA, lenB)) * 100).
func similarityPercent(distance, lenA, lenB int) int {
	longest := max(lenA, lenB)
	if longest == 0 {
		return 100
	}
	return int(math.Round((1 - float64(distance)/float64(longest)) * 100))
}

// ExactResult builds the verdict for answers compared without fuzziness, such
// as a chosen option or a word order.
func ExactResult(correct bool, expected string) entities.ValidationResult {
	if correct {
		return entities.ValidationResult{
			Correct:    true,
			Confidence: entities.ConfidenceExact,
			Feedback:   msgCorrect,
			Similarity: 100,
			Expected:   expected,
		}
	}
	return entities.ValidationResult{
		Correct:    false,
		Confidence: entities.ConfidenceWrong,
		Feedback:   fmt.Sprintf(fmtIncorrect, expected),
		Expected:   expected,
	}
}
