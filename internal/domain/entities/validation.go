package entities

// Confidence classifies how closely an answer matched.
type Confidence string

const (
	ConfidenceExact Confidence = "exact" // identical after normalization
	ConfidenceClose Confidence = "close" // accepted with a minor typo
	ConfidenceWrong Confidence = "wrong"
)

// ValidationResult is the verdict for one submitted answer. It is never persisted.
type ValidationResult struct {
	Correct    bool
	Confidence Confidence
	Feedback   string

	// Distance and Similarity describe the best comparison made, for ranking
	// results across several acceptable answers.
	Distance   int
	Similarity int // percent, 0-100
	Expected   string
}
