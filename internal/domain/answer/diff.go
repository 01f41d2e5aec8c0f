package answer

import "slices"

// CharStatus marks one position of a highlighted answer.
type CharStatus string

const (
	CharCorrect CharStatus = "correct" // same character at this position
	CharWrong   CharStatus = "wrong"   // different or extra character
	CharMissing CharStatus = "missing" // the user's answer is too short here
)

// CharDiff is one highlighted position.
type CharDiff struct {
	Char   string
	Status CharStatus
}

// HighlightDifferences compares the answers position by position.
// A wrong position shows the expected character, an extra position shows the
// user's character and a missing one shows the expected character.
func HighlightDifferences(userAnswer, correctAnswer string) []CharDiff {
	user := []rune(userAnswer)
	correct := []rune(correctAnswer)

	n := max(len(user), len(correct))
	out := make([]CharDiff, 0, n)

	for i := 0; i < n; i++ {
		var u, c rune
		if i < len(user) {
			u = user[i]
		}
		if i < len(correct) {
			c = correct[i]
		}

		switch {
		case u == c:
			out = append(out, CharDiff{Char: string(u), Status: CharCorrect})
		case i >= len(correct):
			out = append(out, CharDiff{Char: string(u), Status: CharWrong})
		case i >= len(user):
			out = append(out, CharDiff{Char: string(c), Status: CharMissing})
		default:
			out = append(out, CharDiff{Char: string(c), Status: CharWrong})
		}
	}

	return out
}

// OrderMatches reports whether the selected word order equals the correct one.
// Sentence building has no partial credit.
func OrderMatches(selected, correctOrder []int) bool {
	return len(correctOrder) > 0 && slices.Equal(selected, correctOrder)
}
