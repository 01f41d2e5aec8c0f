// Package answer judges free-text answers with typo-tolerant string matching.
package answer

// Distance returns the Levenshtein distance between a and b: the minimum number
// of single-character insertions, deletions or substitutions turning a into b.
// Characters are Unicode code points, so a Hangul syllable counts as one.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	// table[j][i] holds the distance between the first i runes of a
	// and the first j runes of b.
	table := make([][]int, len(rb)+1)
	for j := range table {
		table[j] = make([]int, len(ra)+1)
		table[j][0] = j
	}
	for i := range table[0] {
		table[0][i] = i
	}

	for j := 1; j <= len(rb); j++ {
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			table[j][i] = min(
				table[j][i-1]+1,      // deletion
				table[j-1][i]+1,      // insertion
				table[j-1][i-1]+cost, // substitution
			)
		}
	}

	return table[len(rb)][len(ra)]
}
