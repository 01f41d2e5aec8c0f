package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		a, b     string
		expected int
	}{
		{name: "both empty", a: "", b: "", expected: 0},
		{name: "empty source", a: "", b: "abc", expected: 3},
		{name: "empty target", a: "abc", b: "", expected: 3},
		{name: "classic kitten", a: "kitten", b: "sitting", expected: 3},
		{name: "flaw to lawn", a: "flaw", b: "lawn", expected: 2},
		{name: "hangul substitution", a: "학셍", b: "학생", expected: 1},
		{name: "hangul insertion", a: "학생", b: "학생님", expected: 1},
		{name: "identical sentence", a: "저는 학생입니다", b: "저는 학생입니다", expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Distance(tc.a, tc.b))
		})
	}
}

func TestDistanceIsMetric(t *testing.T) {
	t.Parallel()

	samples := []string{"", "a", "ab", "abc", "학생", "학셍", "선생님", "안녕하세요", "안녕", "hello world", "저는 학생입니다"}

	for _, a := range samples {
		assert.Zero(t, Distance(a, a), "identity for %q", a)

		for _, b := range samples {
			dab := Distance(a, b)
			assert.Equal(t, dab, Distance(b, a), "symmetry for %q, %q", a, b)

			if a != b {
				assert.Positive(t, dab, "distinct strings %q, %q", a, b)
			}

			for _, c := range samples {
				assert.LessOrEqual(t, dab, Distance(a, c)+Distance(c, b),
					"triangle inequality for %q, %q via %q", a, b, c)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello world", Normalize("  Hello \t  World\n"))
	assert.Equal(t, "저는 학생입니다", Normalize(" 저는   학생입니다 "))
	assert.Equal(t, "", Normalize("   "))
}
