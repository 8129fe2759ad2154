package engine

import "bank-matching-service/internal/models"

// StringSimilarity returns a 0-100 similarity between two labels based on
// Levenshtein edit distance over the normalized forms. Two empty labels are
// considered identical.
func StringSimilarity(a, b string) float64 {
	s1 := models.NormalizeText(a)
	s2 := models.NormalizeText(b)

	if s1 == s2 {
		return 100.0
	}

	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	if maxLen == 0 {
		return 100.0
	}

	distance := levenshteinDistance(s1, s2)
	return (1.0 - float64(distance)/float64(maxLen)) * 100.0
}

// levenshteinDistance computes the edit distance between two strings using
// two rolling rows instead of the full matrix.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)

	for j := 0; j <= len(r2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			deletion := prev[j] + 1
			insertion := curr[j-1] + 1
			substitution := prev[j-1] + cost

			min := deletion
			if insertion < min {
				min = insertion
			}
			if substitution < min {
				min = substitution
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
