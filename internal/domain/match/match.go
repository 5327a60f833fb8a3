// Package match provides string similarity scoring shared by the column
// normalizer and the duplicate detector. Scores are on a 0-100 scale where
// 100 is an exact match.
package match

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Score calculates a similarity score between two strings (0-100).
// It combines containment checks, subsequence matching, and Levenshtein
// distance, which catches abbreviated column names like "amt" vs "amount".
func Score(s1, s2 string) int {
	s1 = strings.ToLower(strings.TrimSpace(s1))
	s2 = strings.ToLower(strings.TrimSpace(s2))

	if s1 == s2 {
		return 100
	}
	if s1 == "" || s2 == "" {
		return 0
	}

	// One string containing the other is a strong signal; score by how much
	// of the longer string is covered.
	if strings.Contains(s1, s2) {
		return 75 + (25 * len(s2) / len(s1))
	}
	if strings.Contains(s2, s1) {
		return 75 + (25 * len(s1) / len(s2))
	}

	short, long := s1, s2
	if len(short) > len(long) {
		short, long = long, short
	}

	// Abbreviations: the shorter name appearing as an in-order subsequence
	// of the longer ("amt" in "amount"). Abbreviations keep their first
	// letter, which rules out accidental subsequences like "cat" in
	// "merchant".
	subsequenceScore := 0
	if short[0] == long[0] && fuzzy.Match(short, long) {
		subsequenceScore = 60 + (40 * len(short) / len(long))
	}

	if lev := Ratio(s1, s2); lev > subsequenceScore {
		return lev
	}
	return subsequenceScore
}

// Ratio is a normalized edit-distance ratio between two strings (0-100).
// Unlike Score it is symmetric, which the duplicate detector relies on.
func Ratio(s1, s2 string) int {
	s1 = strings.ToLower(s1)
	s2 = strings.ToLower(s2)

	if s1 == s2 {
		return 100
	}

	maxLen := len([]rune(s1))
	if l := len([]rune(s2)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 100
	}

	distance := levenshteinDistance(s1, s2)
	return 100 * (maxLen - distance) / maxLen
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len([]rune(s2))
	}
	if len(s2) == 0 {
		return len([]rune(s1))
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	lenR1 := len(r1)
	lenR2 := len(r2)

	// Two rows instead of the full matrix.
	prev := make([]int, lenR2+1)
	curr := make([]int, lenR2+1)

	for j := 0; j <= lenR2; j++ {
		prev[j] = j
	}

	for i := 1; i <= lenR1; i++ {
		curr[0] = i
		for j := 1; j <= lenR2; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[lenR2]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
