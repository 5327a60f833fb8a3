package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	t.Run("exact match scores 100", func(t *testing.T) {
		assert.Equal(t, 100, Score("amount", "amount"))
		assert.Equal(t, 100, Score("Amount", "amount"))
	})

	t.Run("containment scores high", func(t *testing.T) {
		score := Score("txn date", "date")
		assert.GreaterOrEqual(t, score, 75)
	})

	t.Run("abbreviation clears the normalizer threshold", func(t *testing.T) {
		score := Score("amt", "amount")
		assert.GreaterOrEqual(t, score, 70)
	})

	t.Run("unrelated strings score low", func(t *testing.T) {
		assert.Less(t, Score("zebra", "amount"), 50)
	})

	t.Run("accidental subsequence does not count as abbreviation", func(t *testing.T) {
		// "cat" is an in-order subsequence of "merchant" but no abbreviation
		// of it.
		assert.Less(t, Score("cat", "merchant"), 70)
	})

	t.Run("empty strings score zero", func(t *testing.T) {
		assert.Equal(t, 0, Score("", "amount"))
		assert.Equal(t, 0, Score("amount", ""))
	})
}

func TestRatio(t *testing.T) {
	t.Run("is symmetric", func(t *testing.T) {
		pairs := [][2]string{
			{"starbucks 4.5", "starbucks 4.50"},
			{"coffee shop", "coffe shop"},
			{"a", "abcdef"},
		}
		for _, p := range pairs {
			assert.Equal(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), "pair %v", p)
		}
	})

	t.Run("case-insensitive identical strings score 100", func(t *testing.T) {
		assert.Equal(t, 100, Ratio("Starbucks 4.5", "starbucks 4.5"))
	})

	t.Run("single edit on long string stays high", func(t *testing.T) {
		assert.GreaterOrEqual(t, Ratio("grocery store purchase", "grocery store purchases"), 90)
	})
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("abc", "abc"))
	assert.Equal(t, 3, levenshteinDistance("", "abc"))
	assert.Equal(t, 1, levenshteinDistance("kitten", "mitten"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}
