// Package dedupe flags transaction pairs that are likely the same purchase
// recorded twice. Detection is advisory: pairs are reported with their
// similarity so the user decides what to remove.
package dedupe

import (
	"sort"
	"strconv"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/match"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

// DefaultMaxRows bounds the pairwise scan. Comparison cost is quadratic,
// so very large tables are scanned only up to this many rows and the
// result is marked truncated.
const DefaultMaxRows = 1000

// DefaultThreshold is the similarity (0-100) above which a pair is
// reported.
const DefaultThreshold = 90

// Pair is one candidate duplicate: two row indices into the scanned table
// with their fingerprints and similarity.
type Pair struct {
	Index1       int    `json:"index_1"`
	Index2       int    `json:"index_2"`
	Fingerprint1 string `json:"fingerprint_1"`
	Fingerprint2 string `json:"fingerprint_2"`
	Similarity   int    `json:"similarity"`
	Date1        string `json:"date_1"`
	Date2        string `json:"date_2"`
}

// Result is the outcome of a duplicate scan.
type Result struct {
	Pairs     []Pair `json:"pairs"`
	Scanned   int    `json:"scanned"`
	Truncated bool   `json:"truncated"`
}

// Detect scans the records pairwise and reports pairs whose Name+Amount
// fingerprints are at least threshold similar, most similar first.
// maxRows <= 0 means DefaultMaxRows; threshold <= 0 means DefaultThreshold.
func Detect(records []schema.Record, threshold, maxRows int) Result {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	result := Result{Scanned: len(records)}
	if result.Scanned > maxRows {
		result.Scanned = maxRows
		result.Truncated = true
	}
	if result.Scanned < 2 {
		return result
	}

	fingerprints := make([]string, result.Scanned)
	for i := 0; i < result.Scanned; i++ {
		fingerprints[i] = fingerprint(records[i])
	}

	for i := 0; i < result.Scanned; i++ {
		for j := i + 1; j < result.Scanned; j++ {
			similarity := match.Ratio(fingerprints[i], fingerprints[j])
			if similarity < threshold {
				continue
			}
			result.Pairs = append(result.Pairs, Pair{
				Index1:       i,
				Index2:       j,
				Fingerprint1: fingerprints[i],
				Fingerprint2: fingerprints[j],
				Similarity:   similarity,
				Date1:        records[i].Date,
				Date2:        records[j].Date,
			})
		}
	}

	sort.SliceStable(result.Pairs, func(a, b int) bool {
		return result.Pairs[a].Similarity > result.Pairs[b].Similarity
	})
	return result
}

func fingerprint(r schema.Record) string {
	return r.Name + " " + strconv.FormatFloat(r.Amount, 'f', -1, 64)
}
