package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

// statementColumns is the column set produced by PDF statement extraction.
// Already canonical; the normalizer only backfills the missing Category.
var statementColumns = []string{schema.ColDate, schema.ColName, schema.ColAmount, schema.ColType}

// currencyRe matches currency-shaped substrings: digits with optional
// thousands separators and exactly two decimal digits.
var currencyRe = regexp.MustCompile(`\b(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}\b`)

// Date grammars, probed in order of position within the line. The first
// date-shaped substring wins.
var dateRes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`),                                               // Y/M/D
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),                                             // D/M/Y
	regexp.MustCompile(`(?i)\b\d{1,2} (?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]* \d{2,4}\b`), // D Mon Y
	regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.? \d{1,2}\b`),  // Mon D
}

// incomeVocabulary marks descriptions that indicate money coming in.
var incomeVocabulary = []string{
	"deposit", "credit", "salary", "refund", "transfer in", "transfer-in",
}

// extractStatementLines turns free-text statement lines into transaction
// rows. Unparseable lines go to the error log, never silently dropped;
// extraction of the remaining document continues.
func extractStatementLines(lines []string, now time.Time) ([][]string, []LineError) {
	var rows [][]string
	var lineErrors []LineError

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if len(line) < 4 {
			continue // near-empty
		}
		if strings.Contains(strings.ToLower(line), "balance") {
			continue // summary lines, not transactions
		}

		currencyMatches := currencyRe.FindAllString(line, -1)
		if len(currencyMatches) == 0 {
			continue // cannot be a transaction
		}

		// Trailing totals are the transaction amount; an earlier match is
		// typically a running balance.
		amountText := currencyMatches[len(currencyMatches)-1]
		amount, err := strconv.ParseFloat(strings.ReplaceAll(amountText, ",", ""), 64)
		if err != nil {
			lineErrors = append(lineErrors, LineError{
				Line:    i + 1,
				Text:    line,
				Message: "unparseable amount " + amountText,
			})
			continue
		}

		dateMatch := firstDateMatch(line)
		date := dateMatch
		if date == "" {
			date = now.Format(schema.DateLayout)
		}

		description := line
		if dateMatch != "" {
			description = strings.Replace(description, dateMatch, " ", 1)
		}
		for _, m := range currencyMatches {
			description = strings.ReplaceAll(description, m, " ")
		}
		description = strings.Join(strings.Fields(description), " ")

		if description == "" {
			lineErrors = append(lineErrors, LineError{
				Line:    i + 1,
				Text:    line,
				Message: "no description left after stripping amounts",
			})
			continue
		}

		rows = append(rows, []string{
			date,
			description,
			strconv.FormatFloat(amount, 'f', 2, 64),
			classifyType(description),
		})
	}

	return rows, lineErrors
}

// firstDateMatch returns the earliest date-shaped substring in the line
// across all grammars, or "" when none matches.
func firstDateMatch(line string) string {
	bestIdx := -1
	best := ""
	for _, re := range dateRes {
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if bestIdx == -1 || loc[0] < bestIdx {
			bestIdx = loc[0]
			best = line[loc[0]:loc[1]]
		}
	}
	return best
}

// classifyType labels a statement description as income or expense based
// on the income-indicating vocabulary.
func classifyType(description string) string {
	lower := strings.ToLower(description)
	for _, word := range incomeVocabulary {
		if strings.Contains(lower, word) {
			return schema.TypeIncome
		}
	}
	return schema.TypeExpense
}
