package structuring

import (
	"regexp"
	"strings"

	"github.com/kairoscv/resume-extractor/internal/normalize"
)

const dateToken = `(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?\s+\d{4}|\d{1,2}/\d{4}|\d{4}-\d{2}|(?:19|20)\d{2}|present|current|now)`

var (
	dateRangePattern = regexp.MustCompile(`(?i)\b` + dateToken + `\s*(?:-|–|—|to|until)\s*` + dateToken + `\b`)
	datePattern      = regexp.MustCompile(`(?i)\b` + dateToken + `\b`)
	separatorRun     = regexp.MustCompile(`\s*[|,·•]\s*[|,·•\s]*$|^\s*[|,·•]\s*`)
	emptyParens      = regexp.MustCompile(`\(\s*\)`)
)

// dateSpan is a date range pulled out of a line, plus what is left of the
// line without it.
type dateSpan struct {
	start string
	end   string
	rest  string
	found bool
	// single is true when the line held one date rather than a range.
	single bool
}

// extractDates finds a date range, or failing that a single date, in line.
// Dates come back normalized.
func extractDates(line string) dateSpan {
	if loc := dateRangePattern.FindStringIndex(line); loc != nil {
		tokens := datePattern.FindAllString(line[loc[0]:loc[1]], 2)
		span := dateSpan{found: true, rest: stripRemainder(line[:loc[0]] + " " + line[loc[1]:])}
		if len(tokens) == 2 {
			span.start = normalize.NormalizeDate(tokens[0])
			span.end = normalize.NormalizeDate(tokens[1])
		}
		return span
	}

	tokens := datePattern.FindAllString(line, -1)
	if len(tokens) == 0 {
		return dateSpan{rest: strings.TrimSpace(line)}
	}
	span := dateSpan{found: true, single: len(tokens) == 1}
	span.start = normalize.NormalizeDate(tokens[0])
	if len(tokens) > 1 {
		span.end = normalize.NormalizeDate(tokens[1])
		span.single = false
	}
	if span.single && span.start == normalize.Present {
		span.start, span.end = "", normalize.Present
	}
	span.rest = stripRemainder(datePattern.ReplaceAllString(line, " "))
	return span
}

// stripRemainder tidies what is left after dates are cut out of a line.
func stripRemainder(s string) string {
	s = emptyParens.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	for {
		trimmed := separatorRun.ReplaceAllString(s, "")
		trimmed = strings.TrimSpace(strings.Trim(trimmed, "-–— "))
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}
