package ingestion

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// GoodQualityThreshold is the lowest score IsGoodQuality accepts.
const GoodQualityThreshold = 60

// resumeKeywords are words almost every resume contains somewhere.
var resumeKeywords = []string{
	"experience", "education", "skills", "work", "university",
	"college", "project", "email", "phone", "developer",
	"engineer", "manager", "bachelor", "master", "degree",
}

var (
	specialChar    = regexp.MustCompile(`[^\p{L}\p{N}\s.,;:()?!@+\-'"/\\_]`)
	capitalizedRun = regexp.MustCompile(`\p{Lu}\p{Ll}+`)
)

// Quality is a heuristic score of how usable extracted text is.
type Quality struct {
	Score         int      `json:"score"`
	Issues        []string `json:"issues"`
	IsGoodQuality bool     `json:"isGoodQuality"`
}

// AssessQuality scores text from 0 to 100, deducting for signs of a failed
// or partial extraction.
func AssessQuality(text string) Quality {
	q := Quality{Score: 100, Issues: []string{}}
	deduct := func(points int, issue string) {
		q.Score -= points
		q.Issues = append(q.Issues, issue)
	}

	length := utf8.RuneCountInString(text)
	switch {
	case length < 100:
		deduct(50, "Extracted text is too short (< 100 characters)")
	case length < 500:
		deduct(20, "Extracted text seems short for a resume")
	}

	lineCount := 0
	lineChars := 0
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lineCount++
			lineChars += utf8.RuneCountInString(l)
		}
	}
	if lineCount < 5 {
		deduct(20, "Very few lines extracted")
	}

	if len(strings.Fields(text)) < 50 {
		deduct(30, "Very few words extracted")
	}

	lower := strings.ToLower(text)
	found := 0
	for _, kw := range resumeKeywords {
		if strings.Contains(lower, kw) {
			found++
		}
	}
	switch {
	case found == 0:
		deduct(30, "No common resume keywords found")
	case found < 3:
		deduct(15, "Few resume keywords found")
	}

	if length > 0 {
		special := len(specialChar.FindAllStringIndex(text, -1))
		if float64(special)/float64(length) > 0.3 {
			deduct(25, "High ratio of special characters (possible extraction artifacts)")
		}
	}

	if !capitalizedRun.MatchString(text) {
		deduct(15, "No proper capitalization found")
	}

	if lineCount > 0 && lineChars/lineCount > 200 {
		deduct(10, "Very long lines (possible layout loss)")
	}

	if q.Score < 0 {
		q.Score = 0
	}
	q.IsGoodQuality = q.Score >= GoodQualityThreshold
	return q
}
