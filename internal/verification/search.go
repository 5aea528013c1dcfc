package verification

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kairoscv/resume-extractor/internal/prompts"
	"github.com/kairoscv/resume-extractor/internal/structuring"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// Strategy is a way of looking for a missing value.
type Strategy string

const (
	StrategyLabels     Strategy = "labels"
	StrategyPatterns   Strategy = "patterns"
	StrategyContext    Strategy = "context"
	StrategyPeripheral Strategy = "peripheral"
)

// DefaultResearchPlan escalates from explicit labels and value shapes to
// context and the edges of the document. Entry i is used by attempt i+1.
var DefaultResearchPlan = [][]Strategy{
	{StrategyLabels, StrategyPatterns},
	{StrategyContext, StrategyPeripheral},
}

// peripheralLines is how many lines at each end of a document count as its
// periphery.
const peripheralLines = 8

// fieldLabels are the labels a value may follow, e.g. "Mobile: 555 ...".
var fieldLabels = map[string]string{
	"name":     `(?:full\s+)?name`,
	"email":    `e-?mail`,
	"phone":    `phone|mobile|cell|tel(?:ephone)?`,
	"location": `location|address|based in|city`,
	"linkedin": `linkedin`,
	"github":   `github`,
	"website":  `website|portfolio|web|site|blog`,
}

var labelPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(fieldLabels))
	for name, label := range fieldLabels {
		m[name] = regexp.MustCompile(`(?im)(?:^|[|•·]\s*)(?:` + label + `)\s*[:\-–]\s*([^|•·\n]+)`)
	}
	return m
}()

// strategyText renders the prompt instructions for one attempt.
func strategyText(field Field, strategies []Strategy) string {
	lines := make([]string, 0, len(strategies))
	for i, s := range strategies {
		template, err := prompts.Get("verification.json", "strategy-"+string(s))
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, prompts.Format(template, map[string]string{"Field": field.Name})))
	}
	return strings.Join(lines, "\n")
}

// localSearch runs the strategies that need no model. It returns "" when
// none of them finds a value.
func localSearch(field Field, strategies []Strategy, rawText string) string {
	for _, s := range strategies {
		var found string
		switch s {
		case StrategyLabels:
			found = labelSearch(field, rawText)
		case StrategyPatterns:
			found = contactValue(field, structuring.ScanContact(rawText))
		case StrategyPeripheral:
			found = contactValue(field, structuring.ScanContact(periphery(rawText)))
		}
		if found != "" {
			return found
		}
	}
	return ""
}

func labelSearch(field Field, rawText string) string {
	re, ok := labelPatterns[field.Name]
	if !ok {
		return ""
	}
	m := re.FindStringSubmatch(rawText)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func contactValue(field Field, c types.Contact) string {
	return strings.TrimSpace(field.Get(&c))
}

// periphery returns the first and last few lines of text, where signatures
// and footers live.
func periphery(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) <= 2*peripheralLines {
		return strings.Join(lines, "\n")
	}
	head := lines[:peripheralLines]
	tail := lines[len(lines)-peripheralLines:]
	return strings.Join(head, "\n") + "\n" + strings.Join(tail, "\n")
}

// excerpt cuts text to at most n runes.
func excerpt(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
