// Package similarity scores how close two strings are, for fuzzy duplicate
// detection and cross-source matching.
package similarity

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// Tunable thresholds. Both were tuned empirically and are not known to be
// optimal.
const (
	// DuplicateThreshold is the score at or above which two values are
	// treated as the same entity.
	DuplicateThreshold = 0.85
	// AgreementThreshold is the score at or above which two independent
	// extractions are considered to agree, so the cheaper one is trusted.
	AgreementThreshold = 0.95
)

// Canonical lowercases s and removes every character that is not a letter
// or a digit.
func Canonical(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Score returns 1 - levenshtein(a, b) / max(len(a), len(b)) over the
// canonical forms of a and b. The result is symmetric and in [0, 1]; two
// empty strings score 1.
func Score(a, b string) float64 {
	ca, cb := Canonical(a), Canonical(b)
	maxLen := max(len([]rune(ca)), len([]rune(cb)))
	if maxLen == 0 {
		return 1.0
	}
	if ca == cb {
		return 1.0
	}
	dist := levenshtein.Distance(ca, cb, nil)
	return 1.0 - float64(dist)/float64(maxLen)
}

// IsDuplicate reports whether a and b score at or above DuplicateThreshold.
func IsDuplicate(a, b string) bool {
	return Score(a, b) >= DuplicateThreshold
}

// Agree reports whether a and b score at or above AgreementThreshold.
func Agree(a, b string) bool {
	return Score(a, b) >= AgreementThreshold
}

// Contains reports whether either canonical form contains the other. Both
// sides must be non-empty.
func Contains(a, b string) bool {
	ca, cb := Canonical(a), Canonical(b)
	if ca == "" || cb == "" {
		return false
	}
	return strings.Contains(ca, cb) || strings.Contains(cb, ca)
}
