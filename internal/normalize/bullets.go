package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minBulletLength = 10
	maxBulletLength = 1000
	maxHeaderLength = 30
)

var (
	// glyph bullets may touch the text; "-" and "*" need a following space
	// so "-5% churn" and "*nix" survive
	glyphBullet = regexp.MustCompile(`^[•●▪◦○■□➢➣✓✔☐☑⦿⦾◆◇►▸‣⁃]\x{FE0E}?\s*`)
	asciiBullet = regexp.MustCompile(`^[-*]\s+`)

	whitespaceRun = regexp.MustCompile(`\s+`)

	onlyDigits       = regexp.MustCompile(`^\d+$`)
	onlyDateChars    = regexp.MustCompile(`^[\d\s\-/]+$`)
	onlyUpperLetters = regexp.MustCompile(`^[A-Z\s]+$`)
)

var quoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`, "„", `"`, "«", `"`, "»", `"`,
	"‘", "'", "’", "'", "‚", "'",
	"—", " - ", "–", " - ",
)

// CleanBulletPoint removes a leading bullet glyph, straightens smart quotes,
// turns em and en dashes into a spaced hyphen, and collapses whitespace.
func CleanBulletPoint(bullet string) string {
	b := strings.TrimSpace(bullet)
	if b == "" {
		return ""
	}

	if loc := glyphBullet.FindStringIndex(b); loc != nil {
		b = b[loc[1]:]
	} else if loc := asciiBullet.FindStringIndex(b); loc != nil {
		b = b[loc[1]:]
	}

	b = quoteReplacer.Replace(b)
	b = whitespaceRun.ReplaceAllString(b, " ")
	return strings.TrimSpace(b)
}

// IsValidBullet rejects fragments that are too short or too long, bare
// numbers or dates, and short all-caps lines that are really headers.
func IsValidBullet(bullet string) bool {
	n := utf8.RuneCountInString(bullet)
	if n < minBulletLength || n > maxBulletLength {
		return false
	}
	if onlyDigits.MatchString(bullet) || onlyDateChars.MatchString(bullet) {
		return false
	}
	if onlyUpperLetters.MatchString(bullet) && n < maxHeaderLength {
		return false
	}
	return true
}

// CleanBullets cleans every bullet, drops invalid ones, and removes exact
// duplicates while keeping first-seen order.
func CleanBullets(bullets []string) []string {
	out := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if c := CleanBulletPoint(b); IsValidBullet(c) {
			out = append(out, c)
		}
	}
	return DedupeStrings(out)
}

// DedupeStrings trims each element, drops empties, and removes exact
// duplicates. Order is preserved.
func DedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// DedupeFold is DedupeStrings with case-insensitive comparison; the first
// spelling wins.
func DedupeFold(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
