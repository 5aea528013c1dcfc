package skills

import (
	"regexp"
	"strings"
)

var (
	separators = regexp.MustCompile(`\s*[,|•●▪;]\s*`)
	// label matches a short "Heading:" prefix, e.g. "Languages: Go, Rust".
	label = regexp.MustCompile(`^([A-Za-z][A-Za-z &/-]{1,40}):\s*(.*)$`)
	// parenthetical keeps "Go (Gin, Echo)" from being split inside the parens.
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
)

// Split breaks a line of skills on commas, pipes, semicolons and bullet
// glyphs. Separators inside parentheses are left alone.
func Split(line string) []string {
	masked, restore := maskParens(line)
	parts := separators.Split(masked, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(restore(p))
		p = strings.TrimLeft(p, "-*· ")
		p = strings.TrimRight(p, ".")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitLabeled splits a skills line that may start with a "Label:" prefix.
// The label is returned without its colon, or empty when there is none.
func SplitLabeled(line string) (string, []string) {
	line = strings.TrimSpace(line)
	if m := label.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), Split(m[2])
	}
	return "", Split(line)
}

const maskComma = "\x00"

// maskParens replaces commas inside parentheses with a placeholder.
func maskParens(line string) (string, func(string) string) {
	masked := parenthetical.ReplaceAllStringFunc(line, func(group string) string {
		return strings.NewReplacer(",", maskComma, ";", maskComma, "|", maskComma).Replace(group)
	})
	return masked, func(s string) string {
		return strings.ReplaceAll(s, maskComma, ",")
	}
}
