package normalize

import (
	"regexp"
	"strings"
)

var (
	pageOfPattern    = regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`)
	pageSlashPattern = regexp.MustCompile(`^\d+\s*/\s*\d+$`)
	loneNumber       = regexp.MustCompile(`^\d+$`)
	blankLineRun     = regexp.MustCompile(`\n{3,}`)
)

// RemovePageArtifacts strips multi-page residue from extracted text: page
// counters, standalone page numbers, the candidate's name repeated as a page
// header, and consecutive duplicate lines.
func RemovePageArtifacts(text, contactName string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	name := strings.TrimSpace(contactName)
	nameCount := 0
	if name != "" {
		for _, line := range lines {
			if strings.EqualFold(strings.TrimSpace(line), name) {
				nameCount++
			}
		}
	}

	out := make([]string, 0, len(lines))
	previous := ""
	nameKept := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case pageOfPattern.MatchString(trimmed),
			pageSlashPattern.MatchString(trimmed),
			loneNumber.MatchString(trimmed):
			continue
		case nameCount > 1 && strings.EqualFold(trimmed, name):
			// the first occurrence is the real header, repeats are page headers
			if nameKept {
				continue
			}
			nameKept = true
		}
		if trimmed != "" && trimmed == previous {
			continue
		}
		out = append(out, line)
		previous = trimmed
	}

	return blankLineRun.ReplaceAllString(strings.Join(out, "\n"), "\n\n")
}
