package dedup

import (
	"strings"

	"github.com/kairoscv/resume-extractor/internal/types"
)

// Projects removes projects whose names match exactly, ignoring case and
// surrounding whitespace. Unnamed projects are never merged.
func Projects(entries []types.ProjectEntry) []types.ProjectEntry {
	out := make([]types.ProjectEntry, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, candidate := range entries {
		key := ProjectKey(candidate.Name)
		if i, ok := index[key]; ok && key != "" {
			mergeProject(&out[i], candidate)
			continue
		}
		candidate.Bullets = unionExact(nil, candidate.Bullets)
		if candidate.Technologies != nil {
			candidate.Technologies = unionFold(nil, candidate.Technologies)
		}
		if key != "" {
			index[key] = len(out)
		}
		out = append(out, candidate)
	}
	return out
}

// ProjectKey is the matching key for a project name.
func ProjectKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func mergeProject(dst *types.ProjectEntry, src types.ProjectEntry) {
	dst.Bullets = unionExact(dst.Bullets, src.Bullets)
	if len(src.Technologies) > 0 {
		dst.Technologies = unionFold(dst.Technologies, src.Technologies)
	}
	backfill(&dst.Description, src.Description)
	backfill(&dst.Link, src.Link)
	backfill(&dst.GitHub, src.GitHub)
}
