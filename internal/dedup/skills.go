package dedup

import (
	"strings"

	"github.com/kairoscv/resume-extractor/internal/types"
)

// skillAliases maps common abbreviations to the name they abbreviate. Only
// exact (case-insensitive) matches are rewritten, so versioned skills such
// as "React 18" or "Python 3.9" keep their own identity.
var skillAliases = map[string]string{
	"js":         "javascript",
	"ecmascript": "javascript",
	"ts":         "typescript",
	"py":         "python",
	"golang":     "go",
	"k8s":        "kubernetes",
	"postgres":   "postgresql",
	"psql":       "postgresql",
	"mongo":      "mongodb",
	"node":       "node.js",
	"nodejs":     "node.js",
	"reactjs":    "react",
	"react.js":   "react",
	"vuejs":      "vue",
	"vue.js":     "vue",
	"nextjs":     "next.js",
	"c sharp":    "c#",
	"csharp":     "c#",
	"cpp":        "c++",
	"aws":        "amazon web services",
	"gcp":        "google cloud platform",
	"tf":         "terraform",
}

// SkillKey is the comparison key for a skill: lowercase, trimmed, with
// known abbreviations expanded.
func SkillKey(skill string) string {
	key := strings.ToLower(strings.Join(strings.Fields(skill), " "))
	if full, ok := skillAliases[key]; ok {
		return full
	}
	return key
}

// SkillList removes case-insensitive and abbreviation duplicates from one
// skill list. The first spelling seen is kept.
func SkillList(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := SkillKey(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// Skills dedupes each skill bucket independently.
func Skills(s types.Skills) types.Skills {
	out := types.Skills{
		Languages:  SkillList(s.Languages),
		Frameworks: SkillList(s.Frameworks),
		Tools:      SkillList(s.Tools),
		Databases:  SkillList(s.Databases),
	}
	if len(s.Other) > 0 {
		out.Other = SkillList(s.Other)
	}
	return out
}
