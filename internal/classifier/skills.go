package classifier

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
	"strings"

	"github.com/kairoscv/resume-extractor/internal/dedup"
	"github.com/kairoscv/resume-extractor/internal/prompts"
	"github.com/kairoscv/resume-extractor/internal/skills"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// CategorizeSkillsBatch sorts a batch of skills into buckets with a single
// model call. Every input skill lands in exactly one bucket with its
// original spelling; skills the model leaves out or renames are placed by
// the lookup tables. Without a usable answer the whole batch is placed by
// the lookup tables and the error is returned alongside.
func (c *Classifier) CategorizeSkillsBatch(ctx context.Context, names []string) (types.Skills, error) {
	names = dedup.SkillList(names)
	if len(names) == 0 || !c.Available() {
		return skills.Bucket(names), nil
	}

	encoded, err := json.Marshal(names)
	if err != nil {
		return skills.Bucket(names), err
	}
	prompt := prompts.Format(prompts.MustGet("classification.json", "categorize-skills"), map[string]string{
		"Skills": string(encoded),
	})

	var resp map[string][]string
	if err := c.generate(ctx, prompt, &resp); err != nil {
		c.log.WithError(err).WithField("skills", len(names)).Warn("Skill categorization failed, using lookup tables")
		return skills.Bucket(names), err
	}
	return reconcileSkills(names, resp), nil
}

// reconcileSkills maps a model answer back onto the input names.
func reconcileSkills(names []string, resp map[string][]string) types.Skills {
	original := make(map[string]string, len(names))
	for _, n := range names {
		original[dedup.SkillKey(n)] = n
	}

	out := skills.Bucket(nil)
	placed := make(map[string]bool, len(names))
	for _, label := range responseLabels(resp) {
		category, ok := skills.ParseCategory(label)
		if !ok {
			continue
		}
		for _, item := range resp[label] {
			key := dedup.SkillKey(item)
			name, known := original[key]
			if !known || placed[key] {
				continue
			}
			placed[key] = true
			skills.Add(&out, category, name)
		}
	}

	for _, n := range names {
		if key := dedup.SkillKey(n); !placed[key] {
			skills.Add(&out, skills.Categorize(n), n)
		}
	}
	return orderLike(names, out)
}

// responseLabels returns the answer's bucket labels, canonical ones first,
// so a skill listed twice always goes to the same bucket.
func responseLabels(resp map[string][]string) []string {
	canonical := []string{"languages", "frameworks", "tools", "databases", "other"}
	labels := make([]string, 0, len(resp))
	for _, l := range canonical {
		if _, ok := resp[l]; ok {
			labels = append(labels, l)
		}
	}
	var extra []string
	for l := range resp {
		if !slices.Contains(canonical, l) {
			extra = append(extra, l)
		}
	}
	sort.Strings(extra)
	return append(labels, extra...)
}

// orderLike sorts every bucket by the position of its skills in names, so
// the result does not depend on map iteration order.
func orderLike(names []string, s types.Skills) types.Skills {
	pos := make(map[string]int, len(names))
	for i, n := range names {
		pos[strings.ToLower(n)] = i
	}
	sortBucket := func(list []string) []string {
		sort.SliceStable(list, func(i, j int) bool {
			return pos[strings.ToLower(list[i])] < pos[strings.ToLower(list[j])]
		})
		return list
	}
	s.Languages = sortBucket(s.Languages)
	s.Frameworks = sortBucket(s.Frameworks)
	s.Tools = sortBucket(s.Tools)
	s.Databases = sortBucket(s.Databases)
	s.Other = sortBucket(s.Other)
	return s
}
