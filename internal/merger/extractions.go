package merger

import (
	"strings"

	"github.com/kairoscv/resume-extractor/internal/dedup"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// MergeExtractions fills the gaps of primary from secondary, two
// independent structurings of the same text. Populated primary fields are
// never overwritten: contact fields and the summary take the first
// non-empty value, list entries from secondary are added only when their
// key (company, institution, name, title, language, organization or
// heading) is absent from primary, and skills are unioned per bucket.
// Neither argument is modified.
func MergeExtractions(primary, secondary *types.ResumeRecord) *types.ResumeRecord {
	out := primary.Clone()
	if out == nil {
		out = types.NewResumeRecord()
	}
	if secondary == nil {
		return out
	}
	s := secondary.Clone()

	c := &out.Contact
	firstNonEmpty(&c.Name, s.Contact.Name)
	firstNonEmpty(&c.Email, s.Contact.Email)
	firstNonEmpty(&c.Phone, s.Contact.Phone)
	firstNonEmpty(&c.LinkedIn, s.Contact.LinkedIn)
	firstNonEmpty(&c.GitHub, s.Contact.GitHub)
	firstNonEmpty(&c.Website, s.Contact.Website)
	firstNonEmpty(&c.Location, s.Contact.Location)
	firstNonEmpty(&out.Summary, s.Summary)

	out.Experience = addMissing(out.Experience, s.Experience, func(e types.ExperienceEntry) string { return e.Company })
	out.Education = addMissing(out.Education, s.Education, func(e types.EducationEntry) string { return e.Institution })
	out.Projects = addMissing(out.Projects, s.Projects, func(p types.ProjectEntry) string { return p.Name })
	out.Certifications = addMissing(out.Certifications, s.Certifications, func(c types.Certification) string { return c.Name })
	out.Awards = addMissing(out.Awards, s.Awards, func(a types.Award) string { return a.Name })
	out.Publications = addMissing(out.Publications, s.Publications, func(p types.Publication) string { return p.Title })
	out.LanguageProficiency = addMissing(out.LanguageProficiency, s.LanguageProficiency, func(l types.LanguageProficiency) string { return l.Language })
	out.Volunteer = addMissing(out.Volunteer, s.Volunteer, func(v types.VolunteerEntry) string { return v.Organization })
	out.Hobbies = addMissing(out.Hobbies, s.Hobbies, func(h types.Hobby) string { return h.Name })
	out.CustomSections = addMissing(out.CustomSections, s.CustomSections, func(c types.CustomSection) string { return c.Heading })
	out.References = addMissing(out.References, s.References, func(r string) string { return r })

	sk := &out.Skills
	sk.Languages = dedup.SkillList(append(sk.Languages, s.Skills.Languages...))
	sk.Frameworks = dedup.SkillList(append(sk.Frameworks, s.Skills.Frameworks...))
	sk.Tools = dedup.SkillList(append(sk.Tools, s.Skills.Tools...))
	sk.Databases = dedup.SkillList(append(sk.Databases, s.Skills.Databases...))
	if len(sk.Other) > 0 || len(s.Skills.Other) > 0 {
		sk.Other = dedup.SkillList(append(sk.Other, s.Skills.Other...))
	}

	out.EnsureLists()
	return out
}

func firstNonEmpty(dst *string, candidate string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = strings.TrimSpace(candidate)
	}
}

// addMissing appends the items of add whose case-insensitive key is not
// already present in base. Items with an empty key are skipped.
func addMissing[T any](base, add []T, keyOf func(T) string) []T {
	seen := make(map[string]bool, len(base))
	for _, item := range base {
		seen[strings.ToLower(strings.TrimSpace(keyOf(item)))] = true
	}
	for _, item := range add {
		k := strings.ToLower(strings.TrimSpace(keyOf(item)))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		base = append(base, item)
	}
	return base
}
