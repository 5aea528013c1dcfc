// Package cleanup applies the normalization layer to a structured resume:
// contact canonicalization, fuzzy deduplication, bullet cleanup, open
// collection dedup, validation, and required-field defaulting.
package cleanup

import (
	"strings"

	"github.com/kairoscv/resume-extractor/internal/dedup"
	"github.com/kairoscv/resume-extractor/internal/normalize"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// HandleAllEdgeCases normalizes and dedupes a record. The input is not
// modified; a cleaned copy is returned. A nil record yields an empty one.
// rawText, when given, is stripped of page artifacts and stored on the
// result.
func HandleAllEdgeCases(record *types.ResumeRecord, rawText string) *types.ResumeRecord {
	var r *types.ResumeRecord
	if record == nil {
		r = types.NewResumeRecord()
	} else {
		r = record.Clone()
	}

	cleanedText := rawText
	if cleanedText != "" {
		cleanedText = normalize.RemovePageArtifacts(cleanedText, strings.TrimSpace(r.Contact.Name))
	}

	normalizeContact(&r.Contact)
	r.Summary = strings.TrimSpace(r.Summary)
	r.Experience = normalizeExperience(r.Experience)
	r.Education = normalizeEducation(r.Education)
	r.Skills = dedup.Skills(r.Skills)
	r.Projects = normalizeProjects(r.Projects)
	r.Certifications = normalizeCertifications(r.Certifications)
	r.Awards = normalizeAwards(r.Awards)
	r.Publications = normalizePublications(r.Publications)
	r.Volunteer = normalizeVolunteer(r.Volunteer)
	r.Hobbies = normalizeHobbies(r.Hobbies)
	r.References = normalize.DedupeStrings(r.References)
	r.LanguageProficiency = normalizeLanguages(r.LanguageProficiency)
	r.CustomSections = normalizeCustomSections(r.CustomSections)

	if cleanedText != "" {
		r.RawText = cleanedText
	}

	r.EnsureLists()
	return r
}

func normalizeContact(c *types.Contact) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = normalize.NormalizePhoneNumber(c.Phone)
	c.LinkedIn = normalize.NormalizeURL(c.LinkedIn)
	c.GitHub = normalize.NormalizeURL(c.GitHub)
	c.Website = normalize.NormalizeURL(c.Website)
	c.Location = strings.TrimSpace(c.Location)
}

// normalizeExperience keeps entries without bullets; dropping them would
// silently lose a role the candidate listed.
func normalizeExperience(entries []types.ExperienceEntry) []types.ExperienceEntry {
	entries = dedup.Experience(entries)
	for i := range entries {
		e := &entries[i]
		e.StartDate, e.EndDate = normalize.ValidateDateRange(e.StartDate, e.EndDate)
		e.Bullets = normalize.CleanBullets(e.Bullets)
		e.Company = strings.TrimSpace(e.Company)
		e.Title = strings.TrimSpace(e.Title)
		e.Location = strings.TrimSpace(e.Location)
	}
	// date normalization can surface duplicates the first pass could not see
	return dedup.Experience(entries)
}

func normalizeEducation(entries []types.EducationEntry) []types.EducationEntry {
	entries = dedup.Education(entries)
	for i := range entries {
		e := &entries[i]
		if e.StartDate != "" || e.EndDate != "" {
			e.StartDate, e.EndDate = normalize.ValidateDateRange(e.StartDate, e.EndDate)
		}
		e.Institution = strings.TrimSpace(e.Institution)
		e.Degree = strings.TrimSpace(e.Degree)
		e.Field = strings.TrimSpace(e.Field)
		e.Location = strings.TrimSpace(e.Location)
		e.GPA = strings.TrimSpace(e.GPA)
		if e.Honors != nil {
			e.Honors = normalize.DedupeStrings(e.Honors)
		}
		if e.RelevantCoursework != nil {
			e.RelevantCoursework = normalize.DedupeStrings(e.RelevantCoursework)
		}
	}
	return entries
}

func normalizeProjects(entries []types.ProjectEntry) []types.ProjectEntry {
	entries = dedup.Projects(entries)
	for i := range entries {
		p := &entries[i]
		p.Bullets = normalize.CleanBullets(p.Bullets)
		if p.Technologies != nil {
			p.Technologies = dedup.SkillList(p.Technologies)
		}
		p.Link = normalize.NormalizeURL(p.Link)
		p.GitHub = normalize.NormalizeURL(p.GitHub)
		p.Name = strings.TrimSpace(p.Name)
		p.Description = strings.TrimSpace(p.Description)
	}
	return entries
}

func normalizeCertifications(certs []types.Certification) []types.Certification {
	if certs == nil {
		return nil
	}
	seen := make(map[string]bool, len(certs))
	out := make([]types.Certification, 0, len(certs))
	for _, c := range certs {
		c.Name = strings.TrimSpace(c.Name)
		c.Issuer = strings.TrimSpace(c.Issuer)
		c.Date = strings.TrimSpace(c.Date)
		if c.Name == "" {
			continue
		}
		key := strings.ToLower(c.Name + "|" + c.Issuer)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func normalizeAwards(awards []types.Award) []types.Award {
	if awards == nil {
		return nil
	}
	seen := make(map[string]bool, len(awards))
	out := make([]types.Award, 0, len(awards))
	for _, a := range awards {
		a.Name = strings.TrimSpace(a.Name)
		a.Issuer = strings.TrimSpace(a.Issuer)
		a.Date = strings.TrimSpace(a.Date)
		a.Description = strings.TrimSpace(a.Description)
		if a.Name == "" {
			continue
		}
		key := strings.ToLower(a.Name + "|" + a.Issuer)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

func normalizePublications(pubs []types.Publication) []types.Publication {
	if pubs == nil {
		return nil
	}
	seen := make(map[string]bool, len(pubs))
	out := make([]types.Publication, 0, len(pubs))
	for _, p := range pubs {
		p.Title = strings.TrimSpace(p.Title)
		p.Venue = strings.TrimSpace(p.Venue)
		p.Date = strings.TrimSpace(p.Date)
		p.URL = normalize.NormalizeURL(p.URL)
		key := strings.ToLower(p.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func normalizeVolunteer(entries []types.VolunteerEntry) []types.VolunteerEntry {
	for i := range entries {
		v := &entries[i]
		if v.StartDate != "" || v.EndDate != "" {
			v.StartDate, v.EndDate = normalize.ValidateDateRange(v.StartDate, v.EndDate)
		}
		if v.Bullets != nil {
			v.Bullets = normalize.CleanBullets(v.Bullets)
		}
		v.Organization = strings.TrimSpace(v.Organization)
		v.Role = strings.TrimSpace(v.Role)
		v.Location = strings.TrimSpace(v.Location)
	}
	return entries
}

func normalizeHobbies(hobbies []types.Hobby) []types.Hobby {
	if hobbies == nil {
		return nil
	}
	seen := make(map[string]bool, len(hobbies))
	out := make([]types.Hobby, 0, len(hobbies))
	for _, h := range hobbies {
		h.Name = strings.TrimSpace(h.Name)
		h.Description = strings.TrimSpace(h.Description)
		key := strings.ToLower(h.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}

func normalizeLanguages(langs []types.LanguageProficiency) []types.LanguageProficiency {
	if langs == nil {
		return nil
	}
	seen := make(map[string]bool, len(langs))
	out := make([]types.LanguageProficiency, 0, len(langs))
	for _, l := range langs {
		l.Language = strings.TrimSpace(l.Language)
		l.Proficiency = strings.TrimSpace(l.Proficiency)
		l.Certification = strings.TrimSpace(l.Certification)
		key := strings.ToLower(l.Language)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

func normalizeCustomSections(sections []types.CustomSection) []types.CustomSection {
	if sections == nil {
		return nil
	}
	out := make([]types.CustomSection, 0, len(sections))
	for _, s := range sections {
		s.Heading = strings.TrimSpace(s.Heading)
		content := make([]string, 0, len(s.Content))
		for _, c := range s.Content {
			if c = normalize.CleanBulletPoint(c); c != "" {
				content = append(content, c)
			}
		}
		s.Content = normalize.DedupeStrings(content)
		if len(s.Content) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}
