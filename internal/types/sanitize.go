package types

import "strings"

// Sanitize trims every string in the record and drops list elements that
// carry no content. It is applied to best-effort decodes before they flow
// into the rest of the pipeline.
func (r *ResumeRecord) Sanitize() {
	c := &r.Contact
	for _, f := range []*string{&c.Name, &c.Email, &c.Phone, &c.LinkedIn, &c.GitHub, &c.Website, &c.Location} {
		*f = strings.TrimSpace(*f)
	}
	r.Summary = strings.TrimSpace(r.Summary)

	exp := r.Experience[:0]
	for _, e := range r.Experience {
		e.Company = strings.TrimSpace(e.Company)
		e.Title = strings.TrimSpace(e.Title)
		e.Location = strings.TrimSpace(e.Location)
		e.StartDate = strings.TrimSpace(e.StartDate)
		e.EndDate = strings.TrimSpace(e.EndDate)
		e.Bullets = compactStrings(e.Bullets)
		if e.Company == "" && e.Title == "" && len(e.Bullets) == 0 {
			continue
		}
		exp = append(exp, e)
	}
	r.Experience = exp

	edu := r.Education[:0]
	for _, e := range r.Education {
		e.Institution = strings.TrimSpace(e.Institution)
		e.Degree = strings.TrimSpace(e.Degree)
		e.Field = strings.TrimSpace(e.Field)
		e.Location = strings.TrimSpace(e.Location)
		e.StartDate = strings.TrimSpace(e.StartDate)
		e.EndDate = strings.TrimSpace(e.EndDate)
		e.GPA = strings.TrimSpace(e.GPA)
		e.Honors = compactStrings(e.Honors)
		e.RelevantCoursework = compactStrings(e.RelevantCoursework)
		if e.Institution == "" && e.Degree == "" {
			continue
		}
		edu = append(edu, e)
	}
	r.Education = edu

	projects := r.Projects[:0]
	for _, p := range r.Projects {
		p.Name = strings.TrimSpace(p.Name)
		p.Description = strings.TrimSpace(p.Description)
		p.Link = strings.TrimSpace(p.Link)
		p.GitHub = strings.TrimSpace(p.GitHub)
		p.Technologies = compactStrings(p.Technologies)
		p.Bullets = compactStrings(p.Bullets)
		if p.Name == "" && p.Description == "" && len(p.Bullets) == 0 {
			continue
		}
		projects = append(projects, p)
	}
	r.Projects = projects

	r.Skills.Languages = compactStrings(r.Skills.Languages)
	r.Skills.Frameworks = compactStrings(r.Skills.Frameworks)
	r.Skills.Tools = compactStrings(r.Skills.Tools)
	r.Skills.Databases = compactStrings(r.Skills.Databases)
	r.Skills.Other = compactStrings(r.Skills.Other)

	certs := r.Certifications[:0]
	for _, cert := range r.Certifications {
		cert.Name = strings.TrimSpace(cert.Name)
		if cert.Name == "" {
			continue
		}
		cert.Issuer = strings.TrimSpace(cert.Issuer)
		cert.Date = strings.TrimSpace(cert.Date)
		certs = append(certs, cert)
	}
	r.Certifications = certs

	awards := r.Awards[:0]
	for _, a := range r.Awards {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			continue
		}
		awards = append(awards, a)
	}
	r.Awards = awards

	pubs := r.Publications[:0]
	for _, p := range r.Publications {
		p.Title = strings.TrimSpace(p.Title)
		if p.Title == "" {
			continue
		}
		pubs = append(pubs, p)
	}
	r.Publications = pubs

	langs := r.LanguageProficiency[:0]
	for _, l := range r.LanguageProficiency {
		l.Language = strings.TrimSpace(l.Language)
		if l.Language == "" {
			continue
		}
		langs = append(langs, l)
	}
	r.LanguageProficiency = langs

	vols := r.Volunteer[:0]
	for _, v := range r.Volunteer {
		v.Organization = strings.TrimSpace(v.Organization)
		v.Role = strings.TrimSpace(v.Role)
		v.Bullets = compactStrings(v.Bullets)
		if v.Organization == "" && v.Role == "" {
			continue
		}
		vols = append(vols, v)
	}
	r.Volunteer = vols

	hobbies := r.Hobbies[:0]
	for _, h := range r.Hobbies {
		h.Name = strings.TrimSpace(h.Name)
		if h.Name == "" {
			continue
		}
		hobbies = append(hobbies, h)
	}
	r.Hobbies = hobbies

	r.References = compactStrings(r.References)

	sections := r.CustomSections[:0]
	for _, s := range r.CustomSections {
		s.Heading = strings.TrimSpace(s.Heading)
		s.Content = compactStrings(s.Content)
		if len(s.Content) == 0 {
			continue
		}
		sections = append(sections, s)
	}
	r.CustomSections = sections

	r.EnsureLists()
}

// compactStrings trims each element and drops the empty ones.
func compactStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
