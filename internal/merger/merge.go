// Package merger reconciles a text-pipeline record with a vision-derived
// one, and fills gaps in a record from a second structuring pass.
package merger

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/kairoscv/resume-extractor/internal/dedup"
	"github.com/kairoscv/resume-extractor/internal/similarity"
	"github.com/kairoscv/resume-extractor/internal/types"
	"github.com/kairoscv/resume-extractor/internal/visual"
)

// completenessHeadroom is the number of fields a text-only record is
// assumed to have missed when computing Completeness.
const completenessHeadroom = 10

// Sources is the provenance trail of a merge.
type Sources struct {
	// FromText lists the sections the text extraction populated.
	FromText []string `json:"fromText"`
	// FromVision lists every field, bullet or entry taken from the vision
	// pass.
	FromVision []string `json:"fromVision"`
	// Merged lists entries found by both passes and matched to each other.
	Merged []string `json:"merged"`
}

// VisualMetadata summarizes the vision pass alongside the merged record.
type VisualMetadata struct {
	BulletPoints int     `json:"bulletPoints"`
	BoldText     int     `json:"boldText"`
	ItalicText   int     `json:"italicText"`
	Headers      int     `json:"headers"`
	Layout       string  `json:"layout"`
	Confidence   float64 `json:"confidence"`
	Method       string  `json:"method"`
}

// Result is the output of Merge.
type Result struct {
	Data    *types.ResumeRecord `json:"data"`
	Sources Sources             `json:"sources"`
	// Completeness is a 0-100 saturation measure for comparing runs of the
	// same document, not an accuracy score.
	Completeness int             `json:"completeness"`
	Visual       *VisualMetadata `json:"visualMetadata,omitempty"`
}

// Merge folds the vision result into a copy of text. Text values are never
// replaced by shorter vision values; list entries are matched by key
// containment and unioned, unmatched vision entries are appended.
func Merge(text *types.ResumeRecord, vis *visual.VisualExtractionResult) *Result {
	data := text.Clone()
	if data == nil {
		data = types.NewResumeRecord()
	}
	m := &merge{
		data:    data,
		sources: Sources{FromText: textSections(data), FromVision: []string{}, Merged: []string{}},
	}
	textOnly := CountFields(data)

	var meta *VisualMetadata
	if vis != nil {
		if v := vis.StructuredData; v != nil {
			m.contact(v.Contact)
			m.summary(v.Summary)
			m.experience(v.Experience)
			m.education(v.Education)
			m.skills(v.Skills)
			m.projects(v.Projects)
			m.simpleLists(v)
		}
		meta = &VisualMetadata{
			BulletPoints: len(vis.VisualElements.BulletPoints),
			BoldText:     len(vis.VisualElements.BoldText),
			ItalicText:   len(vis.VisualElements.ItalicText),
			Headers:      len(vis.VisualElements.Headers),
			Layout:       vis.VisualElements.Layout,
			Confidence:   vis.Confidence,
			Method:       vis.Method,
		}
	}
	data.EnsureLists()

	return &Result{
		Data:         data,
		Sources:      m.sources,
		Completeness: Completeness(CountFields(data), textOnly),
		Visual:       meta,
	}
}

// Completeness returns round(total / max(total, textOnly+10) * 100).
func Completeness(total, textOnly int) int {
	denom := max(total, textOnly+completenessHeadroom)
	if denom == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(denom) * 100))
}

type merge struct {
	data    *types.ResumeRecord
	sources Sources
}

func (m *merge) fromVision(path string) {
	m.sources.FromVision = append(m.sources.FromVision, path)
}

func (m *merge) matched(path string) {
	m.sources.Merged = append(m.sources.Merged, path)
}

// longer adopts candidate when it is longer than *dst after trimming.
func (m *merge) longer(dst *string, candidate, path string) {
	candidate = strings.TrimSpace(candidate)
	if len([]rune(candidate)) > len([]rune(strings.TrimSpace(*dst))) {
		*dst = candidate
		m.fromVision(path)
	}
}

// gap adopts candidate only when *dst is empty.
func (m *merge) gap(dst *string, candidate, path string) {
	candidate = strings.TrimSpace(candidate)
	if strings.TrimSpace(*dst) == "" && candidate != "" {
		*dst = candidate
		m.fromVision(path)
	}
}

func (m *merge) contact(v types.Contact) {
	c := &m.data.Contact
	m.longer(&c.Name, v.Name, "contact.name")
	m.longer(&c.Email, v.Email, "contact.email")
	m.longer(&c.Phone, v.Phone, "contact.phone")
	m.longer(&c.LinkedIn, v.LinkedIn, "contact.linkedin")
	m.longer(&c.GitHub, v.GitHub, "contact.github")
	m.longer(&c.Website, v.Website, "contact.website")
	m.longer(&c.Location, v.Location, "contact.location")
}

func (m *merge) summary(v string) {
	m.longer(&m.data.Summary, v, "summary")
}

// unionInto appends the entries of add missing from *dst and records each
// under path. Comparison is exact after trimming.
func (m *merge) unionInto(dst *[]string, add []string, path string) {
	seen := make(map[string]bool, len(*dst))
	for _, s := range *dst {
		seen[strings.TrimSpace(s)] = true
	}
	for _, s := range add {
		key := strings.TrimSpace(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		*dst = append(*dst, key)
		m.fromVision(path)
	}
}

// unionFoldInto is unionInto with case-insensitive comparison.
func (m *merge) unionFoldInto(dst *[]string, add []string, path string) {
	seen := make(map[string]bool, len(*dst))
	for _, s := range *dst {
		seen[dedup.SkillKey(s)] = true
	}
	for _, s := range add {
		s = strings.TrimSpace(s)
		key := dedup.SkillKey(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		*dst = append(*dst, s)
		m.fromVision(path)
	}
}

func (m *merge) experience(entries []types.ExperienceEntry) {
	for _, v := range entries {
		if v.Company == "" && v.Title == "" && len(v.Bullets) == 0 {
			continue
		}
		i := findIndex(len(m.data.Experience), func(i int) bool {
			return similarity.Contains(m.data.Experience[i].Company, v.Company)
		})
		if i < 0 {
			m.data.Experience = append(m.data.Experience, v)
			m.fromVision("experience." + label(v.Company, v.Title))
			continue
		}
		e := &m.data.Experience[i]
		path := "experience." + label(e.Company, e.Title)
		m.matched(path)
		m.unionInto(&e.Bullets, v.Bullets, path+".bullets")
		m.gap(&e.Title, v.Title, path+".title")
		m.gap(&e.Location, v.Location, path+".location")
		m.gap(&e.StartDate, v.StartDate, path+".startDate")
		m.gap(&e.EndDate, v.EndDate, path+".endDate")
	}
}

func (m *merge) education(entries []types.EducationEntry) {
	for _, v := range entries {
		if v.Institution == "" && v.Degree == "" {
			continue
		}
		i := findIndex(len(m.data.Education), func(i int) bool {
			return similarity.Contains(m.data.Education[i].Institution, v.Institution)
		})
		if i < 0 {
			m.data.Education = append(m.data.Education, v)
			m.fromVision("education." + label(v.Institution, v.Degree))
			continue
		}
		e := &m.data.Education[i]
		path := "education." + label(e.Institution, e.Degree)
		m.matched(path)
		m.unionInto(&e.Honors, v.Honors, path+".honors")
		m.unionInto(&e.RelevantCoursework, v.RelevantCoursework, path+".relevantCoursework")
		m.gap(&e.Degree, v.Degree, path+".degree")
		m.gap(&e.Field, v.Field, path+".field")
		m.gap(&e.Location, v.Location, path+".location")
		m.gap(&e.StartDate, v.StartDate, path+".startDate")
		m.gap(&e.EndDate, v.EndDate, path+".endDate")
		m.gap(&e.GPA, v.GPA, path+".gpa")
	}
}

func (m *merge) skills(v types.Skills) {
	s := &m.data.Skills
	m.unionFoldInto(&s.Languages, v.Languages, "skills.languages")
	m.unionFoldInto(&s.Frameworks, v.Frameworks, "skills.frameworks")
	m.unionFoldInto(&s.Tools, v.Tools, "skills.tools")
	m.unionFoldInto(&s.Databases, v.Databases, "skills.databases")
	m.unionFoldInto(&s.Other, v.Other, "skills.other")
}

func (m *merge) projects(entries []types.ProjectEntry) {
	for _, v := range entries {
		key := dedup.ProjectKey(v.Name)
		if key == "" {
			continue
		}
		i := findIndex(len(m.data.Projects), func(i int) bool {
			return dedup.ProjectKey(m.data.Projects[i].Name) == key
		})
		if i < 0 {
			m.data.Projects = append(m.data.Projects, v)
			m.fromVision("projects." + v.Name)
			continue
		}
		p := &m.data.Projects[i]
		path := "projects." + p.Name
		m.matched(path)
		m.unionInto(&p.Bullets, v.Bullets, path+".bullets")
		m.unionFoldInto(&p.Technologies, v.Technologies, path+".technologies")
		m.longer(&p.Description, v.Description, path+".description")
		m.gap(&p.Link, v.Link, path+".link")
		m.gap(&p.GitHub, v.GitHub, path+".github")
	}
}

func (m *merge) simpleLists(v *types.ResumeRecord) {
	d := m.data
	d.Certifications = unionExact(m, d.Certifications, v.Certifications, "certifications", func(c types.Certification) string {
		return joinKey(c.Name, c.Issuer, c.Date, c.ExpiryDate, c.CredentialID, c.URL)
	})
	d.Awards = unionExact(m, d.Awards, v.Awards, "awards", func(a types.Award) string {
		return joinKey(a.Name, a.Issuer, a.Date, a.Description)
	})
	d.Publications = unionExact(m, d.Publications, v.Publications, "publications", func(p types.Publication) string {
		return joinKey(p.Title, joinKey(p.Authors...), p.Venue, p.Date, p.URL)
	})
	d.LanguageProficiency = unionExact(m, d.LanguageProficiency, v.LanguageProficiency, "languageProficiency", func(l types.LanguageProficiency) string {
		return joinKey(l.Language, l.Proficiency, l.Certification)
	})
	d.Volunteer = unionExact(m, d.Volunteer, v.Volunteer, "volunteer", func(e types.VolunteerEntry) string {
		return joinKey(e.Organization, e.Role, e.Location, e.StartDate, e.EndDate, joinKey(e.Bullets...))
	})
	d.Hobbies = unionExact(m, d.Hobbies, v.Hobbies, "hobbies", func(h types.Hobby) string {
		return joinKey(h.Name, h.Description)
	})
	d.CustomSections = unionExact(m, d.CustomSections, v.CustomSections, "customSections", func(c types.CustomSection) string {
		return joinKey(c.Heading, joinKey(c.Content...))
	})
	m.unionInto(&d.References, v.References, "references")
}

// unionExact appends the elements of add whose identity is not already in
// base, recording field once per added element.
func unionExact[T any](m *merge, base, add []T, field string, identity func(T) string) []T {
	seen := make(map[string]bool, len(base))
	for _, item := range base {
		seen[identity(item)] = true
	}
	for _, item := range add {
		id := identity(item)
		if seen[id] || strings.Trim(id, "\x00") == "" {
			continue
		}
		seen[id] = true
		base = append(base, item)
		m.fromVision(field)
	}
	return base
}

// joinKey joins trimmed parts into an exact-match identity.
func joinKey(parts ...string) string {
	trimmed := make([]string, len(parts))
	for i, p := range parts {
		trimmed[i] = strings.TrimSpace(p)
	}
	return strings.Join(trimmed, "\x00")
}

func findIndex(n int, match func(int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return -1
}

// label names an entry in the provenance trail.
func label(primary, fallback string) string {
	if s := strings.TrimSpace(primary); s != "" {
		return s
	}
	return strings.TrimSpace(fallback)
}

// textSections lists the populated top-level sections of r.
func textSections(r *types.ResumeRecord) []string {
	out := []string{}
	if !r.Contact.IsEmpty() {
		out = append(out, "contact")
	}
	if strings.TrimSpace(r.Summary) != "" {
		out = append(out, "summary")
	}
	sections := []struct {
		name string
		n    int
	}{
		{"experience", len(r.Experience)},
		{"education", len(r.Education)},
		{"skills", r.Skills.Total()},
		{"projects", len(r.Projects)},
		{"certifications", len(r.Certifications)},
		{"awards", len(r.Awards)},
		{"publications", len(r.Publications)},
		{"languageProficiency", len(r.LanguageProficiency)},
		{"volunteer", len(r.Volunteer)},
		{"hobbies", len(r.Hobbies)},
		{"references", len(r.References)},
		{"customSections", len(r.CustomSections)},
	}
	for _, s := range sections {
		if s.n > 0 {
			out = append(out, s.name)
		}
	}
	return out
}

// CountFields counts the populated content of r: one per non-empty scalar,
// one per list element, recursing into objects but not into list elements.
// RawText is not counted.
func CountFields(r *types.ResumeRecord) int {
	if r == nil {
		return 0
	}
	data, err := json.Marshal(r)
	if err != nil {
		return 0
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return 0
	}
	delete(tree, "rawText")
	return countValue(tree)
}

func countValue(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		if strings.TrimSpace(t) == "" {
			return 0
		}
		return 1
	case []any:
		return len(t)
	case map[string]any:
		n := 0
		for _, child := range t {
			n += countValue(child)
		}
		return n
	default:
		return 1
	}
}
