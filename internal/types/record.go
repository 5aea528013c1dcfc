// Package types provides the structured resume record produced by the extraction pipeline.
package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Contact holds the contact block of a resume. Empty strings mean "absent".
type Contact struct {
	Name     string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=40"`
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,max=300"`
	GitHub   string `json:"github,omitempty" validate:"omitempty,max=300"`
	Website  string `json:"website,omitempty" validate:"omitempty,max=300"`
	Location string `json:"location,omitempty" validate:"omitempty,max=200"`
}

// IsEmpty reports whether no contact field is populated.
func (c Contact) IsEmpty() bool {
	return c == Contact{}
}

// ExperienceEntry is a single role.
type ExperienceEntry struct {
	Company   string   `json:"company"`
	Title     string   `json:"title"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"startDate,omitempty" validate:"omitempty,max=40"`
	EndDate   string   `json:"endDate,omitempty" validate:"omitempty,max=40"`
	Bullets   []string `json:"bullets"`
}

// EducationEntry is a single degree or program.
type EducationEntry struct {
	Institution        string   `json:"institution"`
	Degree             string   `json:"degree,omitempty"`
	Field              string   `json:"field,omitempty"`
	Location           string   `json:"location,omitempty"`
	StartDate          string   `json:"startDate,omitempty" validate:"omitempty,max=40"`
	EndDate            string   `json:"endDate,omitempty" validate:"omitempty,max=40"`
	GPA                string   `json:"gpa,omitempty" validate:"omitempty,max=20"`
	Honors             []string `json:"honors,omitempty"`
	RelevantCoursework []string `json:"relevantCoursework,omitempty"`
}

// ProjectEntry is a single project.
type ProjectEntry struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Bullets      []string `json:"bullets"`
	Link         string   `json:"link,omitempty"`
	GitHub       string   `json:"github,omitempty"`
}

// Skills groups skills into the four canonical buckets. Other collects
// skills that could not be placed.
type Skills struct {
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	Tools      []string `json:"tools"`
	Databases  []string `json:"databases"`
	Other      []string `json:"other,omitempty"`
}

// Total returns the number of skills across every bucket.
func (s Skills) Total() int {
	return len(s.Languages) + len(s.Frameworks) + len(s.Tools) + len(s.Databases) + len(s.Other)
}

// Certification is a professional certification.
type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer,omitempty"`
	Date         string `json:"date,omitempty"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Award is an honor or prize.
type Award struct {
	Name        string `json:"name"`
	Issuer      string `json:"issuer,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Publication is a paper, article, or talk.
type Publication struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	Venue   string   `json:"venue,omitempty"`
	Date    string   `json:"date,omitempty"`
	URL     string   `json:"url,omitempty"`
}

// LanguageProficiency is a spoken language.
type LanguageProficiency struct {
	Language      string `json:"language"`
	Proficiency   string `json:"proficiency,omitempty"`
	Certification string `json:"certification,omitempty"`
}

// VolunteerEntry is an unpaid role.
type VolunteerEntry struct {
	Organization string   `json:"organization"`
	Role         string   `json:"role,omitempty"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
}

// Hobby is a personal interest.
type Hobby struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CustomSection is a catch-all for headed content that fits no other section.
type CustomSection struct {
	Heading string   `json:"heading"`
	Content []string `json:"content"`
}

// ResumeRecord is the canonical structured document.
type ResumeRecord struct {
	Contact             Contact               `json:"contact"`
	Summary             string                `json:"summary,omitempty"`
	Experience          []ExperienceEntry     `json:"experience" validate:"dive"`
	Education           []EducationEntry      `json:"education" validate:"dive"`
	Skills              Skills                `json:"skills"`
	Projects            []ProjectEntry        `json:"projects"`
	Certifications      []Certification       `json:"certifications,omitempty"`
	Awards              []Award               `json:"awards,omitempty"`
	Publications        []Publication         `json:"publications,omitempty"`
	LanguageProficiency []LanguageProficiency `json:"languageProficiency,omitempty"`
	Volunteer           []VolunteerEntry      `json:"volunteer,omitempty"`
	Hobbies             []Hobby               `json:"hobbies,omitempty"`
	References          []string              `json:"references,omitempty"`
	CustomSections      []CustomSection       `json:"customSections,omitempty"`
	RawText             string                `json:"rawText,omitempty"`
}

// NewResumeRecord returns an empty record with every list initialized.
func NewResumeRecord() *ResumeRecord {
	r := &ResumeRecord{}
	r.EnsureLists()
	return r
}

// EnsureLists replaces nil required lists with empty ones so the record
// always serializes with arrays instead of nulls.
func (r *ResumeRecord) EnsureLists() {
	if r.Experience == nil {
		r.Experience = []ExperienceEntry{}
	}
	if r.Education == nil {
		r.Education = []EducationEntry{}
	}
	if r.Projects == nil {
		r.Projects = []ProjectEntry{}
	}
	if r.Skills.Languages == nil {
		r.Skills.Languages = []string{}
	}
	if r.Skills.Frameworks == nil {
		r.Skills.Frameworks = []string{}
	}
	if r.Skills.Tools == nil {
		r.Skills.Tools = []string{}
	}
	if r.Skills.Databases == nil {
		r.Skills.Databases = []string{}
	}
	for i := range r.Experience {
		if r.Experience[i].Bullets == nil {
			r.Experience[i].Bullets = []string{}
		}
	}
	for i := range r.Projects {
		if r.Projects[i].Bullets == nil {
			r.Projects[i].Bullets = []string{}
		}
	}
}

// HasIdentity reports whether the record carries a name or an email.
// A record with neither is not a valid resume.
func (r *ResumeRecord) HasIdentity() bool {
	return r.Contact.Name != "" || r.Contact.Email != ""
}

// Clone returns a deep copy so pipeline stages never share slices.
func (r *ResumeRecord) Clone() *ResumeRecord {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		cp := *r
		return &cp
	}
	var out ResumeRecord
	if err := json.Unmarshal(data, &out); err != nil {
		cp := *r
		return &cp
	}
	out.EnsureLists()
	return &out
}

// Validate checks the record's field constraints.
func (r *ResumeRecord) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
