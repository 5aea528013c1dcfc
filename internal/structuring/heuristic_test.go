package structuring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `JOHN DOE
San Francisco, CA | john.doe@example.com | (555) 123-4567
linkedin.com/in/johndoe | github.com/johndoe | johndoe.dev

SUMMARY
Backend engineer with eight years of experience building distributed systems.

EXPERIENCE
Google Inc    Mountain View, CA
Senior Software Engineer    Jan 2020 - Present
• Led migration of billing services to Go, cutting latency by 40%
• Built a rate limiter used by 30 internal teams
Software Engineer | Acme Corp | 2016 - 2019
- Developed REST APIs for the payments platform
Maintained the CI pipeline and release tooling

EDUCATION
Stanford University    Stanford, CA
B.S. Computer Science, 2016
GPA: 3.8/4.0
Relevant Coursework: Distributed Systems, Databases

SKILLS
Languages: Go, Python, JavaScript
Frameworks: React, Django
Docker, Kubernetes, PostgreSQL, Redis

PROJECTS
Resume Parser | Go, PostgreSQL
• Built a rule-based resume parser with section detection
Portfolio Site - Personal site with a blog and project gallery

CERTIFICATIONS
AWS Certified Solutions Architect | Amazon Web Services | 2021

LANGUAGES
Spanish (Fluent), French (Conversational)

LEADERSHIP
Organized a monthly Go meetup with 200 members
`

func TestParseHeuristic_FullResume(t *testing.T) {
	record := ParseHeuristic(sampleResume)
	require.NotNil(t, record)

	t.Run("contact", func(t *testing.T) {
		c := record.Contact
		assert.Equal(t, "JOHN DOE", c.Name)
		assert.Equal(t, "john.doe@example.com", c.Email)
		assert.Equal(t, "555 123-4567", c.Phone)
		assert.Equal(t, "linkedin.com/in/johndoe", c.LinkedIn)
		assert.Equal(t, "github.com/johndoe", c.GitHub)
		assert.Equal(t, "johndoe.dev", c.Website)
		assert.Equal(t, "San Francisco, CA", c.Location)
	})

	t.Run("summary", func(t *testing.T) {
		assert.Equal(t, "Backend engineer with eight years of experience building distributed systems.", record.Summary)
	})

	t.Run("experience", func(t *testing.T) {
		require.Len(t, record.Experience, 2)

		first := record.Experience[0]
		assert.Equal(t, "Google Inc", first.Company)
		assert.Equal(t, "Senior Software Engineer", first.Title)
		assert.Equal(t, "Mountain View, CA", first.Location)
		assert.Equal(t, "Jan 2020", first.StartDate)
		assert.Equal(t, "Present", first.EndDate)
		assert.Equal(t, []string{
			"Led migration of billing services to Go, cutting latency by 40%",
			"Built a rate limiter used by 30 internal teams",
		}, first.Bullets)

		second := record.Experience[1]
		assert.Equal(t, "Acme Corp", second.Company)
		assert.Equal(t, "Software Engineer", second.Title)
		assert.Equal(t, "2016", second.StartDate)
		assert.Equal(t, "2019", second.EndDate)
		assert.Equal(t, []string{
			"Developed REST APIs for the payments platform",
			"Maintained the CI pipeline and release tooling",
		}, second.Bullets)
	})

	t.Run("education", func(t *testing.T) {
		require.Len(t, record.Education, 1)
		edu := record.Education[0]
		assert.Equal(t, "Stanford University", edu.Institution)
		assert.Equal(t, "Stanford, CA", edu.Location)
		assert.Equal(t, "B.S.", edu.Degree)
		assert.Equal(t, "Computer Science", edu.Field)
		assert.Equal(t, "2016", edu.EndDate)
		assert.Equal(t, "3.8/4.0", edu.GPA)
		assert.Equal(t, []string{"Distributed Systems", "Databases"}, edu.RelevantCoursework)
	})

	t.Run("skills", func(t *testing.T) {
		assert.Equal(t, []string{"Go", "Python", "JavaScript"}, record.Skills.Languages)
		assert.Equal(t, []string{"React", "Django"}, record.Skills.Frameworks)
		assert.Equal(t, []string{"Docker", "Kubernetes"}, record.Skills.Tools)
		assert.Equal(t, []string{"PostgreSQL", "Redis"}, record.Skills.Databases)
	})

	t.Run("projects", func(t *testing.T) {
		require.Len(t, record.Projects, 2)
		assert.Equal(t, "Resume Parser", record.Projects[0].Name)
		assert.Equal(t, []string{"Go", "PostgreSQL"}, record.Projects[0].Technologies)
		assert.Equal(t, []string{"Built a rule-based resume parser with section detection"}, record.Projects[0].Bullets)
		assert.Equal(t, "Portfolio Site", record.Projects[1].Name)
		assert.Equal(t, "Personal site with a blog and project gallery", record.Projects[1].Description)
		assert.NotNil(t, record.Projects[1].Bullets)
	})

	t.Run("open collections", func(t *testing.T) {
		require.Len(t, record.Certifications, 1)
		assert.Equal(t, "AWS Certified Solutions Architect", record.Certifications[0].Name)
		assert.Equal(t, "Amazon Web Services", record.Certifications[0].Issuer)
		assert.Equal(t, "2021", record.Certifications[0].Date)

		require.Len(t, record.LanguageProficiency, 2)
		assert.Equal(t, "Spanish", record.LanguageProficiency[0].Language)
		assert.Equal(t, "Fluent", record.LanguageProficiency[0].Proficiency)
		assert.Equal(t, "French", record.LanguageProficiency[1].Language)

		require.Len(t, record.CustomSections, 1)
		assert.Equal(t, "LEADERSHIP", record.CustomSections[0].Heading)
		assert.Equal(t, []string{"Organized a monthly Go meetup with 200 members"}, record.CustomSections[0].Content)
	})
}

func TestParseHeuristic_Empty(t *testing.T) {
	for _, text := range []string{"", "   \n\n  "} {
		record := ParseHeuristic(text)
		require.NotNil(t, record)
		assert.True(t, record.Contact.IsEmpty())
		assert.NotNil(t, record.Experience)
		assert.NotNil(t, record.Education)
		assert.NotNil(t, record.Projects)
		assert.NotNil(t, record.Skills.Languages)
	}
}

func TestParseHeuristic_TitleAtCompanyAndLocationLine(t *testing.T) {
	text := `Jane Roe
jane@example.com

Work Experience
Staff Engineer at Initech
Austin, TX
Mar 2018 - Dec 2021
• Designed the reporting service
`
	record := ParseHeuristic(text)
	assert.Equal(t, "Jane Roe", record.Contact.Name)
	require.Len(t, record.Experience, 1)
	exp := record.Experience[0]
	assert.Equal(t, "Staff Engineer", exp.Title)
	assert.Equal(t, "Initech", exp.Company)
	assert.Equal(t, "Austin, TX", exp.Location)
	assert.Equal(t, "Mar 2018", exp.StartDate)
	assert.Equal(t, "Dec 2021", exp.EndDate)
	assert.Equal(t, []string{"Designed the reporting service"}, exp.Bullets)
}

func TestParseHeuristic_ContactFoundOutsideHeader(t *testing.T) {
	text := `Experience
Acme Corp
Engineer

Contact: jane@example.com`
	record := ParseHeuristic(text)
	assert.Equal(t, "jane@example.com", record.Contact.Email)
}

func TestParseHeuristic_NoHeadings(t *testing.T) {
	lines := "Jane Roe\njane@example.com\n"
	for i := 0; i < 12; i++ {
		lines += "Free text line that belongs to no section\n"
	}
	record := ParseHeuristic(lines)
	assert.Equal(t, "Jane Roe", record.Contact.Name)
	require.Len(t, record.CustomSections, 1)
	assert.Equal(t, unsectionedHeading, record.CustomSections[0].Heading)
	assert.Len(t, record.CustomSections[0].Content, 4)
}

func TestParseHeuristic_ProgrammingLanguagesUnderLanguages(t *testing.T) {
	text := "Jane Roe\n\nLanguages\nGo, Rust\nGerman (Native)\n"
	record := ParseHeuristic(text)
	assert.Equal(t, []string{"Go", "Rust"}, record.Skills.Languages)
	require.Len(t, record.LanguageProficiency, 1)
	assert.Equal(t, "German", record.LanguageProficiency[0].Language)
	assert.Equal(t, "Native", record.LanguageProficiency[0].Proficiency)
}

func TestExtractDates(t *testing.T) {
	tests := []struct {
		line      string
		wantStart string
		wantEnd   string
		wantRest  string
		wantFound bool
	}{
		{"Senior Engineer    Jan 2020 - Present", "Jan 2020", "Present", "Senior Engineer", true},
		{"Acme | 2016 – 2019", "2016", "2019", "Acme", true},
		{"September 2018 to June 2020", "Sep 2018", "Jun 2020", "", true},
		{"01/2019 - 03/2021", "Jan 2019", "Mar 2021", "", true},
		{"Graduated 2016", "2016", "", "Graduated", true},
		{"Since Present", "", "Present", "Since", true},
		{"Engineer (2019-2020)", "2019", "2020", "Engineer", true},
		{"No dates here", "", "", "No dates here", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			span := extractDates(tt.line)
			assert.Equal(t, tt.wantStart, span.start)
			assert.Equal(t, tt.wantEnd, span.end)
			assert.Equal(t, tt.wantRest, span.rest)
			assert.Equal(t, tt.wantFound, span.found)
		})
	}
}

func TestClassifyHeading(t *testing.T) {
	tests := []struct {
		line   string
		want   sectionKind
		wantOK bool
	}{
		{"EXPERIENCE", sectionExperience, true},
		{"Work Experience:", sectionExperience, true},
		{"Technical Skills", sectionSkills, true},
		{"HONORS & AWARDS", sectionAwards, true},
		{"VOLUNTEER EXPERIENCE", sectionVolunteer, true},
		{"RELEVANT PROJECTS", sectionProjects, true},
		{"PROJECT MANAGER", "", false},
		{"Senior Project Lead", "", false},
		{"Languages: Go, Python", "", false},
		{"JOHN DOE", "", false},
		{"Experience in 2020", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := classifyHeading(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
